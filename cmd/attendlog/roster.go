package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attendlog/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Validate and print the staff roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := roster.Load(cfg.Analysis.RosterPath)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, e := range roster.SortedByRow(r) {
			fmt.Fprintf(w, "%4d  %-10s %s\n", e.Row, e.Department, e.Name)
		}
		fmt.Fprintf(w, "%d staff\n", len(r))
		return nil
	},
}
