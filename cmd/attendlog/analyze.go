package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"attendlog/internal/analysis"
	"attendlog/internal/attendance"
	"attendlog/internal/model"
	"attendlog/internal/roster"
)

var (
	analyzeYear   int
	analyzeMonth  int
	analyzeOutDir string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [workbook.xls|workbook.xlsx]",
	Short: "Analyze one attendance workbook and write Analysis_<month>_<year>.xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := roster.Load(cfg.Analysis.RosterPath)
		if err != nil {
			return err
		}

		period := resolvePeriod(cmd, args[0])
		svc := analysis.NewService(analysis.NewOrchestrator(r, cfg.Analysis.AnnotatorOptions(), logger), nil, logger)

		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		res, err := svc.AnalyzeFile(in, filepath.Base(args[0]), period, nil)
		if err != nil {
			return err
		}

		out := filepath.Join(analyzeOutDir, res.ArtifactName)
		if err := os.WriteFile(out, res.Output, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		logger.Info("analysis written", zap.String("path", out), zap.Int("lateTotal", res.LateTotal))

		w := cmd.OutOrStdout()
		for _, s := range res.Summaries {
			if s.LateCount > 0 {
				fmt.Fprintf(w, "%-4d %-28s %d %v\n", s.Row, s.Label, s.LateCount, s.LateDays)
			}
		}
		fmt.Fprintf(w, "%s: %d late arrival(s) across %d staff\n", out, res.LateTotal, len(res.Summaries))
		return nil
	},
}

// resolvePeriod 年月优先取命令行，其次从文件名推断，最后取当前月份
func resolvePeriod(cmd *cobra.Command, path string) model.AnalysisConfig {
	now := time.Now()
	period := model.AnalysisConfig{Year: now.Year(), Month: int(now.Month())}
	if y, m, ok := attendance.PeriodFromName(path); ok {
		period.Year, period.Month = y, m
	}
	if cmd.Flags().Changed("year") {
		period.Year = analyzeYear
	}
	if cmd.Flags().Changed("month") {
		period.Month = analyzeMonth
	}
	return period
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeYear, "year", 0, "year of the attendance log (default: from filename, else current)")
	analyzeCmd.Flags().IntVar(&analyzeMonth, "month", 0, "month of the attendance log 1-12 (default: from filename, else current)")
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out", "o", ".", "output directory")
}
