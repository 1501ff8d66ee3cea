package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"attendlog/internal/config"
)

var (
	verbose    bool
	configPath string
	rosterPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "attendlog",
	Short: "Attendance log analyzer",
	Long: `attendlog reads a monthly attendance workbook (log on the second sheet),
flags late clock-ins per department shift rules and writes an annotated
"Logs Analyzed" workbook with per-staff late totals.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config.toml path (default: next to the executable)")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "", "roster file (.toml/.yaml), overrides analysis.roster_path")

	rootCmd.AddCommand(serveCmd, analyzeCmd, rosterCmd)
}

// loadConfig 加载配置并应用命令行覆盖
func loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	cfg, info, err := config.LoadConfigWithInfo(configPath)
	if err != nil {
		return nil, info, fmt.Errorf("failed to load config %s: %w", info.Path, err)
	}
	if rosterPath != "" {
		cfg.Analysis.RosterPath = rosterPath
	}
	return cfg, info, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
