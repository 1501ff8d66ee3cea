package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"attendlog/internal/server"
)

var (
	servePort    int
	serveDataDir string
	serveDev     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, info, err := loadConfig()
		if err != nil {
			return err
		}

		// 命令行参数覆盖配置（config.toml 显式配置的端口优先）
		if servePort > 0 && !info.PortSpecified {
			cfg.Server.Port = servePort
		}
		if serveDev {
			cfg.Server.DevMode = true
		}
		if serveDataDir != "" {
			cfg.Data.DataDir = serveDataDir
		}

		srv, err := server.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		defer srv.Close()

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", addr))
			errCh <- srv.Run(addr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server stopped: %w", err)
		case sig := <-quit:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (ignored when config.toml sets server.port)")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "data directory (overrides config)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "development mode")
}
