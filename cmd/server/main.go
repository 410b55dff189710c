package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studyhub/studyhub-server/internal/app"
	"github.com/studyhub/studyhub-server/internal/config"
	"github.com/studyhub/studyhub-server/internal/log"
)

var (
	cfgPath   string
	addr      string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "studyhub-server",
	Short: "Real-time study group collaboration server",
	Long: `studyhub-server hosts study group rooms over a single WebSocket
endpoint: presence, chat, channel announcements and WebRTC signaling,
plus a REST API for accounts, reminders and content moderation.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "log format: console or json (overrides config)")
}

func run(cmd *cobra.Command, _ []string) error {
	bootLogger := log.New("info", "console")

	cfg, cfgSource, err := config.Load(bootLogger, cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if addr != "" {
		cfg.Addr = addr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	logger := log.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("config", cfgSource).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting studyhub server")
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
