package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	clientcmd "github.com/Ailysom/ras-chat/internal/cmd/client"
	serverrun "github.com/Ailysom/ras-chat/internal/cmd/server"
	pebblestore "github.com/Ailysom/ras-chat/internal/storage/pebble"
	logpkg "github.com/Ailysom/ras-chat/pkg/log"
)

func main() {
	// .env is optional; it makes local runs easier to configure.
	_ = godotenv.Load()

	// initialize logger for CLI
	// Respect RASCHAT_LOG_LEVEL for both CLI and server start output
	level := os.Getenv("RASCHAT_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "raschat",
		Short: "RasChat runtime CLI",
		Long:  "RasChat is a single-binary bounded chat log. This CLI manages the server and basic operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start raschat server (HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			httpAddr, _ := cmd.Flags().GetString("http")
			auditDir, _ := cmd.Flags().GetString("audit-dir")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			mode := pebblestore.FsyncModeInterval
			switch fsyncMode {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if logLevel != "" {
				_ = os.Setenv("RASCHAT_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("RASCHAT_LOG_FORMAT", logFormat)
			}
			if err := serverrun.Run(ctx, serverrun.Options{
				ConfigPath: configPath,
				HTTPAddr:   httpAddr,
				AuditDir:   auditDir,
				Fsync:      mode,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", os.Getenv("RASCHAT_CONFIG"), "Config file path (JSON)")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("audit-dir", "", "Audit store directory (empty disables auditing)")
	serverStartCmd.Flags().String("fsync", "interval", "Audit store fsync mode: always|interval|never")
	serverStartCmd.Flags().String("log-level", os.Getenv("RASCHAT_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("RASCHAT_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// chat commands (implemented in internal/cmd/client)
	rootCmd.AddCommand(clientcmd.NewChatCommand(apiURL))

	// token commands
	rootCmd.AddCommand(clientcmd.NewTokenCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("RASCHAT_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
