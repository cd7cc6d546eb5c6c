package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qrpass_bot/config"
	"qrpass_bot/logging"
)

var rootCmd = &cobra.Command{
	Use:   "qrbot",
	Short: "Telegram bot that registers users and issues QR codes",
	Long: `qrbot registers users by name and document number, authenticates them
by document number and sends their identity encoded as a QR code.

Without a subcommand it runs the bot (same as "qrbot run").`,
	SilenceUsage: true,
	RunE:         runBot,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot in the mode set by BOT_MODE",
	RunE:  runBot,
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the identity records schema and exit",
	RunE:  initDB,
}

func init() {
	rootCmd.AddCommand(runCmd, initDBCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	logger.Info("bot started", "mode", cfg.Mode, "env", cfg.Env, "port", cfg.Port)
	err = serve(ctx, cfg, deps)
	logger.Info("bot stopped")
	return err
}

func initDB(cmd *cobra.Command, _ []string) error {
	sqlitePath, dsn := config.LoadDatabase()
	records, err := openRecords(cmd.Context(), sqlitePath, dsn)
	if err != nil {
		return err
	}
	defer records.Close()

	if err := records.Init(cmd.Context()); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema is ready")
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
