// Package cmd wires configuration, logging, the store, the orchestrator and
// the terminal UI together behind the taskdeck CLI.
package cmd

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/lifecycle"
	"github.com/taskdeck/taskdeck/internal/tui"
	"github.com/taskdeck/taskdeck/orchestrator"
	"github.com/taskdeck/taskdeck/pkg/logger"
	"github.com/taskdeck/taskdeck/store"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal task tracker backed by a reactive in-memory store",
	Long: `Taskdeck keeps a single in-memory task collection and broadcasts a
full snapshot to the UI after every change. Store operations carry a
simulated network latency, which is what the loading and saving
indicators in the UI are reacting to.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().Duration("latency", 0, "override the simulated store latency")
	rootCmd.Flags().String("log-level", "", "override the log level")
	rootCmd.Flags().Bool("no-seed", false, "start with an empty collection")
	rootCmd.AddCommand(versionCmd)
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Path:     cfg.Logger.Path,
	})
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(5*time.Second, zapLogger)
	manager.Listen(cancel)

	storeOpts := []store.Option{store.WithLatency(cfg.Store.Latency)}
	if cfg.Store.Seed {
		storeOpts = append(storeOpts, store.WithSeed(store.DefaultSeeds()...))
	}
	st := store.New(zapLogger.Named("store"), storeOpts...)

	orch := orchestrator.New(st, zapLogger.Named("orchestrator"),
		orchestrator.WithMessageTTL(cfg.Orchestrator.SuccessMessageTTL))
	orch.Start()
	manager.Register("orchestrator", func(context.Context) error {
		orch.Close()
		return nil
	})

	program := tea.NewProgram(tui.New(orch), tea.WithAltScreen())
	go func() {
		<-appCtx.Done()
		program.Quit()
	}()

	zapLogger.Info("taskdeck started",
		zap.String("environment", cfg.Environment),
		zap.Duration("latency", cfg.Store.Latency))

	_, runErr := program.Run()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	return runErr
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("latency") {
		if v, err := cmd.Flags().GetDuration("latency"); err == nil {
			cfg.Store.Latency = v
		}
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logger.Level = v
	}
	if v, _ := cmd.Flags().GetBool("no-seed"); v {
		cfg.Store.Seed = false
	}
}
