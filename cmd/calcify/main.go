package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"calcify/internal/calculator"
	"calcify/internal/config"
	"calcify/internal/history"
	"calcify/internal/observability"
	"calcify/internal/storage"
	"calcify/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "calcify:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logs go to a file or nowhere; stdout belongs to the UI.
	if cfg.LogFile != "" {
		if err := observability.InitFileLogger(cfg.LogFile, zap.NewAtomicLevelAt(zap.DebugLevel)); err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer observability.SyncLogger()
	}

	store, err := storage.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	machine := calculator.NewMachine(ctx,
		calculator.WithRepository(history.NewRepository(store, history.DefaultKey)),
	)

	observability.Logger.Info("calculator started",
		zap.String("store", cfg.Store),
		zap.Int("history", len(machine.History())),
	)

	_, err = tea.NewProgram(tui.New(ctx, machine), tea.WithAltScreen()).Run()
	return err
}
