package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"codeberg.org/whbprompts/server/internal/account"
	"codeberg.org/whbprompts/server/internal/config"
	"codeberg.org/whbprompts/server/internal/gateway"
	"codeberg.org/whbprompts/server/internal/history"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/store"
	"codeberg.org/whbprompts/server/internal/tui"
	"codeberg.org/whbprompts/server/internal/usage"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running whb: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return errors.New("whb needs an interactive terminal")
	}

	configPath := os.Getenv("WHB_CONFIG")
	if configPath == "" {
		configPath = config.DefaultClientPath()
	}

	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}

	logFile, err := logger.ToFile(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	ctx := context.Background()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close() //nolint:errcheck

	gw := gateway.NewHTTPGateway(cfg.API.Endpoint, gateway.WithTimeout(cfg.API.Timeout.Duration))

	gov, err := usage.New(ctx, s, gw)
	var persistErr *usage.PersistenceError
	if errors.As(err, &persistErr) {
		logger.Warn("usage reset not saved", "error", err)
	} else if err != nil {
		return err
	}

	ledger, err := history.Open(ctx, s)
	if err != nil {
		return err
	}

	logger.Info("starting whb",
		"endpoint", cfg.API.Endpoint,
		"store", cfg.Store.Backend,
	)

	app := tui.NewApp(ctx, tui.Deps{
		Governor:   gov,
		Ledger:     ledger,
		Sessions:   account.NewSessions(s),
		Clipboard:  history.SystemClipboard{},
		Refiner:    tui.NewRefineClient(cfg.API.Endpoint, cfg.API.Timeout.Duration),
		Config:     cfg,
		ConfigPath: configPath,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
