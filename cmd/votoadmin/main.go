// cmd/votoadmin/main.go
//
// Entry point for the Voto Informado admin terminal client.
//
// Flow:
// 1. Ensure ~/.votoadmin exists (config, logs, session state)
// 2. Load config and wire the session store into the API client
// 3. Launch the TUI

package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/votoinformado/votoadmin/internal/api"
	"github.com/votoinformado/votoadmin/internal/config"
	"github.com/votoinformado/votoadmin/internal/logbook"
	"github.com/votoinformado/votoadmin/internal/session"
	"github.com/votoinformado/votoadmin/internal/tui"
)

func main() {
	baseDir, err := config.DefaultBaseDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving home directory: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitAppDir(baseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s: %v\n", baseDir, err)
		os.Exit(1)
	}
	cfg, err := config.New(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "votoadmin.log"), cfg.LogLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer lb.Close()

	// The store is the client's token source, and the client is the
	// store's authenticator, so binding happens after construction.
	store := session.New(cfg.StateDir(), session.WithLogbook(lb))
	client := api.New(cfg.APIURL(), api.WithTokenSource(store), api.WithTimeout(cfg.RequestTimeout()))
	store.Bind(client)

	app := tui.NewApp(cfg, store, client, lb)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
