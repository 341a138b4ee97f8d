package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/creamcroissant/shopadmin/internal/bootstrap"
	"github.com/creamcroissant/shopadmin/internal/support/logging"
	"github.com/creamcroissant/shopadmin/internal/tui"
)

var (
	tuiLang    string
	tuiLogFile string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Manage orders from the terminal",
	Long:  "Launch the order dashboard as an interactive terminal UI. The same admin credentials are required.",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLang, "lang", "", "copy language (en-US or zh-CN)")
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "append logs to this file while the UI runs")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Log lines would tear the alternate screen; they go to a file or nowhere.
	logger := logging.Discard()
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = logging.New(logging.Options{Level: cfg.Log.SlogLevel(), Format: "text", Output: f})
	}

	app, err := bootstrap.Build(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	model := tui.NewModel(tui.Options{
		Auth:      app.Auth,
		Dashboard: app.Dashboard,
		I18n:      app.I18n,
		Lang:      tuiLang,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
