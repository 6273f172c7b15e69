package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/wishctl/internal/shared"
	"github.com/desertthunder/wishctl/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive wishlist page.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	client, err := r.newClient(cmd, false)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, client)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Send blocks until the event loop reads it, and Update itself mutates the document.
	client.Document().OnChange(func() { go p.Send(ui.DocumentChangedMsg()) })

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
