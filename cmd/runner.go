package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/wishctl/internal/models"
	"github.com/desertthunder/wishctl/internal/page"
	"github.com/desertthunder/wishctl/internal/repositories"
	"github.com/desertthunder/wishctl/internal/services"
	"github.com/desertthunder/wishctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// LinkStore persists saved wishlist links.
type LinkStore interface {
	models.Repository[*models.Link]
	GetByName(name string) (*models.Link, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	service   services.Service
	links     LinkStore
	clipboard page.Copier
	open      func(string) error
	logger    *log.Logger
	output    io.Writer
	closers   []func() error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Service   services.Service // built per page from Config when nil
	Links     LinkStore        // opened from Config.Database when nil
	Clipboard page.Copier
	Open      func(string) error
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:    opts.Config,
		service:   opts.Service,
		links:     opts.Links,
		clipboard: opts.Clipboard,
		open:      opts.Open,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases resources opened lazily by commands.
func (r *Runner) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, createCommand, recoverCommand, itemsCommand, addCommand, markCommand,
		deleteCommand, shareCommand, copyCommand, openCommand, linksCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// linkStore returns the saved link repository, opening the database on first use.
func (r *Runner) linkStore() (LinkStore, error) {
	if r.links != nil {
		return r.links, nil
	}

	db, err := shared.OpenLinkStore(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open link store: %w", err)
	}
	r.closers = append(r.closers, db.Close)
	r.links = repositories.NewLinkRepository(db)
	return r.links, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
