package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// New creates the TUI program.
func New(ctx context.Context, opts ...Option) (*tea.Program, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	m, err := newModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	return tea.NewProgram(m, programOpts...), nil
}

// Run starts the TUI and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, opts ...Option) error {
	p, err := New(ctx, opts...)
	if err != nil {
		return err
	}

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		// Release the chart even when the program was interrupted.
		m.result.Close()
		m.detail.Close()
	}
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
