package tui

import (
	"context"

	"github.com/Veraticus/lovetype/internal/config"
	"github.com/Veraticus/lovetype/internal/engine"
	"github.com/Veraticus/lovetype/internal/tui/themes"
)

// SettingsWriter persists settings edited in the UI.
type SettingsWriter interface {
	SetSetting(ctx context.Context, key, value string) error
}

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Engine    *engine.Engine
	Runtime   *config.Runtime
	Settings  SettingsWriter
	Primary   string
	Partner   string
	Width     int
	Height    int
	ShowHelp  bool
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     80,
		Height:    24,
		ShowHelp:  true,
		AltScreen: true,
	}
}

// WithEngine sets the diagnosis engine.
func WithEngine(e *engine.Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithRuntime sets the runtime configuration edited by the endpoint view.
func WithRuntime(r *config.Runtime) Option {
	return func(c *Config) {
		c.Runtime = r
	}
}

// WithSettings sets where an edited endpoint is persisted.
func WithSettings(s SettingsWriter) Option {
	return func(c *Config) {
		c.Settings = s
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithPair preselects the two types.
func WithPair(primary, partner string) Option {
	return func(c *Config) {
		c.Primary = primary
		c.Partner = partner
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
