// Package config provides the process-wide configuration object for the client.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/spf13/viper"
)

// Empty label policies for a missing micro type.
const (
	EmptyLabelPlaceholder = "placeholder"
	EmptyLabelBlank       = "blank"
)

// Settings is a snapshot of everything the client reads from configuration.
type Settings struct {
	BaseURL           string
	DatabasePath      string
	EmptyLabelPolicy  string
	RequestTimeout    time.Duration
	SessionTTL        time.Duration
	SegmentMinRunes   int
	SegmentMinLines   int
	SegmentLineRatio  float64
	RankConcurrency   int
	ShowHybridDetails bool
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		DatabasePath:     "~/.local/share/lovetype/lovetype.db",
		EmptyLabelPolicy: EmptyLabelPlaceholder,
		RequestTimeout:   15 * time.Second,
		SessionTTL:       24 * time.Hour,
		SegmentMinRunes:  140,
		SegmentMinLines:  3,
		SegmentLineRatio: 0.45,
		RankConcurrency:  4,
	}
}

// SetDefaults registers the built-in settings with viper.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", d.RequestTimeout)
	v.SetDefault("database.path", d.DatabasePath)
	v.SetDefault("session.ttl", d.SessionTTL)
	v.SetDefault("interpret.empty_label", d.EmptyLabelPolicy)
	v.SetDefault("interpret.hybrid_details", d.ShowHybridDetails)
	v.SetDefault("interpret.segment.min_runes", d.SegmentMinRunes)
	v.SetDefault("interpret.segment.min_lines", d.SegmentMinLines)
	v.SetDefault("interpret.segment.line_ratio", d.SegmentLineRatio)
	v.SetDefault("rank.concurrency", d.RankConcurrency)
}

// FromViper reads settings from v. The base URL is normalized but may be
// empty; a missing URL is reported when a network operation needs it.
func FromViper(v *viper.Viper) (Settings, error) {
	s := Settings{
		BaseURL:           v.GetString("api.base_url"),
		RequestTimeout:    v.GetDuration("api.timeout"),
		DatabasePath:      ExpandPath(v.GetString("database.path")),
		SessionTTL:        v.GetDuration("session.ttl"),
		EmptyLabelPolicy:  v.GetString("interpret.empty_label"),
		ShowHybridDetails: v.GetBool("interpret.hybrid_details"),
		SegmentMinRunes:   v.GetInt("interpret.segment.min_runes"),
		SegmentMinLines:   v.GetInt("interpret.segment.min_lines"),
		SegmentLineRatio:  v.GetFloat64("interpret.segment.line_ratio"),
		RankConcurrency:   v.GetInt("rank.concurrency"),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings and normalizes the base URL in place.
func (s *Settings) Validate() error {
	if s.BaseURL != "" {
		normalized, err := NormalizeBaseURL(s.BaseURL)
		if err != nil {
			return err
		}
		s.BaseURL = normalized
	}

	switch s.EmptyLabelPolicy {
	case EmptyLabelPlaceholder, EmptyLabelBlank:
	case "":
		s.EmptyLabelPolicy = EmptyLabelPlaceholder
	default:
		return fmt.Errorf("%w: interpret.empty_label must be %q or %q, got %q",
			common.ErrInvalidConfig, EmptyLabelPlaceholder, EmptyLabelBlank, s.EmptyLabelPolicy)
	}

	if s.SegmentMinRunes < 0 {
		return fmt.Errorf("%w: interpret.segment.min_runes must not be negative", common.ErrInvalidConfig)
	}
	if s.SegmentMinLines < 1 {
		return fmt.Errorf("%w: interpret.segment.min_lines must be at least 1", common.ErrInvalidConfig)
	}
	if s.SegmentLineRatio <= 0 || s.SegmentLineRatio >= 1 {
		return fmt.Errorf("%w: interpret.segment.line_ratio must be between 0 and 1", common.ErrInvalidConfig)
	}
	if s.RankConcurrency < 1 {
		s.RankConcurrency = 1
	}
	return nil
}

// NormalizeBaseURL trims whitespace and trailing slashes and checks that the
// result is an absolute http(s) URL.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", common.ErrConfigurationMissing
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrConfigurationMissing, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: base URL must use http or https, got %q", common.ErrConfigurationMissing, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: base URL has no host: %q", common.ErrConfigurationMissing, raw)
	}
	return trimmed, nil
}

// Runtime holds the current settings. It is created once at startup and only
// changes through Reconfigure or SetBaseURL.
type Runtime struct {
	settings  Settings
	listeners []func(Settings)
	mu        sync.RWMutex
}

// NewRuntime validates s and wraps it.
func NewRuntime(s Settings) (*Runtime, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Runtime{settings: s}, nil
}

// Settings returns a copy of the current settings.
func (r *Runtime) Settings() Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings
}

// BaseURL returns the service base URL or ErrConfigurationMissing. Network
// operations call it before every request.
func (r *Runtime) BaseURL() (string, error) {
	r.mu.RLock()
	raw := r.settings.BaseURL
	r.mu.RUnlock()
	return NormalizeBaseURL(raw)
}

// OnReconfigure registers fn to run after every successful reconfiguration.
func (r *Runtime) OnReconfigure(fn func(Settings)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reconfigure replaces the settings and notifies listeners.
func (r *Runtime) Reconfigure(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.settings = s
	listeners := append([]func(Settings){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
	return nil
}

// SetBaseURL is Reconfigure for the base URL alone. Unlike Validate it
// rejects an empty URL.
func (r *Runtime) SetBaseURL(raw string) error {
	normalized, err := NormalizeBaseURL(raw)
	if err != nil {
		return err
	}
	s := r.Settings()
	s.BaseURL = normalized
	return r.Reconfigure(s)
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
