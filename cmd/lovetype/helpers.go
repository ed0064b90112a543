package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/lovetype/internal/api"
	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/config"
	"github.com/Veraticus/lovetype/internal/engine"
	"github.com/Veraticus/lovetype/internal/interpret"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/render"
	"github.com/Veraticus/lovetype/internal/session"
	"github.com/Veraticus/lovetype/internal/storage"
	"github.com/Veraticus/lovetype/internal/tui/themes"
	"github.com/spf13/viper"
)

// app is the wiring shared by every command.
type app struct {
	storage *storage.SQLiteStorage
	runtime *config.Runtime
	client  *api.Client
	catalog *api.Catalog
	engine  *engine.Engine
	results *storage.ResultStore
	theme   themes.Theme
}

// newApp opens the database and builds the client stack. When
// sessionStore is nil the CLI session stored in SQLite is used.
func newApp(ctx context.Context, sessionStore session.Store) (*app, error) {
	settings, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Flag, env and config file win over the URL saved by 'endpoint set'.
	if settings.BaseURL == "" {
		saved, err := store.GetSetting(ctx, storage.SettingAPIBaseURL)
		switch {
		case err == nil:
			settings.BaseURL = saved
		case !errors.Is(err, common.ErrNotFound):
			_ = store.Close()
			return nil, err
		}
	}

	runtime, err := config.NewRuntime(settings)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	a := &app{
		storage: store,
		runtime: runtime,
		theme:   themes.GetTheme(viper.GetString("ui.theme")),
	}
	a.client = api.NewClient(runtime, api.WithTimeout(settings.RequestTimeout))
	a.catalog = api.NewCatalog(a.client)

	if sessionStore == nil {
		id, err := store.CurrentSession(ctx)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		a.results = store.ResultStore(id, settings.SessionTTL)
		sessionStore = a.results
	}

	a.engine = engine.New(a.catalog, a.client, interpret.New(interpret.OptionsFromSettings(settings)), sessionStore)

	runtime.OnReconfigure(func(s config.Settings) {
		a.catalog.Invalidate()
		a.engine.SetInterpreter(interpret.New(interpret.OptionsFromSettings(s)))
		slog.Debug("Reconfigured client", "base_url", s.BaseURL)
	})

	if purged, err := store.PurgeExpired(ctx); err != nil {
		common.LogError(err, "Failed to purge expired session results", nil)
	} else if purged > 0 {
		slog.Debug("Purged expired session results", "count", purged)
	}

	return a, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.storage.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// initStorage opens and migrates the database.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	if dbPath == "" {
		dbPath = config.ExpandPath(config.Defaults().DatabasePath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// writeResult renders a diagnosis with the given layout.
func writeResult(w io.Writer, theme themes.Theme, layout render.Layout, result model.InterpretedResult) error {
	term := render.NewTerminalFor(theme, 80, layout)
	var factory render.ChartFactory
	if layout.Chart {
		factory = term
	}
	r, err := render.NewRenderer(term, layout, factory)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Render(result); err != nil {
		return err
	}
	_, err = term.WriteTo(w)
	return err
}
