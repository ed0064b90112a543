package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/storage"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	catalogTimeout   = 10 * time.Second
	diagnosisTimeout = 30 * time.Second
)

// loadCategories fetches the type catalog.
func (m Model) loadCategories() tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		if eng == nil {
			return categoriesLoadedMsg{err: fmt.Errorf("engine not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		labels, err := eng.Categories(ctx)
		return categoriesLoadedMsg{labels: labels, err: err}
	}
}

// runDiagnosis executes the engine run reserved under seq.
func (m Model) runDiagnosis(seq uint64, primary, partner model.CategoryLabel) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), diagnosisTimeout)
		defer cancel()

		d, err := eng.Run(ctx, seq, primary.String(), partner.String())
		return diagnosisMsg{seq: seq, diagnosis: d, err: err}
	}
}

// loadDetail reads the handed-off diagnosis. It never re-requests.
func (m Model) loadDetail() tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		d, err := eng.Detail(ctx)
		return detailLoadedMsg{diagnosis: d, err: err}
	}
}

// saveEndpoint applies a new base URL and persists it. Reconfiguring the
// runtime drops the cached catalog.
func (m Model) saveEndpoint(raw string) tea.Cmd {
	runtime := m.runtime
	settings := m.settings
	return func() tea.Msg {
		if runtime == nil {
			return endpointSavedMsg{err: common.ErrConfigurationMissing}
		}
		if err := runtime.SetBaseURL(raw); err != nil {
			return endpointSavedMsg{err: err}
		}

		baseURL, err := runtime.BaseURL()
		if err != nil {
			return endpointSavedMsg{err: err}
		}

		if settings != nil {
			ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
			defer cancel()
			if err := settings.SetSetting(ctx, storage.SettingAPIBaseURL, baseURL); err != nil {
				// The runtime already uses the new URL; only persistence failed.
				return endpointSavedMsg{baseURL: baseURL, err: errors.Join(errEndpointNotPersisted, err)}
			}
		}
		return endpointSavedMsg{baseURL: baseURL}
	}
}

var errEndpointNotPersisted = errors.New("endpoint applied but not saved")
