package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/session"
	"github.com/google/uuid"
)

// Ensure ResultStore implements session.Store.
var _ session.Store = (*ResultStore)(nil)

// ResultStore is a session.Store backed by the session_results table. Each
// CLI invocation is its own process, so the hand-off between `diagnose` and
// `detail` goes through the database. Rows expire after the session TTL.
type ResultStore struct {
	storage   *SQLiteStorage
	sessionID string
	ttl       time.Duration
}

// ResultStore returns the store for sessionID.
func (s *SQLiteStorage) ResultStore(sessionID string, ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResultStore{storage: s, sessionID: sessionID, ttl: ttl}
}

// SessionID returns the session the store is scoped to.
func (r *ResultStore) SessionID() string {
	return r.sessionID
}

// Put replaces the session's diagnosis.
func (r *ResultStore) Put(ctx context.Context, d *model.Diagnosis) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDiagnosis(d); err != nil {
		return err
	}

	stored := *d
	stored.SessionID = r.sessionID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.storage.now()
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode diagnosis: %w", err)
	}

	now := r.storage.now().UTC()
	_, err = r.storage.db.ExecContext(ctx, `
		INSERT INTO session_results (session_id, primary_type, partner_type, diagnosis, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			primary_type = excluded.primary_type,
			partner_type = excluded.partner_type,
			diagnosis = excluded.diagnosis,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`,
		r.sessionID,
		stored.Request.Primary.String(),
		stored.Request.Partner.String(),
		string(data),
		now.Format(time.RFC3339),
		now.Add(r.ttl).Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save session result: %w", err)
	}

	slog.Debug("Stored session result",
		"session_id", r.sessionID,
		"primary", stored.Request.Primary,
		"partner", stored.Request.Partner)
	return nil
}

// Take returns the session's diagnosis or session.ErrNotFound when there is
// none or it has expired.
func (r *ResultStore) Take(ctx context.Context) (*model.Diagnosis, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var data, expiresAt string
	err := r.storage.db.QueryRowContext(ctx,
		`SELECT diagnosis, expires_at FROM session_results WHERE session_id = ?`,
		r.sessionID,
	).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session result: %w", err)
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expires_at: %w", err)
	}
	if !r.storage.now().Before(expiry) {
		return nil, session.ErrNotFound
	}

	var d model.Diagnosis
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to decode session result: %w", err)
	}
	return &d, nil
}

// Clear deletes the session's diagnosis.
func (r *ResultStore) Clear(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := r.storage.db.ExecContext(ctx, `DELETE FROM session_results WHERE session_id = ?`, r.sessionID); err != nil {
		return fmt.Errorf("failed to clear session result: %w", err)
	}
	return nil
}

// PurgeExpired removes results of every session whose TTL has passed.
func (s *SQLiteStorage) PurgeExpired(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_results WHERE expires_at <= ?`,
		s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired results: %w", err)
	}
	return res.RowsAffected()
}

// CurrentSession returns the active session ID, starting a new session when
// none exists.
func (s *SQLiteStorage) CurrentSession(ctx context.Context) (string, error) {
	id, err := s.GetSetting(ctx, SettingSessionID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	id = uuid.NewString()
	if err := s.SetSetting(ctx, SettingSessionID, id); err != nil {
		return "", err
	}
	slog.Debug("Started session", "session_id", id)
	return id, nil
}

// EndSession discards the active session and its stored result. The next
// CurrentSession call starts a fresh one.
func (s *SQLiteStorage) EndSession(ctx context.Context) error {
	id, err := s.GetSetting(ctx, SettingSessionID)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.ResultStore(id, 0).Clear(ctx); err != nil {
		return err
	}
	return s.DeleteSetting(ctx, SettingSessionID)
}
