package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rider/internal/mylogger"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"
	"rider/internal/rider-service/core/ports"

	"github.com/jackc/pgx/v5"
)

const createSessionsTable = `
CREATE TABLE IF NOT EXISTS form_sessions (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`

// SessionRepo stores form sessions in postgres for deployments running
// more than one instance.
type SessionRepo struct {
	db  *DB
	ttl time.Duration
}

func NewSessionRepo(ctx context.Context, db *DB, ttl time.Duration) (*SessionRepo, error) {
	if _, err := db.GetPool().Exec(ctx, createSessionsTable); err != nil {
		return nil, fmt.Errorf("create form_sessions: %w", err)
	}
	return &SessionRepo{db: db, ttl: ttl}, nil
}

const (
	selectSession = `SELECT data FROM form_sessions WHERE id = $1 AND expires_at > now()`
	upsertSession = `
INSERT INTO form_sessions (id, data, updated_at, expires_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at`
	// held until the transaction ends; covers ids that have no row yet
	lockSession = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

func (r *SessionRepo) Get(ctx context.Context, id string) (model.Session, error) {
	var data []byte
	err := r.db.GetPool().QueryRow(ctx, selectSession, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, myerrors.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("select session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	sess.Normalize()
	return sess, nil
}

func (r *SessionRepo) Save(ctx context.Context, sess model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if _, err := r.db.GetPool().Exec(ctx, upsertSession, sess.ID, data, sess.UpdatedAt, time.Now().Add(r.ttl)); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Update runs fn inside a transaction holding the session's advisory lock,
// so writers on other instances wait for the commit instead of
// overwriting it.
func (r *SessionRepo) Update(ctx context.Context, id string, fn ports.UpdateFunc) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin session update: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, lockSession, id); err != nil {
		return fmt.Errorf("lock session: %w", err)
	}

	var (
		sess  model.Session
		data  []byte
		found = true
	)
	err = tx.QueryRow(ctx, selectSession, id).Scan(&data)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		found = false
	case err != nil:
		return fmt.Errorf("select session: %w", err)
	default:
		if err := json.Unmarshal(data, &sess); err != nil {
			return fmt.Errorf("decode session: %w", err)
		}
		sess.Normalize()
	}

	if err := fn(&sess, found); err != nil {
		return err
	}

	data, err = json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if _, err := tx.Exec(ctx, upsertSession, id, data, sess.UpdatedAt, time.Now().Add(r.ttl)); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit session update: %w", err)
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.GetPool().Exec(ctx, `DELETE FROM form_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions past their expiry and returns how many.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM form_sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RunPurge deletes expired sessions every period until ctx is done.
func (r *SessionRepo) RunPurge(ctx context.Context, every time.Duration, mylog mylogger.Logger) {
	log := mylog.Action("purge_sessions")

	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := r.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Error("could not purge expired sessions", err)
				}
				continue
			}
			if n > 0 {
				log.Debug("expired sessions purged", "count", n)
			}
		}
	}
}

func (r *SessionRepo) IsAlive() error {
	return r.db.IsAlive()
}

func (r *SessionRepo) Close() error {
	return r.db.Close()
}
