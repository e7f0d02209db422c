// Package store keeps form sessions in an embedded badger database.
package store

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

	"github.com/dgraph-io/badger/v4"
)

const (
	keyPrefix = "session:"

	// attempts before an update losing every commit race gives up
	maxUpdateAttempts = 64
)

type BadgerStore struct {
	db    *badger.DB
	ttl   time.Duration
	mylog mylogger.Logger
}

// Open opens (or creates) the database at path. An empty path keeps
// everything in memory.
func Open(path string, ttl time.Duration, mylog mylogger.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	return &BadgerStore{
		db:    db,
		ttl:   ttl,
		mylog: mylog,
	}, nil
}

func getDBKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (s *BadgerStore) Get(_ context.Context, id string) (model.Session, error) {
	var sess model.Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(getDBKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.Session{}, myerrors.ErrSessionNotFound
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return model.Session{}, myerrors.ErrStoreConnClosed
	}
	if err != nil {
		s.mylog.Action("badger_get").Error("could not read session", err, "session_id", id)
		return model.Session{}, fmt.Errorf("read session: %w", err)
	}

	sess.Normalize()
	return sess, nil
}

// Save writes s and restarts its expiry clock.
func (s *BadgerStore) Save(_ context.Context, sess model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(getDBKey(sess.ID), data).WithTTL(s.ttl))
	})
	if err != nil {
		s.mylog.Action("badger_save").Error("could not store session", err, "session_id", sess.ID)
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Update reads, edits and writes the session in one transaction. Badger
// aborts the commit with ErrConflict when another transaction wrote the key
// after we read it; the whole step is then retried on fresh data.
func (s *BadgerStore) Update(_ context.Context, id string, fn ports.UpdateFunc) error {
	var err error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			var sess model.Session
			found := true

			item, err := txn.Get(getDBKey(id))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				found = false
			case err != nil:
				return err
			default:
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &sess)
				}); err != nil {
					return fmt.Errorf("decode session: %w", err)
				}
				sess.Normalize()
			}

			if err := fn(&sess, found); err != nil {
				return err
			}

			data, err := json.Marshal(sess)
			if err != nil {
				return fmt.Errorf("marshal session: %w", err)
			}
			return txn.SetEntry(badger.NewEntry(getDBKey(id), data).WithTTL(s.ttl))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}

	if errors.Is(err, badger.ErrDBClosed) {
		return myerrors.ErrStoreConnClosed
	}
	return err
}

func (s *BadgerStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(getDBKey(id))
	})
}

func (s *BadgerStore) IsAlive() error {
	if s.db.IsClosed() {
		return myerrors.ErrStoreConnClosed
	}
	return nil
}

func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// RunGC reclaims value log space until ctx is done.
func (s *BadgerStore) RunGC(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for s.db.RunValueLogGC(0.5) == nil {
			}
		}
	}
}
