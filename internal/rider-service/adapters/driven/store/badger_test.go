package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rider/internal/mylogger"
	"rider/internal/rider-service/core/domain/model"
	"rider/internal/rider-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T, ttl time.Duration) *BadgerStore {
	t.Helper()
	s, err := Open("", ttl, mylogger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUnit_BadgerStore_SaveGet(t *testing.T) {
	s := openMem(t, time.Hour)
	ctx := context.Background()

	sess := model.NewSession("abc", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	sess.Form.Start = "Park Street"
	sess.Form.VehicleType = model.VehicleTaxi
	sess.Suggestions[model.FieldDestination] = model.SuggestionList{{ID: "s1", Label: "Salt Lake"}}
	sess.Seq[model.FieldDestination] = 4

	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, sess.Form, got.Form)
	assert.Equal(t, sess.Suggestions, got.Suggestions)
	assert.Equal(t, uint64(4), got.Seq[model.FieldDestination])
	assert.True(t, sess.UpdatedAt.Equal(got.UpdatedAt))
}

func TestUnit_BadgerStore_NotFound(t *testing.T) {
	s := openMem(t, time.Hour)

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, myerrors.ErrSessionNotFound)
}

func TestUnit_BadgerStore_Delete(t *testing.T) {
	s := openMem(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, model.NewSession("gone", time.Now())))
	require.NoError(t, s.Delete(ctx, "gone"))

	_, err := s.Get(ctx, "gone")
	assert.ErrorIs(t, err, myerrors.ErrSessionNotFound)
}

func TestUnit_BadgerStore_Expiry(t *testing.T) {
	s := openMem(t, time.Second)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, model.NewSession("short", time.Now())))

	assert.Eventually(t, func() bool {
		_, err := s.Get(ctx, "short")
		return err == myerrors.ErrSessionNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

func TestUnit_BadgerStore_Liveness(t *testing.T) {
	s, err := Open("", time.Hour, mylogger.Discard())
	require.NoError(t, err)

	assert.NoError(t, s.IsAlive())
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.IsAlive(), myerrors.ErrStoreConnClosed)
	assert.NoError(t, s.Close(), "closing twice is harmless")
}

func TestUnit_BadgerStore_UpdateCreatesAndEdits(t *testing.T) {
	s := openMem(t, time.Hour)
	ctx := context.Background()

	err := s.Update(ctx, "u1", func(sess *model.Session, found bool) error {
		assert.False(t, found)
		*sess = model.NewSession("u1", time.Now())
		sess.Form.Start = "Park Street"
		return nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, "u1", func(sess *model.Session, found bool) error {
		assert.True(t, found)
		assert.Equal(t, "Park Street", sess.Form.Start)
		sess.Form.Destination = "Salt Lake"
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Park Street", got.Form.Start)
	assert.Equal(t, "Salt Lake", got.Form.Destination)
}

func TestUnit_BadgerStore_UpdateAbortsOnError(t *testing.T) {
	s := openMem(t, time.Hour)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Update(ctx, "u2", func(sess *model.Session, _ bool) error {
		*sess = model.NewSession("u2", time.Now())
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Get(ctx, "u2")
	assert.ErrorIs(t, err, myerrors.ErrSessionNotFound)
}

// Concurrent read-modify-write cycles on one session must not lose writes.
func TestUnit_BadgerStore_UpdateIsAtomic(t *testing.T) {
	s := openMem(t, time.Hour)
	ctx := context.Background()

	const workers, rounds = 4, 5
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				err := s.Update(ctx, "shared", func(sess *model.Session, found bool) error {
					if !found {
						*sess = model.NewSession("shared", time.Now())
					}
					sess.Seq[model.FieldStart]++
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*rounds), got.Seq[model.FieldStart])
}
