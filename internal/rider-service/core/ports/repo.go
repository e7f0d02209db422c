package ports

import (
	"context"

	"rider/internal/rider-service/core/domain/model"
)

// UpdateFunc edits a session in place. found is false for unknown or
// expired ids, in which case sess is the zero value. Returning an error
// aborts the update without writing.
type UpdateFunc func(sess *model.Session, found bool) error

type ISessionRepo interface {
	// Get returns myerrors.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (model.Session, error)
	Save(ctx context.Context, s model.Session) error
	// Update runs fn and writes its result as one atomic step. No other
	// Update or Save of the same id, from any instance, interleaves.
	Update(ctx context.Context, id string, fn UpdateFunc) error
	Delete(ctx context.Context, id string) error
	IsAlive() error
	Close() error
}
