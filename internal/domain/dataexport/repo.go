package dataexport

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned for lookups of unknown export jobs or share links.
// Unknown ids are an error, never a synthesized placeholder.
var ErrNotFound = errors.New("not found")

type ExportRepository interface {
	Create(ctx context.Context, job *ExportJob) error
	Get(ctx context.Context, id uuid.UUID) (*ExportJob, error)
	Update(ctx context.Context, job *ExportJob) error
	// Delete is idempotent: removing an unknown id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns jobs newest first.
	List(ctx context.Context, limit, offset int) ([]*ExportJob, int, error)
	// ListByStatus returns all jobs in the given state, oldest first, for the
	// background processor sweep.
	ListByStatus(ctx context.Context, status ExportStatus) ([]*ExportJob, error)
}

type ShareLinkRepository interface {
	Create(ctx context.Context, link *ShareLink) error
	Get(ctx context.Context, token uuid.UUID) (*ShareLink, error)
	// RecordAccess atomically claims one redemption of the link. It returns
	// ErrShareExhausted when the access ceiling is already reached, so two
	// concurrent redeemers of a single-use link cannot both succeed.
	RecordAccess(ctx context.Context, token uuid.UUID) error
}
