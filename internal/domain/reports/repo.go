package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type ReportRepository interface {
	Create(ctx context.Context, r *GeneratedReport) error
	Get(ctx context.Context, id uuid.UUID) (*GeneratedReport, error)
	// List returns reports newest first.
	List(ctx context.Context, limit, offset int) ([]*GeneratedReport, int, error)
}
