package contract

import (
	"context"
	"errors"

	"moodflix-be/internal/entity"
	"moodflix-be/internal/repository/specification"
)

// ErrMalformedLog means stored rows could not be decoded into selections.
var ErrMalformedLog = errors.New("malformed selection log")

// SelectionRepository is the append-only selection log.
type SelectionRepository interface {
	Append(ctx context.Context, selection *entity.Selection) error
	// FindRecent returns up to limit matching rows in chronological order, the most
	// recent ones when the log is longer. limit <= 0 returns everything.
	FindRecent(ctx context.Context, limit int, specs ...specification.Specification) ([]*entity.Selection, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
