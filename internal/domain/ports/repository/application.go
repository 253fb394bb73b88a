package repository

import (
	"context"
	"time"

	"telegram-job-applier/internal/domain/model"
)

// ApplicationRepository owns JobApplication rows. Create assigns the ID.
// UpdateStatus persists the status and merges metadata; it sets completed_at
// exactly once when the status transitions to completed, so the
// "completed_at non-nil iff completed" invariant is enforced in one place.
type ApplicationRepository interface {
	Create(ctx context.Context, tx Tx, app *model.JobApplication) (int64, error)
	FindByID(ctx context.Context, tx Tx, id int64) (*model.JobApplication, error)
	UpdateStatus(ctx context.Context, tx Tx, id int64, status model.ApplicationStatus, metadata map[string]any) error
	FindByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*model.JobApplication, error)
	// FindStuckWaiting returns non-terminal applications that have sat in a
	// waiting status since before the cutoff. Used by the reminder worker.
	FindStuckWaiting(ctx context.Context, tx Tx, cutoff time.Time) ([]*model.JobApplication, error)
}
