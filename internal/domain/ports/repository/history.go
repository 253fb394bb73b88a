package repository

import (
	"context"

	"telegram-job-applier/internal/domain/model"
)

// HistoryRepository is append-only: entries are never updated or deleted.
type HistoryRepository interface {
	Append(ctx context.Context, tx Tx, applicationID int64, eventType model.HistoryEventType, eventData map[string]any) error
	// ListByApplication returns entries in non-decreasing timestamp order.
	ListByApplication(ctx context.Context, tx Tx, applicationID int64) ([]*model.HistoryEntry, error)
}
