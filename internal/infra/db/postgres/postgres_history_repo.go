package postgres

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/repository"
)

var _ repository.HistoryRepository = (*historyRepo)(nil)

// historyRepo appends immutable audit entries. ULIDs give the primary key a
// stable order matching insertion, so ties on created_at still list correctly.
type historyRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *historyRepo {
	return &historyRepo{pool: pool}
}

func (r *historyRepo) Append(ctx context.Context, tx repository.Tx, applicationID int64, eventType model.HistoryEventType, eventData map[string]any) error {
	if eventData == nil {
		eventData = map[string]any{}
	}
	data, err := json.Marshal(eventData)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return fmt.Errorf("new ulid: %w", err)
	}
	const q = `
INSERT INTO application_history (id, application_id, event_type, event_data, created_at)
VALUES ($1, $2, $3, $4, $5);`
	_, err = execSQL(ctx, r.pool, tx, q, id.String(), applicationID, string(eventType), data, time.Now())
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *historyRepo) ListByApplication(ctx context.Context, tx repository.Tx, applicationID int64) ([]*model.HistoryEntry, error) {
	const q = `
SELECT id, application_id, event_type, event_data, created_at
  FROM application_history
 WHERE application_id=$1
 ORDER BY created_at, id;`
	rows, err := pickRows(ctx, r.pool, tx, q, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.HistoryEntry
	for rows.Next() {
		var (
			e         model.HistoryEntry
			eventType string
			data      []byte
		)
		if err := rows.Scan(&e.ID, &e.ApplicationID, &eventType, &data, &e.Timestamp); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		e.EventType = model.HistoryEventType(eventType)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &e.EventData); err != nil {
				return nil, domain.ErrReadDatabaseRow
			}
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
