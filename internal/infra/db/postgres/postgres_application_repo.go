package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/repository"
)

var _ repository.ApplicationRepository = (*applicationRepo)(nil)

type applicationRepo struct {
	pool *pgxpool.Pool
}

func NewApplicationRepo(pool *pgxpool.Pool) *applicationRepo {
	return &applicationRepo{pool: pool}
}

func (r *applicationRepo) Create(ctx context.Context, tx repository.Tx, app *model.JobApplication) (int64, error) {
	meta, err := json.Marshal(app.Metadata)
	if err != nil {
		return 0, fmt.Errorf("marshal metadata: %w", err)
	}
	const q = `
INSERT INTO job_applications (user_id, job_url, status, started_at, metadata, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;`
	row := pickRow(ctx, r.pool, tx, q, app.UserID, app.JobURL, string(app.Status), app.StartedAt, meta, time.Now())
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("create application: %w", err)
	}
	app.ID = id
	return id, nil
}

func (r *applicationRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.JobApplication, error) {
	const q = `
SELECT id, user_id, job_url, status, started_at, completed_at, metadata
  FROM job_applications WHERE id=$1;`
	row := pickRow(ctx, r.pool, tx, q, id)
	return scanApplication(row)
}

// UpdateStatus persists the new status and replaces the metadata bag on every
// call, nil clearing it, so a recorded reason never outlives the status that
// set it. completed_at is derived from the status in the same statement: set
// once on entering completed, cleared if a later lenient transition leaves it.
func (r *applicationRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id int64, status model.ApplicationStatus, metadata map[string]any) error {
	if !status.Valid() {
		return domain.ErrInvalidArgument
	}
	meta := []byte("{}")
	if metadata != nil {
		var merr error
		meta, merr = json.Marshal(metadata)
		if merr != nil {
			return fmt.Errorf("marshal metadata: %w", merr)
		}
	}
	const q = `
UPDATE job_applications SET
  status=$2,
  metadata=$3,
  completed_at=CASE WHEN $2='completed' THEN COALESCE(completed_at, now()) ELSE NULL END,
  updated_at=now()
WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(status), meta)
	if err != nil {
		return fmt.Errorf("update application %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicationRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.JobApplication, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, job_url, status, started_at, completed_at, metadata
  FROM job_applications WHERE user_id=$1
 ORDER BY started_at DESC LIMIT $2;`
	rows, err := pickRows(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepo) FindStuckWaiting(ctx context.Context, tx repository.Tx, cutoff time.Time) ([]*model.JobApplication, error) {
	const q = `
SELECT id, user_id, job_url, status, started_at, completed_at, metadata
  FROM job_applications
 WHERE status IN ('awaiting_user_input', 'awaiting_otp') AND updated_at < $1
 ORDER BY updated_at;`
	rows, err := pickRows(ctx, r.pool, tx, q, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func scanApplication(row pgx.Row) (*model.JobApplication, error) {
	var (
		app       model.JobApplication
		statusStr string
		meta      []byte
	)
	if err := row.Scan(&app.ID, &app.UserID, &app.JobURL, &statusStr, &app.StartedAt, &app.CompletedAt, &meta); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	app.Status = model.ApplicationStatus(statusStr)
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &app.Metadata); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	if app.Metadata == nil {
		app.Metadata = map[string]any{}
	}
	return &app, nil
}

func scanApplications(rows pgx.Rows) ([]*model.JobApplication, error) {
	var out []*model.JobApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}
