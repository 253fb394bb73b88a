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

var _ repository.ProfileRepository = (*profileRepo)(nil)

// profileRepo stores the whole structured profile as one JSONB document. The
// profile is read as a unit and written as a unit by onboarding; no column
// per section.
type profileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

func (r *profileRepo) Save(ctx context.Context, tx repository.Tx, userID string, profile *model.UserProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	const q = `
INSERT INTO user_profiles (user_id, profile, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE SET profile=EXCLUDED.profile, updated_at=EXCLUDED.updated_at;`
	if _, err := execSQL(ctx, r.pool, tx, q, userID, doc, time.Now()); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *profileRepo) Find(ctx context.Context, tx repository.Tx, userID string) (*model.UserProfile, error) {
	const q = `SELECT profile FROM user_profiles WHERE user_id=$1;`
	row := pickRow(ctx, r.pool, tx, q, userID)
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var profile model.UserProfile
	if err := json.Unmarshal(doc, &profile); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return &profile, nil
}
