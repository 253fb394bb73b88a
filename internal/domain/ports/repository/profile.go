package repository

import (
	"context"

	"telegram-job-applier/internal/domain/model"
)

type ProfileRepository interface {
	Save(ctx context.Context, tx Tx, userID string, profile *model.UserProfile) error
	// Find returns domain.ErrNotFound when the user has no stored profile.
	Find(ctx context.Context, tx Tx, userID string) (*model.UserProfile, error)
}
