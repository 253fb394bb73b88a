package usecase

import (
	"context"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/repository"
	"telegram-job-applier/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

// ProfileUseCase owns the onboarding-facing profile storage.
type ProfileUseCase interface {
	Save(ctx context.Context, userID string, profile *model.UserProfile) error
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
}

type profileUC struct {
	profiles repository.ProfileRepository
	log      *zerolog.Logger
}

func NewProfileUseCase(profiles repository.ProfileRepository, logger *zerolog.Logger) *profileUC {
	return &profileUC{profiles: profiles, log: logger}
}

func (p *profileUC) Save(ctx context.Context, userID string, profile *model.UserProfile) error {
	defer logging.TraceDuration(p.log, "ProfileUC.Save")()
	if userID == "" || profile == nil {
		return domain.ErrInvalidArgument
	}
	return p.profiles.Save(ctx, repository.NoTX, userID, profile)
}

func (p *profileUC) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	defer logging.TraceDuration(p.log, "ProfileUC.Get")()
	return p.profiles.Find(ctx, repository.NoTX, userID)
}
