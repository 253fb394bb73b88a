package model

import (
	"strings"
	"time"

	"telegram-job-applier/internal/domain"
)

type ApplicationStatus string

const (
	ApplicationStatusPending           ApplicationStatus = "pending"
	ApplicationStatusInProgress        ApplicationStatus = "in_progress"
	ApplicationStatusAwaitingUserInput ApplicationStatus = "awaiting_user_input"
	ApplicationStatusAwaitingOTP       ApplicationStatus = "awaiting_otp"
	ApplicationStatusCompleted         ApplicationStatus = "completed"
	ApplicationStatusFailed            ApplicationStatus = "failed"
	ApplicationStatusCancelled         ApplicationStatus = "cancelled"
)

// Terminal reports whether no further automatic transition happens from s.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case ApplicationStatusCompleted, ApplicationStatusFailed, ApplicationStatusCancelled:
		return true
	}
	return false
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusInProgress,
		ApplicationStatusAwaitingUserInput, ApplicationStatusAwaitingOTP,
		ApplicationStatusCompleted, ApplicationStatusFailed, ApplicationStatusCancelled:
		return true
	}
	return false
}

// JobApplication is one attempt to submit a job application for a user at a URL.
// The ID is assigned by the persistence layer on creation and immutable after.
// CompletedAt is non-nil iff Status is completed; the repository sets it on
// that transition so the invariant holds regardless of caller.
type JobApplication struct {
	ID          int64
	UserID      string
	JobURL      string
	Status      ApplicationStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Metadata    map[string]any
}

func NewJobApplication(userID, jobURL string) (*JobApplication, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" || !(strings.HasPrefix(jobURL, "http://") || strings.HasPrefix(jobURL, "https://")) {
		return nil, domain.ErrInvalidArgument
	}
	return &JobApplication{
		UserID:    userID,
		JobURL:    jobURL,
		Status:    ApplicationStatusPending,
		StartedAt: time.Now(),
		Metadata:  map[string]any{},
	}, nil
}
