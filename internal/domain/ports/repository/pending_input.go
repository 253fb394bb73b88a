package repository

import "context"

type PendingKind string

const (
	PendingText PendingKind = "text"
	PendingOTP  PendingKind = "otp"
)

// PendingInput routes a user's next free-text message to the application that
// suspended waiting for it. One pending input per Telegram chat at a time.
type PendingInput struct {
	ApplicationID int64       `json:"application_id"`
	Kind          PendingKind `json:"kind"`
}

// PendingInputRepository is volatile routing state, not the durable record of
// the suspension itself: the application's persisted status stays
// authoritative, and losing this state only degrades reply routing.
type PendingInputRepository interface {
	Set(ctx context.Context, tgID int64, pending *PendingInput) error
	Get(ctx context.Context, tgID int64) (*PendingInput, error)
	Clear(ctx context.Context, tgID int64) error
}
