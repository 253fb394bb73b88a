package model

import "time"

type HistoryEventType string

const (
	HistoryEventCreated       HistoryEventType = "created"
	HistoryEventFormFilled    HistoryEventType = "form_filled"
	HistoryEventUserResponse  HistoryEventType = "user_response"
	HistoryEventOTPSubmitted  HistoryEventType = "otp_submitted"
	HistoryEventCancelled     HistoryEventType = "cancelled"
	HistoryEventStatusChanged HistoryEventType = "status_changed"
)

// HistoryEntry is an immutable audit fact appended while an application is
// processed. Entries are never updated or deleted; ordered by Timestamp they
// are the full trail of why the application's status changed.
type HistoryEntry struct {
	ID            string // ULID, assigned by the repository
	ApplicationID int64
	EventType     HistoryEventType
	EventData     map[string]any
	Timestamp     time.Time
}
