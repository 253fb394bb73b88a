package model

import (
	"errors"
	"testing"

	"telegram-job-applier/internal/domain"
)

func TestApplicationStatus(t *testing.T) {
	terminal := map[ApplicationStatus]bool{
		ApplicationStatusPending:           false,
		ApplicationStatusInProgress:        false,
		ApplicationStatusAwaitingUserInput: false,
		ApplicationStatusAwaitingOTP:       false,
		ApplicationStatusCompleted:         true,
		ApplicationStatusFailed:            true,
		ApplicationStatusCancelled:         true,
	}
	for status, want := range terminal {
		if !status.Valid() {
			t.Fatalf("%s must be valid", status)
		}
		if status.Terminal() != want {
			t.Errorf("%s: Terminal() = %v, want %v", status, status.Terminal(), want)
		}
	}
	if ApplicationStatus("paused").Valid() {
		t.Fatalf("unknown status must not be valid")
	}
}

func TestNewJobApplication(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		app, err := NewJobApplication("user-1", " https://jobs.example.com/1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if app.Status != ApplicationStatusPending {
			t.Fatalf("want pending, got %s", app.Status)
		}
		if app.JobURL != "https://jobs.example.com/1" {
			t.Fatalf("url not trimmed: %q", app.JobURL)
		}
		if app.CompletedAt != nil {
			t.Fatalf("completed_at must start nil")
		}
	})

	t.Run("invalid inputs", func(t *testing.T) {
		cases := []struct{ user, url string }{
			{"", "https://jobs.example.com/1"},
			{"user-1", ""},
			{"user-1", "   "},
			{"user-1", "mailto:hr@example.com"},
			{"user-1", "example.com/job"},
		}
		for _, c := range cases {
			if _, err := NewJobApplication(c.user, c.url); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("NewJobApplication(%q, %q): want ErrInvalidArgument, got %v", c.user, c.url, err)
			}
		}
	})
}
