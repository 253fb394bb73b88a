package adapter

import (
	"context"

	"telegram-job-applier/internal/domain/model"
)

// FormFiller fills the form on the current page from a flat name->value map.
// Matching (name/label heuristics, selector resolution) is its concern alone.
type FormFiller interface {
	DetectFields(ctx context.Context) ([]model.FormField, error)
	// Fill fills every matched field and returns the keys it could not match
	// to any detected field. Unmatched keys are an outcome, not an error.
	Fill(ctx context.Context, data map[string]string) (unmatched []string, err error)
	// Submit returns false when no submit control could be found or activated.
	Submit(ctx context.Context) (bool, error)
}
