package adapter

import (
	"context"

	"telegram-job-applier/internal/domain/model"
)

// AnswerGenerator drafts an answer for a form question that the flattened
// profile could not cover, using the structured profile as context. Purely
// advisory: the draft is shown to the user, never submitted unreviewed.
type AnswerGenerator interface {
	DraftAnswer(ctx context.Context, profile *model.UserProfile, question string) (string, error)
}
