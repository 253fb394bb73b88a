package ai

import (
	"context"
	"log"
	"time"

	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
)

var _ adapter.AnswerGenerator = (*NoopAnswerGenerator)(nil)

// NoopAnswerGenerator implements adapter.AnswerGenerator for local/dev testing.
// It logs the question instead of calling any model.
type NoopAnswerGenerator struct{}

func NewNoopAnswerGenerator() *NoopAnswerGenerator {
	return &NoopAnswerGenerator{}
}

func (a *NoopAnswerGenerator) DraftAnswer(ctx context.Context, profile *model.UserProfile, question string) (string, error) {
	select {
	case <-time.After(100 * time.Millisecond):
		// proceed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	log.Printf("[noop-ai] draft answer for question: %s\n", question)
	return "This is a noop draft answer.", nil
}
