package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/ports/repository"
)

// Ensure the adapter implements the port interface.
var _ repository.PendingInputRepository = (*PendingInputRepo)(nil)

// PendingInputRepo keeps the "whose reply is this" routing state in Redis.
// Loss of a key only means the next free-text message is not auto-routed; the
// application's persisted status remains the source of truth.
type PendingInputRepo struct {
	client *Client
	ttl    time.Duration
}

func NewPendingInputRepo(client *Client, ttl time.Duration) *PendingInputRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PendingInputRepo{client: client, ttl: ttl}
}

func (s *PendingInputRepo) key(tgID int64) string {
	return fmt.Sprintf("pending_input:%d", tgID)
}

func (s *PendingInputRepo) Set(ctx context.Context, tgID int64, pending *repository.PendingInput) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(tgID), data, s.ttl)
}

func (s *PendingInputRepo) Get(ctx context.Context, tgID int64) (*repository.PendingInput, error) {
	data, err := s.client.Get(ctx, s.key(tgID))
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var pending repository.PendingInput
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (s *PendingInputRepo) Clear(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.key(tgID))
}
