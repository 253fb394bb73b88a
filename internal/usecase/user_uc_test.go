package usecase

import (
	"context"
	"errors"
	"testing"

	"telegram-job-applier/internal/domain"
)

func TestRegisterOrFetch(t *testing.T) {
	t.Run("creates a new user once", func(t *testing.T) {
		repo := newMemUserRepo()
		uc := NewUserUseCase(repo, &mockTxManager{}, newTestLogger())

		u1, err := uc.RegisterOrFetch(context.Background(), 42, "ada")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if u1.ID == "" {
			t.Fatalf("want assigned id")
		}

		u2, err := uc.RegisterOrFetch(context.Background(), 42, "ada")
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if u2.ID != u1.ID {
			t.Fatalf("want same user on repeat, got %s vs %s", u2.ID, u1.ID)
		}
	})

	t.Run("rejects invalid telegram id", func(t *testing.T) {
		uc := NewUserUseCase(newMemUserRepo(), &mockTxManager{}, newTestLogger())
		if _, err := uc.RegisterOrFetch(context.Background(), 0, "ada"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("propagates save failures", func(t *testing.T) {
		repo := newMemUserRepo()
		repo.saveErr = domain.ErrReadDatabaseRow
		uc := NewUserUseCase(repo, &mockTxManager{}, newTestLogger())
		if _, err := uc.RegisterOrFetch(context.Background(), 42, "ada"); err == nil {
			t.Fatalf("want error")
		}
	})
}

func TestGetByTelegramID(t *testing.T) {
	repo := newMemUserRepo()
	uc := NewUserUseCase(repo, &mockTxManager{}, newTestLogger())

	if _, err := uc.GetByTelegramID(context.Background(), 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if _, err := uc.RegisterOrFetch(context.Background(), 7, "bob"); err != nil {
		t.Fatalf("register: %v", err)
	}
	u, err := uc.GetByTelegramID(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Username != "bob" {
		t.Fatalf("want bob, got %s", u.Username)
	}
}
