package sched

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
	"telegram-job-applier/internal/domain/ports/repository"
)

// ReminderWorker periodically scans for applications stuck waiting on user
// input and pings the owner on Telegram so suspended applications do not rot.
type ReminderWorker struct {
	interval  time.Duration
	threshold time.Duration
	appRepo   repository.ApplicationRepository
	userRepo  repository.UserRepository
	bot       adapter.TelegramBotAdapter
	log       *zerolog.Logger

	// remembers what was already pinged so a stuck application is
	// reminded once per waiting period, not on every tick
	reminded map[int64]time.Time
}

func NewReminderWorker(
	interval, threshold time.Duration,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	bot adapter.TelegramBotAdapter,
	logger *zerolog.Logger,
) *ReminderWorker {
	compLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval:  interval,
		threshold: threshold,
		appRepo:   appRepo,
		userRepo:  userRepo,
		bot:       bot,
		log:       &compLog,
		reminded:  map[int64]time.Time{},
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting reminder worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *ReminderWorker) runCheck(ctx context.Context) {
	cutoff := time.Now().Add(-w.threshold)
	apps, err := w.appRepo.FindStuckWaiting(ctx, repository.NoTX, cutoff)
	if err != nil {
		w.log.Error().Err(err).Msg("stuck application scan failed")
		return
	}

	sent := 0
	for _, app := range apps {
		if last, ok := w.reminded[app.ID]; ok && time.Since(last) < w.threshold {
			continue
		}
		if err := w.remind(ctx, app); err != nil {
			w.log.Warn().Err(err).Int64("application_id", app.ID).Msg("reminder send failed")
			continue
		}
		w.reminded[app.ID] = time.Now()
		sent++
	}
	if sent > 0 {
		w.log.Info().Int("count", sent).Msg("stuck application reminders sent")
	}

	// Drop entries for applications that are no longer stuck.
	live := map[int64]struct{}{}
	for _, app := range apps {
		live[app.ID] = struct{}{}
	}
	for id := range w.reminded {
		if _, ok := live[id]; !ok {
			delete(w.reminded, id)
		}
	}
}

func (w *ReminderWorker) remind(ctx context.Context, app *model.JobApplication) error {
	user, err := w.userRepo.FindByID(ctx, repository.NoTX, app.UserID)
	if err != nil {
		return err
	}

	var hint string
	switch app.Status {
	case model.ApplicationStatusAwaitingOTP:
		hint = "It is waiting for a one-time code. Send /otp <code>."
	default:
		hint = "It is waiting for your input. Reply here to continue, or /cancel " + fmt.Sprintf("%d", app.ID) + " to stop."
	}
	text := fmt.Sprintf("Reminder: application #%d (%s) is still paused.\n%s", app.ID, app.JobURL, hint)
	return w.bot.SendMessage(ctx, user.TelegramID, text)
}
