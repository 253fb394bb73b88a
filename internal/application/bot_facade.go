package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
	"telegram-job-applier/internal/domain/ports/repository"
	"telegram-job-applier/internal/usecase"
)

// AsyncRunner hands a browser-driving task to a background worker. When nil
// the facade drives applications inline, which is what tests and the demo use.
type AsyncRunner func(task func(ctx context.Context) error) error

// BotFacade composes usecases into high-level bot commands.
// Facade methods return strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	UserUC    usecase.UserUseCase
	ProfileUC usecase.ProfileUseCase
	AppUC     usecase.ApplicationUseCase
	Pending   repository.PendingInputRepository
	Answers   adapter.AnswerGenerator

	notify adapter.TelegramBotAdapter
	runner AsyncRunner
}

// WithAsync makes /apply drive the browser on a background worker and push
// the outcome to the chat instead of blocking the update loop.
func (b *BotFacade) WithAsync(notify adapter.TelegramBotAdapter, runner AsyncRunner) *BotFacade {
	b.notify = notify
	b.runner = runner
	return b
}

func NewBotFacade(
	userUC usecase.UserUseCase,
	profileUC usecase.ProfileUseCase,
	appUC usecase.ApplicationUseCase,
	pending repository.PendingInputRepository,
	answers adapter.AnswerGenerator,
) *BotFacade {
	return &BotFacade{
		UserUC:    userUC,
		ProfileUC: profileUC,
		AppUC:     appUC,
		Pending:   pending,
		Answers:   answers,
	}
}

// HandleStart registers or fetches the user and returns a welcome string.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, username string) (string, error) {
	if b.UserUC == nil {
		return "", fmt.Errorf("user usecase not available")
	}
	u, err := b.UserUC.RegisterOrFetch(ctx, tgID, username)
	if err != nil {
		return "", fmt.Errorf("register/fetch user: %w", err)
	}
	return fmt.Sprintf("Hello %s!\nYour account id: %s\nSend /apply <job url> to start an application.", username, u.ID), nil
}

// HandleApply starts a new application for the job URL and immediately drives
// the first Process step, translating the outcome into a chat message.
func (b *BotFacade) HandleApply(ctx context.Context, tgID int64, jobURL string) (string, error) {
	u, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No account found. Send /start first.", nil
		}
		return "", err
	}
	id, err := b.AppUC.Start(ctx, u.ID, jobURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return "That does not look like a job URL. Usage: /apply https://...", nil
		}
		return "", err
	}
	if b.runner != nil && b.notify != nil {
		if err := b.runner(func(taskCtx context.Context) error {
			text, derr := b.drive(taskCtx, tgID, id)
			if derr != nil {
				_ = b.notify.SendMessage(taskCtx, tgID, fmt.Sprintf("Application #%d hit an error. Try /status later.", id))
				return derr
			}
			return b.notify.SendMessage(taskCtx, tgID, text)
		}); err == nil {
			return fmt.Sprintf("Started application #%d. I'll update you here.", id), nil
		}
		// Queue full: fall through and drive inline.
	}
	return b.drive(ctx, tgID, id)
}

// drive runs one Process step and arranges reply routing when it suspends.
func (b *BotFacade) drive(ctx context.Context, tgID int64, applicationID int64) (string, error) {
	res, err := b.AppUC.Process(ctx, applicationID)
	if err != nil {
		return "", err
	}
	switch res.Status {
	case model.ApplicationStatusAwaitingUserInput:
		if perr := b.Pending.Set(ctx, tgID, &repository.PendingInput{ApplicationID: applicationID, Kind: repository.PendingText}); perr != nil {
			return "", perr
		}
		return fmt.Sprintf("Application #%d needs you: %s.\nLog in in the browser session, then reply here (any text) to continue, or send /otp <code> if a code was requested.", applicationID, res.Message), nil
	case model.ApplicationStatusAwaitingOTP:
		if perr := b.Pending.Set(ctx, tgID, &repository.PendingInput{ApplicationID: applicationID, Kind: repository.PendingOTP}); perr != nil {
			return "", perr
		}
		return fmt.Sprintf("Application #%d is waiting for a one-time code. Send /otp <code>.", applicationID), nil
	case model.ApplicationStatusCompleted:
		_ = b.Pending.Clear(ctx, tgID)
		return fmt.Sprintf("Application #%d submitted. 🎉", applicationID), nil
	case model.ApplicationStatusFailed:
		_ = b.Pending.Clear(ctx, tgID)
		return fmt.Sprintf("Application #%d failed: %s", applicationID, res.Message), nil
	default:
		return fmt.Sprintf("Application #%d is %s.", applicationID, res.Status), nil
	}
}

// HandleReply routes a plain text message to whichever application is waiting
// on this chat. Without a pending application the reply is a no-op hint.
func (b *BotFacade) HandleReply(ctx context.Context, tgID int64, text string) (string, error) {
	pending, err := b.Pending.Get(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "Nothing is waiting on your input right now. Send /apply <job url> to start.", nil
		}
		return "", err
	}
	if pending.Kind == repository.PendingOTP {
		return b.submitOTP(ctx, tgID, pending.ApplicationID, strings.TrimSpace(text))
	}
	if _, err := b.AppUC.HandleUserResponse(ctx, pending.ApplicationID, text); err != nil {
		return "", err
	}
	_ = b.Pending.Clear(ctx, tgID)
	return b.drive(ctx, tgID, pending.ApplicationID)
}

// HandleOTP handles the explicit /otp <code> command.
func (b *BotFacade) HandleOTP(ctx context.Context, tgID int64, code string) (string, error) {
	pending, err := b.Pending.Get(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No application is waiting for a code.", nil
		}
		return "", err
	}
	return b.submitOTP(ctx, tgID, pending.ApplicationID, code)
}

func (b *BotFacade) submitOTP(ctx context.Context, tgID int64, applicationID int64, code string) (string, error) {
	status, err := b.AppUC.HandleOTP(ctx, applicationID, code)
	if err != nil {
		return "", err
	}
	if status == model.ApplicationStatusAwaitingOTP {
		// Keep the pending marker so the next code routes here too.
		if perr := b.Pending.Set(ctx, tgID, &repository.PendingInput{ApplicationID: applicationID, Kind: repository.PendingOTP}); perr != nil {
			return "", perr
		}
		return "That code was not accepted. Try again with /otp <code>.", nil
	}
	_ = b.Pending.Clear(ctx, tgID)
	return b.drive(ctx, tgID, applicationID)
}

// HandleStatus lists the user's recent applications.
func (b *BotFacade) HandleStatus(ctx context.Context, tgID int64) (string, error) {
	u, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No account found. Send /start first.", nil
		}
		return "", err
	}
	apps, err := b.AppUC.ListByUser(ctx, u.ID, 10)
	if err != nil {
		return "", err
	}
	if len(apps) == 0 {
		return "You have no applications yet. Send /apply <job url> to start one.", nil
	}
	var sb strings.Builder
	sb.WriteString("Your applications:\n")
	for _, a := range apps {
		fmt.Fprintf(&sb, "#%d %s - %s\n", a.ID, a.Status, a.JobURL)
	}
	return sb.String(), nil
}

// HandleHistory renders the audit trail of one application.
func (b *BotFacade) HandleHistory(ctx context.Context, applicationID int64) (string, error) {
	entries, err := b.AppUC.History(ctx, applicationID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No history for application #%d.", applicationID), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "History of application #%d:\n", applicationID)
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.EventType)
	}
	return sb.String(), nil
}

// HandleCancel cancels an application; cancelling one that already finished
// is allowed and simply recorded again.
func (b *BotFacade) HandleCancel(ctx context.Context, tgID int64, applicationID int64) (string, error) {
	if err := b.AppUC.Cancel(ctx, applicationID); err != nil {
		return "", err
	}
	_ = b.Pending.Clear(ctx, tgID)
	return fmt.Sprintf("Application #%d cancelled.", applicationID), nil
}

// HandleProfile shows the stored profile summary, or replaces the profile
// when a JSON document is supplied. Onboarding is deliberately this blunt: the
// structured document is authored elsewhere and pasted in.
func (b *BotFacade) HandleProfile(ctx context.Context, tgID int64, payload string) (string, error) {
	u, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No account found. Send /start first.", nil
		}
		return "", err
	}

	if strings.TrimSpace(payload) == "" {
		profile, err := b.ProfileUC.Get(ctx, u.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "No profile stored yet. Send /profile followed by your profile JSON.", nil
			}
			return "", err
		}
		return profileSummary(profile), nil
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return "That is not valid profile JSON: " + err.Error(), nil
	}
	if err := b.ProfileUC.Save(ctx, u.ID, &profile); err != nil {
		return "", err
	}
	return "Profile saved.\n" + profileSummary(&profile), nil
}

func profileSummary(p *model.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("Your profile:\n")
	fmt.Fprintf(&sb, "personal_info: %d fields\n", len(p.PersonalInfo))
	fmt.Fprintf(&sb, "work_authorization: %d fields\n", len(p.WorkAuthorization))
	fmt.Fprintf(&sb, "education: %d entries\n", len(p.Education))
	fmt.Fprintf(&sb, "work_experience: %d entries\n", len(p.WorkExperience))
	if p.Skills != nil {
		fmt.Fprintf(&sb, "skills: %s\n", strings.Join(p.Skills.TechnicalSkills, ", "))
	}
	if p.ResumePath != "" {
		fmt.Fprintf(&sb, "resume: %s\n", p.ResumePath)
	}
	return sb.String()
}

// HandleDraft asks the answer generator for a suggested reply to a form
// question. Advisory only; the user decides what to submit.
func (b *BotFacade) HandleDraft(ctx context.Context, tgID int64, question string) (string, error) {
	if b.Answers == nil {
		return "Answer drafting is not configured.", nil
	}
	u, err := b.UserUC.GetByTelegramID(ctx, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "No account found. Send /start first.", nil
		}
		return "", err
	}
	profile, err := b.ProfileUC.Get(ctx, u.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	answer, err := b.Answers.DraftAnswer(ctx, profile, question)
	if err != nil {
		return "", err
	}
	return "Suggested answer:\n" + answer, nil
}
