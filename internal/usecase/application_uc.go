// File: internal/usecase/application_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
	"telegram-job-applier/internal/domain/ports/repository"
	"telegram-job-applier/internal/infra/logging"
	"telegram-job-applier/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ApplicationUseCase = (*applicationUC)(nil)

// ProcessResult is the small structured result every public step returns for
// expected branches. Only adapter/storage faults surface as errors.
type ProcessResult struct {
	Status  model.ApplicationStatus
	Message string
}

// ApplicationUseCase drives the lifecycle of one job application. Process is
// the single step function; HandleUserResponse and HandleOTP are the
// resumption events that carry it out of a suspension. All mutating calls for
// a given application must be serialized by the caller: Process reads then
// writes status without a compare-and-swap, so concurrent calls on the same
// application can lose updates. Different applications are independent.
type ApplicationUseCase interface {
	Start(ctx context.Context, userID, jobURL string) (int64, error)
	Process(ctx context.Context, applicationID int64) (ProcessResult, error)
	HandleUserResponse(ctx context.Context, applicationID int64, response string) (model.ApplicationStatus, error)
	HandleOTP(ctx context.Context, applicationID int64, otpCode string) (model.ApplicationStatus, error)
	Cancel(ctx context.Context, applicationID int64) error
	Get(ctx context.Context, applicationID int64) (*model.JobApplication, error)
	History(ctx context.Context, applicationID int64) ([]*model.HistoryEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.JobApplication, error)
}

type applicationUC struct {
	apps     repository.ApplicationRepository
	history  repository.HistoryRepository
	profiles repository.ProfileRepository
	browser  adapter.BrowserAutomation
	forms    adapter.FormFiller
	auth     adapter.AuthHandler
	log      *zerolog.Logger
}

func NewApplicationUseCase(
	apps repository.ApplicationRepository,
	history repository.HistoryRepository,
	profiles repository.ProfileRepository,
	browser adapter.BrowserAutomation,
	forms adapter.FormFiller,
	auth adapter.AuthHandler,
	logger *zerolog.Logger,
) *applicationUC {
	return &applicationUC{
		apps:     apps,
		history:  history,
		profiles: profiles,
		browser:  browser,
		forms:    forms,
		auth:     auth,
		log:      logger,
	}
}

// Start creates the application record and immediately advances it to
// in_progress, so callers of Process never observe a half-created pending row.
func (a *applicationUC) Start(ctx context.Context, userID, jobURL string) (int64, error) {
	defer logging.TraceDuration(a.log, "ApplicationUC.Start")()

	app, err := model.NewJobApplication(userID, jobURL)
	if err != nil {
		return 0, err
	}
	id, err := a.apps.Create(ctx, repository.NoTX, app)
	if err != nil {
		return 0, err
	}
	if err := a.history.Append(ctx, repository.NoTX, id, model.HistoryEventCreated, map[string]any{"job_url": jobURL}); err != nil {
		return 0, err
	}
	if err := a.apps.UpdateStatus(ctx, repository.NoTX, id, model.ApplicationStatusInProgress, nil); err != nil {
		return 0, err
	}
	metrics.IncApplicationStarted()
	a.log.Info().Int64("application_id", id).Str("user_id", userID).Msg("application started")
	return id, nil
}

// Process performs one step of the state machine. Every effect is persisted
// before the next begins, so it is safe to re-enter after a crash between any
// two internal effects. Suspension is a return, not a wait: on a login
// requirement the method records awaiting_user_input and hands control back.
func (a *applicationUC) Process(ctx context.Context, applicationID int64) (ProcessResult, error) {
	defer logging.TraceDuration(a.log, "ApplicationUC.Process")()
	started := time.Now()
	defer func() { metrics.ObserveProcessLatency(float64(time.Since(started).Milliseconds())) }()

	app, err := a.apps.FindByID(ctx, repository.NoTX, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Not-found is a failed-shaped result, never an error; nothing
			// persisted changes because there is nothing to change.
			return ProcessResult{Status: model.ApplicationStatusFailed, Message: "Application not found"}, nil
		}
		return ProcessResult{}, err
	}

	if err := a.browser.Navigate(ctx, app.JobURL); err != nil {
		return ProcessResult{}, err
	}

	loginRequired, err := a.auth.LoginRequired(ctx)
	if err != nil {
		return ProcessResult{}, err
	}
	if loginRequired {
		meta := map[string]any{"reason": "login_required"}
		if err := a.apps.UpdateStatus(ctx, repository.NoTX, applicationID, model.ApplicationStatusAwaitingUserInput, meta); err != nil {
			return ProcessResult{}, err
		}
		a.log.Info().Int64("application_id", applicationID).Msg("suspended awaiting login")
		return ProcessResult{Status: model.ApplicationStatusAwaitingUserInput, Message: "Login required"}, nil
	}

	profile, err := a.profiles.Find(ctx, repository.NoTX, app.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return ProcessResult{}, err
	}
	// Absent profile fills nothing; every offered key ends up unmatched-free
	// because nothing is offered.
	formData := FlattenProfile(profile)

	unmatched, err := a.forms.Fill(ctx, formData)
	if err != nil {
		return ProcessResult{}, err
	}
	metrics.AddUnmatchedFields(len(unmatched))
	if err := a.history.Append(ctx, repository.NoTX, applicationID, model.HistoryEventFormFilled, map[string]any{"unmatched": unmatched}); err != nil {
		return ProcessResult{}, err
	}

	submitted, err := a.forms.Submit(ctx)
	if err != nil {
		return ProcessResult{}, err
	}
	if submitted {
		if err := a.apps.UpdateStatus(ctx, repository.NoTX, applicationID, model.ApplicationStatusCompleted, nil); err != nil {
			return ProcessResult{}, err
		}
		metrics.IncApplicationFinished(string(model.ApplicationStatusCompleted))
		a.log.Info().Int64("application_id", applicationID).Msg("application submitted")
		return ProcessResult{Status: model.ApplicationStatusCompleted, Message: "Application submitted"}, nil
	}

	meta := map[string]any{"reason": "submit_button_not_found"}
	if err := a.apps.UpdateStatus(ctx, repository.NoTX, applicationID, model.ApplicationStatusFailed, meta); err != nil {
		return ProcessResult{}, err
	}
	metrics.IncApplicationFinished(string(model.ApplicationStatusFailed))
	a.log.Warn().Int64("application_id", applicationID).Msg("submit control not found")
	return ProcessResult{Status: model.ApplicationStatusFailed, Message: "Unable to submit"}, nil
}

// HandleUserResponse records the verbatim reply and unconditionally moves the
// application back to in_progress, whatever its prior status. It does not
// resume browser interaction; the next Process call continues the flow.
func (a *applicationUC) HandleUserResponse(ctx context.Context, applicationID int64, response string) (model.ApplicationStatus, error) {
	defer logging.TraceDuration(a.log, "ApplicationUC.HandleUserResponse")()

	if err := a.history.Append(ctx, repository.NoTX, applicationID, model.HistoryEventUserResponse, map[string]any{"response": response}); err != nil {
		return "", err
	}
	if err := a.apps.UpdateStatus(ctx, repository.NoTX, applicationID, model.ApplicationStatusInProgress, nil); err != nil {
		return "", err
	}
	return model.ApplicationStatusInProgress, nil
}

// HandleOTP submits the code; an accepted code resumes the flow, a rejected
// one leaves the application waiting so the operator can retry. The
// otp_submitted entry records the outcome either way.
func (a *applicationUC) HandleOTP(ctx context.Context, applicationID int64, otpCode string) (model.ApplicationStatus, error) {
	defer logging.TraceDuration(a.log, "ApplicationUC.HandleOTP")()

	accepted, err := a.auth.SubmitOTP(ctx, otpCode)
	if err != nil {
		return "", err
	}
	status := model.ApplicationStatusAwaitingOTP
	if accepted {
		status = model.ApplicationStatusInProgress
	}
	if err := a.apps.UpdateStatus(ctx, repository.NoTX, applicationID, status, nil); err != nil {
		return "", err
	}
	if err := a.history.Append(ctx, repository.NoTX, applicationID, model.HistoryEventOTPSubmitted, map[string]any{"accepted": accepted}); err != nil {
		return "", err
	}
	metrics.IncOTPSubmission(accepted)
	return status, nil
}

// Cancel is unconditional: no guard on the current status, cancelling a
// terminal application is permitted and appends another cancelled entry.
func (a *applicationUC) Cancel(ctx context.Context, applicationID int64) error {
	defer logging.TraceDuration(a.log, "ApplicationUC.Cancel")()

	if err := a.apps.UpdateStatus(ctx, repository.NoTX, applicationID, model.ApplicationStatusCancelled, nil); err != nil {
		return err
	}
	if err := a.history.Append(ctx, repository.NoTX, applicationID, model.HistoryEventCancelled, map[string]any{}); err != nil {
		return err
	}
	metrics.IncApplicationFinished(string(model.ApplicationStatusCancelled))
	a.log.Info().Int64("application_id", applicationID).Msg("application cancelled")
	return nil
}

func (a *applicationUC) Get(ctx context.Context, applicationID int64) (*model.JobApplication, error) {
	return a.apps.FindByID(ctx, repository.NoTX, applicationID)
}

func (a *applicationUC) History(ctx context.Context, applicationID int64) ([]*model.HistoryEntry, error) {
	return a.history.ListByApplication(ctx, repository.NoTX, applicationID)
}

func (a *applicationUC) ListByUser(ctx context.Context, userID string, limit int) ([]*model.JobApplication, error) {
	return a.apps.FindByUser(ctx, repository.NoTX, userID, limit)
}
