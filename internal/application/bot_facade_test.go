package application

import (
	"context"
	"strings"
	"testing"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/repository"
	"telegram-job-applier/internal/usecase"
)

//
// ---------------- fakes ----------------
//

type fakeUserUC struct {
	users map[int64]*model.User
}

func (f *fakeUserUC) RegisterOrFetch(ctx context.Context, tgID int64, username string) (*model.User, error) {
	if u, ok := f.users[tgID]; ok {
		return u, nil
	}
	u := &model.User{ID: "user-1", TelegramID: tgID, Username: username}
	f.users[tgID] = u
	return u, nil
}

func (f *fakeUserUC) GetByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	u, ok := f.users[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type fakeProfileUC struct {
	profiles map[string]*model.UserProfile
}

func (f *fakeProfileUC) Save(ctx context.Context, userID string, p *model.UserProfile) error {
	f.profiles[userID] = p
	return nil
}

func (f *fakeProfileUC) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// fakeAppUC scripts Process results per call so suspension flows can be
// walked without a browser.
type fakeAppUC struct {
	nextID        int64
	processQueue  []usecase.ProcessResult
	otpAccepts    bool
	userResponses []string
	cancelled     []int64
	apps          map[int64]*model.JobApplication
}

func newFakeAppUC() *fakeAppUC {
	return &fakeAppUC{nextID: 1, apps: map[int64]*model.JobApplication{}}
}

func (f *fakeAppUC) Start(ctx context.Context, userID, jobURL string) (int64, error) {
	if !strings.HasPrefix(jobURL, "http") {
		return 0, domain.ErrInvalidArgument
	}
	id := f.nextID
	f.nextID++
	f.apps[id] = &model.JobApplication{ID: id, UserID: userID, JobURL: jobURL, Status: model.ApplicationStatusInProgress}
	return id, nil
}

func (f *fakeAppUC) Process(ctx context.Context, applicationID int64) (usecase.ProcessResult, error) {
	if len(f.processQueue) == 0 {
		return usecase.ProcessResult{Status: model.ApplicationStatusCompleted, Message: "Application submitted"}, nil
	}
	res := f.processQueue[0]
	f.processQueue = f.processQueue[1:]
	return res, nil
}

func (f *fakeAppUC) HandleUserResponse(ctx context.Context, applicationID int64, response string) (model.ApplicationStatus, error) {
	f.userResponses = append(f.userResponses, response)
	return model.ApplicationStatusInProgress, nil
}

func (f *fakeAppUC) HandleOTP(ctx context.Context, applicationID int64, otpCode string) (model.ApplicationStatus, error) {
	if f.otpAccepts {
		return model.ApplicationStatusInProgress, nil
	}
	return model.ApplicationStatusAwaitingOTP, nil
}

func (f *fakeAppUC) Cancel(ctx context.Context, applicationID int64) error {
	f.cancelled = append(f.cancelled, applicationID)
	return nil
}

func (f *fakeAppUC) Get(ctx context.Context, applicationID int64) (*model.JobApplication, error) {
	a, ok := f.apps[applicationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeAppUC) History(ctx context.Context, applicationID int64) ([]*model.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeAppUC) ListByUser(ctx context.Context, userID string, limit int) ([]*model.JobApplication, error) {
	var out []*model.JobApplication
	for _, a := range f.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePendingRepo struct {
	store map[int64]*repository.PendingInput
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{store: map[int64]*repository.PendingInput{}}
}

func (f *fakePendingRepo) Set(ctx context.Context, tgID int64, p *repository.PendingInput) error {
	f.store[tgID] = p
	return nil
}

func (f *fakePendingRepo) Get(ctx context.Context, tgID int64) (*repository.PendingInput, error) {
	p, ok := f.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePendingRepo) Clear(ctx context.Context, tgID int64) error {
	delete(f.store, tgID)
	return nil
}

type fakeAnswers struct{ answer string }

func (f *fakeAnswers) DraftAnswer(ctx context.Context, profile *model.UserProfile, question string) (string, error) {
	return f.answer, nil
}

//
// ---------------- tests ----------------
//

type facadeFixture struct {
	users   *fakeUserUC
	apps    *fakeAppUC
	pending *fakePendingRepo
	facade  *BotFacade
}

func newFacadeFixture() *facadeFixture {
	f := &facadeFixture{
		users:   &fakeUserUC{users: map[int64]*model.User{}},
		apps:    newFakeAppUC(),
		pending: newFakePendingRepo(),
	}
	profiles := &fakeProfileUC{profiles: map[string]*model.UserProfile{}}
	f.facade = NewBotFacade(f.users, profiles, f.apps, f.pending, &fakeAnswers{answer: "drafted"})
	return f
}

func TestHandleApply(t *testing.T) {
	t.Run("requires a registered user", func(t *testing.T) {
		f := newFacadeFixture()
		reply, err := f.facade.HandleApply(context.Background(), 42, "https://jobs.example.com/1")
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if !strings.Contains(reply, "/start") {
			t.Fatalf("want a /start hint, got %q", reply)
		}
	})

	t.Run("completed application clears pending routing", func(t *testing.T) {
		f := newFacadeFixture()
		if _, err := f.facade.HandleStart(context.Background(), 42, "ada"); err != nil {
			t.Fatalf("start: %v", err)
		}
		reply, err := f.facade.HandleApply(context.Background(), 42, "https://jobs.example.com/1")
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if !strings.Contains(reply, "submitted") {
			t.Fatalf("want submitted confirmation, got %q", reply)
		}
		if _, err := f.pending.Get(context.Background(), 42); err == nil {
			t.Fatalf("no pending input expected after completion")
		}
	})

	t.Run("login suspension sets pending text routing", func(t *testing.T) {
		f := newFacadeFixture()
		if _, err := f.facade.HandleStart(context.Background(), 42, "ada"); err != nil {
			t.Fatalf("start: %v", err)
		}
		f.apps.processQueue = []usecase.ProcessResult{
			{Status: model.ApplicationStatusAwaitingUserInput, Message: "Login required"},
		}
		reply, err := f.facade.HandleApply(context.Background(), 42, "https://jobs.example.com/1")
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if !strings.Contains(reply, "Login required") {
			t.Fatalf("want the suspension reason surfaced, got %q", reply)
		}
		p, err := f.pending.Get(context.Background(), 42)
		if err != nil {
			t.Fatalf("pending: %v", err)
		}
		if p.Kind != repository.PendingText || p.ApplicationID != 1 {
			t.Fatalf("unexpected pending %+v", p)
		}
	})
}

func TestHandleReply(t *testing.T) {
	t.Run("without pending input it is a hint", func(t *testing.T) {
		f := newFacadeFixture()
		reply, err := f.facade.HandleReply(context.Background(), 42, "hello")
		if err != nil {
			t.Fatalf("reply: %v", err)
		}
		if !strings.Contains(reply, "/apply") {
			t.Fatalf("want an /apply hint, got %q", reply)
		}
		if len(f.apps.userResponses) != 0 {
			t.Fatalf("no response may be recorded without a pending application")
		}
	})

	t.Run("pending text routes the reply and resumes", func(t *testing.T) {
		f := newFacadeFixture()
		_ = f.pending.Set(context.Background(), 42, &repository.PendingInput{ApplicationID: 7, Kind: repository.PendingText})

		reply, err := f.facade.HandleReply(context.Background(), 42, "logged in now")
		if err != nil {
			t.Fatalf("reply: %v", err)
		}
		if len(f.apps.userResponses) != 1 || f.apps.userResponses[0] != "logged in now" {
			t.Fatalf("reply not forwarded verbatim: %v", f.apps.userResponses)
		}
		if !strings.Contains(reply, "submitted") {
			t.Fatalf("want resume to drive to completion, got %q", reply)
		}
	})
}

func TestHandleOTPCommand(t *testing.T) {
	t.Run("rejected code keeps the pending marker", func(t *testing.T) {
		f := newFacadeFixture()
		_ = f.pending.Set(context.Background(), 42, &repository.PendingInput{ApplicationID: 7, Kind: repository.PendingOTP})
		f.apps.otpAccepts = false

		reply, err := f.facade.HandleOTP(context.Background(), 42, "000000")
		if err != nil {
			t.Fatalf("otp: %v", err)
		}
		if !strings.Contains(reply, "not accepted") {
			t.Fatalf("want rejection message, got %q", reply)
		}
		if p, err := f.pending.Get(context.Background(), 42); err != nil || p.Kind != repository.PendingOTP {
			t.Fatalf("pending otp marker must survive a rejected code")
		}
	})

	t.Run("accepted code clears pending and resumes", func(t *testing.T) {
		f := newFacadeFixture()
		_ = f.pending.Set(context.Background(), 42, &repository.PendingInput{ApplicationID: 7, Kind: repository.PendingOTP})
		f.apps.otpAccepts = true

		reply, err := f.facade.HandleOTP(context.Background(), 42, "123456")
		if err != nil {
			t.Fatalf("otp: %v", err)
		}
		if !strings.Contains(reply, "submitted") {
			t.Fatalf("want resume to completion, got %q", reply)
		}
		if _, err := f.pending.Get(context.Background(), 42); err == nil {
			t.Fatalf("pending must be cleared after an accepted code")
		}
	})
}

func TestHandleCancelClearsPending(t *testing.T) {
	f := newFacadeFixture()
	_ = f.pending.Set(context.Background(), 42, &repository.PendingInput{ApplicationID: 7, Kind: repository.PendingText})

	reply, err := f.facade.HandleCancel(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !strings.Contains(reply, "cancelled") {
		t.Fatalf("want cancel confirmation, got %q", reply)
	}
	if len(f.apps.cancelled) != 1 || f.apps.cancelled[0] != 7 {
		t.Fatalf("cancel not forwarded: %v", f.apps.cancelled)
	}
	if _, err := f.pending.Get(context.Background(), 42); err == nil {
		t.Fatalf("pending must be cleared on cancel")
	}
}

func TestHandleProfile(t *testing.T) {
	f := newFacadeFixture()
	if _, err := f.facade.HandleStart(context.Background(), 42, "ada"); err != nil {
		t.Fatalf("start: %v", err)
	}

	t.Run("empty store hints at upload", func(t *testing.T) {
		reply, err := f.facade.HandleProfile(context.Background(), 42, "")
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		if !strings.Contains(reply, "No profile stored") {
			t.Fatalf("want upload hint, got %q", reply)
		}
	})

	t.Run("save then show", func(t *testing.T) {
		doc := `{"personal_info":{"email":"ada@example.com"},"skills":{"technical_skills":["Go","SQL"]}}`
		reply, err := f.facade.HandleProfile(context.Background(), 42, doc)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if !strings.Contains(reply, "Profile saved") || !strings.Contains(reply, "Go, SQL") {
			t.Fatalf("unexpected reply %q", reply)
		}

		reply, err = f.facade.HandleProfile(context.Background(), 42, "")
		if err != nil {
			t.Fatalf("show: %v", err)
		}
		if !strings.Contains(reply, "personal_info: 1 fields") {
			t.Fatalf("unexpected summary %q", reply)
		}
	})

	t.Run("garbage json is reported, not an error", func(t *testing.T) {
		reply, err := f.facade.HandleProfile(context.Background(), 42, "{not json")
		if err != nil {
			t.Fatalf("profile: %v", err)
		}
		if !strings.Contains(reply, "not valid profile JSON") {
			t.Fatalf("unexpected reply %q", reply)
		}
	})
}

func TestHandleDraft(t *testing.T) {
	f := newFacadeFixture()
	if _, err := f.facade.HandleStart(context.Background(), 42, "ada"); err != nil {
		t.Fatalf("start: %v", err)
	}
	reply, err := f.facade.HandleDraft(context.Background(), 42, "Why do you want this job?")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if !strings.Contains(reply, "drafted") {
		t.Fatalf("want the generated answer, got %q", reply)
	}
}
