// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-job-applier/internal/domain"
	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// memAppRepo is a small in-memory implementation used by unit tests. It
// mirrors the SQL repo's completed_at handling so the invariant tests mean
// something.
type memAppRepo struct {
	mu     sync.RWMutex
	nextID int64
	store  map[int64]*model.JobApplication

	updateErr error // used by tests to simulate write failures
}

func newMemAppRepo() *memAppRepo {
	return &memAppRepo{nextID: 1, store: make(map[int64]*model.JobApplication)}
}

func (m *memAppRepo) Create(ctx context.Context, _ repository.Tx, app *model.JobApplication) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *app
	cp.ID = m.nextID
	m.nextID++
	m.store[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memAppRepo) FindByID(ctx context.Context, _ repository.Tx, id int64) (*model.JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (m *memAppRepo) UpdateStatus(ctx context.Context, _ repository.Tx, id int64, status model.ApplicationStatus, metadata map[string]any) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if !status.Valid() {
		return domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	app.Status = status
	// Metadata is replaced on every write, mirroring the SQL repo: nil clears
	// it so a suspension reason never outlives the status that recorded it.
	if metadata == nil {
		metadata = map[string]any{}
	}
	app.Metadata = metadata
	if status == model.ApplicationStatusCompleted {
		if app.CompletedAt == nil {
			now := time.Now()
			app.CompletedAt = &now
		}
	} else {
		app.CompletedAt = nil
	}
	return nil
}

func (m *memAppRepo) FindByUser(ctx context.Context, _ repository.Tx, userID string, limit int) ([]*model.JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.JobApplication
	for _, app := range m.store {
		if app.UserID == userID {
			cp := *app
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAppRepo) FindStuckWaiting(ctx context.Context, _ repository.Tx, cutoff time.Time) ([]*model.JobApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.JobApplication
	for _, app := range m.store {
		if app.Status == model.ApplicationStatusAwaitingUserInput || app.Status == model.ApplicationStatusAwaitingOTP {
			cp := *app
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memHistoryRepo keeps entries in append order.
type memHistoryRepo struct {
	mu      sync.RWMutex
	nextSeq int
	entries map[int64][]*model.HistoryEntry

	appendErr error
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{entries: make(map[int64][]*model.HistoryEntry)}
}

func (m *memHistoryRepo) Append(ctx context.Context, _ repository.Tx, applicationID int64, eventType model.HistoryEventType, eventData map[string]any) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	m.entries[applicationID] = append(m.entries[applicationID], &model.HistoryEntry{
		ID:            fmt.Sprintf("%026d", m.nextSeq),
		ApplicationID: applicationID,
		EventType:     eventType,
		EventData:     eventData,
		Timestamp:     time.Now(),
	})
	return nil
}

func (m *memHistoryRepo) ListByApplication(ctx context.Context, _ repository.Tx, applicationID int64) ([]*model.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.entries[applicationID]
	out := make([]*model.HistoryEntry, 0, len(src))
	for _, e := range src {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memHistoryRepo) count(applicationID int64, eventType model.HistoryEventType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.entries[applicationID] {
		if e.EventType == eventType {
			n++
		}
	}
	return n
}

type memProfileRepo struct {
	mu    sync.RWMutex
	store map[string]*model.UserProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{store: make(map[string]*model.UserProfile)}
}

func (m *memProfileRepo) Save(ctx context.Context, _ repository.Tx, userID string, profile *model.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[userID] = profile
	return nil
}

func (m *memProfileRepo) Find(ctx context.Context, _ repository.Tx, userID string) (*model.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

type memUserRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.User // map by TelegramID

	saveErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, _ repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.TelegramID] = &cp
	return nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, _ repository.Tx, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockTxManager struct{}

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

//
// ---------------- fake browser stack ----------------
//

type fakeBrowser struct {
	mu        sync.Mutex
	navigated []string
	navErr    error
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	if f.navErr != nil {
		return f.navErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeBrowser) CurrentURL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.navigated) == 0 {
		return "", nil
	}
	return f.navigated[len(f.navigated)-1], nil
}

func (f *fakeBrowser) PageTitle(ctx context.Context) (string, error) { return "stub", nil }

func (f *fakeBrowser) Screenshot(ctx context.Context, path string) ([]byte, error) {
	return nil, nil
}

func (f *fakeBrowser) Close() error { return nil }

type fakeFormFiller struct {
	mu        sync.Mutex
	fillCalls int
	lastData  map[string]string
	unmatched []string
	submitOK  bool
	fillErr   error
}

func (f *fakeFormFiller) DetectFields(ctx context.Context) ([]model.FormField, error) {
	return nil, nil
}

func (f *fakeFormFiller) Fill(ctx context.Context, data map[string]string) ([]string, error) {
	if f.fillErr != nil {
		return nil, f.fillErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fillCalls++
	f.lastData = data
	return f.unmatched, nil
}

func (f *fakeFormFiller) Submit(ctx context.Context) (bool, error) { return f.submitOK, nil }

// fakeAuthHandler accepts any OTP except "000000", like a site that rejects a
// known-bad code.
type fakeAuthHandler struct {
	loginRequired bool
	otpRequired   bool
}

func (f *fakeAuthHandler) LoginRequired(ctx context.Context) (bool, error) {
	return f.loginRequired, nil
}

func (f *fakeAuthHandler) Login(ctx context.Context, credentials map[string]string) (bool, error) {
	f.loginRequired = false
	return true, nil
}

func (f *fakeAuthHandler) OTPRequired(ctx context.Context) (bool, error) {
	return f.otpRequired, nil
}

func (f *fakeAuthHandler) SubmitOTP(ctx context.Context, code string) (bool, error) {
	if code == "000000" {
		return false, nil
	}
	f.otpRequired = false
	return true, nil
}
