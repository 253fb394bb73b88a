package browser

import (
	"context"
	"log"
	"time"

	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
)

var (
	_ adapter.BrowserAutomation = (*NoopBrowser)(nil)
	_ adapter.FormFiller        = (*NoopFormFiller)(nil)
	_ adapter.AuthHandler       = (*NoopAuthHandler)(nil)
)

// NoopBrowser implements adapter.BrowserAutomation for local/dev runs without
// a real browser. It logs navigation instead of performing it.
type NoopBrowser struct {
	url string
}

func NewNoopBrowser() *NoopBrowser { return &NoopBrowser{} }

func (b *NoopBrowser) Navigate(ctx context.Context, url string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	b.url = url
	log.Printf("[noop-browser] navigate %s\n", url)
	return nil
}

func (b *NoopBrowser) CurrentURL(ctx context.Context) (string, error) { return b.url, nil }

func (b *NoopBrowser) PageTitle(ctx context.Context) (string, error) {
	return "Job Application", nil
}

func (b *NoopBrowser) Screenshot(ctx context.Context, path string) ([]byte, error) {
	log.Printf("[noop-browser] screenshot requested (%s)\n", path)
	return nil, nil
}

func (b *NoopBrowser) Close() error { return nil }

// NoopFormFiller pretends every field matched and the submit button exists.
type NoopFormFiller struct {
	// Fields returned by DetectFields; empty means a basic contact form.
	Fields []model.FormField
	// MissSubmit makes Submit report that no submit control was found.
	MissSubmit bool
}

func NewNoopFormFiller() *NoopFormFiller { return &NoopFormFiller{} }

func (f *NoopFormFiller) DetectFields(ctx context.Context) ([]model.FormField, error) {
	if len(f.Fields) > 0 {
		return f.Fields, nil
	}
	return []model.FormField{
		{Name: "full_name", Type: model.FieldTypeText, Label: "Full name", Required: true},
		{Name: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true},
		{Name: "phone", Type: model.FieldTypePhone, Label: "Phone"},
	}, nil
}

func (f *NoopFormFiller) Fill(ctx context.Context, data map[string]string) ([]string, error) {
	log.Printf("[noop-form] filling %d values\n", len(data))
	return nil, nil
}

func (f *NoopFormFiller) Submit(ctx context.Context) (bool, error) {
	if f.MissSubmit {
		return false, nil
	}
	log.Printf("[noop-form] submit\n")
	return true, nil
}

// NoopAuthHandler simulates a site without a login wall. Set NeedsLogin to
// walk the suspension path; any OTP except "000000" is accepted.
type NoopAuthHandler struct {
	NeedsLogin bool
	NeedsOTP   bool
}

func NewNoopAuthHandler() *NoopAuthHandler { return &NoopAuthHandler{} }

func (a *NoopAuthHandler) LoginRequired(ctx context.Context) (bool, error) {
	return a.NeedsLogin, nil
}

func (a *NoopAuthHandler) Login(ctx context.Context, credentials map[string]string) (bool, error) {
	a.NeedsLogin = false
	return true, nil
}

func (a *NoopAuthHandler) OTPRequired(ctx context.Context) (bool, error) {
	return a.NeedsOTP, nil
}

func (a *NoopAuthHandler) SubmitOTP(ctx context.Context, code string) (bool, error) {
	if code == "000000" {
		return false, nil
	}
	a.NeedsOTP = false
	return true, nil
}
