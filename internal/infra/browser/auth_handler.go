package browser

import (
	"context"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"telegram-job-applier/internal/domain/ports/adapter"
)

var _ adapter.AuthHandler = (*AuthHandler)(nil)

// AuthHandler detects and performs login/OTP on the live page. Detection is
// heuristic: a visible password input or a login-ish URL means a login wall,
// a one-time-code input means OTP. Nothing is cached between calls.
type AuthHandler struct {
	page playwright.Page
	log  *zerolog.Logger
}

func NewAuthHandler(page playwright.Page, logger *zerolog.Logger) *AuthHandler {
	return &AuthHandler{page: page, log: logger}
}

var loginURLHints = []string{"login", "signin", "sign-in", "sign_in", "auth"}

func (a *AuthHandler) LoginRequired(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	pw := a.page.Locator(`input[type="password"]`).First()
	if n, err := pw.Count(); err == nil && n > 0 {
		if visible, err := pw.IsVisible(); err == nil && visible {
			return true, nil
		}
	}
	url := strings.ToLower(a.page.URL())
	for _, hint := range loginURLHints {
		if strings.Contains(url, hint) {
			return true, nil
		}
	}
	return false, nil
}

func (a *AuthHandler) Login(ctx context.Context, credentials map[string]string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	username := firstNonEmpty(credentials["email"], credentials["username"])
	password := credentials["password"]
	if username == "" || password == "" {
		return false, nil
	}

	userLoc := a.page.Locator(`input[type="email"], input[name="email"], input[name="username"]`).First()
	if err := userLoc.Fill(username); err != nil {
		return false, err
	}
	if err := a.page.Locator(`input[type="password"]`).First().Fill(password); err != nil {
		return false, err
	}
	if err := a.page.Locator(`button[type="submit"], input[type="submit"]`).First().Click(); err != nil {
		return false, err
	}
	if err := a.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		return false, err
	}
	// Still staring at a password box means the attempt did not take.
	required, err := a.LoginRequired(ctx)
	if err != nil {
		return false, err
	}
	return !required, nil
}

const otpSelector = `input[autocomplete="one-time-code"], input[name*="otp" i], input[id*="otp" i], input[name*="verification" i]`

func (a *AuthHandler) OTPRequired(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	loc := a.page.Locator(otpSelector).First()
	n, err := loc.Count()
	if err != nil || n == 0 {
		return false, nil
	}
	visible, err := loc.IsVisible()
	if err != nil {
		return false, nil
	}
	return visible, nil
}

func (a *AuthHandler) SubmitOTP(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	loc := a.page.Locator(otpSelector).First()
	if err := loc.Fill(code); err != nil {
		return false, err
	}
	if err := a.page.Locator(`button[type="submit"], input[type="submit"]`).First().Click(); err != nil {
		return false, err
	}
	if err := a.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateDomcontentloaded,
	}); err != nil {
		return false, err
	}
	// Accepted when the OTP input is gone from the page.
	stillRequired, err := a.OTPRequired(ctx)
	if err != nil {
		return false, err
	}
	return !stillRequired, nil
}
