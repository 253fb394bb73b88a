package adapter

import "context"

// AuthHandler detects and performs login/OTP against the live page. Detection
// results are never cached across calls; every invocation re-checks the page.
type AuthHandler interface {
	LoginRequired(ctx context.Context) (bool, error)
	Login(ctx context.Context, credentials map[string]string) (bool, error)
	OTPRequired(ctx context.Context) (bool, error)
	SubmitOTP(ctx context.Context, code string) (bool, error)
}
