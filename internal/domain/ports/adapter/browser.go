package adapter

import "context"

// BrowserAutomation is the navigation surface the orchestrator drives. The
// concrete implementation owns the page/session lifecycle; callers only ever
// see the current page implicitly.
type BrowserAutomation interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	PageTitle(ctx context.Context) (string, error)
	Screenshot(ctx context.Context, path string) ([]byte, error)
	Close() error
}
