package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"telegram-job-applier/internal/config"
	"telegram-job-applier/internal/domain/ports/adapter"
)

var _ adapter.BrowserAutomation = (*PlaywrightBrowser)(nil)

// PlaywrightBrowser owns one Chromium session and exposes the narrow
// navigation surface the orchestrator drives. One instance per in-flight
// application; callers serialize access the same way they serialize Process.
type PlaywrightBrowser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	browserCtx playwright.BrowserContext
	page    playwright.Page
	timeout float64
	log     *zerolog.Logger
}

func NewPlaywrightBrowser(cfg *config.BrowserConfig, logger *zerolog.Logger) (*PlaywrightBrowser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	browserCtx, err := browser.NewContext()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	if cfg.CookiesPath != "" {
		cookies, err := LoadCookies(cfg.CookiesPath)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.CookiesPath).Msg("cookie load failed, continuing without")
		} else if err := browserCtx.AddCookies(cookies); err != nil {
			logger.Warn().Err(err).Msg("cookie injection failed, continuing without")
		}
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &PlaywrightBrowser{
		pw:         pw,
		browser:    browser,
		browserCtx: browserCtx,
		page:       page,
		timeout:    float64(cfg.TimeoutMS),
		log:        logger,
	}, nil
}

// Page exposes the live page for the form/auth handlers that share this session.
func (b *PlaywrightBrowser) Page() playwright.Page { return b.page }

func (b *PlaywrightBrowser) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(b.timeout),
	})
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (b *PlaywrightBrowser) CurrentURL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.page.URL(), nil
}

func (b *PlaywrightBrowser) PageTitle(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.page.Title()
}

func (b *PlaywrightBrowser) Screenshot(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := playwright.PageScreenshotOptions{}
	if path != "" {
		opts.Path = playwright.String(path)
	}
	return b.page.Screenshot(opts)
}

func (b *PlaywrightBrowser) Close() error {
	var errs []error
	if b.browserCtx != nil {
		errs = append(errs, b.browserCtx.Close())
	}
	if b.browser != nil {
		errs = append(errs, b.browser.Close())
	}
	if b.pw != nil {
		errs = append(errs, b.pw.Stop())
	}
	return errors.Join(errs...)
}
