package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
)

var _ adapter.FormFiller = (*FormFiller)(nil)

// FormFiller fills detected fields from a flat profile map. Unmatched keys
// are reported back, never treated as failure; a missing submit control is
// the one negative outcome Submit models as false.
type FormFiller struct {
	page     playwright.Page
	detector *FormDetector
	log      *zerolog.Logger
}

func NewFormFiller(page playwright.Page, logger *zerolog.Logger) *FormFiller {
	return &FormFiller{page: page, detector: NewFormDetector(page), log: logger}
}

func (f *FormFiller) DetectFields(ctx context.Context) ([]model.FormField, error) {
	return f.detector.Detect(ctx)
}

func (f *FormFiller) Fill(ctx context.Context, data map[string]string) ([]string, error) {
	fields, err := f.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(data))
	for _, field := range fields {
		key, value, ok := matchValue(field, data)
		if !ok {
			continue
		}
		if err := f.fillOne(field, value); err != nil {
			// A single stubborn control does not abort the pass; the key
			// counts as unmatched so the audit trail shows it.
			f.log.Warn().Err(err).Str("field", field.Name).Msg("fill failed")
			continue
		}
		used[key] = true
	}

	unmatched := make([]string, 0)
	for k := range data {
		if !used[k] {
			unmatched = append(unmatched, k)
		}
	}
	return unmatched, nil
}

func (f *FormFiller) fillOne(field model.FormField, value string) error {
	loc := f.page.Locator(field.Selector).First()
	switch field.Type {
	case model.FieldTypeSelect:
		opt := selectOptionFor(field.Options, value)
		if opt == "" {
			return fmt.Errorf("no option matches %q", value)
		}
		_, err := loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{opt}})
		return err
	case model.FieldTypeCheckbox:
		if isAffirmative(value) {
			return loc.Check()
		}
		return loc.Uncheck()
	case model.FieldTypeRadio:
		return loc.Check()
	case model.FieldTypeFile:
		return loc.SetInputFiles(value)
	case model.FieldTypeHidden:
		return nil
	default:
		return loc.Fill(value)
	}
}

// submitSelectors are tried in order; the first visible match is clicked.
var submitSelectors = []string{
	`button[type="submit"]`,
	`input[type="submit"]`,
	`button:has-text("Submit")`,
	`button:has-text("Apply")`,
	`button:has-text("Send application")`,
}

func (f *FormFiller) Submit(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, sel := range submitSelectors {
		loc := f.page.Locator(sel).First()
		n, err := loc.Count()
		if err != nil || n == 0 {
			continue
		}
		visible, err := loc.IsVisible()
		if err != nil || !visible {
			continue
		}
		if err := loc.Click(); err != nil {
			return false, fmt.Errorf("click submit: %w", err)
		}
		return true, nil
	}
	return false, nil
}

func isAffirmative(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "y", "on":
		return true
	}
	return false
}
