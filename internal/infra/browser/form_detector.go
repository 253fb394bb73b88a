package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"telegram-job-applier/internal/domain/model"
)

// FormDetector scans the live page for fillable controls and yields typed
// FormFields with selectors the filler can resolve later. Hidden inputs and
// submit/button controls are skipped.
type FormDetector struct {
	page playwright.Page
}

func NewFormDetector(page playwright.Page) *FormDetector {
	return &FormDetector{page: page}
}

func (d *FormDetector) Detect(ctx context.Context) ([]model.FormField, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := d.page.Locator("input, select, textarea").All()
	if err != nil {
		return nil, fmt.Errorf("enumerate form controls: %w", err)
	}

	var fields []model.FormField
	for i, loc := range locators {
		visible, err := loc.IsVisible()
		if err != nil || !visible {
			continue
		}
		tag, err := loc.Evaluate("el => el.tagName.toLowerCase()", nil)
		if err != nil {
			continue
		}
		tagName, _ := tag.(string)

		typeAttr := attr(loc, "type")
		switch strings.ToLower(typeAttr) {
		case "submit", "button", "reset", "image":
			continue
		}

		field := model.FormField{
			Name:        firstNonEmpty(attr(loc, "name"), attr(loc, "id"), attr(loc, "aria-label")),
			Type:        fieldTypeFor(tagName, typeAttr),
			Label:       d.labelFor(loc),
			Placeholder: attr(loc, "placeholder"),
			Required:    attr(loc, "required") != "" || attr(loc, "aria-required") == "true",
			Selector:    selectorFor(loc, tagName, i),
		}
		if field.Name == "" && field.Label == "" && field.Placeholder == "" {
			continue
		}
		if field.Type == model.FieldTypeSelect {
			field.Options = selectOptions(loc)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// labelFor resolves the visible label text: <label for=id> first, then the
// enclosing <label>.
func (d *FormDetector) labelFor(loc playwright.Locator) string {
	if id := attr(loc, "id"); id != "" {
		lbl := d.page.Locator(fmt.Sprintf(`label[for=%q]`, id)).First()
		if n, err := lbl.Count(); err == nil && n > 0 {
			if text, err := lbl.TextContent(); err == nil {
				return strings.TrimSpace(text)
			}
		}
	}
	parent := loc.Locator("xpath=ancestor::label[1]")
	if n, err := parent.Count(); err == nil && n > 0 {
		if text, err := parent.First().TextContent(); err == nil {
			return strings.TrimSpace(text)
		}
	}
	return ""
}

func selectorFor(loc playwright.Locator, tagName string, index int) string {
	if id := attr(loc, "id"); id != "" {
		return "#" + id
	}
	if name := attr(loc, "name"); name != "" {
		return fmt.Sprintf(`%s[name=%q]`, tagName, name)
	}
	// Positional fallback; brittle across page mutations but better than nothing.
	return fmt.Sprintf("input, select, textarea >> nth=%d", index)
}

func selectOptions(loc playwright.Locator) []string {
	opts, err := loc.Locator("option").All()
	if err != nil {
		return nil
	}
	var out []string
	for _, o := range opts {
		text, err := o.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			out = append(out, text)
		}
	}
	return out
}

func attr(loc playwright.Locator, name string) string {
	v, err := loc.GetAttribute(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
