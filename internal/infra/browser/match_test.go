package browser

import (
	"testing"

	"telegram-job-applier/internal/domain/model"
)

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Full Name":     "full_name",
		"full-name":     "full_name",
		"full_name":     "full_name",
		"  E-Mail  ":    "e_mail",
		"Phone (cell)":  "phone_cell",
		"years__of exp": "years_of_exp",
		"":              "",
	}
	for in, want := range cases {
		if got := normalizeKey(in); got != want {
			t.Errorf("normalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFieldTypeFor(t *testing.T) {
	cases := []struct {
		tag, typeAttr string
		want          model.FieldType
	}{
		{"textarea", "", model.FieldTypeTextarea},
		{"select", "", model.FieldTypeSelect},
		{"input", "email", model.FieldTypeEmail},
		{"input", "TEL", model.FieldTypePhone},
		{"input", "checkbox", model.FieldTypeCheckbox},
		{"input", "file", model.FieldTypeFile},
		{"input", "hidden", model.FieldTypeHidden},
		{"input", "", model.FieldTypeText},
		{"input", "search", model.FieldTypeText},
	}
	for _, c := range cases {
		if got := fieldTypeFor(c.tag, c.typeAttr); got != c.want {
			t.Errorf("fieldTypeFor(%q, %q) = %s, want %s", c.tag, c.typeAttr, got, c.want)
		}
	}
}

func TestMatchValue(t *testing.T) {
	data := map[string]string{
		"full_name": "Ada Lovelace",
		"email":     "ada@example.com",
		"phone":     "+1-555-0100",
	}

	t.Run("exact name match wins", func(t *testing.T) {
		field := model.FormField{Name: "full_name", Label: "Your name"}
		key, val, ok := matchValue(field, data)
		if !ok || key != "full_name" || val != "Ada Lovelace" {
			t.Fatalf("got (%q, %q, %v)", key, val, ok)
		}
	})

	t.Run("label match when name is opaque", func(t *testing.T) {
		field := model.FormField{Name: "fld_923", Label: "Email"}
		key, _, ok := matchValue(field, data)
		if !ok || key != "email" {
			t.Fatalf("got key %q ok=%v", key, ok)
		}
	})

	t.Run("substring match on longer keys", func(t *testing.T) {
		field := model.FormField{Name: "applicant_full_name"}
		key, _, ok := matchValue(field, data)
		if !ok || key != "full_name" {
			t.Fatalf("got key %q ok=%v", key, ok)
		}
	})

	t.Run("short keys never substring-match", func(t *testing.T) {
		// "tel" is under the length floor, so it must not match "phone"
		// or anything else by substring.
		field := model.FormField{Name: "tel"}
		if _, _, ok := matchValue(field, data); ok {
			t.Fatalf("want no match for short opaque name")
		}
	})

	t.Run("no match", func(t *testing.T) {
		field := model.FormField{Name: "favorite_color", Label: "Favorite color"}
		if _, _, ok := matchValue(field, data); ok {
			t.Fatalf("want no match")
		}
	})
}

func TestSelectOptionFor(t *testing.T) {
	options := []string{"United States", "Canada", "United Kingdom"}

	if got := selectOptionFor(options, "canada"); got != "Canada" {
		t.Errorf("exact: got %q", got)
	}
	if got := selectOptionFor(options, "United"); got != "United States" {
		t.Errorf("substring picks first: got %q", got)
	}
	if got := selectOptionFor(options, "Germany"); got != "" {
		t.Errorf("miss: got %q", got)
	}
}
