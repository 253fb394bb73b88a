package browser

import (
	"strings"

	"telegram-job-applier/internal/domain/model"
)

// normalizeKey folds a field name, label or profile key into a canonical
// form so "Full Name", "full-name" and "full_name" all collide.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// fieldTypeFor maps an element tag plus its type attribute to the closed
// FieldType enum. Unknown input types degrade to text.
func fieldTypeFor(tag, typeAttr string) model.FieldType {
	switch strings.ToLower(tag) {
	case "textarea":
		return model.FieldTypeTextarea
	case "select":
		return model.FieldTypeSelect
	}
	switch strings.ToLower(typeAttr) {
	case "email":
		return model.FieldTypeEmail
	case "tel":
		return model.FieldTypePhone
	case "number":
		return model.FieldTypeNumber
	case "checkbox":
		return model.FieldTypeCheckbox
	case "radio":
		return model.FieldTypeRadio
	case "file":
		return model.FieldTypeFile
	case "date":
		return model.FieldTypeDate
	case "url":
		return model.FieldTypeURL
	case "password":
		return model.FieldTypePassword
	case "hidden":
		return model.FieldTypeHidden
	default:
		return model.FieldTypeText
	}
}

// matchValue finds the profile value for a detected field. Name wins over
// label over placeholder; exact normalized matches win over substring ones.
func matchValue(field model.FormField, data map[string]string) (string, string, bool) {
	candidates := []string{field.Name, field.Label, field.Placeholder}

	norm := make(map[string]string, len(data))
	for k := range data {
		norm[normalizeKey(k)] = k
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if key, ok := norm[normalizeKey(c)]; ok {
			return key, data[key], true
		}
	}
	for _, c := range candidates {
		nc := normalizeKey(c)
		if len(nc) < 4 {
			continue
		}
		for nk, key := range norm {
			if len(nk) < 4 {
				continue
			}
			if strings.Contains(nc, nk) || strings.Contains(nk, nc) {
				return key, data[key], true
			}
		}
	}
	return "", "", false
}

// selectOptionFor picks the option closest to the desired value, falling back
// to a case-insensitive substring match. Empty when nothing fits.
func selectOptionFor(options []string, value string) string {
	nv := normalizeKey(value)
	for _, o := range options {
		if normalizeKey(o) == nv {
			return o
		}
	}
	lv := strings.ToLower(value)
	for _, o := range options {
		lo := strings.ToLower(o)
		if strings.Contains(lo, lv) || strings.Contains(lv, lo) {
			return o
		}
	}
	return ""
}
