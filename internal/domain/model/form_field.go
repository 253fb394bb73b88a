package model

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "tel"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeFile     FieldType = "file"
	FieldTypeDate     FieldType = "date"
	FieldTypeURL      FieldType = "url"
	FieldTypePassword FieldType = "password"
	FieldTypeHidden   FieldType = "hidden"
)

// FormField describes one detected field on an application page. Selector is a
// CSS selector resolvable against the live page.
type FormField struct {
	Name        string
	Type        FieldType
	Label       string
	Selector    string
	Required    bool
	Options     []string
	Placeholder string
}
