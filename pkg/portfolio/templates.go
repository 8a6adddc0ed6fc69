package portfolio

import "strings"

// TemplateOption describes a selectable template in display order.
type TemplateOption struct {
	ID          Template `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var templateOptions = []TemplateOption{
	{ID: TemplateMinimal, Name: "Minimal", Description: "Clean and simple"},
	{ID: TemplateModern, Name: "Modern", Description: "Bold and vibrant"},
	{ID: TemplateCreative, Name: "Creative", Description: "Artistic layout"},
}

// Templates returns the available templates.
func Templates() []TemplateOption {
	return append([]TemplateOption(nil), templateOptions...)
}

// TemplateNames returns the human labels offered as choices.
func TemplateNames() []string {
	names := make([]string, len(templateOptions))
	for i, opt := range templateOptions {
		names[i] = opt.Name
	}
	return names
}

// ResolveTemplate maps a label or id to a Template. Matching ignores case and
// surrounding whitespace; unknown input resolves to DefaultTemplate.
func ResolveTemplate(label string) Template {
	trimmed := strings.TrimSpace(label)
	for _, opt := range templateOptions {
		if strings.EqualFold(trimmed, opt.Name) || strings.EqualFold(trimmed, string(opt.ID)) {
			return opt.ID
		}
	}
	return DefaultTemplate
}

// Valid reports whether t is one of the known templates.
func (t Template) Valid() bool {
	for _, opt := range templateOptions {
		if opt.ID == t {
			return true
		}
	}
	return false
}
