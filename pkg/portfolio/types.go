package portfolio

import (
	"fmt"
	"strings"
)

// Template identifies the layout variant applied to the preview.
type Template string

const (
	TemplateUnset    Template = ""
	TemplateMinimal  Template = "minimal"
	TemplateModern   Template = "modern"
	TemplateCreative Template = "creative"
)

// DefaultTemplate is used whenever a choice cannot be matched.
const DefaultTemplate = TemplateMinimal

// Default palette applied by New.
const (
	DefaultBgColor     = "#ffffff"
	DefaultTextColor   = "#1f2937"
	DefaultAccentColor = "#6366f1"
)

// Field names a writable slot on Data.
type Field string

const (
	FieldTemplate     Field = "template"
	FieldName         Field = "name"
	FieldProfession   Field = "profession"
	FieldProfileImage Field = "profileImage"
	FieldBio          Field = "bio"
	FieldSkills       Field = "skills"
	FieldBgColor      Field = "bgColor"
	FieldTextColor    Field = "textColor"
	FieldAccentColor  Field = "accentColor"
	FieldGallery      Field = "gallery"
)

// Data is the portfolio record accumulated over a conversation.
type Data struct {
	Template     Template `json:"template" yaml:"template"`
	Name         string   `json:"name" yaml:"name"`
	Profession   string   `json:"profession" yaml:"profession"`
	Bio          string   `json:"bio" yaml:"bio"`
	ProfileImage string   `json:"profileImage" yaml:"profileImage"`
	Skills       []string `json:"skills" yaml:"skills"`
	BgColor      string   `json:"bgColor" yaml:"bgColor"`
	TextColor    string   `json:"textColor" yaml:"textColor"`
	AccentColor  string   `json:"accentColor" yaml:"accentColor"`
	Gallery      []string `json:"gallery" yaml:"gallery"`
}

// New returns an empty record seeded with the default palette.
func New() Data {
	return Data{
		BgColor:     DefaultBgColor,
		TextColor:   DefaultTextColor,
		AccentColor: DefaultAccentColor,
	}
}

// Clone returns a copy that shares no slices with d.
func (d Data) Clone() Data {
	out := d
	if d.Skills != nil {
		out.Skills = append([]string(nil), d.Skills...)
	}
	if d.Gallery != nil {
		out.Gallery = append([]string(nil), d.Gallery...)
	}
	return out
}

// SetText writes a scalar string field. Skills, gallery and template have
// dedicated setters and are rejected here.
func (d *Data) SetText(field Field, value string) error {
	switch field {
	case FieldName:
		d.Name = value
	case FieldProfession:
		d.Profession = value
	case FieldBio:
		d.Bio = value
	case FieldProfileImage:
		d.ProfileImage = value
	case FieldBgColor:
		d.BgColor = value
	case FieldTextColor:
		d.TextColor = value
	case FieldAccentColor:
		d.AccentColor = value
	default:
		return fmt.Errorf("portfolio: field %q is not a text field", field)
	}
	return nil
}

// Text reads a scalar string field; ok is false for non-text fields.
func (d Data) Text(field Field) (string, bool) {
	switch field {
	case FieldTemplate:
		return string(d.Template), true
	case FieldName:
		return d.Name, true
	case FieldProfession:
		return d.Profession, true
	case FieldBio:
		return d.Bio, true
	case FieldProfileImage:
		return d.ProfileImage, true
	case FieldBgColor:
		return d.BgColor, true
	case FieldTextColor:
		return d.TextColor, true
	case FieldAccentColor:
		return d.AccentColor, true
	default:
		return "", false
	}
}

// SetSkills replaces the skills list.
func (d *Data) SetSkills(skills []string) {
	d.Skills = append([]string(nil), skills...)
}

// SetProfileImage stores the encoded profile image reference.
func (d *Data) SetProfileImage(ref string) {
	d.ProfileImage = ref
}

// AppendGallery adds an encoded image reference to the end of the gallery.
func (d *Data) AppendGallery(ref string) {
	d.Gallery = append(d.Gallery, ref)
}

// ParseSkills splits a comma separated list, trimming each entry and dropping
// empty ones. Order and duplicates are preserved.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
