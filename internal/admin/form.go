package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Form validation messages.
const (
	msgRequired    = "This field is required."
	msgTooLong     = "Ensure this value has at most %d characters (it has %d)."
	msgInvalidText = "Enter a text value."
	msgInvalidDate = "Enter a valid date (YYYY-MM-DD)."
	msgInvalidRef  = "Select a valid choice."
)

// FormField describes one input of a form.
type FormField struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Kind      FieldKind `json:"kind"`
	Required  bool      `json:"required"`
	MaxLength int       `json:"max_length,omitempty"`
	ReadOnly  bool      `json:"read_only"`
	Value     any       `json:"value,omitempty"`
	// Display is the human-readable form of Value, e.g. a referenced object's name.
	Display string   `json:"display,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
}

// FormSection is a rendered Fieldset.
type FormSection struct {
	Name   string      `json:"name,omitempty"`
	Fields []FormField `json:"fields"`
}

// Form is the descriptor of an add or change form.
type Form struct {
	Model    string        `json:"model"`
	ObjectID int64         `json:"object_id,omitempty"`
	Sections []FormSection `json:"sections"`
}

// AddForm describes the creation form of a model.
func AddForm(ctx context.Context, reg *Registration) (*Form, error) {
	return buildForm(ctx, reg, reg.Admin.addFieldsets(reg.Schema), nil)
}

// ChangeForm describes the edit form of rec, including current values.
// Read-only and system-assigned fields are flagged and carry their values.
func ChangeForm(ctx context.Context, reg *Registration, rec *Record) (*Form, error) {
	return buildForm(ctx, reg, reg.Admin.editFieldsets(reg.Schema), rec)
}

func buildForm(ctx context.Context, reg *Registration, sets []Fieldset, rec *Record) (*Form, error) {
	form := &Form{Model: reg.Name(), Sections: make([]FormSection, 0, len(sets))}
	if rec != nil {
		form.ObjectID = rec.ID
	}

	choiceCache := make(map[string][]Choice)
	for _, fs := range sets {
		section := FormSection{Name: fs.Name, Fields: make([]FormField, 0, len(fs.Fields))}
		for _, name := range fs.Fields {
			f, ok := reg.Schema.Field(name)
			if !ok {
				continue
			}
			ff := FormField{
				Name:      f.Name,
				Label:     f.label(),
				Kind:      f.Kind,
				Required:  f.Required,
				MaxLength: f.MaxLength,
				ReadOnly:  !f.Editable || reg.Admin.IsReadonly(name),
			}
			if rec != nil {
				ff.Value = formValue(rec.Values[name])
				ff.Display = rec.Display[name]
			}
			if f.Kind == KindForeignKey && !ff.ReadOnly {
				choices, ok := choiceCache[name]
				if !ok {
					var err error
					choices, err = reg.Backend.FilterChoices(ctx, name)
					if err != nil {
						return nil, fmt.Errorf("choices for %s: %w", name, err)
					}
					choiceCache[name] = choices
				}
				ff.Choices = choices
			}
			section.Fields = append(section.Fields, ff)
		}
		form.Sections = append(form.Sections, section)
	}
	return form, nil
}

func formValue(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(dateLayout)
	}
	return v
}

// inputFields returns the fields a user may submit through the given fieldsets.
func inputFields(reg *Registration, sets []Fieldset) []FieldSpec {
	var out []FieldSpec
	for _, fs := range sets {
		for _, name := range fs.Fields {
			f, ok := reg.Schema.Field(name)
			if !ok || !f.Editable || reg.Admin.IsReadonly(name) {
				continue
			}
			out = append(out, f)
		}
	}
	return out
}

// CleanAdd validates submitted values against the add form. Every required
// input must be present. Values for fields outside the form are ignored.
func CleanAdd(reg *Registration, values map[string]any) (map[string]any, error) {
	return clean(inputFields(reg, reg.Admin.addFieldsets(reg.Schema)), values, false)
}

// CleanChange validates submitted values against the edit form. Absent
// fields are left unchanged; read-only fields are ignored.
func CleanChange(reg *Registration, values map[string]any) (map[string]any, error) {
	return clean(inputFields(reg, reg.Admin.editFieldsets(reg.Schema)), values, true)
}

func clean(fields []FieldSpec, values map[string]any, partial bool) (map[string]any, error) {
	cleaned := make(map[string]any, len(fields))
	errs := FieldErrors{}
	for _, f := range fields {
		raw, present := values[f.Name]
		if !present && partial {
			continue
		}
		v, msg := cleanValue(f, raw)
		if msg != "" {
			errs.Add(f.Name, msg)
			continue
		}
		if v == nil {
			if f.Required {
				errs.Add(f.Name, msgRequired)
			}
			continue
		}
		cleaned[f.Name] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return cleaned, nil
}

// cleanValue converts raw into the field's Go type. A nil result with an empty
// message means the value is blank.
func cleanValue(f FieldSpec, raw any) (any, string) {
	if raw == nil {
		return nil, ""
	}
	switch f.Kind {
	case KindForeignKey:
		id, ok := toID(raw)
		if !ok {
			if s, isStr := raw.(string); isStr && strings.TrimSpace(s) == "" {
				return nil, ""
			}
			return nil, msgInvalidRef
		}
		return id, ""
	case KindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, msgInvalidDate
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, ""
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, msgInvalidDate
		}
		return t, ""
	default:
		s, ok := raw.(string)
		if !ok {
			return nil, msgInvalidText
		}
		if strings.TrimSpace(s) == "" {
			return nil, ""
		}
		if n := utf8.RuneCountInString(s); f.MaxLength > 0 && n > f.MaxLength {
			return nil, fmt.Sprintf(msgTooLong, f.MaxLength, n)
		}
		return s, ""
	}
}

func toID(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case float64:
		if v != math.Trunc(v) || v <= 0 || v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		id, err := v.Int64()
		return id, err == nil && id > 0
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return id, err == nil && id > 0
	}
	return 0, false
}
