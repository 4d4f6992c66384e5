package admin

import (
	"slices"
	"strings"
)

// Fieldset is a named group of fields on a form. An empty Name is an unnamed section.
type Fieldset struct {
	Name   string   `json:"name" yaml:"name"`
	Fields []string `json:"fields" yaml:"fields"`
}

// ModelAdmin is the declarative presentation configuration of a model.
//
// Ordering entries are field names with an optional "-" prefix for
// descending order. When Fieldsets is empty the edit form shows every
// field in schema order; when AddFieldsets is empty the add form reuses
// Fieldsets without read-only and system-assigned fields.
type ModelAdmin struct {
	ListDisplay    []string   `yaml:"list_display"`
	SearchFields   []string   `yaml:"search_fields,omitempty"`
	ListFilter     []string   `yaml:"list_filter,omitempty"`
	Ordering       []string   `yaml:"ordering,omitempty"`
	ReadonlyFields []string   `yaml:"readonly_fields,omitempty"`
	Fieldsets      []Fieldset `yaml:"fieldsets,omitempty"`
	AddFieldsets   []Fieldset `yaml:"add_fieldsets,omitempty"`
	// ListPerPage overrides the default change list page size when positive.
	ListPerPage int `yaml:"list_per_page,omitempty"`
}

// IsReadonly reports whether name is listed in ReadonlyFields.
func (m ModelAdmin) IsReadonly(name string) bool {
	return slices.Contains(m.ReadonlyFields, name)
}

// OrderKey is one parsed ordering entry.
type OrderKey struct {
	Field string
	Desc  bool
}

// String renders the key back into "-field" notation.
func (k OrderKey) String() string {
	if k.Desc {
		return "-" + k.Field
	}
	return k.Field
}

// ParseOrdering converts "-field" notation into order keys.
func ParseOrdering(entries []string) []OrderKey {
	keys := make([]OrderKey, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if field, ok := strings.CutPrefix(e, "-"); ok {
			keys = append(keys, OrderKey{Field: field, Desc: true})
			continue
		}
		keys = append(keys, OrderKey{Field: e})
	}
	return keys
}

// editFieldsets returns the configured edit fieldsets or the schema default.
func (m ModelAdmin) editFieldsets(s Schema) []Fieldset {
	if len(m.Fieldsets) > 0 {
		return m.Fieldsets
	}
	return []Fieldset{{Fields: s.FieldNames()}}
}

// addFieldsets returns the configured add fieldsets or the edit fieldsets
// stripped of fields that cannot be entered on creation.
func (m ModelAdmin) addFieldsets(s Schema) []Fieldset {
	if len(m.AddFieldsets) > 0 {
		return m.AddFieldsets
	}
	var out []Fieldset
	for _, fs := range m.editFieldsets(s) {
		kept := Fieldset{Name: fs.Name}
		for _, name := range fs.Fields {
			f, ok := s.Field(name)
			if !ok || !f.Editable || m.IsReadonly(name) {
				continue
			}
			kept.Fields = append(kept.Fields, name)
		}
		if len(kept.Fields) > 0 {
			out = append(out, kept)
		}
	}
	return out
}
