// Package admin implements a generic, declaratively configured administration
// layer: a Site holds model registrations, each pairing a Schema with a
// ModelAdmin configuration and a Backend that reaches storage.
//
// The package is transport agnostic. The HTTP surface lives in
// internal/handler/http/admin; concrete registrations live in
// internal/admin/blogadmin.
package admin

// FieldKind classifies how a field is rendered, searched and filtered.
type FieldKind string

const (
	KindChar       FieldKind = "char"        // bounded single-line text
	KindText       FieldKind = "text"        // unbounded multi-line text
	KindString     FieldKind = "string"      // free-form single-line text without a length bound
	KindDate       FieldKind = "date"        // calendar date, rendered as YYYY-MM-DD
	KindForeignKey FieldKind = "foreign_key" // reference to another registered model
)

// Searchable reports whether substring search applies to fields of this kind.
func (k FieldKind) Searchable() bool {
	return k == KindChar || k == KindText || k == KindString
}

// Filterable reports whether a list filter can be built for fields of this kind.
func (k FieldKind) Filterable() bool {
	return k == KindDate || k == KindForeignKey
}

// FieldSpec describes one field of a model.
type FieldSpec struct {
	Name      string
	Label     string
	Kind      FieldKind
	Required  bool
	MaxLength int // 0 means unbounded
	// Editable is false for system-assigned fields such as creation dates.
	Editable bool
	// Sortable marks fields the backend can order by.
	Sortable bool
	// References names the target model of a foreign key.
	References string
}

// Schema is the field layout of a model.
type Schema struct {
	Name   string
	Plural string
	Fields []FieldSpec
}

// Field returns the named field.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the field names in declaration order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

func (f FieldSpec) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}
