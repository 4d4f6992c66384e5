package admin

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registration binds a model's schema, presentation and storage.
type Registration struct {
	Schema  Schema
	Admin   ModelAdmin
	Backend Backend
}

// Name returns the registered model name.
func (r *Registration) Name() string { return r.Schema.Name }

// Site is the registry of administrable models. Models are added only by
// explicit calls to Register.
type Site struct {
	mu     sync.RWMutex
	models map[string]*Registration
}

// NewSite returns an empty registry.
func NewSite() *Site {
	return &Site{models: make(map[string]*Registration)}
}

// Register validates the configuration against the schema and adds the model.
func (s *Site) Register(schema Schema, ma ModelAdmin, backend Backend) error {
	if backend == nil {
		return fmt.Errorf("%w: %s: backend is nil", ErrInvalidConfig, schema.Name)
	}
	if err := Validate(schema, ma); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.models[schema.Name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, schema.Name)
	}
	s.models[schema.Name] = &Registration{Schema: schema, Admin: ma, Backend: backend}
	return nil
}

// Lookup returns the registration for name.
func (s *Site) Lookup(name string) (*Registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.models[name]
	return r, ok
}

// Models returns every registration ordered by model name.
func (s *Site) Models() []*Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Registration, 0, len(s.models))
	for _, r := range s.models {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *Registration) int { return cmp.Compare(a.Name(), b.Name()) })
	return out
}

// Validate checks that every field ModelAdmin refers to exists in schema and
// is used in a way its kind allows. All problems are reported together.
func Validate(schema Schema, ma ModelAdmin) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	lookup := func(option, name string) (FieldSpec, bool) {
		f, ok := schema.Field(name)
		if !ok {
			addf("%s refers to unknown field %q", option, name)
		}
		return f, ok
	}

	if schema.Name == "" {
		addf("schema name is empty")
	}
	seen := make(map[string]bool)
	for _, f := range schema.Fields {
		if seen[f.Name] {
			addf("schema declares field %q twice", f.Name)
		}
		seen[f.Name] = true
		if f.Kind == KindForeignKey && f.References == "" {
			addf("foreign key %q has no target model", f.Name)
		}
	}
	if len(ma.ListDisplay) == 0 {
		addf("list_display is empty")
	}
	for _, name := range ma.ListDisplay {
		lookup("list_display", name)
	}
	for _, name := range ma.SearchFields {
		if f, ok := lookup("search_fields", name); ok && !f.Kind.Searchable() {
			addf("search_fields: field %q of kind %s is not searchable", name, f.Kind)
		}
	}
	for _, name := range ma.ListFilter {
		if f, ok := lookup("list_filter", name); ok && !f.Kind.Filterable() {
			addf("list_filter: field %q of kind %s cannot be filtered", name, f.Kind)
		}
	}
	for _, key := range ParseOrdering(ma.Ordering) {
		if f, ok := lookup("ordering", key.Field); ok && !f.Sortable {
			addf("ordering: field %q is not sortable", key.Field)
		}
	}
	for _, name := range ma.ReadonlyFields {
		lookup("readonly_fields", name)
	}

	checkForm := func(option string, sets []Fieldset, allowReadonly bool) {
		inForm := make(map[string]bool)
		for _, fs := range sets {
			for _, name := range fs.Fields {
				f, ok := lookup(option, name)
				if !ok {
					continue
				}
				if inForm[name] {
					addf("%s: field %q appears more than once", option, name)
				}
				inForm[name] = true
				switch {
				case !f.Editable && !allowReadonly:
					addf("%s: field %q is system-assigned and cannot be entered", option, name)
				case !f.Editable && !ma.IsReadonly(name):
					addf("%s: system-assigned field %q must be listed in readonly_fields", option, name)
				}
			}
		}
	}
	checkForm("fieldsets", ma.Fieldsets, true)
	checkForm("add_fieldsets", ma.AddFieldsets, false)

	if ma.ListPerPage < 0 {
		addf("list_per_page must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, schema.Name, strings.Join(problems, "; "))
	}
	return nil
}
