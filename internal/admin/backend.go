package admin

import (
	"context"
	"time"
)

// Record is one stored object as seen by the admin.
//
// Values hold typed field values: string for text kinds, time.Time for
// dates and int64 for foreign keys. Display holds human-readable labels for
// values that are not self-describing, such as a foreign key's target name.
type Record struct {
	ID      int64
	Values  map[string]any
	Display map[string]string
}

// Filter restricts a list to one field. Foreign keys match Ref; dates fall
// within the inclusive [From, To] range.
type Filter struct {
	Field string
	Ref   *int64
	From  *time.Time
	To    *time.Time
}

// ListQuery is the storage-facing part of a change list request.
type ListQuery struct {
	Keywords []string
	Filters  []Filter
	Ordering []OrderKey
	Page     int
	Limit    int
}

// Choice is one selectable value of a foreign key or filter.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Backend adapts one model's storage to the admin.
//
// Create and Update receive cleaned values keyed by field name. They return
// domain validation errors unchanged so they can be reported per field.
// Get, Update and Delete return ErrObjectNotFound for unknown IDs.
type Backend interface {
	List(ctx context.Context, q ListQuery) (records []Record, total int64, err error)
	Get(ctx context.Context, id int64) (*Record, error)
	Create(ctx context.Context, values map[string]any) (*Record, error)
	Update(ctx context.Context, id int64, values map[string]any) (*Record, error)
	Delete(ctx context.Context, id int64) error
	// FilterChoices returns the selectable values of a foreign key field.
	FilterChoices(ctx context.Context, field string) ([]Choice, error)
}
