package admin

import (
	"context"
	"errors"
	"fmt"

	"blog-admin/internal/observability/metrics"
)

// Add cleans values against the add form and creates the object.
// Validation failures are returned as FieldErrors.
func Add(ctx context.Context, reg *Registration, values map[string]any) (*Record, error) {
	cleaned, err := CleanAdd(reg, values)
	if err != nil {
		return nil, err
	}
	rec, err := reg.Backend.Create(ctx, cleaned)
	if err != nil {
		if fe, ok := AsFieldErrors(err); ok {
			return nil, fe
		}
		return nil, fmt.Errorf("create %s: %w", reg.Name(), err)
	}
	metrics.RecordAdminAction(reg.Name(), "add")
	return rec, nil
}

// Change cleans values against the edit form and updates object id.
func Change(ctx context.Context, reg *Registration, id int64, values map[string]any) (*Record, error) {
	cleaned, err := CleanChange(reg, values)
	if err != nil {
		return nil, err
	}
	rec, err := reg.Backend.Update(ctx, id, cleaned)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, err
		}
		if fe, ok := AsFieldErrors(err); ok {
			return nil, fe
		}
		return nil, fmt.Errorf("update %s %d: %w", reg.Name(), id, err)
	}
	metrics.RecordAdminAction(reg.Name(), "change")
	return rec, nil
}

// Remove deletes object id.
func Remove(ctx context.Context, reg *Registration, id int64) error {
	if err := reg.Backend.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return err
		}
		return fmt.Errorf("delete %s %d: %w", reg.Name(), id, err)
	}
	metrics.RecordAdminAction(reg.Name(), "delete")
	return nil
}
