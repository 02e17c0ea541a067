// Package submission validates user-supplied values against a frozen form
// document before they are persisted.
package submission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/field"
)

// ErrValidationFailed carries the ids that failed validation. Callers recover
// by re-prompting for corrected input; nothing is persisted.
var ErrValidationFailed = errors.New("validation failed")

// Result reports the outcome of validating a full submission. InvalidIDs
// preserves document order so error presentation matches the rendered form.
type Result struct {
	Valid      bool
	InvalidIDs []string
}

// Err converts a failed result into an error wrapping ErrValidationFailed; a
// passing result yields nil.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("submission: %w: %s", ErrValidationFailed, strings.Join(r.InvalidIDs, ", "))
}

// ValidateAll runs each field's validation rule against the supplied values.
// Missing values validate as the empty string. Each field is judged
// independently, so evaluation order cannot change the outcome — only the
// reporting order of InvalidIDs.
func ValidateAll(reg *field.Registry, doc document.Document, values map[string]string) (Result, error) {
	result := Result{Valid: true}
	for _, inst := range doc.Fields() {
		def, err := reg.Resolve(inst.Type)
		if err != nil {
			return Result{}, fmt.Errorf("submission: field %q: %w", inst.ID, err)
		}
		if !def.Validate(inst, values[inst.ID]) {
			result.Valid = false
			result.InvalidIDs = append(result.InvalidIDs, inst.ID)
		}
	}
	return result, nil
}
