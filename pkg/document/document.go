// Package document models one form's structure: an ordered sequence of field
// instances with identity-keyed mutation and lossless JSON serialization.
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

var (
	// ErrMalformedDocument signals a serialized payload that could not be
	// decoded or that violates document invariants. The target document is
	// left untouched.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrFieldNotFound signals a remove or replace keyed by an id the
	// document does not contain.
	ErrFieldNotFound = errors.New("field not found")
	// ErrDuplicateID signals an insert that would break id uniqueness.
	ErrDuplicateID = errors.New("duplicate field id")
)

// Document is the ordered collection of field instances that makes up a form.
// Order is semantically meaningful: it drives rendering and the column order
// of tabular submission views. The zero value is an empty, usable document.
type Document struct {
	fields []field.Instance
}

// New builds a document from the given instances, rejecting duplicate ids.
func New(fields ...field.Instance) (Document, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, inst := range fields {
		if _, dup := seen[inst.ID]; dup {
			return Document{}, fmt.Errorf("document: %w: %q", ErrDuplicateID, inst.ID)
		}
		seen[inst.ID] = struct{}{}
	}
	return Document{fields: append([]field.Instance(nil), fields...)}, nil
}

// Len reports the number of fields.
func (d Document) Len() int {
	return len(d.fields)
}

// Fields returns the ordered instances. The slice is a copy; instances are
// mutated only through ReplaceByID.
func (d Document) Fields() []field.Instance {
	return append([]field.Instance(nil), d.fields...)
}

// ByID returns the instance with the given id.
func (d Document) ByID(id string) (field.Instance, bool) {
	for _, inst := range d.fields {
		if inst.ID == id {
			return inst, true
		}
	}
	return field.Instance{}, false
}

// InsertAt inserts an instance preserving order. The index is clamped to
// [0, Len]; inserting an id the document already holds fails with
// ErrDuplicateID.
func (d *Document) InsertAt(index int, inst field.Instance) error {
	if _, exists := d.ByID(inst.ID); exists {
		return fmt.Errorf("document: %w: %q", ErrDuplicateID, inst.ID)
	}
	if index < 0 {
		index = 0
	}
	if index > len(d.fields) {
		index = len(d.fields)
	}
	d.fields = append(d.fields, field.Instance{})
	copy(d.fields[index+1:], d.fields[index:])
	d.fields[index] = inst
	return nil
}

// Append inserts an instance at the end of the sequence.
func (d *Document) Append(inst field.Instance) error {
	return d.InsertAt(len(d.fields), inst)
}

// RemoveByID removes the instance with the given id. Missing ids surface
// ErrFieldNotFound rather than disappearing silently.
func (d *Document) RemoveByID(id string) error {
	for i, inst := range d.fields {
		if inst.ID == id {
			d.fields = append(d.fields[:i], d.fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("document: %w: %q", ErrFieldNotFound, id)
}

// ReplaceByID swaps the instance at the matching position for the
// replacement, keeping its place in the order. The replacement keeps the
// original id regardless of what the caller set on it.
func (d *Document) ReplaceByID(id string, replacement field.Instance) error {
	for i, inst := range d.fields {
		if inst.ID == id {
			replacement.ID = id
			d.fields[i] = replacement
			return nil
		}
	}
	return fmt.Errorf("document: %w: %q", ErrFieldNotFound, id)
}

// Serialize encodes the document as a flat ordered JSON array.
func (d Document) Serialize() (string, error) {
	fields := d.fields
	if fields == nil {
		fields = []field.Instance{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("document: serialize: %w", err)
	}
	return string(data), nil
}

// Deserialize is the inverse of Serialize. It fails with ErrMalformedDocument
// on parse errors, duplicate ids, or — when a registry is supplied — tags the
// registry cannot resolve.
func Deserialize(payload string, reg *field.Registry) (Document, error) {
	var fields []field.Instance
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return Document{}, fmt.Errorf("document: %w: %v", ErrMalformedDocument, err)
	}

	seen := make(map[string]struct{}, len(fields))
	for _, inst := range fields {
		if inst.ID == "" {
			return Document{}, fmt.Errorf("document: %w: instance without id", ErrMalformedDocument)
		}
		if _, dup := seen[inst.ID]; dup {
			return Document{}, fmt.Errorf("document: %w: duplicate id %q", ErrMalformedDocument, inst.ID)
		}
		seen[inst.ID] = struct{}{}
		if reg != nil && !reg.Has(inst.Type) {
			return Document{}, fmt.Errorf("document: %w: %v", ErrMalformedDocument,
				fmt.Errorf("%w: %q", field.ErrUnknownFieldType, inst.Type))
		}
	}

	return Document{fields: fields}, nil
}
