package field

import (
	"encoding/json"
	"fmt"
)

// Type identifies one of the closed set of field kinds a form can contain.
type Type string

const (
	TypeText      Type = "text"
	TypeTitle     Type = "title"
	TypeParagraph Type = "paragraph"
	TypeSeparator Type = "separator"
	TypeSpacer    Type = "spacer"
	TypeNumber    Type = "number"
	TypeTextarea  Type = "textarea"
	TypeDate      Type = "date"
	TypeSelect    Type = "select"
	TypeCheckbox  Type = "checkbox"
	TypeTable     Type = "table"
	TypeImage     Type = "image"
	TypePageBreak Type = "page-break"
)

// Types returns the closed tag set in a stable order.
func Types() []Type {
	return []Type{
		TypeText, TypeTitle, TypeParagraph, TypeSeparator, TypeSpacer,
		TypeNumber, TypeTextarea, TypeDate, TypeSelect, TypeCheckbox,
		TypeTable, TypeImage, TypePageBreak,
	}
}

// Layout reports whether the type carries no submitted value and exists only
// to shape the rendered form.
func (t Type) Layout() bool {
	switch t {
	case TypeTitle, TypeParagraph, TypeSeparator, TypeSpacer, TypeImage, TypePageBreak:
		return true
	default:
		return false
	}
}

// Instance is one placed field inside a form document. The id is stable for
// the life of the owning document and never reused within it; mutation happens
// only through whole-instance replacement.
type Instance struct {
	ID     string
	Type   Type
	Label  string
	Height int
	Width  int
	Attrs  Attributes
}

type instanceJSON struct {
	ID     string          `json:"id"`
	Type   Type            `json:"type"`
	Label  string          `json:"label"`
	Height int             `json:"height,omitempty"`
	Width  int             `json:"width,omitempty"`
	Attrs  json.RawMessage `json:"extraAttributes,omitempty"`
}

// MarshalJSON encodes the instance with its typed attributes flattened into an
// extraAttributes object, matching the on-disk document layout. A nil Attrs is
// normalized to the type's zero attributes so the wire form always carries the
// key and decodes back to the same instance.
func (i Instance) MarshalJSON() ([]byte, error) {
	wire := instanceJSON{
		ID:     i.ID,
		Type:   i.Type,
		Label:  i.Label,
		Height: i.Height,
		Width:  i.Width,
	}
	attrs := i.Attrs
	if attrs == nil {
		zero, err := DecodeAttributes(i.Type, nil)
		if err != nil {
			return nil, err
		}
		attrs = zero
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("field: marshal %s attributes: %w", i.Type, err)
	}
	wire.Attrs = raw
	return json.Marshal(wire)
}

// UnmarshalJSON decodes the instance, resolving the attribute payload into the
// concrete struct for the declared type.
func (i *Instance) UnmarshalJSON(data []byte) error {
	var wire instanceJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	attrs, err := DecodeAttributes(wire.Type, wire.Attrs)
	if err != nil {
		return err
	}
	*i = Instance{
		ID:     wire.ID,
		Type:   wire.Type,
		Label:  wire.Label,
		Height: wire.Height,
		Width:  wire.Width,
		Attrs:  attrs,
	}
	return nil
}

// Required reports whether the instance demands a non-empty submitted value.
// Instances whose attributes carry no required flag are treated as optional.
func (i Instance) Required() bool {
	type requirer interface{ required() bool }
	if r, ok := i.Attrs.(requirer); ok {
		return r.required()
	}
	return false
}

// WithAttributes returns a copy of the instance carrying the updated attribute
// set. The replacement must match the instance type; numeric bounds are
// clamped at this edit boundary, never retroactively on stored documents.
func (i Instance) WithAttributes(attrs Attributes) (Instance, error) {
	if attrs == nil {
		return Instance{}, fmt.Errorf("field: %w: nil attributes for %s", ErrAttributeMismatch, i.Type)
	}
	if attrs.fieldType() != i.Type {
		return Instance{}, fmt.Errorf("field: %w: %s attributes applied to %s instance",
			ErrAttributeMismatch, attrs.fieldType(), i.Type)
	}
	out := i
	out.Attrs = clampAttributes(attrs)
	return out, nil
}

// ApplyEdits decodes a raw properties-editor payload into the instance's
// attribute type and applies it through WithAttributes, so edits from outside
// the process get the same clamping as typed ones.
func (i Instance) ApplyEdits(raw json.RawMessage) (Instance, error) {
	attrs, err := DecodeAttributes(i.Type, raw)
	if err != nil {
		return Instance{}, err
	}
	return i.WithAttributes(attrs)
}

// WithLabel returns a copy of the instance with the label replaced.
func (i Instance) WithLabel(label string) Instance {
	out := i
	out.Label = label
	return out
}
