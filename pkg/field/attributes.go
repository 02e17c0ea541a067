package field

import (
	"encoding/json"
	"fmt"
)

// Attribute bounds enforced when a properties edit is applied.
const (
	TableMinRows    = 1
	TableMaxRows    = 500
	TableMinColumns = 1
	TableMaxColumns = 10
	SpacerMinHeight = 5
	SpacerMaxHeight = 200
	TextareaMinRows = 1
	TextareaMaxRows = 20
)

// Attributes is the closed union of per-type attribute schemas. Exactly one
// concrete struct exists per field Type; dispatch is an exhaustive switch
// rather than a runtime lookup.
type Attributes interface {
	fieldType() Type
}

// TextAttributes configures single-line text inputs.
type TextAttributes struct {
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	HelperText  string `json:"helperText,omitempty"`
}

func (TextAttributes) fieldType() Type { return TypeText }
func (a TextAttributes) required() bool { return a.Required }

// TitleAttributes configures a heading element.
type TitleAttributes struct {
	// Size selects the heading weight: "title" or "subtitle".
	Size string `json:"size,omitempty"`
}

func (TitleAttributes) fieldType() Type { return TypeTitle }

// ParagraphAttributes carries a block of authored display text. The text may
// contain limited markup; sanitization is a renderer concern.
type ParagraphAttributes struct {
	Text string `json:"text"`
}

func (ParagraphAttributes) fieldType() Type { return TypeParagraph }

// SeparatorAttributes configures a horizontal rule. It has no options today
// but keeps its own schema so the union stays total over the tag set.
type SeparatorAttributes struct{}

func (SeparatorAttributes) fieldType() Type { return TypeSeparator }

// SpacerAttributes reserves vertical space, in pixels.
type SpacerAttributes struct {
	Height int `json:"height"`
}

func (SpacerAttributes) fieldType() Type { return TypeSpacer }

// NumberAttributes configures numeric inputs.
type NumberAttributes struct {
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	HelperText  string `json:"helperText,omitempty"`
}

func (NumberAttributes) fieldType() Type { return TypeNumber }
func (a NumberAttributes) required() bool { return a.Required }

// TextareaAttributes configures multi-line text inputs.
type TextareaAttributes struct {
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	HelperText  string `json:"helperText,omitempty"`
	Rows        int    `json:"rows,omitempty"`
}

func (TextareaAttributes) fieldType() Type { return TypeTextarea }
func (a TextareaAttributes) required() bool { return a.Required }

// DateAttributes configures date pickers.
type DateAttributes struct {
	Required   bool   `json:"required"`
	HelperText string `json:"helperText,omitempty"`
}

func (DateAttributes) fieldType() Type { return TypeDate }
func (a DateAttributes) required() bool { return a.Required }

// SelectAttributes configures single-choice dropdowns.
type SelectAttributes struct {
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	HelperText  string   `json:"helperText,omitempty"`
	Options     []string `json:"options,omitempty"`
}

func (SelectAttributes) fieldType() Type { return TypeSelect }
func (a SelectAttributes) required() bool { return a.Required }

// CheckboxAttributes configures a single boolean checkbox.
type CheckboxAttributes struct {
	Required   bool   `json:"required"`
	HelperText string `json:"helperText,omitempty"`
}

func (CheckboxAttributes) fieldType() Type { return TypeCheckbox }
func (a CheckboxAttributes) required() bool { return a.Required }

// TableAttributes configures a tabular entry grid. Cells hold typed values;
// cell-level completion is reported by the caller as a single flag at submit
// time, not validated per cell here.
type TableAttributes struct {
	Required bool          `json:"required"`
	Rows     int           `json:"rows"`
	Columns  int           `json:"columns"`
	Headers  []string      `json:"headers,omitempty"`
	Cells    [][]CellValue `json:"cells,omitempty"`
}

func (TableAttributes) fieldType() Type { return TypeTable }
func (a TableAttributes) required() bool { return a.Required }

// ImageAttributes configures an embedded display image.
type ImageAttributes struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (ImageAttributes) fieldType() Type { return TypeImage }

// PageBreakAttributes splits a form into pages.
type PageBreakAttributes struct{}

func (PageBreakAttributes) fieldType() Type { return TypePageBreak }

// DecodeAttributes resolves a raw extraAttributes payload into the concrete
// attribute struct for the given type. A nil payload yields the type's zero
// attributes so older documents without the key still load.
func DecodeAttributes(t Type, raw json.RawMessage) (Attributes, error) {
	switch t {
	case TypeText:
		return decodeInto[TextAttributes](t, raw)
	case TypeTitle:
		return decodeInto[TitleAttributes](t, raw)
	case TypeParagraph:
		return decodeInto[ParagraphAttributes](t, raw)
	case TypeSeparator:
		return decodeInto[SeparatorAttributes](t, raw)
	case TypeSpacer:
		return decodeInto[SpacerAttributes](t, raw)
	case TypeNumber:
		return decodeInto[NumberAttributes](t, raw)
	case TypeTextarea:
		return decodeInto[TextareaAttributes](t, raw)
	case TypeDate:
		return decodeInto[DateAttributes](t, raw)
	case TypeSelect:
		return decodeInto[SelectAttributes](t, raw)
	case TypeCheckbox:
		return decodeInto[CheckboxAttributes](t, raw)
	case TypeTable:
		return decodeInto[TableAttributes](t, raw)
	case TypeImage:
		return decodeInto[ImageAttributes](t, raw)
	case TypePageBreak:
		return decodeInto[PageBreakAttributes](t, raw)
	default:
		return nil, fmt.Errorf("field: %w: %q", ErrUnknownFieldType, t)
	}
}

func decodeInto[T Attributes](t Type, raw json.RawMessage) (Attributes, error) {
	var attrs T
	if len(raw) == 0 {
		return attrs, nil
	}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("field: decode %s attributes: %w", t, err)
	}
	return attrs, nil
}

// clampAttributes enforces numeric attribute bounds at properties-edit time.
// Stored documents are never rewritten; only incoming edits pass through here.
func clampAttributes(attrs Attributes) Attributes {
	switch a := attrs.(type) {
	case SpacerAttributes:
		a.Height = clamp(a.Height, SpacerMinHeight, SpacerMaxHeight)
		return a
	case TextareaAttributes:
		if a.Rows != 0 {
			a.Rows = clamp(a.Rows, TextareaMinRows, TextareaMaxRows)
		}
		return a
	case TableAttributes:
		a.Rows = clamp(a.Rows, TableMinRows, TableMaxRows)
		a.Columns = clamp(a.Columns, TableMinColumns, TableMaxColumns)
		return a
	default:
		return attrs
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
