package field

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CellKind discriminates the typed value a table cell can hold.
type CellKind string

const (
	CellText     CellKind = "text"
	CellCheckbox CellKind = "checkbox"
	CellSelect   CellKind = "select"
	CellNumber   CellKind = "number"
	CellDate     CellKind = "date"
)

// CellValue is the tagged variant for a single table cell. Earlier document
// revisions embedded the cell type in the string value itself
// ("[checkbox:true]", "[select:\"b\":[a,b]]"); ParseLegacyCell accepts that
// form so old tables keep loading, while serialization always emits the
// structured shape.
type CellValue struct {
	Kind     CellKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Options  []string `json:"options,omitempty"`
	Selected string   `json:"selected,omitempty"`
	Number   float64  `json:"number,omitempty"`
	Date     string   `json:"date,omitempty"`
}

// TextCell builds a plain text cell.
func TextCell(text string) CellValue {
	return CellValue{Kind: CellText, Text: text}
}

// CheckboxCell builds a boolean cell.
func CheckboxCell(checked bool) CellValue {
	return CellValue{Kind: CellCheckbox, Checked: checked}
}

// SelectCell builds a single-choice cell with its option list.
func SelectCell(selected string, options []string) CellValue {
	return CellValue{Kind: CellSelect, Selected: selected, Options: options}
}

// NumberCell builds a numeric cell.
func NumberCell(value float64) CellValue {
	return CellValue{Kind: CellNumber, Number: value}
}

// DateCell builds a date cell holding an ISO-8601 date string.
func DateCell(date string) CellValue {
	return CellValue{Kind: CellDate, Date: date}
}

// String renders the cell's user-facing value.
func (c CellValue) String() string {
	switch c.Kind {
	case CellCheckbox:
		return strconv.FormatBool(c.Checked)
	case CellSelect:
		return c.Selected
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date
	default:
		return c.Text
	}
}

// ParseLegacyCell decodes the tagged-string cell encoding inherited from older
// documents. Values without a recognized tag are treated as plain text.
func ParseLegacyCell(raw string) (CellValue, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return TextCell(raw), nil
	}

	body := trimmed[1 : len(trimmed)-1]
	tag, rest, ok := strings.Cut(body, ":")
	if !ok {
		return TextCell(raw), nil
	}

	switch CellKind(strings.TrimSpace(tag)) {
	case CellCheckbox:
		checked, err := strconv.ParseBool(strings.TrimSpace(rest))
		if err != nil {
			return CellValue{}, fmt.Errorf("field: %w: checkbox cell %q", ErrMalformedCell, raw)
		}
		return CheckboxCell(checked), nil
	case CellNumber:
		value, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
		if err != nil {
			return CellValue{}, fmt.Errorf("field: %w: number cell %q", ErrMalformedCell, raw)
		}
		return NumberCell(value), nil
	case CellDate:
		return DateCell(strings.TrimSpace(rest)), nil
	case CellSelect:
		selected, options, err := parseLegacySelect(rest)
		if err != nil {
			return CellValue{}, fmt.Errorf("field: %w: select cell %q", ErrMalformedCell, raw)
		}
		return SelectCell(selected, options), nil
	default:
		return TextCell(raw), nil
	}
}

// parseLegacySelect handles the `"selected":[opt1,opt2]` remainder of a
// legacy select cell.
func parseLegacySelect(rest string) (string, []string, error) {
	selectedPart, optionsPart, ok := strings.Cut(rest, ":[")
	if !ok || !strings.HasSuffix(optionsPart, "]") {
		return "", nil, fmt.Errorf("missing option list")
	}

	selected := strings.Trim(strings.TrimSpace(selectedPart), `"`)
	optionsBody := strings.TrimSuffix(optionsPart, "]")

	var options []string
	for _, opt := range strings.Split(optionsBody, ",") {
		opt = strings.Trim(strings.TrimSpace(opt), `"`)
		if opt == "" {
			continue
		}
		options = append(options, opt)
	}
	return selected, options, nil
}

// DecodeCell parses a structured cell payload, falling back to the legacy
// string form when the payload is a bare JSON string.
func DecodeCell(raw json.RawMessage) (CellValue, error) {
	if len(raw) == 0 {
		return CellValue{}, fmt.Errorf("field: %w: empty payload", ErrMalformedCell)
	}
	if raw[0] == '"' {
		var legacy string
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return CellValue{}, fmt.Errorf("field: %w: %v", ErrMalformedCell, err)
		}
		return ParseLegacyCell(legacy)
	}

	// plainCell sidesteps CellValue.UnmarshalJSON so structured payloads
	// decode field-by-field without recursing back into DecodeCell.
	type plainCell CellValue
	var cell plainCell
	if err := json.Unmarshal(raw, &cell); err != nil {
		return CellValue{}, fmt.Errorf("field: %w: %v", ErrMalformedCell, err)
	}
	if cell.Kind == "" {
		cell.Kind = CellText
	}
	return CellValue(cell), nil
}

// UnmarshalJSON accepts both the structured cell shape and the legacy
// tagged-string form, so table attributes decoded from older documents keep
// loading.
func (c *CellValue) UnmarshalJSON(data []byte) error {
	cell, err := DecodeCell(data)
	if err != nil {
		return err
	}
	*c = cell
	return nil
}
