package html

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

type attributeRow struct {
	name string
	kind string
	view map[string]any
}

// attributeRows flattens a field's typed attributes into editor rows. The
// switch is exhaustive over the attribute union; adding a field type without
// extending it fails loudly at render time.
func attributeRows(inst field.Instance) ([]attributeRow, error) {
	rows := []attributeRow{
		stringRow(inst.ID, "label", inst.Label),
	}

	switch attrs := inst.Attrs.(type) {
	case field.TextAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			stringRow(inst.ID, "placeholder", attrs.Placeholder),
			stringRow(inst.ID, "helperText", attrs.HelperText),
		)
	case field.NumberAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			stringRow(inst.ID, "placeholder", attrs.Placeholder),
			stringRow(inst.ID, "helperText", attrs.HelperText),
		)
	case field.TextareaAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			stringRow(inst.ID, "placeholder", attrs.Placeholder),
			stringRow(inst.ID, "helperText", attrs.HelperText),
			numberRow(inst.ID, "rows", attrs.Rows, field.TextareaMinRows, field.TextareaMaxRows),
		)
	case field.DateAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			stringRow(inst.ID, "helperText", attrs.HelperText),
		)
	case field.SelectAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			stringRow(inst.ID, "placeholder", attrs.Placeholder),
			stringRow(inst.ID, "helperText", attrs.HelperText),
			listRow(inst.ID, "options", attrs.Options),
		)
	case field.CheckboxAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			stringRow(inst.ID, "helperText", attrs.HelperText),
		)
	case field.TableAttributes:
		rows = append(rows,
			boolRow(inst.ID, "required", attrs.Required),
			numberRow(inst.ID, "rows", attrs.Rows, field.TableMinRows, field.TableMaxRows),
			numberRow(inst.ID, "columns", attrs.Columns, field.TableMinColumns, field.TableMaxColumns),
			listRow(inst.ID, "headers", attrs.Headers),
		)
	case field.TitleAttributes:
		rows = append(rows, stringRow(inst.ID, "size", attrs.Size))
	case field.ParagraphAttributes:
		rows = append(rows, textRow(inst.ID, "text", attrs.Text))
	case field.SpacerAttributes:
		rows = append(rows, numberRow(inst.ID, "height", attrs.Height, field.SpacerMinHeight, field.SpacerMaxHeight))
	case field.ImageAttributes:
		rows = append(rows,
			stringRow(inst.ID, "url", attrs.URL),
			stringRow(inst.ID, "alt", attrs.Alt),
			stringRow(inst.ID, "caption", attrs.Caption),
		)
	case field.SeparatorAttributes, field.PageBreakAttributes:
		// layout types with no editable attributes beyond the label
	default:
		return nil, fmt.Errorf("html renderer: no attribute editor for type %q", inst.Type)
	}

	return rows, nil
}

func stringRow(fieldID, name, value string) attributeRow {
	return attributeRow{name: name, kind: "string", view: map[string]any{
		"name":  attrName(fieldID, name),
		"label": name,
		"value": value,
	}}
}

func textRow(fieldID, name, value string) attributeRow {
	return attributeRow{name: name, kind: "text", view: map[string]any{
		"name":  attrName(fieldID, name),
		"label": name,
		"value": value,
	}}
}

func boolRow(fieldID, name string, value bool) attributeRow {
	return attributeRow{name: name, kind: "bool", view: map[string]any{
		"name":    attrName(fieldID, name),
		"label":   name,
		"checked": value,
	}}
}

func numberRow(fieldID, name string, value, min, max int) attributeRow {
	return attributeRow{name: name, kind: "number", view: map[string]any{
		"name":  attrName(fieldID, name),
		"label": name,
		"value": value,
		"min":   min,
		"max":   max,
	}}
}

func listRow(fieldID, name string, values []string) attributeRow {
	return attributeRow{name: name, kind: "list", view: map[string]any{
		"name":  attrName(fieldID, name),
		"label": name,
		"value": strings.Join(values, "\n"),
	}}
}

func attrName(fieldID, name string) string {
	return fieldID + "." + name
}
