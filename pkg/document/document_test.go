package document

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/field"
)

func textField(id, label string, required bool) field.Instance {
	return field.Instance{
		ID:    id,
		Type:  field.TypeText,
		Label: label,
		Attrs: field.TextAttributes{Required: required},
	}
}

func TestInsertAt_ClampsIndex(t *testing.T) {
	cases := []struct {
		name      string
		index     int
		wantOrder []string
	}{
		{"negative clamps to head", -5, []string{"x", "a", "b"}},
		{"zero inserts at head", 0, []string{"x", "a", "b"}},
		{"middle", 1, []string{"a", "x", "b"}},
		{"end", 2, []string{"a", "b", "x"}},
		{"past end clamps to tail", 99, []string{"a", "b", "x"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			doc, err := New(textField("a", "A", false), textField("b", "B", false))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			if err := doc.InsertAt(tc.index, textField("x", "X", false)); err != nil {
				t.Fatalf("insert: %v", err)
			}

			var order []string
			for _, inst := range doc.Fields() {
				order = append(order, inst.ID)
			}
			if diff := cmp.Diff(tc.wantOrder, order); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsertAt_RejectsDuplicateID(t *testing.T) {
	doc, _ := New(textField("a", "A", false))
	if err := doc.InsertAt(0, textField("a", "again", false)); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestRemoveByID(t *testing.T) {
	doc, _ := New(textField("a", "A", false), textField("b", "B", false))

	if err := doc.RemoveByID("a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := doc.ByID("a"); ok {
		t.Fatalf("removed id still resolvable")
	}
	if doc.Len() != 1 {
		t.Fatalf("want 1 field after removal, got %d", doc.Len())
	}

	if err := doc.RemoveByID("a"); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestReplaceByID(t *testing.T) {
	doc, _ := New(textField("a", "A", false), textField("b", "B", false))

	replacement := textField("ignored", "A2", true)
	if err := doc.ReplaceByID("a", replacement); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, ok := doc.ByID("a")
	if !ok {
		t.Fatalf("replaced instance lost its id")
	}
	if got.Label != "A2" {
		t.Fatalf("replacement not applied: %+v", got)
	}
	if doc.Fields()[0].ID != "a" {
		t.Fatalf("replacement changed ordering")
	}

	if err := doc.ReplaceByID("missing", replacement); !errors.Is(err, ErrFieldNotFound) {
		t.Fatalf("expected ErrFieldNotFound, got %v", err)
	}
}

func TestSerialize_RoundTrip(t *testing.T) {
	reg := field.NewRegistry()

	build := func() Document {
		var doc Document
		for i, tag := range field.Types() {
			inst := reg.MustResolve(tag).Construct(string(tag) + "-id")
			if err := doc.InsertAt(i, inst); err != nil {
				t.Fatalf("insert %s: %v", tag, err)
			}
		}
		return doc
	}

	cases := map[string]Document{
		"empty":     {},
		"all types": build(),
	}

	for name, doc := range cases {
		doc := doc
		t.Run(name, func(t *testing.T) {
			payload, err := doc.Serialize()
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			decoded, err := Deserialize(payload, reg)
			if err != nil {
				t.Fatalf("deserialize: %v", err)
			}
			if diff := cmp.Diff(doc.Fields(), decoded.Fields()); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeserialize_LegacyTableCells(t *testing.T) {
	reg := field.NewRegistry()

	payload := `[{"id":"tbl","type":"table","label":"Inventory","extraAttributes":{
		"rows":1,"columns":4,
		"cells":[["bolts","[checkbox:true]","[number:3.5]","[select:\"b\":[a,b]]"]]
	}}]`

	doc, err := Deserialize(payload, reg)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	inst, ok := doc.ByID("tbl")
	if !ok {
		t.Fatalf("table field missing")
	}
	want := [][]field.CellValue{{
		field.TextCell("bolts"),
		field.CheckboxCell(true),
		field.NumberCell(3.5),
		field.SelectCell("b", []string{"a", "b"}),
	}}
	if diff := cmp.Diff(want, inst.Attrs.(field.TableAttributes).Cells); diff != "" {
		t.Fatalf("legacy cells mismatch (-want +got):\n%s", diff)
	}
}

func TestDeserialize_Malformed(t *testing.T) {
	reg := field.NewRegistry()

	cases := map[string]string{
		"not json":     "{nope",
		"not an array": `{"id":"a"}`,
		"missing id":   `[{"type":"text","label":"A"}]`,
		"duplicate id": `[{"id":"a","type":"text","label":"A"},{"id":"a","type":"date","label":"B"}]`,
		"unknown type": `[{"id":"a","type":"hologram","label":"A"}]`,
	}

	for name, payload := range cases {
		payload := payload
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Deserialize(payload, reg); !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}
