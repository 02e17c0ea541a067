package field

// Default heights reserved by layout types. Paragraph height is computed from
// rendered content length by the rendering layer, so it stays zero here.
const (
	defaultTitleHeight     = 50
	defaultSeparatorHeight = 30
	defaultPageBreakHeight = 40
	defaultSpacerHeight    = 20
)

// Definition is the type-level contract shared by every instance of a field
// type: how to construct a fresh instance with sensible defaults, and how to
// judge a submitted value. Rendering roles are addressed through the render
// package so no UI technology leaks in here.
type Definition struct {
	Type Type
	// Title is the human-readable name shown in designer palettes.
	Title string
	// Construct produces a new instance carrying the type's default label and
	// attributes. The caller owns id uniqueness within a document.
	Construct func(id string) Instance
	// Validate is the pure submission predicate for this type.
	Validate func(inst Instance, raw string) bool
}

func builtinDefinitions() []Definition {
	construct := func(t Type, title string, height int, attrs Attributes) func(string) Instance {
		return func(id string) Instance {
			return Instance{
				ID:     id,
				Type:   t,
				Label:  title,
				Height: height,
				Attrs:  attrs,
			}
		}
	}

	defs := []Definition{
		{
			Type:      TypeText,
			Title:     "Text field",
			Construct: construct(TypeText, "Text field", 0, TextAttributes{Placeholder: "Value here..."}),
		},
		{
			Type:      TypeTitle,
			Title:     "Title",
			Construct: construct(TypeTitle, "Title", defaultTitleHeight, TitleAttributes{Size: "title"}),
		},
		{
			Type:      TypeParagraph,
			Title:     "Paragraph",
			Construct: construct(TypeParagraph, "Paragraph", 0, ParagraphAttributes{Text: "Text here"}),
		},
		{
			Type:      TypeSeparator,
			Title:     "Separator",
			Construct: construct(TypeSeparator, "Separator", defaultSeparatorHeight, SeparatorAttributes{}),
		},
		{
			Type:      TypeSpacer,
			Title:     "Spacer",
			Construct: construct(TypeSpacer, "Spacer", 0, SpacerAttributes{Height: defaultSpacerHeight}),
		},
		{
			Type:      TypeNumber,
			Title:     "Number field",
			Construct: construct(TypeNumber, "Number field", 0, NumberAttributes{Placeholder: "0"}),
		},
		{
			Type:      TypeTextarea,
			Title:     "Textarea",
			Construct: construct(TypeTextarea, "Textarea", 0, TextareaAttributes{Placeholder: "Value here...", Rows: 3}),
		},
		{
			Type:      TypeDate,
			Title:     "Date field",
			Construct: construct(TypeDate, "Date field", 0, DateAttributes{HelperText: "Pick a date"}),
		},
		{
			Type:      TypeSelect,
			Title:     "Select field",
			Construct: construct(TypeSelect, "Select field", 0, SelectAttributes{Placeholder: "Select an option"}),
		},
		{
			Type:      TypeCheckbox,
			Title:     "Checkbox",
			Construct: construct(TypeCheckbox, "Checkbox", 0, CheckboxAttributes{}),
		},
		{
			Type:  TypeTable,
			Title: "Table",
			Construct: construct(TypeTable, "Table", 0, TableAttributes{
				Rows:    3,
				Columns: 3,
				Headers: []string{"Column 1", "Column 2", "Column 3"},
			}),
		},
		{
			Type:      TypeImage,
			Title:     "Image",
			Construct: construct(TypeImage, "Image", 0, ImageAttributes{}),
		},
		{
			Type:      TypePageBreak,
			Title:     "Page break",
			Construct: construct(TypePageBreak, "Page break", defaultPageBreakHeight, PageBreakAttributes{}),
		},
	}

	for i := range defs {
		defs[i].Validate = Validate
	}
	return defs
}
