package field

import "strings"

// Validate is the submission predicate applied to a single field. It is pure:
// no document or registry state is consulted. The switch is exhaustive over
// the attribute union so adding a type without a validation policy fails to
// compile rather than silently passing.
func Validate(inst Instance, raw string) bool {
	switch attrs := inst.Attrs.(type) {
	case TextAttributes:
		return !attrs.Required || strings.TrimSpace(raw) != ""
	case NumberAttributes:
		return !attrs.Required || strings.TrimSpace(raw) != ""
	case TextareaAttributes:
		return !attrs.Required || strings.TrimSpace(raw) != ""
	case DateAttributes:
		return !attrs.Required || strings.TrimSpace(raw) != ""
	case SelectAttributes:
		return !attrs.Required || strings.TrimSpace(raw) != ""
	case CheckboxAttributes:
		// A required checkbox must be affirmatively ticked.
		return !attrs.Required || raw == "true"
	case TableAttributes:
		// The raw value is a caller-supplied completion flag; per-cell typing
		// lives in CellValue and is a presentation concern.
		return !attrs.Required || raw == "true"
	case TitleAttributes, ParagraphAttributes, SeparatorAttributes,
		SpacerAttributes, ImageAttributes, PageBreakAttributes:
		// Layout types carry no submitted value.
		return true
	default:
		// Unknown attribute payloads (nil attrs on a hand-built instance)
		// fall back to the type-level required flag.
		return !inst.Required()
	}
}
