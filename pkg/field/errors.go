package field

import "errors"

var (
	// ErrUnknownFieldType signals a tag outside the closed type set. Documents
	// that honor the registry invariant never trip this; it exists so a
	// corrupted tag fails loudly instead of defaulting.
	ErrUnknownFieldType = errors.New("unknown field type")
	// ErrAttributeMismatch signals a properties edit whose attribute schema
	// does not belong to the target instance's type.
	ErrAttributeMismatch = errors.New("attribute type mismatch")
	// ErrMalformedCell signals a table cell payload that could not be decoded.
	ErrMalformedCell = errors.New("malformed cell value")
)
