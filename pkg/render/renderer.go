package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/document"
)

// Role selects which rendering contract a renderer should honor for a
// document: the designer's read-only preview, the public data-entry surface,
// or the per-field properties editor.
type Role string

const (
	RoleDesignPreview    Role = "design-preview"
	RoleLiveInput        Role = "live-input"
	RolePropertiesEditor Role = "properties-editor"
)

// Renderer converts a form document into a byte representation (HTML, prompt
// session transcripts, etc.). The core prescribes no rendering technology;
// anything registered by name can serve a role.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, doc document.Document, options Options) ([]byte, error)
}
