package html

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in template bundle rooted at the template
// directory, so relative names like "form" resolve directly.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
