// Package html renders form documents as self-contained HTML fragments using
// an embedded template bundle.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	gotemplate "github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	action           string
	hiddenFields     map[string]string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAction sets the form's submit endpoint for live-input rendering.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// WithHiddenFields merges hidden inputs into every rendered form.
func WithHiddenFields(fields ...render.HiddenField) Option {
	return func(cfg *config) {
		cfg.hiddenFields = render.MergeHiddenFields(cfg.hiddenFields, fields...)
	}
}

// Renderer implements render.Renderer for all three roles: design preview,
// live input, and properties editor.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *field.Registry
	action       string
	hiddenFields map[string]string
}

// New constructs the HTML renderer applying any provided options.
func New(registry *field.Registry, options ...Option) (*Renderer, error) {
	if registry == nil {
		return nil, fmt.Errorf("html renderer: field registry is required")
	}

	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		registry:     registry,
		action:       cfg.action,
		hiddenFields: cfg.hiddenFields,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML fragment for the requested role.
func (r *Renderer) Render(ctx context.Context, doc document.Document, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch options.EffectiveRole() {
	case render.RolePropertiesEditor:
		return r.renderProperties(doc, options)
	default:
		return r.renderForm(doc, options)
	}
}

func (r *Renderer) renderForm(doc document.Document, options render.Options) ([]byte, error) {
	role := options.EffectiveRole()
	readOnly := options.ReadOnly || role == render.RoleDesignPreview

	var fields []map[string]any
	for _, inst := range doc.Fields() {
		if !r.registry.Has(inst.Type) {
			return nil, fmt.Errorf("html renderer: %w: %q", field.ErrUnknownFieldType, inst.Type)
		}
		vm, err := r.fieldView(inst, options, readOnly)
		if err != nil {
			return nil, err
		}
		html, err := r.templates.RenderTemplate("components/"+string(inst.Type), vm)
		if err != nil {
			return nil, fmt.Errorf("html renderer: render field %q: %w", inst.ID, err)
		}
		fields = append(fields, map[string]any{"html": html})
	}

	data := map[string]any{
		"role":          string(role),
		"fields":        fields,
		"action":        r.action,
		"show_submit":   role == render.RoleLiveInput && !readOnly,
		"hidden_fields": hiddenFieldViews(r.hiddenFields),
		"theme_style":   themeStyle(options.Theme),
	}

	out, err := r.templates.RenderTemplate("form", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(out), nil
}

// fieldView projects an instance into the context its component template
// consumes. Authored rich text is sanitized here, once, before templating.
func (r *Renderer) fieldView(inst field.Instance, options render.Options, readOnly bool) (map[string]any, error) {
	vm := map[string]any{
		"id":         inst.ID,
		"control_id": controlID(inst.ID),
		"type":       string(inst.Type),
		"label":      inst.Label,
		"value":      options.Values[inst.ID],
		"invalid":    options.Invalid(inst.ID),
		"read_only":  readOnly,
		"required":   inst.Required(),
		"height":     inst.Height,
	}

	switch attrs := inst.Attrs.(type) {
	case field.TextAttributes:
		vm["placeholder"] = attrs.Placeholder
		vm["helper_text"] = attrs.HelperText
	case field.NumberAttributes:
		vm["placeholder"] = attrs.Placeholder
		vm["helper_text"] = attrs.HelperText
	case field.TextareaAttributes:
		vm["placeholder"] = attrs.Placeholder
		vm["helper_text"] = attrs.HelperText
		vm["rows"] = attrs.Rows
	case field.DateAttributes:
		vm["helper_text"] = attrs.HelperText
	case field.SelectAttributes:
		vm["placeholder"] = attrs.Placeholder
		vm["helper_text"] = attrs.HelperText
		vm["options"] = attrs.Options
	case field.CheckboxAttributes:
		vm["helper_text"] = attrs.HelperText
		vm["checked"] = options.Values[inst.ID] == "true"
	case field.TitleAttributes:
		vm["size"] = attrs.Size
	case field.ParagraphAttributes:
		text := sanitizeRichText(attrs.Text)
		vm["text"] = text
		vm["height"] = paragraphHeight(text)
	case field.SpacerAttributes:
		vm["height"] = attrs.Height
	case field.ImageAttributes:
		vm["url"] = attrs.URL
		vm["alt"] = attrs.Alt
		vm["caption"] = sanitizeRichText(attrs.Caption)
	case field.TableAttributes:
		vm["headers"] = attrs.Headers
		vm["table_rows"] = tableRowViews(inst.ID, attrs, options, readOnly)
	}

	return vm, nil
}

func tableRowViews(id string, attrs field.TableAttributes, options render.Options, readOnly bool) []map[string]any {
	rows := make([]map[string]any, 0, len(attrs.Cells))
	for ri, row := range attrs.Cells {
		cells := make([]map[string]any, 0, len(row))
		for ci, cell := range row {
			name := fmt.Sprintf("%s.%d.%d", id, ri, ci)
			view := map[string]any{
				"kind":      string(cell.Kind),
				"name":      name,
				"value":     cell.String(),
				"options":   cell.Options,
				"checked":   cell.Checked,
				"read_only": readOnly,
			}
			if submitted, ok := options.Values[name]; ok {
				view["value"] = submitted
				view["checked"] = submitted == "true"
			}
			cells = append(cells, view)
		}
		rows = append(rows, map[string]any{"cells": cells})
	}
	return rows
}

// renderProperties renders the attribute-editing surface for every field in
// the document. Attribute rows are derived from the typed schema, so the
// editor stays in sync with the union without per-type templates.
func (r *Renderer) renderProperties(doc document.Document, options render.Options) ([]byte, error) {
	var editors []map[string]any
	for _, inst := range doc.Fields() {
		rows, err := attributeRows(inst)
		if err != nil {
			return nil, err
		}
		var rendered []map[string]any
		for _, row := range rows {
			html, err := r.templates.RenderTemplate("components/attr_"+row.kind, row.view)
			if err != nil {
				return nil, fmt.Errorf("html renderer: render %s attribute %q: %w", inst.Type, row.name, err)
			}
			rendered = append(rendered, map[string]any{"html": html})
		}
		editors = append(editors, map[string]any{
			"id":         inst.ID,
			"type":       string(inst.Type),
			"label":      inst.Label,
			"attributes": rendered,
		})
	}

	out, err := r.templates.RenderTemplate("properties", map[string]any{
		"editors":     editors,
		"theme_style": themeStyle(options.Theme),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render properties: %w", err)
	}
	return []byte(out), nil
}

func hiddenFieldViews(fields map[string]string) []map[string]string {
	sorted := render.SortedHiddenFields(fields)
	views := make([]map[string]string, 0, len(sorted))
	for _, hf := range sorted {
		views = append(views, map[string]string{"name": hf.Name, "value": hf.Value})
	}
	return views
}

// themeStyle flattens resolved theme tokens into an inline CSS custom
// property list.
func themeStyle(cfg *render.ThemeConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(cfg.CSSVars[key])
		sb.WriteString("; ")
	}
	return strings.TrimSpace(sb.String())
}

// paragraphHeight estimates the vertical space a paragraph needs from its
// content length; the document model leaves paragraph height at zero.
func paragraphHeight(text string) int {
	const lineHeight, charsPerLine = 24, 80
	lines := len(text)/charsPerLine + 1
	return lines * lineHeight
}

func controlID(id string) string {
	return "fb-" + strings.TrimSpace(id)
}
