// Package openapi describes a published form's submission endpoint as an
// OpenAPI 3 document, so external clients can post responses without scraping
// the rendered HTML.
package openapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/lifecycle"
)

// ErrNotPublished is returned when exporting a form that has no share id yet.
var ErrNotPublished = errors.New("openapi export: form is not published")

// Exporter builds submission endpoint specs from published forms.
type Exporter struct {
	registry *field.Registry
	// basePath prefixes the submission route, default "/f".
	basePath string
}

// Option configures the exporter.
type Option func(*Exporter)

// WithBasePath overrides the submission route prefix.
func WithBasePath(basePath string) Option {
	return func(e *Exporter) {
		if basePath != "" {
			e.basePath = basePath
		}
	}
}

// New constructs an Exporter backed by the given field registry.
func New(registry *field.Registry, options ...Option) (*Exporter, error) {
	if registry == nil {
		return nil, errors.New("openapi export: field registry is required")
	}
	e := &Exporter{
		registry: registry,
		basePath: "/f",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Export builds and validates the OpenAPI document for the form's submission
// endpoint. The form must be published.
func (e *Exporter) Export(ctx context.Context, form *lifecycle.Form) (*openapi3.T, error) {
	if form == nil {
		return nil, errors.New("openapi export: form is required")
	}
	if !form.Published || form.ShareID == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotPublished, form.Name)
	}

	doc, err := document.Deserialize(form.Content, e.registry)
	if err != nil {
		return nil, fmt.Errorf("openapi export: parse form content: %w", err)
	}

	schema, err := e.submissionSchema(doc)
	if err != nil {
		return nil, err
	}

	responses := openapi3.NewResponses()
	responses.Set("204", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Submission accepted"),
	})
	responses.Set("400", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Submission failed validation"),
	})
	responses.Set("404", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Unknown share id"),
	})

	operation := &openapi3.Operation{
		OperationID: "submitForm",
		Summary:     "Submit a response to " + form.Name,
		Description: form.Description,
		Parameters: openapi3.Parameters{
			&openapi3.ParameterRef{
				Value: openapi3.NewPathParameter("shareId").
					WithSchema(openapi3.NewStringSchema()).
					WithDescription("Public share identifier assigned at publish time"),
			},
		},
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithFormDataSchema(schema),
		},
		Responses: responses,
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       form.Name,
			Description: form.Description,
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(),
	}
	spec.Paths.Set(e.basePath+"/{shareId}/submit", &openapi3.PathItem{Post: operation})

	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi export: validate: %w", err)
	}
	return spec, nil
}

// ExportJSON is Export serialized to the JSON wire form.
func (e *Exporter) ExportJSON(ctx context.Context, form *lifecycle.Form) ([]byte, error) {
	spec, err := e.Export(ctx, form)
	if err != nil {
		return nil, err
	}
	return spec.MarshalJSON()
}

// submissionSchema maps the document's input fields onto a flat
// form-urlencoded object. Layout fields carry no submitted value and are
// skipped.
func (e *Exporter) submissionSchema(doc document.Document) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	progressTag := openapi3.NewStringSchema()
	progressTag.Description = "Opaque tag that resumes a previously saved attempt"
	schema.WithProperty("progressTag", progressTag)

	for _, inst := range doc.Fields() {
		if inst.Type.Layout() {
			continue
		}
		prop, err := fieldSchema(inst)
		if err != nil {
			return nil, err
		}
		schema.WithProperty(inst.ID, prop)
		if inst.Required() {
			schema.Required = append(schema.Required, inst.ID)
		}

		if attrs, ok := inst.Attrs.(field.TableAttributes); ok {
			addCellProperties(schema, inst.ID, attrs)
		}
	}
	return schema, nil
}

func fieldSchema(inst field.Instance) (*openapi3.Schema, error) {
	switch attrs := inst.Attrs.(type) {
	case field.TextAttributes:
		return labeled(openapi3.NewStringSchema(), inst), nil
	case field.NumberAttributes:
		return labeled(openapi3.NewStringSchema().WithPattern(`^-?\d+(\.\d+)?$`), inst), nil
	case field.TextareaAttributes:
		return labeled(openapi3.NewStringSchema(), inst), nil
	case field.DateAttributes:
		return labeled(openapi3.NewStringSchema().WithFormat("date"), inst), nil
	case field.SelectAttributes:
		values := make([]any, 0, len(attrs.Options))
		for _, option := range attrs.Options {
			values = append(values, option)
		}
		return labeled(openapi3.NewStringSchema().WithEnum(values...), inst), nil
	case field.CheckboxAttributes:
		return labeled(openapi3.NewStringSchema().WithEnum("true", "false"), inst), nil
	case field.TableAttributes:
		tableSchema := openapi3.NewStringSchema().WithEnum("true", "false")
		tableSchema.Description = "Completion flag; individual cells are submitted as <id>.<row>.<col>"
		return labeled(tableSchema, inst), nil
	default:
		return nil, fmt.Errorf("openapi export: no schema mapping for field type %q", inst.Type)
	}
}

func addCellProperties(schema *openapi3.Schema, id string, attrs field.TableAttributes) {
	for ri, row := range attrs.Cells {
		for ci, cell := range row {
			name := fmt.Sprintf("%s.%d.%d", id, ri, ci)
			var prop *openapi3.Schema
			switch cell.Kind {
			case field.CellCheckbox:
				prop = openapi3.NewStringSchema().WithEnum("true", "false")
			case field.CellSelect:
				values := make([]any, 0, len(cell.Options))
				for _, option := range cell.Options {
					values = append(values, option)
				}
				prop = openapi3.NewStringSchema().WithEnum(values...)
			case field.CellNumber:
				prop = openapi3.NewStringSchema().WithPattern(`^-?\d+(\.\d+)?$`)
			case field.CellDate:
				prop = openapi3.NewStringSchema().WithFormat("date")
			default:
				prop = openapi3.NewStringSchema()
			}
			schema.WithProperty(name, prop)
		}
	}
}

func labeled(schema *openapi3.Schema, inst field.Instance) *openapi3.Schema {
	if inst.Label != "" {
		schema.Title = inst.Label
	}
	return schema
}
