// Package tui collects form input interactively from a terminal session and
// serializes the collected values for submission.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/document"
	"github.com/goliatone/go-formbuilder/pkg/field"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

const skipChoice = "(skip)"

// Renderer implements render.Renderer for terminal-driven sessions. It walks
// the document in order, printing layout fields and prompting for input
// fields, then serializes the collected values.
type Renderer struct {
	driver            PromptDriver
	registry          *field.Registry
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(registry *field.Registry, options ...Option) (*Renderer, error) {
	if registry == nil {
		return nil, errors.New("tui: field registry is required")
	}

	driver, err := newSurveyDriver()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		driver:       driver,
		registry:     registry,
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every input field in document order. Only the live-input
// role makes sense on a terminal; other roles return ErrUnsupportedRole.
func (r *Renderer) Render(ctx context.Context, doc document.Document, opts render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if role := opts.EffectiveRole(); role != render.RoleLiveInput {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRole, role)
	}

	values := make(map[string]string, len(opts.Values))
	for key, value := range opts.Values {
		values[key] = value
	}

	for _, inst := range doc.Fields() {
		if !r.registry.Has(inst.Type) {
			return nil, fmt.Errorf("tui: %w: %q", field.ErrUnknownFieldType, inst.Type)
		}
		if err := r.promptField(ctx, inst, values); err != nil {
			return nil, err
		}
	}

	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) promptField(ctx context.Context, inst field.Instance, values map[string]string) error {
	switch attrs := inst.Attrs.(type) {
	case field.TitleAttributes:
		return r.driver.Info(ctx, "== "+inst.Label+" ==")
	case field.ParagraphAttributes:
		return r.driver.Info(ctx, attrs.Text)
	case field.SeparatorAttributes:
		return r.driver.Info(ctx, strings.Repeat("-", 40))
	case field.PageBreakAttributes:
		return r.driver.Info(ctx, strings.Repeat("=", 40))
	case field.SpacerAttributes:
		return r.driver.Info(ctx, "")
	case field.TextAttributes:
		return r.promptText(ctx, inst, values, attrs.Placeholder, attrs.HelperText)
	case field.NumberAttributes:
		return r.promptNumber(ctx, inst, values, attrs.HelperText)
	case field.TextareaAttributes:
		return r.promptTextarea(ctx, inst, values, attrs.HelperText)
	case field.DateAttributes:
		return r.promptDate(ctx, inst, values, attrs.HelperText)
	case field.SelectAttributes:
		return r.promptSelect(ctx, inst, values, attrs)
	case field.CheckboxAttributes:
		return r.promptCheckbox(ctx, inst, values, attrs.HelperText)
	case field.TableAttributes:
		return r.promptTable(ctx, inst, values, attrs)
	default:
		return fmt.Errorf("tui: no prompt for field type %q", inst.Type)
	}
}

func (r *Renderer) promptText(ctx context.Context, inst field.Instance, values map[string]string, placeholder, help string) error {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(inst, placeholder),
			Default: values[inst.ID],
			Help:    help,
		})
		if err != nil {
			return err
		}
		if r.accept(ctx, inst, response, values) {
			return nil
		}
	}
}

func (r *Renderer) promptNumber(ctx context.Context, inst field.Instance, values map[string]string, help string) error {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(inst, ""),
			Default: values[inst.ID],
			Help:    help,
		})
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(response)
		if trimmed != "" {
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s: not a number", inst.ID)); err != nil {
					return err
				}
				continue
			}
		}
		if r.accept(ctx, inst, trimmed, values) {
			return nil
		}
	}
}

func (r *Renderer) promptTextarea(ctx context.Context, inst field.Instance, values map[string]string, help string) error {
	for {
		response, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(inst, ""),
			Default: values[inst.ID],
			Help:    help,
		})
		if err != nil {
			return err
		}
		if r.accept(ctx, inst, response, values) {
			return nil
		}
	}
}

func (r *Renderer) promptDate(ctx context.Context, inst field.Instance, values map[string]string, help string) error {
	if help == "" {
		help = "Format: YYYY-MM-DD"
	}
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: promptLabel(inst, ""),
			Default: values[inst.ID],
			Help:    help,
		})
		if err != nil {
			return err
		}
		if r.accept(ctx, inst, strings.TrimSpace(response), values) {
			return nil
		}
	}
}

func (r *Renderer) promptSelect(ctx context.Context, inst field.Instance, values map[string]string, attrs field.SelectAttributes) error {
	options := attrs.Options
	if !inst.Required() {
		options = append([]string{skipChoice}, options...)
	}

	defaultIdx := indexOf(options, values[inst.ID])
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(inst, attrs.Placeholder),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         attrs.HelperText,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			if err := r.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", inst.ID)); err != nil {
				return err
			}
			continue
		}
		selected := options[idx]
		if selected == skipChoice {
			selected = ""
		}
		if r.accept(ctx, inst, selected, values) {
			return nil
		}
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, inst field.Instance, values map[string]string, help string) error {
	for {
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: promptLabel(inst, ""),
			Default: values[inst.ID] == "true",
			Help:    help,
		})
		if err != nil {
			return err
		}
		if r.accept(ctx, inst, strconv.FormatBool(checked), values) {
			return nil
		}
	}
}

func (r *Renderer) promptTable(ctx context.Context, inst field.Instance, values map[string]string, attrs field.TableAttributes) error {
	if !inst.Required() {
		fill, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Fill in %s?", promptLabel(inst, "")),
			Default: false,
		})
		if err != nil {
			return err
		}
		if !fill {
			values[inst.ID] = "false"
			return nil
		}
	}

	for ri, row := range attrs.Cells {
		for ci, cell := range row {
			name := fmt.Sprintf("%s.%d.%d", inst.ID, ri, ci)
			label := cellLabel(attrs.Headers, ri, ci)
			value, err := r.promptCell(ctx, label, cell, values[name])
			if err != nil {
				return err
			}
			values[name] = value
		}
	}

	values[inst.ID] = "true"
	return nil
}

func (r *Renderer) promptCell(ctx context.Context, label string, cell field.CellValue, current string) (string, error) {
	if current == "" {
		current = cell.String()
	}

	switch cell.Kind {
	case field.CellCheckbox:
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: current == "true",
		})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(checked), nil
	case field.CellSelect:
		defaultIdx := indexOf(cell.Options, current)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      cell.Options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(cell.Options) {
			return "", nil
		}
		return cell.Options[idx], nil
	case field.CellNumber:
		for {
			response, err := r.driver.Input(ctx, InputConfig{
				Message: label,
				Default: current,
			})
			if err != nil {
				return "", err
			}
			trimmed := strings.TrimSpace(response)
			if trimmed == "" {
				return "", nil
			}
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				if err := r.driver.Info(ctx, "Invalid number"); err != nil {
					return "", err
				}
				continue
			}
			return trimmed, nil
		}
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
		})
	}
}

// accept stores the response when it passes the field's validation rule and
// reports whether the prompt loop should stop.
func (r *Renderer) accept(ctx context.Context, inst field.Instance, response string, values map[string]string) bool {
	if !field.Validate(inst, response) {
		_ = r.driver.Info(ctx, fmt.Sprintf("Invalid %s: required", inst.ID))
		return false
	}
	values[inst.ID] = response
	return true
}

func (r *Renderer) serialize(values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		form := url.Values{}
		for key, value := range values {
			form.Set(key, value)
		}
		return []byte(form.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func prettyPrint(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, values[key])
	}
	return b.String()
}

func promptLabel(inst field.Instance, fallback string) string {
	if inst.Label != "" {
		return inst.Label
	}
	if fallback != "" {
		return fallback
	}
	return inst.ID
}

func cellLabel(headers []string, row, col int) string {
	if col < len(headers) && headers[col] != "" {
		return fmt.Sprintf("%s (row %d)", headers[col], row+1)
	}
	return fmt.Sprintf("Cell %d,%d", row+1, col+1)
}
