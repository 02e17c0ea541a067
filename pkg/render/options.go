package render

import (
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Options describe per-request data renderers can use without mutating the
// document: the role to render for, current values, validation state, and an
// optional resolved theme.
type Options struct {
	// Role defaults to RoleLiveInput when empty.
	Role Role
	// Values pre-populates controls keyed by field id.
	Values map[string]string
	// InvalidIDs marks fields that failed submission validation so renderers
	// can surface inline error chrome.
	InvalidIDs []string
	// ReadOnly renders inputs disabled; the design preview implies it.
	ReadOnly bool
	// Theme carries resolved theme tokens; nil renders unthemed.
	Theme *ThemeConfig
}

// EffectiveRole resolves the role, applying the live-input default.
func (o Options) EffectiveRole() Role {
	if o.Role == "" {
		return RoleLiveInput
	}
	return o.Role
}

// Invalid reports whether the given field id failed validation.
func (o Options) Invalid(id string) bool {
	for _, invalid := range o.InvalidIDs {
		if invalid == id {
			return true
		}
	}
	return false
}

// ThemeConfig is the renderer-facing projection of a go-theme selection:
// name, variant, and the token set flattened into CSS custom properties.
type ThemeConfig struct {
	Theme   string
	Variant string
	Tokens  map[string]string
	CSSVars map[string]string
	// AssetURL resolves a logical asset key to a servable URL; nil when the
	// selected theme ships no assets.
	AssetURL func(key string) string
}

// ThemeFromSelection projects a go-theme selection into a ThemeConfig,
// deriving --token CSS variables and an asset resolver from the manifest.
func ThemeFromSelection(selection *theme.Selection) *ThemeConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}

	manifest := selection.Manifest
	cfg := &ThemeConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  make(map[string]string, len(manifest.Tokens)),
		CSSVars: make(map[string]string, len(manifest.Tokens)),
	}
	for token, value := range manifest.Tokens {
		cfg.Tokens[token] = value
		cfg.CSSVars["--"+token] = value
	}
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for token, value := range variant.Tokens {
			cfg.Tokens[token] = value
			cfg.CSSVars["--"+token] = value
		}
	}

	if len(manifest.Assets.Files) > 0 {
		prefix := strings.TrimRight(manifest.Assets.Prefix, "/")
		files := manifest.Assets.Files
		cfg.AssetURL = func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return prefix + "/" + file
		}
	}

	return cfg
}
