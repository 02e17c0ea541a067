package main

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// builtinThemes are the manifests the server ships with. External theme
// bundles are out of scope; selecting one of these by name in the config is
// enough to style every public form.
func builtinThemes() map[string]*theme.Manifest {
	return map[string]*theme.Manifest{
		"classic": {
			Name:    "classic",
			Version: "1.0.0",
			Tokens: map[string]string{
				"color-primary": "#336699",
				"color-surface": "#ffffff",
				"color-text":    "#1a1a1a",
				"radius":        "4px",
				"spacing":       "12px",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						"color-primary": "#6699cc",
						"color-surface": "#1e1e1e",
						"color-text":    "#e6e6e6",
					},
				},
			},
		},
	}
}

// resolveTheme projects the configured theme/variant into renderer options.
// An empty theme name renders unthemed; an unknown name or variant is a
// configuration error, not a silent fallback.
func resolveTheme(name, variant string) (*render.ThemeConfig, error) {
	if name == "" {
		return nil, nil
	}

	manifest, ok := builtinThemes()[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
	}

	return render.ThemeFromSelection(&theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}), nil
}
