package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"
)

func TestOptionsEffectiveRole(t *testing.T) {
	if got := (Options{}).EffectiveRole(); got != RoleLiveInput {
		t.Errorf("EffectiveRole() = %q, want %q", got, RoleLiveInput)
	}
	if got := (Options{Role: RoleDesignPreview}).EffectiveRole(); got != RoleDesignPreview {
		t.Errorf("EffectiveRole() = %q, want %q", got, RoleDesignPreview)
	}
}

func TestOptionsInvalid(t *testing.T) {
	opts := Options{InvalidIDs: []string{"f1", "f3"}}
	if !opts.Invalid("f1") {
		t.Error("Invalid(f1) = false, want true")
	}
	if opts.Invalid("f2") {
		t.Error("Invalid(f2) = true, want false")
	}
}

func TestThemeFromSelection(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":  "#123456",
			"radius": "4px",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme/",
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"brand": "#654321",
				},
			},
		},
	}

	cfg := ThemeFromSelection(&theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: manifest,
	})
	if cfg == nil {
		t.Fatal("ThemeFromSelection() = nil")
	}

	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Errorf("selection metadata = %q/%q", cfg.Theme, cfg.Variant)
	}

	wantVars := map[string]string{
		"--brand":  "#654321",
		"--radius": "4px",
	}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Errorf("CSSVars mismatch (-want +got):\n%s", diff)
	}

	if cfg.AssetURL == nil {
		t.Fatal("AssetURL = nil, want resolver")
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Errorf("AssetURL(stylesheet) = %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Errorf("AssetURL(missing) = %q, want empty", got)
	}
}

func TestThemeFromSelectionNil(t *testing.T) {
	if cfg := ThemeFromSelection(nil); cfg != nil {
		t.Errorf("ThemeFromSelection(nil) = %+v, want nil", cfg)
	}
	if cfg := ThemeFromSelection(&theme.Selection{Theme: "acme"}); cfg != nil {
		t.Errorf("ThemeFromSelection(no manifest) = %+v, want nil", cfg)
	}
}
