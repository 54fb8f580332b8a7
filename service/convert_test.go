package service

import (
	"strings"
	"testing"

	"github.com/MarisolQZ/pipeline_end/models"
)

func TestDeriveProjectName(t *testing.T) {
	lead := &models.Lead{FullName: "Dana Reyes", Company: "Acme"}

	tests := []struct {
		name     string
		explicit string
		lead     *models.Lead
		want     string
	}{
		{"explicit input wins", "Website Relaunch", lead, "Website Relaunch"},
		{"falls back to company", "", lead, "Acme"},
		{"falls back to full name", "", &models.Lead{FullName: "Dana Reyes"}, "Dana Reyes project"},
		{"whitespace input is not explicit", "   ", lead, "Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveProjectName(tt.explicit, tt.lead); got != tt.want {
				t.Errorf("DeriveProjectName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveScopeSummary(t *testing.T) {
	longMessage := "We need a full storefront rebuild before spring."

	tests := []struct {
		name     string
		explicit string
		message  string
		want     string
	}{
		{"explicit input wins", "Fixed scope.", longMessage, "Fixed scope."},
		{"long message used verbatim", "", longMessage, longMessage},
		{"short message gets the pad note", "", "New site", "New site (scope to be detailed during kickoff)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lead := &models.Lead{Message: tt.message}
			if got := DeriveScopeSummary(tt.explicit, lead); got != tt.want {
				t.Errorf("DeriveScopeSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	existsFrom := func(taken ...string) func(string) (bool, error) {
		set := make(map[string]bool, len(taken))
		for _, s := range taken {
			set[s] = true
		}
		return func(slug string) (bool, error) {
			return set[slug], nil
		}
	}

	t.Run("free base slug used as is", func(t *testing.T) {
		slug, err := UniqueSlug("Acme", existsFrom())
		if err != nil || slug != "acme" {
			t.Errorf("UniqueSlug = (%q, %v), want acme", slug, err)
		}
	})

	t.Run("collision appends the next counter", func(t *testing.T) {
		slug, err := UniqueSlug("Acme", existsFrom("acme", "acme-1"))
		if err != nil || slug != "acme-2" {
			t.Errorf("UniqueSlug = (%q, %v), want acme-2", slug, err)
		}
	})

	t.Run("gives up past the attempt bound", func(t *testing.T) {
		always := func(string) (bool, error) { return true, nil }
		if _, err := UniqueSlug("Acme", always); err == nil {
			t.Error("expected an error when no slug frees up")
		}
	})

	t.Run("name is slugified first", func(t *testing.T) {
		slug, err := UniqueSlug("Bright & Shiny  Studio!", existsFrom())
		if err != nil {
			t.Fatal(err)
		}
		if slug != "bright-shiny-studio" {
			t.Errorf("UniqueSlug = %q", slug)
		}
		if strings.ContainsAny(slug, " &!") {
			t.Errorf("slug %q not normalized", slug)
		}
	})
}
