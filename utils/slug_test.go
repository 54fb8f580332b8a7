package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme", "acme"},
		{"Acme Corp", "acme-corp"},
		{"  Bright & Shiny  Studio!  ", "bright-shiny-studio"},
		{"v2.0 Launch", "v2-0-launch"},
		{"---", "project"},
		{"", "project"},
		{"Åsa Café", "åsa-café"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
