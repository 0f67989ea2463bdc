package casefolio

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Calm Hotel", "calm-hotel"},
		{"  Calm   Hotel  ", "calm-hotel"},
		{"CALM_HOTEL!", "calm-hotel-"},
		{"åld café", "-ld-caf-"},
		{"already-safe-slug", "already-safe-slug"},
		{"a--b---c", "a-b-c"},
		{"", ""},
		{"   ", ""},
		{"2024 / Interiors & Spaces", "2024-interiors-spaces"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{
		"Calm Hotel", "  spaces  everywhere ", "UPPER_case.file", "ok", "",
		"é è ü", "a!b@c#d", "---", "mixed CASE and  GAPS",
	}
	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
		if once != "" && !SlugPattern.MatchString(once) {
			t.Errorf("Slugify(%q) = %q does not match %v", in, once, SlugPattern)
		}
	}
}
