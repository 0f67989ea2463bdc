package casefolio

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCaseRecord_Normalize(t *testing.T) {
	t.Run("SlugAndTitle", func(t *testing.T) {
		rec := CaseRecord{Slug: "Calm Hotel", Title: "  Calm Hotel  "}
		rec.Normalize("")
		if rec.Slug != "calm-hotel" {
			t.Errorf("slug = %q, want calm-hotel", rec.Slug)
		}
		if rec.Title != "Calm Hotel" {
			t.Errorf("title = %q", rec.Title)
		}
	})

	t.Run("FallbackSlug", func(t *testing.T) {
		rec := CaseRecord{Title: "Untitled"}
		rec.Normalize("From File Name")
		if rec.Slug != "from-file-name" {
			t.Errorf("slug = %q, want from-file-name", rec.Slug)
		}
	})

	t.Run("CategoriesDedupAndMirror", func(t *testing.T) {
		rec := CaseRecord{
			Slug:       "x",
			Title:      "X",
			Categories: []string{" Interior ", "interior", "MOTION"},
		}
		rec.Normalize("")
		if len(rec.Categories) != 2 || rec.Categories[0] != "interior" || rec.Categories[1] != "motion" {
			t.Errorf("categories = %v", rec.Categories)
		}
		if rec.Category != "interior" {
			t.Errorf("category mirror = %q, want interior", rec.Category)
		}
	})

	t.Run("LegacySingularCategory", func(t *testing.T) {
		rec := CaseRecord{Slug: "x", Title: "X", Category: "Graphic"}
		rec.Normalize("")
		if len(rec.Categories) != 1 || rec.Categories[0] != "graphic" {
			t.Errorf("categories = %v, want [graphic]", rec.Categories)
		}
		if rec.Category != "graphic" {
			t.Errorf("category = %q", rec.Category)
		}
	})
}

func TestCaseRecord_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		rec := CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel", Year: 2024, Categories: []string{"interior"}}
		if err := rec.Validate(); err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
	})

	t.Run("MissingSlug", func(t *testing.T) {
		rec := CaseRecord{Title: "Calm Hotel"}
		if err := rec.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("MissingTitle", func(t *testing.T) {
		rec := CaseRecord{Slug: "calm-hotel"}
		if err := rec.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		rec := CaseRecord{Slug: "x", Title: "X", Categories: []string{"sculpture"}}
		if err := rec.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestClassifyAsset(t *testing.T) {
	cases := map[string]AssetType{
		"cover.jpg":    AssetImage,
		"hero.JPEG":    AssetImage,
		"anim.webp":    AssetImage,
		"logo.svg":     AssetImage,
		"walk.mp4":     AssetVideo,
		"clip.WebM":    AssetVideo,
		"reel.m4v":     AssetVideo,
		"notes.txt":    AssetOther,
		"archive.zip":  AssetOther,
		"no-extension": AssetOther,
	}
	for name, want := range cases {
		if got := ClassifyAsset(name); got != want {
			t.Errorf("ClassifyAsset(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestMarshalRecord_PrettyPrinted(t *testing.T) {
	rec := &CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel", Year: 2024}
	data, err := MarshalRecord(rec)
	if err != nil {
		t.Fatalf("MarshalRecord failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"slug\": \"calm-hotel\"") {
		t.Errorf("expected 2-space indented output, got:\n%s", data)
	}

	var back CaseRecord
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("round-trip unmarshal failed: %v", err)
	}
	if back.Slug != rec.Slug || back.Title != rec.Title || back.Year != rec.Year {
		t.Errorf("round-trip mismatch: %+v", back)
	}
}
