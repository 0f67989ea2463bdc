package casefolio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func newTestLocalAdapter(t *testing.T) *LocalAdapter {
	t.Helper()
	root := t.TempDir()
	return NewLocalAdapter(
		filepath.Join(root, "content", "case-studies"),
		filepath.Join(root, "public", "cases"),
	)
}

func mustRecordJSON(t *testing.T, rec *CaseRecord) json.RawMessage {
	t.Helper()
	data, err := MarshalRecord(rec)
	if err != nil {
		t.Fatalf("MarshalRecord failed: %v", err)
	}
	return data
}

func TestLocalAdapter_CaseRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	rec := &CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel", Year: 2024, Tags: []string{"interior"}}
	if err := adapter.PutCase(ctx, "calm-hotel", mustRecordJSON(t, rec)); err != nil {
		t.Fatalf("PutCase failed: %v", err)
	}

	raw, err := adapter.GetCase(ctx, "calm-hotel")
	if err != nil {
		t.Fatalf("GetCase failed: %v", err)
	}
	var back CaseRecord
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Title != "Calm Hotel" || back.Year != 2024 {
		t.Errorf("round-trip mismatch: %+v", back)
	}

	slugs, err := adapter.ListCaseSlugs(ctx)
	if err != nil {
		t.Fatalf("ListCaseSlugs failed: %v", err)
	}
	if len(slugs) != 1 || slugs[0] != "calm-hotel" {
		t.Errorf("slugs = %v, want [calm-hotel]", slugs)
	}
}

func TestLocalAdapter_MissingCase(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	raw, err := adapter.GetCase(ctx, "never-written")
	if err != nil {
		t.Fatalf("GetCase on missing slug errored: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil for missing record, got %s", raw)
	}

	if err := adapter.DeleteCase(ctx, "never-written"); err != nil {
		t.Errorf("DeleteCase on missing slug errored: %v", err)
	}
}

func TestLocalAdapter_InvalidJSONTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	if err := os.MkdirAll(adapter.recordsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(adapter.recordsDir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	raw, err := adapter.GetCase(ctx, "broken")
	if err != nil || raw != nil {
		t.Errorf("GetCase(broken) = (%s, %v), want (nil, nil)", raw, err)
	}
}

func TestLocalAdapter_Assets(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	t.Run("EmptyListing", func(t *testing.T) {
		assets, err := adapter.ListAssets(ctx, "calm-hotel")
		if err != nil {
			t.Fatalf("ListAssets failed: %v", err)
		}
		if len(assets) != 0 {
			t.Errorf("expected empty listing, got %v", assets)
		}
	})

	t.Run("UploadAndList", func(t *testing.T) {
		url, err := adapter.PutAsset(ctx, "calm-hotel", "cover.jpg", []byte("abc"), "image/jpeg")
		if err != nil {
			t.Fatalf("PutAsset failed: %v", err)
		}
		if url != "/cases/calm-hotel/cover.jpg" {
			t.Errorf("url = %q", url)
		}

		assets, err := adapter.ListAssets(ctx, "calm-hotel")
		if err != nil {
			t.Fatalf("ListAssets failed: %v", err)
		}
		if len(assets) != 1 {
			t.Fatalf("expected 1 asset, got %d", len(assets))
		}
		a := assets[0]
		if a.Name != "cover.jpg" || a.Size != 3 || a.Type != AssetImage {
			t.Errorf("asset = %+v", a)
		}
		if a.Mtime == 0 {
			t.Error("expected non-zero mtime")
		}
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		if err := adapter.DeleteAsset(ctx, "calm-hotel", "cover.jpg"); err != nil {
			t.Fatalf("DeleteAsset failed: %v", err)
		}
		if err := adapter.DeleteAsset(ctx, "calm-hotel", "cover.jpg"); err != nil {
			t.Errorf("second DeleteAsset errored: %v", err)
		}
	})
}

func TestLocalAdapter_DriftHealing(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	// A historical folder persisted before slugs were normalized.
	drifted := filepath.Join(adapter.assetsDir, "Calm Hotel")
	if err := os.MkdirAll(drifted, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(drifted, "cover.jpg"), []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	assets, err := adapter.ListAssets(ctx, "calm-hotel")
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "cover.jpg" {
		t.Fatalf("assets = %v, want drifted folder contents", assets)
	}

	// The folder was renamed to the canonical path in passing.
	if _, err := os.Stat(filepath.Join(adapter.assetsDir, "calm-hotel")); err != nil {
		t.Errorf("expected healed folder at canonical path: %v", err)
	}
	if _, err := os.Stat(drifted); !os.IsNotExist(err) {
		t.Errorf("expected drifted folder to be gone, got %v", err)
	}
}

func TestLocalAdapter_MoveAssetsFolder(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	if _, err := adapter.PutAsset(ctx, "old-name", "cover.jpg", []byte("abc"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := adapter.PutAsset(ctx, "old-name", "walk.mp4", []byte("defg"), ""); err != nil {
		t.Fatal(err)
	}

	if err := adapter.MoveAssetsFolder(ctx, "old-name", "new-name"); err != nil {
		t.Fatalf("MoveAssetsFolder failed: %v", err)
	}

	assets, err := adapter.ListAssets(ctx, "new-name")
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 2 {
		t.Errorf("expected both assets under new slug, got %v", assets)
	}

	old, err := adapter.ListAssets(ctx, "old-name")
	if err != nil {
		t.Fatalf("ListAssets(old) failed: %v", err)
	}
	if len(old) != 0 {
		t.Errorf("expected old slug to be empty, got %v", old)
	}
}

func TestLocalAdapter_MoveAssetsFolder_NoSource(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	if err := adapter.MoveAssetsFolder(ctx, "ghost", "elsewhere"); err != nil {
		t.Errorf("move with no source folder errored: %v", err)
	}
}

func TestLocalAdapter_ListAssetSlugs(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	slugs, err := adapter.ListAssetSlugs(ctx)
	if err != nil {
		t.Fatalf("ListAssetSlugs on empty tree errored: %v", err)
	}
	if len(slugs) != 0 {
		t.Errorf("slugs = %v, want none", slugs)
	}

	if _, err := adapter.PutAsset(ctx, "calm-hotel", "cover.jpg", []byte("abc"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := adapter.PutAsset(ctx, "bold-cafe", "logo.svg", []byte("<svg/>"), ""); err != nil {
		t.Fatal(err)
	}

	slugs, err = adapter.ListAssetSlugs(ctx)
	if err != nil {
		t.Fatalf("ListAssetSlugs failed: %v", err)
	}
	if len(slugs) != 2 {
		t.Errorf("slugs = %v, want both asset folders", slugs)
	}
}

func TestLocalAdapter_AssetURLNormalizesSlug(t *testing.T) {
	adapter := newTestLocalAdapter(t)
	if got := adapter.AssetURL("Calm Hotel", "cover.jpg"); got != "/cases/calm-hotel/cover.jpg" {
		t.Errorf("AssetURL = %q", got)
	}
}
