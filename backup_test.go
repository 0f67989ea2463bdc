package casefolio

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestBackupService_ExportAll(t *testing.T) {
	ctx := context.Background()
	h, adapter := newTestHistory(t)
	backup := NewBackupService(adapter, h, nil)

	hotel := &CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel", Year: 2024}
	if err := adapter.PutCase(ctx, "calm-hotel", mustRecordJSON(t, hotel)); err != nil {
		t.Fatal(err)
	}
	if _, err := adapter.PutAsset(ctx, "calm-hotel", "cover.jpg", []byte("abc"), "image/jpeg"); err != nil {
		t.Fatal(err)
	}
	if err := h.SnapshotBeforeWrite("calm-hotel"); err != nil {
		t.Fatal(err)
	}

	cafe := &CaseRecord{Slug: "bold-cafe", Title: "Bold Cafe", Year: 2023}
	if err := adapter.PutCase(ctx, "bold-cafe", mustRecordJSON(t, cafe)); err != nil {
		t.Fatal(err)
	}

	out, err := backup.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	if len(out.Cases) != 2 {
		t.Fatalf("exported %d cases, want 2", len(out.Cases))
	}
	for _, c := range out.Cases {
		if !json.Valid(c.Content) {
			t.Errorf("case %s has invalid content", c.Slug)
		}
	}

	index, ok := out.Assets["calm-hotel"]
	if !ok || len(index) != 1 {
		t.Fatalf("asset index = %v, want one entry for calm-hotel", out.Assets)
	}
	if index[0].Name != "cover.jpg" || index[0].Size != 3 || index[0].Type != AssetImage {
		t.Errorf("asset entry = %+v", index[0])
	}
	if _, ok := out.Assets["bold-cafe"]; ok {
		t.Error("slug without uploads should not appear in the asset index")
	}

	versions, ok := out.History["calm-hotel"]
	if !ok || len(versions) != 1 {
		t.Fatalf("history = %v, want one entry for calm-hotel", out.History)
	}
	if !json.Valid(versions[0].Content) {
		t.Error("history entry carries invalid content")
	}
}

func TestBackupService_ExportAll_NoHistoryManager(t *testing.T) {
	ctx := context.Background()
	adapter := newTestLocalAdapter(t)
	backup := NewBackupService(adapter, nil, nil)

	rec := &CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel"}
	if err := adapter.PutCase(ctx, "calm-hotel", mustRecordJSON(t, rec)); err != nil {
		t.Fatal(err)
	}

	out, err := backup.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}
	if len(out.Cases) != 1 {
		t.Errorf("exported %d cases, want 1", len(out.Cases))
	}
	if len(out.History) != 0 {
		t.Errorf("expected empty history map, got %v", out.History)
	}
}

func TestBackupService_ExportAll_OrphanedAssets(t *testing.T) {
	ctx := context.Background()
	h, adapter := newTestHistory(t)
	backup := NewBackupService(adapter, h, nil)

	rec := &CaseRecord{Slug: "calm-hotel", Title: "Calm Hotel"}
	if err := adapter.PutCase(ctx, "calm-hotel", mustRecordJSON(t, rec)); err != nil {
		t.Fatal(err)
	}
	if _, err := adapter.PutAsset(ctx, "calm-hotel", "cover.jpg", []byte("abc"), ""); err != nil {
		t.Fatal(err)
	}

	// Record deletes never cascade to assets; the folder lives on.
	if err := adapter.DeleteCase(ctx, "calm-hotel"); err != nil {
		t.Fatal(err)
	}

	out, err := backup.ExportAll(ctx)
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}
	if len(out.Cases) != 0 {
		t.Errorf("cases = %+v, want none", out.Cases)
	}
	index, ok := out.Assets["calm-hotel"]
	if !ok || len(index) != 1 || index[0].Name != "cover.jpg" {
		t.Errorf("orphaned assets missing from export index: %v", out.Assets)
	}
}

func TestBackupService_ImportAll(t *testing.T) {
	ctx := context.Background()
	h, adapter := newTestHistory(t)
	backup := NewBackupService(adapter, h, nil)

	// Existing body so the import has something to snapshot.
	old := &CaseRecord{Slug: "calm-hotel", Title: "Old Title"}
	if err := adapter.PutCase(ctx, "calm-hotel", mustRecordJSON(t, old)); err != nil {
		t.Fatal(err)
	}

	cases := []BackupCase{
		{Slug: "calm-hotel", Content: json.RawMessage(`{"slug":"calm-hotel","title":"Calm Hotel"}`)},
		{Slug: "  ", Content: json.RawMessage(`{"slug":"x","title":"X"}`)},
		{Slug: "bad-body", Content: json.RawMessage(`"just a string"`)},
		{Slug: "bold-cafe", Content: json.RawMessage(`{"slug":"bold-cafe","title":"Bold Cafe"}`)},
	}

	imported, err := backup.ImportAll(ctx, cases)
	if err != nil {
		t.Fatalf("ImportAll failed: %v", err)
	}
	if imported != 2 {
		t.Errorf("imported = %d, want 2", imported)
	}

	rec, err := GetRecord(ctx, adapter, "calm-hotel")
	if err != nil || rec == nil {
		t.Fatalf("GetRecord after import: (%v, %v)", rec, err)
	}
	if rec.Title != "Calm Hotel" {
		t.Errorf("title = %q, want Calm Hotel", rec.Title)
	}

	if raw, _ := adapter.GetCase(ctx, "bad-body"); raw != nil {
		t.Error("non-object content should have been skipped")
	}

	// The overwritten body was snapshotted under an import-tagged name.
	versions, err := h.ListVersions("calm-hotel")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 pre-import snapshot, got %d", len(versions))
	}
	if !strings.Contains(versions[0].Name, "-import") {
		t.Errorf("snapshot name %q lacks the import marker", versions[0].Name)
	}
}
