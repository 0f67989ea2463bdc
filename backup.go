package casefolio

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
)

// BackupService exports and imports the content corpus. Exports carry
// full record bodies, history entries and an asset index (name/size/type
// only — never binary payloads; operators back the asset store up
// separately). Imports are per-entry best-effort.
type BackupService struct {
	adapter Adapter
	history *HistoryManager
	logger  Logger
}

// NewBackupService creates a backup service. history may be nil when the
// configured backend carries no local version history.
func NewBackupService(adapter Adapter, history *HistoryManager, logger Logger) *BackupService {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &BackupService{adapter: adapter, history: history, logger: logger}
}

// BackupCase is one exported record.
type BackupCase struct {
	Slug    string          `json:"slug"`
	Content json.RawMessage `json:"content"`
}

// BackupVersion is one exported history entry.
type BackupVersion struct {
	Name    string          `json:"name"`
	Content json.RawMessage `json:"content"`
}

// AssetIndexEntry is one row of the metadata-only asset index.
type AssetIndexEntry struct {
	Name string    `json:"name"`
	Size int64     `json:"size"`
	Type AssetType `json:"type"`
}

// Backup is the full-corpus export.
type Backup struct {
	Cases   []BackupCase                 `json:"cases"`
	History map[string][]BackupVersion   `json:"history,omitempty"`
	Assets  map[string][]AssetIndexEntry `json:"assets,omitempty"`
}

// ExportAll enumerates every live record, every history entry and the
// asset index. The asset namespace is walked on its own rather than
// derived from live records: deleting a record leaves its assets behind,
// and those orphaned folders belong in the backup too. Entries that
// cannot be read are skipped.
func (b *BackupService) ExportAll(ctx context.Context) (*Backup, error) {
	slugs, err := b.adapter.ListCaseSlugs(ctx)
	if err != nil {
		return nil, err
	}

	out := &Backup{
		Cases:   make([]BackupCase, 0, len(slugs)),
		History: map[string][]BackupVersion{},
		Assets:  map[string][]AssetIndexEntry{},
	}

	for _, slug := range slugs {
		raw, err := b.adapter.GetCase(ctx, slug)
		if err != nil || raw == nil {
			continue
		}
		out.Cases = append(out.Cases, BackupCase{Slug: slug, Content: raw})
	}

	assetSlugs, err := b.adapter.ListAssetSlugs(ctx)
	if err != nil {
		b.logger.Warn("asset enumeration failed", "error", err)
		assetSlugs = nil
	}
	for _, slug := range assetSlugs {
		assets, err := b.adapter.ListAssets(ctx, slug)
		if err != nil {
			b.logger.Warn("asset index skipped", "slug", slug, "error", err)
			continue
		}
		if len(assets) == 0 {
			continue
		}
		index := make([]AssetIndexEntry, 0, len(assets))
		for _, a := range assets {
			index = append(index, AssetIndexEntry{Name: a.Name, Size: a.Size, Type: a.Type})
		}
		out.Assets[slug] = index
	}

	if b.history != nil {
		histSlugs, err := b.history.Slugs()
		if err != nil {
			b.logger.Warn("history enumeration failed", "error", err)
			histSlugs = nil
		}
		for _, slug := range histSlugs {
			versions, err := b.history.ListVersions(slug)
			if err != nil {
				continue
			}
			list := make([]BackupVersion, 0, len(versions))
			for _, v := range versions {
				raw, err := b.history.ReadVersion(slug, v.Name)
				if err != nil || !json.Valid(raw) {
					continue
				}
				list = append(list, BackupVersion{Name: v.Name, Content: raw})
			}
			if len(list) == 0 {
				continue
			}
			sort.Slice(list, func(i, j int) bool { return list[i].Name > list[j].Name })
			out.History[slug] = list
		}
	}

	return out, nil
}

// ImportAll writes case bodies back to the store. Each entry is
// independent: a blank slug or non-object content skips the entry, the
// current live body (if any) is first snapshotted under a "-import"
// history name, and individual failures never abort the batch. Returns
// the number of records imported.
func (b *BackupService) ImportAll(ctx context.Context, cases []BackupCase) (int, error) {
	imported := 0
	for _, item := range cases {
		slug := Slugify(strings.TrimSpace(item.Slug))
		if slug == "" {
			continue
		}
		if len(item.Content) == 0 || !json.Valid(item.Content) {
			continue
		}
		trimmed := strings.TrimSpace(string(item.Content))
		if !strings.HasPrefix(trimmed, "{") {
			continue
		}

		if b.history != nil {
			if err := b.history.snapshotWithSuffix(slug, "-import"); err != nil {
				b.logger.Warn("pre-import snapshot failed", "slug", slug, "error", err)
			}
		}

		if err := b.adapter.PutCase(ctx, slug, item.Content); err != nil {
			b.logger.Warn("import write failed", "slug", slug, "error", err)
			continue
		}
		imported++
	}
	return imported, nil
}
