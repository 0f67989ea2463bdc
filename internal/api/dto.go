package api

import (
	"github.com/atelierfolk/casefolio"
)

// SaveCaseRequest is the request body for creating, updating or renaming
// a case study. PrevSlug carries the record's previous identifier when
// the admin changed the slug.
type SaveCaseRequest struct {
	PrevSlug string `json:"prevSlug,omitempty"`
	casefolio.CaseRecord
}

// SaveCaseResponse is returned after a successful save.
type SaveCaseResponse struct {
	OK   bool   `json:"ok"`
	Slug string `json:"slug"`
}

// VersionsResponse wraps a slug's history listing, newest first.
type VersionsResponse struct {
	OK       bool                `json:"ok"`
	Versions []casefolio.Version `json:"versions"`
}

// RestoreRequest names the history entry to restore.
type RestoreRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// AssetsResponse wraps a slug's asset listing.
type AssetsResponse struct {
	OK     bool              `json:"ok"`
	Assets []casefolio.Asset `json:"assets"`
}

// AssetUploadResponse is returned after a successful upload.
type AssetUploadResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SummaryResponse wraps the content health report.
type SummaryResponse struct {
	OK     bool                    `json:"ok"`
	Totals casefolio.SummaryTotals `json:"totals"`
	Items  []casefolio.SummaryItem `json:"items"`
}

// BackupResponse wraps the full-corpus export.
type BackupResponse struct {
	OK      bool                                   `json:"ok"`
	Cases   []casefolio.BackupCase                 `json:"cases"`
	History map[string][]casefolio.BackupVersion   `json:"history,omitempty"`
	Assets  map[string][]casefolio.AssetIndexEntry `json:"assets,omitempty"`
}

// ImportRequest is the backup import payload.
type ImportRequest struct {
	Cases []casefolio.BackupCase `json:"cases"`
}

// ImportResponse reports how many records were written back.
type ImportResponse struct {
	OK       bool `json:"ok"`
	Imported int  `json:"imported"`
}

// SnapshotResponse reports a bulk point-in-time snapshot.
type SnapshotResponse struct {
	OK       bool   `json:"ok"`
	Snapshot string `json:"snapshot"`
	Files    int    `json:"files"`
}
