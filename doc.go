// Package casefolio is the content storage core of the atelierfolk studio
// site: case-study records as JSON documents plus their binary assets,
// persisted through one of two interchangeable backends (local filesystem
// or S3-compatible object storage), with local version history and
// full-corpus backup/restore layered on top.
//
// The storage contract is the Adapter interface; LocalAdapter and
// S3Adapter implement it. DefaultAdapter selects one per process from the
// environment. CaseService carries the admin operations (save with
// rename, delete, listings), HistoryManager the per-edit snapshots, and
// BackupService the metadata-plus-records export/import.
//
// There is no query language, no cross-namespace transaction and no
// concurrent-writer conflict resolution beyond last-writer-wins.
package casefolio
