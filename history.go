package casefolio

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const snapshotsDirName = "_snapshots"

// HistoryManager keeps timestamped copies of case record bodies under
// <recordsDir>/.history/<slug>/. It is layered on the local backend only:
// history entries live next to the live records, not behind the adapter.
type HistoryManager struct {
	recordsDir string
	historyDir string
	logger     Logger
	now        func() time.Time
}

// NewHistoryManager creates a history manager rooted at recordsDir.
func NewHistoryManager(recordsDir string, logger Logger) *HistoryManager {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &HistoryManager{
		recordsDir: recordsDir,
		historyDir: filepath.Join(recordsDir, ".history"),
		logger:     logger,
		now:        time.Now,
	}
}

// Version describes one history entry of a slug.
type Version struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	MtimeMs int64  `json:"mtimeMs"`
}

// SnapshotResult reports the outcome of a bulk snapshot.
type SnapshotResult struct {
	Timestamp string `json:"snapshot"`
	Files     int    `json:"files"`
}

// historyTimestamp renders the current time as an ISO8601 stamp with
// colons and periods replaced by hyphens for filesystem safety.
func (h *HistoryManager) historyTimestamp() string {
	ts := h.now().UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.ReplaceAll(ts, ":", "-")
	return strings.ReplaceAll(ts, ".", "-")
}

func (h *HistoryManager) livePath(slug string) string {
	return filepath.Join(h.recordsDir, slug+".json")
}

// SnapshotBeforeWrite copies the current live body of slug into a new
// timestamped history entry. It is a no-op when no live record exists
// (first-time creation needs no snapshot). Callers treat failures as
// best-effort: losing a historical copy must never block a save.
func (h *HistoryManager) SnapshotBeforeWrite(slug string) error {
	return h.snapshot(slug, "")
}

// snapshotWithSuffix is used by backup import, which marks its entries
// with a synthetic "-import" suffix.
func (h *HistoryManager) snapshotWithSuffix(slug, suffix string) error {
	return h.snapshot(slug, suffix)
}

func (h *HistoryManager) snapshot(slug, suffix string) error {
	raw, err := os.ReadFile(h.livePath(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	dir := filepath.Join(h.historyDir, slug)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return err
	}
	name := h.historyTimestamp() + suffix + ".json"
	return os.WriteFile(filepath.Join(dir, name), raw, DefaultFilePermissions)
}

// ListVersions returns the history entries of a slug sorted newest-first
// by modification time. A slug with no history yields an empty list.
func (h *HistoryManager) ListVersions(slug string) ([]Version, error) {
	dir := filepath.Join(h.historyDir, slug)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Version{}, nil
		}
		return nil, err
	}
	versions := make([]Version, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		versions = append(versions, Version{
			Name:    e.Name(),
			Size:    info.Size(),
			MtimeMs: info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(versions, func(i, j int) bool {
		if versions[i].MtimeMs != versions[j].MtimeMs {
			return versions[i].MtimeMs > versions[j].MtimeMs
		}
		return versions[i].Name > versions[j].Name
	})
	return versions, nil
}

// Restore overwrites the live record of slug with the named historical
// body. The current live body is snapshotted first, so a restore is
// itself undoable.
func (h *HistoryManager) Restore(slug, versionName string) error {
	src := filepath.Join(h.historyDir, slug, versionName)
	raw, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return WithContext(ErrNotFound, map[string]interface{}{
				"slug": slug, "version": versionName,
			})
		}
		return err
	}

	if err := h.SnapshotBeforeWrite(slug); err != nil {
		h.logger.Warn("pre-restore snapshot failed", "slug", slug, "error", err)
	}

	if err := os.MkdirAll(h.recordsDir, DefaultDirPermissions); err != nil {
		return err
	}
	return os.WriteFile(h.livePath(slug), raw, DefaultFilePermissions)
}

// DeleteVersion removes one history entry. Unlike live-record deletes,
// a missing entry is a reportable not-found error.
func (h *HistoryManager) DeleteVersion(slug, versionName string) error {
	err := os.Remove(filepath.Join(h.historyDir, slug, versionName))
	if err != nil {
		if os.IsNotExist(err) {
			return WithContext(ErrNotFound, map[string]interface{}{
				"slug": slug, "version": versionName,
			})
		}
		return err
	}
	return nil
}

// SnapshotAll copies every live record body into one new timestamp-named
// bulk directory under .history/_snapshots/. Per-record read failures are
// skipped; the snapshot reports how many files it captured.
func (h *HistoryManager) SnapshotAll() (*SnapshotResult, error) {
	ts := h.historyTimestamp()
	snapDir := filepath.Join(h.historyDir, snapshotsDirName, ts)
	if err := os.MkdirAll(snapDir, DefaultDirPermissions); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(h.recordsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	count := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(h.recordsDir, name))
		if err != nil || len(raw) == 0 {
			continue
		}
		if err := os.WriteFile(filepath.Join(snapDir, name), raw, DefaultFilePermissions); err != nil {
			h.logger.Warn("snapshot write failed", "file", name, "error", err)
			continue
		}
		count++
	}
	return &SnapshotResult{Timestamp: ts, Files: count}, nil
}

// Slugs enumerates every slug that has at least one history entry.
func (h *HistoryManager) Slugs() ([]string, error) {
	entries, err := os.ReadDir(h.historyDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == snapshotsDirName {
			continue
		}
		slugs = append(slugs, e.Name())
	}
	return slugs, nil
}

// ReadVersion returns the raw body of one history entry.
func (h *HistoryManager) ReadVersion(slug, versionName string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(h.historyDir, slug, versionName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WithContext(ErrNotFound, map[string]interface{}{
				"slug": slug, "version": versionName,
			})
		}
		return nil, err
	}
	return raw, nil
}
