package casefolio

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// LocalAdapter implements Adapter over a local directory tree: one JSON
// file per slug under recordsDir, one asset folder per slug under assetsDir.
// Assets are served directly as the static path /cases/<slug>/<name>.
type LocalAdapter struct {
	recordsDir string
	assetsDir  string
	logger     Logger
}

// NewLocalAdapter creates a local filesystem adapter.
func NewLocalAdapter(recordsDir, assetsDir string) *LocalAdapter {
	return &LocalAdapter{
		recordsDir: recordsDir,
		assetsDir:  assetsDir,
		logger:     &NoOpLogger{},
	}
}

// SetLogger updates the logger for this adapter.
func (a *LocalAdapter) SetLogger(logger Logger) {
	a.logger = logger
}

// RecordsDir returns the directory holding the live JSON records. The
// history manager layers its .history tree under the same root.
func (a *LocalAdapter) RecordsDir() string {
	return a.recordsDir
}

func (a *LocalAdapter) recordPath(slug string) string {
	return filepath.Join(a.recordsDir, slug+".json")
}

// resolveAssetsDir locates the asset folder for a slug, tolerating
// historical slug drift: if no directory exists at the canonical path but
// exactly a sibling normalizes to the same slug, that sibling is renamed
// in place so future lookups hit the canonical path directly.
func (a *LocalAdapter) resolveAssetsDir(slug string) string {
	safe := Slugify(slug)
	primary := filepath.Join(a.assetsDir, safe)
	if st, err := os.Stat(primary); err == nil && st.IsDir() {
		return primary
	}

	entries, err := os.ReadDir(a.assetsDir)
	if err != nil {
		return primary
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == safe {
			continue
		}
		if Slugify(e.Name()) != safe {
			continue
		}
		drifted := filepath.Join(a.assetsDir, e.Name())
		if err := os.Rename(drifted, primary); err != nil {
			a.logger.Warn("asset folder heal failed", "from", e.Name(), "to", safe, "error", err)
			return drifted
		}
		a.logger.Info("healed drifted asset folder", "from", e.Name(), "to", safe)
		return primary
	}

	// Canonical path, possibly not yet existing; created on first write.
	return primary
}

func (a *LocalAdapter) GetCase(ctx context.Context, slug string) (json.RawMessage, error) {
	data, err := os.ReadFile(a.recordPath(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !json.Valid(data) {
		a.logger.Warn("case record is not valid JSON", "slug", slug)
		return nil, nil
	}
	return data, nil
}

func (a *LocalAdapter) PutCase(ctx context.Context, slug string, data json.RawMessage) error {
	pretty, err := IndentJSON(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.recordsDir, DefaultDirPermissions); err != nil {
		return err
	}
	return os.WriteFile(a.recordPath(slug), append(pretty, '\n'), DefaultFilePermissions)
}

func (a *LocalAdapter) DeleteCase(ctx context.Context, slug string) error {
	err := os.Remove(a.recordPath(slug))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (a *LocalAdapter) ListCaseSlugs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.recordsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, ".json"))
	}
	return slugs, nil
}

// ListAssetSlugs enumerates every asset folder, including folders whose
// record has been deleted.
func (a *LocalAdapter) ListAssetSlugs(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.assetsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var slugs []string
	for _, e := range entries {
		if e.IsDir() {
			slugs = append(slugs, e.Name())
		}
	}
	return slugs, nil
}

func (a *LocalAdapter) ListAssets(ctx context.Context, slug string) ([]Asset, error) {
	dir := a.resolveAssetsDir(slug)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Asset{}, nil
		}
		return nil, err
	}
	assets := make([]Asset, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		name := e.Name()
		assets = append(assets, Asset{
			Name:  name,
			Size:  info.Size(),
			Mtime: info.ModTime().UnixMilli(),
			Type:  ClassifyAsset(name),
			URL:   a.AssetURL(slug, name),
		})
	}
	return assets, nil
}

func (a *LocalAdapter) PutAsset(ctx context.Context, slug, name string, data []byte, contentType string) (string, error) {
	dir := a.resolveAssetsDir(slug)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, DefaultFilePermissions); err != nil {
		return "", err
	}
	return a.AssetURL(slug, name), nil
}

func (a *LocalAdapter) DeleteAsset(ctx context.Context, slug, name string) error {
	dir := a.resolveAssetsDir(slug)
	err := os.Remove(filepath.Join(dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MoveAssetsFolder renames the resolved source folder to the canonical
// destination path. A destination collision or cross-device rename fails
// the move; callers treat that as a soft failure and keep the record write.
func (a *LocalAdapter) MoveAssetsFolder(ctx context.Context, fromSlug, toSlug string) error {
	from := a.resolveAssetsDir(fromSlug)
	if _, err := os.Stat(from); os.IsNotExist(err) {
		return nil
	}
	to := filepath.Join(a.assetsDir, Slugify(toSlug))
	if _, err := os.Stat(to); err == nil {
		return WithContext(ErrBackendUnavailable, map[string]interface{}{
			"reason": "destination asset folder already exists",
			"to":     to,
		})
	}
	if err := os.MkdirAll(filepath.Dir(to), DefaultDirPermissions); err != nil {
		return err
	}
	return os.Rename(from, to)
}

func (a *LocalAdapter) AssetURL(slug, name string) string {
	return "/cases/" + Slugify(slug) + "/" + name
}
