package casefolio

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// CaseService implements the operations consumed by the admin API:
// save (create, update, rename), read, delete, listing and the summary
// report. It orchestrates the adapter, the history manager and the
// outbound webhook. Concurrency model is last-writer-wins: no locking, no
// optimistic-concurrency token.
type CaseService struct {
	adapter  Adapter
	history  *HistoryManager
	notifier *WebhookNotifier
	logger   Logger
	metrics  Metrics
}

// NewCaseService creates a service over the given adapter with no-op
// logging and metrics.
func NewCaseService(adapter Adapter) *CaseService {
	return &CaseService{
		adapter: adapter,
		logger:  &NoOpLogger{},
		metrics: &NoOpMetrics{},
	}
}

// SetLogger updates the logger for this service.
func (s *CaseService) SetLogger(logger Logger) {
	s.logger = logger
}

// SetMetrics updates the metrics collector for this service.
func (s *CaseService) SetMetrics(metrics Metrics) {
	s.metrics = metrics
}

// SetHistory attaches pre-write versioning. History is available on the
// local backend only; with a nil manager snapshots are skipped.
func (s *CaseService) SetHistory(history *HistoryManager) {
	s.history = history
}

// SetNotifier attaches the outbound webhook ping.
func (s *CaseService) SetNotifier(notifier *WebhookNotifier) {
	s.notifier = notifier
}

// History returns the attached history manager, or nil.
func (s *CaseService) History() *HistoryManager {
	return s.history
}

// Adapter returns the underlying storage adapter.
func (s *CaseService) Adapter() Adapter {
	return s.adapter
}

// CaseSummary is the lightweight listing entry.
type CaseSummary struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// Save validates, normalizes and persists a record. prevSlug carries the
// record's previous identifier when the admin renamed it; the pre-write
// history snapshot is keyed by the old slug so the prior body stays
// findable after the rename. The new body is written before the old entry
// is removed; a crash between the two steps leaves both records live (a
// known, accepted gap). The asset-folder move and the webhook ping are
// best-effort and never fail the save. Returns the canonical slug.
func (s *CaseService) Save(ctx context.Context, prevSlug string, rec *CaseRecord) (string, error) {
	start := time.Now()

	rec.Normalize("")
	if err := rec.Validate(); err != nil {
		return "", err
	}
	slug := rec.Slug

	prev := ""
	if p := Slugify(prevSlug); p != "" && p != slug {
		prev = p
	}

	if s.history != nil {
		historySlug := slug
		if prev != "" {
			historySlug = prev
		}
		if err := s.history.SnapshotBeforeWrite(historySlug); err != nil {
			s.logger.Warn("pre-write snapshot failed", "slug", historySlug, "error", err)
		}
	}

	if err := PutRecord(ctx, s.adapter, slug, rec); err != nil {
		s.metrics.Increment(MetricSaveError)
		return "", err
	}

	if prev != "" {
		if err := s.adapter.DeleteCase(ctx, prev); err != nil {
			s.logger.Warn("old record cleanup failed", "slug", prev, "error", err)
		}
		if mover, ok := s.adapter.(AssetMover); ok {
			if err := mover.MoveAssetsFolder(ctx, prev, slug); err != nil {
				s.logger.Warn("asset folder move failed", "from", prev, "to", slug, "error", err)
			}
		}
	}

	s.notifier.CaseSaved(rec)

	s.metrics.Increment(MetricCaseSave)
	s.metrics.Timing(MetricSaveDuration, time.Since(start))
	s.logger.Info("case saved", "slug", slug, "renamedFrom", prev)
	return slug, nil
}

// Get returns the record at slug, or (nil, nil) when it does not exist.
func (s *CaseService) Get(ctx context.Context, slug string) (*CaseRecord, error) {
	s.metrics.Increment(MetricCaseGet)
	return GetRecord(ctx, s.adapter, Slugify(slug))
}

// GetRaw returns the stored JSON body at slug, or (nil, nil) when absent.
func (s *CaseService) GetRaw(ctx context.Context, slug string) (json.RawMessage, error) {
	return s.adapter.GetCase(ctx, Slugify(slug))
}

// Delete removes the live record. The slug's asset folder is deliberately
// left untouched: assets are never cascade-deleted. Returns ErrNotFound
// when no record exists at slug.
func (s *CaseService) Delete(ctx context.Context, slug string) error {
	slug = Slugify(slug)
	raw, err := s.adapter.GetCase(ctx, slug)
	if err != nil {
		return err
	}
	if raw == nil {
		return WithContext(ErrNotFound, map[string]interface{}{"slug": slug})
	}
	if s.history != nil {
		if err := s.history.SnapshotBeforeWrite(slug); err != nil {
			s.logger.Warn("pre-delete snapshot failed", "slug", slug, "error", err)
		}
	}
	if err := s.adapter.DeleteCase(ctx, slug); err != nil {
		return err
	}
	s.metrics.Increment(MetricCaseDelete)
	s.logger.Info("case deleted", "slug", slug)
	return nil
}

// List returns a lightweight summary of every live record, sorted by
// year descending. Records with unreadable bodies are skipped.
func (s *CaseService) List(ctx context.Context) ([]CaseSummary, error) {
	slugs, err := s.adapter.ListCaseSlugs(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CaseSummary, 0, len(slugs))
	for _, slug := range slugs {
		rec, err := GetRecord(ctx, s.adapter, slug)
		if err != nil || rec == nil {
			continue
		}
		items = append(items, CaseSummary{Slug: rec.Slug, Title: rec.Title, Year: rec.Year})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Year > items[j].Year })
	s.metrics.Increment(MetricCaseList)
	return items, nil
}

// SummaryItem is the per-record row of the content health report.
type SummaryItem struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Year       int    `json:"year"`
	HasCover   bool   `json:"hasCover"`
	TagCount   int    `json:"tagCount"`
	ImageCount int    `json:"imageCount"`
	VideoCount int    `json:"videoCount"`
	OtherCount int    `json:"otherCount"`
}

// SummaryTotals aggregates the report across all records.
type SummaryTotals struct {
	Projects     int `json:"projects"`
	Images       int `json:"images"`
	Videos       int `json:"videos"`
	MissingCover int `json:"missingCover"`
	NoImages     int `json:"noImages"`
}

// SummaryReport is the admin dashboard's content overview.
type SummaryReport struct {
	Totals SummaryTotals `json:"totals"`
	Items  []SummaryItem `json:"items"`
}

// Summary builds the content health report: per-record asset counts plus
// corpus-wide totals, sorted by year descending.
func (s *CaseService) Summary(ctx context.Context) (*SummaryReport, error) {
	slugs, err := s.adapter.ListCaseSlugs(ctx)
	if err != nil {
		return nil, err
	}
	report := &SummaryReport{Items: make([]SummaryItem, 0, len(slugs))}
	for _, slug := range slugs {
		rec, err := GetRecord(ctx, s.adapter, slug)
		if err != nil || rec == nil {
			continue
		}
		item := SummaryItem{
			Slug:     rec.Slug,
			Title:    rec.Title,
			Year:     rec.Year,
			HasCover: rec.Cover != "",
			TagCount: len(rec.Tags),
		}
		assets, err := s.adapter.ListAssets(ctx, slug)
		if err == nil {
			for _, a := range assets {
				switch a.Type {
				case AssetImage:
					item.ImageCount++
				case AssetVideo:
					item.VideoCount++
				default:
					item.OtherCount++
				}
			}
		}
		report.Items = append(report.Items, item)

		report.Totals.Projects++
		report.Totals.Images += item.ImageCount
		report.Totals.Videos += item.VideoCount
		if !item.HasCover {
			report.Totals.MissingCover++
		}
		if item.ImageCount == 0 {
			report.Totals.NoImages++
		}
	}
	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].Year > report.Items[j].Year })
	return report, nil
}

// ListAssets returns the assets owned by slug; never an error for a slug
// with no uploads.
func (s *CaseService) ListAssets(ctx context.Context, slug string) ([]Asset, error) {
	return s.adapter.ListAssets(ctx, Slugify(slug))
}

// UploadAsset stores one asset under the slug's folder, overwriting any
// existing asset of the same name.
func (s *CaseService) UploadAsset(ctx context.Context, slug, name string, data []byte, contentType string) (*Asset, error) {
	slug = Slugify(slug)
	url, err := s.adapter.PutAsset(ctx, slug, name, data, contentType)
	if err != nil {
		return nil, err
	}
	s.metrics.Increment(MetricAssetUpload)
	return &Asset{
		Name: name,
		Size: int64(len(data)),
		Type: ClassifyAsset(name),
		URL:  url,
	}, nil
}

// DeleteAsset removes one asset. Returns ErrNotFound when the asset does
// not exist, so the admin panel can report it distinctly.
func (s *CaseService) DeleteAsset(ctx context.Context, slug, name string) error {
	slug = Slugify(slug)
	assets, err := s.adapter.ListAssets(ctx, slug)
	if err != nil {
		return err
	}
	found := false
	for _, a := range assets {
		if a.Name == name {
			found = true
			break
		}
	}
	if !found {
		return WithContext(ErrNotFound, map[string]interface{}{"slug": slug, "name": name})
	}
	if err := s.adapter.DeleteAsset(ctx, slug, name); err != nil {
		return err
	}
	s.metrics.Increment(MetricAssetDelete)
	return nil
}
