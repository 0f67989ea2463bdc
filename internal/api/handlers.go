package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/atelierfolk/casefolio"
)

// Upload size cap for a single asset (64 MiB); matches the hosting
// platform's request body limit.
const maxUploadBytes = 64 << 20

// Handler carries the admin API endpoints.
type Handler struct {
	svc    *casefolio.CaseService
	backup *casefolio.BackupService
	logger casefolio.Logger
}

// NewHandler creates the admin handler set.
func NewHandler(svc *casefolio.CaseService, backup *casefolio.BackupService, logger casefolio.Logger) *Handler {
	if logger == nil {
		logger = &casefolio.NoOpLogger{}
	}
	return &Handler{svc: svc, backup: backup, logger: logger}
}

// SaveCase handles POST /api/admin/case: create, update or rename.
func (h *Handler) SaveCase(w http.ResponseWriter, r *http.Request) {
	var req SaveCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	slug, err := h.svc.Save(r.Context(), req.PrevSlug, &req.CaseRecord)
	if err != nil {
		if casefolio.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Missing slug/title")
			return
		}
		h.logger.Error("case save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, SaveCaseResponse{OK: true, Slug: slug})
}

// GetCase handles GET /api/admin/case. With ?slug= it returns the stored
// JSON body; without, the {slug,title,year} listing sorted by year.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		items, err := h.svc.List(r.Context())
		if err != nil {
			h.logger.Error("case list failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	raw, err := h.svc.GetRaw(r.Context(), slug)
	if err != nil {
		h.logger.Error("case read failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if raw == nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// DeleteCase handles DELETE /api/admin/case?slug=. Assets are left intact.
func (h *Handler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Missing slug")
		return
	}
	if err := h.svc.Delete(r.Context(), slug); err != nil {
		if casefolio.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("case delete failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListAssets handles GET /api/admin/case/assets?slug=.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Missing slug")
		return
	}
	assets, err := h.svc.ListAssets(r.Context(), slug)
	if err != nil {
		h.logger.Error("asset list failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, AssetsResponse{OK: true, Assets: assets})
}

// UploadAsset handles POST /api/admin/case/assets: multipart form with
// "slug", "file" and an optional "name" override.
func (h *Handler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "Send multipart/form-data with file and slug")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	slug := strings.TrimSpace(r.FormValue("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Missing slug")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // Deferred close

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	if name == "" {
		name = "upload.bin"
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unreadable file")
		return
	}

	asset, err := h.svc.UploadAsset(r.Context(), slug, name, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("asset upload failed", "slug", slug, "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, AssetUploadResponse{OK: true, Name: asset.Name, URL: asset.URL})
}

// DeleteAsset handles DELETE /api/admin/case/assets?slug=&name=.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if slug == "" || name == "" {
		writeError(w, http.StatusBadRequest, "Missing slug or name")
		return
	}
	if err := h.svc.DeleteAsset(r.Context(), slug, name); err != nil {
		if casefolio.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("asset delete failed", "slug", slug, "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Summary handles GET /api/admin/case/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Summary(r.Context())
	if err != nil {
		h.logger.Error("summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{OK: true, Totals: report.Totals, Items: report.Items})
}

// safeVersionName reports whether name is a plain history file name.
// Anything resembling a path never reaches the filesystem.
func safeVersionName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

func (h *Handler) historyOr400(w http.ResponseWriter) *casefolio.HistoryManager {
	history := h.svc.History()
	if history == nil {
		writeError(w, http.StatusBadRequest, "History is not available for this storage backend")
	}
	return history
}

// ListVersions handles GET /api/admin/case/history?slug=.
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	history := h.historyOr400(w)
	if history == nil {
		return
	}
	slug := casefolio.Slugify(r.URL.Query().Get("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "Missing slug")
		return
	}
	versions, err := history.ListVersions(slug)
	if err != nil {
		h.logger.Error("history list failed", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, VersionsResponse{OK: true, Versions: versions})
}

// RestoreVersion handles POST /api/admin/case/history.
func (h *Handler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	history := h.historyOr400(w)
	if history == nil {
		return
	}
	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	slug := casefolio.Slugify(req.Slug)
	name := strings.TrimSpace(req.Name)
	if slug == "" || name == "" {
		writeError(w, http.StatusBadRequest, "Missing slug or name")
		return
	}
	if !safeVersionName(name) {
		writeError(w, http.StatusBadRequest, "Invalid name")
		return
	}
	if err := history.Restore(slug, name); err != nil {
		if casefolio.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("restore failed", "slug", slug, "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DeleteVersion handles DELETE /api/admin/case/history?slug=&name=.
func (h *Handler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	history := h.historyOr400(w)
	if history == nil {
		return
	}
	slug := casefolio.Slugify(r.URL.Query().Get("slug"))
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if slug == "" || name == "" {
		writeError(w, http.StatusBadRequest, "Missing slug or name")
		return
	}
	if !safeVersionName(name) {
		writeError(w, http.StatusBadRequest, "Invalid name")
		return
	}
	if err := history.DeleteVersion(slug, name); err != nil {
		if casefolio.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("version delete failed", "slug", slug, "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ExportBackup handles GET /api/admin/backup.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := h.backup.ExportAll(r.Context())
	if err != nil {
		h.logger.Error("backup export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, BackupResponse{
		OK:      true,
		Cases:   backup.Cases,
		History: backup.History,
		Assets:  backup.Assets,
	})
}

// ImportBackup handles POST /api/admin/backup.
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if len(req.Cases) == 0 {
		writeError(w, http.StatusBadRequest, "Missing cases to import")
		return
	}
	imported, err := h.backup.ImportAll(r.Context(), req.Cases)
	if err != nil {
		h.logger.Error("backup import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{OK: true, Imported: imported})
}

// Snapshot handles POST /api/admin/backup/snapshot.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	history := h.historyOr400(w)
	if history == nil {
		return
	}
	result, err := history.SnapshotAll()
	if err != nil {
		h.logger.Error("snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, SnapshotResponse{OK: true, Snapshot: result.Timestamp, Files: result.Files})
}
