package casefolio

import (
	"bytes"
	"encoding/json"
	"path"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Case study categories. A record may carry several; the legacy singular
// `category` field mirrors the first entry of `categories`.
const (
	CategoryInterior = "interior"
	CategoryGraphic  = "graphic"
	CategoryMotion   = "motion"
)

// Channels holds the named publish destinations for a case study.
type Channels struct {
	Blog      bool `json:"blog,omitempty"`
	Behance   bool `json:"behance,omitempty"`
	LinkedIn  bool `json:"linkedin,omitempty"`
	Facebook  bool `json:"facebook,omitempty"`
	Instagram bool `json:"instagram,omitempty"`
}

// Any reports whether at least one channel is enabled.
func (c Channels) Any() bool {
	return c.Blog || c.Behance || c.LinkedIn || c.Facebook || c.Instagram
}

// SEO carries the optional search/social metadata of a case study.
// Checklist is a set of boolean content-quality flags maintained by the
// admin panel (e.g. "hasAltTexts", "descriptionLength").
type SEO struct {
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	Headings      []string        `json:"headings,omitempty"`
	Keywords      []string        `json:"keywords,omitempty"`
	Canonical     string          `json:"canonical,omitempty"`
	OGTitle       string          `json:"ogTitle,omitempty"`
	OGDescription string          `json:"ogDescription,omitempty"`
	OGImage       string          `json:"ogImage,omitempty"`
	TwitterCard   string          `json:"twitterCard,omitempty"`
	Index         *bool           `json:"index,omitempty"`
	Checklist     map[string]bool `json:"checklist,omitempty"`
}

// CaseRecord is the JSON document describing one portfolio project.
// The slug is the primary identifier and the storage key.
type CaseRecord struct {
	Slug          string            `json:"slug"`
	Title         string            `json:"title"`
	Client        string            `json:"client,omitempty"`
	Year          int               `json:"year"`
	Tags          []string          `json:"tags,omitempty"`
	Category      string            `json:"category,omitempty"`
	Categories    []string          `json:"categories,omitempty"`
	Cover         string            `json:"cover,omitempty"`
	Blueprint     string            `json:"blueprint,omitempty"`
	Framework     string            `json:"framework,omitempty"`
	Finish        string            `json:"finish,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Video         string            `json:"video,omitempty"`
	ImagesAlt     map[string]string `json:"imagesAlt,omitempty"`
	SEO           *SEO              `json:"seo,omitempty"`
	Channels      *Channels         `json:"channels,omitempty"`
	SocialCaption string            `json:"socialCaption,omitempty"`
}

// Normalize canonicalizes the record in place: the slug is slugified
// (falling back to fallbackSlug when absent), the title trimmed, and
// categories lowercased and de-duplicated with `category` kept as a
// mirror of the first entry.
func (r *CaseRecord) Normalize(fallbackSlug string) {
	if r.Slug != "" {
		r.Slug = Slugify(r.Slug)
	} else {
		r.Slug = Slugify(fallbackSlug)
	}
	r.Title = strings.TrimSpace(r.Title)

	cats := r.Categories
	if len(cats) == 0 && r.Category != "" {
		cats = []string{r.Category}
	}
	seen := make(map[string]bool, len(cats))
	normalized := cats[:0]
	for _, c := range cats {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		normalized = append(normalized, c)
	}
	r.Categories = normalized
	if len(normalized) > 0 {
		r.Category = normalized[0]
	} else {
		r.Category = ""
	}
}

// Validate checks the record before any storage I/O is attempted.
func (r *CaseRecord) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Slug, validation.Required, validation.Match(SlugPattern)),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Year, validation.Min(0)),
		validation.Field(&r.Categories, validation.Each(validation.In(
			CategoryInterior, CategoryGraphic, CategoryMotion,
		))),
	)
	if err != nil {
		return WithContext(ErrInvalidRecord, map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}

// MarshalRecord serializes a record the way both backends persist it:
// pretty-printed with 2-space indentation.
func MarshalRecord(r *CaseRecord) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// IndentJSON normalizes an arbitrary JSON body to the persisted format.
func IndentJSON(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// AssetType classifies an asset by its filename extension.
type AssetType string

const (
	AssetImage AssetType = "image"
	AssetVideo AssetType = "video"
	AssetOther AssetType = "other"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".svg": true, ".avif": true,
}

var videoExts = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true, ".ogg": true, ".m4v": true,
}

// ClassifyAsset derives the asset type from the filename extension.
func ClassifyAsset(name string) AssetType {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case imageExts[ext]:
		return AssetImage
	case videoExts[ext]:
		return AssetVideo
	default:
		return AssetOther
	}
}

// Asset describes one binary file owned by a case record's slug.
// Size is in bytes; Mtime is milliseconds since the Unix epoch and may be
// zero when the backend does not report modification times.
type Asset struct {
	Name  string    `json:"name"`
	Size  int64     `json:"size"`
	Mtime int64     `json:"mtime,omitempty"`
	Type  AssetType `json:"type"`
	URL   string    `json:"url,omitempty"`
}
