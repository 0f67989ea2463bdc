package casefolio

import (
	"context"
	"encoding/json"
)

// Adapter is the capability set every storage backend implements.
// Records and assets are two independent namespaces linked only by slug
// equality; there is no transaction spanning both.
//
// Read semantics: GetCase returns (nil, nil) for a missing record — absence
// is not an error. DeleteCase and DeleteAsset are idempotent.
type Adapter interface {
	// JSON case records
	GetCase(ctx context.Context, slug string) (json.RawMessage, error)
	PutCase(ctx context.Context, slug string, data json.RawMessage) error
	DeleteCase(ctx context.Context, slug string) error
	ListCaseSlugs(ctx context.Context) ([]string, error)

	// Assets for a case. The asset namespace outlives records: deleting a
	// record leaves its assets behind, so ListAssetSlugs can return slugs
	// with no live record.
	ListAssetSlugs(ctx context.Context) ([]string, error)
	ListAssets(ctx context.Context, slug string) ([]Asset, error)
	PutAsset(ctx context.Context, slug, name string, data []byte, contentType string) (url string, err error)
	DeleteAsset(ctx context.Context, slug, name string) error

	// AssetURL computes a resolvable public URL from identifiers alone.
	// Pure, no I/O.
	AssetURL(slug, name string) string
}

// AssetMover is the optional capability of relocating a whole asset folder
// when a slug is renamed. Callers treat failures as soft: the record write
// stays authoritative and a failed move only degrades asset resolution.
type AssetMover interface {
	MoveAssetsFolder(ctx context.Context, fromSlug, toSlug string) error
}

// GetRecord fetches and decodes a case record through an adapter, applying
// the same normalization as the public site's read path. Returns (nil, nil)
// when the record does not exist or its body cannot be decoded.
func GetRecord(ctx context.Context, a Adapter, slug string) (*CaseRecord, error) {
	raw, err := a.GetCase(ctx, slug)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var rec CaseRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil
	}
	rec.Normalize(slug)
	return &rec, nil
}

// PutRecord serializes and stores a case record through an adapter.
func PutRecord(ctx context.Context, a Adapter, slug string, rec *CaseRecord) error {
	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}
	return a.PutCase(ctx, slug, data)
}
