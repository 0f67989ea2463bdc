package casefolio

import (
	"context"
	"sync"
)

// OpenAdapter constructs the adapter selected by cfg.Provider.
func OpenAdapter(ctx context.Context, cfg Config) (Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderS3:
		return NewS3Adapter(ctx, cfg)
	default:
		return NewLocalAdapter(cfg.RecordsDir, cfg.AssetsDir), nil
	}
}

var (
	defaultAdapterOnce sync.Once
	defaultAdapter     Adapter
	defaultAdapterErr  error
)

// DefaultAdapter returns the process-wide adapter, constructed lazily from
// the environment on first call and cached for the process lifetime.
// Configuration changes after first construction have no effect.
func DefaultAdapter(ctx context.Context) (Adapter, error) {
	defaultAdapterOnce.Do(func() {
		defaultAdapter, defaultAdapterErr = OpenAdapter(ctx, LoadConfig())
	})
	return defaultAdapter, defaultAdapterErr
}
