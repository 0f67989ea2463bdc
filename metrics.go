package casefolio

import "time"

// Metric names emitted by the case service
const (
	MetricCaseSave     = "case.save"
	MetricCaseGet      = "case.get"
	MetricCaseDelete   = "case.delete"
	MetricCaseList     = "case.list"
	MetricAssetUpload  = "asset.upload"
	MetricAssetDelete  = "asset.delete"
	MetricSaveDuration = "case.save.duration"
	MetricSaveError    = "case.save.error"
)

// Metrics provides observability for storage operations
type Metrics interface {
	// Increment increases a counter by 1
	Increment(name string, tags ...string)

	// Timing records a duration
	Timing(name string, duration time.Duration, tags ...string)
}

// NoOpMetrics is a metrics collector that does nothing
type NoOpMetrics struct{}

func (m *NoOpMetrics) Increment(name string, tags ...string)                      {}
func (m *NoOpMetrics) Timing(name string, duration time.Duration, tags ...string) {}

// InMemoryMetrics stores metrics in memory for testing
type InMemoryMetrics struct {
	Counters map[string]int
	Timings  map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		Counters: make(map[string]int),
		Timings:  make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Increment(name string, tags ...string) {
	m.Counters[name]++
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...string) {
	m.Timings[name] = append(m.Timings[name], duration)
}
