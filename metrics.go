package faqrag

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// It also satisfies chat.Metrics.
type MetricsCollector interface {
	// RecordEmbed is called after each query embedding.
	RecordEmbed(duration time.Duration, err error)

	// RecordRetrieve is called after each retrieval with the number of
	// records returned.
	RecordRetrieve(duration time.Duration, results int, err error)

	// RecordGenerate is called after each call to the answer generator.
	RecordGenerate(duration time.Duration, err error)

	// RecordBuild is called after each build with the number of records.
	RecordBuild(count int, duration time.Duration, err error)

	// RecordLoad is called after each load or reload of the committed build.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordEmbed(time.Duration, error)         {}
func (NoopMetricsCollector) RecordRetrieve(time.Duration, int, error) {}
func (NoopMetricsCollector) RecordGenerate(time.Duration, error)      {}
func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	EmbedCount         atomic.Int64
	EmbedErrors        atomic.Int64
	EmbedTotalNanos    atomic.Int64
	RetrieveCount      atomic.Int64
	RetrieveErrors     atomic.Int64
	RetrieveEmpty      atomic.Int64
	RetrieveTotalNanos atomic.Int64
	GenerateCount      atomic.Int64
	GenerateErrors     atomic.Int64
	GenerateTotalNanos atomic.Int64
	BuildCount         atomic.Int64
	BuildErrors        atomic.Int64
	BuildRecords       atomic.Int64
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
}

// RecordEmbed implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmbed(duration time.Duration, err error) {
	b.EmbedCount.Add(1)
	b.EmbedTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.EmbedErrors.Add(1)
	}
}

// RecordRetrieve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetrieve(duration time.Duration, results int, err error) {
	b.RetrieveCount.Add(1)
	b.RetrieveTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.RetrieveErrors.Add(1)
	case results == 0:
		b.RetrieveEmpty.Add(1)
	}
}

// RecordGenerate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGenerate(duration time.Duration, err error) {
	b.GenerateCount.Add(1)
	b.GenerateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GenerateErrors.Add(1)
	}
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(count int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildRecords.Add(int64(count))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		EmbedCount:       b.EmbedCount.Load(),
		EmbedErrors:      b.EmbedErrors.Load(),
		EmbedAvgNanos:    avg(b.EmbedTotalNanos.Load(), b.EmbedCount.Load()),
		RetrieveCount:    b.RetrieveCount.Load(),
		RetrieveErrors:   b.RetrieveErrors.Load(),
		RetrieveEmpty:    b.RetrieveEmpty.Load(),
		RetrieveAvgNanos: avg(b.RetrieveTotalNanos.Load(), b.RetrieveCount.Load()),
		GenerateCount:    b.GenerateCount.Load(),
		GenerateErrors:   b.GenerateErrors.Load(),
		GenerateAvgNanos: avg(b.GenerateTotalNanos.Load(), b.GenerateCount.Load()),
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		BuildRecords:     b.BuildRecords.Load(),
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	EmbedCount       int64
	EmbedErrors      int64
	EmbedAvgNanos    int64
	RetrieveCount    int64
	RetrieveErrors   int64
	RetrieveEmpty    int64
	RetrieveAvgNanos int64
	GenerateCount    int64
	GenerateErrors   int64
	GenerateAvgNanos int64
	BuildCount       int64
	BuildErrors      int64
	BuildRecords     int64
	LoadCount        int64
	LoadErrors       int64
}
