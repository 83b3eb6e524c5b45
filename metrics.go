package hexvec

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; see
// metrics/prometheus for a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsertGroup is called after each InsertGroup/InsertEntry.
	// size is the number of members, err is nil if the group was stored.
	RecordInsertGroup(size int, duration time.Duration, err error)

	// RecordRemoveGroup is called after each RemoveGroup.
	// removed is the number of members actually removed.
	RecordRemoveGroup(removed int, duration time.Duration, err error)

	// RecordUnlink is called after each UnlinkEntry.
	RecordUnlink(duration time.Duration, err error)

	// RecordLookup is called after each GetEntry/GetGroup.
	RecordLookup(duration time.Duration, found bool)

	// RecordSave is called after each session save.
	RecordSave(vectors int, bytes int64, duration time.Duration, err error)

	// RecordLoad is called after each session load.
	RecordLoad(vectors int, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsertGroup(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRemoveGroup(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordUnlink(time.Duration, error)           {}
func (NoopMetricsCollector) RecordLookup(time.Duration, bool)            {}
func (NoopMetricsCollector) RecordSave(int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordLoad(int, int64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertGroupCount  atomic.Int64
	InsertGroupErrors atomic.Int64
	InsertedMembers   atomic.Int64
	InsertTotalNanos  atomic.Int64
	RemoveGroupCount  atomic.Int64
	RemoveGroupErrors atomic.Int64
	RemovedMembers    atomic.Int64
	UnlinkCount       atomic.Int64
	UnlinkErrors      atomic.Int64
	LookupCount       atomic.Int64
	LookupMisses      atomic.Int64
	LookupTotalNanos  atomic.Int64
	SaveCount         atomic.Int64
	SaveErrors        atomic.Int64
	SavedBytes        atomic.Int64
	LoadCount         atomic.Int64
	LoadErrors        atomic.Int64
	LoadedBytes       atomic.Int64
}

// RecordInsertGroup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsertGroup(size int, duration time.Duration, err error) {
	b.InsertGroupCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertGroupErrors.Add(1)
		return
	}
	b.InsertedMembers.Add(int64(size))
}

// RecordRemoveGroup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRemoveGroup(removed int, _ time.Duration, err error) {
	b.RemoveGroupCount.Add(1)
	if err != nil {
		b.RemoveGroupErrors.Add(1)
		return
	}
	b.RemovedMembers.Add(int64(removed))
}

// RecordUnlink implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUnlink(_ time.Duration, err error) {
	b.UnlinkCount.Add(1)
	if err != nil {
		b.UnlinkErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(duration time.Duration, found bool) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.LookupMisses.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(_ int, bytes int64, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SavedBytes.Add(bytes)
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ int, bytes int64, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertGroupCount:  b.InsertGroupCount.Load(),
		InsertGroupErrors: b.InsertGroupErrors.Load(),
		InsertedMembers:   b.InsertedMembers.Load(),
		InsertAvgNanos:    avg(b.InsertTotalNanos.Load(), b.InsertGroupCount.Load()),
		RemoveGroupCount:  b.RemoveGroupCount.Load(),
		RemoveGroupErrors: b.RemoveGroupErrors.Load(),
		RemovedMembers:    b.RemovedMembers.Load(),
		UnlinkCount:       b.UnlinkCount.Load(),
		UnlinkErrors:      b.UnlinkErrors.Load(),
		LookupCount:       b.LookupCount.Load(),
		LookupMisses:      b.LookupMisses.Load(),
		LookupAvgNanos:    avg(b.LookupTotalNanos.Load(), b.LookupCount.Load()),
		SaveCount:         b.SaveCount.Load(),
		SaveErrors:        b.SaveErrors.Load(),
		SavedBytes:        b.SavedBytes.Load(),
		LoadCount:         b.LoadCount.Load(),
		LoadErrors:        b.LoadErrors.Load(),
		LoadedBytes:       b.LoadedBytes.Load(),
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
	InsertGroupCount  int64
	InsertGroupErrors int64
	InsertedMembers   int64
	InsertAvgNanos    int64
	RemoveGroupCount  int64
	RemoveGroupErrors int64
	RemovedMembers    int64
	UnlinkCount       int64
	UnlinkErrors      int64
	LookupCount       int64
	LookupMisses      int64
	LookupAvgNanos    int64
	SaveCount         int64
	SaveErrors        int64
	SavedBytes        int64
	LoadCount         int64
	LoadErrors        int64
	LoadedBytes       int64
}
