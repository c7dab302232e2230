package monitor

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"tarun-kavipurapu/p2p-chat/pkg/logger"
)

// Metrics holds message counters for the peer
type Metrics struct {
	// Frames decoded and handed to the inbox
	Received int64
	// Empty frames and failed reads dropped by the listener
	Discarded int64
	// Frames written to a peer
	Sent int64
	// Sends that ended in offline, connect or write failure
	SendFailures int64
	// Bytes written by successful sends
	SentBytes int64
	// Server start time
	ServerStart time.Time
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	Received     int64
	Discarded    int64
	Sent         int64
	SendFailures int64
	SentBytes    int64
	Uptime       time.Duration
}

// Global metrics instance
var Global = &Metrics{
	ServerStart: time.Now(),
}

// RecordReceived counts one delivered frame.
func (m *Metrics) RecordReceived() {
	atomic.AddInt64(&m.Received, 1)
}

// RecordDiscarded counts one dropped frame or failed connection read.
func (m *Metrics) RecordDiscarded() {
	atomic.AddInt64(&m.Discarded, 1)
}

// RecordSent counts a completed send of n bytes.
func (m *Metrics) RecordSent(n int) {
	atomic.AddInt64(&m.Sent, 1)
	atomic.AddInt64(&m.SentBytes, int64(n))
}

// RecordSendFailure counts a failed send.
func (m *Metrics) RecordSendFailure() {
	atomic.AddInt64(&m.SendFailures, 1)
}

// Snapshot reads all counters.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Received:     atomic.LoadInt64(&m.Received),
		Discarded:    atomic.LoadInt64(&m.Discarded),
		Sent:         atomic.LoadInt64(&m.Sent),
		SendFailures: atomic.LoadInt64(&m.SendFailures),
		SentBytes:    atomic.LoadInt64(&m.SentBytes),
		Uptime:       time.Since(m.ServerStart),
	}
}

// LogPeriodic logs runtime metrics at the specified interval until ctx is done
func LogPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			s := Global.Snapshot()

			logger.Sugar.Infof("[Metrics] Goroutines=%d | HeapAlloc=%dMB | Received=%d | Discarded=%d | Sent=%d | SendFailures=%d | Uptime=%s",
				runtime.NumGoroutine(),
				mem.HeapAlloc/1024/1024,
				s.Received,
				s.Discarded,
				s.Sent,
				s.SendFailures,
				s.Uptime.Truncate(time.Second),
			)
		}
	}
}
