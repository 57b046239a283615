package bench

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Metrics aggregates shot results across workers.
type Metrics struct {
	mu sync.RWMutex

	total   atomic.Int64
	success atomic.Int64
	errors  atomic.Int64

	// Latency histogram (in microseconds for precision)
	histogram *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

// NewMetrics creates a new Metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		// Histogram: 1us to 60s range, 3 significant digits
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Start marks the beginning of the run
func (m *Metrics) Start() {
	m.startTime = time.Now()
}

// Stop marks the end of the run
func (m *Metrics) Stop() {
	m.endTime = time.Now()
}

// Record records one completed shot. ok means the exchange came back with a
// 2xx status.
func (m *Metrics) Record(duration time.Duration, ok bool) {
	m.total.Add(1)
	if ok {
		m.success.Add(1)
	} else {
		m.errors.Add(1)
	}

	latencyUs := duration.Microseconds()
	if latencyUs < 1 {
		latencyUs = 1
	}
	if latencyUs > 60_000_000 {
		latencyUs = 60_000_000
	}

	m.mu.Lock()
	_ = m.histogram.RecordValue(latencyUs)
	m.mu.Unlock()
}

// Report summarizes a finished run.
type Report struct {
	Duration time.Duration
	Total    int64
	Success  int64
	Errors   int64

	RPS       float64
	ErrorRate float64

	P50  time.Duration
	P95  time.Duration
	P99  time.Duration
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// Report builds the summary of everything recorded so far.
func (m *Metrics) Report() *Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	duration := m.endTime.Sub(m.startTime)
	if m.endTime.IsZero() {
		duration = time.Since(m.startTime)
	}

	total := m.total.Load()
	errors := m.errors.Load()

	rps := float64(0)
	if duration.Seconds() > 0 {
		rps = float64(total) / duration.Seconds()
	}

	errorRate := float64(0)
	if total > 0 {
		errorRate = float64(errors) / float64(total)
	}

	return &Report{
		Duration:  duration,
		Total:     total,
		Success:   m.success.Load(),
		Errors:    errors,
		RPS:       rps,
		ErrorRate: errorRate,
		P50:       time.Duration(m.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:       time.Duration(m.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:       time.Duration(m.histogram.ValueAtQuantile(99)) * time.Microsecond,
		Min:       time.Duration(m.histogram.Min()) * time.Microsecond,
		Max:       time.Duration(m.histogram.Max()) * time.Microsecond,
		Mean:      time.Duration(m.histogram.Mean()) * time.Microsecond,
	}
}
