package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics()
	m.Start()

	for i := 0; i < 90; i++ {
		m.Record(5*time.Millisecond, true)
	}
	for i := 0; i < 10; i++ {
		m.Record(50*time.Millisecond, false)
	}

	m.Stop()
	report := m.Report()

	assert.Equal(t, int64(100), report.Total)
	assert.Equal(t, int64(90), report.Success)
	assert.Equal(t, int64(10), report.Errors)
	assert.InDelta(t, 0.1, report.ErrorRate, 0.0001)
	assert.Greater(t, report.RPS, float64(0))
}

func TestMetrics_Quantiles(t *testing.T) {
	m := NewMetrics()
	m.Start()

	for i := 1; i <= 100; i++ {
		m.Record(time.Duration(i)*time.Millisecond, true)
	}

	m.Stop()
	report := m.Report()

	assert.LessOrEqual(t, report.P50, report.P95)
	assert.LessOrEqual(t, report.P95, report.P99)
	assert.LessOrEqual(t, report.P99, report.Max)
	// 3 significant digits: p50 lands on ~50ms within histogram precision.
	assert.InDelta(t, 50, report.P50.Milliseconds(), 2)
	assert.InDelta(t, 100, report.Max.Milliseconds(), 2)
}

func TestMetrics_ClampsOutliers(t *testing.T) {
	m := NewMetrics()
	m.Start()

	m.Record(0, true)
	m.Record(5*time.Minute, true)

	m.Stop()
	report := m.Report()

	assert.Equal(t, int64(2), report.Total)
	assert.LessOrEqual(t, report.Max, 61*time.Second)
}
