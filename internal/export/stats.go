package export

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
}

// SinkStats aggregates recent export durations for one sink.
type SinkStats struct {
	Count int     `json:"count"`
	MinMs float64 `json:"min_ms"`
	MaxMs float64 `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// Stats keeps export durations per sink within a rolling window.
// A nil *Stats records nothing.
type Stats struct {
	mu      sync.Mutex
	samples map[string][]sample
	window  time.Duration
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		samples: make(map[string][]sample),
		window:  window,
	}
}

// Record adds one export duration for sink.
func (s *Stats) Record(sink string, d time.Duration) {
	if s == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[sink] = append(prune(s.samples[sink], now.Add(-s.window)), sample{at: now, duration: d})
}

// Snapshot aggregates the samples still inside the window, keyed by sink.
func (s *Stats) Snapshot() map[string]SinkStats {
	out := make(map[string]SinkStats)
	if s == nil {
		return out
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for sink, samples := range s.samples {
		samples = prune(samples, now.Add(-s.window))
		s.samples[sink] = samples
		if len(samples) == 0 {
			continue
		}
		out[sink] = aggregate(samples)
	}
	return out
}

func prune(samples []sample, cutoff time.Time) []sample {
	kept := samples[:0]
	for _, sm := range samples {
		if !sm.at.Before(cutoff) {
			kept = append(kept, sm)
		}
	}
	return kept
}

func aggregate(samples []sample) SinkStats {
	ms := make([]float64, len(samples))
	var sum float64
	for i, sm := range samples {
		ms[i] = float64(sm.duration) / float64(time.Millisecond)
		sum += ms[i]
	}
	slices.Sort(ms)
	return SinkStats{
		Count: len(ms),
		MinMs: ms[0],
		MaxMs: ms[len(ms)-1],
		AvgMs: sum / float64(len(ms)),
		P50Ms: percentile(ms, 50),
		P95Ms: percentile(ms, 95),
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := float64(len(sorted)-1) * pct / 100
	lo := int(idx)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*w
}
