package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Profiler tracks update rate and memory statistics for the animation
// engine. Hosts attach one to an Animator (WithProfiler) to get periodic
// structured log lines while tuning layer counts and clip complexity.
type Profiler struct {
	updateCount    int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler. The reporting interval defaults to
// 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// SetInterval sets the reporting interval.
//
// Parameters:
//   - interval: how often Tick emits a stats line
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval > 0 {
		p.updateInterval = interval
	}
}

// Tick should be called once per engine update. When the reporting interval
// has elapsed it logs updates/sec, live heap, allocation rate, and GC count.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.updateCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	rate := float64(p.updateCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	slog.Info("animation engine stats",
		"updates_per_sec", rate,
		"heap_mb", allocMB,
		"alloc_rate_mb_per_sec", allocRateMB,
		"gc_count", p.memStats.NumGC,
	)

	p.updateCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
