package profiler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-world/engine/scene"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-world/engine/profiler"

// Profiler tracks frame rate, memory and per-frame scene statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	logger zerolog.Logger

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	frameDuration metric.Float64Histogram
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger the report is written to.
func WithLogger(logger zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger.With().Str("component", "profiler").Logger()
	}
}

// WithInterval sets how often the report is written.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Parameters:
//   - m: the meter for the frame duration histogram, nil selects the global provider
//   - options: functional options
//
// Returns:
//   - *Profiler: the newly created profiler instance
//   - error: an error if the histogram cannot be created
func NewProfiler(m metric.Meter, options ...ProfilerOption) (*Profiler, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	p := &Profiler{
		logger:         zerolog.Nop(),
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}

	var err error
	p.frameDuration, err = m.Float64Histogram(
		"engine.frame.duration",
		metric.WithDescription("Render frame duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame duration histogram: %w", err)
	}
	return p, nil
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed: FPS, heap usage, allocation
// rate, GC count and pause times, total memory and the frame's scene stats.
//
// Parameters:
//   - frame: how long the frame took
//   - stats: the scene stats of the frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(frame time.Duration, stats scene.Stats) bool {
	p.frameDuration.Record(context.Background(), frame.Seconds())

	p.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	// TotalAlloc only grows, so the delta is the churn since the last report
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info().
		Float64("fps", fps).
		Float64("heapMB", allocMB).
		Float64("allocRateMBs", allocRateMB).
		Uint32("gc", gcCount).
		Uint64("gcLastUs", lastPauseUs).
		Uint64("gcMaxUs", maxPauseUs).
		Float64("sysMB", sysMB).
		Int("rendered", stats.Rendered).
		Int("culled", stats.Culled).
		Int("deferred", stats.Deferred).
		Int("water", stats.Water).
		Msg("profile")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
