package scene

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-world/engine/scene"

// Stats are the counters of one RenderWorld call.
type Stats struct {
	// Rendered counts subgeometry draws, deferred replays included.
	Rendered int
	// Culled counts objects rejected by draw distance and chunks rejected by the frustum.
	Culled int
	// Deferred counts subgeometries queued behind the opaque passes.
	Deferred int
	// Water counts water tiles drawn.
	Water int
}

// CullCategory names the pass that rejected an object or chunk.
type CullCategory string

const (
	CullPedestrian CullCategory = "pedestrian"
	CullInstance   CullCategory = "instance"
	CullVehicle    CullCategory = "vehicle"
	CullWheel      CullCategory = "wheel"
)

var cullCategories = []CullCategory{CullPedestrian, CullInstance, CullVehicle, CullWheel}

// frameCounters accumulates one frame's stats and per-category culls.
type frameCounters struct {
	Stats
	replayed int
	culled   map[CullCategory]int
}

func newFrameCounters() *frameCounters {
	return &frameCounters{culled: make(map[CullCategory]int, len(cullCategories))}
}

func (f *frameCounters) reset() {
	f.Stats = Stats{}
	f.replayed = 0
	clear(f.culled)
}

func (f *frameCounters) cull(category CullCategory) {
	f.Culled++
	f.culled[category]++
}

// sceneMetrics exports frame counters through the global OpenTelemetry meter. Without an SDK
// installed the instruments are no-ops.
type sceneMetrics struct {
	draws    metric.Int64Counter
	culled   metric.Int64Counter
	replayed metric.Int64Counter
	attrs    map[CullCategory]metric.AddOption
}

func newSceneMetrics(m metric.Meter) (*sceneMetrics, error) {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	sm := &sceneMetrics{attrs: make(map[CullCategory]metric.AddOption, len(cullCategories))}
	var err error

	sm.draws, err = m.Int64Counter(
		"scene.draws.submitted",
		metric.WithDescription("Subgeometry draws submitted to the renderer"),
	)
	if err != nil {
		return nil, err
	}
	sm.culled, err = m.Int64Counter(
		"scene.objects.culled",
		metric.WithDescription("Objects and chunks rejected by draw distance or frustum"),
	)
	if err != nil {
		return nil, err
	}
	sm.replayed, err = m.Int64Counter(
		"scene.deferred.replayed",
		metric.WithDescription("Transparent subgeometries replayed after the opaque passes"),
	)
	if err != nil {
		return nil, err
	}
	for _, c := range cullCategories {
		sm.attrs[c] = metric.WithAttributes(attribute.String("category", string(c)))
	}
	return sm, nil
}

// record adds a finished frame's counters to the instruments.
func (m *sceneMetrics) record(ctx context.Context, f *frameCounters) {
	if f.Rendered > 0 {
		m.draws.Add(ctx, int64(f.Rendered))
	}
	if f.replayed > 0 {
		m.replayed.Add(ctx, int64(f.replayed))
	}
	for category, n := range f.culled {
		if n > 0 {
			m.culled.Add(ctx, int64(n), m.attrs[category])
		}
	}
}
