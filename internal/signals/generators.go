package signals

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/2beens/vitaly/internal/clock"
	"github.com/2beens/vitaly/internal/window"
)

const (
	EMGWindowLen = 20
	EMGPeriod    = time.Second

	CorrelationWindowLen = 10
	CorrelationPeriod    = time.Second

	EffortPeriod         = 3 * time.Second
	FatigueHistoryLen    = 20
	InitialMVC           = 87.0
	InitialFatigueLevel  = 60.0
	InitialFatigueScore  = 32.0
	InitialEstimatedTime = 25.0

	ForceTrendLen = 20
)

// Generator owns its series and is the only writer to them.
type Generator interface {
	Name() string
	Period() time.Duration
	Tick()
}

// TaskFor wraps a generator tick into a schedulable task.
func TaskFor(g Generator) clock.Task {
	return clock.Task{
		Name:   g.Name(),
		Period: g.Period(),
		Run:    func(_ context.Context) { g.Tick() },
	}
}

var (
	_ Generator = (*EMG)(nil)
	_ Generator = (*LoadCorrelation)(nil)
	_ Generator = (*Effort)(nil)
)

// EMG emits one uniform [0, 100) amplitude sample per tick.
type EMG struct {
	mutex  sync.RWMutex
	src    Source
	window *window.Rolling
}

func NewEMG(src Source) *EMG {
	return &EMG{
		src:    src,
		window: window.New(EMGWindowLen, 0),
	}
}

func (g *EMG) Name() string          { return "emg" }
func (g *EMG) Period() time.Duration { return EMGPeriod }

func (g *EMG) Task() clock.Task { return TaskFor(g) }

func (g *EMG) Tick() {
	sample := Uniform(g.src, 0, 100)

	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.window.Push(sample)
}

func (g *EMG) Samples() []float64 {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.window.Values()
}

type Correlation struct {
	External []float64 `json:"external"`
	Internal []float64 `json:"internal"`
}

// LoadCorrelation pushes independent external and internal load samples in lockstep.
type LoadCorrelation struct {
	mutex    sync.RWMutex
	src      Source
	external *window.Rolling
	internal *window.Rolling
}

func NewLoadCorrelation(src Source) *LoadCorrelation {
	return &LoadCorrelation{
		src:      src,
		external: window.New(CorrelationWindowLen, 0),
		internal: window.New(CorrelationWindowLen, 0),
	}
}

func (g *LoadCorrelation) Name() string          { return "load_correlation" }
func (g *LoadCorrelation) Period() time.Duration { return CorrelationPeriod }

func (g *LoadCorrelation) Task() clock.Task { return TaskFor(g) }

func (g *LoadCorrelation) Tick() {
	external := Uniform(g.src, 0, 100)
	internal := Uniform(g.src, 0, 100)

	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.external.Push(external)
	g.internal.Push(internal)
}

func (g *LoadCorrelation) Series() Correlation {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return Correlation{
		External: g.external.Values(),
		Internal: g.internal.Values(),
	}
}

type EffortState struct {
	MVC                 float64   `json:"mvc"`
	FatigueHistory      []float64 `json:"fatigue_history"`
	FatigueScore        float64   `json:"fatigue_score"`
	EstimatedTimeToPeak float64   `json:"estimated_time_to_peak"`
}

// Effort drifts MVC, fatigue and the estimated time to peak.
// The fatigue score and the fatigue history are drawn independently.
type Effort struct {
	mutex          sync.RWMutex
	src            Source
	mvc            float64
	fatigueHistory *window.Rolling
	fatigueScore   float64
	estimatedTime  float64
}

func NewEffort(src Source) *Effort {
	return &Effort{
		src:            src,
		mvc:            InitialMVC,
		fatigueHistory: window.New(FatigueHistoryLen, InitialFatigueLevel),
		fatigueScore:   InitialFatigueScore,
		estimatedTime:  InitialEstimatedTime,
	}
}

func (g *Effort) Name() string          { return "effort" }
func (g *Effort) Period() time.Duration { return EffortPeriod }

func (g *Effort) Task() clock.Task { return TaskFor(g) }

func (g *Effort) Tick() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.mvc = Clamp(Drift(g.mvc, g.src, 10), 0, 100)
	g.fatigueHistory.Push(Clamp(Drift(g.fatigueHistory.Last(), g.src, 5), 0, 100))
	g.fatigueScore = Clamp(Drift(g.fatigueScore, g.src, 5), 0, 100)
	g.estimatedTime = math.Max(1, Drift(g.estimatedTime, g.src, 2))
}

func (g *Effort) State() EffortState {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return EffortState{
		MVC:                 g.mvc,
		FatigueHistory:      g.fatigueHistory.Values(),
		FatigueScore:        g.fatigueScore,
		EstimatedTimeToPeak: g.estimatedTime,
	}
}

// ForceTrend is drawn once at mount and never updated.
type ForceTrend struct {
	Current  []float64 `json:"current"`
	Previous []float64 `json:"previous"`
}

func NewForceTrend(src Source) ForceTrend {
	ft := ForceTrend{
		Current:  make([]float64, ForceTrendLen),
		Previous: make([]float64, ForceTrendLen),
	}
	for i := 0; i < ForceTrendLen; i++ {
		ft.Current[i] = Uniform(src, 700, 900)
		ft.Previous[i] = Uniform(src, 650, 850)
	}
	return ft
}
