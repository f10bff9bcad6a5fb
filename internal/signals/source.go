// Package signals produces the decorative real-time series of a dashboard view:
// random EMG amplitude, external/internal load correlation, and the slowly
// drifting effort values (MVC, fatigue, estimated time to peak).
//
// None of these values are measured; they are noise shaped to look alive.
package signals

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// Source yields uniform samples in [0, 1).
type Source interface {
	Float64() float64
}

type lockedSource struct {
	mutex sync.Mutex
	faker *gofakeit.Faker
}

func (s *lockedSource) Float64() float64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.faker.Float64()
}

// NewSource returns a deterministic Source, safe for concurrent use.
func NewSource(seed int64) Source {
	return &lockedSource{faker: gofakeit.New(seed)}
}

func NewTimeSeededSource() Source {
	return NewSource(time.Now().UnixNano())
}

// Uniform draws from [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Drift moves prev by a uniform step in [-spread/2, +spread/2).
func Drift(prev float64, src Source, spread float64) float64 {
	return prev + (src.Float64()-0.5)*spread
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
