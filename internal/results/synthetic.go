package results

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// WindowStep is the time between two consecutive processed windows.
const WindowStep = time.Second

// Synthetic produces plausible processed results for demos and seeding.
// Fatigue ramps up over a session and force drops with it.
type Synthetic struct {
	faker *gofakeit.Faker
}

func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		faker: gofakeit.New(seed),
	}
}

func (s *Synthetic) SessionID() string {
	return fmt.Sprintf("session_T%d", s.faker.Number(1, 999))
}

// Session returns windows results for one session, starting at start.
func (s *Synthetic) Session(sessionID string, windows int, start time.Time) []Result {
	out := make([]Result, 0, windows)
	for i := 0; i < windows; i++ {
		progress := 0.0
		if windows > 1 {
			progress = float64(i) / float64(windows-1)
		}

		fatigue := clamp01(0.1 + 0.8*progress + s.faker.Float64Range(-0.05, 0.05))
		force := s.faker.Float64Range(550, 700) * (1 - 0.4*fatigue)
		velocity := s.faker.Float64Range(0.5, 2.0)

		out = append(out, Result{
			ID:               uuid.NewString(),
			SessionID:        sessionID,
			Timestamp:        start.Add(time.Duration(i) * WindowStep).UTC().Truncate(time.Second),
			MuscleFatigue:    fatigue,
			MuscleActivation: s.faker.Float64Range(0.2, 0.95),
			Force:            force,
			Velocity:         velocity,
			PowerOutput:      force * velocity,
			FiringRate:       s.maybe(8, 30),
			Intensity:        s.maybe(0.2, 1),
			WorkRatio:        s.maybe(0.1, 2),
		})
	}
	return out
}

// maybe leaves roughly one in ten values uncomputed.
func (s *Synthetic) maybe(lo, hi float64) *float64 {
	if s.faker.Number(1, 10) == 1 {
		return nil
	}
	v := s.faker.Float64Range(lo, hi)
	return &v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
