// Package results is the telemetry backend behind /api/latest. Processed
// results land in a local sqlite store first, are synced into the central
// postgres table, and the latest central row is served to dashboards.
package results

import (
	"errors"
	"time"

	"github.com/2beens/vitaly/internal/session"
)

// TimestampLayout is the wire and sqlite format of a result timestamp.
const TimestampLayout = "2006-01-02T15:04:05"

var ErrNotFound = errors.New("no processed result found")

const (
	StatusWarmUp         = "Warm-up"
	StatusPlateau        = "Plateau"
	StatusOverActivation = "Over-activation"
)

// Result is one processed signal window. FiringRate, Intensity and WorkRatio
// are nil when the processor could not compute them for the window.
type Result struct {
	ID               string
	SessionID        string
	Timestamp        time.Time
	MuscleFatigue    float64
	MuscleActivation float64
	Force            float64
	Velocity         float64
	PowerOutput      float64
	FiringRate       *float64
	Intensity        *float64
	WorkRatio        *float64
	IsSynced         bool
}

type LatestResponse struct {
	SessionID        string   `json:"session_id"`
	Timestamp        string   `json:"timestamp"`
	MuscleFatigue    float64  `json:"muscle_fatigue"`
	MuscleActivation float64  `json:"muscle_activation"`
	Force            float64  `json:"force"`
	Velocity         float64  `json:"velocity"`
	PowerOutput      float64  `json:"power_output"`
	FiringRate       *float64 `json:"firing_rate"`
	Intensity        *float64 `json:"intensity"`
	WorkRatio        *float64 `json:"work_ratio"`
}

func (r Result) Response() LatestResponse {
	return LatestResponse{
		SessionID:        r.SessionID,
		Timestamp:        r.Timestamp.Format(TimestampLayout),
		MuscleFatigue:    r.MuscleFatigue,
		MuscleActivation: r.MuscleActivation,
		Force:            r.Force,
		Velocity:         r.Velocity,
		PowerOutput:      r.PowerOutput,
		FiringRate:       r.FiringRate,
		Intensity:        r.Intensity,
		WorkRatio:        r.WorkRatio,
	}
}

// Snapshot is the subset of the result the dashboard polls for.
func (r Result) Snapshot() session.Snapshot {
	return session.Snapshot{
		SessionID:        r.SessionID,
		Timestamp:        r.Timestamp.Format(TimestampLayout),
		MuscleActivation: r.MuscleActivation,
		MuscleFatigue:    r.MuscleFatigue,
		Force:            r.Force,
		Velocity:         r.Velocity,
		PowerOutput:      r.PowerOutput,
	}
}

// ActivationStatus labels a muscle activation fraction.
func ActivationStatus(activation float64) string {
	switch {
	case activation < 0.4:
		return StatusWarmUp
	case activation < 0.8:
		return StatusPlateau
	default:
		return StatusOverActivation
	}
}
