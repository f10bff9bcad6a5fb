// Package widgets maps session snapshots and generator series into the
// view-models the dashboard client draws. Everything here is pure.
package widgets

import (
	"fmt"
	"math"

	"github.com/2beens/vitaly/internal/session"
)

// Placeholder is shown wherever a snapshot-derived number has no snapshot behind it.
const Placeholder = "N/A"

// round rounds halves up, matching the charting client.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ActivationPercent renders muscle activation as a whole percentage, e.g. "85%".
func ActivationPercent(s *session.Snapshot) string {
	if s == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d%%", round(s.MuscleActivation*100))
}

// FatigueScore renders muscle fatigue as whole points out of 100.
func FatigueScore(s *session.Snapshot) string {
	if s == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d", round(s.MuscleFatigue*100))
}

// ForceValue renders force in whole newtons.
func ForceValue(s *session.Snapshot) string {
	if s == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d", round(s.Force))
}

// VelocityValue renders velocity with two decimals.
func VelocityValue(s *session.Snapshot) string {
	if s == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", s.Velocity)
}

// PowerValue renders power output in whole watts.
func PowerValue(s *session.Snapshot) string {
	if s == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d", round(s.PowerOutput))
}

func SessionLabel(s *session.Snapshot) string {
	if s == nil {
		return Placeholder
	}
	return s.SessionID
}

func WholeNumber(v float64) string {
	return fmt.Sprintf("%d", round(v))
}
