package widgets

import "github.com/2beens/vitaly/internal/session"

const (
	ZoneMaxEffort = "Max Effort"
	ZonePower     = "Power"
	ZoneBuild     = "Build"
	ZoneWarmUp    = "Warm-up"
)

type Color struct {
	Text       string `json:"text"`
	Background string `json:"background"`
}

var (
	ColorRed    = Color{Text: "#EF4444", Background: "#FEF2F2"}
	ColorOrange = Color{Text: "#F97316", Background: "#FFF7ED"}
	ColorYellow = Color{Text: "#F59E0B", Background: "#FFFBEB"}
	ColorGreen  = Color{Text: "#10B981", Background: "#ECFDF5"}
)

type Zone struct {
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// ZoneFor maps an activation fraction in [0, 1] to its intensity band.
// Each band includes its lower bound.
func ZoneFor(fraction float64) Zone {
	switch {
	case fraction >= 0.8:
		return Zone{Label: ZoneMaxEffort, Color: ColorRed}
	case fraction >= 0.6:
		return Zone{Label: ZonePower, Color: ColorOrange}
	case fraction >= 0.4:
		return Zone{Label: ZoneBuild, Color: ColorYellow}
	default:
		return Zone{Label: ZoneWarmUp, Color: ColorGreen}
	}
}

// ZoneForPercent maps a 0-100 value, such as MVC, onto the same bands.
func ZoneForPercent(percent float64) Zone {
	return ZoneFor(percent / 100)
}

// SnapshotZone treats a missing snapshot as zero activation.
func SnapshotZone(s *session.Snapshot) Zone {
	if s == nil {
		return ZoneFor(0)
	}
	return ZoneFor(s.MuscleActivation)
}
