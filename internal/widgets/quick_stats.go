package widgets

import "github.com/2beens/vitaly/internal/session"

type QuickStat struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Subtext string `json:"subtext"`
	Icon    string `json:"icon"`
	// Zone is set on the "Current Zone" card only.
	Zone *Zone `json:"zone,omitempty"`
}

// QuickStats builds the four header cards. Snapshot-derived numbers fall back
// to placeholders; the estimated time comes from the effort generator and is always present.
func QuickStats(s *session.Snapshot, estimatedTime float64) []QuickStat {
	zone := SnapshotZone(s)

	zoneSubtext := "--% MVC"
	if s != nil {
		zoneSubtext = ActivationPercent(s) + " MVC"
	}

	return []QuickStat{
		{
			Title:   "Muscle Activation",
			Value:   ActivationPercent(s),
			Subtext: "MVC",
			Icon:    "fa-bolt",
		},
		{
			Title:   "Fatigue Score",
			Value:   FatigueScore(s),
			Subtext: "points",
			Icon:    "fa-battery-half",
		},
		{
			Title:   "Current Zone",
			Value:   zone.Label,
			Subtext: zoneSubtext,
			Icon:    "fa-signal",
			Zone:    &zone,
		},
		{
			Title:   "Est. Time to Peak",
			Value:   WholeNumber(estimatedTime),
			Subtext: "min",
			Icon:    "fa-clock",
		},
	}
}

type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func CoachInsights() []Insight {
	return []Insight{
		{Title: "Perfect Form", Description: "Your squat form has improved by 15%", Icon: "fa-medal"},
		{Title: "Recovery Needed", Description: "High fatigue detected in left quadriceps", Icon: "fa-triangle-exclamation"},
		{Title: "Gait Improvement", Description: "Stride symmetry increased by 8%", Icon: "fa-person-walking"},
	}
}
