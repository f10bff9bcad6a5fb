package main

import (
	"github.com/2beens/vitaly/internal/results"
	"github.com/2beens/vitaly/internal/session"
	"github.com/2beens/vitaly/internal/signals"
	"github.com/2beens/vitaly/internal/widgets"

	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#94A3B8")).
			Padding(0, 1).
			Width(22)

	titleStyle = lipgloss.NewStyle().Bold(true)
	subStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	headStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

func renderCard(stat widgets.QuickStat) string {
	style := cardStyle
	value := lipgloss.NewStyle().Bold(true)
	if stat.Zone != nil {
		style = style.BorderForeground(lipgloss.Color(stat.Zone.Color.Text))
		value = value.Foreground(lipgloss.Color(stat.Zone.Color.Text))
	}
	return style.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(stat.Title),
		value.Render(stat.Value),
		subStyle.Render(stat.Subtext),
	))
}

// renderSnapshot lays the quick stat cards out in a row under a session header.
// No effort generator runs here, so the estimated time is its initial value.
func renderSnapshot(s *session.Snapshot) string {
	stats := widgets.QuickStats(s, signals.InitialEstimatedTime)
	cards := make([]string, 0, len(stats))
	for _, stat := range stats {
		cards = append(cards, renderCard(stat))
	}

	header := widgets.SessionLabel(s)
	if s != nil {
		header += "  " + s.Timestamp + "  " + results.ActivationStatus(s.MuscleActivation)
	}

	readouts := subStyle.Render(
		"force " + widgets.ForceValue(s) + " N   velocity " + widgets.VelocityValue(s) +
			" m/s   power " + widgets.PowerValue(s) + " W",
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headStyle.Render(header),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		readouts,
	)
}
