package dashboard

import (
	"errors"
	"fmt"

	"github.com/2beens/vitaly/internal/chat"
	"github.com/2beens/vitaly/internal/widgets"
)

const Title = "Vitaly"

const (
	WidgetEMG             = "emg"
	WidgetLoadCorrelation = "load_correlation"
	WidgetFatigueHistory  = "fatigue_history"
	WidgetEndurance       = "endurance"
	WidgetGait            = "gait"
	WidgetForceVelocity   = "force_velocity"
	WidgetForceTrend      = "force_trend"
	WidgetMVC             = "mvc"
)

var WidgetNames = []string{
	WidgetEMG,
	WidgetLoadCorrelation,
	WidgetFatigueHistory,
	WidgetEndurance,
	WidgetGait,
	WidgetForceVelocity,
	WidgetForceTrend,
	WidgetMVC,
}

var ErrUnknownWidget = errors.New("unknown widget")

type TopBar struct {
	Title    string `json:"title"`
	Clock    string `json:"clock"`
	Session  string `json:"session"`
	DarkMode bool   `json:"dark_mode"`
}

type Readouts struct {
	Force    string `json:"force"`
	Velocity string `json:"velocity"`
	Power    string `json:"power"`
	MVC      string `json:"mvc"`
	Fatigue  string `json:"fatigue"`
}

type TabItem struct {
	Name     Tab  `json:"name"`
	Selected bool `json:"selected"`
}

type Page struct {
	Authenticated     bool                           `json:"authenticated"`
	TopBar            TopBar                         `json:"top_bar"`
	QuickStats        []widgets.QuickStat            `json:"quick_stats"`
	Readouts          Readouts                       `json:"readouts"`
	ForceVelocityKind string                         `json:"force_velocity_kind"`
	Widgets           map[string]widgets.ChartOption `json:"widgets"`
	Insights          []widgets.Insight              `json:"insights"`
	Tabs              []TabItem                      `json:"tabs"`
	Chat              []chat.Message                 `json:"chat"`
}

// Widget renders a single chart option by name.
func (v *View) Widget(name string) (widgets.ChartOption, error) {
	switch name {
	case WidgetEMG:
		return widgets.EMGChart(v.bank.EMG.Samples()), nil
	case WidgetLoadCorrelation:
		return widgets.CorrelationChart(v.bank.Correlation.Series()), nil
	case WidgetFatigueHistory:
		return widgets.FatigueHistoryChart(v.bank.Effort.State().FatigueHistory), nil
	case WidgetEndurance:
		return widgets.EnduranceChart(), nil
	case WidgetGait:
		return widgets.GaitRadarChart(), nil
	case WidgetForceVelocity:
		return widgets.ForceVelocityChart(widgets.ForceVelocityPlot(v.store.Latest())), nil
	case WidgetForceTrend:
		return widgets.ForceTrendChart(v.bank.ForceTrend), nil
	case WidgetMVC:
		return widgets.MVCGauge(v.bank.Effort.State().MVC), nil
	default:
		return widgets.ChartOption{}, fmt.Errorf("%w: %s", ErrUnknownWidget, name)
	}
}

// Page renders the whole view from one read of each data source.
func (v *View) Page() Page {
	snapshot := v.store.Latest()
	effort := v.bank.Effort.State()
	selected := v.Tab()

	tabs := make([]TabItem, len(Tabs))
	for i, t := range Tabs {
		tabs[i] = TabItem{Name: t, Selected: t == selected}
	}

	ws := make(map[string]widgets.ChartOption, len(WidgetNames))
	for _, name := range WidgetNames {
		opt, err := v.Widget(name)
		if err != nil {
			// every name in WidgetNames is known
			panic(err)
		}
		ws[name] = opt
	}

	return Page{
		Authenticated: v.gate.IsAuthenticated(),
		TopBar: TopBar{
			Title:    Title,
			Clock:    v.scheduler.Now().Format("15:04"),
			Session:  widgets.SessionLabel(snapshot),
			DarkMode: v.DarkMode(),
		},
		QuickStats: widgets.QuickStats(snapshot, effort.EstimatedTimeToPeak),
		Readouts: Readouts{
			Force:    widgets.ForceValue(snapshot),
			Velocity: widgets.VelocityValue(snapshot),
			Power:    widgets.PowerValue(snapshot),
			MVC:      widgets.WholeNumber(effort.MVC),
			Fatigue:  widgets.WholeNumber(effort.FatigueScore),
		},
		ForceVelocityKind: widgets.ForceVelocityPlot(snapshot).Kind(),
		Widgets:           ws,
		Insights:          widgets.CoachInsights(),
		Tabs:              tabs,
		Chat:              v.chat.Messages(),
	}
}
