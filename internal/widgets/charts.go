package widgets

import (
	"fmt"

	"github.com/2beens/vitaly/internal/signals"
)

// Chart options follow the echarts option layout, so the client can hand them
// to setOption as they are.

type Grid struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

type Axis struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Data     []any    `json:"data,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Interval float64  `json:"interval,omitempty"`
}

type LineStyle struct {
	Color string `json:"color"`
	Width int    `json:"width,omitempty"`
}

type ItemStyle struct {
	Color string `json:"color"`
}

type Series struct {
	Name       string     `json:"name,omitempty"`
	Type       string     `json:"type"`
	Data       any        `json:"data"`
	Smooth     bool       `json:"smooth,omitempty"`
	Symbol     string     `json:"symbol,omitempty"`
	SymbolSize int        `json:"symbolSize,omitempty"`
	LineStyle  *LineStyle `json:"lineStyle,omitempty"`
	ItemStyle  *ItemStyle `json:"itemStyle,omitempty"`
	BarWidth   string     `json:"barWidth,omitempty"`
	Min        *float64   `json:"min,omitempty"`
	Max        *float64   `json:"max,omitempty"`
}

type RadarIndicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

type Radar struct {
	Indicator []RadarIndicator `json:"indicator"`
}

type RadarValue struct {
	Name      string     `json:"name"`
	Value     []float64  `json:"value"`
	LineStyle *LineStyle `json:"lineStyle,omitempty"`
}

type ChartOption struct {
	Grid   *Grid    `json:"grid,omitempty"`
	XAxis  *Axis    `json:"xAxis,omitempty"`
	YAxis  *Axis    `json:"yAxis,omitempty"`
	Radar  *Radar   `json:"radar,omitempty"`
	Series []Series `json:"series"`
}

const (
	colorBlue   = "#3B82F6"
	colorCyan   = "#00A8E8"
	colorPurple = "#A855F7"
	colorOrange = "#F97316"
	colorLight  = "#E5E7EB"
	colorPeach  = "#FB923C"
	colorMint   = "#4ADE80"
)

var (
	EnduranceDays   = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Today"}
	EnduranceScores = []float64{85, 78, 82, 75, 80, 72}

	GaitIndicators = []string{"Stride Time", "Stride Length", "Speed", "Cadence", "Stance Ratio", "Stance Time", "Swing Time"}
	GaitCurrent    = []float64{1.2, 1.3, 0.9, 1.1, 1.0, 0.95, 1.15}
	GaitPrevious   = []float64{1.0, 1.1, 0.8, 0.9, 0.85, 0.8, 1.0}
	GaitBaseline   = []float64{0.8, 0.9, 0.7, 0.8, 0.75, 0.7, 0.85}
)

func ptr(v float64) *float64 {
	return &v
}

func indexAxis(n int) *Axis {
	data := make([]any, n)
	for i := range data {
		data[i] = i
	}
	return &Axis{Type: "category", Data: data}
}

func labelAxis(labels []string) *Axis {
	data := make([]any, len(labels))
	for i, l := range labels {
		data[i] = l
	}
	return &Axis{Type: "category", Data: data}
}

func percentAxis() *Axis {
	return &Axis{Type: "value", Min: ptr(0), Max: ptr(100), Interval: 20}
}

func EMGChart(samples []float64) ChartOption {
	return ChartOption{
		Grid:  &Grid{Top: 8, Right: 8, Bottom: 24, Left: 36},
		XAxis: indexAxis(len(samples)),
		YAxis: &Axis{Type: "value"},
		Series: []Series{{
			Type:      "line",
			Data:      samples,
			Smooth:    true,
			Symbol:    "none",
			LineStyle: &LineStyle{Color: colorCyan},
		}},
	}
}

func CorrelationChart(c signals.Correlation) ChartOption {
	return ChartOption{
		Grid:  &Grid{Top: 8, Right: 8, Bottom: 24, Left: 24},
		XAxis: indexAxis(len(c.External)),
		YAxis: &Axis{Type: "value"},
		Series: []Series{
			{Name: "External Load", Type: "line", Data: c.External, Smooth: true, Symbol: "none", LineStyle: &LineStyle{Color: colorPurple}},
			{Name: "Internal Load", Type: "line", Data: c.Internal, Smooth: true, Symbol: "none", LineStyle: &LineStyle{Color: colorOrange}},
		},
	}
}

func FatigueHistoryChart(history []float64) ChartOption {
	return ChartOption{
		Grid:  &Grid{Top: 20, Right: 20, Bottom: 20, Left: 40},
		XAxis: indexAxis(len(history)),
		YAxis: percentAxis(),
		Series: []Series{{
			Name:       "Fatigue",
			Type:       "line",
			Data:       history,
			Smooth:     true,
			Symbol:     "circle",
			SymbolSize: 8,
			LineStyle:  &LineStyle{Color: colorBlue, Width: 3},
			ItemStyle:  &ItemStyle{Color: colorBlue},
		}},
	}
}

func EnduranceChart() ChartOption {
	return ChartOption{
		Grid:  &Grid{Top: 20, Right: 20, Bottom: 20, Left: 40},
		XAxis: labelAxis(EnduranceDays),
		YAxis: percentAxis(),
		Series: []Series{{
			Type:      "bar",
			Data:      append([]float64(nil), EnduranceScores...),
			BarWidth:  "60%",
			ItemStyle: &ItemStyle{Color: colorBlue},
		}},
	}
}

func GaitRadarChart() ChartOption {
	indicators := make([]RadarIndicator, len(GaitIndicators))
	for i, name := range GaitIndicators {
		indicators[i] = RadarIndicator{Name: name, Max: 1.5}
	}
	return ChartOption{
		Radar: &Radar{Indicator: indicators},
		Series: []Series{{
			Name: "Movement Metrics",
			Type: "radar",
			Data: []RadarValue{
				{Name: "Current", Value: append([]float64(nil), GaitCurrent...), LineStyle: &LineStyle{Color: colorBlue}},
				{Name: "Previous", Value: append([]float64(nil), GaitPrevious...), LineStyle: &LineStyle{Color: colorPeach}},
				{Name: "Baseline", Value: append([]float64(nil), GaitBaseline...), LineStyle: &LineStyle{Color: colorMint}},
			},
		}},
	}
}

func pairs(c Curve) [][2]float64 {
	out := make([][2]float64, len(c))
	for i, p := range c {
		out[i] = [2]float64{p.Velocity, p.Force}
	}
	return out
}

func ForceVelocityChart(plot Plot) ChartOption {
	opt := ChartOption{
		Grid:  &Grid{Top: 20, Right: 20, Bottom: 40, Left: 50},
		XAxis: &Axis{Type: "value", Name: "Velocity (m/s)", Min: ptr(0), Max: ptr(3)},
		YAxis: &Axis{Type: "value", Name: "Force (N)", Min: ptr(0), Max: ptr(1000)},
	}

	switch p := plot.(type) {
	case PlotSession:
		opt.Series = []Series{{
			Name:       "Current Session",
			Type:       "line",
			Data:       pairs(Curve{p.Point}),
			SymbolSize: 8,
			LineStyle:  &LineStyle{Color: colorBlue, Width: 3},
			ItemStyle:  &ItemStyle{Color: colorBlue},
		}}
	case PlotNoSession:
		opt.Series = []Series{
			{
				Name:       "Previous Session",
				Type:       "line",
				Data:       pairs(p.Previous),
				Smooth:     true,
				SymbolSize: 6,
				LineStyle:  &LineStyle{Color: colorLight, Width: 2},
				ItemStyle:  &ItemStyle{Color: colorLight},
			},
			{
				Name:       "Current Session",
				Type:       "line",
				Data:       pairs(p.Current),
				Smooth:     true,
				SymbolSize: 8,
				LineStyle:  &LineStyle{Color: colorBlue, Width: 3},
				ItemStyle:  &ItemStyle{Color: colorBlue},
			},
		}
	default:
		panic(fmt.Sprintf("widgets: unknown plot kind %T", plot))
	}

	return opt
}

// ForceTrendChart compares the current and previous force trend drawn at mount.
func ForceTrendChart(ft signals.ForceTrend) ChartOption {
	return ChartOption{
		Grid:  &Grid{Top: 20, Right: 20, Bottom: 24, Left: 40},
		XAxis: indexAxis(len(ft.Current)),
		YAxis: &Axis{Type: "value", Name: "Force (N)"},
		Series: []Series{
			{Name: "Current", Type: "line", Data: ft.Current, Smooth: true, Symbol: "none", LineStyle: &LineStyle{Color: colorBlue}},
			{Name: "Previous", Type: "line", Data: ft.Previous, Smooth: true, Symbol: "none", LineStyle: &LineStyle{Color: colorLight}},
		},
	}
}

// MVCGauge draws the drifting MVC value, colored by its zone.
func MVCGauge(mvc float64) ChartOption {
	zone := ZoneForPercent(mvc)
	return ChartOption{
		Series: []Series{{
			Name:      "MVC",
			Type:      "gauge",
			Data:      []map[string]any{{"value": round(mvc), "name": zone.Label}},
			Min:       ptr(0),
			Max:       ptr(100),
			ItemStyle: &ItemStyle{Color: zone.Color.Text},
		}},
	}
}
