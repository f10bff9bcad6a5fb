package widgets

import "github.com/2beens/vitaly/internal/session"

type Point struct {
	Velocity float64 `json:"velocity"`
	Force    float64 `json:"force"`
}

// Curve is a velocity/force series ordered by velocity.
type Curve []Point

var referenceVelocity = []float64{0.2, 0.5, 0.8, 1.1, 1.4, 1.7, 2.0, 2.3, 2.6, 2.9}

var (
	CurrentReferenceCurve  = curve(referenceVelocity, []float64{1000, 800, 650, 520, 420, 340, 280, 230, 190, 160})
	PreviousReferenceCurve = curve(referenceVelocity, []float64{900, 720, 580, 460, 370, 300, 250, 210, 180, 150})
)

func curve(velocity, force []float64) Curve {
	c := make(Curve, len(velocity))
	for i := range velocity {
		c[i] = Point{Velocity: velocity[i], Force: force[i]}
	}
	return c
}

// Plot is either PlotSession or PlotNoSession.
type Plot interface {
	Kind() string
	isPlot()
}

// PlotSession is a single live point taken from the snapshot.
type PlotSession struct {
	Point Point `json:"point"`
}

// PlotNoSession shows the static reference curves.
type PlotNoSession struct {
	Previous Curve `json:"previous"`
	Current  Curve `json:"current"`
}

func (PlotSession) Kind() string   { return "session" }
func (PlotSession) isPlot()        {}
func (PlotNoSession) Kind() string { return "no_session" }
func (PlotNoSession) isPlot()      {}

func ForceVelocityPlot(s *session.Snapshot) Plot {
	if s == nil {
		return PlotNoSession{
			Previous: append(Curve(nil), PreviousReferenceCurve...),
			Current:  append(Curve(nil), CurrentReferenceCurve...),
		}
	}
	return PlotSession{Point: Point{Velocity: s.Velocity, Force: s.Force}}
}
