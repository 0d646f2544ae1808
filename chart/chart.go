// Package chart renders numerical results with gonum/plot.
//
// Builders return a *plot.Plot so callers can adjust titles or axes before
// calling Save. The image format follows the file extension (png, svg,
// pdf, eps, jpg, tif).
package chart

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/scinum/interpolation"
	"github.com/YuminosukeSato/scinum/ode"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
	"github.com/YuminosukeSato/scinum/roots"
)

// Default image size.
const (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// curveSamples is the resolution of sampled curves.
const curveSamples = 200

// errorFloor replaces zero errors on logarithmic axes.
const errorFloor = 1e-16

var formats = map[string]bool{
	"png": true, "svg": true, "pdf": true, "eps": true,
	"jpg": true, "jpeg": true, "tif": true, "tiff": true,
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X, pts[i].Y = x[i], y[i]
	}
	return pts
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

// sample evaluates f on n+1 evenly spaced points of [a, b], dropping
// non-finite values.
func sample(f func(float64) float64, a, b float64, n int) plotter.XYs {
	pts := make(plotter.XYs, 0, n+1)
	for i := 0; i <= n; i++ {
		x := a + (b-a)*float64(i)/float64(n)
		y := f(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

// Trajectory plots a scalar ODE solution. When exact is not nil the
// analytic solution is drawn for comparison.
func Trajectory(t *ode.Trajectory, exact func(float64) float64) (*plot.Plot, error) {
	if t == nil || len(t.X) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	p := newPlot(fmt.Sprintf("ODE solution (%s, h=%g)", t.Name, t.H), "x", "y")
	if err := plotutil.AddLinePoints(p, t.Name, xys(t.X, t.Y)); err != nil {
		return nil, errors.Wrap(err, "chart: trajectory")
	}
	if exact != nil {
		line, err := plotter.NewLine(sample(exact, t.X[0], t.X[len(t.X)-1], curveSamples))
		if err != nil {
			return nil, errors.Wrap(err, "chart: exact solution")
		}
		line.Color = plotutil.Color(1)
		line.Dashes = plotutil.Dashes(1)
		p.Add(line)
		p.Legend.Add("exact", line)
	}
	return p, nil
}

// System plots every component of a system trajectory against x. names
// labels the components; missing names default to y1, y2, ….
func System(t *ode.SystemTrajectory, names ...string) (*plot.Plot, error) {
	if t == nil || len(t.Y) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	p := newPlot(fmt.Sprintf("ODE system (%s, h=%g)", t.Name, t.H), "x", "state")
	dim := len(t.Y[0])
	labels := ode.SystemVariables(dim)
	copy(labels, names)

	var vs []interface{}
	for i := 0; i < dim; i++ {
		vs = append(vs, labels[i], xys(t.X, t.Component(i)))
	}
	if err := plotutil.AddLines(p, vs...); err != nil {
		return nil, errors.Wrap(err, "chart: system")
	}
	return p, nil
}

// Interpolation plots the interpolating polynomial of r over the span of
// its nodes together with the nodes and the evaluated point.
func Interpolation(r *interpolation.Result) (*plot.Plot, error) {
	if r == nil || len(r.X) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	poly := r.Polynomial()
	if poly == nil {
		// Neville keeps no coefficients; the Newton form is the same polynomial.
		fwd, err := interpolation.Forward(r.X, r.Y, r.XEval)
		if err != nil {
			return nil, err
		}
		poly = fwd.Polynomial()
	}

	lo, hi := r.XEval, r.XEval
	for _, x := range r.X {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}

	p := newPlot("Interpolation ("+r.Method.String()+")", "x", "p(x)")
	curve, err := plotter.NewLine(sample(poly, lo, hi, curveSamples))
	if err != nil {
		return nil, errors.Wrap(err, "chart: polynomial")
	}
	curve.Color = plotutil.Color(0)

	nodes, err := plotter.NewScatter(xys(r.X, r.Y))
	if err != nil {
		return nil, errors.Wrap(err, "chart: nodes")
	}
	nodes.GlyphStyle.Shape = draw.CircleGlyph{}
	nodes.GlyphStyle.Color = plotutil.Color(1)

	eval, err := plotter.NewScatter(plotter.XYs{{X: r.XEval, Y: r.Value}})
	if err != nil {
		return nil, errors.Wrap(err, "chart: evaluation point")
	}
	eval.GlyphStyle.Shape = draw.CrossGlyph{}
	eval.GlyphStyle.Radius = vg.Points(4)
	eval.GlyphStyle.Color = plotutil.Color(2)

	p.Add(curve, nodes, eval)
	p.Legend.Add("polynomial", curve)
	p.Legend.Add("nodes", nodes)
	p.Legend.Add(fmt.Sprintf("p(%g)", r.XEval), eval)
	return p, nil
}

// RootHistory plots the error estimate of each iteration on a logarithmic
// axis.
func RootHistory(r *roots.Result) (*plot.Plot, error) {
	if r == nil || len(r.History) == 0 {
		return nil, errors.WithStack(errors.ErrEmptyData)
	}
	pts := make(plotter.XYs, len(r.History))
	for i, it := range r.History {
		pts[i].X = float64(it.N)
		pts[i].Y = math.Max(it.Error, errorFloor)
	}
	p := newPlot("Convergence ("+r.Name+")", "iteration", "error")
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	if err := plotutil.AddLinePoints(p, r.Name, pts); err != nil {
		return nil, errors.Wrap(err, "chart: root history")
	}
	return p, nil
}

// Save writes p to path at the default size.
func Save(p *plot.Plot, path string) error {
	return SaveSize(p, path, Width, Height)
}

// SaveSize writes p to path with the given dimensions.
func SaveSize(p *plot.Plot, path string, w, h vg.Length) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !formats[ext] {
		return errors.NewValidationError("path", "unsupported image format", path)
	}
	if err := p.Save(w, h, path); err != nil {
		return errors.Wrapf(err, "chart: save %s", path)
	}
	log.GetLoggerWithName("chart").Debug("chart saved", "path", path, "format", ext)
	return nil
}
