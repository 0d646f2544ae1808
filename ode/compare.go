package ode

import (
	"github.com/YuminosukeSato/scinum/metrics"
)

// Comparison measures a trajectory against an exact solution.
type Comparison struct {
	Exact     []float64 `json:"exact"`
	AbsErrors []float64 `json:"abs_errors"`
	MaxAbs    float64   `json:"max_abs_error"`
	MAE       float64   `json:"mean_abs_error"`
	RMSE      float64   `json:"rmse"`
	Final     float64   `json:"final_error"`
}

// Compare evaluates exact at every abscissa of t and reports the error of
// the numerical solution.
func Compare(t *Trajectory, exact func(x float64) float64) (*Comparison, error) {
	want := make([]float64, len(t.X))
	for i, x := range t.X {
		want[i] = exact(x)
	}
	abs, err := metrics.AbsErrors(want, t.Y)
	if err != nil {
		return nil, err
	}
	maxAbs, err := metrics.MaxAbsError(want, t.Y)
	if err != nil {
		return nil, err
	}
	mae, err := metrics.MAE(want, t.Y)
	if err != nil {
		return nil, err
	}
	rmse, err := metrics.RMSE(want, t.Y)
	if err != nil {
		return nil, err
	}
	return &Comparison{
		Exact:     want,
		AbsErrors: abs,
		MaxAbs:    maxAbs,
		MAE:       mae,
		RMSE:      rmse,
		Final:     abs[len(abs)-1],
	}, nil
}
