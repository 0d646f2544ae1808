package ode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scinum/expr"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

func decay(x, y float64) float64 { return -y }
func growth(x, y float64) float64 { return y }

func TestSolveAccuracy(t *testing.T) {
	tests := []struct {
		name      string
		method    Method
		f         Func
		p         Problem
		want      float64
		tolerance float64
	}{
		{"euler -2y", Euler, func(x, y float64) float64 { return -2 * y }, Problem{0, 1, 1, 10}, math.Exp(-2), 0.05},
		{"rk3 -y", RK3, decay, Problem{0, 1, 1, 20}, math.Exp(-1), 1e-5},
		{"rk4 -y", RK4, decay, Problem{0, 1, 1, 20}, math.Exp(-1), 1e-3},
		{"rkf45 -y", RKF45, decay, Problem{0, 1, 1, 10}, math.Exp(-1), 1e-6},
		{"adams bashforth y", AdamsBashforth, growth, Problem{0, 1, 1, 20}, math.E, 1e-4},
		{"adams moulton y", AdamsMoulton, growth, Problem{0, 1, 1, 20}, math.E, 1e-5},
		{"rk4 backwards", RK4, growth, Problem{1, math.E, 0, 20}, 1, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj, err := Solve(tt.method, tt.f, tt.p)
			require.NoError(t, err)
			require.Len(t, traj.X, tt.p.N+1)
			require.Len(t, traj.Y, tt.p.N+1)
			assert.Equal(t, tt.p.X0, traj.X[0])
			assert.InDelta(t, tt.p.XF, traj.X[tt.p.N], 1e-12)
			assert.Equal(t, tt.p.Y0, traj.Y[0])
			assert.InDelta(t, tt.want, traj.Y[tt.p.N], tt.tolerance)
			assert.Equal(t, tt.method.String(), traj.Name)
		})
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		method   Method
		min, max float64
	}{
		{Euler, 1.8, 2.2},
		{RK3, 6.5, 9.5},
		{RK4, 13, 19},
		{AdamsBashforth, 10, 22},
		{AdamsMoulton, 10, 22},
	}

	finalError := func(m Method, n int) float64 {
		traj, err := Solve(m, growth, Problem{X0: 0, Y0: 1, XF: 1, N: n})
		require.NoError(t, err)
		return math.Abs(traj.Y[n] - math.E)
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			ratio := finalError(tt.method, 20) / finalError(tt.method, 40)
			assert.GreaterOrEqual(t, ratio, tt.min)
			assert.LessOrEqual(t, ratio, tt.max)
		})
	}
}

func TestPolynomialExactness(t *testing.T) {
	// Kutta's RK3 and classical RK4 reduce to Simpson's rule on y' = g(x).
	quad := func(x, y float64) float64 { return 3 * x * x }
	traj, err := Solve(RK3, quad, Problem{X0: 0, Y0: 0, XF: 2, N: 3})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, traj.Y[3], 1e-12)

	cubic := func(x, y float64) float64 { return 4 * x * x * x }
	traj, err = Solve(RK4, cubic, Problem{X0: 0, Y0: 1, XF: 1, N: 2})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, traj.Y[2], 1e-12)
}

func TestMultistepNeedsFourSteps(t *testing.T) {
	for _, m := range []Method{AdamsBashforth, AdamsMoulton} {
		_, err := Solve(m, decay, Problem{X0: 0, Y0: 1, XF: 1, N: 3})
		require.Error(t, err)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr), m.String())
	}

	traj, err := Solve(AdamsBashforth, decay, Problem{X0: 0, Y0: 1, XF: 1, N: 4})
	require.NoError(t, err)
	assert.Len(t, traj.Y, 5)
}

func TestAdamsStartsWithRK4(t *testing.T) {
	p := Problem{X0: 0, Y0: 1, XF: 1, N: 10}
	rk, err := Solve(RK4, decay, p)
	require.NoError(t, err)
	for _, m := range []Method{AdamsBashforth, AdamsMoulton} {
		ab, err := Solve(m, decay, p)
		require.NoError(t, err)
		assert.InDeltaSlice(t, rk.Y[:4], ab.Y[:4], 1e-15)
	}
}

func TestInvalidProblems(t *testing.T) {
	tests := []struct {
		name string
		m    Method
		p    Problem
	}{
		{"zero steps", Euler, Problem{0, 1, 1, 0}},
		{"nan initial value", RK4, Problem{0, math.NaN(), 1, 10}},
		{"infinite endpoint", RK4, Problem{0, 1, math.Inf(1), 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.m, decay, tt.p)
			require.Error(t, err)
			assert.True(t, errors.IsInputError(err))
		})
	}

	_, err := Solve(Taylor2, decay, Problem{0, 1, 1, 10})
	require.Error(t, err)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = Solve(Method(42), decay, Problem{0, 1, 1, 10})
	require.Error(t, err)
}

func TestNumericalInstability(t *testing.T) {
	nan := func(x, y float64) float64 {
		if x > 0.45 {
			return math.NaN()
		}
		return y
	}
	blowup := func(x, y float64) float64 { return y * y }

	for _, m := range []Method{Euler, RK4, RKF45, AdamsMoulton} {
		t.Run(m.String(), func(t *testing.T) {
			_, err := Solve(m, nan, Problem{X0: 0, Y0: 1, XF: 1, N: 10})
			require.Error(t, err)
			var numErr *errors.NumericalInstabilityError
			assert.True(t, errors.As(err, &numErr))

			// y' = y² with y(0) = 1 blows up at x = 1.
			_, err = Solve(m, blowup, Problem{X0: 0, Y0: 1, XF: 3, N: 30})
			require.Error(t, err)
			assert.True(t, errors.As(err, &numErr))
		})
	}
}

func TestHarmonicOscillator(t *testing.T) {
	f := func(x float64, y []float64) []float64 {
		return []float64{y[1], -y[0]}
	}
	p := SystemProblem{X0: 0, Y0: []float64{1, 0}, XF: 2 * math.Pi, N: 200}

	for _, m := range []Method{RK4, RKF45, AdamsMoulton} {
		t.Run(m.String(), func(t *testing.T) {
			traj, err := SolveSystem(m, f, p)
			require.NoError(t, err)
			assert.InDeltaSlice(t, []float64{1, 0}, traj.Final(), 1e-4)

			pos := traj.Component(0)
			assert.Len(t, pos, p.N+1)
			assert.InDelta(t, -1, pos[100], 1e-4)
		})
	}

	// the initial state must not be modified
	assert.Equal(t, []float64{1, 0}, p.Y0)
}

func TestSystemDimensionMismatch(t *testing.T) {
	f := func(x float64, y []float64) []float64 { return []float64{1} }
	_, err := SolveSystem(Euler, f, SystemProblem{X0: 0, Y0: []float64{1, 2}, XF: 1, N: 5})
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = SolveSystem(Euler, f, SystemProblem{X0: 0, XF: 1, N: 5})
	require.Error(t, err)
}

func TestRKF45ErrorEstimates(t *testing.T) {
	traj, err := Solve(RKF45, decay, Problem{X0: 0, Y0: 1, XF: 1, N: 10})
	require.NoError(t, err)
	require.Len(t, traj.ErrorEstimates, 10)
	for _, e := range traj.ErrorEstimates {
		assert.GreaterOrEqual(t, e, 0.0)
		assert.Less(t, e, 1e-6)
	}

	coarse, err := Solve(RKF45, decay, Problem{X0: 0, Y0: 1, XF: 1, N: 5})
	require.NoError(t, err)
	assert.Greater(t, coarse.ErrorEstimates[0], traj.ErrorEstimates[0])

	rk4, err := Solve(RK4, decay, Problem{X0: 0, Y0: 1, XF: 1, N: 10})
	require.NoError(t, err)
	assert.Empty(t, rk4.ErrorEstimates)
}

func TestSolveIsDeterministic(t *testing.T) {
	p := Problem{X0: 0, Y0: 0.5, XF: 2, N: 16}
	f := func(x, y float64) float64 { return y - x*x + 1 }
	for _, m := range []Method{Euler, RK3, RK4, RKF45, AdamsBashforth, AdamsMoulton} {
		a, err := Solve(m, f, p)
		require.NoError(t, err)
		b, err := Solve(m, f, p)
		require.NoError(t, err)
		assert.Equal(t, a, b, m.String())
	}
}

func TestTaylor(t *testing.T) {
	// y' = x + y, y(0) = 1 has y = 2e^x − x − 1.
	exact := func(x float64) float64 { return 2*math.Exp(x) - x - 1 }
	p := Problem{X0: 0, Y0: 1, XF: 1, N: 10}

	var prev float64 = math.Inf(1)
	for _, m := range []Method{Taylor2, Taylor3, Taylor4} {
		traj, err := SolveExpr(m, "x + y", p)
		require.NoError(t, err, m.String())
		assert.Equal(t, m.String(), traj.Name)
		errFinal := math.Abs(traj.Y[p.N] - exact(1))
		assert.Less(t, errFinal, prev, m.String())
		prev = errFinal
	}
	assert.Less(t, prev, 1e-5)
}

func TestTaylor4MatchesRK4OnLinearProblem(t *testing.T) {
	// both reduce to the degree-4 Taylor polynomial of e^h for y' = y
	p := Problem{X0: 0, Y0: 1, XF: 1, N: 10}
	taylor, err := Taylor(expr.MustParse("y"), 4, p)
	require.NoError(t, err)
	rk, err := Solve(RK4, growth, p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, rk.Y, taylor.Y, 1e-12)
}

func TestTaylorCustomVariables(t *testing.T) {
	p := Problem{X0: 0, Y0: 1, XF: 1, N: 40}
	traj, err := SolveExpr(Taylor3, "-2*u*t", p, WithVariables("t", "u"))
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-1), traj.Y[p.N], 1e-4)
}

type countingDiff struct {
	calls int
}

func (c *countingDiff) TotalDerivatives(f *expr.Expr, order int) ([]*expr.Program, error) {
	c.calls++
	return expr.Symbolic{}.TotalDerivatives(f, order)
}

func TestTaylorDifferentiator(t *testing.T) {
	d := &countingDiff{}
	_, err := SolveExpr(Taylor3, "y*cos(x)", Problem{X0: 0, Y0: 1, XF: 1, N: 50}, WithDifferentiator(d))
	require.NoError(t, err)
	assert.Equal(t, 1, d.calls)
}

func TestTaylorErrors(t *testing.T) {
	p := Problem{X0: 0, Y0: 1, XF: 1, N: 10}

	_, err := Taylor(expr.MustParse("y"), 5, p)
	require.Error(t, err)

	_, err = SolveExpr(Taylor2, "y + z", p)
	require.Error(t, err)
	var exprErr *errors.ExpressionError
	assert.True(t, errors.As(err, &exprErr))

	_, err = SolveExpr(Taylor2, "y +", p)
	require.Error(t, err)
	assert.True(t, errors.As(err, &exprErr))

	_, err = SolveExpr(Taylor2, "1/(1-x)", Problem{X0: 0, Y0: 0, XF: 2, N: 2})
	require.Error(t, err)
	var numErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &numErr))
}

func TestSolveExprRungeKutta(t *testing.T) {
	traj, err := SolveExpr(RK4, "-y", Problem{X0: 0, Y0: 1, XF: 1, N: 20})
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-1), traj.Y[20], 1e-6)
}

func TestSolveSystemExpr(t *testing.T) {
	p := SystemProblem{X0: 0, Y0: []float64{1, 0}, XF: math.Pi, N: 100}
	traj, err := SolveSystemExpr(RK4, []string{"y2", "-y1"}, p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0}, traj.Final(), 1e-6)

	_, err = SolveSystemExpr(RK4, []string{"y2"}, p)
	require.Error(t, err)

	_, err = SolveSystemExpr(RK4, []string{"y2", "y3"}, p)
	require.Error(t, err)

	assert.Equal(t, []string{"y1", "y2", "y3"}, SystemVariables(3))
}

func TestCompare(t *testing.T) {
	traj, err := Solve(Euler, decay, Problem{X0: 0, Y0: 1, XF: 1, N: 10})
	require.NoError(t, err)
	cmp, err := Compare(traj, func(x float64) float64 { return math.Exp(-x) })
	require.NoError(t, err)

	assert.Len(t, cmp.AbsErrors, 11)
	assert.Equal(t, 0.0, cmp.AbsErrors[0])
	assert.InDelta(t, math.Abs(traj.Y[10]-math.Exp(-1)), cmp.Final, 1e-15)
	assert.GreaterOrEqual(t, cmp.MaxAbs, cmp.Final)
	assert.LessOrEqual(t, cmp.RMSE, cmp.MaxAbs)
	assert.Greater(t, cmp.RMSE, 0.0)
	// mean absolute error never exceeds the root mean square
	assert.Greater(t, cmp.MAE, 0.0)
	assert.LessOrEqual(t, cmp.MAE, cmp.RMSE)

	var sum float64
	for _, e := range cmp.AbsErrors {
		sum += e
	}
	assert.InDelta(t, sum/11, cmp.MAE, 1e-15)
}

func TestParseMethod(t *testing.T) {
	for i := range methodNames {
		m := Method(i)
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMethod(" RK4 ")
	require.NoError(t, err)
	assert.Equal(t, RK4, got)

	_, err = ParseMethod("heun")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Method(-1).String())
	assert.Equal(t, 3, Taylor3.TaylorOrder())
	assert.Equal(t, 0, RK4.TaylorOrder())
}
