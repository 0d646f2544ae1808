package linsys

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

var allMethods = []Method{GaussSimple, PartialPivot, TotalPivot, LU, PLU, Cholesky}

func TestSolveTwoByTwo(t *testing.T) {
	// 2x + y = 5, x - y = 1
	a := mat.NewDense(2, 2, []float64{2, 1, 1, -1})
	b := []float64{5, 1}

	for _, m := range []Method{GaussSimple, PartialPivot, TotalPivot, LU, PLU} {
		t.Run(m.String(), func(t *testing.T) {
			sol, err := Solve(m, a, b)
			require.NoError(t, err)
			assert.InDeltaSlice(t, []float64{2, 1}, sol.X, 1e-4)
			assert.InDelta(t, -3.0, sol.Trace.Determinant, 1e-12)
			assert.Less(t, sol.Trace.Residual, 1e-12)
			assert.Greater(t, sol.Trace.Condition, 1.0)
			assert.Equal(t, m, sol.Trace.Method)
		})
	}
}

func TestSolveThreeByThree(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		4, -2, 1,
		-2, 4, -2,
		1, -2, 4,
	})
	want := []float64{1, -2, 3}
	var bv mat.VecDense
	bv.MulVec(a, mat.NewVecDense(3, want))
	b := bv.RawVector().Data

	for _, m := range allMethods {
		t.Run(m.String(), func(t *testing.T) {
			sol, err := Solve(m, a, b)
			require.NoError(t, err)
			assert.InDeltaSlice(t, want, sol.X, 1e-10)
			assert.InDelta(t, mat.Det(a), sol.Trace.Determinant, 1e-9)
		})
	}
}

func TestPivotingRecordsPermutation(t *testing.T) {
	// zero leading pivot: no-pivot elimination fails, pivoting succeeds
	a := mat.NewDense(3, 3, []float64{
		0, 2, 1,
		1, 1, 1,
		3, 0, 2,
	})
	b := []float64{5, 5, 9}
	want := []float64{1, 1, 3}

	_, err := GaussNoPivot(a, b)
	assert.True(t, errors.Is(err, errors.ErrZeroPivot))
	_, err = FactorLU(a)
	assert.True(t, errors.Is(err, errors.ErrZeroPivot))

	sol, err := GaussPartialPivot(a, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, sol.X, 1e-12)
	assert.Equal(t, 2, sol.Trace.RowPerm[0])
	assert.Equal(t, "swap R1 <-> R3", sol.Trace.Steps[0])
	assert.Nil(t, sol.Trace.ColPerm)

	sol, err = GaussTotalPivot(a, b)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, sol.X, 1e-12)
	assert.Len(t, sol.Trace.ColPerm, 3)
	assert.InDelta(t, mat.Det(a), sol.Trace.Determinant, 1e-12)
}

func TestTotalPivotUnpermutesSolution(t *testing.T) {
	// largest entry in the last column forces a column swap
	a := mat.NewDense(2, 2, []float64{1, 10, 2, 1})
	b := []float64{21, 4}

	sol, err := GaussTotalPivot(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, sol.Trace.ColPerm)
	assert.Contains(t, sol.Trace.Steps, "swap C1 <-> C2")
	assert.InDeltaSlice(t, []float64{1, 2}, sol.X, 1e-12)
}

func TestStepFormat(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 1, 1, -1})
	sol, err := GaussNoPivot(a, []float64{5, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"R2 <- R2 - (0.5)*R1"}, sol.Trace.Steps)

	sol, err = GaussNoPivot(a, []float64{5, 1}, WithSteps(false))
	require.NoError(t, err)
	assert.Empty(t, sol.Trace.Steps)
}

func TestSingularMatrix(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		2, 4, 6,
		1, 1, 1,
	})
	b := []float64{1, 2, 3}

	for _, fn := range []func(mat.Matrix, []float64, ...Option) (*Solution, error){GaussPartialPivot, GaussTotalPivot} {
		_, err := fn(a, b)
		assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
		assert.True(t, errors.IsInputError(err))
	}
	_, err := FactorPLU(a)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	// below-threshold pivot is singular for pivoting variants
	tiny := mat.NewDense(2, 2, []float64{1e-12, 0, 0, 1e-12})
	_, err = GaussPartialPivot(tiny, []float64{1, 1})
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))
	_, err = GaussPartialPivot(tiny, []float64{1, 1}, WithPivotThreshold(1e-15))
	assert.NoError(t, err)
}

func TestInputValidation(t *testing.T) {
	_, err := GaussNoPivot(mat.NewDense(2, 3, nil), []float64{1, 2})
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = GaussNoPivot(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), []float64{1, 2, 3})
	assert.True(t, errors.As(err, &dimErr))

	_, err = GaussNoPivot(mat.NewDense(2, 2, []float64{1, math.NaN(), 0, 1}), []float64{1, 2})
	var numErr *errors.NumericalInstabilityError
	assert.True(t, errors.As(err, &numErr))

	_, err = Solve(Method(99), mat.NewDense(1, 1, []float64{1}), []float64{1})
	assert.Error(t, err)
}

func randomMatrix(n int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, rng.NormFloat64()*10)
		}
	}
	return a
}

func TestFactorizationReconstruction(t *testing.T) {
	for _, n := range []int{1, 3, 6, 12} {
		a := randomMatrix(n, 17)

		plu, err := FactorPLU(a)
		require.NoError(t, err)
		var pa, lu, diff mat.Dense
		pa.Mul(plu.P, a)
		lu.Mul(plu.L, plu.U)
		diff.Sub(&pa, &lu)
		assert.Less(t, mat.Norm(&diff, 2), 1e-6, "n=%d", n)
		assert.Less(t, plu.ReconstructionError, 1e-6)
		assert.InDelta(t, mat.Det(a), plu.Determinant, 1e-6*math.Max(1, math.Abs(mat.Det(a))))
		assertUnitLowerTriangular(t, plu.L)
		assertUpperTriangular(t, plu.U)

		lu2, err := FactorLU(a)
		require.NoError(t, err)
		var rec mat.Dense
		rec.Mul(lu2.L, lu2.U)
		diff.Sub(a, &rec)
		assert.Less(t, mat.Norm(&diff, 2), 1e-6, "n=%d", n)
		assert.Nil(t, lu2.P)
	}
}

func TestCholesky(t *testing.T) {
	// A = Mᵀ·M + n·I is symmetric positive definite
	m := randomMatrix(5, 3)
	var a mat.Dense
	a.Mul(m.T(), m)
	for i := 0; i < 5; i++ {
		a.Set(i, i, a.At(i, i)+5)
	}

	f, err := FactorCholesky(&a)
	require.NoError(t, err)
	var llt, diff mat.Dense
	llt.Mul(f.L, f.L.T())
	diff.Sub(&llt, &a)
	assert.Less(t, mat.Norm(&diff, 2), 1e-6)
	assert.InDelta(t, mat.Det(&a), f.Determinant, 1e-6*mat.Det(&a))

	b := []float64{1, 2, 3, 4, 5}
	x, err := f.Solve(b)
	require.NoError(t, err)
	var ax mat.VecDense
	ax.MulVec(&a, mat.NewVecDense(5, x))
	assert.InDeltaSlice(t, b, ax.RawVector().Data, 1e-9)
}

func TestCholeskyRejects(t *testing.T) {
	nonSym := mat.NewDense(2, 2, []float64{4, 1, 2, 3})
	_, err := FactorCholesky(nonSym)
	assert.True(t, errors.Is(err, errors.ErrNotSymmetric))

	indefinite := mat.NewDense(2, 2, []float64{1, 2, 2, 1})
	_, err = FactorCholesky(indefinite)
	assert.True(t, errors.Is(err, errors.ErrNotPositiveDefinite))

	negDiag := mat.NewDense(2, 2, []float64{-1, 0, 0, 1})
	_, err = Solve(Cholesky, negDiag, []float64{1, 1})
	assert.True(t, errors.Is(err, errors.ErrNotPositiveDefinite))

	almost := mat.NewDense(2, 2, []float64{4, 1, 1 + 1e-12, 3})
	_, err = FactorCholesky(almost)
	assert.NoError(t, err)
	_, err = FactorCholesky(almost, WithSymmetryTolerance(1e-14))
	assert.True(t, errors.Is(err, errors.ErrNotSymmetric))
}

func TestFactorizationSolveReuse(t *testing.T) {
	a := randomMatrix(4, 21)
	f, err := FactorPLU(a)
	require.NoError(t, err)
	for _, b := range [][]float64{{1, 0, 0, 0}, {0, 1, 2, 3}} {
		x, err := f.Solve(b)
		require.NoError(t, err)
		var ax mat.VecDense
		ax.MulVec(a, mat.NewVecDense(4, x))
		assert.InDeltaSlice(t, b, ax.RawVector().Data, 1e-9)
	}
	_, err = f.Solve([]float64{1})
	assert.Error(t, err)
}

func TestLargeSystemUsesParallelElimination(t *testing.T) {
	n := parallelThreshold + 20
	a := mat.NewDense(n, n, nil)
	want := make([]float64, n)
	for i := 0; i < n; i++ {
		want[i] = float64(i%7) - 3
		for j := 0; j < n; j++ {
			a.Set(i, j, 1/float64(i+j+1))
		}
		a.Set(i, i, a.At(i, i)+float64(n))
	}
	var bv mat.VecDense
	bv.MulVec(a, mat.NewVecDense(n, want))

	sol, err := GaussPartialPivot(a, bv.RawVector().Data, WithSteps(false))
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, sol.X, 1e-9)
}

func TestParseMethod(t *testing.T) {
	for _, m := range allMethods {
		got, err := ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMethod("jacobi")
	assert.Error(t, err)
	assert.True(t, Cholesky.IsFactorization())
	assert.False(t, TotalPivot.IsFactorization())
}

func TestTraceJSON(t *testing.T) {
	sol, err := Solve(PLU, mat.NewDense(2, 2, []float64{1, 2, 3, 4}), []float64{5, 6})
	require.NoError(t, err)
	data, err := json.Marshal(sol)
	require.NoError(t, err)

	var decoded struct {
		X     []float64 `json:"x"`
		Trace struct {
			Method string      `json:"method"`
			P      [][]float64 `json:"P"`
			Perm   []int       `json:"row_permutation"`
		} `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "plu", decoded.Trace.Method)
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, decoded.Trace.P)
	assert.Equal(t, []int{1, 0}, decoded.Trace.Perm)
	assert.InDeltaSlice(t, []float64{-4, 4.5}, decoded.X, 1e-12)
}

func TestTraceJSONEveryMethod(t *testing.T) {
	// symmetric positive definite so every method applies
	a := mat.NewDense(2, 2, []float64{4, 2, 2, 3})
	b := []float64{2, 1}

	for _, m := range allMethods {
		t.Run(m.String(), func(t *testing.T) {
			sol, err := Solve(m, a, b)
			require.NoError(t, err)
			data, err := json.Marshal(sol)
			require.NoError(t, err)

			var decoded struct {
				X     []float64 `json:"x"`
				Trace struct {
					Method      string      `json:"method"`
					Determinant *float64    `json:"determinant"`
					Sign        float64     `json:"determinant_sign"`
					Augmented   [][]float64 `json:"augmented"`
					L           [][]float64 `json:"L"`
					P           [][]float64 `json:"P"`
				} `json:"trace"`
			}
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, m.String(), decoded.Trace.Method)
			assert.InDeltaSlice(t, []float64{0.5, 0}, decoded.X, 1e-12)
			require.NotNil(t, decoded.Trace.Determinant)
			assert.InDelta(t, 8.0, *decoded.Trace.Determinant, 1e-12)
			assert.Equal(t, 1.0, decoded.Trace.Sign)

			if m.IsFactorization() {
				assert.Nil(t, decoded.Trace.Augmented)
				assert.Len(t, decoded.Trace.L, 2)
			} else {
				assert.Len(t, decoded.Trace.Augmented, 2)
				assert.Nil(t, decoded.Trace.L)
			}
			if m != PLU {
				assert.Nil(t, decoded.Trace.P)
			}
		})
	}

	for _, factor := range []func(mat.Matrix, ...Option) (*Factorization, error){FactorLU, FactorPLU, FactorCholesky} {
		f, err := factor(a)
		require.NoError(t, err)
		_, err = json.Marshal(f)
		assert.NoError(t, err, f.Method.String())
	}
}

func TestDeterminantBeyondFloatRange(t *testing.T) {
	const n = 120
	a := mat.NewDense(n, n, nil)
	neg := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1e3)
	}
	for i := 0; i <= n; i++ {
		neg.Set(i, i, -1e3)
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = float64(i)
	}
	wantLog := n * math.Log(1e3)

	plu, err := FactorPLU(a)
	require.NoError(t, err)
	chol, err := FactorCholesky(a)
	require.NoError(t, err)
	for _, f := range []*Factorization{plu, chol} {
		assert.True(t, math.IsInf(f.Determinant, 1), f.Method.String())
		assert.InDelta(t, wantLog, f.LogDeterminant, 1e-9)
		assert.Equal(t, 1.0, f.DeterminantSign)

		data, err := json.Marshal(f)
		require.NoError(t, err)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Nil(t, decoded["determinant"])
		assert.InDelta(t, wantLog, decoded["log_determinant"], 1e-9)
	}

	sol, err := GaussPartialPivot(a, b, WithSteps(false))
	require.NoError(t, err)
	assert.InDelta(t, 1e-3*float64(n-1), sol.X[n-1], 1e-12)
	_, err = json.Marshal(sol)
	require.NoError(t, err)

	negSol, err := GaussNoPivot(neg, make([]float64, n+1), WithSteps(false))
	require.NoError(t, err)
	assert.Equal(t, -1.0, negSol.Trace.DeterminantSign)
	assert.True(t, math.IsInf(negSol.Trace.Determinant, -1))
	assert.InDelta(t, float64(n+1)*math.Log(1e3), negSol.Trace.LogDeterminant, 1e-9)
}

func assertUnitLowerTriangular(t *testing.T, l *mat.Dense) {
	t.Helper()
	n, _ := l.Dims()
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, l.At(i, i))
		for j := i + 1; j < n; j++ {
			assert.Equal(t, 0.0, l.At(i, j))
		}
	}
}

func assertUpperTriangular(t *testing.T, u *mat.Dense) {
	t.Helper()
	n, _ := u.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			assert.Equal(t, 0.0, u.At(i, j))
		}
	}
}
