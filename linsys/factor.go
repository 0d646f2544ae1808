package linsys

import (
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/internal/matutil"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Factorization はLU・PLU・Cholesky分解の結果
//
//	LU:       A   = L·U   （Lは単位下三角）
//	PLU:      P·A = L·U
//	Cholesky: A   = L·Lᵀ （Uは Lᵀ）
type Factorization struct {
	Method Method
	L      *mat.Dense
	U      *mat.Dense
	P      *mat.Dense // PLUのみ
	Perm   []int      // P·A の第i行は A の第Perm[i]行
	Steps  []string
	// Determinant は det(A)。float64 で表せない場合は ±Inf または 0
	Determinant float64
	// LogDeterminant は log|det(A)|、DeterminantSign はその符号
	LogDeterminant  float64
	DeterminantSign float64
	// ReconstructionError は ||P·A - L·U||_F（Choleskyでは ||A - L·Lᵀ||_F）
	ReconstructionError float64
}

// MarshalJSON は因子を二重配列に変換して出力する
func (f *Factorization) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Method              string      `json:"method"`
		L                   [][]float64 `json:"L"`
		U                   [][]float64 `json:"U"`
		P                   [][]float64 `json:"P,omitempty"`
		Perm                []int       `json:"permutation,omitempty"`
		Steps               []string    `json:"steps,omitempty"`
		Determinant         *float64    `json:"determinant"`
		LogDeterminant      *float64    `json:"log_determinant"`
		DeterminantSign     float64     `json:"determinant_sign"`
		ReconstructionError *float64    `json:"reconstruction_error"`
	}{
		f.Method.String(), matutil.Rows(f.L), matutil.Rows(f.U), matutil.Rows(f.P),
		f.Perm, f.Steps, nullable(f.Determinant), nullable(f.LogDeterminant),
		f.DeterminantSign, nullable(f.ReconstructionError),
	})
}

// FactorLU はピボット選択なしのDoolittle法でLU分解する
// ピボットが厳密に0の場合はErrZeroPivotを返す
func FactorLU(a mat.Matrix, opts ...Option) (*Factorization, error) {
	return factorLU("linsys.FactorLU", LU, a, false, newConfig(opts))
}

// FactorPLU は部分ピボット選択付きでLU分解し、P·A = L·U を満たす置換行列Pも返す
func FactorPLU(a mat.Matrix, opts ...Option) (*Factorization, error) {
	return factorLU("linsys.FactorPLU", PLU, a, true, newConfig(opts))
}

func factorLU(op string, method Method, a mat.Matrix, pivot bool, cfg config) (*Factorization, error) {
	n, err := validate(op, a, nil)
	if err != nil {
		return nil, err
	}

	// 右辺なしの消去器を使い、乗数をLに記録する
	mode := pivotNone
	if pivot {
		mode = pivotPartial
	}
	e := newEliminator(op, a, make([]float64, n), n, cfg)
	l := mat.NewDense(n, n, nil)
	for k := 0; k < n; k++ {
		r, err := e.choosePivot(k, mode)
		if err != nil {
			return nil, err
		}
		// 行交換があればLの確定済み列（0..k-1）も同じく交換する
		if r != k {
			for j := 0; j < k; j++ {
				lk, lr := l.At(k, j), l.At(r, j)
				l.Set(k, j, lr)
				l.Set(r, j, lk)
			}
		}
		e.det.mul(e.m.At(k, k))
		if k < n-1 {
			for r, f := range e.eliminate(k) {
				l.Set(k+1+r, k, f)
			}
		}
	}
	e.det.sign *= e.sign
	for i := 0; i < n; i++ {
		l.Set(i, i, 1)
	}

	u := mat.DenseCopyOf(e.m.Slice(0, n, 0, n))
	f := &Factorization{
		Method:      method,
		L:           l,
		U:           u,
		Steps:           e.steps,
		Determinant:     e.det.value(),
		LogDeterminant:  e.det.log,
		DeterminantSign: e.det.sign,
	}
	if pivot {
		f.Perm = e.rowPerm
		f.P = permutationMatrix(e.rowPerm)
	}

	var pa mat.Dense
	if f.P != nil {
		pa.Mul(f.P, a)
	} else {
		pa.CloneFrom(a)
	}
	f.ReconstructionError = reconstructionError(&pa, l, u)

	log.GetLoggerWithName("linsys").Debug("factorization computed",
		log.MethodKey, method.String(),
		log.DimensionKey, n,
		log.LogDeterminantKey, f.LogDeterminant,
		"reconstruction_error", f.ReconstructionError,
	)
	return f, nil
}

// permutationMatrix は P[i][perm[i]] = 1 の置換行列を作る
func permutationMatrix(perm []int) *mat.Dense {
	n := len(perm)
	p := mat.NewDense(n, n, nil)
	for i, j := range perm {
		p.Set(i, j, 1)
	}
	return p
}

func reconstructionError(target mat.Matrix, l, u mat.Matrix) float64 {
	var lu, diff mat.Dense
	lu.Mul(l, u)
	diff.Sub(target, &lu)
	return mat.Norm(&diff, 2)
}

// FactorCholesky は対称正定値行列をA = L·Lᵀに分解する
// 対称性はAとAᵀの比較で事前に検査し、平方根の中身が正でなくなった時点でErrNotPositiveDefiniteを返す
func FactorCholesky(a mat.Matrix, opts ...Option) (*Factorization, error) {
	const op = "linsys.FactorCholesky"
	cfg := newConfig(opts)
	n, err := validate(op, a, nil)
	if err != nil {
		return nil, err
	}
	if !mat.EqualApprox(a, a.T(), cfg.symmetryTol) {
		return nil, errors.NewPreconditionErrorf(op, errors.ErrNotSymmetric,
			"A differs from its transpose by more than %g", cfg.symmetryTol)
	}

	l := mat.NewDense(n, n, nil)
	det := newDeterminant()
	for j := 0; j < n; j++ {
		s := a.At(j, j)
		for k := 0; k < j; k++ {
			s -= l.At(j, k) * l.At(j, k)
		}
		if !(s > 0) {
			return nil, errors.NewPreconditionErrorf(op, errors.ErrNotPositiveDefinite,
				"diagonal term %g at column %d is not positive", s, j+1)
		}
		d := math.Sqrt(s)
		l.Set(j, j, d)
		det.mul(s)
		for i := j + 1; i < n; i++ {
			v := a.At(i, j)
			for k := 0; k < j; k++ {
				v -= l.At(i, k) * l.At(j, k)
			}
			l.Set(i, j, v/d)
		}
	}

	u := mat.DenseCopyOf(l.T())
	f := &Factorization{
		Method:              Cholesky,
		L:                   l,
		U:                   u,
		Determinant:         det.value(),
		LogDeterminant:      det.log,
		DeterminantSign:     det.sign,
		ReconstructionError: reconstructionError(a, l, u),
	}
	log.GetLoggerWithName("linsys").Debug("factorization computed",
		log.MethodKey, Cholesky.String(),
		log.DimensionKey, n,
		log.LogDeterminantKey, det.log,
		"reconstruction_error", f.ReconstructionError,
	)
	return f, nil
}

// Solve は分解済みの因子を使って A·x = b を解く
func (f *Factorization) Solve(b []float64) ([]float64, error) {
	const op = "linsys.Factorization.Solve"
	n, _ := f.L.Dims()
	if len(b) != n {
		return nil, errors.NewDimensionError(op, n, len(b), 0)
	}

	// 前進代入 L·y = P·b
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		s := b[i]
		if f.Perm != nil {
			s = b[f.Perm[i]]
		}
		for j := 0; j < i; j++ {
			s -= f.L.At(i, j) * y[j]
		}
		y[i] = s / f.L.At(i, i)
	}

	// 後退代入 U·x = y
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := y[i]
		for j := i + 1; j < n; j++ {
			s -= f.U.At(i, j) * x[j]
		}
		x[i] = s / f.U.At(i, i)
	}
	if err := errors.CheckNumericalStability(op, x, 0); err != nil {
		return nil, err
	}
	return x, nil
}

// solution は分解を用いた解とTraceを組み立てる
func (f *Factorization) solution(a mat.Matrix, b []float64) (*Solution, error) {
	op := "linsys.Solve(" + f.Method.String() + ")"
	if _, err := validate(op, a, b); err != nil {
		return nil, err
	}
	x, err := f.Solve(b)
	if err != nil {
		return nil, err
	}
	tr := &Trace{
		Method:          f.Method,
		Steps:           f.Steps,
		Determinant:     f.Determinant,
		LogDeterminant:  f.LogDeterminant,
		DeterminantSign: f.DeterminantSign,
		RowPerm:         f.Perm,
		L:               f.L,
		U:               f.U,
		P:               f.P,
	}
	return finish(op, a, b, x, tr)
}
