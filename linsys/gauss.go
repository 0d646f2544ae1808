package linsys

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/core/parallel"
	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// 行更新を並列化する残り行数の閾値
const parallelThreshold = 256

type pivoting int

const (
	pivotNone pivoting = iota
	pivotPartial
	pivotTotal
)

// eliminator は拡大係数行列 M = [A|b] を作業バッファとして前進消去を行う
type eliminator struct {
	op      string
	m       *mat.Dense
	n       int
	rowPerm []int
	colPerm []int
	sign    float64 // 行・列交換の偶奇
	det     determinant
	steps   []string
	cfg     config
}

func newEliminator(op string, a mat.Matrix, b []float64, n int, cfg config) *eliminator {
	m := mat.NewDense(n, n+1, nil)
	m.Slice(0, n, 0, n).(*mat.Dense).Copy(a)
	m.SetCol(n, b)
	return &eliminator{
		op:      op,
		m:       m,
		n:       n,
		rowPerm: identityPerm(n),
		colPerm: identityPerm(n),
		sign:    1,
		det:     newDeterminant(),
		cfg:     cfg,
	}
}

func (e *eliminator) record(s string) {
	if e.cfg.recordSteps {
		e.steps = append(e.steps, s)
	}
}

func (e *eliminator) swapRows(i, j int) {
	if i == j {
		return
	}
	ri := mat.Row(nil, i, e.m)
	rj := mat.Row(nil, j, e.m)
	e.m.SetRow(i, rj)
	e.m.SetRow(j, ri)
	e.rowPerm[i], e.rowPerm[j] = e.rowPerm[j], e.rowPerm[i]
	e.sign = -e.sign
	e.record(rowSwapStep(i, j))
}

// swapCols は係数部分の列のみ交換する（右辺の列は対象外）
func (e *eliminator) swapCols(i, j int) {
	if i == j {
		return
	}
	ci := mat.Col(nil, i, e.m)
	cj := mat.Col(nil, j, e.m)
	e.m.SetCol(i, cj)
	e.m.SetCol(j, ci)
	e.colPerm[i], e.colPerm[j] = e.colPerm[j], e.colPerm[i]
	e.sign = -e.sign
	e.record(colSwapStep(i, j))
}

// choosePivot は第k段のピボットを選び、必要な行・列交換を行う
// 同じ絶対値の候補が複数ある場合は走査順で最初のものを選ぶ
// 戻り値は第k行と交換した行（交換なしならk）
func (e *eliminator) choosePivot(k int, mode pivoting) (int, error) {
	switch mode {
	case pivotNone:
		if e.m.At(k, k) == 0 {
			return k, errors.NewPreconditionErrorf(e.op, errors.ErrZeroPivot, "pivot at step %d is exactly zero", k+1)
		}
		return k, nil
	case pivotPartial:
		r, best := k, math.Abs(e.m.At(k, k))
		for i := k + 1; i < e.n; i++ {
			if v := math.Abs(e.m.At(i, k)); v > best {
				r, best = i, v
			}
		}
		if best < e.cfg.pivotThreshold {
			return k, errors.NewPreconditionErrorf(e.op, errors.ErrSingularMatrix,
				"largest pivot candidate %g at step %d is below %g", best, k+1, e.cfg.pivotThreshold)
		}
		e.swapRows(k, r)
		return r, nil
	default:
		r, c, best := k, k, -1.0
		for i := k; i < e.n; i++ {
			for j := k; j < e.n; j++ {
				if v := math.Abs(e.m.At(i, j)); v > best {
					r, c, best = i, j, v
				}
			}
		}
		if best < e.cfg.pivotThreshold {
			return k, errors.NewPreconditionErrorf(e.op, errors.ErrSingularMatrix,
				"largest pivot candidate %g at step %d is below %g", best, k+1, e.cfg.pivotThreshold)
		}
		e.swapRows(k, r)
		e.swapCols(k, c)
		return r, nil
	}
}

// eliminate は第k列の対角より下を0にし、乗数を返す
func (e *eliminator) eliminate(k int) []float64 {
	pivot := e.m.At(k, k)
	rows := e.n - k - 1
	factors := make([]float64, rows)
	cols := e.n + 1
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for r := start; r < end; r++ {
			i := k + 1 + r
			f := e.m.At(i, k) / pivot
			factors[r] = f
			if f == 0 {
				continue
			}
			for j := k; j < cols; j++ {
				e.m.Set(i, j, e.m.At(i, j)-f*e.m.At(k, j))
			}
			e.m.Set(i, k, 0)
		}
	})
	for r, f := range factors {
		if f != 0 {
			e.record(rowOpStep(k+1+r, k, f))
		}
	}
	return factors
}

func (e *eliminator) run(mode pivoting) error {
	for k := 0; k < e.n; k++ {
		if _, err := e.choosePivot(k, mode); err != nil {
			return err
		}
		e.det.mul(e.m.At(k, k))
		if k < e.n-1 {
			e.eliminate(k)
		}
	}
	e.det.sign *= e.sign
	return nil
}

// backSubstitute は上三角化済みの拡大係数行列から作業順の解を求める
func (e *eliminator) backSubstitute() []float64 {
	n := e.n
	z := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		s := e.m.At(i, n)
		for j := i + 1; j < n; j++ {
			s -= e.m.At(i, j) * z[j]
		}
		z[i] = s / e.m.At(i, i)
	}
	return z
}

func gauss(op string, method Method, mode pivoting, a mat.Matrix, b []float64, opts []Option) (*Solution, error) {
	n, err := validate(op, a, b)
	if err != nil {
		return nil, err
	}
	e := newEliminator(op, a, b, n, newConfig(opts))
	if err := e.run(mode); err != nil {
		return nil, err
	}

	z := e.backSubstitute()
	x := z
	if mode == pivotTotal {
		// 列交換を元に戻す: 作業位置jの未知数は元の変数colPerm[j]
		x = make([]float64, n)
		for j, orig := range e.colPerm {
			x[orig] = z[j]
		}
	}

	tr := &Trace{
		Method:      method,
		Steps:       e.steps,
		Determinant:     e.det.value(),
		LogDeterminant:  e.det.log,
		DeterminantSign: e.det.sign,
		Augmented:       e.m,
	}
	if mode != pivotNone {
		tr.RowPerm = e.rowPerm
	}
	if mode == pivotTotal {
		tr.ColPerm = e.colPerm
	}
	return finish(op, a, b, x, tr)
}

// GaussNoPivot はピボット選択なしのガウス消去法で解く
// ピボットが厳密に0になった時点でErrZeroPivotを返す（許容誤差なし）
func GaussNoPivot(a mat.Matrix, b []float64, opts ...Option) (*Solution, error) {
	return gauss("linsys.GaussNoPivot", GaussSimple, pivotNone, a, b, opts)
}

// GaussPartialPivot は部分ピボット選択付きガウス消去法で解く
// 各段で対角以下の絶対値最大の行と交換し、その絶対値が閾値未満ならErrSingularMatrixを返す
func GaussPartialPivot(a mat.Matrix, b []float64, opts ...Option) (*Solution, error) {
	return gauss("linsys.GaussPartialPivot", PartialPivot, pivotPartial, a, b, opts)
}

// GaussTotalPivot は完全ピボット選択付きガウス消去法で解く
// 残りの部分行列全体から絶対値最大の要素を選び、行と列を交換する
func GaussTotalPivot(a mat.Matrix, b []float64, opts ...Option) (*Solution, error) {
	return gauss("linsys.GaussTotalPivot", TotalPivot, pivotTotal, a, b, opts)
}
