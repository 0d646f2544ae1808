package linsys

import (
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Method は解法の種類
type Method int

const (
	GaussSimple Method = iota
	PartialPivot
	TotalPivot
	LU
	PLU
	Cholesky
)

var methodNames = [...]string{
	GaussSimple:  "gauss_simple",
	PartialPivot: "pivoteo_parcial",
	TotalPivot:   "pivoteo_total",
	LU:           "lu",
	PLU:          "plu",
	Cholesky:     "cholesky",
}

// String はParseMethodが受け付ける識別子を返す
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// IsFactorization は分解系の解法かどうかを返す
func (m Method) IsFactorization() bool {
	return m == LU || m == PLU || m == Cholesky
}

// ParseMethod は識別子からMethodを得る
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, s := range methodNames {
		if s == key {
			return Method(i), nil
		}
	}
	return 0, errors.NewValidationError("method", "unknown linear system method", name)
}

// Solve は指定された解法で A·x = b を解く
// 分解系の解法では分解の後に前進・後退代入を行い、因子をTraceに含める
func Solve(m Method, a mat.Matrix, b []float64, opts ...Option) (*Solution, error) {
	switch m {
	case GaussSimple:
		return GaussNoPivot(a, b, opts...)
	case PartialPivot:
		return GaussPartialPivot(a, b, opts...)
	case TotalPivot:
		return GaussTotalPivot(a, b, opts...)
	case LU, PLU, Cholesky:
		var (
			f   *Factorization
			err error
		)
		switch m {
		case LU:
			f, err = FactorLU(a, opts...)
		case PLU:
			f, err = FactorPLU(a, opts...)
		default:
			f, err = FactorCholesky(a, opts...)
		}
		if err != nil {
			return nil, err
		}
		return f.solution(a, b)
	default:
		return nil, errors.NewValidationError("method", "unknown linear system method", int(m))
	}
}
