// Package linsys は密行列の連立一次方程式 A·x = b の直接解法を提供します。
// ガウスの消去法（ピボットなし・部分ピボット・完全ピボット）と
// LU・PLU・Cholesky（LLᵀ）分解を実装し、行列式・条件数・残差・行操作の記録を返します。
package linsys

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/internal/matutil"
	"github.com/YuminosukeSato/scinum/metrics"
	"github.com/YuminosukeSato/scinum/pkg/errors"
	"github.com/YuminosukeSato/scinum/pkg/log"
)

// Trace は解法の途中経過と診断値
type Trace struct {
	Method          Method
	Steps           []string   // "R2 <- R2 - (0.5)*R1" 形式の行操作
	Determinant     float64    // ピボットの積と置換の符号から求めた行列式（桁あふれ時は±Inf）
	LogDeterminant  float64    // log|det(A)|
	DeterminantSign float64    // det(A) の符号（-1, 0, 1）
	Condition       float64    // 2ノルム条件数
	Residual        float64    // ||A·x - b||₂
	RowPerm         []int      // 作業位置 → 元の行
	ColPerm         []int      // 作業位置 → 元の列（完全ピボットのみ）
	Augmented       *mat.Dense // 消去後の拡大係数行列 [U|c]
	L, U, P         *mat.Dense // 分解系の因子
}

// MarshalJSON は行列を二重配列に変換して出力する
func (t *Trace) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Method          string      `json:"method"`
		Steps           []string    `json:"steps,omitempty"`
		Determinant     *float64    `json:"determinant"`
		LogDeterminant  *float64    `json:"log_determinant"`
		DeterminantSign float64     `json:"determinant_sign"`
		Condition       float64     `json:"condition"`
		Residual        *float64    `json:"residual"`
		RowPerm         []int       `json:"row_permutation,omitempty"`
		ColPerm         []int       `json:"column_permutation,omitempty"`
		Augmented       [][]float64 `json:"augmented,omitempty"`
		L               [][]float64 `json:"L,omitempty"`
		U               [][]float64 `json:"U,omitempty"`
		P               [][]float64 `json:"P,omitempty"`
	}{
		t.Method.String(), t.Steps, nullable(t.Determinant), nullable(t.LogDeterminant),
		t.DeterminantSign, finite(t.Condition), nullable(t.Residual),
		t.RowPerm, t.ColPerm, matutil.Rows(t.Augmented),
		matutil.Rows(t.L), matutil.Rows(t.U), matutil.Rows(t.P),
	})
}

// finite はJSONで表現できない値を-1に置き換える
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return -1
	}
	return v
}

// nullable は有限でない値をJSONのnullにする
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// determinant は行列式を log|det| と符号で累積する
// ピボットの積は n が大きいと容易に桁あふれするため、値そのものは最後に組み立てる
type determinant struct {
	log  float64
	sign float64
}

func newDeterminant() determinant { return determinant{sign: 1} }

// mul は因子 v を掛ける
func (d *determinant) mul(v float64) {
	switch {
	case v == 0:
		d.sign = 0
	case v < 0:
		d.sign = -d.sign
	}
	d.log += math.Log(math.Abs(v))
}

// value は det を返す。float64 の範囲を超える場合は ±Inf または 0
func (d determinant) value() float64 {
	if d.sign == 0 {
		return 0
	}
	return d.sign * math.Exp(d.log)
}

// Solution は解ベクトルとTrace
type Solution struct {
	X     []float64 `json:"x"`
	Trace *Trace    `json:"trace"`
}

// validate は正方性・次元・有限性を検証し、次元nを返す
func validate(op string, a mat.Matrix, b []float64) (int, error) {
	n, err := matutil.Square(op, a)
	if err != nil {
		return 0, err
	}
	if b != nil && len(b) != n {
		return 0, errors.NewDimensionError(op, n, len(b), 0)
	}
	if err := errors.CheckMatrix(op, a, n, n, 0); err != nil {
		return 0, err
	}
	if b != nil {
		if err := errors.CheckNumericalStability(op, b, 0); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// identityPerm は恒等置換を返す
func identityPerm(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// finish は診断値を計算してSolutionを組み立てる
func finish(op string, a mat.Matrix, b, x []float64, tr *Trace) (*Solution, error) {
	if err := errors.CheckNumericalStability(op, x, 0); err != nil {
		return nil, err
	}
	res, err := metrics.ResidualNorm(a, x, b)
	if err != nil {
		return nil, err
	}
	tr.Residual = res
	tr.Condition = mat.Cond(a, 2)

	log.GetLoggerWithName("linsys").Debug("linear system solved",
		log.MethodKey, tr.Method.String(),
		log.DimensionKey, len(x),
		log.LogDeterminantKey, tr.LogDeterminant,
		log.ConditionKey, finite(tr.Condition),
		"residual", res,
	)
	return &Solution{X: x, Trace: tr}, nil
}

func rowOpStep(target, source int, factor float64) string {
	return fmt.Sprintf("R%d <- R%d - (%g)*R%d", target+1, target+1, factor, source+1)
}

func rowSwapStep(i, j int) string {
	return fmt.Sprintf("swap R%d <-> R%d", i+1, j+1)
}

func colSwapStep(i, j int) string {
	return fmt.Sprintf("swap C%d <-> C%d", i+1, j+1)
}
