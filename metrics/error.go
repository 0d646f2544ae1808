// Package metrics は数値解と参照値の誤差指標を提供します。
// ODEの厳密解との比較や連立一次方程式の残差評価に使用されます。
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

func checkPair(op string, want, got []float64) error {
	if len(want) == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if len(got) != len(want) {
		return errors.NewDimensionError(op, len(want), len(got), 0)
	}
	return nil
}

// AbsErrors は要素ごとの絶対誤差 |want_i - got_i| を返す
func AbsErrors(want, got []float64) ([]float64, error) {
	if err := checkPair("AbsErrors", want, got); err != nil {
		return nil, err
	}
	out := make([]float64, len(want))
	floats.SubTo(out, want, got)
	for i, d := range out {
		out[i] = math.Abs(d)
	}
	return out, nil
}

// MaxAbsError は最大絶対誤差（L∞ノルム）を計算する
func MaxAbsError(want, got []float64) (float64, error) {
	if err := checkPair("MaxAbsError", want, got); err != nil {
		return 0, err
	}
	return floats.Distance(want, got, math.Inf(1)), nil
}

// MSE は平均二乗誤差を計算する
func MSE(want, got []float64) (float64, error) {
	if err := checkPair("MSE", want, got); err != nil {
		return 0, err
	}
	d := floats.Distance(want, got, 2)
	return d * d / float64(len(want)), nil
}

// RMSE は平方根平均二乗誤差を計算する
func RMSE(want, got []float64) (float64, error) {
	mse, err := MSE(want, got)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差を計算する
func MAE(want, got []float64) (float64, error) {
	if err := checkPair("MAE", want, got); err != nil {
		return 0, err
	}
	return floats.Distance(want, got, 1) / float64(len(want)), nil
}

// Residual は残差ベクトル b - A·x を返す
func Residual(a mat.Matrix, x, b []float64) ([]float64, error) {
	r, c := a.Dims()
	if len(x) != c {
		return nil, errors.NewDimensionError("Residual", c, len(x), 1)
	}
	if len(b) != r {
		return nil, errors.NewDimensionError("Residual", r, len(b), 0)
	}
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(c, x))
	out := make([]float64, r)
	floats.SubTo(out, b, ax.RawVector().Data)
	return out, nil
}

// ResidualNorm は残差の2ノルム ||b - A·x||₂ を計算する
func ResidualNorm(a mat.Matrix, x, b []float64) (float64, error) {
	res, err := Residual(a, x, b)
	if err != nil {
		return 0, err
	}
	return floats.Norm(res, 2), nil
}
