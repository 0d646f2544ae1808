// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 数値計算の失敗を種類ごとの型付きエラーとして表現し、NaN/Infを正常値として返さないことを保証します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("scinum-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// ConvergenceWarningなどの警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は反復法が許容誤差に到達する前に反復回数の上限に達した場合の警告です。
// 求根法はこの場合でも最後の反復値を返します。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iterations or the tolerance.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// ExtrapolationWarning はRichardson外挿の前提（刻み幅の比が2）が満たされていない場合の警告です。
// (4·D2 − D1)/3 の係数は h2 = h1/2 かつ2次精度の基本公式を仮定しています。
type ExtrapolationWarning struct {
	Op    string
	H1    float64
	H2    float64
	Ratio float64
}

func (w *ExtrapolationWarning) Error() string {
	return fmt.Sprintf("%s: step ratio h1/h2 = %g (h1=%g, h2=%g); the (4*D2 - D1)/3 combination assumes a ratio of 2",
		w.Op, w.Ratio, w.H1, w.H2)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ExtrapolationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Float64("h1", w.H1).
		Float64("h2", w.H2).
		Float64("ratio", w.Ratio).
		Str("type", "ExtrapolationWarning")
}

// NewExtrapolationWarning は新しいExtrapolationWarningを作成します。
func NewExtrapolationWarning(op string, h1, h2 float64) *ExtrapolationWarning {
	return &ExtrapolationWarning{Op: op, H1: h1, H2: h2, Ratio: h1 / h2}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// DimensionError は入力配列・行列の次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows / sequence length, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("scinum: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 点数不足、不正な分割数、非正の刻み幅や許容誤差などを表します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scinum: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切な場合の汎用エラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("scinum: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// PreconditionError はアルゴリズムの数値的前提条件が満たされない場合のエラーです。
// Err には ErrZeroPivot などの番兵エラーが入り、errors.Is で種類を判定できます。
type PreconditionError struct {
	Op     string
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("scinum: %s: %v: %s", e.Op, e.Err, e.Reason)
	}
	return fmt.Sprintf("scinum: %s: %v", e.Op, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *PreconditionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("kind", fmt.Sprint(e.Err)).
		Str("type", "PreconditionError")
}

// NewPreconditionError は新しいPreconditionErrorを作成し、スタックトレースを付与します。
func NewPreconditionError(op string, kind error, reason string) error {
	err := &PreconditionError{Op: op, Reason: reason, Err: kind}
	return errors.WithStack(err)
}

// NewPreconditionErrorf はフォーマット済みの理由を持つPreconditionErrorを作成します。
func NewPreconditionErrorf(op string, kind error, format string, args ...interface{}) error {
	return NewPreconditionError(op, kind, fmt.Sprintf(format, args...))
}

// ExpressionError はユーザーが与えた数式の字句解析・構文解析・束縛に失敗した場合のエラーです。
// 数値的前提条件の違反とは区別され、利用者向けのメッセージとして扱われます。
type ExpressionError struct {
	Expr   string
	Pos    int // 0-based byte offset, -1 when unknown
	Reason string
}

func (e *ExpressionError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("scinum: invalid expression %q at offset %d: %s", e.Expr, e.Pos, e.Reason)
	}
	return fmt.Sprintf("scinum: invalid expression %q: %s", e.Expr, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ExpressionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("expr", e.Expr).
		Int("pos", e.Pos).
		Str("reason", e.Reason).
		Str("type", "ExpressionError")
}

// NewExpressionError は新しいExpressionErrorを作成し、スタックトレースを付与します。
func NewExpressionError(expr string, pos int, reason string) error {
	err := &ExpressionError{Expr: expr, Pos: pos, Reason: reason}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	数値計算のエラー型
//
// ===========================================================================

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// NaN、Inf、オーバーフローなどを検出します。
type NumericalInstabilityError struct {
	Operation string                 // 発生した操作（例: "ode.rk4", "expr.eval"）
	Values    []float64              // 問題のある値
	Context   map[string]interface{} // デバッグ用の追加コンテキスト情報
	Iteration int                    // 発生した反復・ステップ番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("scinum: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
		Context:   make(map[string]interface{}),
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列（ピボットが閾値未満）の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrZeroPivot はピボットなし消去でピボットが厳密に0になった場合のエラーです。
	ErrZeroPivot = New("zero pivot")

	// ErrNotSymmetric は対称性が要求される行列が対称でない場合のエラーです。
	ErrNotSymmetric = New("matrix is not symmetric")

	// ErrNotPositiveDefinite は正定値性が要求される行列が正定値でない場合のエラーです。
	ErrNotPositiveDefinite = New("matrix is not positive definite")

	// ErrDuplicateNode は補間節点が重複している場合のエラーです。
	ErrDuplicateNode = New("duplicate interpolation node")

	// ErrOddIntervals はSimpson 1/3則で分割数が奇数の場合のエラーです。
	ErrOddIntervals = New("number of intervals must be even")

	// ErrIntervalsNotMultipleOf3 はSimpson 3/8則で分割数が3の倍数でない場合のエラーです。
	ErrIntervalsNotMultipleOf3 = New("number of intervals must be a multiple of 3")

	// ErrUnsupportedPoints はGauss-Legendre求積で未対応の点数が指定された場合のエラーです。
	ErrUnsupportedPoints = New("unsupported number of Gauss points")

	// ErrUnsupportedBase はRichardson外挿に2次精度でない基本公式が指定された場合のエラーです。
	ErrUnsupportedBase = New("unsupported base formula for Richardson extrapolation")

	// ErrNoSignChange は挟み込み法で区間端の符号が変わらない場合のエラーです。
	ErrNoSignChange = New("no sign change on the bracketing interval")

	// ErrFlatSecant は割線の傾きがほぼ0の場合のエラーです。
	ErrFlatSecant = New("near-horizontal secant")

	// ErrZeroDerivative はNewton-Raphson法で導関数がほぼ0の場合のエラーです。
	ErrZeroDerivative = New("derivative is near zero")

	// ErrCoincidentSeeds はMüller法の初期値が一致している場合のエラーです。
	ErrCoincidentSeeds = New("coincident seeds")

	// ErrComplexRoot はMüller法の判別式が負で実根が得られない場合のエラーです。
	ErrComplexRoot = New("quadratic step has no real root")

	// ErrSmallDenominator はMüller法の更新式の分母がほぼ0の場合のエラーです。
	ErrSmallDenominator = New("denominator is too small")

	// ErrNonUniformGrid は等間隔の格子が必要な差分公式に不等間隔の節点が渡された場合のエラーです。
	ErrNonUniformGrid = New("nodes are not uniformly spaced")
)
