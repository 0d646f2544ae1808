package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreconditionError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     error
		reason   string
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with reason",
			op:       "linsys.GaussNoPivot",
			kind:     ErrZeroPivot,
			reason:   "pivot at row 2 is exactly zero",
			wantMsg:  "scinum: linsys.GaussNoPivot: zero pivot: pivot at row 2 is exactly zero",
			hasStack: true,
		},
		{
			name:     "without reason",
			op:       "integration.Simpson13",
			kind:     ErrOddIntervals,
			reason:   "",
			wantMsg:  "scinum: integration.Simpson13: number of intervals must be even",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPreconditionError(tt.op, tt.kind, tt.reason)

			// 基本的なエラーメッセージの確認
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var preErr *PreconditionError
			if !As(err, &preErr) {
				t.Error("Error should be castable to *PreconditionError")
			}

			// 番兵エラーで種類を判定できること
			if !Is(err, tt.kind) {
				t.Errorf("Is(err, %v) = false, want true", tt.kind)
			}
		})
	}
}

func TestNewPreconditionErrorf(t *testing.T) {
	err := NewPreconditionErrorf("roots.Bisection", ErrNoSignChange, "f(%g)=%g, f(%g)=%g", 0.0, 1.0, 1.0, 2.0)
	assert.True(t, Is(err, ErrNoSignChange))
	assert.Contains(t, err.Error(), "f(0)=1, f(1)=2")
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("interpolation.Neville", 4, 3, 0)

	want := "scinum: interpolation.Neville: dimension mismatch on axis 0 (rows). Expected 4, got 3"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("n", "must be at least 4 for multistep methods", 3)

	want := "scinum: validation failed for parameter 'n': must be at least 4 for multistep methods (got: 3)"
	assert.Equal(t, want, err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "n", valErr.ParamName)
	assert.Equal(t, 3, valErr.Value)
}

func TestNewExpressionError(t *testing.T) {
	tests := []struct {
		name    string
		pos     int
		wantMsg string
	}{
		{
			name:    "with position",
			pos:     3,
			wantMsg: `scinum: invalid expression "x +* y" at offset 3: unexpected token "*"`,
		},
		{
			name:    "without position",
			pos:     -1,
			wantMsg: `scinum: invalid expression "x +* y": unexpected token "*"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewExpressionError("x +* y", tt.pos, `unexpected token "*"`)
			assert.Equal(t, tt.wantMsg, err.Error())

			var exprErr *ExpressionError
			assert.True(t, As(err, &exprErr))

			// 数値的前提条件のエラーとは区別される
			var preErr *PreconditionError
			assert.False(t, As(err, &preErr))
		})
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("bisection", 100, "|b-a| = 1.2e-3")

	want := "bisection failed to converge after 100 iterations: |b-a| = 1.2e-3"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("Warning should be castable to *ConvergenceWarning")
	}
}

func TestExtrapolationWarning(t *testing.T) {
	warn := NewExtrapolationWarning("differentiation.Richardson", 0.1, 0.03)
	assert.InDelta(t, 0.1/0.03, warn.Ratio, 1e-12)
	assert.Contains(t, warn.Error(), "assumes a ratio of 2")
}

func TestWarnRoutesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	SetZerologWarnFunc(func(w error) {
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(m).Msg(w.Error())
			return
		}
		logger.Warn().Msg(w.Error())
	})
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("secant", 50, ""))

	out := buf.String()
	assert.Contains(t, out, `"algorithm":"secant"`)
	assert.Contains(t, out, `"type":"ConvergenceWarning"`)
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewConvergenceWarning("newton_raphson", 10, ""))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error(), "newton_raphson")
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrSingularMatrix, "in linsys.GaussPartialPivot")

	if !Is(wrapped, ErrSingularMatrix) {
		t.Error("Expected Is(wrapped, ErrSingularMatrix) to be true")
	}

	if !strings.Contains(wrapped.Error(), "in linsys.GaussPartialPivot") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Trapezoid", 11, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Trapezoid: expected 11, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(NewDimensionError("op", 1, 2, 0)))
	assert.True(t, IsInputError(NewValidationError("h", "must be positive", 0.0)))
	assert.True(t, IsInputError(Wrap(NewPreconditionError("op", ErrZeroPivot, ""), "context")))
	assert.True(t, IsInputError(NewExpressionError("x+", 2, "unexpected end of input")))
	assert.False(t, IsInputError(New("boom")))
	assert.False(t, IsInputError(NewPanicError("op", "boom")))
}
