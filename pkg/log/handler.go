package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	numerr "github.com/YuminosukeSato/scinum/pkg/errors"
)

// ErrFmtHandler decorates records that carry an error under ErrAttrKey.
// It adds the cockroachdb stack trace and, for scinum error kinds, the
// failing operation together with a stable error code and type.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps handler with an ErrFmtHandler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{handler: handler}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			err, _ = attr.Value.Any().(error)
			return false
		}
		return true
	})
	if err != nil {
		r.AddAttrs(errorAttrs(err)...)
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// errorAttrs returns the attributes describing err.
func errorAttrs(err error) []slog.Attr {
	var attrs []slog.Attr
	if st := extractStacktrace(err); st != "" {
		attrs = append(attrs, slog.String(StacktraceAttrKey, st))
	}
	op, code, kind := classify(err)
	if op != "" {
		attrs = append(attrs, slog.String(OperationKey, op))
	}
	if code != "" {
		attrs = append(attrs, slog.String(ErrorCodeKey, code), slog.String(ErrorTypeKey, kind))
	}
	return attrs
}

// classify maps scinum error kinds to the operation that failed and an
// error code from this package.
func classify(err error) (op, code, kind string) {
	var (
		dimErr   *numerr.DimensionError
		valErr   *numerr.ValidationError
		valueErr *numerr.ValueError
		preErr   *numerr.PreconditionError
		exprErr  *numerr.ExpressionError
		numErr   *numerr.NumericalInstabilityError
	)
	switch {
	case errors.As(err, &preErr):
		code = ErrorPrecondition
		if errors.Is(err, numerr.ErrZeroPivot) || errors.Is(err, numerr.ErrSingularMatrix) {
			code = ErrorSingularMatrix
		}
		return preErr.Op, code, "PreconditionError"
	case errors.As(err, &dimErr):
		return dimErr.Op, ErrorDimensionMismatch, "DimensionError"
	case errors.As(err, &numErr):
		return numErr.Operation, ErrorInstability, "NumericalInstabilityError"
	case errors.As(err, &exprErr):
		return "", ErrorExpression, "ExpressionError"
	case errors.As(err, &valErr):
		return "", ErrorInvalidInput, "ValidationError"
	case errors.As(err, &valueErr):
		return valueErr.Op, ErrorInvalidInput, "ValueError"
	}
	return "", "", ""
}

func extractStacktrace(err error) string {
	if details := errors.GetSafeDetails(err).SafeDetails; len(details) > 0 {
		return details[0]
	}
	return ""
}
