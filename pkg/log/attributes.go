// Package log defines standard attribute keys for numerical method logging.
//
// Keys follow a hierarchical naming convention ("method.name",
// "solver.iteration") so log lines from different components can be filtered
// and aggregated uniformly.

package log

// Method and component context.
const (
	// MethodKey identifies the algorithm variant.
	// Examples: "neville", "simpson_3_8", "rk4", "newton_raphson"
	MethodKey = "method.name"

	// ComponentKey identifies the package performing the operation.
	// Examples: "interpolation", "linsys", "ode"
	ComponentKey = "numeric.component"

	// OperationKey specifies the exported function being executed.
	OperationKey = "numeric.operation"
)

// Input shape.
const (
	// PointsKey is the number of nodes or samples supplied.
	PointsKey = "data.points"

	// IntervalsKey is the number of subintervals or ODE steps.
	IntervalsKey = "data.intervals"

	// DimensionKey is the size of a linear system or ODE system.
	DimensionKey = "data.dimension"

	// StepSizeKey records the step size h.
	StepSizeKey = "data.step_size"
)

// Iterative solver progress.
const (
	// IterationKey records the current iteration or step number.
	IterationKey = "solver.iteration"

	// ToleranceKey records the configured convergence tolerance.
	ToleranceKey = "solver.tolerance"

	// MaxIterationsKey records the iteration budget.
	MaxIterationsKey = "solver.max_iterations"

	// ErrorEstimateKey records the current error estimate.
	ErrorEstimateKey = "solver.error_estimate"

	// ConvergedKey records whether the solver met its tolerance.
	ConvergedKey = "solver.converged"

	// EvaluationsKey records the number of function evaluations.
	EvaluationsKey = "solver.evaluations"
)

// Results and diagnostics.
const (
	// ResultKey records a scalar result.
	ResultKey = "result.value"

	// DeterminantKey records a determinant computed during elimination.
	DeterminantKey = "result.determinant"

	// LogDeterminantKey records log|det| when the determinant itself may overflow.
	LogDeterminantKey = "result.log_determinant"

	// ConditionKey records a matrix condition number.
	ConditionKey = "result.condition"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// SuggestionKey provides a hint for resolving an issue.
	SuggestionKey = "error.suggestion"
)

// Standard error codes.
const (
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorPrecondition      = "PRECONDITION_FAILED"
	ErrorExpression        = "INVALID_EXPRESSION"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorInstability       = "NUMERICAL_INSTABILITY"
)
