package ode

import (
	"strings"

	"github.com/YuminosukeSato/scinum/pkg/errors"
)

// Method selects an integration scheme.
type Method int

const (
	Euler Method = iota
	Taylor2
	Taylor3
	Taylor4
	RK3
	RK4
	RKF45
	AdamsBashforth
	AdamsMoulton
)

var methodNames = [...]string{
	Euler:          "euler",
	Taylor2:        "taylor_2",
	Taylor3:        "taylor_3",
	Taylor4:        "taylor_4",
	RK3:            "rk3",
	RK4:            "rk4",
	RKF45:          "rkf45",
	AdamsBashforth: "adams_bashforth",
	AdamsMoulton:   "adams_moulton",
}

// String returns the identifier accepted by ParseMethod.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

// TaylorOrder returns the order of a Taylor method and 0 for any other.
func (m Method) TaylorOrder() int {
	switch m {
	case Taylor2:
		return 2
	case Taylor3:
		return 3
	case Taylor4:
		return 4
	default:
		return 0
	}
}

// IsMultistep reports whether m needs at least four steps.
func (m Method) IsMultistep() bool {
	return m == AdamsBashforth || m == AdamsMoulton
}

// ParseMethod maps an identifier such as "rk4" or "taylor_3" to a Method.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, s := range methodNames {
		if s == key {
			return Method(i), nil
		}
	}
	return 0, errors.NewValidationError("method", "unknown ODE method", name)
}
