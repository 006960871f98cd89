// Package scalar defines the numeric trait the pose storage is generic over.
// The registry itself (ids, names, hierarchy) never touches a scalar; only
// poses and derived pose quantities are parameterized.
package scalar

import (
	"math"

	"github.com/chewxy/math32"
)

// Value is the set of operations a scalar backend must support. FromFloat
// lifts a plain float64 constant into the backend; Float extracts the
// derivative-free value back out.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T
	Sqrt() T
	FromFloat(float64) T
	Float() float64
	Equal(T) bool
}

// Float64 is the default scalar backend.
type Float64 float64

func (a Float64) Add(b Float64) Float64      { return a + b }
func (a Float64) Sub(b Float64) Float64      { return a - b }
func (a Float64) Mul(b Float64) Float64      { return a * b }
func (a Float64) Div(b Float64) Float64      { return a / b }
func (a Float64) Neg() Float64               { return -a }
func (a Float64) Sqrt() Float64              { return Float64(math.Sqrt(float64(a))) }
func (a Float64) FromFloat(v float64) Float64 { return Float64(v) }
func (a Float64) Float() float64             { return float64(a) }
func (a Float64) Equal(b Float64) bool       { return a == b }

// Float32 is a reduced-precision backend for memory-constrained scenes.
type Float32 float32

func (a Float32) Add(b Float32) Float32      { return a + b }
func (a Float32) Sub(b Float32) Float32      { return a - b }
func (a Float32) Mul(b Float32) Float32      { return a * b }
func (a Float32) Div(b Float32) Float32      { return a / b }
func (a Float32) Neg() Float32               { return -a }
func (a Float32) Sqrt() Float32              { return Float32(math32.Sqrt(float32(a))) }
func (a Float32) FromFloat(v float64) Float32 { return Float32(v) }
func (a Float32) Float() float64             { return float64(a) }
func (a Float32) Equal(b Float32) bool       { return a == b }

// Dual is a forward-mode value/derivative pair. Arithmetic carries the
// derivative through the usual rules; Float drops it.
type Dual struct {
	Real  float64
	Deriv float64
}

// NewDual returns a dual number with the given value and derivative.
func NewDual(real, deriv float64) Dual { return Dual{Real: real, Deriv: deriv} }

func (a Dual) Add(b Dual) Dual { return Dual{a.Real + b.Real, a.Deriv + b.Deriv} }
func (a Dual) Sub(b Dual) Dual { return Dual{a.Real - b.Real, a.Deriv - b.Deriv} }

func (a Dual) Mul(b Dual) Dual {
	return Dual{a.Real * b.Real, a.Real*b.Deriv + a.Deriv*b.Real}
}

func (a Dual) Div(b Dual) Dual {
	return Dual{
		a.Real / b.Real,
		(a.Deriv*b.Real - a.Real*b.Deriv) / (b.Real * b.Real),
	}
}

func (a Dual) Neg() Dual { return Dual{-a.Real, -a.Deriv} }

func (a Dual) Sqrt() Dual {
	r := math.Sqrt(a.Real)
	return Dual{r, a.Deriv / (2 * r)}
}

func (a Dual) FromFloat(v float64) Dual { return Dual{Real: v} }
func (a Dual) Float() float64           { return a.Real }
func (a Dual) Equal(b Dual) bool        { return a.Real == b.Real && a.Deriv == b.Deriv }
