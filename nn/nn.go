// Package nn implements inference for the small recurrent networks
// used as onset and beat predictors.
//
// Only the forward pass is provided; weights are supplied pre-trained
// and are never modified. Models are loaded once per process through
// [Cache] and shared read-only across concurrent invocations.
package nn

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Activation identifies a unit transfer function. The set is closed.
type Activation int

const (
	ActLinear Activation = iota
	ActSigmoid
	ActTanh
)

// Valid reports whether a is a known transfer function.
func (a Activation) Valid() bool {
	return a >= ActLinear && a <= ActTanh
}

func (a Activation) apply(v float64) float64 {
	switch a {
	case ActSigmoid:
		return 1 / (1 + math.Exp(-v))
	case ActTanh:
		return math.Tanh(v)
	default:
		return v
	}
}

// Layer is one processing stage of a model. Implementations consume
// the full input sequence; bidirectional layers may therefore use
// both past and future frames for any output frame.
type Layer interface {
	// Process maps an input sequence to an output sequence of the
	// same length.
	Process(seq [][]float64) ([][]float64, error)

	inputSize() int
	outputSize() int
}

// Dense is a fully connected feedforward layer.
type Dense struct {
	// W is the weight matrix, one row per output unit.
	W [][]float64
	// B is the per-unit bias.
	B []float64
	// Act is the unit transfer function.
	Act Activation
}

func (l *Dense) inputSize() int {
	if len(l.W) == 0 {
		return 0
	}

	return len(l.W[0])
}

func (l *Dense) outputSize() int { return len(l.W) }

// Process applies the layer frame by frame.
func (l *Dense) Process(seq [][]float64) ([][]float64, error) {
	out := make([][]float64, len(seq))
	for t, x := range seq {
		if len(x) != l.inputSize() {
			return nil, fmt.Errorf("%w: frame %d has %d inputs, dense layer expects %d",
				ErrDimensionMismatch, t, len(x), l.inputSize())
		}

		y := make([]float64, len(l.W))
		for u, row := range l.W {
			y[u] = l.Act.apply(vecmath.DotProduct(row, x) + l.B[u])
		}

		out[t] = y
	}

	return out, nil
}

// Recurrent is a simple recurrent layer with a tanh-class transfer
// function. With Backwards set it consumes the sequence in reverse
// time order (outputs are returned in forward order).
type Recurrent struct {
	// W is the input weight matrix, one row per unit.
	W [][]float64
	// R is the recurrent weight matrix, one row per unit.
	R [][]float64
	// B is the per-unit bias.
	B []float64
	// Act is the unit transfer function.
	Act Activation
	// Backwards processes the sequence in reverse time order.
	Backwards bool
}

func (l *Recurrent) inputSize() int {
	if len(l.W) == 0 {
		return 0
	}

	return len(l.W[0])
}

func (l *Recurrent) outputSize() int { return len(l.W) }

// Process applies the recurrence over the full sequence.
func (l *Recurrent) Process(seq [][]float64) ([][]float64, error) {
	n := len(seq)
	out := make([][]float64, n)
	state := make([]float64, len(l.W))

	for step := 0; step < n; step++ {
		t := step
		if l.Backwards {
			t = n - 1 - step
		}

		x := seq[t]
		if len(x) != l.inputSize() {
			return nil, fmt.Errorf("%w: frame %d has %d inputs, recurrent layer expects %d",
				ErrDimensionMismatch, t, len(x), l.inputSize())
		}

		y := make([]float64, len(l.W))
		for u := range l.W {
			y[u] = l.Act.apply(vecmath.DotProduct(l.W[u], x) +
				vecmath.DotProduct(l.R[u], state) + l.B[u])
		}

		out[t] = y
		state = y
	}

	return out, nil
}

// Bidirectional runs a forward and a backward recurrent pass and
// concatenates their per-frame outputs.
type Bidirectional struct {
	Fwd Layer
	Bwd Layer
}

func (l *Bidirectional) inputSize() int { return l.Fwd.inputSize() }

func (l *Bidirectional) outputSize() int {
	return l.Fwd.outputSize() + l.Bwd.outputSize()
}

// Process runs both directions over the full sequence.
func (l *Bidirectional) Process(seq [][]float64) ([][]float64, error) {
	fwd, err := l.Fwd.Process(seq)
	if err != nil {
		return nil, err
	}

	bwd, err := l.Bwd.Process(seq)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(seq))
	for t := range out {
		y := make([]float64, 0, len(fwd[t])+len(bwd[t]))
		y = append(y, fwd[t]...)
		y = append(y, bwd[t]...)
		out[t] = y
	}

	return out, nil
}
