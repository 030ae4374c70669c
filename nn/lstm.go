package nn

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// LSTM is a standard four-gate long short-term memory layer. With
// Backwards set it consumes the sequence in reverse time order.
type LSTM struct {
	// Input weight matrices, one row per unit.
	WI, WF, WC, WO [][]float64
	// Recurrent weight matrices, one row per unit.
	RI, RF, RC, RO [][]float64
	// Per-unit gate biases.
	BI, BF, BC, BO []float64
	// Backwards processes the sequence in reverse time order.
	Backwards bool
}

func (l *LSTM) inputSize() int {
	if len(l.WI) == 0 {
		return 0
	}

	return len(l.WI[0])
}

func (l *LSTM) outputSize() int { return len(l.WI) }

// Process applies the cell over the full sequence.
func (l *LSTM) Process(seq [][]float64) ([][]float64, error) {
	n := len(seq)
	units := l.outputSize()

	out := make([][]float64, n)
	hidden := make([]float64, units)
	cell := make([]float64, units)

	for step := 0; step < n; step++ {
		t := step
		if l.Backwards {
			t = n - 1 - step
		}

		x := seq[t]
		if len(x) != l.inputSize() {
			return nil, fmt.Errorf("%w: frame %d has %d inputs, lstm layer expects %d",
				ErrDimensionMismatch, t, len(x), l.inputSize())
		}

		next := make([]float64, units)
		nextCell := make([]float64, units)

		for u := 0; u < units; u++ {
			in := ActSigmoid.apply(vecmath.DotProduct(l.WI[u], x) +
				vecmath.DotProduct(l.RI[u], hidden) + l.BI[u])
			forget := ActSigmoid.apply(vecmath.DotProduct(l.WF[u], x) +
				vecmath.DotProduct(l.RF[u], hidden) + l.BF[u])
			cand := ActTanh.apply(vecmath.DotProduct(l.WC[u], x) +
				vecmath.DotProduct(l.RC[u], hidden) + l.BC[u])
			outGate := ActSigmoid.apply(vecmath.DotProduct(l.WO[u], x) +
				vecmath.DotProduct(l.RO[u], hidden) + l.BO[u])

			nextCell[u] = forget*cell[u] + in*cand
			next[u] = outGate * ActTanh.apply(nextCell[u])
		}

		hidden = next
		cell = nextCell
		out[t] = next
	}

	return out, nil
}
