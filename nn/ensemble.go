package nn

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-onset/activation"
)

// Ensemble is a fixed, read-only set of models whose outputs are
// averaged elementwise into one activation function.
type Ensemble struct {
	members []*Model
}

// NewEnsemble builds an ensemble, validating that all members agree
// on input and output dimensionality.
func NewEnsemble(members ...*Model) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: ensemble has no members", ErrEmptyModel)
	}

	inSize := members[0].InputSize()
	outSize := members[0].OutputSize()

	for i, m := range members[1:] {
		if m.InputSize() != inSize || m.OutputSize() != outSize {
			return nil, fmt.Errorf("%w: member %d is %dx%d, member 0 is %dx%d",
				ErrDimensionMismatch, i+1, m.InputSize(), m.OutputSize(), inSize, outSize)
		}
	}

	return &Ensemble{members: members}, nil
}

// Size returns the number of ensemble members.
func (e *Ensemble) Size() int { return len(e.members) }

// Process runs the feature sequence through every member concurrently
// and averages the per-frame outputs into an activation at fps.
//
// Averaging is order-independent: members are summed in their fixed
// ensemble order regardless of completion order.
func (e *Ensemble) Process(seq [][]float64, fps float64) (*activation.Activation, error) {
	outputs := make([][][]float64, len(e.members))

	var g errgroup.Group
	for i, m := range e.members {
		g.Go(func() error {
			out, err := m.Process(seq)
			if err != nil {
				return err
			}

			outputs[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	width := e.members[0].OutputSize()
	for i, out := range outputs {
		if len(out) != len(seq) {
			return nil, fmt.Errorf("%w: member %d emitted %d frames, want %d",
				ErrDimensionMismatch, i, len(out), len(seq))
		}
	}

	data := make([]float64, len(seq)*width)
	scale := 1 / float64(len(e.members))

	for t := 0; t < len(seq); t++ {
		for c := 0; c < width; c++ {
			sum := 0.0
			for _, out := range outputs {
				sum += out[t][c]
			}

			data[t*width+c] = sum * scale
		}
	}

	return &activation.Activation{Data: data, Width: width, FPS: fps}, nil
}
