package nn

import "fmt"

// Model is an ordered list of layers. A Model is immutable after
// construction or loading and is safe for concurrent use.
type Model struct {
	layers []Layer
}

// NewModel builds a model from layers, validating that adjacent
// layers agree on their dimensions.
func NewModel(layers ...Layer) (*Model, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyModel
	}

	for i := 1; i < len(layers); i++ {
		prev := layers[i-1].outputSize()
		cur := layers[i].inputSize()
		if prev != cur {
			return nil, fmt.Errorf("%w: layer %d emits %d values, layer %d expects %d",
				ErrDimensionMismatch, i-1, prev, i, cur)
		}
	}

	return &Model{layers: layers}, nil
}

// InputSize returns the expected per-frame input width.
func (m *Model) InputSize() int { return m.layers[0].inputSize() }

// OutputSize returns the per-frame output width.
func (m *Model) OutputSize() int { return m.layers[len(m.layers)-1].outputSize() }

// Process runs the full sequence through all layers. The output has
// one vector per input frame. Process is stateless across calls.
func (m *Model) Process(seq [][]float64) ([][]float64, error) {
	if len(seq) > 0 && len(seq[0]) != m.InputSize() {
		return nil, fmt.Errorf("%w: input width %d, model expects %d",
			ErrDimensionMismatch, len(seq[0]), m.InputSize())
	}

	cur := seq
	for _, layer := range m.layers {
		next, err := layer.Process(cur)
		if err != nil {
			return nil, err
		}

		cur = next
	}

	return cur, nil
}
