package nn

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// Model files are gob streams of a version-tagged layer list. The
// layer specs mirror the exported layer fields; the indirection keeps
// the wire format independent of the Layer interface.
const modelFileVersion = 1

type layerKind string

const (
	kindDense         layerKind = "dense"
	kindRecurrent     layerKind = "recurrent"
	kindBidirectional layerKind = "bidirectional"
	kindLSTM          layerKind = "lstm"
)

type layerSpec struct {
	Kind      layerKind
	Act       Activation
	Backwards bool

	W [][]float64
	R [][]float64
	B []float64

	// LSTM gate weights.
	WI, WF, WC, WO [][]float64
	RI, RF, RC, RO [][]float64
	BI, BF, BC, BO []float64

	// Bidirectional halves.
	Fwd *layerSpec
	Bwd *layerSpec
}

type modelFile struct {
	Version int
	Layers  []layerSpec
}

// SaveModel writes m to path.
func SaveModel(m *Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nn: save model: %w", err)
	}
	defer f.Close()

	return EncodeModel(m, f)
}

// LoadModel reads a model previously written by SaveModel. A missing
// or corrupt file is an error; there is no silent fallback.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nn: load model: %w", err)
	}
	defer f.Close()

	m, err := DecodeModel(f)
	if err != nil {
		return nil, fmt.Errorf("nn: load model %s: %w", path, err)
	}

	return m, nil
}

// EncodeModel writes the binary representation of m to w.
func EncodeModel(m *Model, w io.Writer) error {
	file := modelFile{Version: modelFileVersion}

	for _, layer := range m.layers {
		spec, err := specFromLayer(layer)
		if err != nil {
			return err
		}

		file.Layers = append(file.Layers, *spec)
	}

	if err := gob.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("nn: encode model: %w", err)
	}

	return nil
}

// DecodeModel reads a model from r.
func DecodeModel(r io.Reader) (*Model, error) {
	var file modelFile
	if err := gob.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelFormat, err)
	}

	if file.Version != modelFileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrModelFormat, file.Version)
	}

	layers := make([]Layer, len(file.Layers))
	for i := range file.Layers {
		layer, err := layerFromSpec(&file.Layers[i])
		if err != nil {
			return nil, err
		}

		layers[i] = layer
	}

	return NewModel(layers...)
}

func specFromLayer(layer Layer) (*layerSpec, error) {
	switch l := layer.(type) {
	case *Dense:
		return &layerSpec{Kind: kindDense, Act: l.Act, W: l.W, B: l.B}, nil
	case *Recurrent:
		return &layerSpec{
			Kind: kindRecurrent, Act: l.Act, Backwards: l.Backwards,
			W: l.W, R: l.R, B: l.B,
		}, nil
	case *LSTM:
		return &layerSpec{
			Kind: kindLSTM, Backwards: l.Backwards,
			WI: l.WI, WF: l.WF, WC: l.WC, WO: l.WO,
			RI: l.RI, RF: l.RF, RC: l.RC, RO: l.RO,
			BI: l.BI, BF: l.BF, BC: l.BC, BO: l.BO,
		}, nil
	case *Bidirectional:
		fwd, err := specFromLayer(l.Fwd)
		if err != nil {
			return nil, err
		}

		bwd, err := specFromLayer(l.Bwd)
		if err != nil {
			return nil, err
		}

		return &layerSpec{Kind: kindBidirectional, Fwd: fwd, Bwd: bwd}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported layer %T", ErrModelFormat, layer)
	}
}

func layerFromSpec(spec *layerSpec) (Layer, error) {
	switch spec.Kind {
	case kindDense:
		return &Dense{W: spec.W, B: spec.B, Act: spec.Act}, nil
	case kindRecurrent:
		return &Recurrent{
			W: spec.W, R: spec.R, B: spec.B,
			Act: spec.Act, Backwards: spec.Backwards,
		}, nil
	case kindLSTM:
		return &LSTM{
			WI: spec.WI, WF: spec.WF, WC: spec.WC, WO: spec.WO,
			RI: spec.RI, RF: spec.RF, RC: spec.RC, RO: spec.RO,
			BI: spec.BI, BF: spec.BF, BC: spec.BC, BO: spec.BO,
			Backwards: spec.Backwards,
		}, nil
	case kindBidirectional:
		if spec.Fwd == nil || spec.Bwd == nil {
			return nil, fmt.Errorf("%w: bidirectional layer missing halves", ErrModelFormat)
		}

		fwd, err := layerFromSpec(spec.Fwd)
		if err != nil {
			return nil, err
		}

		bwd, err := layerFromSpec(spec.Bwd)
		if err != nil {
			return nil, err
		}

		return &Bidirectional{Fwd: fwd, Bwd: bwd}, nil
	default:
		return nil, fmt.Errorf("%w: unknown layer kind %q", ErrModelFormat, spec.Kind)
	}
}
