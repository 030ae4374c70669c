package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-onset/dsp/core"
)

func TestSine(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(8))

	out, err := g.Sine(1, 1, 8)
	if err != nil {
		t.Fatalf("Sine error: %v", err)
	}

	if math.Abs(out[2]-1) > 1e-12 {
		t.Fatalf("out[2]=%f want=1", out[2])
	}

	if _, err := g.Sine(1, 1, 0); err == nil {
		t.Fatalf("expected error for zero samples")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	gen := func() *Generator {
		return NewGeneratorWithOptions(nil, WithSeed(7))
	}

	a, err := gen().WhiteNoise(0.5, 64)
	if err != nil {
		t.Fatalf("WhiteNoise error: %v", err)
	}

	b, err := gen().WhiteNoise(0.5, 64)
	if err != nil {
		t.Fatalf("WhiteNoise error: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at %d", i)
		}
		if math.Abs(a[i]) > 0.5 {
			t.Fatalf("noise exceeds amplitude at %d: %f", i, a[i])
		}
	}
}

func TestClickTrack(t *testing.T) {
	g := NewGenerator()

	if g.Config().SampleRate != 44100 {
		t.Fatalf("default sample rate %f want 44100", g.Config().SampleRate)
	}

	out, err := g.ClickTrack(120, 0.1, 2)
	if err != nil {
		t.Fatalf("ClickTrack error: %v", err)
	}

	if len(out) != 2*44100 {
		t.Fatalf("length=%d want=%d", len(out), 2*44100)
	}

	// Silence before the first click at 0.1 s.
	for i := 0; i < int(0.09*44100); i++ {
		if out[i] != 0 {
			t.Fatalf("expected silence before offset, got %f at %d", out[i], i)
		}
	}

	// Energy at the first two click positions (0.1 s, 0.6 s at 120 bpm).
	for _, sec := range []float64{0.1, 0.6} {
		start := int(sec * 44100)
		energy := 0.0
		for i := start; i < start+100; i++ {
			energy += out[i] * out[i]
		}
		if energy == 0 {
			t.Fatalf("expected click energy at %.1f s", sec)
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.5, -2}, 1)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}

	if math.Abs(out[1]+1) > 1e-12 {
		t.Fatalf("out[1]=%f want=-1", out[1])
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
