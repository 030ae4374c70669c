package filterbank

import (
	"math"
	"testing"
)

func TestNewBasicProperties(t *testing.T) {
	fb, err := New(DefaultConfig(), 1025, 2048, 44100)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if fb.NumBands() == 0 {
		t.Fatalf("expected at least one band")
	}

	if fb.NumBins() != 1025 {
		t.Fatalf("NumBins=%d want=1025", fb.NumBins())
	}

	// Normalized bands sum to one (within rounding); all coefficients
	// are non-negative.
	for b := 0; b < fb.NumBands(); b++ {
		sum := 0.0
		for _, v := range fb.Band(b) {
			if v < 0 {
				t.Fatalf("band %d has negative coefficient", b)
			}
			sum += v
		}

		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("band %d sums to %f want 1", b, sum)
		}
	}
}

func TestNewUnnormalized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Norm = false

	fb, err := New(cfg, 1025, 2048, 44100)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// The peak of every unnormalized triangle is below or equal to 1.
	for b := 0; b < fb.NumBands(); b++ {
		for _, v := range fb.Band(b) {
			if v > 1+1e-12 {
				t.Fatalf("band %d exceeds 1: %f", b, v)
			}
		}
	}
}

func TestProject(t *testing.T) {
	fb, err := New(DefaultConfig(), 1025, 2048, 44100)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// A flat spectrum projects to all-ones for normalized bands.
	mag := make([]float64, 1025)
	for i := range mag {
		mag[i] = 1
	}

	out, err := fb.Project(nil, mag)
	if err != nil {
		t.Fatalf("Project error: %v", err)
	}

	for b, v := range out {
		if math.Abs(v-1) > 1e-9 {
			t.Fatalf("band %d = %f want 1", b, v)
		}
	}
}

func TestProjectBinMismatch(t *testing.T) {
	fb, err := New(DefaultConfig(), 1025, 2048, 44100)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, err := fb.Project(nil, make([]float64, 100)); err == nil {
		t.Fatalf("expected bin mismatch error")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero bands", Config{BandsPerOctave: 0, FMin: 30, FMax: 17000, FRef: 440}},
		{"inverted range", Config{BandsPerOctave: 12, FMin: 1000, FMax: 100, FRef: 440}},
		{"zero fmin", Config{BandsPerOctave: 12, FMin: 0, FMax: 17000, FRef: 440}},
		{"zero fref", Config{BandsPerOctave: 12, FMin: 30, FMax: 17000, FRef: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, 1025, 2048, 44100); err == nil {
				t.Fatalf("expected configuration error")
			}
		})
	}
}

func TestNarrowRangeTooFewBands(t *testing.T) {
	cfg := Config{BandsPerOctave: 1, FMin: 440, FMax: 460, FRef: 440}

	if _, err := New(cfg, 1025, 2048, 44100); err == nil {
		t.Fatalf("expected error for unusable frequency range")
	}
}
