package tempo

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-onset/activation"
)

// impulseTrain builds a scalar activation with unit impulses every
// interval frames at 100 fps.
func impulseTrain(n, interval int) *activation.Activation {
	data := make([]float64, n)
	for i := 0; i < n; i += interval {
		data[i] = 1
	}

	return activation.New(data, 100)
}

func TestEstimatesFindsExactInterval(t *testing.T) {
	// Impulses every 50 frames at 100 fps: 120 BPM.
	act := impulseTrain(1000, 50)

	cfg := DefaultConfig()
	cfg.ActSmooth = 0
	cfg.HistSmooth = 0

	got, err := Estimates(act, cfg)
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	if len(got) == 0 {
		t.Fatalf("expected at least one estimate")
	}

	if math.Abs(got[0].BPM-120) > 1e-9 {
		t.Fatalf("top estimate %f BPM want 120", got[0].BPM)
	}
}

func TestEstimatesWithDefaultSmoothing(t *testing.T) {
	act := impulseTrain(2000, 60) // 100 BPM

	got, err := Estimates(act, DefaultConfig())
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	if len(got) == 0 {
		t.Fatalf("expected at least one estimate")
	}

	if math.Abs(got[0].BPM-100) > 5 {
		t.Fatalf("top estimate %f BPM want near 100", got[0].BPM)
	}
}

func TestEstimatesRankedByStrength(t *testing.T) {
	act := impulseTrain(1000, 40)

	got, err := Estimates(act, DefaultConfig())
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	for i := 1; i < len(got); i++ {
		if got[i].Strength > got[i-1].Strength {
			t.Fatalf("estimates not sorted at %d: %f > %f",
				i, got[i].Strength, got[i-1].Strength)
		}
	}
}

func TestEstimatesSubharmonicWeaker(t *testing.T) {
	// The double interval (half tempo) also resonates but must score
	// below the true interval.
	act := impulseTrain(2000, 50)

	cfg := DefaultConfig()
	cfg.ActSmooth = 0
	cfg.HistSmooth = 0

	got, err := Estimates(act, cfg)
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	var half float64
	for _, e := range got {
		if math.Abs(e.BPM-60) < 1e-9 {
			half = e.Strength
		}
	}

	if half == 0 {
		t.Fatalf("expected a half-tempo candidate in %v", got)
	}

	if half >= got[0].Strength {
		t.Fatalf("half tempo %f not weaker than top %f", half, got[0].Strength)
	}
}

func TestEstimatesShortActivation(t *testing.T) {
	// Too short for any interval in the search range.
	got, err := Estimates(impulseTrain(10, 5), DefaultConfig())
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected no estimates, got %v", got)
	}
}

func TestEstimatesEmptyActivation(t *testing.T) {
	got, err := Estimates(activation.New(nil, 100), DefaultConfig())
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected no estimates, got %v", got)
	}
}

func TestEstimatesSilence(t *testing.T) {
	got, err := Estimates(activation.New(make([]float64, 500), 100), DefaultConfig())
	if err != nil {
		t.Fatalf("Estimates error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("silence produced estimates: %v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bpm order", func(c *Config) { c.MaxBPM = c.MinBPM }},
		{"bpm sign", func(c *Config) { c.MinBPM = -10 }},
		{"alpha high", func(c *Config) { c.Alpha = 1 }},
		{"alpha low", func(c *Config) { c.Alpha = 0 }},
		{"act smooth", func(c *Config) { c.ActSmooth = -0.1 }},
		{"hist smooth", func(c *Config) { c.HistSmooth = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			if _, err := Estimates(impulseTrain(100, 10), cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
