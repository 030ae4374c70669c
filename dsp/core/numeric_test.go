package core

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
	}

	for _, tc := range cases {
		if got := Clamp(tc.value, tc.min, tc.max); got != tc.want {
			t.Fatalf("Clamp(%f, %f, %f)=%f want=%f", tc.value, tc.min, tc.max, got, tc.want)
		}
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1, 1+1e-13, 1e-12) {
		t.Fatalf("values within eps reported unequal")
	}

	if NearlyEqual(1, 1.1, 1e-12) {
		t.Fatalf("distant values reported equal")
	}

	if !NearlyEqual(1e12, 1e12+1, 1e-9) {
		t.Fatalf("relative comparison failed for large magnitudes")
	}

	if !NearlyEqual(0, 0, 0) {
		t.Fatalf("zero comparison with default eps failed")
	}
}

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions()
	if cfg.SampleRate != 44100 {
		t.Fatalf("default sample rate %f want 44100", cfg.SampleRate)
	}

	cfg = ApplyProcessorOptions(WithSampleRate(48000), nil)
	if cfg.SampleRate != 48000 {
		t.Fatalf("sample rate %f want 48000", cfg.SampleRate)
	}

	cfg = ApplyProcessorOptions(WithSampleRate(-1))
	if cfg.SampleRate != 44100 {
		t.Fatalf("invalid rate must keep the default, got %f", cfg.SampleRate)
	}
}
