package frame

import (
	"math"
	"testing"
)

func TestNumFramesMatchesRate(t *testing.T) {
	tests := []struct {
		name       string
		samples    int
		sampleRate float64
		fps        float64
	}{
		{"one second", 44100, 44100, 100},
		{"half second", 22050, 44100, 100},
		{"fractional hop", 44100, 44100, 200},
		{"odd length", 44101, 44100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCutter(make([]float64, tt.samples), Config{
				Size:       2048,
				SampleRate: tt.sampleRate,
				FPS:        tt.fps,
			})
			if err != nil {
				t.Fatalf("NewCutter error: %v", err)
			}

			want := tt.fps * float64(tt.samples) / tt.sampleRate
			got := float64(c.NumFrames())
			if math.Abs(got-want) > 1 {
				t.Fatalf("NumFrames=%v want=%v (+-1)", got, want)
			}
		})
	}
}

func TestNumFramesIndependentOfFrameSize(t *testing.T) {
	samples := make([]float64, 12345)

	var counts []int
	for _, size := range []int{1024, 2048, 4096} {
		c, err := NewCutter(samples, Config{Size: size, SampleRate: 44100, FPS: 100})
		if err != nil {
			t.Fatalf("NewCutter error: %v", err)
		}
		counts = append(counts, c.NumFrames())
	}

	if counts[0] != counts[1] || counts[1] != counts[2] {
		t.Fatalf("frame counts differ across sizes: %v", counts)
	}
}

func TestFrameCenteringAndPadding(t *testing.T) {
	samples := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	c, err := NewCutter(samples, Config{Size: 4, SampleRate: 8, FPS: 4})
	if err != nil {
		t.Fatalf("NewCutter error: %v", err)
	}

	// Frame 0 is centered on sample 0: two zero-padded samples on the left.
	f0 := c.Frame(0, nil)
	want0 := []float64{0, 0, 1, 2}
	for i := range want0 {
		if f0[i] != want0[i] {
			t.Fatalf("frame 0 = %v want %v", f0, want0)
		}
	}

	// Frame 1 is centered on sample 2 (hop = 2).
	f1 := c.Frame(1, nil)
	want1 := []float64{1, 2, 3, 4}
	for i := range want1 {
		if f1[i] != want1[i] {
			t.Fatalf("frame 1 = %v want %v", f1, want1)
		}
	}

	// The last frame is zero-padded on the right.
	last := c.Frame(c.NumFrames()-1, nil)
	if last[3] != 0 {
		t.Fatalf("expected right zero padding, got %v", last)
	}
}

func TestFrameReuseBuffer(t *testing.T) {
	c, err := NewCutter([]float64{1, 2, 3, 4}, Config{Size: 2, SampleRate: 4, FPS: 2})
	if err != nil {
		t.Fatalf("NewCutter error: %v", err)
	}

	buf := make([]float64, 2)
	out := c.Frame(1, buf)
	if &out[0] != &buf[0] {
		t.Fatalf("expected dst reuse")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero size", Config{Size: 0, SampleRate: 44100, FPS: 100}},
		{"zero rate", Config{Size: 1024, SampleRate: 0, FPS: 100}},
		{"zero fps", Config{Size: 1024, SampleRate: 44100, FPS: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCutter(nil, tt.cfg); err == nil {
				t.Fatalf("expected configuration error")
			}
		})
	}
}

func TestEmptySignal(t *testing.T) {
	c, err := NewCutter(nil, Config{Size: 1024, SampleRate: 44100, FPS: 100})
	if err != nil {
		t.Fatalf("NewCutter error: %v", err)
	}

	if c.NumFrames() != 0 {
		t.Fatalf("NumFrames=%d want=0", c.NumFrames())
	}
}
