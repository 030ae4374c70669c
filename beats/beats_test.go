package beats

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/tempo"
)

// beatAct builds a scalar activation with the given frame values at
// 100 fps.
func beatAct(n int, peaks map[int]float64) *activation.Activation {
	data := make([]float64, n)
	for frame, v := range peaks {
		data[frame] = v
	}

	return activation.New(data, 100)
}

// exactConfig disables the tempo stage smoothing so synthetic impulse
// trains resolve to their exact interval.
func exactConfig() Config {
	cfg := DefaultConfig()
	cfg.Tempo.ActSmooth = 0
	cfg.Tempo.HistSmooth = 0

	return cfg
}

func TestTrackImpulseTrain(t *testing.T) {
	// Impulses at frame 30 + k*50: beats at 0.3 s + k*0.5 s.
	peaks := make(map[int]float64)
	for f := 30; f < 1000; f += 50 {
		peaks[f] = 1
	}

	got, err := Track(beatAct(1000, peaks), exactConfig())
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	if len(got) != 20 {
		t.Fatalf("got %d beats want 20: %v", len(got), got.Times())
	}

	for k, e := range got {
		want := 0.3 + 0.5*float64(k)
		if math.Abs(e.Time-want) > 1e-9 {
			t.Fatalf("beat %d at %f want %f", k, e.Time, want)
		}
	}

	if err := got.Validate(); err != nil {
		t.Fatalf("beats not ascending: %v", err)
	}
}

func TestTrackIgnoresOffBeatDistractors(t *testing.T) {
	// Weak activations close to each beat fall outside the half-interval
	// search window and must not divert the tracker.
	peaks := make(map[int]float64)
	for f := 30; f < 1000; f += 50 {
		peaks[f] = 1
		if f+10 < 1000 {
			peaks[f+10] = 0.4
		}
	}

	got, err := Track(beatAct(1000, peaks), exactConfig())
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	for k, e := range got {
		want := 0.3 + 0.5*float64(k)
		if math.Abs(e.Time-want) > 1e-9 {
			t.Fatalf("beat %d diverted to %f want %f", k, e.Time, want)
		}
	}
}

func TestTrackFollowsTempoDrift(t *testing.T) {
	// The interval widens from 50 to 54 frames midway; the tracker must
	// keep landing on the impulses.
	peaks := make(map[int]float64)
	f := 0
	for i := 0; f < 2000; i++ {
		peaks[f] = 1
		if i < 15 {
			f += 50
		} else {
			f += 54
		}
	}

	got, err := Track(beatAct(2000, peaks), exactConfig())
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	for _, e := range got {
		frame := int(math.Round(e.Time * 100))
		if peaks[frame] != 1 {
			t.Fatalf("beat at frame %d is not an impulse", frame)
		}
	}
}

func TestTrackSpansMissingBeat(t *testing.T) {
	// One impulse removed mid-train; the tracker must search past the
	// gap instead of ending at the last beat before it.
	peaks := make(map[int]float64)
	for f := 30; f < 1000; f += 50 {
		if f == 330 {
			continue
		}
		peaks[f] = 1
	}

	got, err := Track(beatAct(1000, peaks), exactConfig())
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	if len(got) != 19 {
		t.Fatalf("got %d beats want 19: %v", len(got), got.Times())
	}

	resumed := false
	for _, e := range got {
		frame := int(math.Round(e.Time * 100))
		if frame == 330 {
			t.Fatalf("beat placed in the gap at %f", e.Time)
		}
		if frame == 380 {
			resumed = true
		}
	}

	if !resumed {
		t.Fatalf("tracking did not resume after the gap: %v", got.Times())
	}
}

func TestTrackRespectsLookAheadLimit(t *testing.T) {
	// The gap is longer than the look-ahead horizon; tracking must end
	// at the last beat before it.
	peaks := make(map[int]float64)
	for f := 30; f < 330; f += 50 {
		peaks[f] = 1
	}
	peaks[730] = 1

	cfg := exactConfig()
	cfg.LookAhead = 2

	got, err := Track(beatAct(1000, peaks), cfg)
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	if len(got) == 0 {
		t.Fatalf("expected beats before the gap")
	}

	last := got[len(got)-1].Time
	if math.Abs(last-2.8) > 1e-9 {
		t.Fatalf("last beat at %f want 2.8", last)
	}
}

func TestTrackStopsBelowMinActivation(t *testing.T) {
	// The train fades out; tracking must stop at the last strong beat.
	peaks := make(map[int]float64)
	for f, v := 30, 1.0; f < 1000; f += 50 {
		peaks[f] = v
		v *= 0.8
	}

	cfg := exactConfig()
	cfg.MinActivation = 0.5

	got, err := Track(beatAct(1000, peaks), cfg)
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	if len(got) == 0 {
		t.Fatalf("expected leading beats before the fade")
	}

	for _, e := range got {
		if e.Salience < cfg.MinActivation {
			t.Fatalf("beat at %f below threshold: %f", e.Time, e.Salience)
		}
	}

	if len(got) >= 20 {
		t.Fatalf("tracker did not stop on the fade: %d beats", len(got))
	}
}

func TestTrackSilence(t *testing.T) {
	got, err := Track(beatAct(1000, nil), DefaultConfig())
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("silence produced beats: %v", got)
	}
}

func TestTrackEmptyActivation(t *testing.T) {
	got, err := Track(activation.New(nil, 100), DefaultConfig())
	if err != nil {
		t.Fatalf("Track error: %v", err)
	}

	if len(got) != 0 {
		t.Fatalf("expected no beats, got %v", got)
	}
}

func TestTrackConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"look ahead", func(c *Config) { c.LookAhead = 0 }, ErrInvalidConfig},
		{"tempo change", func(c *Config) { c.MaxTempoChange = 1 }, ErrInvalidConfig},
		{"min activation", func(c *Config) { c.MinActivation = -0.1 }, ErrInvalidConfig},
		{"tempo range", func(c *Config) { c.Tempo.MaxBPM = c.Tempo.MinBPM }, tempo.ErrInvalidConfig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			if _, err := Track(beatAct(100, nil), cfg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
