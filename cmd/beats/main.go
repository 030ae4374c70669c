// Command beats tracks musical beats in a WAV file and prints their
// times, one per line, or only the estimated tempo.
//
// Usage:
//
//	beats [flags] <wav-file>
//
// The beat activation comes from a recurrent model ensemble; without
// -model files a spectral-flux activation is used instead. A saved
// activation can be loaded in place of a WAV file.
//
// Examples:
//
//	beats track.wav
//	beats -model b1.nn -model b2.nn track.wav
//	beats -tempo-only track.wav
//	beats -load-activation track.act -min-bpm 60 -max-bpm 180
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/beats"
	"github.com/cwbudde/algo-onset/dsp/resample"
	"github.com/cwbudde/algo-onset/dsp/spectrogram"
	"github.com/cwbudde/algo-onset/events"
	"github.com/cwbudde/algo-onset/feature/stack"
	"github.com/cwbudde/algo-onset/internal/wavio"
	"github.com/cwbudde/algo-onset/nn"
	"github.com/cwbudde/algo-onset/onsets"
	"github.com/cwbudde/algo-onset/tempo"
)

// pathList collects a repeatable -model flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var models pathList

	output := flag.String("o", "", "output file (default stdout)")
	saveAct := flag.String("save-activation", "", "save the beat activation to this file")
	loadAct := flag.String("load-activation", "", "load the beat activation instead of analyzing a WAV file")
	tempoOnly := flag.Bool("tempo-only", false, "print tempo estimates instead of beat times")
	fps := flag.Float64("fps", 100, "analysis frame rate")
	rate := flag.Float64("rate", 0, "resample the input to this rate before analysis (0 keeps the file rate)")

	cfg := beats.DefaultConfig()
	flag.Float64Var(&cfg.LookAhead, "look-ahead", cfg.LookAhead, "maximum gap to the next beat, seconds")
	flag.Float64Var(&cfg.MaxTempoChange, "max-tempo-change", cfg.MaxTempoChange, "per-beat interval adaptation limit, fraction")
	flag.Float64Var(&cfg.MinActivation, "min-activation", cfg.MinActivation, "stop tracking below this activation")
	flag.Float64Var(&cfg.Tempo.MinBPM, "min-bpm", cfg.Tempo.MinBPM, "lower tempo bound")
	flag.Float64Var(&cfg.Tempo.MaxBPM, "max-bpm", cfg.Tempo.MaxBPM, "upper tempo bound")

	flag.Var(&models, "model", "recurrent beat model file (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: beats [flags] <wav-file>\n\n")
		fmt.Fprintf(os.Stderr, "Tracks musical beats and prints their times in seconds.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	act, err := computeActivation(*loadAct, *fps, *rate, models, flag.Args())
	if err != nil {
		fail(err)
	}

	if *saveAct != "" {
		if err := activation.Save(act, *saveAct); err != nil {
			fail(err)
		}
	}

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail(err)
		}
		defer f.Close()

		w = f
	}

	if *tempoOnly {
		estimates, err := tempo.Estimates(act, cfg.Tempo)
		if err != nil {
			fail(err)
		}

		for _, e := range estimates {
			fmt.Fprintf(w, "%.2f\t%.6f\n", e.BPM, e.Strength)
		}

		return
	}

	list, err := beats.Track(act, cfg)
	if err != nil {
		fail(err)
	}

	if err := events.Encode(list, w, false); err != nil {
		fail(err)
	}
}

// computeActivation produces the beat activation from a saved file,
// a recurrent ensemble or, without models, spectral flux.
func computeActivation(loadAct string, fps, targetRate float64, models []string, args []string) (*activation.Activation, error) {
	if loadAct != "" {
		return activation.Load(loadAct)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("exactly one WAV file required")
	}

	samples, fileRate, err := wavio.ReadMono(args[0])
	if err != nil {
		return nil, err
	}

	rate := float64(fileRate)
	if targetRate > 0 && targetRate != rate {
		samples, err = resample.ToRate(samples, rate, targetRate)
		if err != nil {
			return nil, err
		}

		rate = targetRate
	}

	if len(models) == 0 {
		cfg := spectrogram.DefaultConfig(rate)
		cfg.FPS = fps

		spec, err := spectrogram.Compute(samples, cfg)
		if err != nil {
			return nil, err
		}

		return onsets.Score(spec, onsets.MethodSpectralFlux)
	}

	resolutions := stack.DefaultResolutions(rate)
	for i := range resolutions {
		resolutions[i].Spec.FPS = fps
	}

	features, err := stack.Compute(samples, resolutions)
	if err != nil {
		return nil, err
	}

	members, err := nn.DefaultCache.LoadAll(models...)
	if err != nil {
		return nil, err
	}

	ensemble, err := nn.NewEnsemble(members...)
	if err != nil {
		return nil, err
	}

	return ensemble.Process(features.Vectors, features.FPS)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
