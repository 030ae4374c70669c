// Command onsets detects note onsets in a WAV file and prints their
// times, one per line.
//
// Usage:
//
//	onsets [flags] <wav-file>
//
// The activation function can be saved for later runs, and a saved
// activation can be loaded instead of a WAV file.
//
// Examples:
//
//	onsets track.wav
//	onsets -method superflux -threshold 1.5 track.wav
//	onsets -method rnn_onsets -model m1.nn -model m2.nn track.wav
//	onsets -save-activation track.act track.wav
//	onsets -load-activation track.act -threshold 0.4
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/dsp/resample"
	"github.com/cwbudde/algo-onset/dsp/spectrogram"
	"github.com/cwbudde/algo-onset/dsp/window"
	"github.com/cwbudde/algo-onset/events"
	"github.com/cwbudde/algo-onset/feature/stack"
	"github.com/cwbudde/algo-onset/internal/wavio"
	"github.com/cwbudde/algo-onset/nn"
	"github.com/cwbudde/algo-onset/onsets"
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

	method := flag.String("method", "spectral_flux", "onset detection method")
	output := flag.String("o", "", "output file (default stdout)")
	saveAct := flag.String("save-activation", "", "save the activation function to this file")
	loadAct := flag.String("load-activation", "", "load the activation function instead of analyzing a WAV file")
	salience := flag.Bool("salience", false, "print the activation value next to each onset time")
	fps := flag.Float64("fps", 100, "analysis frame rate")
	rate := flag.Float64("rate", 0, "resample the input to this rate before analysis (0 keeps the file rate)")

	pick := onsets.DefaultPickerConfig()
	flag.Float64Var(&pick.Threshold, "threshold", pick.Threshold, "height above the adaptive baseline")
	flag.Float64Var(&pick.PreAvg, "pre-avg", pick.PreAvg, "baseline window before the frame, seconds")
	flag.Float64Var(&pick.PostAvg, "post-avg", pick.PostAvg, "baseline window after the frame, seconds")
	flag.Float64Var(&pick.PreMax, "pre-max", pick.PreMax, "maximum window before the frame, seconds")
	flag.Float64Var(&pick.PostMax, "post-max", pick.PostMax, "maximum window after the frame, seconds")
	flag.Float64Var(&pick.Combine, "combine", pick.Combine, "minimum distance between onsets, seconds")
	flag.Float64Var(&pick.Delay, "delay", pick.Delay, "shift reported times, seconds")
	flag.Float64Var(&pick.Smooth, "smooth", pick.Smooth, "activation smoothing length, seconds")

	flag.Var(&models, "model", "recurrent model file for rnn methods (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: onsets [flags] <wav-file>\n\n")
		fmt.Fprintf(os.Stderr, "Detects note onsets and prints their times in seconds.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	act, err := computeActivation(*method, *loadAct, *fps, *rate, models, flag.Args())
	if err != nil {
		fail(err)
	}

	if *saveAct != "" {
		if err := activation.Save(act, *saveAct); err != nil {
			fail(err)
		}
	}

	rnn := *method == onsets.MethodRNNOnsets.String() ||
		*method == onsets.MethodRNNBeats.String() || *loadAct != ""
	if rnn && !flagSet("threshold") {
		// Recurrent activations live in [0, 1]; the spectral default
		// baseline offset would reject everything.
		pick.Threshold = 0.35
	}

	list, err := onsets.Pick(act, pick)
	if err != nil {
		fail(err)
	}

	if err := writeEvents(list, *output, *salience); err != nil {
		fail(err)
	}
}

// computeActivation produces the onset activation from a saved file, a
// recurrent ensemble or a spectral scoring method.
func computeActivation(method, loadAct string, fps, targetRate float64, models []string, args []string) (*activation.Activation, error) {
	if loadAct != "" {
		return activation.Load(loadAct)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("exactly one WAV file required")
	}

	m, err := onsets.ParseMethod(method)
	if err != nil {
		return nil, err
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

	if m == onsets.MethodRNNOnsets || m == onsets.MethodRNNBeats {
		return recurrentActivation(samples, rate, fps, models)
	}

	cfg := spectrogram.DefaultConfig(rate)
	cfg.FPS = fps
	if m.NeedsPhase() {
		cfg = spectrogram.Config{
			SampleRate: rate,
			FrameSize:  2048,
			FPS:        fps,
			Window:     window.TypeHann,
			Circular:   true,
		}
	}

	spec, err := spectrogram.Compute(samples, cfg)
	if err != nil {
		return nil, err
	}

	return onsets.Score(spec, m)
}

// recurrentActivation runs the multi-resolution feature stack through
// the model ensemble.
func recurrentActivation(samples []float64, rate, fps float64, models []string) (*activation.Activation, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("rnn methods need at least one -model file")
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

func writeEvents(list events.List, output string, salience bool) error {
	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()

		w = f
	}

	return events.Encode(list, w, salience)
}

func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})

	return set
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
