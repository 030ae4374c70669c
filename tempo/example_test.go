package tempo_test

import (
	"fmt"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/tempo"
)

func ExampleEstimates() {
	// A beat every 50 frames at 100 fps is 120 BPM.
	data := make([]float64, 1000)
	for i := 0; i < len(data); i += 50 {
		data[i] = 1
	}

	cfg := tempo.DefaultConfig()
	cfg.ActSmooth = 0
	cfg.HistSmooth = 0

	estimates, _ := tempo.Estimates(activation.New(data, 100), cfg)
	fmt.Printf("%.0f BPM\n", estimates[0].BPM)
	// Output: 120 BPM
}
