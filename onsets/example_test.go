package onsets_test

import (
	"fmt"

	"github.com/cwbudde/algo-onset/activation"
	"github.com/cwbudde/algo-onset/onsets"
)

func ExamplePick() {
	data := make([]float64, 100)
	data[10] = 1.0
	data[50] = 0.8
	act := activation.New(data, 100)

	cfg := onsets.PickerConfig{
		Threshold: 0.5,
		PreMax:    0.01, PostMax: 0.01,
	}

	list, _ := onsets.Pick(act, cfg)
	for _, e := range list {
		fmt.Printf("%.2f ", e.Time)
	}
	// Output: 0.10 0.50
}
