package window

import (
	"math"
	"testing"
)

func TestAnalyzeKnownWindows(t *testing.T) {
	const size = 1024

	cases := []struct {
		typ          Type
		coherentGain float64
		enbw         float64
		firstMin     float64
		sidelobeMax  float64 // upper bound in dB
	}{
		{TypeRectangular, 1.0, 1.0, 1.0, -13.0},
		{TypeHann, 0.5, 1.5, 2.0, -31.0},
		{TypeHamming, 0.54, 1.36, 2.0, -39.0},
		{TypeBlackman, 0.42, 1.73, 3.0, -56.0},
	}

	for _, tc := range cases {
		t.Run(tc.typ.String(), func(t *testing.T) {
			a := Analyze(Generate(tc.typ, size))

			if math.Abs(a.CoherentGain-tc.coherentGain) > 0.01 {
				t.Fatalf("coherent gain %f want ~%f", a.CoherentGain, tc.coherentGain)
			}

			if math.Abs(a.ENBW-tc.enbw) > 0.02 {
				t.Fatalf("ENBW %f want ~%f", a.ENBW, tc.enbw)
			}

			if math.Abs(a.FirstMinimumBins-tc.firstMin) > 0.25 {
				t.Fatalf("first minimum %f bins want ~%f", a.FirstMinimumBins, tc.firstMin)
			}

			if a.HighestSidelobedB > tc.sidelobeMax {
				t.Fatalf("sidelobe %f dB want below %f", a.HighestSidelobedB, tc.sidelobeMax)
			}

			if a.ScallopLossdB >= 0 || a.ScallopLossdB < -4 {
				t.Fatalf("scallop loss %f dB outside plausible range", a.ScallopLossdB)
			}

			if a.Bandwidth3dB <= 0 {
				t.Fatalf("3 dB bandwidth %f must be positive", a.Bandwidth3dB)
			}
		})
	}
}

func TestAnalyzeDegenerate(t *testing.T) {
	if a := Analyze(nil); a != (Analysis{}) {
		t.Fatalf("empty input must yield a zero analysis: %+v", a)
	}

	if a := Analyze([]float64{0, 0, 0}); a != (Analysis{}) {
		t.Fatalf("all-zero window must yield a zero analysis: %+v", a)
	}
}
