// Package spectrum extracts magnitude and phase vectors from complex
// FFT output and applies the logarithmic compression used by the
// onset-detection front end.
package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-onset/dsp/buffer"
)

// scratchPool recycles the real/imaginary unpacking scratch across
// per-frame Magnitude calls.
var scratchPool = buffer.NewPool()

// Magnitude writes |X[k]| for the first len(dst) bins of in.
//
// Scratch buffers are pooled internally, so in steady state this does
// not allocate. len(dst) must not exceed len(in).
func Magnitude(dst []float64, in []complex128) {
	if len(dst) == 0 {
		return
	}

	n := len(dst)
	scratch := scratchPool.Get(2 * n)
	re, im := scratch.Samples()[:n], scratch.Samples()[n:]

	for i := range dst {
		re[i] = real(in[i])
		im[i] = imag(in[i])
	}

	vecmath.Magnitude(dst, re, im)
	scratchPool.Put(scratch)
}

// Phase writes arg(X[k]) in radians for the first len(dst) bins of in.
func Phase(dst []float64, in []complex128) {
	for i := range dst {
		dst[i] = cmplx.Phase(in[i])
	}
}

// LogCompress replaces each value x with log(mul*x + add) in place.
//
// Negative inputs are clamped to zero before scaling, so with add >= 1
// the result is always finite and non-negative.
func LogCompress(data []float64, mul, add float64) {
	for i, v := range data {
		if v < 0 {
			v = 0
		}

		data[i] = math.Log(mul*v + add)
	}
}
