// This file is part of Mixdown.
//
// Mixdown is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Mixdown is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Mixdown.  If not, see <https://www.gnu.org/licenses/>.

package effects_test

import (
	"math"
	"testing"

	"github.com/davvoz/mixdown/effects"
	"github.com/davvoz/mixdown/test"
)

const sampleRate = 1000

func TestFactory(t *testing.T) {
	kinds := []effects.Kind{
		effects.KindDelay,
		effects.KindCompressor,
		effects.KindReverb,
		effects.KindEqualizer,
	}

	for _, k := range kinds {
		e := effects.NewEffect(k, sampleRate)
		if e == nil {
			t.Fatalf("factory returned nil for %s", k)
		}
		test.ExpectEquality(t, e.Kind(), k)
	}

	// outside the closed set
	if effects.NewEffect(effects.Kind(99), sampleRate) != nil {
		t.Errorf("factory should return nil for an unknown kind")
	}
}

func TestParameterMerge(t *testing.T) {
	d := effects.NewDelay(sampleRate)

	// partial update leaves the other defaults in place
	d.SetParameters(effects.Params{"feedback": 0.8})
	test.ExpectEquality(t, d.Parameters()["feedback"], 0.8)
	test.ExpectEquality(t, d.Parameters()["mix"], 0.5)
	test.ExpectEquality(t, d.Parameters()["delay_time_ms"], 300.0)

	// unknown keys are stored without complaint
	d.SetParameters(effects.Params{"no_such_parameter": 1.0})
	test.ExpectEquality(t, d.Parameters()["no_such_parameter"], 1.0)
}

// impulse returns a buffer of length n with a single full-scale sample at
// index 0.
func impulse(n int) []float64 {
	buf := make([]float64, n)
	buf[0] = 1.0
	return buf
}

func TestDelayEchoes(t *testing.T) {
	d := effects.NewDelay(sampleRate)
	d.SetParameters(effects.Params{
		"delay_time_ms": 100.0, // 100 samples at 1kHz
		"feedback":      0.5,
		"mix":           0.5,
	})

	out, err := d.Apply(impulse(400))
	test.ExpectSuccess(t, err)

	// dry half of the impulse
	test.ExpectApproximate(t, out[0], 0.5, 1e-9)

	// silence until the first echo
	test.ExpectEquality(t, out[50], 0.0)
	test.ExpectEquality(t, out[99], 0.0)

	// first echo at the delay time, second echo one delay later and quieter
	test.ExpectSuccess(t, out[100] > 0.1)
	test.ExpectSuccess(t, out[200] > 0.0)
	test.ExpectSuccess(t, out[200] < out[100])
}

func TestDelayChunkInvariance(t *testing.T) {
	in := make([]float64, 1000)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 40 * float64(i) / sampleRate)
	}

	params := effects.Params{
		"delay_time_ms": 70.0,
		"feedback":      0.6,
		"mix":           0.4,
	}

	whole := effects.NewDelay(sampleRate)
	whole.SetParameters(params)
	want, err := whole.Apply(in)
	test.ExpectSuccess(t, err)

	// same signal through the same settings in ragged chunks
	chunked := effects.NewDelay(sampleRate)
	chunked.SetParameters(params)

	var got []float64
	for _, sz := range []int{128, 1, 371, 500} {
		out, err := chunked.Apply(in[len(got) : len(got)+sz])
		test.ExpectSuccess(t, err)
		got = append(got, out...)
	}

	test.ExpectEquality(t, len(got), len(want))
	for i := range want {
		test.ExpectEquality(t, got[i], want[i])
	}
}

func TestDelayReset(t *testing.T) {
	d := effects.NewDelay(sampleRate)

	first, err := d.Apply(impulse(400))
	test.ExpectSuccess(t, err)

	d.Reset()

	second, err := d.Apply(impulse(400))
	test.ExpectSuccess(t, err)

	for i := range first {
		test.ExpectEquality(t, second[i], first[i])
	}
}

func TestDelayRetune(t *testing.T) {
	d := effects.NewDelay(sampleRate)
	d.SetParameters(effects.Params{"delay_time_ms": 100.0, "mix": 1.0})

	// doubling the sample rate doubles the echo position in samples
	d.SetSampleRate(2000)

	out, err := d.Apply(impulse(400))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out[100], 0.0)
	test.ExpectEquality(t, out[199], 0.0)
	test.ExpectSuccess(t, out[200] > 0.1)
}

func TestDelayPingPong(t *testing.T) {
	d := effects.NewDelay(sampleRate)
	d.SetParameters(effects.Params{
		"delay_time_ms": 100.0,
		"feedback":      0.7,
		"mix":           1.0,
		"ping_pong":     1.0,
	})

	// left-only impulse
	in := make([][2]float64, 400)
	in[0][0] = 1.0

	out, err := d.ApplyStereo(in)
	test.ExpectSuccess(t, err)

	// the first repeat is on the left; with full cross-feed the second
	// repeat lands on the right
	test.ExpectSuccess(t, math.Abs(out[100][0]) > 0.1)
	test.ExpectEquality(t, out[100][1], 0.0)
	test.ExpectSuccess(t, math.Abs(out[200][1]) > 0.01)
}

func TestCompressor(t *testing.T) {
	c := effects.NewCompressor()
	c.SetParameters(effects.Params{
		"threshold": -20.0,
		"ratio":     4.0,
	})

	out, err := c.Apply([]float64{1.0, 0.05, -1.0, 0.0})
	test.ExpectSuccess(t, err)

	// 0dBFS is 20dB over the threshold; 4:1 leaves 5dB over, a 15dB cut
	want := math.Pow(10, -15.0/20.0)
	test.ExpectApproximate(t, out[0], want, 1e-6)
	test.ExpectApproximate(t, out[2], -want, 1e-6)

	// below the threshold nothing happens
	test.ExpectApproximate(t, out[1], 0.05, 1e-9)
	test.ExpectEquality(t, out[3], 0.0)
}

func TestCompressorMakeupGain(t *testing.T) {
	c := effects.NewCompressor()
	c.SetParameters(effects.Params{"makeup_gain": 6.0})

	out, err := c.Apply([]float64{0.05})
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 0.05*math.Pow(10, 6.0/20.0), 1e-9)
}

func TestReverb(t *testing.T) {
	r := effects.NewReverb()

	in := []float64{1.0, 1.0, 1.0, 1.0}
	out, err := r.Apply(in)
	test.ExpectSuccess(t, err)

	// the first sample is smoothed against zero
	test.ExpectApproximate(t, out[0], 0.75, 1e-9)
	test.ExpectApproximate(t, out[1], 1.0, 1e-9)
	test.ExpectApproximate(t, out[3], 1.0, 1e-9)

	// dry only is identity
	r.SetParameters(effects.Params{"wet_level": 0.0, "dry_level": 1.0})
	out, err = r.Apply(in)
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 1.0, 1e-9)

	// both levels zero falls back to an even split
	r.SetParameters(effects.Params{"wet_level": 0.0, "dry_level": 0.0})
	out, err = r.Apply(in)
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 0.75, 1e-9)
}

func TestEqualizer(t *testing.T) {
	e := effects.NewEqualizer()

	// flat at 0dB
	out, err := e.Apply([]float64{0.25, -0.5})
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 0.25, 1e-9)
	test.ExpectApproximate(t, out[1], -0.5, 1e-9)

	// +20dB is a flat x10
	e.SetParameters(effects.Params{"gain": 20.0})
	out, err = e.Apply([]float64{0.05})
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 0.5, 1e-9)
}
