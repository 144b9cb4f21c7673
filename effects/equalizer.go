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

package effects

import "math"

// Equalizer exposes the frequency/gain/q parameters of a parametric EQ band
// but applies only a flat linear gain derived from gain_db to every sample.
// It is not frequency-selective. This is the documented behaviour; adding
// real filtering would change the verifiable signal math.
type Equalizer struct {
	params
	noRetune
	noState
}

// NewEqualizer is the preferred method of initialisation for the Equalizer
// type.
func NewEqualizer() *Equalizer {
	e := &Equalizer{}
	e.p = Params{
		"frequency": 1000.0, // Hz; stored, unused by the gain law
		"gain":      0.0,    // dB
		"q":         1.0,    // stored, unused by the gain law
	}
	return e
}

// Kind implements the Effect interface.
func (e *Equalizer) Kind() Kind {
	return KindEqualizer
}

// Apply implements the Effect interface.
func (e *Equalizer) Apply(buf []float64) ([]float64, error) {
	if len(buf) == 0 {
		return buf, nil
	}

	linear := math.Pow(10, e.get("gain", 0.0)/20)

	out := make([]float64, len(buf))
	for i, s := range buf {
		out[i] = s * linear
	}

	return out, nil
}
