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

// Compressor reduces the level of samples above the threshold by the ratio
// and applies make-up gain.
//
// The gain computation is per-sample and memoryless. The attack and release
// parameters are stored for the benefit of parameter dialogs and serializers
// but are not used by the gain law. This is a known simplification of the
// design, not an oversight to fix: there is no envelope follower.
type Compressor struct {
	params
	noRetune
	noState
}

// NewCompressor is the preferred method of initialisation for the Compressor
// type.
func NewCompressor() *Compressor {
	c := &Compressor{}
	c.p = Params{
		"threshold":   -20.0, // dBFS
		"ratio":       4.0,
		"attack":      0.01, // seconds; stored, unused
		"release":     0.1,  // seconds; stored, unused
		"makeup_gain": 0.0,  // dB
	}
	return c
}

// Kind implements the Effect interface.
func (c *Compressor) Kind() Kind {
	return KindCompressor
}

// Apply implements the Effect interface.
func (c *Compressor) Apply(buf []float64) ([]float64, error) {
	if len(buf) == 0 {
		return buf, nil
	}

	thresholdDB := c.get("threshold", -20.0)
	ratio := c.get("ratio", 4.0)
	if ratio < 1 {
		ratio = 1
	}
	makeupDB := c.get("makeup_gain", 0.0)

	out := make([]float64, len(buf))
	for i, s := range buf {
		levelDB := 20 * math.Log10(math.Max(1e-8, math.Abs(s)))

		var gainDB float64
		if levelDB > thresholdDB {
			reduced := thresholdDB + (levelDB-thresholdDB)/ratio
			gainDB = reduced - levelDB + makeupDB
		} else {
			gainDB = makeupDB
		}

		out[i] = s * math.Pow(10, gainDB/20)
	}

	return out, nil
}
