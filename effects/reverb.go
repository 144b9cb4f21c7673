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

// Reverb is a single-tap smoothing "reverb". Each wet sample is the average
// of the current and previous input sample; the wet and dry levels are
// normalized to sum to one.
//
// Note that the one-sample smoothing state is local to each Apply() call.
// Unlike the Delay it does not persist across chunk boundaries, so the first
// sample of every block is smoothed against zero rather than against the
// last sample of the previous block. This asymmetry is part of the
// documented behaviour and is deliberately left as-is.
type Reverb struct {
	params
	noRetune
	noState
}

// NewReverb is the preferred method of initialisation for the Reverb type.
func NewReverb() *Reverb {
	r := &Reverb{}
	r.p = Params{
		"room_size": 0.5, // stored, unused by the smoothing law
		"damping":   0.5, // stored, unused by the smoothing law
		"wet_level": 0.5,
		"dry_level": 0.5,
	}
	return r
}

// Kind implements the Effect interface.
func (r *Reverb) Kind() Kind {
	return KindReverb
}

// Apply implements the Effect interface.
func (r *Reverb) Apply(buf []float64) ([]float64, error) {
	if len(buf) == 0 {
		return buf, nil
	}

	wet := r.get("wet_level", 0.5)
	dry := r.get("dry_level", 0.5)

	// normalize the mix; fall back to an even split if both levels are zero
	total := wet + dry
	if total == 0 {
		wet = 0.5
		dry = 0.5
		total = 1
	}
	w := wet / total
	d := dry / total

	out := make([]float64, len(buf))
	prev := 0.0
	for i, s := range buf {
		out[i] = d*s + w*(0.5*s+0.5*prev)
		prev = s
	}

	return out, nil
}
