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

// Package effects implements the per-track signal processors and the chain
// that composes them. Effects transform a mono buffer into a buffer of the
// same length. Parameters are kept in a loose string-keyed map so that a
// parameter dialog or serializer can handle every effect uniformly.
//
// The only effect with cross-call memory is the Delay; splitting a signal
// into many Apply() calls of arbitrary sizes produces the same output as one
// call over the concatenated input, which is what makes it usable in a
// block-based real-time callback.
package effects

// Params is the parameter surface shared by all effects. Values are plain
// numbers; boolean parameters are stored as zero/non-zero.
type Params map[string]float64

// Effect is implemented by all signal processors in this package.
type Effect interface {
	// Kind identifies the concrete effect
	Kind() Kind

	// Apply transforms the buffer, returning a new buffer of the same
	// length. The input buffer is not modified
	Apply(buf []float64) ([]float64, error)

	// Parameters returns the live parameter map
	Parameters() Params

	// SetParameters merges the partial map into the effect's parameters.
	// Unknown keys are simply added; there is no validation
	SetParameters(p Params)

	// SetSampleRate retunes the effect to a new sample rate. Effects without
	// internal sample-rate state implement this as a no-op
	SetSampleRate(sr int)

	// Reset discards any internal signal state. A no-op for stateless
	// effects
	Reset()
}

// Kind enumerates the closed set of effect types.
type Kind int

// List of valid Kind values.
const (
	KindDelay Kind = iota
	KindCompressor
	KindReverb
	KindEqualizer
)

func (k Kind) String() string {
	switch k {
	case KindDelay:
		return "Delay"
	case KindCompressor:
		return "Compressor"
	case KindReverb:
		return "Reverb"
	case KindEqualizer:
		return "Equalizer"
	}
	return "unknown"
}

// NewEffect is the factory function for the closed set of effect kinds. An
// unrecognised kind returns nil.
func NewEffect(k Kind, sampleRate int) Effect {
	switch k {
	case KindDelay:
		return NewDelay(sampleRate)
	case KindCompressor:
		return NewCompressor()
	case KindReverb:
		return NewReverb()
	case KindEqualizer:
		return NewEqualizer()
	}
	return nil
}

// params implements the Parameters()/SetParameters() half of the Effect
// interface, for embedding.
type params struct {
	p Params
}

func (pp *params) Parameters() Params {
	return pp.p
}

func (pp *params) SetParameters(m Params) {
	for k, v := range m {
		pp.p[k] = v
	}
}

// get returns the named parameter or the fallback if it is absent.
func (pp *params) get(key string, fallback float64) float64 {
	if v, ok := pp.p[key]; ok {
		return v
	}
	return fallback
}

// noRetune implements SetSampleRate() as a no-op, for embedding by effects
// without internal sample-rate state.
type noRetune struct{}

func (noRetune) SetSampleRate(_ int) {}

// noState implements Reset() as a no-op, for embedding by stateless effects.
type noState struct{}

func (noState) Reset() {}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
