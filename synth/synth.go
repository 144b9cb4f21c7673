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

// Package synth implements a simple polyphonic synthesizer with basic
// waveforms and an ADSR envelope. Rendering is offline: a MIDI clip asks
// the synthesizer for audio covering a window of time.
package synth

import (
	"math"

	"github.com/davvoz/mixdown/midiclip"
)

// Oscillator selects the waveform generated by a Synthesizer.
type Oscillator int

// List of valid Oscillator values.
const (
	OscSine Oscillator = iota
	OscSquare
	OscSaw
	OscTriangle
)

func (o Oscillator) String() string {
	switch o {
	case OscSquare:
		return "square"
	case OscSaw:
		return "saw"
	case OscTriangle:
		return "triangle"
	}
	return "sine"
}

// headroom applied to every note so that chords do not clip immediately
const conservativeGain = 0.3

// Synthesizer generates audio from note data. The zero value is not usable;
// use NewSynthesizer().
type Synthesizer struct {
	Osc    Oscillator
	Volume float64

	// ADSR envelope. attack, decay and release in seconds, sustain as a
	// gain in [0, 1]
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// NewSynthesizer is the preferred method of initialisation for the
// Synthesizer type.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		Osc:     OscSine,
		Volume:  1.0,
		Attack:  0.005,
		Decay:   0.05,
		Sustain: 0.7,
		Release: 0.1,
	}
}

// SetADSR replaces the envelope parameters. Times are clamped to be
// non-negative and sustain to [0, 1].
func (s *Synthesizer) SetADSR(attack, decay, sustain, release float64) {
	s.Attack = math.Max(0, attack)
	s.Decay = math.Max(0, decay)
	s.Sustain = math.Min(1, math.Max(0, sustain))
	s.Release = math.Max(0, release)
}

// midiToFreq converts a MIDI note number to a frequency in Hz. A440 tuning.
func midiToFreq(m int) float64 {
	return 440.0 * math.Pow(2.0, float64(m-69)/12.0)
}

// osc evaluates the waveform at the given phase. phase wraps at 1.0
func (s *Synthesizer) osc(phase float64) float64 {
	p := phase - math.Floor(phase)
	switch s.Osc {
	case OscSquare:
		if p < 0.5 {
			return 1.0
		}
		return -1.0
	case OscSaw:
		return 2.0*p - 1.0
	case OscTriangle:
		return 4.0*math.Abs(p-0.5) - 1.0
	}
	return math.Sin(2 * math.Pi * p)
}

// envelope evaluates the ADSR gain at time t since the note started. notes
// release after their nominal duration, so a note is audible for slightly
// longer than note.Duration.
func (s *Synthesizer) envelope(t float64, duration float64) float64 {
	if t < s.Attack {
		if s.Attack <= 0 {
			return 1.0
		}
		return t / s.Attack
	}
	if t < s.Attack+s.Decay {
		dpos := (t - s.Attack) / math.Max(1e-9, s.Decay)
		return 1.0 + (s.Sustain-1.0)*dpos
	}
	if t <= duration {
		return s.Sustain
	}
	rpos := (t - duration) / math.Max(1e-9, s.Release)
	return math.Max(0, s.Sustain*(1.0-rpos))
}

// RenderNotes renders the given notes into a mono buffer covering the window
// [startSec, endSec) in clip-local time. The result is clamped to [-1, 1].
//
// Implements the midiclip.Renderer interface.
func (s *Synthesizer) RenderNotes(notes []midiclip.Note, startSec, endSec float64, sampleRate int) []float64 {
	numSamples := int(math.Round((endSec - startSec) * float64(sampleRate)))
	if numSamples <= 0 {
		return nil
	}
	out := make([]float64, numSamples)

	for _, note := range notes {
		f := midiToFreq(note.Pitch)
		velAmp := math.Min(1, math.Max(0, float64(note.Velocity)/127.0))
		amp := velAmp * s.Volume * conservativeGain

		n0 := int(math.Round((note.Start - startSec) * float64(sampleRate)))
		if n0 < 0 {
			n0 = 0
		}
		n1 := int(math.Round((note.End() - startSec) * float64(sampleRate)))
		if n1 > numSamples {
			n1 = numSamples
		}
		if n1 <= n0 {
			continue
		}

		inc := f / float64(sampleRate)

		// keep phase continuous for any window that intersects the note
		startPhase := math.Mod(note.Start*f, 1.0)

		for i := n0; i < n1; i++ {
			t := (startSec + float64(i)/float64(sampleRate)) - note.Start
			env := s.envelope(t, note.Duration)
			phase := startPhase + inc*float64(i-n0)
			out[i] += s.osc(phase) * amp * env
		}
	}

	for i, v := range out {
		if v > 1.0 {
			out[i] = 1.0
		} else if v < -1.0 {
			out[i] = -1.0
		}
	}

	return out
}
