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

// Package midiclip implements the MIDI clip type. A MIDI clip holds note
// data rather than samples and renders audio on demand through an attached
// instrument. It satisfies the same timeline interface as an audio clip.
package midiclip

import (
	"math"
	"sort"
)

// Note is a single note in a piano roll clip. Times are clip-local seconds.
type Note struct {
	// MIDI note number (0-127)
	Pitch int

	Start    float64
	Duration float64

	// velocity 1-127
	Velocity int
}

// End time of the note in clip-local seconds.
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// Renderer is any instrument that can render note data into a mono sample
// buffer covering the window [startSec, endSec) in clip-local time.
type Renderer interface {
	RenderNotes(notes []Note, startSec, endSec float64, sampleRate int) []float64
}

// Clip is a MIDI clip placed on a timeline.
type Clip struct {
	Name  string
	Color string

	// timeline-absolute start in seconds
	Start float64

	// explicit duration in seconds. the effective length is the larger of
	// this and the end of the last note
	Duration float64

	// linear gain applied by the renderer, unity by default
	Gain float64

	// the instrument used for rendering. when nil a plain sine fallback
	// is used
	Instrument Renderer

	notes      []Note
	sampleRate int
}

// NewClip is the preferred method of initialisation for the Clip type.
func NewClip(name string, sampleRate int, start float64) *Clip {
	return &Clip{
		Name:       name,
		Start:      start,
		Gain:       1.0,
		sampleRate: sampleRate,
	}
}

// AddNote appends a note to the clip.
func (c *Clip) AddNote(n Note) {
	c.notes = append(c.notes, n)
}

// Notes returns a copy of the clip's notes sorted by start time.
func (c *Clip) Notes() []Note {
	notes := make([]Note, len(c.notes))
	copy(notes, c.notes)
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Start < notes[j].Start
	})
	return notes
}

// NumNotes in the clip.
func (c *Clip) NumNotes() int {
	return len(c.notes)
}

// SampleRate the clip renders at in Hz.
func (c *Clip) SampleRate() int {
	return c.sampleRate
}

// LengthSeconds is the effective clip length. The larger of the explicit
// duration and the end of the last note. Empty clips have zero length.
func (c *Clip) LengthSeconds() float64 {
	length := c.Duration
	for _, n := range c.notes {
		if n.End() > length {
			length = n.End()
		}
	}
	return length
}

// StartTime implements the timeline.Clip interface.
func (c *Clip) StartTime() float64 {
	return c.Start
}

// EndTime implements the timeline.Clip interface.
func (c *Clip) EndTime() float64 {
	return c.Start + c.LengthSeconds()
}

// Volume implements the timeline.Clip interface.
func (c *Clip) Volume() float64 {
	return c.Gain
}

// SliceSamples renders notes overlapping [startSec, endSec) in clip-local
// time. With no overlapping notes the result is silence of the correct
// length. With no instrument attached a plain sine fallback is used.
//
// Implements the timeline.Clip interface.
func (c *Clip) SliceSamples(startSec, endSec float64) []float64 {
	if endSec <= startSec || c.sampleRate <= 0 {
		return nil
	}

	var overlapping []Note
	for _, n := range c.notes {
		if n.End() > startSec && n.Start < endSec {
			overlapping = append(overlapping, n)
		}
	}

	if len(overlapping) == 0 {
		return make([]float64, int(math.Round((endSec-startSec)*float64(c.sampleRate))))
	}

	if c.Instrument != nil {
		return c.Instrument.RenderNotes(overlapping, startSec, endSec, c.sampleRate)
	}

	return fallbackRender(overlapping, startSec, endSec, c.sampleRate)
}

// fallbackRender is a simple additive sine rendering with a linear decay,
// used when a clip has no instrument.
func fallbackRender(notes []Note, startSec, endSec float64, sampleRate int) []float64 {
	numSamples := int(math.Round((endSec - startSec) * float64(sampleRate)))
	if numSamples <= 0 {
		return nil
	}
	out := make([]float64, numSamples)

	for _, note := range notes {
		f := 440.0 * math.Pow(2.0, float64(note.Pitch-69)/12.0)
		amp := math.Min(1, math.Max(0, float64(note.Velocity)/127.0)) * 0.2

		n0 := int(math.Round((note.Start - startSec) * float64(sampleRate)))
		if n0 < 0 {
			n0 = 0
		}
		n1 := int(math.Round((note.End() - startSec) * float64(sampleRate)))
		if n1 > numSamples {
			n1 = numSamples
		}

		for i := n0; i < n1; i++ {
			t := (startSec + float64(i)/float64(sampleRate)) - note.Start
			env := 1.0
			if note.Duration > 0 {
				env = math.Max(0, 1.0-t/note.Duration)
			}
			out[i] += math.Sin(2*math.Pi*f*float64(i)/float64(sampleRate)) * amp * env
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
