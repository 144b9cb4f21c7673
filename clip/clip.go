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

// Package clip implements the audio clip type placed on the timeline. A clip
// is an immutable mono sample buffer plus a time/position descriptor and a
// set of non-destructive edits: start/end trims, fade envelopes and a pitch
// shift applied by simple resampling.
package clip

import "math"

// FadeShape selects the envelope curve used for fade-in and fade-out.
type FadeShape int

// List of valid FadeShape values.
const (
	FadeLinear FadeShape = iota
	FadeExp
	FadeLog
	FadeSCurve
)

// Clip represents an audio clip placed on a timeline. Fields other than the
// sample buffer may be changed freely between render calls; the buffer itself
// is never modified.
type Clip struct {
	Name     string
	FilePath string
	Color    string

	// timeline-absolute start in seconds
	Start float64

	// explicit duration override in seconds. when zero or negative the
	// duration is derived from the buffer length and trims
	Duration float64

	// linear gain in [0, 2], unity by default. applied by the renderer, not
	// by SliceSamples
	Gain float64

	// trim offsets in seconds, measured into the source buffer
	StartOffset float64
	EndOffset   float64

	// fade durations in seconds and their envelope shapes
	FadeIn       float64
	FadeInShape  FadeShape
	FadeOut      float64
	FadeOutShape FadeShape

	// pitch shift in semitones. implemented by resampling so tempo changes
	// with pitch
	PitchSemitones float64

	sampleRate int
	buffer     []float64
}

// NewClip is the preferred method of initialisation for the Clip type. The
// buffer is mono samples nominally in the range [-1, 1].
func NewClip(name string, buffer []float64, sampleRate int, start float64) *Clip {
	return &Clip{
		Name:       name,
		Start:      start,
		Gain:       1.0,
		sampleRate: sampleRate,
		buffer:     buffer,
	}
}

// SampleRate of the clip's buffer in Hz.
func (c *Clip) SampleRate() int {
	return c.sampleRate
}

// NumSamples in the clip's buffer.
func (c *Clip) NumSamples() int {
	return len(c.buffer)
}

// LengthSeconds is the logical clip length shown on the timeline. An
// explicit duration takes precedence; otherwise the length is derived from
// the buffer minus the trims.
func (c *Clip) LengthSeconds() float64 {
	if c.Duration > 0 {
		return c.Duration
	}
	if c.sampleRate <= 0 {
		return 0
	}
	total := float64(len(c.buffer)) / float64(c.sampleRate)
	eff := total - c.StartOffset - c.EndOffset
	if eff < 0 {
		return 0
	}
	return eff
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

// playback rate implied by the pitch shift. 2^(n/12)
func (c *Clip) playbackRate() float64 {
	return math.Pow(2.0, c.PitchSemitones/12.0)
}

// envelope maps x in [0,1] to a shaped gain in [0,1].
func envelope(x float64, shape FadeShape) float64 {
	if x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	switch shape {
	case FadeExp:
		return x * x
	case FadeLog:
		return math.Log1p(9*x) / math.Log(10)
	case FadeSCurve:
		return x * x * (3.0 - 2.0*x)
	}
	return x
}

// SliceSamples returns samples for [startSec, endSec) in clip-local time,
// applying the start/end trims, the pitch resampling and the fade envelopes.
// The clip's own gain is not applied here; mixing is the renderer's job.
//
// Implements the timeline.Clip interface.
func (c *Clip) SliceSamples(startSec, endSec float64) []float64 {
	sr := c.sampleRate
	if sr <= 0 || endSec <= startSec || len(c.buffer) == 0 {
		return nil
	}

	outLen := int(math.Round((endSec - startSec) * float64(sr)))
	if outLen <= 0 {
		return nil
	}

	rate := c.playbackRate()

	// last allowed source index (inclusive) due to the end trim
	maxTimeAllowed := float64(len(c.buffer))/float64(sr) - c.EndOffset
	if maxTimeAllowed < 0 {
		maxTimeAllowed = 0
	}
	maxIndexAllowed := int(maxTimeAllowed*float64(sr)) - 1

	// starting source time after the start trim and pitch rate
	s0 := c.StartOffset + startSec*rate

	clipLen := c.LengthSeconds()

	out := make([]float64, outLen)
	for i := 0; i < outLen; i++ {
		sSec := s0 + (float64(i)/float64(sr))*rate
		sIdx := int(math.Round(sSec * float64(sr)))

		var sample float64
		if sIdx >= 0 && sIdx <= maxIndexAllowed && sIdx < len(c.buffer) {
			sample = c.buffer[sIdx]
		}

		// fades are relative to clip-local playback time
		tClip := startSec + float64(i)/float64(sr)
		if c.FadeIn > 0 {
			sample *= envelope(tClip/c.FadeIn, c.FadeInShape)
		}
		if c.FadeOut > 0 {
			sample *= envelope((clipLen-tClip)/c.FadeOut, c.FadeOutShape)
		}

		out[i] = sample
	}

	return out
}
