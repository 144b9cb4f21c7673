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

// Package project models the arrangement that the engine renders: a named
// list of tracks, each owning an effect chain, plus the musical-time helpers
// (BPM, time signature) that callers use to convert between seconds and
// bars.
//
// Serialization of projects to disk is the business of an external
// collaborator and is not handled here.
package project

import (
	"math"

	"github.com/davvoz/mixdown/curated"
	"github.com/davvoz/mixdown/effects"
	"github.com/davvoz/mixdown/timeline"
)

// VolumeOutOfRange is the curated error pattern returned by Track.SetVolume.
const VolumeOutOfRange = "track: volume out of range: %0.2f"

// Track is one project track. Every track owns its effect chain; effect
// instances are never shared between tracks.
type Track struct {
	Name    string
	Effects *effects.Chain

	volume float64
}

// NewTrack is the preferred method of initialisation for the Track type.
func NewTrack(name string) *Track {
	return &Track{
		Name:    name,
		Effects: effects.NewChain(),
		volume:  1.0,
	}
}

// Volume returns the track volume, a linear gain in [0, 1].
func (t *Track) Volume() float64 {
	return t.volume
}

// SetVolume sets the track volume. Values outside [0, 1] are an error and
// leave the volume unchanged.
func (t *Track) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return curated.Errorf(VolumeOutOfRange, v)
	}
	t.volume = v
	return nil
}

// Project is a named collection of tracks with a tempo and time signature.
type Project struct {
	Name   string
	Tracks []*Track

	// beats per minute
	BPM float64

	// time signature: beats per bar and the note value that gets the beat
	TimeSigNum int
	TimeSigDen int
}

// NewProject is the preferred method of initialisation for the Project type.
// The tempo defaults to 120 BPM in 4/4.
func NewProject(name string) *Project {
	return &Project{
		Name:       name,
		Tracks:     make([]*Track, 0),
		BPM:        120.0,
		TimeSigNum: 4,
		TimeSigDen: 4,
	}
}

// AddTrack appends a new track and returns it.
func (p *Project) AddTrack(name string) *Track {
	t := NewTrack(name)
	p.Tracks = append(p.Tracks, t)
	return t
}

// RemoveTrack removes the track at the index and reindexes the timeline's
// placements so they stay in step with the track list. The timeline may be
// nil if no placements reference the project's tracks.
func (p *Project) RemoveTrack(idx int, tl *timeline.Timeline) {
	if idx < 0 || idx >= len(p.Tracks) {
		return
	}
	p.Tracks = append(p.Tracks[:idx], p.Tracks[idx+1:]...)
	if tl != nil {
		tl.RemoveTrack(idx)
	}
}

// BeatDuration returns the duration of one beat in seconds.
func (p *Project) BeatDuration() float64 {
	return 60.0 / p.BPM
}

// BarDuration returns the duration of one bar in seconds.
func (p *Project) BarDuration() float64 {
	beatsPerBar := float64(p.TimeSigNum) * (4.0 / float64(p.TimeSigDen))
	return beatsPerBar * p.BeatDuration()
}

// SecondsToBars converts seconds to a fractional bar count.
func (p *Project) SecondsToBars(seconds float64) float64 {
	return seconds / p.BarDuration()
}

// BarsToSeconds converts a fractional bar count to seconds.
func (p *Project) BarsToSeconds(bars float64) float64 {
	return bars * p.BarDuration()
}

// SnapToGrid snaps a time to the nearest grid line. The grid division is
// relative to a bar: 1.0 snaps to bars, 0.25 to quarter bars, and so on.
func (p *Project) SnapToGrid(time, gridDivision float64) float64 {
	gridSize := p.BarDuration() * gridDivision
	return math.Round(time/gridSize) * gridSize
}
