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

// Package engine is the deterministic offline renderer. It resolves the
// timeline's clip placements into one mixed mono buffer, mirrored sample for
// sample by the real-time path in the player package.
//
// Rendering is single-threaded and purely computational. It never blocks and
// it never fails: effect trouble is logged and degrades gracefully to the
// unprocessed signal.
package engine

import (
	"math"
	"sort"

	"github.com/davvoz/mixdown/logger"
	"github.com/davvoz/mixdown/mixer"
	"github.com/davvoz/mixdown/project"
	"github.com/davvoz/mixdown/timeline"
)

const logTag = "engine"

// Options adjusts a call to RenderWindow. The zero value renders every track
// at unity gain with no effects.
type Options struct {
	// per-track gain applied after the track's effect chain. missing
	// indices default to unity
	TrackVolumes map[int]float64

	// explicit allow-list of track indices, independent of any mixer solo
	// state. a nil map allows every track
	SoloTracks map[int]bool

	// mute/solo state. a nil mixer plays every track
	Mixer *mixer.Mixer

	// source of per-track effect chains. a nil project renders dry. when a
	// project is supplied, every eligible track is processed even with no
	// clip output so that effects with internal tails keep ringing across
	// consecutive render windows
	Project *project.Project
}

// allowed applies the SoloTracks and Mixer filters uniformly for both clip
// grouping and tail-track inclusion.
func (o Options) allowed(track int) bool {
	if o.SoloTracks != nil && !o.SoloTracks[track] {
		return false
	}
	if o.Mixer != nil && !o.Mixer.ShouldPlayTrack(track) {
		return false
	}
	return true
}

// RenderWindow renders a mono buffer for [start, start+duration) at the
// given sample rate. The returned buffer always has floor(duration *
// sampleRate) samples; a non-positive duration yields an empty buffer.
// Every sample is clamped to [-1, 1].
func RenderWindow(tl *timeline.Timeline, start, duration float64, sampleRate int, opts Options) []float64 {
	if duration <= 0 {
		return nil
	}

	totalSamples := int(duration * float64(sampleRate))
	master := make([]float64, totalSamples)
	end := start + duration

	// group overlapping placements by track, dropping excluded tracks
	trackClips := make(map[int][]timeline.Clip)
	for _, p := range tl.ClipsForRange(start, end) {
		if !opts.allowed(p.Track) {
			continue
		}
		trackClips[p.Track] = append(trackClips[p.Track], p.Clip)
	}

	// the set of tracks to process is the union of tracks with clip output
	// and, when a project is supplied, every eligible project track. the
	// latter keeps a delay tail ringing after its source material ends
	trackSet := make(map[int]bool)
	for idx := range trackClips {
		trackSet[idx] = true
	}
	if opts.Project != nil {
		for idx := range opts.Project.Tracks {
			if opts.allowed(idx) {
				trackSet[idx] = true
			}
		}
	}

	// ascending track order for determinism
	tracks := make([]int, 0, len(trackSet))
	for idx := range trackSet {
		tracks = append(tracks, idx)
	}
	sort.Ints(tracks)

	for _, trackIdx := range tracks {
		trackBuf := make([]float64, totalSamples)

		for _, c := range trackClips[trackIdx] {
			mixClip(trackBuf, c, start, end, sampleRate)
		}

		trackBuf = processTrack(trackBuf, trackIdx, sampleRate, opts)

		gain := 1.0
		if v, ok := opts.TrackVolumes[trackIdx]; ok {
			gain = v
		}

		for i, s := range trackBuf {
			master[i] = clamp(master[i] + s*gain)
		}
	}

	return master
}

// RenderRange renders [start, end) at the given sample rate. A convenience
// over RenderWindow for callers holding loop bounds rather than a duration,
// the export path mostly.
func RenderRange(tl *timeline.Timeline, start, end float64, sampleRate int, opts Options) []float64 {
	return RenderWindow(tl, start, end-start, sampleRate, opts)
}

// mixClip accumulates the clip's samples for the render window into the
// track buffer, applying the clip's own volume and clamping after every
// addition.
func mixClip(trackBuf []float64, c timeline.Clip, start, end float64, sampleRate int) {
	overlapStart := math.Max(start, c.StartTime())
	overlapEnd := math.Min(end, c.EndTime())
	if overlapEnd <= overlapStart {
		return
	}

	outStart := int((overlapStart - start) * float64(sampleRate))
	samples := c.SliceSamples(overlapStart-c.StartTime(), overlapEnd-c.StartTime())
	gain := c.Volume()

	for i, s := range samples {
		idx := outStart + i
		if idx < 0 || idx >= len(trackBuf) {
			continue
		}
		trackBuf[idx] = clamp(trackBuf[idx] + s*gain)
	}
}

// processTrack runs the track buffer through the project track's effect
// chain, if there is one. Chain trouble is logged and never fatal; the chain
// always hands back a usable buffer.
func processTrack(trackBuf []float64, trackIdx, sampleRate int, opts Options) []float64 {
	if opts.Project == nil || trackIdx < 0 || trackIdx >= len(opts.Project.Tracks) {
		return trackBuf
	}
	chain := opts.Project.Tracks[trackIdx].Effects
	if chain == nil || chain.Len() == 0 {
		return trackBuf
	}

	chain.SetSampleRate(sampleRate)

	processed, err := chain.Process(trackBuf)
	if err != nil {
		logger.Logf(logTag, "track %d: %v", trackIdx, err)
	}
	return processed
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
