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

// Package timeline manages the placement of clips on tracks. A placement is
// nothing more than a (track index, clip) pair; the timeline holds them in no
// particular order and answers range queries over them.
//
// Track indices are dense external labels, not object identities. The
// project package is responsible for keeping them in step with its own track
// list when tracks are removed.
package timeline

import "sort"

// Clip is the interface implemented by anything that can be placed on a
// timeline. Both audio clips and MIDI clips (rendered to audio through an
// instrument) satisfy it.
type Clip interface {
	// start and end of the clip in timeline-absolute seconds. EndTime() must
	// be greater than StartTime()
	StartTime() float64
	EndTime() float64

	// linear gain applied by the renderer when mixing the clip
	Volume() float64

	// SliceSamples returns mono samples for [startSec, endSec) in clip-local
	// time. The returned buffer is owned by the caller
	SliceSamples(startSec, endSec float64) []float64
}

// Placement pairs a clip with the index of the track it is placed on.
type Placement struct {
	Track int
	Clip  Clip
}

// Timeline is an unordered collection of placements.
type Timeline struct {
	placements []Placement
}

// NewTimeline is the preferred method of initialisation for the Timeline
// type.
func NewTimeline() *Timeline {
	return &Timeline{
		placements: make([]Placement, 0),
	}
}

// AddClip places a clip on the specified track.
func (tl *Timeline) AddClip(track int, c Clip) {
	tl.placements = append(tl.placements, Placement{Track: track, Clip: c})
}

// RemoveClip removes the placement of the clip on the specified track. It is
// a no-op if the placement does not exist.
func (tl *Timeline) RemoveClip(track int, c Clip) {
	for i, p := range tl.placements {
		if p.Track == track && p.Clip == c {
			tl.placements = append(tl.placements[:i], tl.placements[i+1:]...)
			return
		}
	}
}

// ClipsForRange returns every placement whose clip strictly overlaps the
// half-open window [start, end). A clip ending exactly at start or starting
// exactly at end is excluded. Unknown track indices simply yield no results.
func (tl *Timeline) ClipsForRange(start, end float64) []Placement {
	var r []Placement
	for _, p := range tl.placements {
		if p.Clip.EndTime() > start && p.Clip.StartTime() < end {
			r = append(r, p)
		}
	}
	return r
}

// ClipsForTrack returns all clips on the track sorted ascending by start
// time.
func (tl *Timeline) ClipsForTrack(track int) []Clip {
	var r []Clip
	for _, p := range tl.placements {
		if p.Track == track {
			r = append(r, p.Clip)
		}
	}
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].StartTime() < r[j].StartTime()
	})
	return r
}

// CountForTrack returns the number of clips placed on the track.
func (tl *Timeline) CountForTrack(track int) int {
	n := 0
	for _, p := range tl.placements {
		if p.Track == track {
			n++
		}
	}
	return n
}

// Placements returns a copy of every placement on the timeline.
func (tl *Timeline) Placements() []Placement {
	r := make([]Placement, len(tl.placements))
	copy(r, tl.placements)
	return r
}

// Extent returns the end time of the latest-ending clip on the timeline, or
// zero for an empty timeline.
func (tl *Timeline) Extent() float64 {
	var max float64
	for _, p := range tl.placements {
		if e := p.Clip.EndTime(); e > max {
			max = e
		}
	}
	return max
}

// RemoveTrack drops every placement on the track and shifts the indices of
// placements on higher-numbered tracks down by one. Callers removing a track
// from a project must use this rather than adjusting placements themselves.
func (tl *Timeline) RemoveTrack(track int) {
	kept := tl.placements[:0]
	for _, p := range tl.placements {
		if p.Track == track {
			continue
		}
		if p.Track > track {
			p.Track--
		}
		kept = append(kept, p)
	}
	tl.placements = kept
}
