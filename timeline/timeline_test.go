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

package timeline_test

import (
	"testing"

	"github.com/davvoz/mixdown/test"
	"github.com/davvoz/mixdown/timeline"
)

// stubClip is the minimum implementation of the timeline.Clip interface.
type stubClip struct {
	start float64
	end   float64
}

func (c *stubClip) StartTime() float64 { return c.start }
func (c *stubClip) EndTime() float64   { return c.end }
func (c *stubClip) Volume() float64    { return 1.0 }

func (c *stubClip) SliceSamples(startSec, endSec float64) []float64 {
	return nil
}

func TestRangeQuery(t *testing.T) {
	tl := timeline.NewTimeline()

	a := &stubClip{start: 0.0, end: 2.0}
	b := &stubClip{start: 3.0, end: 5.0}
	tl.AddClip(0, a)
	tl.AddClip(1, b)

	// both clips overlap the window
	test.ExpectEquality(t, len(tl.ClipsForRange(1.0, 4.0)), 2)

	// windows are half-open: a clip ending exactly at the window start is
	// excluded, as is a clip starting exactly at the window end
	test.ExpectEquality(t, len(tl.ClipsForRange(2.0, 3.0)), 0)
	test.ExpectEquality(t, len(tl.ClipsForRange(1.9, 3.0)), 1)
	test.ExpectEquality(t, len(tl.ClipsForRange(2.0, 3.1)), 1)
}

func TestRemoveClip(t *testing.T) {
	tl := timeline.NewTimeline()

	a := &stubClip{start: 0.0, end: 1.0}
	tl.AddClip(0, a)
	test.ExpectEquality(t, tl.CountForTrack(0), 1)

	// removal needs both the right track and the right clip
	tl.RemoveClip(1, a)
	test.ExpectEquality(t, tl.CountForTrack(0), 1)

	tl.RemoveClip(0, a)
	test.ExpectEquality(t, tl.CountForTrack(0), 0)

	// removing again is a no-op
	tl.RemoveClip(0, a)
	test.ExpectEquality(t, tl.CountForTrack(0), 0)
}

func TestClipsForTrackSorted(t *testing.T) {
	tl := timeline.NewTimeline()

	late := &stubClip{start: 4.0, end: 5.0}
	early := &stubClip{start: 0.0, end: 1.0}
	mid := &stubClip{start: 2.0, end: 3.0}
	tl.AddClip(0, late)
	tl.AddClip(0, early)
	tl.AddClip(0, mid)
	tl.AddClip(1, &stubClip{start: 0.5, end: 0.6})

	clips := tl.ClipsForTrack(0)
	test.ExpectEquality(t, len(clips), 3)
	test.ExpectEquality(t, clips[0].(*stubClip), early)
	test.ExpectEquality(t, clips[1].(*stubClip), mid)
	test.ExpectEquality(t, clips[2].(*stubClip), late)
}

func TestExtent(t *testing.T) {
	tl := timeline.NewTimeline()
	test.ExpectEquality(t, tl.Extent(), 0.0)

	tl.AddClip(0, &stubClip{start: 0.0, end: 2.5})
	tl.AddClip(3, &stubClip{start: 1.0, end: 7.25})
	test.ExpectEquality(t, tl.Extent(), 7.25)
}

func TestRemoveTrack(t *testing.T) {
	tl := timeline.NewTimeline()

	tl.AddClip(0, &stubClip{start: 0.0, end: 1.0})
	tl.AddClip(1, &stubClip{start: 0.0, end: 1.0})
	tl.AddClip(2, &stubClip{start: 0.0, end: 1.0})

	tl.RemoveTrack(1)

	// track 2 has shifted down to fill the gap
	test.ExpectEquality(t, tl.CountForTrack(0), 1)
	test.ExpectEquality(t, tl.CountForTrack(1), 1)
	test.ExpectEquality(t, tl.CountForTrack(2), 0)
}
