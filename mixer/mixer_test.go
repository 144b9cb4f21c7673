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

package mixer_test

import (
	"testing"

	"github.com/davvoz/mixdown/mixer"
	"github.com/davvoz/mixdown/test"
)

func TestAutoNamesAndColors(t *testing.T) {
	m := mixer.NewMixer()

	m.AddTrack("", 1.0, 0.0, "")
	m.AddTrack("", 1.0, 0.0, "")
	m.AddTrack("Drums", 1.0, 0.0, "#000000")

	test.ExpectEquality(t, m.NumTracks(), 3)
	test.ExpectEquality(t, m.Track(0).Name, "Track 1")
	test.ExpectEquality(t, m.Track(1).Name, "Track 2")
	test.ExpectEquality(t, m.Track(2).Name, "Drums")

	// palette colours for the first two, the explicit one kept
	test.ExpectEquality(t, m.Track(0).Color, "#3b82f6")
	test.ExpectEquality(t, m.Track(1).Color, "#10b981")
	test.ExpectEquality(t, m.Track(2).Color, "#000000")

	// auto-names stay unique across removal
	m.RemoveTrack("Track 2")
	m.AddTrack("", 1.0, 0.0, "")
	test.ExpectEquality(t, m.Track(2).Name, "Track 3")
}

func TestMuteSolo(t *testing.T) {
	m := mixer.NewMixer()
	m.AddTrack("a", 1.0, 0.0, "")
	m.AddTrack("b", 1.0, 0.0, "")
	m.AddTrack("c", 1.0, 0.0, "")

	// no mute or solo: everything plays
	test.ExpectSuccess(t, m.ShouldPlayTrack(0))
	test.ExpectSuccess(t, m.ShouldPlayTrack(1))
	test.ExpectSuccess(t, m.ShouldPlayTrack(2))

	// mute silences just that track
	m.Track(1).Mute = true
	test.ExpectSuccess(t, m.ShouldPlayTrack(0))
	test.ExpectFailure(t, m.ShouldPlayTrack(1))

	// a solo anywhere silences all non-soloed tracks
	m.Track(2).Solo = true
	test.ExpectFailure(t, m.ShouldPlayTrack(0))
	test.ExpectFailure(t, m.ShouldPlayTrack(1))
	test.ExpectSuccess(t, m.ShouldPlayTrack(2))

	// mute beats solo on the same track
	m.Track(2).Mute = true
	test.ExpectFailure(t, m.ShouldPlayTrack(2))

	// clearing the solo restores normal behaviour immediately
	m.Track(2).Solo = false
	m.Track(2).Mute = false
	test.ExpectSuccess(t, m.ShouldPlayTrack(0))

	// out of range indices play rather than vanish
	test.ExpectSuccess(t, m.ShouldPlayTrack(99))
}

func TestMasterVolumeClamp(t *testing.T) {
	m := mixer.NewMixer()
	test.ExpectEquality(t, m.MasterVolume(), 1.0)

	m.SetMasterVolume(1.5)
	test.ExpectEquality(t, m.MasterVolume(), 1.0)

	m.SetMasterVolume(-0.5)
	test.ExpectEquality(t, m.MasterVolume(), 0.0)

	m.SetMasterVolume(0.75)
	test.ExpectEquality(t, m.MasterVolume(), 0.75)
}

func TestMixTracks(t *testing.T) {
	m := mixer.NewMixer()
	test.ExpectEquality(t, m.MixTracks(), 0.0)

	m.AddTrack("a", 0.25, 0.0, "")
	m.AddTrack("b", 0.5, 0.0, "")
	test.ExpectApproximate(t, m.MixTracks(), 0.75, 1e-9)

	// sum clamps at unity
	m.AddTrack("c", 0.8, 0.0, "")
	test.ExpectEquality(t, m.MixTracks(), 1.0)
}
