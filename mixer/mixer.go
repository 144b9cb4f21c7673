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

// Package mixer keeps per-track level state: volume, pan, colour and the
// mute/solo flags. Track records are index-addressed and parallel in
// ordering to the project's track list.
package mixer

import "fmt"

// Track is the mixer's record for one track.
type Track struct {
	Name   string
	Volume float64 // 0 to 1
	Pan    float64 // -1 (hard left) to 1 (hard right)
	Color  string
	Mute   bool
	Solo   bool
}

// auto-assigned track colours, cycled in order of track creation
var palette = []string{"#3b82f6", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899"}

// Mixer holds one Track record per project track plus the master volume.
type Mixer struct {
	tracks       []Track
	masterVolume float64

	// counter for auto-generated names. never decremented, so names stay
	// unique after track removal
	trackCounter int
}

// NewMixer is the preferred method of initialisation for the Mixer type.
func NewMixer() *Mixer {
	return &Mixer{
		tracks:       make([]Track, 0),
		masterVolume: 1.0,
	}
}

// AddTrack appends a track record. An empty name is auto-generated and an
// empty color is assigned from the palette.
func (m *Mixer) AddTrack(name string, volume, pan float64, color string) {
	if name == "" {
		m.trackCounter++
		name = fmt.Sprintf("Track %d", m.trackCounter)
	}
	if color == "" {
		color = palette[len(m.tracks)%len(palette)]
	}
	m.tracks = append(m.tracks, Track{
		Name:   name,
		Volume: volume,
		Pan:    pan,
		Color:  color,
	})
}

// RemoveTrack removes every track record with the given name.
func (m *Mixer) RemoveTrack(name string) {
	kept := m.tracks[:0]
	for _, t := range m.tracks {
		if t.Name != name {
			kept = append(kept, t)
		}
	}
	m.tracks = kept
}

// Track returns a pointer to the track record at the index, or nil if the
// index is out of range.
func (m *Mixer) Track(idx int) *Track {
	if idx < 0 || idx >= len(m.tracks) {
		return nil
	}
	return &m.tracks[idx]
}

// NumTracks returns the number of track records.
func (m *Mixer) NumTracks() int {
	return len(m.tracks)
}

// RenameTrack changes the name of the track at the index.
func (m *Mixer) RenameTrack(idx int, name string) {
	if t := m.Track(idx); t != nil {
		t.Name = name
	}
}

// SetTrackColor changes the colour of the track at the index.
func (m *Mixer) SetTrackColor(idx int, color string) {
	if t := m.Track(idx); t != nil {
		t.Color = color
	}
}

// MasterVolume returns the master volume.
func (m *Mixer) MasterVolume() float64 {
	return m.masterVolume
}

// SetMasterVolume clamps the value to [0, 1] and stores it.
func (m *Mixer) SetMasterVolume(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	m.masterVolume = v
}

// ShouldPlayTrack reports whether the track at the index should contribute to
// the mix. A muted track never plays. If any track is soloed then only
// soloed tracks play. The solo state is global so the answer is recomputed on
// every call rather than cached.
func (m *Mixer) ShouldPlayTrack(idx int) bool {
	t := m.Track(idx)
	if t == nil {
		return true
	}
	if t.Mute {
		return false
	}
	for i := range m.tracks {
		if m.tracks[i].Solo {
			return t.Solo
		}
	}
	return true
}

// MixTracks returns the sum of the track volumes clamped to [0, 1]. A mixer
// with no tracks returns zero. This is scalar level bookkeeping for meters
// and tests, not sample mixing.
func (m *Mixer) MixTracks() float64 {
	if len(m.tracks) == 0 {
		return 0
	}
	var total float64
	for i := range m.tracks {
		total += m.tracks[i].Volume
	}
	if total < 0 {
		total = 0
	} else if total > 1 {
		total = 1
	}
	return total
}
