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

package midiclip

import (
	"path/filepath"
	"strings"

	"github.com/davvoz/mixdown/curated"
	"github.com/davvoz/mixdown/logger"

	"gitlab.com/gomidi/midi/v2/smf"
)

const logTag = "midiclip"

// default tempo used until the file says otherwise
const defaultBPM = 120.0

// LoadSMF reads a standard MIDI file into a clip placed at the given start
// time. All tracks are merged. Tempo changes are honoured when converting
// ticks to seconds.
func LoadSMF(path string, sampleRate int, start float64) (*Clip, error) {
	data, err := smf.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf("midiclip: %v", err)
	}

	ticks, ok := data.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, curated.Errorf("midiclip: %s: unsupported SMF time format", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c := NewClip(name, sampleRate, start)

	// note-on events waiting for their note-off, keyed by channel and pitch
	type onEvent struct {
		start    float64
		velocity int
	}

	for _, track := range data.Tracks {
		open := make(map[[2]uint8]onEvent)
		bpm := defaultBPM
		secAbs := 0.0

		for _, ev := range track {
			secAbs += ticks.Duration(bpm, ev.Delta).Seconds()

			var channel, key, velocity uint8
			var newBPM float64

			switch {
			case ev.Message.GetMetaTempo(&newBPM):
				bpm = newBPM

			case ev.Message.GetNoteStart(&channel, &key, &velocity):
				open[[2]uint8{channel, key}] = onEvent{start: secAbs, velocity: int(velocity)}

			case ev.Message.GetNoteEnd(&channel, &key):
				k := [2]uint8{channel, key}
				if on, ok := open[k]; ok {
					delete(open, k)
					c.AddNote(Note{
						Pitch:    int(key),
						Start:    on.start,
						Duration: secAbs - on.start,
						Velocity: on.velocity,
					})
				}
			}
		}

		// notes left hanging at the end of the track
		for k, on := range open {
			logger.Logf(logTag, "%s: note %d has no note-off, truncating at track end", path, k[1])
			c.AddNote(Note{
				Pitch:    int(k[1]),
				Start:    on.start,
				Duration: secAbs - on.start,
				Velocity: on.velocity,
			})
		}
	}

	logger.Logf(logTag, "%s: %d notes", filepath.Base(path), c.NumNotes())

	return c, nil
}
