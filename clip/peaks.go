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

package clip

// Peak is a (min, max) summary of a span of samples.
type Peak struct {
	Min float64
	Max float64
}

// Peaks returns a simplified min/max summary of the trimmed region of the
// buffer, suitable for waveform previews and meters. The result has
// numPoints entries, or none at all if numPoints is not positive.
func (c *Clip) Peaks(numPoints int) []Peak {
	if numPoints <= 0 {
		return nil
	}
	peaks := make([]Peak, numPoints)
	if len(c.buffer) == 0 {
		return peaks
	}

	sr := c.sampleRate
	if sr < 1 {
		sr = 1
	}

	startIdx := int(c.StartOffset * float64(sr))
	if startIdx < 0 {
		startIdx = 0
	}
	endLimit := len(c.buffer) - int(c.EndOffset*float64(sr))
	if endLimit > len(c.buffer) {
		endLimit = len(c.buffer)
	}
	if endLimit < startIdx {
		endLimit = startIdx
	}
	buf := c.buffer[startIdx:endLimit]
	if len(buf) == 0 {
		return peaks
	}

	samplesPerPoint := len(buf) / numPoints
	if samplesPerPoint < 1 {
		samplesPerPoint = 1
	}

	for i := 0; i < numPoints; i++ {
		start := i * samplesPerPoint
		if start >= len(buf) {
			break
		}
		end := start + samplesPerPoint
		if end > len(buf) {
			end = len(buf)
		}

		p := Peak{Min: buf[start], Max: buf[start]}
		for _, s := range buf[start:end] {
			if s < p.Min {
				p.Min = s
			}
			if s > p.Max {
				p.Max = s
			}
		}
		peaks[i] = p
	}

	return peaks
}
