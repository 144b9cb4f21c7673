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

// Package wavwriter saves rendered audio to disk as a 16-bit WAV file.
package wavwriter

import (
	"os"

	"github.com/davvoz/mixdown/curated"
	wav "github.com/youpy/go-wav"
)

const bitsPerSample = 16

// WriteMono saves a mono sample buffer to a 16-bit WAV file. Samples are
// expected in the range [-1.0, 1.0]; values outside that range are clipped.
func WriteMono(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer f.Close()

	enc := wav.NewWriter(f, uint32(len(samples)), 1, uint32(sampleRate), bitsPerSample)

	data := make([]wav.Sample, len(samples))
	for i, s := range samples {
		data[i].Values[0] = quantise(s)
	}

	if err := enc.WriteSamples(data); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}

// WriteStereo saves a pair of equal-length sample buffers to a 16-bit stereo
// WAV file.
func WriteStereo(path string, left []float64, right []float64, sampleRate int) error {
	if len(left) != len(right) {
		return curated.Errorf("wavwriter: channel length mismatch")
	}

	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer f.Close()

	enc := wav.NewWriter(f, uint32(len(left)), 2, uint32(sampleRate), bitsPerSample)

	data := make([]wav.Sample, len(left))
	for i := range left {
		data[i].Values[0] = quantise(left[i])
		data[i].Values[1] = quantise(right[i])
	}

	if err := enc.WriteSamples(data); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}

func quantise(s float64) int {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	return int(s * 32767)
}
