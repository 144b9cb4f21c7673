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

package importer_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/davvoz/mixdown/curated"
	"github.com/davvoz/mixdown/importer"
	"github.com/davvoz/mixdown/test"
	"github.com/davvoz/mixdown/wavwriter"
)

func TestRoundTrip(t *testing.T) {
	const sampleRate = 8000

	// a quarter second of a 440Hz sine saved through the wavwriter
	samples := make([]float64, sampleRate/4)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	test.ExpectSuccess(t, wavwriter.WriteMono(path, samples, sampleRate))

	c, err := importer.LoadClip(path, 1.5)
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, c.Name, "tone")
	test.ExpectEquality(t, c.FilePath, path)
	test.ExpectEquality(t, c.SampleRate(), sampleRate)
	test.ExpectEquality(t, c.NumSamples(), len(samples))
	test.ExpectEquality(t, c.StartTime(), 1.5)

	// 16-bit quantisation error only
	got := c.SliceSamples(0.0, 0.25)
	for i := range samples {
		test.ExpectApproximate(t, got[i], samples[i], 1e-4)
	}
}

func TestUnsupportedFile(t *testing.T) {
	_, err := importer.LoadClip("notes.txt", 0.0)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, importer.UnsupportedFile))
}

func TestMissingFile(t *testing.T) {
	_, err := importer.LoadClip(filepath.Join(t.TempDir(), "missing.wav"), 0.0)
	test.ExpectFailure(t, err)
}
