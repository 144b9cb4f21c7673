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

// Package importer decodes audio files into clips. WAV and MP3 files are
// supported. Multi-channel files are reduced to the first channel.
package importer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/davvoz/mixdown/clip"
	"github.com/davvoz/mixdown/curated"
	"github.com/davvoz/mixdown/logger"

	goaudio_wav "github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const logTag = "importer"

// sentinel error returned when the file type cannot be handled
const UnsupportedFile = "importer: unsupported file type: %s"

// LoadClip decodes the audio file at path and returns a clip placed at the
// given start time. The file type is decided by the filename extension.
func LoadClip(path string, start float64) (*clip.Clip, error) {
	var samples []float64
	var sampleRate int
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, sampleRate, err = loadWAV(path)
	case ".mp3":
		samples, sampleRate, err = loadMP3(path)
	default:
		return nil, curated.Errorf(UnsupportedFile, path)
	}

	if err != nil {
		return nil, err
	}

	logger.Logf(logTag, "%s: %d samples at %dHz", filepath.Base(path), len(samples), sampleRate)

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c := clip.NewClip(name, samples, sampleRate, start)
	c.FilePath = path

	return c, nil
}

// loadWAV decodes a WAV file. only the first channel of a multi-channel
// file is used.
func loadWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, curated.Errorf("importer: %v", err)
	}
	defer f.Close()

	dec := goaudio_wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, curated.Errorf("importer: %s: not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, curated.Errorf("importer: %v", err)
	}

	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, 0, curated.Errorf("importer: %s: no channels", path)
	}

	scale := float64(int(1) << (dec.BitDepth - 1))

	samples := make([]float64, 0, len(buf.Data)/numChannels)
	for i := 0; i < len(buf.Data); i += numChannels {
		samples = append(samples, float64(buf.Data[i])/scale)
	}

	return samples, int(dec.SampleRate), nil
}

// loadMP3 decodes an MP3 file. the decoder always produces 16-bit stereo
// frames of four bytes so we read the left channel from every frame.
func loadMP3(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, curated.Errorf("importer: %v", err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, curated.Errorf("importer: %v", err)
	}

	raw := &bytes.Buffer{}
	if _, err := io.Copy(raw, dec); err != nil {
		return nil, 0, curated.Errorf("importer: %v", err)
	}

	data := raw.Bytes()
	samples := make([]float64, 0, len(data)/4)
	for i := 0; i+1 < len(data); i += 4 {
		v := int16(data[i]) | (int16(data[i+1]) << 8)
		samples = append(samples, float64(v)/32768.0)
	}

	return samples, dec.SampleRate(), nil
}
