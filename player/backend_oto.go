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

//go:build !sdl && !headless

package player

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/davvoz/mixdown/curated"
)

// otoStream is the default audio device backend. The oto player pulls
// float32 stereo frames through the io.Reader interface, which is where the
// per-block callback of the Player runs.
type otoStream struct {
	p      *Player
	ctx    *oto.Context
	player *oto.Player

	// scratch buffers reused across Read() calls, grown on demand
	scratchL []float64
	scratchR []float64
}

func newStream(p *Player) (stream, error) {
	op := &oto.NewContextOptions{
		SampleRate:   p.sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(p.blockSize) * time.Second / time.Duration(p.sampleRate),
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf("player: oto: %v", err)
	}
	<-ready

	return &otoStream{
		p:        p,
		ctx:      ctx,
		scratchL: make([]float64, p.blockSize),
		scratchR: make([]float64, p.blockSize),
	}, nil
}

func (s *otoStream) start() error {
	s.player = s.ctx.NewPlayer(s)
	s.player.Play()
	return nil
}

func (s *otoStream) stop() error {
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	if err != nil {
		return curated.Errorf("player: oto: %v", err)
	}
	return nil
}

// Read implements the io.Reader interface. This is the audio callback: oto
// calls it from its playback thread once per block.
func (s *otoStream) Read(b []byte) (int, error) {
	// four bytes per float32 sample, two channels per frame
	frames := len(b) / 8
	if frames == 0 {
		return 0, nil
	}

	if len(s.scratchL) < frames {
		s.scratchL = make([]float64, frames)
		s.scratchR = make([]float64, frames)
	}
	outL := s.scratchL[:frames]
	outR := s.scratchR[:frames]

	s.p.serviceBlock(outL, outR)

	for i := 0; i < frames; i++ {
		binary.LittleEndian.PutUint32(b[i*8:], math.Float32bits(float32(outL[i])))
		binary.LittleEndian.PutUint32(b[i*8+4:], math.Float32bits(float32(outR[i])))
	}

	return frames * 8, nil
}
