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

//go:build sdl

package player

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/davvoz/mixdown/curated"
)

// sdlStream is the SDL audio device backend, selected with the "sdl" build
// tag. SDL's queueing API is push-model: a feeder goroutine renders blocks
// and queues them, topping the queue up whenever it drops below two blocks'
// worth of audio.
type sdlStream struct {
	p    *Player
	dev  sdl.AudioDeviceID
	spec sdl.AudioSpec
	quit chan bool
}

func newStream(p *Player) (stream, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, curated.Errorf("player: sdl: %v", err)
	}

	request := &sdl.AudioSpec{
		Freq:     int32(p.sampleRate),
		Format:   sdl.AUDIO_F32LSB,
		Channels: 2,
		Samples:  uint16(p.blockSize),
	}

	s := &sdlStream{p: p}

	dev, err := sdl.OpenAudioDevice("", false, request, &s.spec, 0)
	if err != nil {
		return nil, curated.Errorf("player: sdl: %v", err)
	}
	s.dev = dev

	return s, nil
}

func (s *sdlStream) start() error {
	s.quit = make(chan bool)
	sdl.PauseAudioDevice(s.dev, false)
	go s.feed()
	return nil
}

func (s *sdlStream) stop() error {
	if s.quit != nil {
		close(s.quit)
		s.quit = nil
	}
	sdl.PauseAudioDevice(s.dev, true)
	sdl.ClearQueuedAudio(s.dev)
	return nil
}

// feed renders and queues blocks until told to stop. The queue is kept
// topped up to two blocks; any deeper and we would only be adding latency.
func (s *sdlStream) feed() {
	frames := int(s.spec.Samples)
	outL := make([]float64, frames)
	outR := make([]float64, frames)
	raw := make([]byte, frames*8)

	// two blocks of float32 stereo frames
	lowWater := uint32(frames * 8 * 2)

	// sleep interval between queue checks. a quarter of a block keeps the
	// queue responsive without spinning
	tick := time.Duration(frames) * time.Second / time.Duration(s.p.sampleRate) / 4

	for {
		select {
		case <-s.quit:
			return
		default:
		}

		if sdl.GetQueuedAudioSize(s.dev) >= lowWater {
			time.Sleep(tick)
			continue
		}

		s.p.serviceBlock(outL, outR)
		for i := 0; i < frames; i++ {
			binary.LittleEndian.PutUint32(raw[i*8:], math.Float32bits(float32(outL[i])))
			binary.LittleEndian.PutUint32(raw[i*8+4:], math.Float32bits(float32(outR[i])))
		}
		if err := sdl.QueueAudio(s.dev, raw); err != nil {
			return
		}
	}
}
