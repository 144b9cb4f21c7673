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

// Package player is the real-time counterpart of the engine package. It
// renders the timeline block by block, on demand from an audio device
// backend, adding equal-power stereo panning and loop wraparound to the
// offline signal path.
//
// The audio device is owned by the backend selected at build time: an oto
// stream pulls blocks through an io.Reader by default, an SDL queue-push
// loop is selected with the "sdl" build tag, and the "headless" tag selects
// a backend with no device at all.
//
// A single mutex guards only the small transport fields. The DSP work in
// serviceBlock runs without the lock; timeline, mixer and effect chain state
// are read unsynchronized, which is an accepted limitation (eventual
// consistency) of the design.
package player

import (
	"math"
	"sync"

	"github.com/davvoz/mixdown/logger"
	"github.com/davvoz/mixdown/mixer"
	"github.com/davvoz/mixdown/project"
	"github.com/davvoz/mixdown/timeline"
)

const logTag = "player"

// stream is the handle to an audio device backend. the newStream function is
// defined by whichever backend file is selected at build time.
type stream interface {
	start() error
	stop() error
}

// Player streams the timeline to an audio device in real time.
type Player struct {
	tl   *timeline.Timeline
	mix  *mixer.Mixer
	proj *project.Project

	sampleRate int
	blockSize  int

	// created on the first call to Start()
	stream stream

	// transport state shared between the controlling thread and the audio
	// callback. crit.Mutex protects these fields and nothing else
	crit struct {
		sync.Mutex
		playing     bool
		currentTime float64
		loopEnabled bool
		loopStart   float64
		loopEnd     float64
		peakL       float64
		peakR       float64
	}
}

// NewPlayer is the preferred method of initialisation for the Player type.
// The mixer and project may be nil, in which case every track plays dry at
// unity gain and centre pan. No audio device is touched until Start().
func NewPlayer(tl *timeline.Timeline, sampleRate, blockSize int, mix *mixer.Mixer, proj *project.Project) *Player {
	p := &Player{
		tl:         tl,
		mix:        mix,
		proj:       proj,
		sampleRate: sampleRate,
		blockSize:  blockSize,
	}
	p.crit.loopEnd = 4.0
	return p
}

// SampleRate of the player's output stream in Hz.
func (p *Player) SampleRate() int {
	return p.sampleRate
}

// Start playback from the given timeline position. Calling Start() while
// already playing is a no-op with a warning, not an error.
func (p *Player) Start(from float64) error {
	p.crit.Lock()
	if p.crit.playing {
		p.crit.Unlock()
		logger.Log(logTag, "already playing, ignoring start request")
		return nil
	}
	p.crit.currentTime = from
	p.crit.playing = true
	p.crit.Unlock()

	if p.stream == nil {
		s, err := newStream(p)
		if err != nil {
			p.crit.Lock()
			p.crit.playing = false
			p.crit.Unlock()
			return err
		}
		p.stream = s
	}

	err := p.stream.start()
	if err != nil {
		p.crit.Lock()
		p.crit.playing = false
		p.crit.Unlock()
		return err
	}

	logger.Log(logTag, "playback started")
	return nil
}

// Stop playback and release the device stream. Stopping an already stopped
// player is a no-op.
func (p *Player) Stop() error {
	p.crit.Lock()
	wasPlaying := p.crit.playing
	p.crit.playing = false
	p.crit.Unlock()

	if p.stream != nil {
		if err := p.stream.stop(); err != nil {
			return err
		}
	}

	if wasPlaying {
		logger.Log(logTag, "playback stopped")
	}
	return nil
}

// IsPlaying reports whether the player is currently playing.
func (p *Player) IsPlaying() bool {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.crit.playing
}

// SetLoop enables or disables looping and sets the loop points. If start is
// not less than end, end is pushed one second past start to maintain the
// invariant.
func (p *Player) SetLoop(enabled bool, start, end float64) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.crit.loopEnabled = enabled
	p.crit.loopStart = start
	p.crit.loopEnd = end
	if p.crit.loopStart >= p.crit.loopEnd {
		p.crit.loopEnd = p.crit.loopStart + 1.0
	}
}

// Loop returns the loop enable flag and the loop points.
func (p *Player) Loop() (enabled bool, start, end float64) {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.crit.loopEnabled, p.crit.loopStart, p.crit.loopEnd
}

// SetCurrentTime moves the playback position.
func (p *Player) SetCurrentTime(t float64) {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.crit.currentTime = t
}

// CurrentTime returns the playback position.
func (p *Player) CurrentTime() float64 {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.crit.currentTime
}

// Peaks returns the absolute peak levels of the most recently rendered
// block, for metering.
func (p *Player) Peaks() (left, right float64) {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.crit.peakL, p.crit.peakR
}

// serviceBlock fills the stereo output buffers for the next block, advancing
// the transport. Called by the device backend once per block. The transport
// lock is taken only to read and write the transport fields, never across
// the DSP work.
func (p *Player) serviceBlock(outL, outR []float64) {
	frames := len(outL)

	p.crit.Lock()
	startT := p.crit.currentTime
	loopEnabled := p.crit.loopEnabled
	loopStart := p.crit.loopStart
	loopEnd := p.crit.loopEnd
	p.crit.Unlock()

	for i := 0; i < frames; i++ {
		outL[i] = 0
		outR[i] = 0
	}

	// process in chunks so that a loop wraparound mid-block is seamless
	offset := 0
	remaining := frames
	for remaining > 0 {
		endT := startT + float64(remaining)/float64(p.sampleRate)

		framesToProcess := remaining
		actualEndT := endT
		if loopEnabled && startT < loopEnd && endT > loopEnd {
			framesToProcess = int((loopEnd - startT) * float64(p.sampleRate))
			if framesToProcess < 1 {
				framesToProcess = 1
			}
			if framesToProcess > remaining {
				framesToProcess = remaining
			}
			actualEndT = loopEnd
		}

		p.processChunk(startT, actualEndT, outL[offset:offset+framesToProcess], outR[offset:offset+framesToProcess])

		offset += framesToProcess
		remaining -= framesToProcess

		if loopEnabled && actualEndT >= loopEnd {
			startT = loopStart
		} else {
			startT = actualEndT
		}
	}

	masterVolume := 1.0
	if p.mix != nil {
		masterVolume = p.mix.MasterVolume()
	}

	var peakL, peakR float64
	for i := 0; i < frames; i++ {
		outL[i] = clamp(outL[i] * masterVolume)
		outR[i] = clamp(outR[i] * masterVolume)
		if a := math.Abs(outL[i]); a > peakL {
			peakL = a
		}
		if a := math.Abs(outR[i]); a > peakR {
			peakR = a
		}
	}

	p.crit.Lock()
	p.crit.currentTime = startT
	p.crit.peakL = peakL
	p.crit.peakR = peakR
	p.crit.Unlock()
}

// processChunk renders [startT, endT) into the output slices. Mirrors the
// offline renderer: group clips by track, mix, run the effect chain, then
// pan into the stereo output.
func (p *Player) processChunk(startT, endT float64, outL, outR []float64) {
	frames := len(outL)

	trackClips := make(map[int][]timeline.Clip)
	for _, pl := range p.tl.ClipsForRange(startT, endT) {
		if p.mix != nil && !p.mix.ShouldPlayTrack(pl.Track) {
			continue
		}
		trackClips[pl.Track] = append(trackClips[pl.Track], pl.Clip)
	}

	trackSet := make(map[int]bool)
	for idx := range trackClips {
		trackSet[idx] = true
	}
	if p.proj != nil {
		for idx := range p.proj.Tracks {
			if p.mix != nil && !p.mix.ShouldPlayTrack(idx) {
				continue
			}
			trackSet[idx] = true
		}
	}

	tracks := make([]int, 0, len(trackSet))
	for idx := range trackSet {
		tracks = append(tracks, idx)
	}
	sortInts(tracks)

	for _, trackIdx := range tracks {
		trackMono := make([]float64, frames)

		for _, c := range trackClips[trackIdx] {
			overlapStart := math.Max(startT, c.StartTime())
			overlapEnd := math.Min(endT, c.EndTime())
			if overlapEnd <= overlapStart {
				continue
			}

			outStart := int((overlapStart - startT) * float64(p.sampleRate))
			samples := c.SliceSamples(overlapStart-c.StartTime(), overlapEnd-c.StartTime())
			gain := c.Volume()

			for i, s := range samples {
				idx := outStart + i
				if idx < 0 || idx >= frames {
					continue
				}
				trackMono[idx] += s * gain
			}
		}

		// per-track effects share state with any offline rendering of the
		// same chain, so a chain must never be used by both paths at once
		if p.proj != nil && trackIdx >= 0 && trackIdx < len(p.proj.Tracks) {
			chain := p.proj.Tracks[trackIdx].Effects
			if chain != nil && chain.Len() > 0 {
				chain.SetSampleRate(p.sampleRate)
				processed, err := chain.Process(trackMono)
				if err != nil {
					logger.Logf(logTag, "track %d: %v", trackIdx, err)
				}
				trackMono = processed
			}
		}

		for i := range trackMono {
			trackMono[i] = clamp(trackMono[i])
		}

		gain := 1.0
		pan := 0.0
		if p.mix != nil {
			if tr := p.mix.Track(trackIdx); tr != nil {
				gain = tr.Volume
				pan = tr.Pan
			}
		}

		// equal-power pan law
		angle := (pan + 1) * (math.Pi / 4)
		gainL := math.Cos(angle) * gain
		gainR := math.Sin(angle) * gain

		for i := range trackMono {
			outL[i] += trackMono[i] * gainL
			outR[i] += trackMono[i] * gainR
		}
	}
}

func sortInts(s []int) {
	// insertion sort; track counts are small and this avoids pulling
	// sort.Ints into the audio callback
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
