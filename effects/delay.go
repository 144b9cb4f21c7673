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

package effects

import "math"

// the delay line holds this many seconds of signal at the active sample rate
const delayLineSeconds = 2

// Delay is a feedback delay with one-pole low/high-cut filtering in the
// feedback path and optional stereo ping-pong. It is the only effect in this
// package with cross-call memory: the delay lines, the write cursor and the
// four filter states persist between Apply() calls so that block-based
// processing is indistinguishable from processing the whole signal at once.
//
// Parameters:
//
//	delay_time_ms  delay time in milliseconds, 1 to 2000
//	feedback       feedback amount, 0 to 0.95
//	mix            wet/dry mix, 0 to 1
//	low_cut        high-pass corner for the feedback path, Hz
//	high_cut       low-pass corner for the feedback path, Hz
//	ping_pong      stereo cross-feed ratio, 0 to 1
type Delay struct {
	params

	sampleRate int

	// circular delay lines, one per channel. mono processing uses the left
	// line and filter states only
	bufL []float64
	bufR []float64

	// write cursor, shared by both delay lines
	writePos int

	// one-pole filter states: low-pass and high-pass, per channel
	lpL, lpR float64
	hpL, hpR float64
}

// NewDelay is the preferred method of initialisation for the Delay type.
func NewDelay(sampleRate int) *Delay {
	d := &Delay{
		sampleRate: sampleRate,
	}
	d.p = Params{
		"delay_time_ms": 300.0,
		"feedback":      0.5,
		"mix":           0.5,
		"low_cut":       20.0,
		"high_cut":      12000.0,
		"ping_pong":     0.0,
	}
	d.allocate()
	return d
}

func (d *Delay) allocate() {
	n := delayLineSeconds * d.sampleRate
	if n < 1 {
		n = 1
	}
	d.bufL = make([]float64, n)
	d.bufR = make([]float64, n)
	d.writePos = 0
	d.lpL, d.lpR, d.hpL, d.hpR = 0, 0, 0, 0
}

// Kind implements the Effect interface.
func (d *Delay) Kind() Kind {
	return KindDelay
}

// SetSampleRate reallocates and zeroes the delay lines when the rate
// changes, discarding any prior tail.
//
// Implements the Effect interface.
func (d *Delay) SetSampleRate(sr int) {
	if sr == d.sampleRate || sr <= 0 {
		return
	}
	d.sampleRate = sr
	d.allocate()
}

// Reset zeroes the delay lines, the write cursor and the filter states.
//
// Implements the Effect interface.
func (d *Delay) Reset() {
	for i := range d.bufL {
		d.bufL[i] = 0
		d.bufR[i] = 0
	}
	d.writePos = 0
	d.lpL, d.lpR, d.hpL, d.hpR = 0, 0, 0, 0
}

// the per-Apply tuning derived from the current parameters.
type delayTuning struct {
	delaySamples int
	feedback     float64
	mix          float64
	pingPong     float64
	lpCoeff      float64
	hpCoeff      float64
}

func (d *Delay) tuning() delayTuning {
	sr := float64(d.sampleRate)

	ms := clamp(d.get("delay_time_ms", 300.0), 1, 2000)
	delaySamples := int(math.Round(ms / 1000.0 * sr))
	if delaySamples < 1 {
		delaySamples = 1
	}
	if delaySamples > len(d.bufL)-1 {
		delaySamples = len(d.bufL) - 1
	}

	highCut := d.get("high_cut", 12000.0)
	if highCut > 0.49*sr {
		highCut = 0.49 * sr
	}
	lowCut := d.get("low_cut", 20.0)
	if lowCut < 20 {
		lowCut = 20
	}

	return delayTuning{
		delaySamples: delaySamples,
		feedback:     clamp(d.get("feedback", 0.5), 0, 0.95),
		mix:          clamp(d.get("mix", 0.5), 0, 1),
		pingPong:     clamp(d.get("ping_pong", 0.0), 0, 1),
		lpCoeff:      1 - math.Exp(-2*math.Pi*highCut/sr),
		hpCoeff:      math.Exp(-2 * math.Pi * lowCut / sr),
	}
}

// Apply processes a mono buffer through the left delay line.
//
// Implements the Effect interface.
func (d *Delay) Apply(buf []float64) ([]float64, error) {
	if len(buf) == 0 {
		return buf, nil
	}

	tun := d.tuning()
	n := len(d.bufL)
	out := make([]float64, len(buf))

	for i, x := range buf {
		delayed := d.bufL[(d.writePos-tun.delaySamples+n)%n]

		// cascaded one-pole filters: low-pass then high-pass. the high-pass
		// subtracts a running low-frequency estimate from the low-passed
		// signal
		d.lpL += tun.lpCoeff * (delayed - d.lpL)
		d.hpL = tun.hpCoeff*d.hpL + (1-tun.hpCoeff)*d.lpL
		filtered := d.lpL - d.hpL

		d.bufL[d.writePos] = x + tun.feedback*filtered
		out[i] = (1-tun.mix)*x + tun.mix*filtered

		d.writePos = (d.writePos + 1) % n
	}

	return out, nil
}

// ApplyStereo processes a stereo buffer of [left, right] sample pairs. The
// ping_pong parameter cross-blends the filtered left and right signals before
// they are written back as feedback, making repeats alternate between the
// channels.
func (d *Delay) ApplyStereo(buf [][2]float64) ([][2]float64, error) {
	if len(buf) == 0 {
		return buf, nil
	}

	tun := d.tuning()
	n := len(d.bufL)
	out := make([][2]float64, len(buf))

	for i, x := range buf {
		readPos := (d.writePos - tun.delaySamples + n) % n
		delayedL := d.bufL[readPos]
		delayedR := d.bufR[readPos]

		d.lpL += tun.lpCoeff * (delayedL - d.lpL)
		d.hpL = tun.hpCoeff*d.hpL + (1-tun.hpCoeff)*d.lpL
		filteredL := d.lpL - d.hpL

		d.lpR += tun.lpCoeff * (delayedR - d.lpR)
		d.hpR = tun.hpCoeff*d.hpR + (1-tun.hpCoeff)*d.lpR
		filteredR := d.lpR - d.hpR

		// cross-blend the feedback signals for the ping-pong repeats
		crossL := (1-tun.pingPong)*filteredL + tun.pingPong*filteredR
		crossR := (1-tun.pingPong)*filteredR + tun.pingPong*filteredL

		d.bufL[d.writePos] = x[0] + tun.feedback*crossL
		d.bufR[d.writePos] = x[1] + tun.feedback*crossR

		out[i][0] = (1-tun.mix)*x[0] + tun.mix*filteredL
		out[i][1] = (1-tun.mix)*x[1] + tun.mix*filteredR

		d.writePos = (d.writePos + 1) % n
	}

	return out, nil
}
