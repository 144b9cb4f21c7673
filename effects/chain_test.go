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

package effects_test

import (
	"errors"
	"testing"

	"github.com/davvoz/mixdown/curated"
	"github.com/davvoz/mixdown/effects"
	"github.com/davvoz/mixdown/test"
)

// brokenEffect fails in a selectable way. used to check that the chain
// contains effect failures.
type brokenEffect struct {
	panics      bool
	wrongLength bool
}

func (b *brokenEffect) Kind() effects.Kind {
	return effects.KindEqualizer
}

func (b *brokenEffect) Apply(buf []float64) ([]float64, error) {
	if b.panics {
		panic("broken effect")
	}
	if b.wrongLength {
		return make([]float64, len(buf)+1), nil
	}
	return nil, errors.New("broken effect")
}

func (b *brokenEffect) Parameters() effects.Params     { return effects.Params{} }
func (b *brokenEffect) SetParameters(p effects.Params) {}
func (b *brokenEffect) SetSampleRate(sr int)           {}
func (b *brokenEffect) Reset()                         {}

func TestChainEmpty(t *testing.T) {
	ch := effects.NewChain()

	in := []float64{0.1, 0.2, 0.3}
	out, err := ch.Process(in)
	test.ExpectSuccess(t, err)
	for i := range in {
		test.ExpectEquality(t, out[i], in[i])
	}

	// the chain never processes in place
	out[0] = 9.9
	test.ExpectEquality(t, in[0], 0.1)
}

func TestChainBypassAndWet(t *testing.T) {
	ch := effects.NewChain()

	eq := effects.NewEqualizer()
	eq.SetParameters(effects.Params{"gain": 20.0})
	idx := ch.Add(eq, "", 1.0)

	in := []float64{0.05, -0.05}

	// active: x10
	out, err := ch.Process(in)
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 0.5, 1e-9)

	// bypassed: identity
	ch.Slot(idx).Bypass = true
	out, err = ch.Process(in)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out[0], in[0])
	test.ExpectEquality(t, out[1], in[1])

	// wet zero: identity
	ch.Slot(idx).Bypass = false
	ch.Slot(idx).Wet = 0.0
	out, err = ch.Process(in)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out[0], in[0])

	// half wet blends evenly with the dry signal
	ch.Slot(idx).Wet = 0.5
	out, err = ch.Process(in)
	test.ExpectSuccess(t, err)
	test.ExpectApproximate(t, out[0], 0.5*0.05+0.5*0.5, 1e-9)
}

func TestChainClampsOutput(t *testing.T) {
	ch := effects.NewChain()

	eq := effects.NewEqualizer()
	eq.SetParameters(effects.Params{"gain": 40.0})
	ch.Add(eq, "", 1.0)

	out, err := ch.Process([]float64{0.5, -0.5})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out[0], 1.0)
	test.ExpectEquality(t, out[1], -1.0)
}

func TestChainFailures(t *testing.T) {
	for _, b := range []*brokenEffect{
		{},
		{panics: true},
		{wrongLength: true},
	} {
		ch := effects.NewChain()
		ch.Add(b, "broken", 1.0)

		eq := effects.NewEqualizer()
		eq.SetParameters(effects.Params{"gain": 20.0})
		ch.Add(eq, "", 1.0)

		in := []float64{0.05}
		out, err := ch.Process(in)

		// the failure is reported but the buffer is still usable and the
		// healthy slot still ran
		test.ExpectFailure(t, err)
		test.ExpectSuccess(t, curated.Is(err, effects.ProcessFailure))
		test.ExpectApproximate(t, out[0], 0.5, 1e-9)
	}
}

func TestChainEditing(t *testing.T) {
	ch := effects.NewChain()

	ch.Add(effects.NewDelay(sampleRate), "a", 1.0)
	ch.Add(effects.NewReverb(), "b", 1.0)
	c := ch.Add(effects.NewCompressor(), "c", 1.0)
	test.ExpectEquality(t, ch.Len(), 3)

	// default slot names come from the kind
	ch.Add(effects.NewEqualizer(), "", 1.0)
	test.ExpectEquality(t, ch.Slot(3).Name, "Equalizer")

	ch.Move(c, 0)
	test.ExpectEquality(t, ch.Slot(0).Name, "c")
	test.ExpectEquality(t, ch.Slot(1).Name, "a")

	ch.Remove(0)
	test.ExpectEquality(t, ch.Len(), 3)
	test.ExpectEquality(t, ch.Slot(0).Name, "a")

	// out of range edits are ignored
	ch.Remove(99)
	ch.Move(99, 0)
	test.ExpectEquality(t, ch.Len(), 3)

	ch.Clear()
	test.ExpectEquality(t, ch.Len(), 0)

	// wet values are clamped on the way in
	idx := ch.Add(effects.NewReverb(), "", 2.0)
	test.ExpectEquality(t, ch.Slot(idx).Wet, 1.0)
}

func TestChainSlotNil(t *testing.T) {
	ch := effects.NewChain()
	if ch.Slot(0) != nil {
		t.Errorf("expected nil slot for empty chain")
	}
}
