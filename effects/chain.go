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

import (
	"fmt"
	"strings"

	"github.com/davvoz/mixdown/curated"
)

// ProcessFailure is the curated error pattern returned by Chain.Process when
// one or more slots fail. A slot failure never stops the chain; the error is
// a report, not an abort.
const ProcessFailure = "chain: %s"

// Slot is one entry in an effect chain. The slot owns its effect.
type Slot struct {
	Effect Effect
	Name   string
	Bypass bool
	Wet    float64 // 0 to 1
}

// Chain is an ordered per-track list of effect slots. Slot order is the
// signal-path order.
type Chain struct {
	slots []*Slot
}

// NewChain is the preferred method of initialisation for the Chain type.
func NewChain() *Chain {
	return &Chain{
		slots: make([]*Slot, 0),
	}
}

// Add appends a slot for the effect and returns its index. The wet value is
// clamped to [0, 1]. An empty name defaults to the effect's kind.
func (ch *Chain) Add(e Effect, name string, wet float64) int {
	if name == "" {
		name = e.Kind().String()
	}
	ch.slots = append(ch.slots, &Slot{
		Effect: e,
		Name:   name,
		Wet:    clamp(wet, 0, 1),
	})
	return len(ch.slots) - 1
}

// Remove the slot at the index. Out of range indices are ignored.
func (ch *Chain) Remove(idx int) {
	if idx < 0 || idx >= len(ch.slots) {
		return
	}
	ch.slots = append(ch.slots[:idx], ch.slots[idx+1:]...)
}

// Move the slot at oldIdx to newIdx, re-splicing the list. The new index is
// clamped into bounds.
func (ch *Chain) Move(oldIdx, newIdx int) {
	if oldIdx == newIdx || oldIdx < 0 || oldIdx >= len(ch.slots) {
		return
	}
	s := ch.slots[oldIdx]
	ch.slots = append(ch.slots[:oldIdx], ch.slots[oldIdx+1:]...)
	if newIdx < 0 {
		newIdx = 0
	} else if newIdx > len(ch.slots) {
		newIdx = len(ch.slots)
	}
	ch.slots = append(ch.slots[:newIdx], append([]*Slot{s}, ch.slots[newIdx:]...)...)
}

// Clear removes every slot from the chain.
func (ch *Chain) Clear() {
	ch.slots = ch.slots[:0]
}

// Len returns the number of slots in the chain.
func (ch *Chain) Len() int {
	return len(ch.slots)
}

// Slot returns the slot at the index, or nil if the index is out of range.
func (ch *Chain) Slot(idx int) *Slot {
	if idx < 0 || idx >= len(ch.slots) {
		return nil
	}
	return ch.slots[idx]
}

// Slots returns the slot list in signal-path order.
func (ch *Chain) Slots() []*Slot {
	return ch.slots
}

// SetSampleRate propagates the sample rate to every effect in the chain.
func (ch *Chain) SetSampleRate(sr int) {
	for _, s := range ch.slots {
		s.Effect.SetSampleRate(sr)
	}
}

// applySlot runs the slot's effect, converting a panic inside the effect
// into an error. Nothing an effect does may leak past the chain.
func applySlot(s *Slot, buf []float64) (wet []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			wet = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Effect.Apply(buf)
}

// Process runs the buffer through every slot in order, blending each slot's
// output with its input by the slot's wet ratio and clamping every blended
// sample to [-1, 1]. Bypassed slots and slots with a wet value of zero are
// skipped and leave the buffer untouched.
//
// A slot that fails - by returning an error, by returning a buffer of the
// wrong length, or by panicking - is skipped, leaving the buffer unchanged
// for the next slot. Failures are collected into a single ProcessFailure
// error for the caller to log; the returned buffer is always usable.
func (ch *Chain) Process(buf []float64) ([]float64, error) {
	out := make([]float64, len(buf))
	copy(out, buf)
	if len(out) == 0 {
		return out, nil
	}

	var failures []string

	for i, s := range ch.slots {
		if s.Bypass || s.Wet <= 0 {
			continue
		}

		wet, err := applySlot(s, out)
		if err != nil {
			failures = append(failures, fmt.Sprintf("slot %d (%s): %v", i, s.Name, err))
			continue
		}
		if len(wet) != len(out) {
			failures = append(failures, fmt.Sprintf("slot %d (%s): buffer length changed", i, s.Name))
			continue
		}

		w := s.Wet
		d := 1 - w
		for j := range out {
			out[j] = clamp(d*out[j]+w*wet[j], -1, 1)
		}
	}

	if len(failures) > 0 {
		return out, curated.Errorf(ProcessFailure, strings.Join(failures, "; "))
	}

	return out, nil
}
