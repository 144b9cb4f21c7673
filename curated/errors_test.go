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

package curated_test

import (
	"errors"
	"testing"

	"github.com/davvoz/mixdown/curated"
	"github.com/davvoz/mixdown/test"
)

func TestIs(t *testing.T) {
	e := curated.Errorf("player: %v", "not playing")
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, "player: %v"))
	test.ExpectFailure(t, curated.Is(e, "engine: %v"))

	// plain errors are not curated
	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
}

func TestHas(t *testing.T) {
	inner := curated.Errorf("volume out of range: %0.2f", 1.5)
	outer := curated.Errorf("track: %v", inner)

	test.ExpectSuccess(t, curated.Has(outer, "volume out of range: %0.2f"))
	test.ExpectFailure(t, curated.Is(outer, "volume out of range: %0.2f"))
	test.ExpectSuccess(t, curated.Is(outer, "track: %v"))
}

func TestDeduplication(t *testing.T) {
	inner := curated.Errorf("chain: slot 2 failed")
	outer := curated.Errorf("chain: %v", inner)
	test.ExpectEquality(t, outer.Error(), "chain: slot 2 failed")
}
