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

package prefs_test

import (
	"path/filepath"
	"testing"

	"github.com/davvoz/mixdown/prefs"
	"github.com/davvoz/mixdown/test"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.prefs")

	rate := prefs.Int{Value: 44100}
	vol := prefs.Float{Value: 0.8}
	loop := prefs.Bool{Value: true}
	name := prefs.String{Value: "untitled"}

	dsk := prefs.NewDisk(path)
	test.ExpectSuccess(t, dsk.Add("engine.samplerate", &rate))
	test.ExpectSuccess(t, dsk.Add("engine.mastervolume", &vol))
	test.ExpectSuccess(t, dsk.Add("player.loop", &loop))
	test.ExpectSuccess(t, dsk.Add("project.name", &name))
	test.ExpectSuccess(t, dsk.Save())

	// load into fresh values
	rate2 := prefs.Int{}
	vol2 := prefs.Float{}
	loop2 := prefs.Bool{}
	name2 := prefs.String{}

	dsk2 := prefs.NewDisk(path)
	test.ExpectSuccess(t, dsk2.Add("engine.samplerate", &rate2))
	test.ExpectSuccess(t, dsk2.Add("engine.mastervolume", &vol2))
	test.ExpectSuccess(t, dsk2.Add("player.loop", &loop2))
	test.ExpectSuccess(t, dsk2.Add("project.name", &name2))
	test.ExpectSuccess(t, dsk2.Load())

	test.ExpectEquality(t, rate2.Value, 44100)
	test.ExpectEquality(t, vol2.Value, 0.8)
	test.ExpectEquality(t, loop2.Value, true)
	test.ExpectEquality(t, name2.Value, "untitled")
}

func TestMissingFile(t *testing.T) {
	dsk := prefs.NewDisk(filepath.Join(t.TempDir(), "does-not-exist.prefs"))

	rate := prefs.Int{Value: 48000}
	test.ExpectSuccess(t, dsk.Add("engine.samplerate", &rate))

	// loading a missing file is not an error and keeps defaults
	test.ExpectSuccess(t, dsk.Load())
	test.ExpectEquality(t, rate.Value, 48000)
}

func TestBadKeys(t *testing.T) {
	dsk := prefs.NewDisk(filepath.Join(t.TempDir(), "test.prefs"))

	v := prefs.Int{}
	test.ExpectFailure(t, dsk.Add("bad :: key", &v))
	test.ExpectSuccess(t, dsk.Add("ok", &v))
	test.ExpectFailure(t, dsk.Add("ok", &v))
}
