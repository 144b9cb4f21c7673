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

//go:build headless

package player

// headlessStream is the no-device backend, selected with the "headless"
// build tag. Playback state behaves normally but no audio is produced and no
// callback runs; blocks are rendered only if something drives serviceBlock
// directly.
type headlessStream struct{}

func newStream(_ *Player) (stream, error) {
	return &headlessStream{}, nil
}

func (s *headlessStream) start() error {
	return nil
}

func (s *headlessStream) stop() error {
	return nil
}
