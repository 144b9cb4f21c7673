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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern and placeholder values, like the Errorf() function in
// the fmt package, but formatting is deferred so that the pattern can be used
// to identify the error later.
//
// The Is() function checks whether an error was created with a specific
// pattern. The Has() function is similar but checks for the pattern anywhere
// in the error chain. IsAny() answers whether the error is curated at all -
// which in this project is used as the distinction between expected errors
// (a track volume out of range, say) and unexpected ones.
package curated
