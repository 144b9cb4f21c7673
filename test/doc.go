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

// Package test contains helper functions to remove common boilerplate and to
// make testing easier.
//
// The ExpectSuccess and ExpectFailure functions test for failure and success
// under generic conditions. A nil error is a success, which is how errors
// usually work in Go, so ExpectFailure will fail on a nil error.
//
// ExpectEquality compares like-typed values for equality. ExpectApproximate
// does the same for float values within a tolerance, which is what almost
// every audio buffer comparison in this project needs.
package test
