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

// Package modalflag is a wrapper around the flag package in the standard
// library, adding the idea of sub-modes: the first non-flag argument can
// select one of a list of modes, each with its own flags. It is a single
// level deep, which is all the mixdown command line needs.
package modalflag

import (
	"flag"
	"io"
	"strings"
)

// Modes provides an easy way of handling command line arguments with
// sub-modes. The Output field should be specified before calling Parse() or
// help messages will not be seen.
type Modes struct {
	// where to print help messages. defaults to discarding
	Output io.Writer

	flags *flag.FlagSet

	args    []string
	argsIdx int

	subModes []string
	mode     string
}

// ParseResult is returned from the Parse() function.
type ParseResult int

// List of valid ParseResult values.
const (
	// continue with command line processing
	ParseContinue ParseResult = iota

	// help was requested and has been printed
	ParseHelp

	// an error has occurred and is returned as the second return value
	ParseError
)

// NewArgs initialises the Modes struct with a list of arguments, normally
// os.Args[1:].
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.NewMode()
}

// NewMode indicates that further arguments belong to a new mode, resetting
// the flag set.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
}

// AddSubModes registers the accepted sub-modes for the next call to
// Parse(). The first entry is the default, chosen when the next argument
// matches no sub-mode.
func (md *Modes) AddSubModes(subModes ...string) {
	for _, m := range subModes {
		md.subModes = append(md.subModes, strings.ToUpper(m))
	}
}

// Mode returns the sub-mode selected by the most recent call to Parse().
func (md *Modes) Mode() string {
	return md.mode
}

// AddBool flag to the current mode.
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddInt flag to the current mode.
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddFloat64 flag to the current mode.
func (md *Modes) AddFloat64(name string, value float64, usage string) *float64 {
	return md.flags.Float64(name, value, usage)
}

// AddString flag to the current mode.
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// RemainingArgs returns the arguments that are not flags and not a listed
// sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.flags.Args()
}

// GetArg returns the remaining argument at index i, or the empty string if
// there is no such argument.
func (md *Modes) GetArg(i int) string {
	args := md.flags.Args()
	if i < 0 || i >= len(args) {
		return ""
	}
	return args[i]
}

// String implements the Stringer interface, returning the selected mode in
// a form suitable for error messages.
func (md *Modes) String() string {
	if md.mode == "" {
		return "mixdown"
	}
	return strings.ToLower(md.mode)
}

// Parse the current layer of arguments. Help messages are printed to the
// Output field automatically; the ParseHelp result says that has happened
// and the program should wind up without further output.
func (md *Modes) Parse() (ParseResult, error) {
	output := md.Output
	if output == nil {
		output = io.Discard
	}
	md.flags.SetOutput(output)

	// sub-mode selection happens before flag parsing so that each mode can
	// define its own flags
	if len(md.subModes) > 0 {
		md.mode = md.subModes[0]
		if md.argsIdx < len(md.args) {
			arg := strings.ToUpper(md.args[md.argsIdx])
			for _, m := range md.subModes {
				if m == arg {
					md.mode = m
					md.argsIdx++
					break // for loop
				}
			}
		}
		return ParseContinue, nil
	}

	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if err == flag.ErrHelp {
			return ParseHelp, nil
		}
		return ParseError, err
	}

	return ParseContinue, nil
}
