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

// Package prefs is a simple disk-backed preferences system. Typed preference
// values are registered against a key on a Disk instance; Save() and Load()
// move them between memory and a plain text file of "key :: value" lines.
//
// Mixdown uses it for the engine defaults: sample rate, block size and
// master volume.
package prefs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/davvoz/mixdown/curated"
)

// the string that separates a key from its value in the saved file
const keySep = " :: "

// pref is the interface implemented by all preference value types.
type pref interface {
	fmt.Stringer

	// parse a value from its saved string representation
	parse(s string) error
}

// Int is an integer value in the prefs system.
type Int struct {
	Value int
}

func (p *Int) String() string {
	return strconv.Itoa(p.Value)
}

func (p *Int) parse(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}

// Float is a float value in the prefs system.
type Float struct {
	Value float64
}

func (p *Float) String() string {
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

func (p *Float) parse(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}

// Bool is a boolean value in the prefs system.
type Bool struct {
	Value bool
}

func (p *Bool) String() string {
	return strconv.FormatBool(p.Value)
}

func (p *Bool) parse(s string) error {
	p.Value = strings.EqualFold(s, "true")
	return nil
}

// String is a string value in the prefs system.
type String struct {
	Value string
}

func (p *String) String() string {
	return p.Value
}

func (p *String) parse(s string) error {
	p.Value = s
	return nil
}

// Disk connects preference values with a file on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file at the path need not exist yet.
func NewDisk(path string) *Disk {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}
}

// DefaultPath returns the path of the standard mixdown preferences file,
// creating the containing directory if necessary.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", curated.Errorf("prefs: %v", err)
	}
	dir := filepath.Join(base, "mixdown")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", curated.Errorf("prefs: %v", err)
	}
	return filepath.Join(dir, "mixdown.prefs"), nil
}

// Add registers a preference value against a key. Keys must not contain the
// key separator and must be unique on this Disk.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, keySep) {
		return curated.Errorf("prefs: invalid key: %s", key)
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf("prefs: duplicate key: %s", key)
	}
	dsk.entries[key] = p
	return nil
}

// Save all registered values to disk. Keys are written in sorted order so
// the file diffs cleanly.
func (dsk *Disk) Save() error {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(k)
		s.WriteString(keySep)
		s.WriteString(dsk.entries[k].String())
		s.WriteString("\n")
	}

	err := os.WriteFile(dsk.path, []byte(s.String()), 0600)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	return nil
}

// Load registered values from disk. Keys in the file that have not been
// registered are ignored, as are registered keys missing from the file. A
// missing file is not an error; the values simply keep their defaults.
func (dsk *Disk) Load() error {
	f, err := os.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return curated.Errorf("prefs: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key, value, ok := strings.Cut(line, keySep)
		if !ok {
			continue
		}
		if p, ok := dsk.entries[key]; ok {
			if err := p.parse(value); err != nil {
				return curated.Errorf("prefs: %s: %v", key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return curated.Errorf("prefs: %v", err)
	}
	return nil
}
