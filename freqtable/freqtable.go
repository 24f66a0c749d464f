// Package freqtable maps note names to frequencies over a fixed 100 step
// chromatic scale. Index 0 is the lowest pitch.
package freqtable

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const Size = 100

// MaxNameLen is the longest note name accepted, e.g. "C#4".
const MaxNameLen = 3

// midiOffset is the MIDI key number of index 0 (C0).
const midiOffset = 12

var (
	ErrUnknownNoteName = errors.New("unknown note name")
	ErrNameTooLong     = errors.New("note name too long")
)

//go:embed note_frequencies.txt
var defaultTable []byte

type Entry struct {
	Name      string
	Frequency float64
}

type Table struct {
	entries [Size]Entry
	byName  map[string]int
}

// Default returns the built-in equal tempered table, C0 through D#8.
func Default() *Table {
	t, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic("built-in frequency table is invalid: " + err.Error())
	}
	return t
}

func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open frequency table")
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load frequency table %v", path)
	}
	return t, nil
}

// Load reads "<name> <frequency>" lines. Blank lines and lines starting
// with '#' are skipped. Exactly Size entries in strictly ascending
// frequency order are required.
func Load(r io.Reader) (*Table, error) {
	t := &Table{byName: make(map[string]int, Size)}
	scanner := bufio.NewScanner(r)
	n := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected name and frequency", lineNum)
		}
		name := fields[0]
		if len(name) > MaxNameLen {
			return nil, errors.Wrapf(ErrNameTooLong, "line %d: %q", lineNum, name)
		}
		freq, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		if n >= Size {
			return nil, fmt.Errorf("line %d: more than %d entries", lineNum, Size)
		}
		if _, ok := t.byName[name]; ok {
			return nil, fmt.Errorf("line %d: duplicate name %q", lineNum, name)
		}
		if math.IsNaN(freq) || math.IsInf(freq, 0) {
			return nil, fmt.Errorf("line %d: frequency %v is not finite", lineNum, freq)
		}
		if freq <= 0 || (n > 0 && freq <= t.entries[n-1].Frequency) {
			return nil, fmt.Errorf("line %d: frequency %v is not ascending", lineNum, freq)
		}
		t.entries[n] = Entry{Name: name, Frequency: freq}
		t.byName[name] = n
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read frequency table")
	}
	if n != Size {
		return nil, fmt.Errorf("expected %d entries, got %d", Size, n)
	}
	return t, nil
}

// Lookup resolves a note name to its index.
func (t *Table) Lookup(name string) (int, error) {
	if len(name) > MaxNameLen {
		return 0, errors.Wrapf(ErrNameTooLong, "%q", name)
	}
	i, ok := t.byName[name]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownNoteName, "%q", name)
	}
	return i, nil
}

func (t *Table) FrequencyOf(name string) (float64, error) {
	i, err := t.Lookup(name)
	if err != nil {
		return 0, err
	}
	return t.entries[i].Frequency, nil
}

func (t *Table) Frequency(i int) (float64, bool) {
	if i < 0 || i >= Size {
		return 0, false
	}
	return t.entries[i].Frequency, true
}

func (t *Table) Name(i int) (string, bool) {
	if i < 0 || i >= Size {
		return "", false
	}
	return t.entries[i].Name, true
}

// IndexOf finds the entry whose frequency is exactly freq. No tolerance is
// applied: notes are expected to carry frequencies taken from this table.
func (t *Table) IndexOf(freq float64) (int, bool) {
	for i := range t.entries {
		if t.entries[i].Frequency == freq {
			return i, true
		}
	}
	return 0, false
}

// Shift returns the frequency semitones steps away from index i, or false
// if that falls off either end of the table.
func (t *Table) Shift(i, semitones int) (float64, bool) {
	return t.Frequency(i + semitones)
}

func (t *Table) MIDIKey(i int) (uint8, bool) {
	if i < 0 || i >= Size {
		return 0, false
	}
	return uint8(i + midiOffset), true
}

func (t *Table) IndexForMIDIKey(key uint8) (int, bool) {
	i := int(key) - midiOffset
	if i < 0 || i >= Size {
		return 0, false
	}
	return i, true
}
