// Package score reads and writes scores: plain text note lists and
// standard MIDI files.
package score

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/midi"
	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/notetree"
	"github.com/pkg/errors"
)

// Parse reads one note per line:
//
//	<bar> <index> <note>
//
// where <note> is a name from the table (C4, F#3) or a frequency in Hz.
// Text after '#' is ignored. Named notes take their frequency from the
// table so that later substitution can match them exactly.
func Parse(r io.Reader, table *freqtable.Table) ([]model.Note, error) {
	var notes []model.Note
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		n, err := parseLine(fields, table)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		notes = append(notes, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read score")
	}
	return notes, nil
}

func parseLine(fields []string, table *freqtable.Table) (model.Note, error) {
	var n model.Note
	if len(fields) != 3 {
		return n, fmt.Errorf("expected bar, index and note, got %d fields", len(fields))
	}
	bar, err := strconv.Atoi(fields[0])
	if err != nil {
		return n, errors.Wrap(err, "bad bar")
	}
	idx, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return n, errors.Wrap(err, "bad index")
	}
	n.Bar = bar
	n.SubIndex = idx

	if f, err := strconv.ParseFloat(fields[2], 64); err == nil {
		n.Frequency = f
	} else {
		f, err := table.FrequencyOf(fields[2])
		if err != nil {
			return n, err
		}
		n.Frequency = f
	}
	return n, n.Validate()
}

// Format writes notes in the form Parse reads, naming any frequency that
// is in the table.
func Format(w io.Writer, notes []model.Note, table *freqtable.Table) error {
	bw := bufio.NewWriter(w)
	for _, n := range notes {
		label := strconv.FormatFloat(n.Frequency, 'f', -1, 64)
		if i, ok := table.IndexOf(n.Frequency); ok {
			label, _ = table.Name(i)
		}
		idx := strconv.FormatFloat(n.SubIndex, 'f', -1, 64)
		if _, err := fmt.Fprintf(bw, "%d %s %s\n", n.Bar, idx, label); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load picks the reader by file extension: .mid and .midi are read as
// standard MIDI files, anything else as text.
func Load(path string, table *freqtable.Table, beatsPerBar int) ([]model.Note, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			return nil, err
		}
		return midi.Notes(s, table, beatsPerBar)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open score")
	}
	defer f.Close()
	notes, err := Parse(f, table)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %v", path)
	}
	return notes, nil
}

// Build inserts the notes in score order. Repeated positions are logged
// and dropped; the count of those is returned.
func Build(notes []model.Note, table *freqtable.Table, log *slog.Logger) (*notetree.Tree, int) {
	tree := notetree.New(table, notetree.WithLogger(log))
	duplicates := 0
	for _, n := range notes {
		if !tree.Insert(n) {
			duplicates++
		}
	}
	return tree, duplicates
}
