package notetree

import (
	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"
)

// ProbeStep is how far a harmony note is pushed later when its position
// is already taken.
const ProbeStep = 1e-6

// Harmonize adds, for every note in the tree, a copy shifted by semitones
// in the table and by timeShift within its bar.
//
// Notes are skipped when the shifted position leaves the bar (there is no
// carry into the next bar), when their frequency isn't in the table, or
// when the shifted pitch falls off the table. A harmony note landing on an
// occupied position is nudged forward by ProbeStep until it finds a free
// one. Harmony notes are collected in a separate tree and merged once all
// originals have been visited, so they never harmonize themselves.
func Harmonize(root *Node, table *freqtable.Table, semitones int, timeShift float64) (*Node, model.HarmonizeStats) {
	var stats model.HarmonizeStats
	if root == nil {
		return nil, stats
	}

	var harmony *Node
	PostOrder(root, func(_ int, n *Node) {
		candidate, ok := harmonyFor(n.Note, table, semitones, timeShift, &stats)
		if !ok {
			return
		}
		for occupied(root, candidate) || occupied(harmony, candidate) {
			candidate.SubIndex += ProbeStep
			stats.Probed++
		}
		if candidate.SubIndex >= 1 {
			stats.CrossBar++
			return
		}
		harmony, _ = Insert(harmony, candidate)
		stats.Added++
	})

	InOrder(harmony, func(_ int, n *Node) {
		root, _ = Insert(root, n.Note)
	})
	Teardown(harmony)

	return root, stats
}

func harmonyFor(n model.Note, table *freqtable.Table, semitones int, timeShift float64, stats *model.HarmonizeStats) (model.Note, bool) {
	subIndex := n.SubIndex + timeShift
	if subIndex < 0 || subIndex >= 1 {
		stats.CrossBar++
		return model.Note{}, false
	}
	i, ok := table.IndexOf(n.Frequency)
	if !ok {
		stats.Untabled++
		return model.Note{}, false
	}
	freq, ok := table.Shift(i, semitones)
	if !ok {
		stats.OutOfRange++
		return model.Note{}, false
	}
	return model.Note{Frequency: freq, Bar: n.Bar, SubIndex: subIndex}, true
}

func occupied(root *Node, n model.Note) bool {
	_, ok := Search(root, n.Bar, n.SubIndex)
	return ok
}

// Interval is the number of semitones from one named note to another.
func Interval(table *freqtable.Table, from, to string) (int, error) {
	i, err := table.Lookup(from)
	if err != nil {
		return 0, errors.Wrap(err, "interval start")
	}
	j, err := table.Lookup(to)
	if err != nil {
		return 0, errors.Wrap(err, "interval end")
	}
	return j - i, nil
}
