// Package arrange applies the edits a caller asks for to a note tree, in
// a fixed order: deletions, then frequency substitution, then
// harmonization.
package arrange

import (
	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/notetree"
	"github.com/pkg/errors"
)

type Options struct {
	Deletes []model.Position

	// ShiftFrom and ShiftTo are note names; both or neither must be set.
	ShiftFrom string
	ShiftTo   string

	Harmonize bool
	Semitones int
	// IntervalFrom and IntervalTo, when set, replace Semitones with the
	// distance between the two named notes.
	IntervalFrom string
	IntervalTo   string
	TimeShift    float64
}

type Result struct {
	Deleted  int
	Replaced int
	Harmony  *model.HarmonizeStats
}

// semitones resolves the harmony interval before anything is changed so
// a bad note name can't leave the tree half edited.
func (o Options) semitones(tree *notetree.Tree) (int, error) {
	if o.IntervalFrom == "" && o.IntervalTo == "" {
		return o.Semitones, nil
	}
	return notetree.Interval(tree.Table(), o.IntervalFrom, o.IntervalTo)
}

func (o Options) validate(tree *notetree.Tree) error {
	if (o.ShiftFrom == "") != (o.ShiftTo == "") {
		return errors.New("frequency shift needs both a source and a destination note")
	}
	if o.ShiftFrom != "" {
		if _, err := tree.Table().Lookup(o.ShiftFrom); err != nil {
			return errors.Wrap(err, "source note")
		}
		if _, err := tree.Table().Lookup(o.ShiftTo); err != nil {
			return errors.Wrap(err, "destination note")
		}
	}
	return nil
}

func Apply(tree *notetree.Tree, o Options) (Result, error) {
	var res Result
	if err := o.validate(tree); err != nil {
		return res, err
	}
	semitones := o.Semitones
	if o.Harmonize {
		var err error
		semitones, err = o.semitones(tree)
		if err != nil {
			return res, err
		}
	}

	for _, p := range o.Deletes {
		if tree.Delete(p.Bar, p.SubIndex) {
			res.Deleted++
		}
	}

	if o.ShiftFrom != "" {
		replaced, err := tree.ShiftFrequency(o.ShiftFrom, o.ShiftTo)
		if err != nil {
			return res, err
		}
		res.Replaced = replaced
	}

	if o.Harmonize {
		stats := tree.Harmonize(semitones, o.TimeShift)
		res.Harmony = &stats
	}
	return res, nil
}

// FromRequest maps an HTTP request body onto Options.
func FromRequest(body model.PlaylistRequestBody) Options {
	o := Options{Deletes: body.Deletes}
	if body.Shift != nil {
		o.ShiftFrom = body.Shift.From
		o.ShiftTo = body.Shift.To
	}
	if body.Harmonize != nil {
		o.Harmonize = true
		o.Semitones = body.Harmonize.Semitones
		o.TimeShift = body.Harmonize.TimeShift
	}
	return o
}
