package cmd

import (
	"fmt"
	"strings"

	"github.com/jsphweid/notetree/arrange"
	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/notetree"
	"github.com/jsphweid/notetree/score"
	"github.com/spf13/cobra"
)

// loadTree reads a score file and builds its tree.
func loadTree(path string) (*notetree.Tree, error) {
	notes, err := score.Load(path, table, cfg.BeatsPerBar)
	if err != nil {
		return nil, err
	}
	tree, duplicates := score.Build(notes, table, logger)
	logger.Debug("loaded score", "path", path, "notes", tree.Len(), "duplicates", duplicates)
	return tree, nil
}

type arrangeFlags struct {
	deletes   []string
	shiftFrom string
	shiftTo   string
	harmonize bool
	semitones int
	interval  string
	timeShift float64
}

func (f *arrangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.deletes, "delete", nil, "positions (bar:index) to delete")
	cmd.Flags().StringVar(&f.shiftFrom, "shift-from", "", "note name to replace")
	cmd.Flags().StringVar(&f.shiftTo, "shift-to", "", "note name to replace it with")
	cmd.Flags().BoolVar(&f.harmonize, "harmonize", false, "add a shifted harmony voice")
	cmd.Flags().IntVar(&f.semitones, "semitones", 0, "harmony pitch shift in semitones")
	cmd.Flags().StringVar(&f.interval, "interval", "", "harmony interval as two note names, e.g. C4:E4 (overrides --semitones)")
	cmd.Flags().Float64Var(&f.timeShift, "time-shift", 0, "harmony time shift as a fraction of a bar")
}

func (f *arrangeFlags) options() (arrange.Options, error) {
	o := arrange.Options{
		ShiftFrom: f.shiftFrom,
		ShiftTo:   f.shiftTo,
		Harmonize: f.harmonize || f.interval != "",
		Semitones: f.semitones,
		TimeShift: f.timeShift,
	}
	for _, d := range f.deletes {
		p, err := model.ParsePosition(d)
		if err != nil {
			return o, err
		}
		o.Deletes = append(o.Deletes, p)
	}
	if f.interval != "" {
		from, to, err := splitInterval(f.interval)
		if err != nil {
			return o, err
		}
		o.IntervalFrom = from
		o.IntervalTo = to
	}
	return o, nil
}

func buildArrangement(path string, f *arrangeFlags) (*notetree.Tree, arrange.Result, error) {
	var res arrange.Result
	opts, err := f.options()
	if err != nil {
		return nil, res, err
	}
	tree, err := loadTree(path)
	if err != nil {
		return nil, res, err
	}
	res, err = arrange.Apply(tree, opts)
	if err != nil {
		return nil, res, err
	}
	return tree, res, nil
}

func splitInterval(s string) (string, string, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("interval %q is not of the form FROM:TO", s)
	}
	return parts[0], parts[1], nil
}
