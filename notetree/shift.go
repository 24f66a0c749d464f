package notetree

import (
	"github.com/jsphweid/notetree/freqtable"
	"github.com/pkg/errors"
)

// ShiftFrequency replaces every note sounding src with dst. Matching is
// exact float equality against the table's frequency for src, so it only
// finds notes whose frequency was taken from the same table. If either
// name can't be resolved the tree is not touched.
func ShiftFrequency(root *Node, table *freqtable.Table, src, dst string) (int, error) {
	from, err := table.FrequencyOf(src)
	if err != nil {
		return 0, errors.Wrap(err, "source note")
	}
	to, err := table.FrequencyOf(dst)
	if err != nil {
		return 0, errors.Wrap(err, "destination note")
	}

	replaced := 0
	InOrder(root, func(_ int, n *Node) {
		if n.Note.Frequency == from {
			n.Note.Frequency = to
			replaced++
		}
	})
	return replaced, nil
}
