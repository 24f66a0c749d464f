package notetree

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/model"
)

// Tree owns a root and keeps it current across mutations. It is not safe
// for concurrent use.
type Tree struct {
	root  *Node
	size  int
	table *freqtable.Table
	log   *slog.Logger
}

type Option func(*Tree)

func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		t.log = l
	}
}

func New(table *freqtable.Table, opts ...Option) *Tree {
	t := &Tree{table: table, log: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert reports false, and logs a warning, when the position is taken.
func (t *Tree) Insert(n model.Note) bool {
	var inserted bool
	t.root, inserted = Insert(t.root, n)
	if !inserted {
		t.log.Warn("duplicate position requested, ignored", "bar", n.Bar, "index", n.SubIndex)
		return false
	}
	t.size++
	return true
}

func (t *Tree) Search(bar int, subIndex float64) (model.Note, bool) {
	node, ok := Search(t.root, bar, subIndex)
	if !ok {
		return model.Note{}, false
	}
	return node.Note, true
}

func (t *Tree) Delete(bar int, subIndex float64) bool {
	var deleted bool
	t.root, deleted = Delete(t.root, bar, subIndex)
	if !deleted {
		t.log.Debug("delete of absent position ignored", "bar", bar, "index", subIndex)
		return false
	}
	t.size--
	return true
}

func (t *Tree) Len() int {
	return t.size
}

func (t *Tree) Height() int {
	return Height(t.root)
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) Table() *freqtable.Table {
	return t.table
}

func (t *Tree) Playlist() model.Playlist {
	return MakePlaylist(t.root)
}

func (t *Tree) Print(w io.Writer, order Order) error {
	return Print(w, t.root, order)
}

func (t *Tree) ShiftFrequency(src, dst string) (int, error) {
	replaced, err := ShiftFrequency(t.root, t.table, src, dst)
	if err != nil {
		return 0, err
	}
	t.log.Debug("shifted frequency", "from", src, "to", dst, "replaced", replaced)
	return replaced, nil
}

func (t *Tree) Harmonize(semitones int, timeShift float64) model.HarmonizeStats {
	var stats model.HarmonizeStats
	t.root, stats = Harmonize(t.root, t.table, semitones, timeShift)
	t.size += stats.Added
	t.log.Debug("harmonized",
		"semitones", semitones,
		"time_shift", timeShift,
		"added", stats.Added,
		"cross_bar", stats.CrossBar,
		"untabled", stats.Untabled,
		"out_of_range", stats.OutOfRange,
		"probed", stats.Probed,
	)
	return stats
}

func (t *Tree) Teardown() {
	Teardown(t.root)
	t.root = nil
	t.size = 0
}

// Check verifies the ordering invariant, that every key matches its note
// and that the cached size is right.
func (t *Tree) Check() error {
	if err := Check(t.root); err != nil {
		return err
	}
	if n := Count(t.root); n != t.size {
		return fmt.Errorf("tree holds %d nodes but size is %d", n, t.size)
	}
	return nil
}

type bound struct {
	node   *Node
	lo, hi *float64
}

func Check(root *Node) error {
	if root == nil {
		return nil
	}
	stack := []bound{{node: root}}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := b.node
		if n.Key != n.Note.Key() {
			return fmt.Errorf("node %v has key %v", n.Note.Position(), n.Key)
		}
		if b.lo != nil && !(n.Key > *b.lo) {
			return fmt.Errorf("key %v is not greater than ancestor %v", n.Key, *b.lo)
		}
		if b.hi != nil && !(n.Key < *b.hi) {
			return fmt.Errorf("key %v is not less than ancestor %v", n.Key, *b.hi)
		}
		key := n.Key
		if n.Left != nil {
			stack = append(stack, bound{node: n.Left, lo: b.lo, hi: &key})
		}
		if n.Right != nil {
			stack = append(stack, bound{node: n.Right, lo: &key, hi: b.hi})
		}
	}
	return nil
}
