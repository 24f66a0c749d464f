package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Note is a single pitched event at a position within the score.
type Note struct {
	Frequency float64 `json:"frequency"`
	Bar       int     `json:"bar"`
	SubIndex  float64 `json:"sub_index"`
}

// Key orders notes by time. Bars are spaced 10 apart so any sub-index in
// [0,1) stays inside its own bar.
func (n Note) Key() float64 {
	return PositionKey(n.Bar, n.SubIndex)
}

func (n Note) Position() Position {
	return Position{Bar: n.Bar, SubIndex: n.SubIndex}
}

// MaxBar is the last bar a note may sit in. Up to here a key still
// resolves steps well below 1e-6 within a bar.
const MaxBar = 1_000_000

func (n Note) Validate() error {
	if !(n.Frequency > 0) || math.IsInf(n.Frequency, 0) {
		return fmt.Errorf("frequency must be positive and finite, got %v", n.Frequency)
	}
	return n.Position().Validate()
}

// Playlist is a time ordered copy of the notes in a tree.
type Playlist = []Note

type Position struct {
	Bar      int     `json:"bar"`
	SubIndex float64 `json:"sub_index"`
}

func PositionKey(bar int, subIndex float64) float64 {
	return 10.0*float64(bar) + subIndex
}

func (p Position) Key() float64 {
	return PositionKey(p.Bar, p.SubIndex)
}

func (p Position) Validate() error {
	if p.Bar < 0 || p.Bar > MaxBar {
		return fmt.Errorf("bar must be in [0,%d], got %v", MaxBar, p.Bar)
	}
	// written so NaN fails
	if !(p.SubIndex >= 0 && p.SubIndex < 1) {
		return fmt.Errorf("sub-index must be in [0,1), got %v", p.SubIndex)
	}
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%f", p.Bar, p.SubIndex)
}

// ParsePosition reads the "bar:index" form used on the command line.
func ParsePosition(s string) (Position, error) {
	var p Position
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return p, fmt.Errorf("position %q is not of the form bar:index", s)
	}
	bar, err := strconv.Atoi(parts[0])
	if err != nil {
		return p, errors.Wrapf(err, "bad bar in position %q", s)
	}
	idx, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return p, errors.Wrapf(err, "bad index in position %q", s)
	}
	p.Bar = bar
	p.SubIndex = idx
	if err := p.Validate(); err != nil {
		return Position{}, errors.Wrapf(err, "position %q is out of range", s)
	}
	return p, nil
}
