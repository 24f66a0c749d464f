package notetree

import (
	"math/rand"
	"testing"

	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freq(t *testing.T, name string) float64 {
	f, err := freqtable.Default().FrequencyOf(name)
	require.NoError(t, err)
	return f
}

func TestShiftFrequencyReplacesOnlyMatches(t *testing.T) {
	tree := quietTree()
	tree.Insert(note(0, 0.0, 261.6))
	tree.Insert(note(0, 0.5, 329.6))
	tree.Insert(note(1, 0.0, 261.6))
	tree.Insert(note(1, 0.5, 261.61))

	replaced, err := tree.ShiftFrequency("C4", "D4")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, replaced)
	assert.Equal(model.Playlist{
		note(0, 0.0, 293.7),
		note(0, 0.5, 329.6),
		note(1, 0.0, 293.7),
		note(1, 0.5, 261.61),
	}, tree.Playlist())
}

func TestShiftFrequencyUnknownNameLeavesTreeAlone(t *testing.T) {
	tree := quietTree()
	tree.Insert(note(0, 0.0, 261.6))
	before := tree.Playlist()

	cases := []struct {
		src, dst string
		want     error
	}{
		{"C4", "X9", freqtable.ErrUnknownNoteName},
		{"Q1", "D4", freqtable.ErrUnknownNoteName},
		{"C#10", "D4", freqtable.ErrNameTooLong},
		{"C4", "Dbb4", freqtable.ErrNameTooLong},
	}
	for _, c := range cases {
		t.Run(c.src+"->"+c.dst, func(t *testing.T) {
			_, err := tree.ShiftFrequency(c.src, c.dst)
			assert.True(t, errors.Is(err, c.want), "got %v", err)
			assert.Equal(t, before, tree.Playlist())
		})
	}
}

func TestHarmonizeAddsShiftedCopies(t *testing.T) {
	tree := quietTree()
	tree.Insert(note(0, 0.0, freq(t, "C4")))
	tree.Insert(note(0, 0.5, freq(t, "E4")))
	tree.Insert(note(2, 0.25, freq(t, "G4")))

	stats := tree.Harmonize(7, 0.125)

	assert := assert.New(t)
	assert.Equal(3, stats.Added)
	assert.Equal(0, stats.Probed)
	assert.Equal(6, tree.Len())
	assert.Equal(model.Playlist{
		note(0, 0.0, freq(t, "C4")),
		note(0, 0.125, freq(t, "G4")),
		note(0, 0.5, freq(t, "E4")),
		note(0, 0.625, freq(t, "B4")),
		note(2, 0.25, freq(t, "G4")),
		note(2, 0.375, freq(t, "D5")),
	}, tree.Playlist())
	assert.NoError(tree.Check())
}

func TestHarmonizeProbesPastTakenPositions(t *testing.T) {
	tree := quietTree()
	tree.Insert(note(0, 0.0, freq(t, "C4")))
	tree.Insert(note(0, 0.25, freq(t, "E4")))

	stats := tree.Harmonize(4, 0.25)

	assert := assert.New(t)
	assert.Equal(2, stats.Added)
	assert.Equal(1, stats.Probed)

	playlist := tree.Playlist()
	require.Len(t, playlist, 4)
	assert.Equal(note(0, 0.0, freq(t, "C4")), playlist[0])
	assert.Equal(note(0, 0.25, freq(t, "E4")), playlist[1])
	assert.InDelta(0.25+ProbeStep, playlist[2].SubIndex, 1e-12)
	assert.Equal(freq(t, "E4"), playlist[2].Frequency)
	assert.Equal(note(0, 0.5, freq(t, "G#4")), playlist[3])
}

func TestHarmonizeProbesInLastBar(t *testing.T) {
	tree := quietTree()
	tree.Insert(note(model.MaxBar, 0.0, freq(t, "C4")))
	tree.Insert(note(model.MaxBar, 0.25, freq(t, "E4")))

	stats := tree.Harmonize(4, 0.25)

	assert := assert.New(t)
	assert.Equal(2, stats.Added)
	assert.Equal(1, stats.Probed)
	assert.NoError(tree.Check())

	playlist := tree.Playlist()
	require.Len(t, playlist, 4)
	assert.Equal(model.MaxBar, playlist[2].Bar)
	assert.InDelta(0.25+ProbeStep, playlist[2].SubIndex, 1e-12)
	assert.Less(playlist[1].Key(), playlist[2].Key())
}

func TestHarmonizeProbesPastOtherHarmonyNotes(t *testing.T) {
	tree := quietTree()
	tree.Insert(note(0, 0.3, freq(t, "A4")))
	tree.Insert(note(0, 0.3+ProbeStep, freq(t, "A4")))

	// with no time shift every harmony note starts on its own original
	stats := tree.Harmonize(0, 0)

	assert := assert.New(t)
	assert.Equal(2, stats.Added)
	assert.Equal(4, stats.Probed)
	assert.Equal(4, tree.Len())
	assert.NoError(tree.Check())
}

func TestHarmonizeSkips(t *testing.T) {
	table := freqtable.Default()
	top, _ := table.Frequency(freqtable.Size - 1)
	bottom, _ := table.Frequency(0)

	cases := []struct {
		name      string
		notes     []model.Note
		semitones int
		shift     float64
		want      model.HarmonizeStats
	}{
		{"past end of bar", []model.Note{note(0, 0.75, 440.0)}, 2, 0.25, model.HarmonizeStats{CrossBar: 1}},
		{"before start of bar", []model.Note{note(3, 0.1, 440.0)}, 2, -0.2, model.HarmonizeStats{CrossBar: 1}},
		{"above the table", []model.Note{note(0, 0, top)}, 1, 0, model.HarmonizeStats{OutOfRange: 1}},
		{"below the table", []model.Note{note(0, 0, bottom)}, -1, 0.5, model.HarmonizeStats{OutOfRange: 1}},
		{"not in the table", []model.Note{note(0, 0, 441.0)}, 1, 0.5, model.HarmonizeStats{Untabled: 1}},
		{"probe leaves the bar", []model.Note{note(0, 1-ProbeStep/2, 440.0)}, 1, 0, model.HarmonizeStats{CrossBar: 1, Probed: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := quietTree()
			for _, n := range c.notes {
				tree.Insert(n)
			}
			before := tree.Playlist()
			stats := tree.Harmonize(c.semitones, c.shift)
			assert.Equal(t, c.want, stats)
			assert.Equal(t, before, tree.Playlist())
		})
	}
}

func TestHarmonizeEmptyTree(t *testing.T) {
	root, stats := Harmonize(nil, freqtable.Default(), 3, 0.1)
	assert.Nil(t, root)
	assert.Equal(t, model.HarmonizeStats{}, stats)
}

func TestHarmonizeNeverDuplicatesPositions(t *testing.T) {
	table := freqtable.Default()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		tree := quietTree()
		for i := 0; i < 60; i++ {
			f, _ := table.Frequency(rng.Intn(freqtable.Size))
			tree.Insert(note(rng.Intn(4), float64(rng.Intn(16))/16, f))
		}
		before := tree.Len()
		semitones := rng.Intn(25) - 12
		shift := float64(rng.Intn(9)-4) / 16

		stats := tree.Harmonize(semitones, shift)
		stats2 := tree.Harmonize(semitones, shift)

		require.NoError(t, tree.Check())
		assert.Equal(t, before+stats.Added+stats2.Added, tree.Len())

		seen := make(map[model.Position]bool)
		for _, n := range tree.Playlist() {
			assert.False(t, seen[n.Position()], "position %v repeated", n.Position())
			seen[n.Position()] = true
			assert.Less(t, n.SubIndex, 1.0)
		}
	}
}

func TestInterval(t *testing.T) {
	table := freqtable.Default()
	n, err := Interval(table, "C4", "G4")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = Interval(table, "A4", "A3")
	require.NoError(t, err)
	assert.Equal(t, -12, n)

	_, err = Interval(table, "C4", "Z4")
	assert.True(t, errors.Is(err, freqtable.ErrUnknownNoteName))
}
