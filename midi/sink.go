package midi

import (
	"context"
	"io"
	"math"
	"sort"

	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/model"
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Sink writes a playlist out as a single track standard MIDI file.
type Sink struct {
	W               io.Writer
	Table           *freqtable.Table
	TicksPerQuarter uint16
	BeatsPerBar     int
	// NoteLength is the fraction of a bar each note is held for.
	NoteLength float64
	// BPM is written as the file's tempo when set.
	BPM      float64
	Velocity uint8
}

type event struct {
	tick uint64
	on   bool
	key  uint8
}

// keyFor prefers the table's own key for the frequency and falls back to
// the nearest equal tempered key.
func (s *Sink) keyFor(freq float64) uint8 {
	if s.Table != nil {
		if i, ok := s.Table.IndexOf(freq); ok {
			if key, ok := s.Table.MIDIKey(i); ok {
				return key
			}
		}
	}
	key := math.Round(69 + 12*math.Log2(freq/440))
	return uint8(math.Max(0, math.Min(127, key)))
}

func (s *Sink) events(playlist model.Playlist) []event {
	ticksPerBar := float64(s.TicksPerQuarter) * float64(s.BeatsPerBar)
	hold := uint64(math.Max(1, math.Round(s.NoteLength*ticksPerBar)))

	events := make([]event, 0, 2*len(playlist))
	for _, n := range playlist {
		start := uint64(n.Bar)*uint64(ticksPerBar) + uint64(math.Round(n.SubIndex*ticksPerBar))
		key := s.keyFor(n.Frequency)
		events = append(events,
			event{tick: start, on: true, key: key},
			event{tick: start + hold, on: false, key: key},
		)
	}
	// note-offs go first so a repeated key is released before it restrikes
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})
	return events
}

func (s *Sink) Play(ctx context.Context, playlist model.Playlist) error {
	if s.TicksPerQuarter == 0 || s.BeatsPerBar <= 0 {
		return errors.New("midi sink needs ticks per quarter and beats per bar")
	}
	velocity := s.Velocity
	if velocity == 0 {
		velocity = 100
	}

	var track smf.Track
	if s.BPM > 0 {
		track.Add(0, smf.MetaTempo(s.BPM))
	}
	var last uint64
	for _, e := range s.events(playlist) {
		if err := ctx.Err(); err != nil {
			return err
		}
		delta := uint32(e.tick - last)
		last = e.tick
		if e.on {
			track.Add(delta, gomidi.NoteOn(0, e.key, velocity))
		} else {
			track.Add(delta, gomidi.NoteOff(0, e.key))
		}
	}
	track.Close(0)

	file := smf.New()
	file.TimeFormat = smf.MetricTicks(s.TicksPerQuarter)
	if err := file.Add(track); err != nil {
		return errors.Wrap(err, "could not add track")
	}
	if _, err := file.WriteTo(s.W); err != nil {
		return errors.Wrap(err, "could not write midi")
	}
	return nil
}
