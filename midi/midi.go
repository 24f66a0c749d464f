package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jsphweid/notetree/freqtable"
	"github.com/jsphweid/notetree/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF
	var err error

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)

	if err != nil {
		errText := fmt.Sprintf("Error reading midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))

	if err != nil {
		errText := fmt.Sprintf("Error parsing midi file... %s", err.Error())
		return &blank, errors.New(errText)
	}

	return res, nil
}

func ticksPerQuarter(s *smf.SMF) (uint32, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return 0, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	return uint32(mt), nil
}

// Notes turns every note-on in every track into a Note. Bars are
// beatsPerBar quarter notes long; the index is how far into the bar the
// note starts. Keys outside the frequency table are dropped.
func Notes(s *smf.SMF, table *freqtable.Table, beatsPerBar int) ([]model.Note, error) {
	if beatsPerBar <= 0 {
		return nil, fmt.Errorf("beats per bar must be positive, got %d", beatsPerBar)
	}
	tpq, err := ticksPerQuarter(s)
	if err != nil {
		return nil, err
	}
	ticksPerBar := uint64(tpq) * uint64(beatsPerBar)

	var notes []model.Note
	for _, track := range s.Tracks {
		var absTicks uint64
		for _, event := range track {
			absTicks += uint64(event.Delta)
			var channel, key, velocity uint8
			if !event.Message.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
				continue
			}
			i, ok := table.IndexForMIDIKey(key)
			if !ok {
				continue
			}
			if absTicks/ticksPerBar > model.MaxBar {
				return nil, fmt.Errorf("note at tick %d is past bar %d", absTicks, model.MaxBar)
			}
			freq, _ := table.Frequency(i)
			notes = append(notes, model.Note{
				Frequency: freq,
				Bar:       int(absTicks / ticksPerBar),
				SubIndex:  float64(absTicks%ticksPerBar) / float64(ticksPerBar),
			})
		}
	}
	return notes, nil
}
