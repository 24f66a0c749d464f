// Package synth renders playlists to 16-bit mono PCM.
package synth

import (
	"context"
	"math"
	"time"

	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/util"
	"github.com/pkg/errors"
)

// ErrTooLong is returned when a playlist would render past MaxDuration.
var ErrTooLong = errors.New("rendered audio too long")

// Sink consumes a finished playlist.
type Sink interface {
	Play(ctx context.Context, playlist model.Playlist) error
}

type Config struct {
	SampleRate  int
	BarDuration time.Duration
	// NoteLength is the fraction of a bar each note rings for.
	NoteLength float64
	Volume     float64
	// MaxDuration caps the rendered length. Zero means no cap.
	MaxDuration time.Duration
}

// partials of a soft piano-like tone: frequency ratio, amplitude and how
// much faster than the fundamental it dies away
var partials = []struct {
	ratio, amplitude, decay float64
}{
	{1, 1.0, 1.0},
	{2, 0.6, 1.3},
	{3, 0.35, 1.7},
	{4, 0.2, 2.2},
	{5, 0.1, 2.8},
}

const attack = 0.004 // seconds

func (c Config) samples(d time.Duration) int {
	return int(d.Seconds() * float64(c.SampleRate))
}

func (c Config) start(n model.Note) int {
	bar := c.BarDuration.Seconds()
	return int((float64(n.Bar)*bar + n.SubIndex*bar) * float64(c.SampleRate))
}

func (c Config) noteSamples() int {
	return util.Max(1, int(c.NoteLength*c.BarDuration.Seconds()*float64(c.SampleRate)))
}

// end is when the last note stops ringing, in seconds.
func (c Config) end(playlist model.Playlist) float64 {
	bar := c.BarDuration.Seconds()
	var end float64
	for _, n := range playlist {
		end = math.Max(end, (float64(n.Bar)+n.SubIndex)*bar)
	}
	return end + c.NoteLength*bar
}

// Render mixes every note of the playlist into one buffer. Note i starts
// at (bar + index) bar lengths and rings for NoteLength of a bar.
func Render(playlist model.Playlist, c Config) ([]int16, error) {
	if len(playlist) == 0 || c.SampleRate <= 0 {
		return []int16{}, nil
	}
	end := c.end(playlist)
	if c.MaxDuration > 0 && end > c.MaxDuration.Seconds() {
		return nil, errors.Wrapf(ErrTooLong, "%.1fs exceeds %v", end, c.MaxDuration)
	}
	if !(end*float64(c.SampleRate) < math.MaxInt32) {
		return nil, errors.Wrapf(ErrTooLong, "%.1fs at %d Hz", end, c.SampleRate)
	}

	length := c.noteSamples()
	total := 0
	for _, n := range playlist {
		total = util.Max(total, c.start(n)+length)
	}

	mix := make([]float64, total)
	for _, n := range playlist {
		addTone(mix[c.start(n):c.start(n)+length], n.Frequency, c.SampleRate)
	}

	peak := 1.0
	for _, v := range mix {
		peak = math.Max(peak, math.Abs(v))
	}
	out := make([]int16, total)
	for i, v := range mix {
		out[i] = int16(util.Clamp(v/peak*c.Volume, -1, 1) * math.MaxInt16)
	}
	return out, nil
}

func addTone(dst []float64, freq float64, sampleRate int) {
	var norm float64
	for _, p := range partials {
		norm += p.amplitude
	}
	duration := float64(len(dst)) / float64(sampleRate)
	for i := range dst {
		t := float64(i) / float64(sampleRate)
		var v float64
		for _, p := range partials {
			// skip partials above nyquist
			if freq*p.ratio >= float64(sampleRate)/2 {
				continue
			}
			v += p.amplitude * math.Exp(-t/duration*p.decay*3) * math.Sin(2*math.Pi*freq*p.ratio*t)
		}
		dst[i] += v / norm * envelope(t, duration)
	}
}

// envelope is a short linear attack followed by a release over the last
// tenth of the note so notes don't click when they stop.
func envelope(t, duration float64) float64 {
	if t < attack {
		return t / attack
	}
	release := duration * 0.9
	if t > release {
		return math.Max(0, (duration-t)/(duration-release))
	}
	return 1
}
