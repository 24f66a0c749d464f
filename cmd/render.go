package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jsphweid/notetree/arrange"
	"github.com/jsphweid/notetree/midi"
	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/synth"
	"github.com/jsphweid/notetree/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	renderFlags arrangeFlags
	renderOut   string
	renderMidi  string
)

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "WAV output path (default <out dir>/<uuid>.wav)")
	renderCmd.Flags().StringVar(&renderMidi, "midi", "", "also write the playlist as a MIDI file")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <score>",
	Short: "Renders a score to audio",
	Long: `Loads a score (text or .mid), applies any deletions, substitution
and harmonization, and writes the in-order playlist as a WAV file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := render(cmd.Context(), args[0], renderOut, renderMidi, &renderFlags)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %v\n", path)
		return nil
	},
}

func render(ctx context.Context, scorePath, out, midiPath string, flags *arrangeFlags) (string, error) {
	tree, res, err := buildArrangement(scorePath, flags)
	if err != nil {
		return "", err
	}
	printResult(res)
	playlist := tree.Playlist()
	tree.Teardown()

	if out == "" {
		out = filepath.Join(util.EnsureOutputDir(), uuid.New().String()+".wav")
	}
	if err := writeTo(ctx, out, playlist, func(f *os.File) synth.Sink {
		return &synth.WAVSink{W: f, Config: cfg.Synth()}
	}); err != nil {
		return "", err
	}
	if midiPath != "" {
		if err := writeTo(ctx, midiPath, playlist, func(f *os.File) synth.Sink {
			return newMidiSink(f)
		}); err != nil {
			return "", err
		}
	}
	return out, nil
}

func newMidiSink(f *os.File) *midi.Sink {
	return &midi.Sink{
		W:               f,
		Table:           table,
		TicksPerQuarter: uint16(cfg.TicksPerQuarter),
		BeatsPerBar:     cfg.BeatsPerBar,
		NoteLength:      cfg.NoteLength,
		BPM:             cfg.BPM(),
	}
}

func writeTo(ctx context.Context, path string, playlist model.Playlist, sink func(*os.File) synth.Sink) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create output")
	}
	if err := sink(f).Play(ctx, playlist); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printResult(res arrange.Result) {
	if res.Deleted > 0 {
		fmt.Printf("Deleted %v notes\n", res.Deleted)
	}
	if res.Replaced > 0 {
		fmt.Printf("Replaced %v notes\n", res.Replaced)
	}
	if h := res.Harmony; h != nil {
		fmt.Printf("Harmonized: added %v, skipped %v across bars, %v off the table, %v not in the table\n",
			h.Added, h.CrossBar, h.OutOfRange, h.Untabled)
	}
}
