package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/notetree/util"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	watchFlags arrangeFlags
	watchOut   string
	watchMidi  string
)

func init() {
	watchFlags.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "WAV output path (default <out dir>/<score name>.wav)")
	watchCmd.Flags().StringVar(&watchMidi, "midi", "", "also write the playlist as a MIDI file")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <score>",
	Short: "Re-renders a score whenever it changes",
	Long: `Renders a score, then polls it and renders again once edits have
settled for the configured debounce period.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch(ctx, args[0])
	},
}

func watchOutput(scorePath string) string {
	if watchOut != "" {
		return watchOut
	}
	name := strings.TrimSuffix(filepath.Base(scorePath), filepath.Ext(scorePath))
	return filepath.Join(util.EnsureOutputDir(), name+".wav")
}

func watch(ctx context.Context, scorePath string) error {
	stat, err := os.Stat(scorePath)
	if err != nil {
		return errors.Wrap(err, "could not watch score")
	}
	lastMod := stat.ModTime()
	out := watchOutput(scorePath)

	var mu sync.Mutex
	rerender := func() {
		mu.Lock()
		defer mu.Unlock()
		if _, err := render(ctx, scorePath, out, watchMidi, &watchFlags); err != nil {
			logger.Error("render failed", "score", scorePath, "err", err)
			return
		}
		fmt.Printf("Rendered %v to %v\n", scorePath, out)
	}
	rerender()

	debounced := debounce.New(cfg.Debounce())
	ticker := time.NewTicker(cfg.WatchInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stat, err := os.Stat(scorePath)
			if err != nil {
				logger.Warn("could not stat score", "score", scorePath, "err", err)
				continue
			}
			if stat.ModTime().Equal(lastMod) {
				continue
			}
			lastMod = stat.ModTime()
			logger.Debug("score changed", "score", scorePath)
			debounced(rerender)
		}
	}
}
