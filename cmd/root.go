package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/notetree/config"
	"github.com/jsphweid/notetree/constants"
	"github.com/jsphweid/notetree/freqtable"
	"github.com/spf13/cobra"
)

var (
	configPath string
	tablePath  string
	verbose    bool

	cfg    *config.Config
	table  *freqtable.Table
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "notetree",
	Short: "Arranges and plays scores",
	Long: `Loads a score into a position ordered note tree, edits it
(delete, substitute, harmonize) and plays the result to WAV or MIDI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $NOTETREE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&tablePath, "table", "", "note frequency table (default $NOTETREE_FREQ_TABLE or built in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func setup() error {
	constants.LoadDotEnv()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if configPath == "" {
		configPath = constants.GetConfigPath()
	}
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	if tablePath == "" {
		tablePath = constants.GetFrequencyTablePath()
	}
	if tablePath == "" {
		table = freqtable.Default()
		return nil
	}
	table, err = freqtable.LoadFile(tablePath)
	return err
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
