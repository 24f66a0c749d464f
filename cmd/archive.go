package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/notetree/db"
	"github.com/jsphweid/notetree/score"
	"github.com/spf13/cobra"
)

func init() {
	archiveCmd.AddCommand(archivePutCmd)
	archiveCmd.AddCommand(archiveGetCmd)
	rootCmd.AddCommand(archiveCmd)
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Stores and fetches scores",
	Long:  `Stores and fetches named scores in DynamoDB`,
}

var archivePutCmd = &cobra.Command{
	Use:   "put <name> <score>",
	Short: "Stores a score",
	Long:  `Stores a score's notes, in time order, under a name`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := loadTree(args[1])
		if err != nil {
			return err
		}
		notes := tree.Playlist()
		tree.Teardown()

		archive, err := db.NewArchive()
		if err != nil {
			return err
		}
		if err := archive.SaveScore(args[0], notes); err != nil {
			return err
		}
		fmt.Printf("Stored %v notes as %v\n", len(notes), args[0])
		return nil
	},
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Prints a stored score",
	Long:  `Prints a stored score in the text score format`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := db.NewArchive()
		if err != nil {
			return err
		}
		notes, err := archive.GetScore(args[0])
		if err != nil {
			return err
		}
		return score.Format(os.Stdout, notes, table)
	},
}
