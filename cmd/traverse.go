package cmd

import (
	"os"

	"github.com/jsphweid/notetree/notetree"
	"github.com/spf13/cobra"
)

var (
	traverseFlags arrangeFlags
	traverseOrder string
)

func init() {
	traverseFlags.register(traverseCmd)
	traverseCmd.Flags().StringVar(&traverseOrder, "order", "in", "traversal order: in, pre or post")
	rootCmd.AddCommand(traverseCmd)
}

var traverseCmd = &cobra.Command{
	Use:   "traverse <score>",
	Short: "Prints the note tree",
	Long:  `Prints one line per note with its depth in the tree, after any edits.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := notetree.ParseOrder(traverseOrder)
		if err != nil {
			return err
		}
		tree, _, err := buildArrangement(args[0], &traverseFlags)
		if err != nil {
			return err
		}
		defer tree.Teardown()
		return tree.Print(os.Stdout, order)
	},
}
