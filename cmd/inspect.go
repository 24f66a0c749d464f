package cmd

import (
	"fmt"

	"github.com/jsphweid/notetree/model"
	"github.com/jsphweid/notetree/notetree"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score> <bar:index>",
	Short: "Looks up a note",
	Long:  `Looks up the note at a position in a score`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := model.ParsePosition(args[1])
		if err != nil {
			return err
		}
		tree, err := loadTree(args[0])
		if err != nil {
			return err
		}
		defer tree.Teardown()
		inspect(tree, pos)
		return nil
	},
}

func inspect(tree *notetree.Tree, pos model.Position) {
	n, ok := tree.Search(pos.Bar, pos.SubIndex)
	if !ok {
		fmt.Printf("No note at %v\n", pos)
		return
	}
	fmt.Printf("key: %v\n", n.Key())
	fmt.Printf("frequency: %v Hz\n", n.Frequency)
	if i, ok := table.IndexOf(n.Frequency); ok {
		name, _ := table.Name(i)
		fmt.Printf("name: %v\n", name)
	}
}
