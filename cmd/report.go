package cmd

import (
	"fmt"

	"github.com/jsphweid/notetree/notetree"
	"github.com/jsphweid/notetree/util"
	"github.com/spf13/cobra"
)

var reportFlags arrangeFlags

func init() {
	reportFlags.register(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report <score>",
	Short: "Creates a report",
	Long:  `Reports the size and shape of a score's note tree`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, res, err := buildArrangement(args[0], &reportFlags)
		if err != nil {
			return err
		}
		defer tree.Teardown()
		printResult(res)
		return report(tree)
	},
}

type treeReport struct {
	numNotes   int
	height     int
	notesInBar map[int]int
	lowest     float64
	highest    float64
}

func analyzeTree(tree *notetree.Tree) treeReport {
	r := treeReport{
		numNotes:   tree.Len(),
		height:     tree.Height(),
		notesInBar: make(map[int]int),
	}
	for i, n := range tree.Playlist() {
		r.notesInBar[n.Bar] += 1
		if i == 0 || n.Frequency < r.lowest {
			r.lowest = n.Frequency
		}
		if n.Frequency > r.highest {
			r.highest = n.Frequency
		}
	}
	return r
}

func report(tree *notetree.Tree) error {
	if err := tree.Check(); err != nil {
		return err
	}
	r := analyzeTree(tree)
	fmt.Printf("numNotes: %v\n", r.numNotes)
	fmt.Printf("height: %v\n", r.height)
	if r.numNotes == 0 {
		return nil
	}
	playlist := tree.Playlist()
	fmt.Printf("first: %v\n", playlist[0].Position())
	fmt.Printf("last: %v\n", playlist[len(playlist)-1].Position())
	fmt.Printf("range: %v Hz - %v Hz\n", r.lowest, r.highest)
	for _, bar := range util.SortedKeys(r.notesInBar) {
		fmt.Printf("bar %v: %v notes\n", bar, r.notesInBar[bar])
	}
	return nil
}
