package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wundergraph/go-slab"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Print the size class ladder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses()
		},
	}
}

type classInfo struct {
	Class         int `json:"class"`
	BlockSize     int `json:"block_size"`
	BlocksPerPage int `json:"blocks_per_page"`
	MaxRequest    int `json:"max_request"`
}

func classTable() []classInfo {
	infos := make([]classInfo, slab.NumClasses)
	for class := range infos {
		infos[class] = classInfo{
			Class:         class,
			BlockSize:     slab.BlockSize(class),
			BlocksPerPage: slab.BlocksPerPage(class),
			MaxRequest:    slab.BlockSize(class) - slab.HeaderSize,
		}
	}
	return infos
}

func runClasses() error {
	infos := classTable()
	if jsonOut {
		return printJSON(infos)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	printRow(w, "CLASS", "BLOCK", "PER PAGE", "MAX REQUEST")
	for _, info := range infos {
		printRow(w, info.Class, info.BlockSize, info.BlocksPerPage, info.MaxRequest)
	}
	return w.Flush()
}

func printRow(w *tabwriter.Writer, cols ...interface{}) {
	for _, col := range cols {
		fmt.Fprintf(w, "%v\t", col)
	}
	fmt.Fprintln(w)
}
