package main

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	demoSize int
)

func init() {
	cmd := newDemoCmd()
	cmd.Flags().IntVar(&demoSize, "size", 12, "Request size used for every allocation")
	rootCmd.AddCommand(cmd)
}

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Replay the allocate/free walk-through",
		Long: `The demo command allocates eight blocks of the same size while freeing
two of them in between, printing every address. Freed blocks are handed out
again in LIFO order, so SIX reuses THREE and EIGHT reuses ONE. Live and
reserved bytes are reported before and after releasing everything.

Example:
  slabctl demo
  slabctl demo --size 100 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
	return cmd
}

type demoStep struct {
	Op   string `json:"op"`
	Name string `json:"name"`
	Addr string `json:"addr"`
}

type demoResult struct {
	Size          int        `json:"size"`
	Steps         []demoStep `json:"steps"`
	LiveMidway    int        `json:"live_midway"`
	LiveBytes     int        `json:"live_bytes"`
	ReservedBytes int        `json:"reserved_bytes"`
	PeakBytes     int        `json:"peak_bytes"`
}

var demoScript = []struct {
	op, name string
}{
	{"alloc", "one"},
	{"alloc", "two"},
	{"alloc", "three"},
	{"alloc", "four"},
	{"alloc", "five"},
	{"free", "three"},
	{"alloc", "six"},
	{"alloc", "seven"},
	{"free", "one"},
	{"alloc", "eight"},
	{"live", ""},
	{"free", "eight"},
	{"free", "six"},
	{"free", "four"},
	{"free", "two"},
	{"free", "seven"},
	{"free", "five"},
}

func runDemo() error {
	h, err := newHeap()
	if err != nil {
		return err
	}

	res := demoResult{Size: demoSize}
	ptrs := map[string]unsafe.Pointer{}
	liveAt := -1
	for _, step := range demoScript {
		switch step.op {
		case "alloc":
			ptr, err := h.Alloc(demoSize)
			if err != nil {
				return fmt.Errorf("allocating %s: %w", step.name, err)
			}
			ptrs[step.name] = ptr
		case "free":
			h.Free(ptrs[step.name])
		case "live":
			res.LiveMidway = h.LiveBytes()
			liveAt = len(res.Steps) - 1
			continue
		}
		res.Steps = append(res.Steps, demoStep{
			Op:   step.op,
			Name: step.name,
			Addr: fmt.Sprintf("%p", ptrs[step.name]),
		})
	}
	res.LiveBytes = h.LiveBytes()
	res.ReservedBytes = h.ReservedBytes()
	res.PeakBytes = h.PeakBytes()

	if jsonOut {
		return printJSON(res)
	}

	for i, step := range res.Steps {
		label := strings.ToUpper(step.Name)
		if step.Op == "free" {
			label = "FREE " + label
		}
		printInfo("%-12s %s\n", label, step.Addr)
		if i == liveAt {
			printInfo("live: %d bytes\n", res.LiveMidway)
		}
	}
	printInfo("reserved: %s\n", humanize.IBytes(uint64(res.ReservedBytes)))
	printInfo("live: %d bytes (peak %d)\n", res.LiveBytes, res.PeakBytes)
	return nil
}
