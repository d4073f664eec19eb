package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wundergraph/go-slab"
)

var (
	workloadOps        int
	workloadSeed       uint64
	workloadMaxSize    int
	workloadFreePct    int
	workloadReleaseAll bool
)

func init() {
	cmd := newWorkloadCmd()
	cmd.Flags().IntVar(&workloadOps, "ops", 10000, "Number of allocate/free operations")
	cmd.Flags().Uint64Var(&workloadSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&workloadMaxSize, "max-size", slab.MaxRequest, "Largest request size")
	cmd.Flags().IntVar(&workloadFreePct, "free-pct", 40, "Percentage of operations that free a live block")
	cmd.Flags().BoolVar(&workloadReleaseAll, "release-all", false, "Free every live block before reporting")
	rootCmd.AddCommand(cmd)
}

func newWorkloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Run a random allocate/free workload and report heap statistics",
		Long: `The workload command performs a seeded random mix of allocations and
frees, then verifies every free list and prints per-class statistics.
Allocations that fail with out-of-memory (see --max-reserved) are counted
and the workload continues.

Example:
  slabctl workload --ops 100000 --seed 42
  slabctl workload --max-reserved 65536 --release-all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload()
		},
	}
	return cmd
}

type workloadResult struct {
	Ops       int        `json:"ops"`
	Allocs    int        `json:"allocs"`
	Frees     int        `json:"frees"`
	OOM       int        `json:"out_of_memory"`
	Remaining int        `json:"remaining"`
	Stats     slab.Stats `json:"stats"`
}

func runWorkload() error {
	if workloadMaxSize < 0 || workloadMaxSize > slab.MaxRequest {
		return fmt.Errorf("--max-size must be between 0 and %d", slab.MaxRequest)
	}
	if workloadFreePct < 0 || workloadFreePct > 100 {
		return fmt.Errorf("--free-pct must be between 0 and 100")
	}
	h, err := newHeap()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(workloadSeed, workloadSeed^0x9e3779b97f4a7c15))
	res := workloadResult{Ops: workloadOps}
	var live []unsafe.Pointer
	for i := 0; i < workloadOps; i++ {
		if len(live) > 0 && rng.IntN(100) < workloadFreePct {
			j := rng.IntN(len(live))
			h.Free(live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
			res.Frees++
			continue
		}
		ptr, err := h.Alloc(rng.IntN(workloadMaxSize + 1))
		if errors.Is(err, slab.ErrOutOfMemory) {
			res.OOM++
			continue
		}
		if err != nil {
			return err
		}
		live = append(live, ptr)
		res.Allocs++
	}
	if workloadReleaseAll {
		for _, ptr := range live {
			h.Free(ptr)
			res.Frees++
		}
		live = nil
	}
	if err := h.Verify(); err != nil {
		return err
	}
	res.Remaining = len(live)
	res.Stats = h.Stats()

	if jsonOut {
		return printJSON(res)
	}

	printInfo("ops: %d  allocs: %d  frees: %d  out of memory: %d  remaining: %d\n",
		res.Ops, res.Allocs, res.Frees, res.OOM, res.Remaining)
	printInfo("live: %s  peak: %s  reserved: %s\n",
		humanize.IBytes(uint64(res.Stats.LiveBytes)),
		humanize.IBytes(uint64(res.Stats.PeakBytes)),
		humanize.IBytes(uint64(res.Stats.ReservedBytes)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	printRow(w, "BLOCK", "PAGES", "USED", "FREE")
	for _, cs := range res.Stats.Classes {
		printRow(w, cs.BlockSize, cs.Pages, cs.UsedBlocks, cs.FreeBlocks)
	}
	return w.Flush()
}
