package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wundergraph/go-slab"
)

var (
	// Global flags
	verbose     bool
	jsonOut     bool
	debugHeap   bool
	pageSource  string
	maxReserved int
)

var rootCmd = &cobra.Command{
	Use:   "slabctl",
	Short: "Exercise and inspect the size-class slab heap",
	Long: `slabctl drives a slab heap from the command line. It can replay the
classic allocate/free walk-through, print the size class ladder, and run
random workloads while reporting live and reserved memory.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log page provisioning to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debugHeap, "debug", false, "Track live pointers and panic on invalid frees")
	rootCmd.PersistentFlags().StringVar(&pageSource, "source", "default", "Page source: default or heap")
	rootCmd.PersistentFlags().IntVar(&maxReserved, "max-reserved", 0, "Cap on reserved bytes (0 = unlimited)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newHeap builds a heap from the global flags.
func newHeap() (*slab.Heap, error) {
	opts := []slab.Option{
		slab.WithLogger(newLogger()),
		slab.WithMaxReserved(maxReserved),
	}
	switch pageSource {
	case "", "default":
	case "heap":
		opts = append(opts, slab.WithPageSource(slab.NewHeapPageSource()))
	default:
		return nil, fmt.Errorf("unknown page source %q (want default or heap)", pageSource)
	}
	if debugHeap {
		opts = append(opts, slab.WithDebug())
	}
	return slab.NewHeap(opts...), nil
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// printInfo prints to stdout
func printInfo(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
