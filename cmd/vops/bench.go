package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-vops/internal/bench"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		n          int
		runs       int
		format     string
		ops        []string
		cpuProfile string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the vector operations in float32 and float64",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if n < 1 {
				return errors.New("--n must be at least 1")
			}
			if runs < 1 {
				return errors.New("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return errors.New("--format must be 'table' or 'json'")
			}

			opts := bench.Options{N: n, Runs: runs, Ops: ops}

			if cpuProfile != "" {
				f, err := os.Create(cpuProfile)
				if err != nil {
					return fmt.Errorf("create cpu profile: %w", err)
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()

				opts.CPUProfile = f
			}

			results, err := bench.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return bench.FormatJSON(results, out)
			}

			bench.FormatTable(results, out)

			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 4096, "Vector length")
	cmd.Flags().IntVar(&runs, "runs", 20, "Timed runs per operation")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().StringSliceVar(&ops, "ops", nil, "Operations to run (default all)")
	cmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "Write a CPU profile to this file")

	return cmd
}
