package main

import (
	"errors"
	"fmt"

	"github.com/example/go-vops/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var skipSelfTest bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, workspace, CPU and kernels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			result := doctor.Run(doctor.Config{
				Settings:     cfg,
				SkipSelfTest: skipSelfTest,
			}, out)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSelfTest, "skip-self-test", false, "Skip the kernel self-test")

	return cmd
}
