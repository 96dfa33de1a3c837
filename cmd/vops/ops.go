package main

import (
	"errors"
	"fmt"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/vops"
	"github.com/spf13/cobra"
)

func newNormCmds() []*cobra.Command {
	norms := []struct{ name, short string }{
		{"norm1", "Sum of absolute values"},
		{"norm2", "Euclidean norm"},
		{"norminf", "Largest absolute value"},
	}

	cmds := make([]*cobra.Command, 0, len(norms))
	for _, n := range norms {
		cmds = append(cmds, &cobra.Command{
			Use:   n.name + " X",
			Short: n.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runScalar(cmd, n.name, args)
			},
		})
	}

	return cmds
}

func newInnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inner [W] X Y",
		Short: "Inner product of X and Y, optionally weighted by W",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScalar(cmd, "inner", args)
		},
	}
}

func runScalar(cmd *cobra.Command, op string, texts []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	args, err := s.args(texts)
	if err != nil {
		return err
	}

	res, err := vops.Call(op, args...)
	if err != nil {
		return err
	}

	return s.out.scalar(res.Scalar)
}

func newScaleCmd() *cobra.Command {
	var (
		inPlace bool
		outName string
	)

	cmd := &cobra.Command{
		Use:   "scale X ALPHA",
		Short: "Multiply X by ALPHA",
		Long: `Multiply X by ALPHA. The operands may be given in either order.

With --in-place the variable X is overwritten; with --out the product is
stored in a new or existing variable. Otherwise the product is printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, texts []string) error {
			if inPlace && outName != "" {
				return errors.New("--in-place and --out are mutually exclusive")
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			if s.isNumber(texts[0]) && !s.isNumber(texts[1]) {
				texts = []string{texts[1], texts[0]}
			}

			if inPlace {
				return scaleInPlace(s, texts)
			}

			args, err := s.args(texts)
			if err != nil {
				return err
			}

			res, err := vops.Call("scale", args...)
			if err != nil {
				return err
			}

			return s.store(outName, res.Array)
		},
	}

	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Overwrite X with the product")
	cmd.Flags().StringVar(&outName, "out", "", "Store the product in this variable")

	return cmd
}

func scaleInPlace(s *session, texts []string) error {
	x, err := s.variable(texts[0])
	if err != nil {
		return err
	}

	alpha, err := s.arg(texts[1])
	if err != nil {
		return err
	}

	if _, err := vops.Call("scale!", x, alpha); err != nil {
		return err
	}

	if err := s.save(); err != nil {
		return err
	}

	return s.out.array(x.Name(), x.Value())
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update Y ALPHA X",
		Short: "Add ALPHA*X to the variable Y",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, texts []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			y, err := s.variable(texts[0])
			if err != nil {
				return err
			}

			rest, err := s.args(texts[1:])
			if err != nil {
				return err
			}

			if _, err := vops.Call("update", y, rest[0], rest[1]); err != nil {
				return err
			}

			if err := s.save(); err != nil {
				return err
			}

			return s.out.array(y.Name(), y.Value())
		},
	}
}

func newCombineCmd() *cobra.Command {
	var outName string

	cmd := &cobra.Command{
		Use:   "combine [DST] ALPHA X BETA Y",
		Short: "Compute ALPHA*X + BETA*Y",
		Long: `Compute ALPHA*X + BETA*Y.

When DST (or --out) names a variable the result is stored there. An existing
destination of matching type and shape is overwritten in place. Otherwise the
result is printed.`,
		Args: cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, texts []string) error {
			if len(texts) == 5 {
				if outName != "" {
					return errors.New("give the destination either as DST or with --out, not both")
				}

				outName, texts = texts[0], texts[1:]
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			args, err := s.args(texts)
			if err != nil {
				return err
			}

			if outName == "" {
				res, err := vops.Call("combine", args...)
				if err != nil {
					return err
				}

				return s.out.array("", res.Array)
			}

			dst, ok := s.ws.Lookup(outName)
			if !ok {
				dst = array.NewVar(outName, nil)
			}

			res, err := vops.Call("combine", append([]any{dst}, args...)...)
			if err != nil {
				return err
			}

			return s.store(outName, res.Array)
		},
	}

	cmd.Flags().StringVar(&outName, "out", "", "Store the result in this variable")

	return cmd
}

// store saves a as the variable name and prints it, or only prints it when
// name is empty.
func (s *session) store(name string, a *array.Array) error {
	if name == "" {
		return s.out.array("", a)
	}

	if _, err := s.ws.Set(name, a); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}

	if err := s.save(); err != nil {
		return err
	}

	return s.out.array(name, a)
}
