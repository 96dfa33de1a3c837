package main

import (
	"errors"
	"fmt"

	"github.com/example/go-vops/internal/array"
	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	var (
		dtype  string
		shape  []int
		scalar bool
	)

	cmd := &cobra.Command{
		Use:   "set NAME VALUE...",
		Short: "Create or replace a variable",
		Long: `Create or replace a variable from a list of numbers in row-major order.

Without --shape the values form a vector. --scalar stores a single value with
an empty shape.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, texts []string) error {
			if scalar && len(shape) > 0 {
				return errors.New("--scalar and --shape are mutually exclusive")
			}

			kind, err := array.ParseKind(dtype)
			if err != nil {
				return err
			}

			values, err := parseValues(texts[1:])
			if err != nil {
				return err
			}

			var dims array.Shape

			switch {
			case scalar:
				if len(values) != 1 {
					return fmt.Errorf("--scalar needs exactly one value, got %d", len(values))
				}
			case len(shape) > 0:
				if dims, err = parseShape(shape); err != nil {
					return err
				}
			default:
				dims = array.Shape{int64(len(values))}
			}

			a, err := array.FromFloats(kind, dims, values)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			return s.store(texts[0], a)
		},
	}

	cmd.Flags().StringVar(&dtype, "dtype", "float64", "Element type (uint8|int16|int32|int64|float32|float64)")
	cmd.Flags().IntSliceVar(&shape, "shape", nil, "Comma-separated extents, e.g. 2,3")
	cmd.Flags().BoolVar(&scalar, "scalar", false, "Store a rank-0 scalar")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME...",
		Short: "Print variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			for _, name := range names {
				v, err := s.variable(name)
				if err != nil {
					return err
				}

				if err := s.out.array(name, v.Value()); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the variables in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			var entries []listEntry

			for _, name := range s.ws.Names() {
				v, _ := s.ws.Lookup(name)
				a := v.Value()

				shape := a.Shape()
				if shape == nil {
					shape = array.Shape{}
				}

				entries = append(entries, listEntry{Name: name, DType: a.Kind().String(), Shape: shape})
			}

			return s.out.list(entries)
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NAME...",
		Short: "Delete variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			for _, name := range names {
				if _, err := s.variable(name); err != nil {
					return err
				}

				s.ws.Delete(name)
			}

			return s.save()
		},
	}
}
