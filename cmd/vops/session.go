package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/config"
	"github.com/example/go-vops/internal/workspace"
	"github.com/spf13/cobra"
)

// session is the workspace a command works on plus the way it reports.
type session struct {
	cfg config.Config
	ws  *workspace.Workspace
	out printer
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}

	ws, err := workspace.Load(cfg.Workspace.Path, cfg.Workspace.Create)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg: cfg,
		ws:  ws,
		out: printer{w: cmd.OutOrStdout(), format: cfg.Output.Format, precision: cfg.Output.Precision},
	}, nil
}

func (s *session) save() error {
	if err := s.ws.Save(s.cfg.Workspace.Path); err != nil {
		return err
	}

	slog.Debug("workspace saved",
		slog.String("path", s.cfg.Workspace.Path),
		slog.Int("vars", s.ws.Len()),
	)

	return nil
}

// arg resolves a command-line operand: a workspace variable when one has
// that name, otherwise a number.
func (s *session) arg(text string) (any, error) {
	if v, ok := s.ws.Lookup(text); ok {
		return v, nil
	}

	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, nil
	}

	_, err := s.ws.Var(text)

	return nil, err
}

func (s *session) args(texts []string) ([]any, error) {
	out := make([]any, len(texts))
	for i, t := range texts {
		a, err := s.arg(t)
		if err != nil {
			return nil, err
		}

		out[i] = a
	}

	return out, nil
}

// variable resolves text strictly as a workspace variable.
func (s *session) variable(text string) (*array.Var, error) {
	return s.ws.Var(text)
}

// isNumber reports whether text will resolve to a number rather than a
// variable.
func (s *session) isNumber(text string) bool {
	if _, ok := s.ws.Lookup(text); ok {
		return false
	}

	_, err := strconv.ParseFloat(text, 64)

	return err == nil
}

func parseShape(dims []int) (array.Shape, error) {
	shape := make(array.Shape, len(dims))
	for i, d := range dims {
		shape[i] = int64(d)
	}

	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return shape, nil
}

func parseValues(texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i, t := range texts {
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %q is not a number", i+1, t)
		}

		out[i] = f
	}

	return out, nil
}
