// Package bench provides timing primitives for the vops bench command.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/vops"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing of a single run of one case.
type RunResult struct {
	Index    int
	Cold     bool // true for the first run
	Duration time.Duration
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}

	mn, mx := durations[0], durations[0]

	var sum time.Duration

	for _, d := range durations {
		mn = min(mn, d)
		mx = max(mx, d)
		sum += d
	}

	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Throughput returns elements processed per second for one call over n
// elements taking d. Returns 0 for a zero duration.
func Throughput(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}

	return float64(n) / d.Seconds()
}

// ---------------------------------------------------------------------------
// Cases
// ---------------------------------------------------------------------------

// Ops lists the benchmarked operations in report order.
var Ops = []string{"norm1", "norm2", "norminf", "inner", "inner3", "scale", "update", "combine"}

// Options controls Run.
type Options struct {
	N    int      // vector length
	Runs int      // timed runs per case; the first is reported as cold
	Ops  []string // subset of Ops; empty means all
	// CPUProfile, when set, receives a pprof CPU profile of the whole run.
	CPUProfile io.Writer
}

// CaseResult is the outcome of one operation in one precision.
type CaseResult struct {
	Op    string
	Kind  array.Kind
	N     int
	Runs  []RunResult
	Stats Stats
}

// Run times each selected operation through the dispatchers, in float32
// and float64, on vectors of opts.N elements.
func Run(ctx context.Context, opts Options) ([]CaseResult, error) {
	if opts.N < 1 {
		return nil, fmt.Errorf("bench: n must be >= 1, got %d", opts.N)
	}

	if opts.Runs < 1 {
		return nil, fmt.Errorf("bench: runs must be >= 1, got %d", opts.Runs)
	}

	ops := opts.Ops
	if len(ops) == 0 {
		ops = Ops
	}

	for _, op := range ops {
		if !slices.Contains(Ops, op) {
			return nil, fmt.Errorf("bench: unknown operation %q (want %s)", op, strings.Join(Ops, "|"))
		}
	}

	if opts.CPUProfile != nil {
		if err := pprof.StartCPUProfile(opts.CPUProfile); err != nil {
			return nil, fmt.Errorf("bench: start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	var results []CaseResult

	for _, kind := range []array.Kind{array.Float32, array.Float64} {
		for _, op := range ops {
			res, err := runCase(ctx, op, kind, opts)
			if err != nil {
				return nil, err
			}

			results = append(results, res)
		}
	}

	return results, nil
}

func runCase(ctx context.Context, op string, kind array.Kind, opts Options) (CaseResult, error) {
	call, err := newCall(op, kind, opts.N)
	if err != nil {
		return CaseResult{}, err
	}

	res := CaseResult{Op: op, Kind: kind, N: opts.N}
	durations := make([]time.Duration, 0, opts.Runs)

	for i := range opts.Runs {
		if err := ctx.Err(); err != nil {
			return CaseResult{}, err
		}

		start := time.Now()
		if err := call(); err != nil {
			return CaseResult{}, fmt.Errorf("bench: %s %v: %w", op, kind, err)
		}

		d := time.Since(start)
		durations = append(durations, d)
		res.Runs = append(res.Runs, RunResult{Index: i, Cold: i == 0, Duration: d})
	}

	res.Stats = ComputeStats(durations)

	return res, nil
}

// newCall prepares operands once and returns a closure running op on them.
func newCall(op string, kind array.Kind, n int) (func() error, error) {
	vec := func(seed float64) (*array.Array, error) {
		v := make([]float64, n)
		for i := range v {
			v[i] = seed + float64(i%17)/16
		}

		return array.FromFloats(kind, array.Shape{int64(n)}, v)
	}

	x, err := vec(1)
	if err != nil {
		return nil, err
	}

	y, err := vec(-0.5)
	if err != nil {
		return nil, err
	}

	w, err := vec(0.25)
	if err != nil {
		return nil, err
	}

	var args []any

	name := op

	switch op {
	case "norm1", "norm2", "norminf":
		args = []any{x}
	case "inner":
		args = []any{x, y}
	case "inner3":
		name, args = "inner", []any{w, x, y}
	case "scale":
		// In place with alpha 1 keeps the operand stable across runs.
		name, args = "scale!", []any{x, 1.0}
	case "update":
		// Alternate signs so y stays near its starting values.
		sign := 1.0

		return func() error {
			sign = -sign
			_, err := vops.Call("update", y, 0.5*sign, x)

			return err
		}, nil
	case "combine":
		dst, err := array.Zeros(kind, array.Shape{int64(n)})
		if err != nil {
			return nil, err
		}

		args = []any{dst, 2.0, x, 3.0, y}
	}

	return func() error {
		_, err := vops.Call(name, args...)
		return err
	}, nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(results []CaseResult, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-8s  %-7s  %8s  %10s  %10s  %10s  %10s  %12s\n",
		"Op", "Kind", "N", "Cold(µs)", "Min(µs)", "Mean(µs)", "Max(µs)", "Melem/s")
	fmt.Fprintln(sb, strings.Repeat("-", 92))

	for _, r := range results {
		var cold time.Duration
		if len(r.Runs) > 0 {
			cold = r.Runs[0].Duration
		}

		fmt.Fprintf(sb, "%-8s  %-7s  %8d  %10.2f  %10.2f  %10.2f  %10.2f  %12.1f\n",
			r.Op,
			r.Kind,
			r.N,
			micros(cold),
			micros(r.Stats.Min),
			micros(r.Stats.Mean),
			micros(r.Stats.Max),
			Throughput(r.N, r.Stats.Min)/1e6,
		)
	}

	fmt.Fprint(w, sb.String())
}

func micros(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e3 }

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Cases []jsonCase `json:"cases"`
}

type jsonCase struct {
	Op           string    `json:"op"`
	Kind         string    `json:"kind"`
	N            int       `json:"n"`
	RunsUS       []float64 `json:"runs_us"`
	MinUS        float64   `json:"min_us"`
	MeanUS       float64   `json:"mean_us"`
	MaxUS        float64   `json:"max_us"`
	ElemsPerSec  float64   `json:"elems_per_sec"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(results []CaseResult, w io.Writer) error {
	jr := jsonReport{Cases: make([]jsonCase, len(results))}

	for i, r := range results {
		runs := make([]float64, len(r.Runs))
		for j, run := range r.Runs {
			runs[j] = micros(run.Duration)
		}

		jr.Cases[i] = jsonCase{
			Op:           r.Op,
			Kind:         r.Kind.String(),
			N:            r.N,
			RunsUS:       runs,
			MinUS:        micros(r.Stats.Min),
			MeanUS:       micros(r.Stats.Mean),
			MaxUS:        micros(r.Stats.Max),
			ElemsPerSec:  Throughput(r.N, r.Stats.Min),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jr)
}
