// Package doctor provides environment preflight checks for vops.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/example/go-vops/internal/config"
	"github.com/example/go-vops/internal/workspace"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// Settings is the loaded configuration to validate.
	Settings config.Config
	// CPUFeatures reports the instruction set extensions; nil uses the host.
	CPUFeatures func() []Feature
	// SelfTest runs the kernel self-test; nil uses the built-in one.
	SelfTest func() error
	// SkipSelfTest disables the kernel self-test.
	SkipSelfTest bool
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- configuration ----------------------------------------------------
	if err := cfg.Settings.Validate(); err != nil {
		res.fail(fmt.Sprintf("config: %v", err))
		fmt.Fprintf(w, "%s config: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s config: ok (log level %s, output %s)\n", PassMark, cfg.Settings.LogLevel, cfg.Settings.Output.Format)
	}

	// ---- workspace ----------------------------------------------------------
	checkWorkspace(&res, cfg.Settings.Workspace, w)

	// ---- CPU features -------------------------------------------------------
	features := cfg.CPUFeatures
	if features == nil {
		features = CPUFeatures
	}

	fmt.Fprintf(w, "%s cpu: %s/%s %s\n", PassMark, runtime.GOOS, runtime.GOARCH, formatFeatures(features()))

	// ---- kernel self-test ---------------------------------------------------
	if cfg.SkipSelfTest {
		fmt.Fprintf(w, "%s kernel self-test: skipped\n", PassMark)
		return res
	}

	selfTest := cfg.SelfTest
	if selfTest == nil {
		selfTest = SelfTest
	}

	if err := selfTest(); err != nil {
		res.fail(fmt.Sprintf("kernel self-test: %v", err))
		fmt.Fprintf(w, "%s kernel self-test:\n", FailMark)

		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	} else {
		fmt.Fprintf(w, "%s kernel self-test: float32 and float64 ok\n", PassMark)
	}

	return res
}

func checkWorkspace(res *Result, ws config.WorkspaceConfig, w io.Writer) {
	if _, err := os.Stat(ws.Path); errors.Is(err, fs.ErrNotExist) {
		if ws.Create {
			fmt.Fprintf(w, "%s workspace %s: absent, will be created\n", PassMark, ws.Path)
			return
		}

		res.fail(fmt.Sprintf("workspace %q: not found", ws.Path))
		fmt.Fprintf(w, "%s workspace %s: not found\n", FailMark, ws.Path)

		return
	}

	wsp, err := workspace.Open(ws.Path)
	if err != nil {
		res.fail(fmt.Sprintf("workspace %q: %v", ws.Path, err))
		fmt.Fprintf(w, "%s workspace %s: %v\n", FailMark, ws.Path, err)

		return
	}

	fmt.Fprintf(w, "%s workspace %s: %d variables\n", PassMark, ws.Path, wsp.Len())
}

func formatFeatures(fs []Feature) string {
	if len(fs) == 0 {
		return "(no features reported)"
	}

	parts := make([]string, len(fs))
	for i, f := range fs {
		sign := "-"
		if f.Present {
			sign = "+"
		}

		parts[i] = sign + f.Name
	}

	return strings.Join(parts, " ")
}
