// Package workspace keeps named array variables and persists them as a
// safetensors file.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/example/go-vops/internal/array"
)

var (
	// ErrNotFound is returned when a variable does not exist.
	ErrNotFound = errors.New("variable not found")
	// ErrUnsupportedKind is returned for element types that cannot be stored.
	ErrUnsupportedKind = errors.New("unsupported element type")
)

// Workspace is a set of named variables. It is not safe for concurrent use.
type Workspace struct {
	vars map[string]*array.Var
}

// New returns an empty workspace.
func New() *Workspace {
	return &Workspace{vars: make(map[string]*array.Var)}
}

// Open reads a workspace file.
func Open(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("workspace: read %s: %w", path, err)
	}

	return OpenBytes(data)
}

// Load opens path, or returns an empty workspace when the file does not
// exist and create is set.
func Load(path string, create bool) (*Workspace, error) {
	ws, err := Open(path)
	if err != nil && create && errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}

	return ws, err
}

// OpenBytes decodes a safetensors payload.
func OpenBytes(data []byte) (*Workspace, error) {
	arrays, err := decodeAll(data)
	if err != nil {
		return nil, err
	}

	ws := New()
	for name, a := range arrays {
		ws.vars[name] = array.NewVar(name, a)
	}

	return ws, nil
}

// Names returns the variable names in sorted order.
func (w *Workspace) Names() []string {
	names := make([]string, 0, len(w.vars))
	for name := range w.vars {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of variables.
func (w *Workspace) Len() int { return len(w.vars) }

// Lookup returns the variable called name.
func (w *Workspace) Lookup(name string) (*array.Var, bool) {
	v, ok := w.vars[name]
	return v, ok
}

// Var is like Lookup but reports a missing variable as an error.
func (w *Workspace) Var(name string) (*array.Var, error) {
	v, ok := w.vars[name]
	if !ok {
		return nil, fmt.Errorf("workspace: %q (available: %s): %w", name, summarizeNames(w.Names()), ErrNotFound)
	}

	return v, nil
}

// Set binds name to a. An existing variable is rebound in place, so Vars
// handed out earlier observe the new value.
func (w *Workspace) Set(name string, a *array.Array) (*array.Var, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	if a == nil {
		return nil, fmt.Errorf("workspace: %q: nil array", name)
	}

	if v, ok := w.vars[name]; ok {
		v.Rebind(a)
		return v, nil
	}

	v := array.NewVar(name, a)
	w.vars[name] = v

	return v, nil
}

// Delete removes name. It reports whether the variable existed.
func (w *Workspace) Delete(name string) bool {
	_, ok := w.vars[name]
	delete(w.vars, name)

	return ok
}

// Encode serializes every variable. Complex and string variables cannot be
// stored and make Encode fail.
func (w *Workspace) Encode() ([]byte, error) {
	arrays := make(map[string]*array.Array, len(w.vars))
	for name, v := range w.vars {
		if v.Value() == nil {
			continue
		}

		arrays[name] = v.Value()
	}

	return encode(arrays)
}

// Save writes the workspace to path.
func (w *Workspace) Save(path string) error {
	data, err := w.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("workspace: write %s: %w", path, err)
	}

	return nil
}

func validName(name string) error {
	if strings.TrimSpace(name) != name || name == "" {
		return fmt.Errorf("workspace: invalid variable name %q", name)
	}

	if name == metadataKey {
		return fmt.Errorf("workspace: %q is reserved", name)
	}

	return nil
}

func summarizeNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}

	const maxNames = 8
	if len(names) <= maxNames {
		return strings.Join(names, ", ")
	}

	return strings.Join(names[:maxNames], ", ") + ", ..."
}
