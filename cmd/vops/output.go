package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/config"
	"github.com/example/go-vops/internal/server"
)

// printer renders command results as text or JSON.
type printer struct {
	w         io.Writer
	format    string
	precision int
}

func (p printer) number(v float64) string {
	return strconv.FormatFloat(v, 'g', p.precision, 64)
}

func (p printer) scalar(v float64) error {
	if p.format == config.FormatJSON {
		return p.json(map[string]server.Number{"value": server.Number(v)})
	}

	_, err := fmt.Fprintln(p.w, p.number(v))

	return err
}

// array prints a; name may be empty for anonymous results.
func (p printer) array(name string, a *array.Array) error {
	if p.format == config.FormatJSON {
		wire, err := server.EncodeArray(a)
		if err != nil {
			return err
		}

		if name == "" {
			return p.json(wire)
		}

		return p.json(map[string]server.ArrayJSON{name: wire})
	}

	var b strings.Builder

	if name != "" {
		b.WriteString(name)
		b.WriteString(" = ")
	}

	b.WriteString(a.String())
	b.WriteByte('\n')

	cells := p.cells(a)
	if len(cells) == 0 {
		_, err := io.WriteString(p.w, b.String())
		return err
	}

	// One line per row of the last axis.
	width := len(cells)
	if a.Rank() > 1 {
		width = int(a.RawShape()[a.Rank()-1])
	}

	for start := 0; start < len(cells); start += width {
		b.WriteString(strings.Join(cells[start:start+width], " "))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(p.w, b.String())

	return err
}

func (p printer) cells(a *array.Array) []string {
	out := make([]string, a.Len())

	switch d := a.Data().(type) {
	case []string:
		for i, s := range d {
			out[i] = strconv.Quote(s)
		}
	case []complex128:
		for i, c := range d {
			out[i] = strconv.FormatComplex(c, 'g', p.precision, 128)
		}
	default:
		for i := range out {
			out[i] = p.number(a.Float(i))
		}
	}

	return out
}

type listEntry struct {
	Name  string  `json:"name"`
	DType string  `json:"dtype"`
	Shape []int64 `json:"shape"`
}

func (p printer) list(entries []listEntry) error {
	if p.format == config.FormatJSON {
		if entries == nil {
			entries = []listEntry{}
		}

		return p.json(entries)
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(p.w, "%-*s  %s%v\n", width, e.Name, e.DType, array.Shape(e.Shape)); err != nil {
			return err
		}
	}

	return nil
}

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
