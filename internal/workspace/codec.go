package workspace

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/example/go-vops/internal/array"
)

const metadataKey = "__metadata__"

// dtype describes one safetensors element type and the array kind it
// decodes to.
type dtype struct {
	size int
	kind array.Kind
}

var dtypes = map[string]dtype{
	"F64":  {8, array.Float64},
	"F32":  {4, array.Float32},
	"F16":  {2, array.Float32},
	"BF16": {2, array.Float32},
	"I64":  {8, array.Int64},
	"I32":  {4, array.Int32},
	"I16":  {2, array.Int16},
	"I8":   {1, array.Int16},
	"U8":   {1, array.Uint8},
	"BOOL": {1, array.Uint8},
}

// dtypeNames maps each persistable kind to the dtype it is written as.
var dtypeNames = map[array.Kind]string{
	array.Float64: "F64",
	array.Float32: "F32",
	array.Int64:   "I64",
	array.Int32:   "I32",
	array.Int16:   "I16",
	array.Uint8:   "U8",
}

type headerEntry struct {
	DType   string  `json:"dtype"`
	Shape   []int64 `json:"shape"`
	Offsets [2]int  `json:"data_offsets"`
}

func decodeHeader(data []byte) (int, map[string]json.RawMessage, error) {
	if len(data) < 8 {
		return 0, nil, fmt.Errorf("workspace: file too short (%d bytes)", len(data))
	}

	headerLen := binary.LittleEndian.Uint64(data[:8])
	if headerLen > uint64(len(data)-8) {
		return 0, nil, fmt.Errorf("workspace: header length %d exceeds file size %d", headerLen, len(data))
	}

	headerEnd := 8 + int(headerLen)

	var header map[string]json.RawMessage
	if err := json.Unmarshal(data[8:headerEnd], &header); err != nil {
		return 0, nil, fmt.Errorf("workspace: parse header: %w", err)
	}

	return headerEnd, header, nil
}

// decodeAll decodes every entry of a safetensors payload into arrays.
func decodeAll(data []byte) (map[string]*array.Array, error) {
	headerEnd, header, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*array.Array, len(header))

	for name, raw := range header {
		if name == metadataKey {
			continue
		}

		var e headerEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("workspace: decode header entry %q: %w", name, err)
		}

		dt, ok := dtypes[strings.ToUpper(e.DType)]
		if !ok {
			return nil, fmt.Errorf("workspace: variable %q has unsupported dtype %q: %w", name, e.DType, ErrUnsupportedKind)
		}

		shape := array.Shape(e.Shape)
		if err := shape.Validate(); err != nil {
			return nil, fmt.Errorf("workspace: variable %q: %w", name, err)
		}

		start, end := headerEnd+e.Offsets[0], headerEnd+e.Offsets[1]
		if e.Offsets[0] < 0 || start > end || end > len(data) {
			return nil, fmt.Errorf("workspace: variable %q data [%d:%d] exceeds file size %d", name, start, end, len(data))
		}

		n := shape.Len()
		if size := end - start; size%dt.size != 0 || size/dt.size != n {
			return nil, fmt.Errorf("workspace: variable %q has %d elements but %d data bytes of %s", name, n, size, e.DType)
		}

		a, err := decodeData(data[start:end], strings.ToUpper(e.DType), n, shape)
		if err != nil {
			return nil, fmt.Errorf("workspace: variable %q: %w", name, err)
		}

		out[name] = a
	}

	return out, nil
}

func decodeData(raw []byte, dt string, n int, shape array.Shape) (*array.Array, error) {
	le := binary.LittleEndian

	switch dt {
	case "F64":
		v := make([]float64, n)
		for i := range v {
			v[i] = math.Float64frombits(le.Uint64(raw[i*8:]))
		}

		return array.New(v, shape)
	case "F32":
		v := make([]float32, n)
		for i := range v {
			v[i] = math.Float32frombits(le.Uint32(raw[i*4:]))
		}

		return array.New(v, shape)
	case "F16":
		v := make([]float32, n)
		for i := range v {
			v[i] = float16ToFloat32(le.Uint16(raw[i*2:]))
		}

		return array.New(v, shape)
	case "BF16":
		v := make([]float32, n)
		for i := range v {
			v[i] = math.Float32frombits(uint32(le.Uint16(raw[i*2:])) << 16)
		}

		return array.New(v, shape)
	case "I64":
		v := make([]int64, n)
		for i := range v {
			v[i] = int64(le.Uint64(raw[i*8:]))
		}

		return array.New(v, shape)
	case "I32":
		v := make([]int32, n)
		for i := range v {
			v[i] = int32(le.Uint32(raw[i*4:]))
		}

		return array.New(v, shape)
	case "I16":
		v := make([]int16, n)
		for i := range v {
			v[i] = int16(le.Uint16(raw[i*2:]))
		}

		return array.New(v, shape)
	case "I8":
		v := make([]int16, n)
		for i := range v {
			v[i] = int16(int8(raw[i]))
		}

		return array.New(v, shape)
	case "U8":
		return array.New(append([]uint8(nil), raw[:n]...), shape)
	case "BOOL":
		v := make([]uint8, n)
		for i := range v {
			if raw[i] != 0 {
				v[i] = 1
			}
		}

		return array.New(v, shape)
	default:
		return nil, fmt.Errorf("unsupported dtype %q", dt)
	}
}

// encode serializes arrays into a safetensors payload. Entries are laid out
// in name order so the output is deterministic.
func encode(vars map[string]*array.Array) ([]byte, error) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	sort.Strings(names)

	header := make(map[string]any, len(names)+1)
	header[metadataKey] = map[string]string{"format": "vops"}

	var raw []byte

	for _, name := range names {
		a := vars[name]

		dt, ok := dtypeNames[a.Kind()]
		if !ok {
			return nil, fmt.Errorf("workspace: variable %q has kind %v: %w", name, a.Kind(), ErrUnsupportedKind)
		}

		start := len(raw)
		raw = appendData(raw, a)

		shape := a.Shape()
		if shape == nil {
			shape = array.Shape{}
		}

		header[name] = headerEntry{
			DType:   dt,
			Shape:   shape,
			Offsets: [2]int{start, len(raw)},
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("workspace: encode header: %w", err)
	}

	out := make([]byte, 8, 8+len(headerJSON)+len(raw))
	binary.LittleEndian.PutUint64(out, uint64(len(headerJSON)))
	out = append(out, headerJSON...)
	out = append(out, raw...)

	return out, nil
}

func appendData(raw []byte, a *array.Array) []byte {
	le := binary.LittleEndian

	switch v := a.Data().(type) {
	case []float64:
		for _, x := range v {
			raw = le.AppendUint64(raw, math.Float64bits(x))
		}
	case []float32:
		for _, x := range v {
			raw = le.AppendUint32(raw, math.Float32bits(x))
		}
	case []int64:
		for _, x := range v {
			raw = le.AppendUint64(raw, uint64(x))
		}
	case []int32:
		for _, x := range v {
			raw = le.AppendUint32(raw, uint32(x))
		}
	case []int16:
		for _, x := range v {
			raw = le.AppendUint16(raw, uint16(x))
		}
	case []uint8:
		raw = append(raw, v...)
	}

	return raw
}

func float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h & 0x03ff)

	switch {
	case exp == 0 && frac == 0:
		return math.Float32frombits(sign)
	case exp == 0:
		// Subnormal: shift until the implicit bit appears.
		e := uint32(127 - 14)
		for frac&0x0400 == 0 {
			frac <<= 1
			e--
		}

		return math.Float32frombits(sign | e<<23 | (frac&0x03ff)<<13)
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | frac<<13)
	default:
		return math.Float32frombits(sign | (exp+127-15)<<23 | frac<<13)
	}
}
