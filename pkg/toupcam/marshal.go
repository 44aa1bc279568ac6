package toupcam

import (
	"bytes"
	"slices"
	"unicode/utf8"
	"unsafe"
)

// maxCString bounds the scan of a native const char*.
const maxCString = 4096

// cstring converts a null-terminated fixed-length buffer to a Go string.
// A buffer without a terminator is used whole.
func cstring(b []byte) (string, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if !utf8.Valid(b) {
		return "", &DecodeError{Bytes: bytes.Clone(b)}
	}
	return string(b), nil
}

// cstringAt converts a native const char* to a Go string.
func cstringAt(p *byte) (string, error) {
	if p == nil {
		return "", nil
	}
	var n int
	for n < maxCString && *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return cstring(unsafe.Slice(p, n))
}

// cbytes returns a null-terminated copy of s, or nil for the empty string so
// that a NULL pointer crosses the boundary.
func cbytes(s string) *byte {
	if s == "" {
		return nil
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

func cbool(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

// unmarshalInstances converts the first n entries of the enumeration array.
func unmarshalInstances(arr *[MaxInstances]instance, n uint32) ([]Instance, error) {
	if n > MaxInstances {
		n = MaxInstances
	}
	out := make([]Instance, 0, n)
	for i := range arr[:n] {
		inst, err := unmarshalInstance(&arr[i])
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

func unmarshalInstance(in *instance) (Instance, error) {
	displayName, err := cstring(in.displayname[:])
	if err != nil {
		return Instance{}, err
	}
	id, err := cstring(in.id[:])
	if err != nil {
		return Instance{}, err
	}
	inst := Instance{DisplayName: displayName, ID: id}
	if in.model == nil {
		return inst, nil
	}
	inst.Model, err = unmarshalModel(in.model)
	if err != nil {
		return Instance{}, err
	}
	return inst, nil
}

// unmarshalModel splits the resolution table into preview and still slices.
// Still resolutions follow the preview entries in the same table.
func unmarshalModel(m *model) (Model, error) {
	name, err := cstringAt(m.name)
	if err != nil {
		return Model{}, err
	}
	preview := min(m.preview, MaxInstances)
	still := min(m.still, MaxInstances-preview)
	return Model{
		Name:               name,
		Flags:              Flags(m.flags),
		MaxSpeed:           m.maxspeed,
		PreviewResolutions: slices.Clone(m.res[:preview]),
		StillResolutions:   slices.Clone(m.res[preview : preview+still]),
	}, nil
}
