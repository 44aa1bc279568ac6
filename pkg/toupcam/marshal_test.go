package toupcam

import (
	"errors"
	"testing"
)

func TestCString(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr bool
	}{
		{name: "terminated", input: []byte("SC2000\x00garbage"), want: "SC2000"},
		{name: "no terminator", input: []byte("abc"), want: "abc"},
		{name: "empty", input: []byte{0, 'x'}, want: ""},
		{name: "utf8", input: []byte("Kamera\xc3\xa4\x00"), want: "Kameraä"},
		{name: "invalid utf8", input: []byte{'a', 0xff, 'b', 0}, wantErr: true},
		{name: "truncated rune", input: []byte{'a', 0xe2, 0x82, 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cstring(tt.input)
			if tt.wantErr {
				var de *DecodeError
				if !errors.As(err, &de) {
					t.Fatalf("cstring(%q) error = %v, want *DecodeError", tt.input, err)
				}
				if got != "" {
					t.Errorf("cstring(%q) = %q on error, want empty", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("cstring(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("cstring(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCStringDeterministic(t *testing.T) {
	input := []byte{0xc3, 0x28, 0}
	for range 3 {
		if _, err := cstring(input); err == nil {
			t.Fatal("expected decode error")
		}
	}
}

func TestCStringAt(t *testing.T) {
	if s, err := cstringAt(nil); err != nil || s != "" {
		t.Errorf("cstringAt(nil) = %q, %v", s, err)
	}
	buf := []byte("48.20251014\x00")
	s, err := cstringAt(&buf[0])
	if err != nil {
		t.Fatal(err)
	}
	if s != "48.20251014" {
		t.Errorf("cstringAt() = %q", s)
	}

	long := make([]byte, maxCString+8)
	for i := range long {
		long[i] = 'a'
	}
	s, err = cstringAt(&long[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != maxCString {
		t.Errorf("unterminated cstringAt() length = %d, want %d", len(s), maxCString)
	}
}

func TestCBytes(t *testing.T) {
	if cbytes("") != nil {
		t.Error("cbytes(\"\") should be nil")
	}
	p := cbytes("tp-1")
	if got := goString(p); got != "tp-1" {
		t.Errorf("cbytes round trip = %q", got)
	}
}

func TestUnmarshalModelSplitsResolutions(t *testing.T) {
	tests := []struct {
		name           string
		preview, still uint32
		wantPreview    int
		wantStill      int
	}{
		{name: "typical", preview: 3, still: 2, wantPreview: 3, wantStill: 2},
		{name: "no still", preview: 4, still: 0, wantPreview: 4, wantStill: 0},
		{name: "full table", preview: 8, still: 8, wantPreview: 8, wantStill: 8},
		{name: "still overflows", preview: 10, still: 10, wantPreview: 10, wantStill: 6},
		{name: "preview overflows", preview: 20, still: 3, wantPreview: 16, wantStill: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModel(tt.preview, tt.still)
			name := []byte("E3ISPM\x00")
			m.name = &name[0]

			got, err := unmarshalModel(&m)
			if err != nil {
				t.Fatal(err)
			}
			if len(got.PreviewResolutions) != tt.wantPreview {
				t.Errorf("preview = %d, want %d", len(got.PreviewResolutions), tt.wantPreview)
			}
			if len(got.StillResolutions) != tt.wantStill {
				t.Errorf("still = %d, want %d", len(got.StillResolutions), tt.wantStill)
			}
			if n := len(got.PreviewResolutions) + len(got.StillResolutions); n > MaxInstances {
				t.Errorf("total resolutions = %d, exceeds table", n)
			}
			if tt.wantStill > 0 && got.StillResolutions[0] != m.res[tt.preview] {
				t.Errorf("first still = %v, want entry after previews %v", got.StillResolutions[0], m.res[tt.preview])
			}
			if got.Name != "E3ISPM" {
				t.Errorf("name = %q", got.Name)
			}
		})
	}
}

func TestUnmarshalModelCopiesTable(t *testing.T) {
	m := testModel(2, 1)
	got, err := unmarshalModel(&m)
	if err != nil {
		t.Fatal(err)
	}
	m.res[0] = Resolution{}
	if got.PreviewResolutions[0].Width == 0 {
		t.Error("model resolutions alias native table")
	}
	if got.StillResolutions == nil {
		t.Error("still resolutions should be non-nil")
	}
}

func TestUnmarshalInstanceInvalidName(t *testing.T) {
	var in instance
	copy(in.displayname[:], []byte{'c', 'a', 'm', 0xff})
	if _, err := unmarshalInstance(&in); err == nil {
		t.Fatal("expected decode error for display name")
	}
}
