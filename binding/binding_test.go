package binding

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleData() map[string]any {
	return map[string]any{
		"viewport": map[string]any{
			"x":       -120.0,
			"zoom":    1.5,
			"offsets": []any{10.0, 2000000.0},
		},
		"name": "main",
	}
}

func TestInterpolate(t *testing.T) {
	data := sampleData()
	cases := map[string]string{
		"${viewport.x}":             "-120",
		"zoom=${ viewport.zoom }":   "zoom=1.5",
		"${viewport.offsets[1]}":    "2000000",
		"${name}-${missing.value}":  "main-${missing.value}",
		"${viewport.offsets[9]}":    "${viewport.offsets[9]}",
		"no placeholders":           "no placeholders",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Interpolate("${x}", nil); got != "${x}" {
		t.Fatalf("nil data should leave text untouched, got %q", got)
	}
}

func TestLookup(t *testing.T) {
	data := sampleData()
	v, ok := Lookup(data, "viewport.zoom")
	if !ok || v.(float64) != 1.5 {
		t.Fatalf("Lookup zoom = %v, %v", v, ok)
	}
	if _, ok := Lookup(data, "viewport.zoom.deep"); ok {
		t.Fatalf("expected lookup through a number to fail")
	}
	if _, ok := Lookup(data, ""); ok {
		t.Fatalf("expected empty path to fail")
	}
}

func TestDecodeFormats(t *testing.T) {
	cases := []struct {
		format string
		raw    string
	}{
		{"json", `{"viewport": {"zoom": 2}}`},
		{".yaml", "viewport:\n  zoom: 2\n"},
		{"yml", "viewport: {zoom: 2}"},
		{"toml", "[viewport]\nzoom = 2\n"},
	}
	for _, c := range cases {
		data, err := Decode(c.format, []byte(c.raw))
		if err != nil {
			t.Fatalf("Decode(%s) error: %v", c.format, err)
		}
		v, ok := Lookup(data, "viewport.zoom")
		if !ok {
			t.Fatalf("Decode(%s): zoom missing in %v", c.format, data)
		}
		if Interpolate("${viewport.zoom}", data) != "2" {
			t.Fatalf("Decode(%s): unexpected zoom %v (%T)", c.format, v, v)
		}
	}
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	if _, err := Decode("xml", []byte("<a/>")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	data, err := Decode("xml", nil)
	if err != nil || len(data) != 0 {
		t.Fatalf("empty input should decode to empty map, got %v, %v", data, err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	if err := os.WriteFile(path, []byte("viewport:\n  x: 40\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if got := Interpolate("${viewport.x}", data); got != "40" {
		t.Fatalf("unexpected x %q", got)
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
