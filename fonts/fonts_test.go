package fonts

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
)

func TestParseFont(t *testing.T) {
	cases := []struct {
		in   string
		want Font
	}{
		{"10px sans-serif", Font{Size: 10, Family: "sans-serif"}},
		{"bold 12px monospace", Font{Size: 12, Family: "monospace", Bold: true}},
		{"italic 700 12px 'Go Mono', monospace", Font{Size: 12, Family: "Go Mono", Bold: true, Italic: true}},
		{"14px/1.2 Label", Font{Size: 14, Family: "Label"}},
		{"", Default},
		{"serif", Font{Size: 10, Family: "serif"}},
	}
	for _, c := range cases {
		got := ParseFont(c.in)
		if got != c.want {
			t.Fatalf("ParseFont(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseFontUnits(t *testing.T) {
	if got := ParseFont("9pt serif").Size; math.Abs(got-12) > 1e-9 {
		t.Fatalf("9pt should be 12px, got %g", got)
	}
	if got := ParseFont("1in serif").Size; got != 96 {
		t.Fatalf("1in should be 96px, got %g", got)
	}
}

func TestLoadBuiltin(t *testing.T) {
	data, err := Load("builtin:go-mono")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != len(gomono.TTF) {
		t.Fatalf("builtin go-mono size mismatch: %d", len(data))
	}
	if _, err := Load("builtin:nope"); err == nil {
		t.Fatalf("expected error for unknown builtin")
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty src")
	}
}

func TestLibraryResolvesRegisteredFamily(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mono.ttf"), gomono.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	lib := NewLibrary(dir)
	lib.Register("Label", "mono.ttf")

	src, data, err := lib.Bytes(Font{Size: 10, Family: "label"})
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	if src != filepath.Join(dir, "mono.ttf") {
		t.Fatalf("unexpected src %s", src)
	}
	if len(data) != len(gomono.TTF) {
		t.Fatalf("unexpected data size %d", len(data))
	}

	if got := lib.Source(Font{Family: "monospace", Bold: true}); got != "builtin:go-mono-bold" {
		t.Fatalf("unexpected fallback %s", got)
	}
	if got := lib.Source(Font{Family: "Helvetica"}); got != "builtin:go-regular" {
		t.Fatalf("unexpected fallback %s", got)
	}
}

// 等宽字体下，宽度应与字符数成正比，且随字号线性放大。
func TestMeasurerMonospaceIsLinear(t *testing.T) {
	m := NewMeasurer(nil)
	one := m.Measure("10px monospace", "0")
	three := m.Measure("10px monospace", "000")
	if one <= 0 {
		t.Fatalf("expected positive width, got %g", one)
	}
	if diff := math.Abs(three - 3*one); diff > 0.1 {
		t.Fatalf("monospace width not linear: one=%g three=%g", one, three)
	}
	double := m.Measure("20px monospace", "000")
	if diff := math.Abs(double - 2*three); diff > 0.2 {
		t.Fatalf("width does not scale with size: 10px=%g 20px=%g", three, double)
	}
}

func TestMeasurerFallsBackOnBrokenFont(t *testing.T) {
	lib := NewLibrary("")
	lib.Register("Broken", "/does/not/exist.ttf")
	m := NewMeasurer(lib)
	if w := m.Measure("10px Broken", "123"); w <= 0 {
		t.Fatalf("expected fallback width, got %g", w)
	}
}
