package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ByLCY/ruler/layout"
	"github.com/ByLCY/ruler/renderer"
)

func TestRunWritesRulerAndFrames(t *testing.T) {
	out := t.TempDir()
	debugPath := filepath.Join(out, "debug", "ticks.json")
	written, err := run(options{
		input:    "examples/editor.rulers",
		outDir:   out,
		format:   renderer.FormatSVG,
		backend:  "canvas",
		dataFile: "examples/viewport.yaml",
		dataJSON: `{"viewport": {"x": 10, "y": 0, "zoom": 1}}`,
		debug:    debugPath,
	})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	want := []string{"top.svg", "top-zoomed.svg", "top-panned.svg", "left.svg"}
	if len(written) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), written)
	}
	for i, name := range want {
		if filepath.Base(written[i]) != name {
			t.Fatalf("file %d: expected %s, got %s", i, name, written[i])
		}
		data, err := os.ReadFile(written[i])
		if err != nil {
			t.Fatalf("read %s: %v", written[i], err)
		}
		if !bytes.Contains(data, []byte("<svg")) {
			t.Fatalf("%s is not an SVG", name)
		}
	}

	raw, err := os.ReadFile(debugPath)
	if err != nil {
		t.Fatalf("debug JSON missing: %v", err)
	}
	var previews []layout.RulerPreview
	if err := json.Unmarshal(raw, &previews); err != nil {
		t.Fatalf("decode debug JSON: %v", err)
	}
	// -data 覆盖数据文件中的 viewport
	if got := previews[0].Frames[0].Config.StartNumber; got != 10 {
		t.Fatalf("expected inline data to win, start=%g", got)
	}
}

func TestRunRasterRequiresPNG(t *testing.T) {
	_, err := run(options{
		input:    "examples/editor.rulers",
		outDir:   t.TempDir(),
		format:   renderer.FormatPDF,
		backend:  "raster",
		dataFile: "examples/viewport.yaml",
	})
	if err == nil {
		t.Fatalf("expected error for raster pdf output")
	}
}

func TestRunRasterPNG(t *testing.T) {
	written, err := run(options{
		input:    "examples/editor.rulers",
		outDir:   t.TempDir(),
		format:   renderer.FormatPNG,
		backend:  "raster",
		dataFile: "examples/viewport.yaml",
	})
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(written) != 4 {
		t.Fatalf("expected 4 files, got %v", written)
	}
}

func TestLoadDataRejectsBadJSON(t *testing.T) {
	if _, err := loadData("", "{"); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
