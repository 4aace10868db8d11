package layout

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/ruler/dsl"
	"github.com/ByLCY/ruler/fonts"
	"github.com/ByLCY/ruler/ruler"
)

const editorDSL = `
rulers Editor v1 {
  resources {
    color Tick = #b8b7b8
    font Mono { src: "builtin:go-mono" }
  }
  defaults {
    height: 20
    line-width: 0.5px
    background: white
  }
  ruler top {
    width: 800
    direction: horizontal
    scale: viewport.zoom
    start-number: "${viewport.x}"
    stroke-style: Tick
    font: "10px Mono"
    frame zoomed {
      scale: 2
    }
    frame panned { start-number: -40 }
  }
  ruler left {
    width: 1in
    height: 18pt
    direction: v
    show-tick-label: false
    background: "#fafafa"
  }
}
`

// buildDSL 是测试辅助：用给定 DSL 文本构建结果。
func buildDSL(t *testing.T, dslText string, data any, opts BuildOptions) (*Result, error) {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(dslText))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	return Build(doc, data, opts)
}

func editorData() map[string]any {
	return map[string]any{"viewport": map[string]any{"zoom": 1.5, "x": -120.0}}
}

func TestBuildEditorRulers(t *testing.T) {
	lib := fonts.NewLibrary("")
	res, err := buildDSL(t, editorDSL, editorData(), BuildOptions{Fonts: lib})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	if res.Name != "Editor" || res.Version != "v1" || len(res.Rulers) != 2 {
		t.Fatalf("unexpected result header: %s %s %d", res.Name, res.Version, len(res.Rulers))
	}

	top, ok := res.Ruler("top")
	if !ok {
		t.Fatalf("ruler top missing")
	}
	o := top.Initial
	if *o.Width != 800 || *o.Height != 20 {
		t.Fatalf("unexpected size %dx%d", *o.Width, *o.Height)
	}
	if *o.Scale != 1.5 || *o.StartNumber != -120 {
		t.Fatalf("data bindings not resolved: scale=%g start=%g", *o.Scale, *o.StartNumber)
	}
	if *o.StrokeStyle != "#b8b7b8" || *o.Background != "white" || *o.LineWidth != 0.5 {
		t.Fatalf("unexpected styles: %q %q %g", *o.StrokeStyle, *o.Background, *o.LineWidth)
	}
	if *o.Direction != ruler.Horizontal || *o.Font != "10px Mono" {
		t.Fatalf("unexpected direction/font: %v %q", *o.Direction, *o.Font)
	}
	if o.UnitInterval != nil || o.ShowTickLabel != nil {
		t.Fatalf("unset keys must stay nil")
	}

	if len(top.Frames) != 2 || top.Frames[0].Name != "zoomed" || top.Frames[1].Name != "panned" {
		t.Fatalf("unexpected frames: %+v", top.Frames)
	}
	if f := top.Frames[0].Options; f.Scale == nil || *f.Scale != 2 || f.Width != nil {
		t.Fatalf("frame should only carry its own keys: %+v", f)
	}
	if f := top.Frames[1].Options; f.StartNumber == nil || *f.StartNumber != -40 {
		t.Fatalf("unexpected panned frame: %+v", f)
	}

	left, _ := res.Ruler("left")
	if *left.Initial.Width != 96 || *left.Initial.Height != 24 {
		t.Fatalf("units not converted to px: %dx%d", *left.Initial.Width, *left.Initial.Height)
	}
	if *left.Initial.Direction != ruler.Vertical || *left.Initial.ShowTickLabel {
		t.Fatalf("unexpected left ruler: %+v", left.Initial)
	}
	if *left.Initial.Background != "#fafafa" {
		t.Fatalf("ruler value should override defaults, got %q", *left.Initial.Background)
	}

	if c := res.Resources.Colors["Tick"]; c.R != 0xb8 || c.A != 0xff {
		t.Fatalf("unexpected colour resource %v", c)
	}
	if got := lib.Source(fonts.ParseFont("10px Mono")); got != "builtin:go-mono" {
		t.Fatalf("font resource not registered, source %q", got)
	}
}

func TestBuildRejectsUnknownKey(t *testing.T) {
	_, err := buildDSL(t, `rulers X v1 { ruler a { width: 10 colour: red } }`, nil, BuildOptions{})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if !strings.Contains(err.Error(), "colour") {
		t.Fatalf("error should name the key: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"no rulers":       `rulers X v1 { defaults { height: 20 } }`,
		"duplicate ruler": `rulers X v1 { ruler a { width: 1 } ruler a { width: 2 } }`,
		"bad direction":   `rulers X v1 { ruler a { direction: diagonal } }`,
		"unit on scale":   `rulers X v1 { ruler a { scale: 2mm } }`,
		"unbound start":   `rulers X v1 { ruler a { start-number: "${missing}" } }`,
		"bad colour":      `rulers X v1 { resources { color C = "nope" } ruler a { width: 1 } }`,
		"unknown builtin": `rulers X v1 { resources { font F { src: "builtin:comic" } } ruler a { width: 1 } }`,
		"array value":     `rulers X v1 { ruler a { width: [1, 2] } }`,
	}
	for name, text := range cases {
		if _, err := buildDSL(t, text, nil, BuildOptions{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestBuildStringLengthFromData(t *testing.T) {
	data := map[string]any{"panel": map[string]any{"w": "2in", "zoom": "0.5"}}
	res, err := buildDSL(t, `rulers X v1 { ruler a { width: "${panel.w}" scale: panel.zoom } }`, data, BuildOptions{})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	o := res.Rulers[0].Initial
	if *o.Width != 192 || math.Abs(*o.Scale-0.5) > 1e-12 {
		t.Fatalf("unexpected width=%d scale=%g", *o.Width, *o.Scale)
	}
}

func TestBuildColorLiteralBackground(t *testing.T) {
	cases := map[string]string{
		"#ff0000":   "#ff0000",
		"#ff000080": "#ff000080",
		"#f00":      "#f00",
	}
	for lit, want := range cases {
		res, err := buildDSL(t, "rulers X v1 { ruler a { background: "+lit+" } }", nil, BuildOptions{})
		if err != nil {
			t.Fatalf("%s: 构建失败: %v", lit, err)
		}
		o := res.Rulers[0].Initial
		if o.Background == nil || *o.Background != want {
			t.Fatalf("%s: unexpected background %v", lit, o.Background)
		}
	}
}

func TestPreviewAppliesFramesCumulatively(t *testing.T) {
	res, err := buildDSL(t, editorDSL, editorData(), BuildOptions{})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	previews := Preview(res, nil)
	if len(previews) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(previews))
	}
	top := previews[0]
	if len(top.Frames) != 3 || top.Frames[0].Frame != "" || top.Frames[2].Frame != "panned" {
		t.Fatalf("unexpected frame snapshots: %+v", top.Frames)
	}
	last := top.Frames[2]
	if last.Config.Scale != 2 || last.Config.StartNumber != -40 {
		t.Fatalf("frames should accumulate, got scale=%g start=%g", last.Config.Scale, last.Config.StartNumber)
	}
	// 800/2/5 = 80 步
	if last.Layout.Interval != 5 || last.Layout.Count != 80 {
		t.Fatalf("unexpected layout interval=%g count=%d", last.Layout.Interval, last.Layout.Count)
	}
	if first := last.Layout.Ticks[0]; first.Label != "-40" {
		t.Fatalf("expected first label -40, got %q", first.Label)
	}
}
