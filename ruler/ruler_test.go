package ruler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuler(t *testing.T, o Options) (*Ruler, *Recorder) {
	t.Helper()
	rec := NewRecorder(nil)
	r, err := New(rec, o)
	require.NoError(t, err)
	return r, rec
}

func TestNewEndToEnd(t *testing.T) {
	r, rec := newTestRuler(t, Options{Width: Int(200), Height: Int(30)})

	assert.Same(t, rec, r.Surface())
	w, h := rec.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 30, h)

	// 21 个刻度加一条底边
	segs := rec.Segments()
	require.Len(t, segs, 22)

	texts := rec.Texts()
	require.Len(t, texts, 3)
	assert.Equal(t, []any{"0", 2.5, 10.0}, texts[0].Args)
	assert.Equal(t, []any{"100", 102.5, 10.0}, texts[1].Args)
	assert.Equal(t, []any{"200", 179.5, 10.0}, texts[2].Args)

	cmds := rec.Commands()
	assert.Equal(t, OpStroke, cmds[len(cmds)-1].Op, "all segments are committed with one stroke")
	strokes := 0
	for _, c := range cmds {
		if c.Op == OpStroke {
			strokes++
		}
	}
	assert.Equal(t, 1, strokes)
}

func TestNewAppliesDefaults(t *testing.T) {
	r, rec := newTestRuler(t, Options{Width: Int(50), Height: Int(20)})
	cfg := r.Config()
	assert.Equal(t, DefaultConfig().Font, cfg.Font)
	assert.Equal(t, 0.5, cfg.LineWidth)

	var fills, strokes []any
	for _, c := range rec.Commands() {
		switch c.Op {
		case OpSetFillStyle:
			fills = append(fills, c.Args[0])
		case OpSetStrokeStyle:
			strokes = append(strokes, c.Args[0])
		}
	}
	assert.Equal(t, []any{"#ffffff", "#333333"}, fills)
	assert.Equal(t, []any{"#b8b7b8"}, strokes)
}

func TestNewWithoutSizeIsBlank(t *testing.T) {
	r, rec := newTestRuler(t, Options{})
	assert.Equal(t, 0, r.Width())
	w, h := rec.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
	// 宽度为 0 时仍求值第 0 个刻度
	assert.Len(t, rec.Segments(), 2)
}

func TestRedrawIsIdempotent(t *testing.T) {
	r, rec := newTestRuler(t, Options{Width: Int(320), Height: Int(24), Scale: Float(1.7), StartNumber: Float(12)})
	firstSegs, firstTexts := rec.Segments(), rec.Texts()

	require.NoError(t, r.Redraw())
	assert.Equal(t, firstSegs, rec.Segments())
	assert.Equal(t, firstTexts, rec.Texts())
}

func TestChangeConfigMergesAndRedraws(t *testing.T) {
	r, rec := newTestRuler(t, Options{Width: Int(200), Height: Int(30)})

	require.NoError(t, r.ChangeConfig(Options{StartNumber: Float(50)}))
	cfg := r.Config()
	assert.Equal(t, 200, cfg.Width, "absent keys keep their value")
	assert.Equal(t, 30, cfg.Height)
	assert.Equal(t, 50.0, cfg.StartNumber)

	texts := rec.Texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "50", texts[0].Args[0])
	assert.Equal(t, "250", texts[2].Args[0])

	// 每次更新都会按当前尺寸重设画布
	cmds := rec.Commands()
	require.NotEmpty(t, cmds)
	assert.Equal(t, Command{Op: OpResize, Args: []any{200.0, 30.0}}, cmds[0])
}

func TestChangeConfigIsFullRepaint(t *testing.T) {
	a, recA := newTestRuler(t, Options{Width: Int(200), Height: Int(30)})
	require.NoError(t, a.ChangeConfig(Options{Scale: Float(3), Direction: Dir(Vertical)}))

	_, recB := newTestRuler(t, Options{Width: Int(200), Height: Int(30), Scale: Float(3), Direction: Dir(Vertical)})

	assert.Equal(t, recB.Segments(), recA.Segments())
	assert.Equal(t, recB.Texts(), recA.Texts())
}

func TestInvalidConfigIsSupersededByNextChange(t *testing.T) {
	rec := NewRecorder(nil)
	r, err := New(rec, Options{Width: Int(100), Height: Int(20), Scale: Float(0)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	require.NotNil(t, r)
	assert.Empty(t, rec.Segments(), "nothing is painted for invalid geometry")

	require.NoError(t, r.ChangeConfig(Options{Scale: Float(1)}))
	assert.Len(t, rec.Segments(), 12)
}

func TestHostFields(t *testing.T) {
	r, rec := newTestRuler(t, Options{Width: Int(100), Height: Int(20)})
	before := rec.Segments()

	r.SetDirection(Vertical)
	assert.Equal(t, Vertical, r.Direction())
	assert.Equal(t, before, rec.Segments(), "writing a host field does not repaint")

	require.NoError(t, r.Redraw())
	segs := rec.Segments()
	assert.Equal(t, 99.75, segs[0].X0, "vertical zero tick sits at the right edge")

	type host struct{ id string }
	h := &host{id: "top"}
	r.SetContainer(h)
	assert.Same(t, h, r.Container())

	require.NoError(t, r.ChangeConfig(Options{Container: "other"}))
	assert.Equal(t, "other", r.Container())
}

func TestNilContainerOnlyDetachesViaSetter(t *testing.T) {
	r, _ := newTestRuler(t, Options{Width: Int(100), Height: Int(20), Container: "top"})
	assert.Equal(t, "top", r.Container())

	require.NoError(t, r.ChangeConfig(Options{Container: nil, Scale: Float(2)}))
	assert.Equal(t, "top", r.Container(), "nil options field keeps the host")

	r.SetContainer(nil)
	assert.Nil(t, r.Container())
}

func TestRecorderMeasureUsesFont(t *testing.T) {
	var fonts []string
	rec := NewRecorder(func(font, text string) float64 {
		fonts = append(fonts, font)
		return 10
	})
	_, err := New(rec, Options{Width: Int(100), Height: Int(20), Font: String("12px monospace")})
	require.NoError(t, err)
	require.NotEmpty(t, fonts)
	for _, f := range fonts {
		assert.Equal(t, "12px monospace", f)
	}
}

func TestOptionsMerge(t *testing.T) {
	base := Options{Width: Int(10), Scale: Float(2)}
	over := Options{Scale: Float(3), Font: String("8px serif")}
	got := over.Merge(base)
	assert.Equal(t, 10, *got.Width)
	assert.Equal(t, 3.0, *got.Scale)
	assert.Equal(t, "8px serif", *got.Font)
	assert.Nil(t, got.Height)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Vertical")
	require.NoError(t, err)
	assert.Equal(t, Vertical, d)

	d, err = ParseDirection("h")
	require.NoError(t, err)
	assert.Equal(t, Horizontal, d)

	_, err = ParseDirection("diagonal")
	assert.Error(t, err)
}
