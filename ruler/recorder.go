package ruler

// Op identifies a recorded surface command.
type Op string

const (
	OpResize         Op = "resize"
	OpClearRect      Op = "clearRect"
	OpSetFillStyle   Op = "fillStyle"
	OpSetStrokeStyle Op = "strokeStyle"
	OpSetLineWidth   Op = "lineWidth"
	OpSetFont        Op = "font"
	OpFillRect       Op = "fillRect"
	OpBeginPath      Op = "beginPath"
	OpMoveTo         Op = "moveTo"
	OpLineTo         Op = "lineTo"
	OpStroke         Op = "stroke"
	OpFillText       Op = "fillText"
)

func (op Op) isState() bool {
	switch op {
	case OpResize, OpSetFillStyle, OpSetStrokeStyle, OpSetLineWidth, OpSetFont:
		return true
	}
	return false
}

// Command is one recorded call. Args holds float64 and string values in call
// order.
type Command struct {
	Op   Op    `json:"op"`
	Args []any `json:"args,omitempty"`
}

// MeasureFunc measures text rendered with the given font.
type MeasureFunc func(font, text string) float64

// Recorder is a Surface that records commands instead of painting them.
// Resizing discards everything that was recorded, the same way a real surface
// loses its pixels.
type Recorder struct {
	Measure MeasureFunc

	width, height int
	font          string
	cmds          []Command
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns a recorder that measures text with measure. A nil
// measure falls back to six pixels per byte.
func NewRecorder(measure MeasureFunc) *Recorder {
	return &Recorder{Measure: measure}
}

// Commands returns the commands recorded since the last reset.
func (r *Recorder) Commands() []Command {
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// Size returns the current surface dimensions.
func (r *Recorder) Size() (int, int) { return r.width, r.height }

// Segments replays the recorded path commands into line segments.
func (r *Recorder) Segments() []Segment {
	var (
		out    []Segment
		cx, cy float64
	)
	for _, c := range r.cmds {
		switch c.Op {
		case OpMoveTo:
			cx, cy = c.Args[0].(float64), c.Args[1].(float64)
		case OpLineTo:
			x, y := c.Args[0].(float64), c.Args[1].(float64)
			out = append(out, Segment{X0: cx, Y0: cy, X1: x, Y1: y})
			cx, cy = x, y
		}
	}
	return out
}

// Texts returns every FillText call as (text, x, y).
func (r *Recorder) Texts() []Command {
	var out []Command
	for _, c := range r.cmds {
		if c.Op == OpFillText {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) record(op Op, args ...any) {
	r.cmds = append(r.cmds, Command{Op: op, Args: args})
}

func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
	r.cmds = r.cmds[:0]
	r.record(OpResize, float64(width), float64(height))
}

// ClearRect drops recorded painting when the rectangle covers the surface.
// State commands (styles, font, line width) survive, as they do on a canvas.
func (r *Recorder) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(r.width) && y+h >= float64(r.height) {
		kept := r.cmds[:0]
		for _, c := range r.cmds {
			if c.Op.isState() {
				kept = append(kept, c)
			}
		}
		r.cmds = kept
	}
	r.record(OpClearRect, x, y, w, h)
}

func (r *Recorder) SetFillStyle(style string)   { r.record(OpSetFillStyle, style) }
func (r *Recorder) SetStrokeStyle(style string) { r.record(OpSetStrokeStyle, style) }
func (r *Recorder) SetLineWidth(w float64)      { r.record(OpSetLineWidth, w) }

func (r *Recorder) SetFont(font string) {
	r.font = font
	r.record(OpSetFont, font)
}

func (r *Recorder) FillRect(x, y, w, h float64) { r.record(OpFillRect, x, y, w, h) }
func (r *Recorder) BeginPath()                  { r.record(OpBeginPath) }
func (r *Recorder) MoveTo(x, y float64)         { r.record(OpMoveTo, x, y) }
func (r *Recorder) LineTo(x, y float64)         { r.record(OpLineTo, x, y) }
func (r *Recorder) Stroke()                     { r.record(OpStroke) }

func (r *Recorder) MeasureText(text string) float64 {
	if r.Measure != nil {
		return r.Measure(r.font, text)
	}
	return float64(len(text) * 6)
}

func (r *Recorder) FillText(text string, x, y float64) { r.record(OpFillText, text, x, y) }
