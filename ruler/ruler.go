// Package ruler draws a measuring strip with tick marks and numeric labels
// onto a 2D surface, tracking the pan/zoom state of the content beside it.
//
// A Ruler owns one Surface. Every configuration change merges the new values
// and repaints the whole surface; nothing is carried over between redraws.
// A Ruler is not safe for concurrent use.
package ruler

import "log/slog"

// Ruler 组合配置存储与刻度绘制。
type Ruler struct {
	cfg     Config
	surface Surface
}

// New creates a ruler on s, applies initial over DefaultConfig and performs
// the first redraw. The ruler is returned even when the redraw fails so that a
// later ChangeConfig can repair the configuration.
func New(s Surface, initial Options) (*Ruler, error) {
	r := &Ruler{cfg: DefaultConfig(), surface: s}
	r.applyConfig(initial)
	return r, r.Redraw()
}

// Surface returns the drawing surface for the host to mount. Its identity is
// stable across updates; its pixels are not.
func (r *Ruler) Surface() Surface { return r.surface }

// Config returns a copy of the live configuration.
func (r *Ruler) Config() Config { return r.cfg }

func (r *Ruler) Width() int { return r.cfg.Width }

func (r *Ruler) Direction() Direction { return r.cfg.Direction }

// SetDirection changes the direction without repainting; the next redraw
// picks it up.
func (r *Ruler) SetDirection(d Direction) { r.cfg.Direction = d }

func (r *Ruler) Container() any { return r.cfg.Container }

// SetContainer replaces the host container. Unlike ChangeConfig, a nil c
// detaches the ruler from its current host.
func (r *Ruler) SetContainer(c any) { r.cfg.Container = c }

// ChangeConfig merges o into the live configuration and redraws from scratch.
func (r *Ruler) ChangeConfig(o Options) error {
	r.applyConfig(o)
	return r.Redraw()
}

// applyConfig 合并配置后无条件按当前宽高重设画布尺寸。
func (r *Ruler) applyConfig(o Options) {
	r.cfg.apply(o)
	r.surface.Resize(max(r.cfg.Width, 0), max(r.cfg.Height, 0))
}

// Redraw repaints the ruler for the current configuration. Invalid geometry
// is reported as ErrInvalidConfig before anything is painted.
func (r *Ruler) Redraw() error {
	cfg := r.cfg
	s := r.surface

	s.SetStrokeStyle(cfg.StrokeStyle)
	s.SetFont(cfg.Font)
	s.SetLineWidth(cfg.LineWidth)

	layout, err := Plan(cfg, s.MeasureText)
	if err != nil {
		Logger().Warn("ruler: redraw skipped", slog.Any("error", err))
		return err
	}
	switch {
	case layout.Degenerate:
		Logger().Warn("ruler: degenerate step count, no ticks drawn",
			slog.Float64("interval", layout.Interval),
			slog.Int("width", cfg.Width),
			slog.Float64("scale", cfg.Scale))
	case layout.Truncated:
		Logger().Warn("ruler: step count truncated",
			slog.Float64("interval", layout.Interval),
			slog.Int("width", cfg.Width),
			slog.Float64("scale", cfg.Scale),
			slog.Int("steps", layout.Count+1))
	default:
		Logger().Debug("ruler: redraw",
			slog.String("direction", cfg.Direction.String()),
			slog.Float64("interval", layout.Interval),
			slog.Int("steps", layout.Count+1))
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	s.ClearRect(0, 0, w, h)
	s.BeginPath()
	s.SetFillStyle(cfg.Background)
	s.FillRect(0, 0, w, h)
	s.SetFillStyle(cfg.TickLabelStyle)

	for i, tick := range layout.Ticks {
		seg := layout.Segments[i]
		s.MoveTo(seg.X0, seg.Y0)
		if tick.Label != "" {
			s.FillText(tick.Label, tick.LabelX, labelBaseline)
		}
		s.LineTo(seg.X1, seg.Y1)
	}
	base := layout.Segments[len(layout.Segments)-1]
	s.MoveTo(base.X0, base.Y0)
	s.LineTo(base.X1, base.Y1)
	s.Stroke()
	return nil
}
