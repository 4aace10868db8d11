package ruler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	// majorEvery 每隔多少个小刻度出现一个带数字的大刻度。
	majorEvery = 10
	// labelPadding 数字与刻度线之间的间隙。
	labelPadding = 2
	// labelBaseline 数字基线距顶部的距离，按单行文本处理。
	labelBaseline = 10

	// maxSteps 单次重绘允许的最大步数，超出时截断到该值。
	maxSteps    = 1 << 20
	maxPrealloc = 4096
)

// ErrInvalidConfig reports geometry that cannot be laid out, such as a
// non-positive scale or unit interval.
var ErrInvalidConfig = errors.New("ruler: invalid configuration")

// Tick is one evaluated step of a layout pass.
type Tick struct {
	Index int     `json:"index"`
	Step  float64 `json:"step"`  // 相对 StartNumber 的逻辑偏移
	Value float64 `json:"value"` // StartNumber + Step
	Pos   float64 `json:"pos"`   // 主轴像素坐标
	Major bool    `json:"major"`

	Label      string  `json:"label,omitempty"`
	LabelX     float64 `json:"labelX,omitempty"`
	LabelWidth float64 `json:"labelWidth,omitempty"`
}

// Segment is a straight stroke from (X0, Y0) to (X1, Y1).
type Segment struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Layout is the complete geometry of one redraw.
type Layout struct {
	Interval float64 `json:"interval"` // 有效单位间隔
	Count    int     `json:"count"`    // 步数，实际求值 Count+1 个刻度
	// Degenerate 为 true 时步数不可用（非有限或负数），Ticks 为空。
	Degenerate bool   `json:"degenerate,omitempty"`
	// Truncated 为 true 时步数超过 maxSteps，只绘制前 maxSteps+1 个刻度。
	Truncated  bool   `json:"truncated,omitempty"`
	Ticks      []Tick `json:"ticks"`
	// Segments 按绘制顺序排列，最后一条为底边线。
	Segments []Segment `json:"segments"`
}

// Validate reports whether cfg can be laid out.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.Scale) || math.IsInf(c.Scale, 0) || c.Scale <= 0:
		return fmt.Errorf("%w: scale 必须为正数，当前为 %g", ErrInvalidConfig, c.Scale)
	case math.IsNaN(c.UnitInterval) || math.IsInf(c.UnitInterval, 0) || c.UnitInterval <= 0:
		return fmt.Errorf("%w: unitInterval 必须为正数，当前为 %g", ErrInvalidConfig, c.UnitInterval)
	case math.IsNaN(c.LineWidth) || math.IsInf(c.LineWidth, 0):
		return fmt.Errorf("%w: lineWidth 必须为有限数，当前为 %g", ErrInvalidConfig, c.LineWidth)
	case math.IsNaN(c.LineHeight) || math.IsInf(c.LineHeight, 0):
		return fmt.Errorf("%w: lineHeight 必须为有限数，当前为 %g", ErrInvalidConfig, c.LineHeight)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: 尺寸不能为负数 (%dx%d)", ErrInvalidConfig, c.Width, c.Height)
	}
	return nil
}

// EffectiveInterval returns the on-screen spacing between minor ticks.
// Below one pixel the quotient is kept to four decimals instead of rounding
// to zero.
func EffectiveInterval(unitInterval, scale float64) float64 {
	q := unitInterval / scale
	interval := math.Round(q)
	if interval < 1 {
		interval = math.Round(q*1e4) / 1e4
	}
	return interval
}

// stepCount 计算覆盖可视宽度所需的步数。非有限或负数的结果返回 -1，表示本次不绘制
// 任何刻度；超过 maxSteps 时截断并将 truncated 置为 true。
func stepCount(width int, scale, interval float64) (n int, truncated bool) {
	f := math.Round((float64(width) / scale) / interval)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0) || f < 0:
		return -1, false
	case f > maxSteps:
		return maxSteps, true
	}
	return int(f), false
}

// FormatLabel renders a tick value the way labels are printed.
func FormatLabel(v float64) string {
	if v == 0 {
		// 避免出现 "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Plan computes the ticks, labels and stroke segments for cfg. measure
// returns the rendered width of a label; it is only called for labelled major
// ticks and may be nil when labels are disabled.
func Plan(cfg Config, measure func(string) float64) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}

	interval := EffectiveInterval(cfg.UnitInterval, cfg.Scale)
	count, truncated := stepCount(cfg.Width, cfg.Scale, interval)
	out := Layout{Interval: interval, Count: count, Truncated: truncated}
	if count < 0 {
		out.Count = 0
		out.Degenerate = true
	}

	width := float64(cfg.Width)
	height := float64(cfg.Height)
	m := cfg.LineWidth / 2
	showLabel := cfg.ShowTickLabel && measure != nil

	if count >= 0 {
		capHint := min(count+1, maxPrealloc)
		out.Ticks = make([]Tick, 0, capHint)
		out.Segments = make([]Segment, 0, capHint+1)
	}
	for i := 0; i <= count; i++ {
		step := math.Round(float64(i) * interval)
		pos := step * cfg.Scale
		if cfg.Direction == Vertical {
			// 竖向时从右侧开始为 0，向左数值增大
			pos = width - step*cfg.Scale
		}
		if pos < 0 {
			pos = 0
		}

		tick := Tick{
			Index: i,
			Step:  step,
			Value: cfg.StartNumber + step,
			Pos:   pos,
			Major: i%majorEvery == 0,
		}

		if !tick.Major {
			out.Segments = append(out.Segments, Segment{
				X0: pos + m, Y0: height - cfg.LineHeight - cfg.LineWidth,
				X1: pos + m, Y1: height - cfg.LineWidth,
			})
			out.Ticks = append(out.Ticks, tick)
			continue
		}

		x := pos + m
		if x >= width {
			// 最后一条线落在画布外时收回到可见范围
			x = width - m
		}
		out.Segments = append(out.Segments, Segment{X0: x, Y0: 0, X1: x, Y1: height - cfg.LineWidth})

		if showLabel {
			tick.Label = FormatLabel(tick.Value)
			tick.LabelWidth = measure(tick.Label)
			tick.LabelX = pos + cfg.LineWidth + labelPadding
			switch {
			case cfg.Direction == Vertical && step == 0:
				tick.LabelX = width - tick.LabelWidth - cfg.LineWidth - labelPadding
			case cfg.Direction == Horizontal && pos+tick.LabelWidth >= width:
				tick.LabelX = width - tick.LabelWidth - cfg.LineWidth - labelPadding
			}
		}
		out.Ticks = append(out.Ticks, tick)
	}

	out.Segments = append(out.Segments, Segment{X0: 0, Y0: height - m, X1: width, Y1: height - m})
	return out, nil
}
