package ruler

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction 标尺方向。
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "horizontal"/"h" and "vertical"/"v" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "hor":
		return Horizontal, nil
	case "vertical", "v", "ver":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("未知的标尺方向 %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Config 是标尺的完整配置，由 Ruler 独占并原地修改。
type Config struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Scale        float64 `json:"scale"`        // 内容缩放比例，1 表示未缩放
	UnitInterval float64 `json:"unitInterval"` // scale = 1 时相邻小刻度的像素间距
	LineWidth    float64 `json:"lineWidth"`
	LineHeight   float64 `json:"lineHeight"` // 小刻度长度

	ShowTickLabel bool      `json:"showTickLabel"`
	Direction     Direction `json:"direction"`
	StartNumber   float64   `json:"startNumber"`

	// 以下样式值原样透传给 Surface，标尺本身不解释。
	StrokeStyle    string `json:"strokeStyle"`
	TickLabelStyle string `json:"tickLabelStyle"`
	Background     string `json:"background"`
	Font           string `json:"font"`

	// Container 仅记录宿主容器，不持有其生命周期。
	Container any `json:"-"`
}

// DefaultConfig returns the configuration a ruler starts from before the
// initial options are applied.
func DefaultConfig() Config {
	return Config{
		Scale:          1,
		UnitInterval:   10,
		LineWidth:      0.5,
		LineHeight:     10,
		ShowTickLabel:  true,
		Direction:      Horizontal,
		StartNumber:    0,
		StrokeStyle:    "#b8b7b8",
		TickLabelStyle: "#333333",
		Background:     "#ffffff",
		Font:           "10px sans-serif",
	}
}

// Options is a partial Config. Nil fields are left untouched by an update.
type Options struct {
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`

	Scale        *float64 `json:"scale,omitempty"`
	UnitInterval *float64 `json:"unitInterval,omitempty"`
	LineWidth    *float64 `json:"lineWidth,omitempty"`
	LineHeight   *float64 `json:"lineHeight,omitempty"`

	ShowTickLabel *bool      `json:"showTickLabel,omitempty"`
	Direction     *Direction `json:"direction,omitempty"`
	StartNumber   *float64   `json:"startNumber,omitempty"`

	StrokeStyle    *string `json:"strokeStyle,omitempty"`
	TickLabelStyle *string `json:"tickLabelStyle,omitempty"`
	Background     *string `json:"background,omitempty"`
	Font           *string `json:"font,omitempty"`

	// Container 为 nil 时保持原宿主不变；要解除关联请使用 Ruler.SetContainer(nil)。
	Container any `json:"-"`
}

// Int, Float, Bool, String and Dir return pointers for building Options.
func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }

func Bool(v bool) *bool { return &v }

func String(v string) *string { return &v }

func Dir(v Direction) *Direction { return &v }

// ParseStartNumber 解析以字符串形式给出的起始数字。
func ParseStartNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("起始数字 %q 无法解析: %w", s, err)
	}
	return v, nil
}

// Merge overlays o onto base and returns the result. Fields that are nil in o
// keep the value from base.
func (o Options) Merge(base Options) Options {
	out := base
	if o.Width != nil {
		out.Width = o.Width
	}
	if o.Height != nil {
		out.Height = o.Height
	}
	if o.Scale != nil {
		out.Scale = o.Scale
	}
	if o.UnitInterval != nil {
		out.UnitInterval = o.UnitInterval
	}
	if o.LineWidth != nil {
		out.LineWidth = o.LineWidth
	}
	if o.LineHeight != nil {
		out.LineHeight = o.LineHeight
	}
	if o.ShowTickLabel != nil {
		out.ShowTickLabel = o.ShowTickLabel
	}
	if o.Direction != nil {
		out.Direction = o.Direction
	}
	if o.StartNumber != nil {
		out.StartNumber = o.StartNumber
	}
	if o.StrokeStyle != nil {
		out.StrokeStyle = o.StrokeStyle
	}
	if o.TickLabelStyle != nil {
		out.TickLabelStyle = o.TickLabelStyle
	}
	if o.Background != nil {
		out.Background = o.Background
	}
	if o.Font != nil {
		out.Font = o.Font
	}
	if o.Container != nil {
		out.Container = o.Container
	}
	return out
}

// apply 逐字段覆盖配置，未设置的字段保持原值。
func (c *Config) apply(o Options) {
	if o.Width != nil {
		c.Width = *o.Width
	}
	if o.Height != nil {
		c.Height = *o.Height
	}
	if o.Scale != nil {
		c.Scale = *o.Scale
	}
	if o.UnitInterval != nil {
		c.UnitInterval = *o.UnitInterval
	}
	if o.LineWidth != nil {
		c.LineWidth = *o.LineWidth
	}
	if o.LineHeight != nil {
		c.LineHeight = *o.LineHeight
	}
	if o.ShowTickLabel != nil {
		c.ShowTickLabel = *o.ShowTickLabel
	}
	if o.Direction != nil {
		c.Direction = *o.Direction
	}
	if o.StartNumber != nil {
		c.StartNumber = *o.StartNumber
	}
	if o.StrokeStyle != nil {
		c.StrokeStyle = *o.StrokeStyle
	}
	if o.TickLabelStyle != nil {
		c.TickLabelStyle = *o.TickLabelStyle
	}
	if o.Background != nil {
		c.Background = *o.Background
	}
	if o.Font != nil {
		c.Font = *o.Font
	}
	if o.Container != nil {
		c.Container = o.Container
	}
}
