package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/ruler/binding"
	"github.com/ByLCY/ruler/dsl"
	"github.com/ByLCY/ruler/fonts"
	"github.com/ByLCY/ruler/renderer"
	"github.com/ByLCY/ruler/ruler"
)

// ErrUnknownKey 表示配置块中出现了 Config 之外的键。
var ErrUnknownKey = errors.New("layout: unknown configuration key")

// Build 根据 DSL AST 生成每个标尺的初始配置与后续 frame。
// data 为宿主数据（平移、缩放等），供表达式与 ${...} 插值引用。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}

	res, err := collectResources(doc, opts.Fonts)
	if err != nil {
		return nil, err
	}
	b := &builder{res: res, data: data}

	var defaults ruler.Options
	for _, section := range doc.Sections {
		if section.Defaults == nil || section.Defaults.Block == nil {
			continue
		}
		o, err := b.options(section.Defaults.Block, "defaults", false)
		if err != nil {
			return nil, err
		}
		defaults = o.Merge(defaults)
	}

	out := &Result{Name: doc.Name, Version: doc.Version, Resources: res}
	seen := map[string]bool{}
	for _, section := range doc.Sections {
		rs := section.Ruler
		if rs == nil {
			continue
		}
		if seen[rs.Name] {
			return nil, fmt.Errorf("ruler %s 重复定义 (%s)", rs.Name, rs.Pos)
		}
		seen[rs.Name] = true
		spec, err := b.ruler(rs, defaults)
		if err != nil {
			return nil, err
		}
		out.Rulers = append(out.Rulers, spec)
	}
	if len(out.Rulers) == 0 {
		return nil, fmt.Errorf("文档中缺少 ruler 段落")
	}
	return out, nil
}

type builder struct {
	res  ResourceSet
	data any
}

func (b *builder) ruler(section *dsl.RulerSection, defaults ruler.Options) (RulerSpec, error) {
	spec := RulerSpec{Name: section.Name}
	if section.Block == nil {
		spec.Initial = defaults
		return spec, nil
	}
	own, err := b.options(section.Block, "ruler "+section.Name, true)
	if err != nil {
		return spec, err
	}
	spec.Initial = own.Merge(defaults)

	for _, stmt := range section.Block.Statements {
		cmd := stmt.Command
		if cmd == nil || cmd.Name != "frame" {
			continue
		}
		name := strconv.Itoa(len(spec.Frames) + 1)
		if len(cmd.Args) > 0 {
			name = cmd.Args[0].Value
		}
		frame := Frame{Name: name}
		if cmd.Block != nil {
			frame.Options, err = b.options(cmd.Block, "frame "+name, false)
			if err != nil {
				return spec, err
			}
		}
		spec.Frames = append(spec.Frames, frame)
	}
	return spec, nil
}

// options 将块内的赋值转换为 ruler.Options。allowFrames 控制是否接受 frame 子命令。
func (b *builder) options(block *dsl.Block, where string, allowFrames bool) (ruler.Options, error) {
	var o ruler.Options
	for _, stmt := range block.Statements {
		switch {
		case stmt.Assignment != nil:
			if err := b.assign(&o, stmt.Assignment); err != nil {
				return o, fmt.Errorf("%s: %w", where, err)
			}
		case stmt.Command != nil:
			if allowFrames && stmt.Command.Name == "frame" {
				continue
			}
			return o, fmt.Errorf("%s: 不支持的语句 %s (%s)", where, stmt.Command.Name, stmt.Command.Pos)
		}
	}
	return o, nil
}

func (b *builder) assign(o *ruler.Options, a *dsl.Assignment) error {
	key := strings.ToLower(a.Key)
	v, err := b.resolve(a.Value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	wrap := func(err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	}

	switch key {
	case "width":
		n, err := toLength(v)
		o.Width = ruler.Int(int(math.Round(n)))
		return wrap(err)
	case "height":
		n, err := toLength(v)
		o.Height = ruler.Int(int(math.Round(n)))
		return wrap(err)
	case "scale":
		n, err := toNumber(v)
		o.Scale = ruler.Float(n)
		return wrap(err)
	case "unit-interval":
		n, err := toLength(v)
		o.UnitInterval = ruler.Float(n)
		return wrap(err)
	case "line-width":
		n, err := toLength(v)
		o.LineWidth = ruler.Float(n)
		return wrap(err)
	case "line-height":
		n, err := toLength(v)
		o.LineHeight = ruler.Float(n)
		return wrap(err)
	case "show-tick-label":
		flag, err := toBool(v)
		o.ShowTickLabel = ruler.Bool(flag)
		return wrap(err)
	case "direction":
		s, err := toString(v)
		if err != nil {
			return wrap(err)
		}
		d, err := ruler.ParseDirection(s)
		o.Direction = ruler.Dir(d)
		return wrap(err)
	case "start-number":
		n, err := toNumber(v)
		o.StartNumber = ruler.Float(n)
		return wrap(err)
	case "stroke-style":
		s, err := b.style(v)
		o.StrokeStyle = ruler.String(s)
		return wrap(err)
	case "tick-label-style":
		s, err := b.style(v)
		o.TickLabelStyle = ruler.String(s)
		return wrap(err)
	case "background":
		s, err := b.style(v)
		o.Background = ruler.String(s)
		return wrap(err)
	case "font":
		s, err := toString(v)
		o.Font = ruler.String(s)
		return wrap(err)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, a.Key)
	}
}

// resolve 把 DSL 值求成 float64、Length、string 或 bool。
func (b *builder) resolve(val *dsl.Value) (any, error) {
	switch {
	case val == nil:
		return nil, fmt.Errorf("缺少值")
	case val.String != nil:
		return binding.Interpolate(string(*val.String), b.data), nil
	case val.Number != nil:
		return ParseLength(*val.Number)
	case val.Color != nil:
		return *val.Color, nil
	case val.Expr != nil:
		text := val.Expr.Text()
		switch text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		if c, ok := b.res.Colors[text]; ok {
			return c.Value, nil
		}
		if v, ok := binding.Lookup(b.data, text); ok {
			return v, nil
		}
		// 裸标识符按字符串处理，例如 horizontal、red
		return text, nil
	default:
		return nil, fmt.Errorf("缺少值")
	}
}

// style 返回透传给 Surface 的样式字符串；字符串值同样可以引用颜色资源。
func (b *builder) style(v any) (string, error) {
	s, err := toString(v)
	if err != nil {
		return "", err
	}
	if c, ok := b.res.Colors[s]; ok {
		return c.Value, nil
	}
	return s, nil
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case Length:
		if n.Unit != UnitNone {
			return 0, fmt.Errorf("%s 不应带单位", n)
		}
		return n.Value, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		return ruler.ParseStartNumber(n)
	default:
		return 0, fmt.Errorf("期望数字，得到 %T", v)
	}
}

// toLength 返回以 px 计的长度；字符串可带单位，例如插值得到的 "12pt"。
func toLength(v any) (float64, error) {
	switch n := v.(type) {
	case Length:
		return n.ToPX(), nil
	case string:
		l, err := ParseLength(n)
		if err != nil {
			return 0, err
		}
		return l.ToPX(), nil
	default:
		return toNumber(v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(b))
	default:
		return false, fmt.Errorf("期望布尔值，得到 %T", v)
	}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case Length, bool, nil:
		return "", fmt.Errorf("期望字符串，得到 %v", v)
	default:
		return fmt.Sprint(v), nil
	}
}

func collectResources(doc *dsl.Document, lib *fonts.Library) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
	}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font, err := parseFontResource(stmt.Command)
				if err != nil {
					return res, err
				}
				res.Fonts[font.Name] = font
				if lib != nil {
					lib.Register(font.Name, font.Src)
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					return res, fmt.Errorf("color 资源缺少名称或取值 (%s)", stmt.Command.Pos)
				}
				rgba, err := renderer.ParseColor(value)
				if err != nil {
					return res, fmt.Errorf("color %s: %w", name, err)
				}
				res.Colors[name] = Color{Value: value, R: rgba.R, G: rgba.G, B: rgba.B, A: rgba.A}
			default:
				return res, fmt.Errorf("未知的资源类型 %s (%s)", stmt.Command.Name, stmt.Command.Pos)
			}
		}
	}
	return res, nil
}

func parseFontResource(cmd *dsl.Command) (FontResource, error) {
	if len(cmd.Args) == 0 {
		return FontResource{}, fmt.Errorf("font 资源缺少名称 (%s)", cmd.Pos)
	}
	font := FontResource{Name: cmd.Args[0].Value}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch stmt.Assignment.Key {
			case "src":
				font.Src = valueToString(stmt.Assignment.Value)
			default:
				return font, fmt.Errorf("font %s: %w: %s", font.Name, ErrUnknownKey, stmt.Assignment.Key)
			}
		}
	}
	if font.Src == "" {
		return font, fmt.Errorf("font %s 缺少 src", font.Name)
	}
	font.IsBuiltin = strings.HasPrefix(font.Src, "builtin:")
	if font.IsBuiltin {
		// 内置字体在构建阶段即可校验，文件字体留给渲染阶段
		if _, err := fonts.Load(font.Src); err != nil {
			return font, fmt.Errorf("font %s: %w", font.Name, err)
		}
	}
	return font, nil
}

// parseColorResource 读取 `color Name = #rrggbb` 或 `color Name "red"`。
func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	if value == "=" {
		value = ""
	}
	return name, value
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		return val.Expr.Text()
	default:
		return ""
	}
}
