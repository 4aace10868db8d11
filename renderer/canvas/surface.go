package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/ruler/fonts"
	"github.com/ByLCY/ruler/renderer"
	"github.com/ByLCY/ruler/ruler"
)

// mmToPt 画布以 1 单位 = 1 像素工作，而 tdewolff/canvas 的字号以 pt 表示、坐标以 mm 表示，
// 因此字号需要按 mm→pt 换算，才能让 1 单位高的字形占 1 像素。
const mmToPt = 72 / 25.4

var transparent = color.RGBA{}

// Surface draws ruler commands via github.com/tdewolff/canvas.
type Surface struct {
	fonts *fonts.Library

	width, height int
	c             *canvas.Canvas
	ctx           *canvas.Context
	path          *canvas.Path

	fill, stroke color.RGBA
	lineWidth    float64
	font         fonts.Font

	fontMu   sync.Mutex
	families map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Surface)(nil)
	_ ruler.Surface     = (*Surface)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas surface.
type Options struct {
	// Fonts 为空时只使用内置字体。
	Fonts *fonts.Library
}

// NewSurface creates an empty 0x0 canvas surface; the ruler sizes it.
func NewSurface(opts Options) *Surface {
	lib := opts.Fonts
	if lib == nil {
		lib = fonts.NewLibrary("")
	}
	s := &Surface{
		fonts:     lib,
		fill:      color.RGBA{A: 255},
		stroke:    color.RGBA{A: 255},
		lineWidth: 1,
		font:      fonts.Default,
		families:  map[string]*fontFamilyEntry{},
	}
	s.reset()
	return s
}

// reset 丢弃已绘制的内容，保留样式状态。
func (s *Surface) reset() {
	s.c = canvas.New(float64(s.width), float64(s.height))
	s.ctx = canvas.NewContext(s.c)
	s.ctx.SetCoordSystem(canvas.CartesianIV) // 与标尺坐标一致，左上角为原点
	s.path = &canvas.Path{}
}

func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	s.reset()
}

// ClearRect clears the whole surface when the rectangle covers it. Vector
// output cannot erase part of what was drawn, so smaller rectangles are
// ignored.
func (s *Surface) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.reset()
	}
}

func (s *Surface) SetFillStyle(style string) {
	s.fill = renderer.ColorOr(style, s.fill)
}

func (s *Surface) SetStrokeStyle(style string) {
	s.stroke = renderer.ColorOr(style, s.stroke)
}

func (s *Surface) SetLineWidth(w float64) {
	if w > 0 {
		s.lineWidth = w
	}
}

func (s *Surface) SetFont(font string) { s.font = fonts.ParseFont(font) }

func (s *Surface) FillRect(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	s.ctx.SetFillColor(s.fill)
	s.ctx.SetStrokeColor(transparent)
	s.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

func (s *Surface) BeginPath()          { s.path = &canvas.Path{} }
func (s *Surface) MoveTo(x, y float64) { s.path.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.path.LineTo(x, y) }

// Stroke draws every segment of the current path in one call.
func (s *Surface) Stroke() {
	if s.path.Empty() {
		return
	}
	s.ctx.SetFillColor(transparent)
	s.ctx.SetStrokeColor(s.stroke)
	s.ctx.SetStrokeWidth(s.lineWidth)
	s.ctx.DrawPath(0, 0, s.path)
}

func (s *Surface) MeasureText(text string) float64 {
	face, err := s.fontFace(s.fill)
	if err != nil {
		return 0
	}
	return face.TextWidth(text)
}

// FillText 在 (x, y) 处绘制文本，y 为基线。
func (s *Surface) FillText(text string, x, y float64) {
	face, err := s.fontFace(s.fill)
	if err != nil {
		ruler.Logger().Warn("canvas: 字体不可用，跳过文本", "text", text, "error", err)
		return
	}
	s.ctx.DrawText(x, y, canvas.NewTextLine(face, text, canvas.Left))
}

// Render encodes the current canvas.
func (s *Surface) Render(format renderer.Format) ([]byte, error) {
	var buf bytes.Buffer
	w, h := float64(s.width), float64(s.height)
	switch format {
	case renderer.FormatPDF:
		writer := pdf.New(&buf, w, h, nil)
		s.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatSVG:
		writer := svg.New(&buf, w, h, nil)
		s.c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case renderer.FormatPNG:
		img := rasterizer.Draw(s.c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	default:
		return nil, &renderer.UnsupportedFormatError{Backend: "canvas", Format: format}
	}
	return buf.Bytes(), nil
}

func (s *Surface) fontFace(col color.RGBA) (*canvas.FontFace, error) {
	family, style, err := s.ensureFontFamily(s.font)
	if err != nil {
		return nil, err
	}
	return family.Face(s.font.Size*mmToPt, col, style, canvas.FontNormal), nil
}

func (s *Surface) ensureFontFamily(f fonts.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	style := fontStyle(f)
	src := s.fonts.Source(f)
	key := fmt.Sprintf("%s|%d", src, style)

	s.fontMu.Lock()
	defer s.fontMu.Unlock()
	if entry, ok := s.families[key]; ok {
		return entry.family, entry.style, nil
	}

	family, err := s.loadFamily(f, style)
	if err != nil {
		// 回退到内置常规字体
		fallback := fonts.Font{Size: f.Size, Family: fonts.Default.Family}
		family, err = s.loadFamily(fallback, canvas.FontRegular)
		if err != nil {
			return nil, canvas.FontRegular, err
		}
		style = canvas.FontRegular
	}
	s.families[key] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

func (s *Surface) loadFamily(f fonts.Font, style canvas.FontStyle) (*canvas.FontFamily, error) {
	src, data, err := s.fonts.Bytes(f)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(src)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	return family, nil
}

func fontStyle(f fonts.Font) canvas.FontStyle {
	style := canvas.FontRegular
	if f.Bold {
		style = canvas.FontBold
	}
	if f.Italic {
		style |= canvas.FontItalic
	}
	return style
}
