// Package rasterrenderer implements the ruler surface on github.com/gogpu/gg, an
// immediate-mode raster context. It only encodes PNG.
package rasterrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/ByLCY/ruler/fonts"
	"github.com/ByLCY/ruler/renderer"
	"github.com/ByLCY/ruler/ruler"
)

type pathOp struct {
	line bool
	x, y float64
}

// Surface paints onto a gg.Context. A zero-sized surface has no context and
// ignores drawing calls.
type Surface struct {
	fonts *fonts.Library

	dc            *gg.Context
	width, height int

	fill, stroke color.RGBA
	lineWidth    float64
	font         fonts.Font
	path         []pathOp

	sources map[string]*text.FontSource
	faces   map[faceKey]text.Face
}

type faceKey struct {
	src  string
	size float64
}

var (
	_ renderer.Renderer = (*Surface)(nil)
	_ ruler.Surface     = (*Surface)(nil)
)

// NewSurface returns an empty surface resolving fonts through lib (builtin
// fonts when nil).
func NewSurface(lib *fonts.Library) *Surface {
	if lib == nil {
		lib = fonts.NewLibrary("")
	}
	return &Surface{
		fonts:     lib,
		fill:      color.RGBA{A: 255},
		stroke:    color.RGBA{A: 255},
		lineWidth: 1,
		font:      fonts.Default,
		sources:   map[string]*text.FontSource{},
		faces:     map[faceKey]text.Face{},
	}
}

// Image returns the painted pixels, or nil for a zero-sized surface.
func (s *Surface) Image() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// Close releases the underlying context.
func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	err := s.dc.Close()
	s.dc = nil
	return err
}

func (s *Surface) Resize(width, height int) {
	s.width, s.height = width, height
	s.path = s.path[:0]
	if width <= 0 || height <= 0 {
		if s.dc != nil {
			_ = s.dc.Close()
			s.dc = nil
		}
		return
	}
	if s.dc == nil {
		s.dc = gg.NewContext(width, height)
		return
	}
	if err := s.dc.Resize(width, height); err != nil {
		ruler.Logger().Warn("raster: resize failed, recreating context", "error", err)
		s.dc = gg.NewContext(width, height)
		return
	}
	// 尺寸未变时 Resize 不会重新分配像素，这里显式清空
	s.dc.Clear()
}

func (s *Surface) ClearRect(x, y, w, h float64) {
	if s.dc == nil {
		return
	}
	if x <= 0 && y <= 0 && x+w >= float64(s.width) && y+h >= float64(s.height) {
		s.dc.Clear()
		return
	}
	x0, y0 := max(int(math.Floor(x)), 0), max(int(math.Floor(y)), 0)
	x1, y1 := min(int(math.Ceil(x+w)), s.width), min(int(math.Ceil(y+h)), s.height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			s.dc.SetPixel(px, py, gg.Transparent)
		}
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
	if s.dc == nil || w <= 0 || h <= 0 {
		return
	}
	s.dc.ClearPath()
	s.dc.SetColor(s.fill)
	s.dc.DrawRectangle(x, y, w, h)
	if err := s.dc.Fill(); err != nil {
		ruler.Logger().Warn("raster: fill failed", "error", err)
	}
}

func (s *Surface) BeginPath()          { s.path = s.path[:0] }
func (s *Surface) MoveTo(x, y float64) { s.path = append(s.path, pathOp{x: x, y: y}) }
func (s *Surface) LineTo(x, y float64) { s.path = append(s.path, pathOp{line: true, x: x, y: y}) }

// Stroke replays the accumulated path and strokes it once. The path is kept,
// as on an HTML canvas, until the next BeginPath.
func (s *Surface) Stroke() {
	if s.dc == nil || len(s.path) == 0 {
		return
	}
	s.dc.ClearPath()
	for _, op := range s.path {
		if op.line {
			s.dc.LineTo(op.x, op.y)
		} else {
			s.dc.MoveTo(op.x, op.y)
		}
	}
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.lineWidth)
	if err := s.dc.Stroke(); err != nil {
		ruler.Logger().Warn("raster: stroke failed", "error", err)
	}
}

func (s *Surface) MeasureText(str string) float64 {
	face, err := s.face()
	if err != nil {
		return 0
	}
	w, _ := text.Measure(str, face)
	return w
}

// FillText 在 (x, y) 处绘制文本，y 为基线。
func (s *Surface) FillText(str string, x, y float64) {
	if s.dc == nil {
		return
	}
	face, err := s.face()
	if err != nil {
		ruler.Logger().Warn("raster: 字体不可用，跳过文本", "text", str, "error", err)
		return
	}
	s.dc.SetFont(face)
	s.dc.SetColor(s.fill)
	s.dc.DrawString(str, x, y)
}

// Render encodes the surface as PNG.
func (s *Surface) Render(format renderer.Format) ([]byte, error) {
	if format != renderer.FormatPNG {
		return nil, &renderer.UnsupportedFormatError{Backend: "raster", Format: format}
	}
	if s.dc == nil {
		return nil, fmt.Errorf("画布尺寸为 %dx%d，无法输出 PNG", s.width, s.height)
	}
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Surface) face() (text.Face, error) {
	src, data, err := s.fonts.Bytes(s.font)
	if err != nil {
		src, data, err = s.fonts.Bytes(fonts.Font{Size: s.font.Size, Family: fonts.Default.Family})
		if err != nil {
			return nil, err
		}
	}
	key := faceKey{src: src, size: s.font.Size}
	if face, ok := s.faces[key]; ok {
		return face, nil
	}
	source, ok := s.sources[src]
	if !ok {
		source, err = text.NewFontSource(data)
		if err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
		}
		s.sources[src] = source
	}
	face := source.Face(s.font.Size)
	s.faces[key] = face
	return face, nil
}
