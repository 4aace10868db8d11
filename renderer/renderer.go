package renderer

import (
	"fmt"
	"strings"

	"github.com/ByLCY/ruler/ruler"
)

// Renderer 是可以把绘制结果编码为文件的标尺画布，例如 PDF、SVG 或 PNG。
// Render 返回编码后的二进制数据。
type Renderer interface {
	ruler.Surface
	Render(format Format) ([]byte, error)
}

// Format 输出文件格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts a format name or a file extension such as ".png".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case FormatPDF, FormatSVG, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q", s)
	}
}

// UnsupportedFormatError is returned by renderers that cannot encode a format.
type UnsupportedFormatError struct {
	Backend string
	Format  Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s 渲染器不支持 %s 输出", e.Backend, e.Format)
}
