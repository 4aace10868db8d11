package renderer

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor 解析样式字符串：#rgb、#rgba、#rrggbb、#rrggbbaa、CSS 颜色名或 transparent。
func ParseColor(style string) (color.RGBA, error) {
	s := strings.ToLower(strings.TrimSpace(style))
	if s == "transparent" || s == "none" {
		return color.RGBA{}, nil
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		return parseHex(hex)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("颜色值 %q 无法解析", style)
}

// ColorOr parses style and returns fallback when it is not a colour.
func ColorOr(style string, fallback color.RGBA) color.RGBA {
	c, err := ParseColor(style)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(hex string) (color.RGBA, error) {
	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("颜色值 #%s 长度不正确", hex)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色值 #%s 无法解析: %w", hex, err)
	}
	// 输出为预乘 alpha 的 color.RGBA
	r, g, b, a := uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)
	return color.RGBA{
		R: premul(r, a),
		G: premul(g, a),
		B: premul(b, a),
		A: a,
	}, nil
}

func premul(c, a uint8) uint8 {
	return uint8(uint32(c) * uint32(a) / 255)
}
