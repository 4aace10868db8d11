package fonts

import (
	"strconv"
	"strings"
)

// Font 是 CSS font 简写解析后的结果，Size 以像素为单位。
type Font struct {
	Size   float64
	Family string
	Bold   bool
	Italic bool
}

// Default matches the ruler's default "10px sans-serif".
var Default = Font{Size: 10, Family: "sans-serif"}

// CSS 像素与其他单位的换算（96 dpi）。
const (
	pxPerPt = 96.0 / 72.0
	pxPerIn = 96.0
	pxPerMm = 96.0 / 25.4
)

// ParseFont parses the subset of the CSS font shorthand that rulers use:
// optional style and weight keywords, a size, then a family list. Only the
// first family is kept. Anything unparsable falls back to Default values.
func ParseFont(spec string) Font {
	f := Default
	fields := strings.Fields(spec)
	i := 0
	for ; i < len(fields); i++ {
		tok := strings.ToLower(fields[i])
		switch tok {
		case "italic", "oblique":
			f.Italic = true
			continue
		case "bold", "bolder", "600", "700", "800", "900":
			f.Bold = true
			continue
		case "normal", "lighter", "100", "200", "300", "400", "500", "small-caps":
			continue
		}
		if size, ok := parseSize(tok); ok {
			f.Size = size
			i++
		}
		break
	}
	if i < len(fields) {
		family := strings.Join(fields[i:], " ")
		if comma := strings.IndexByte(family, ','); comma >= 0 {
			family = family[:comma]
		}
		family = strings.Trim(strings.TrimSpace(family), `"'`)
		if family != "" {
			f.Family = family
		}
	}
	return f
}

// parseSize 解析 "10px"、"12pt"、"3mm" 等字号，"12px/1.2" 中的行高部分被忽略。
func parseSize(tok string) (float64, bool) {
	if slash := strings.IndexByte(tok, '/'); slash >= 0 {
		tok = tok[:slash]
	}
	factor := 1.0
	for _, u := range []struct {
		suffix string
		factor float64
	}{{"px", 1}, {"pt", pxPerPt}, {"in", pxPerIn}, {"mm", pxPerMm}} {
		if strings.HasSuffix(tok, u.suffix) {
			tok = strings.TrimSuffix(tok, u.suffix)
			factor = u.factor
			break
		}
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v * factor, true
}
