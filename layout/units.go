package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. Rulers work in CSS pixels (96 per inch).

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as px for lengths
	UnitPX               // CSS pixels
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// CSSDPI 是 CSS 像素的换算基准。
const CSSDPI = 96

// perInch 每英寸包含多少个该单位。
var perInch = map[Unit]float64{
	UnitPX: CSSDPI,
	UnitMM: 25.4,
	UnitCM: 2.54,
	UnitIN: 1,
	UnitPT: 72,
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}}

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// To converts this length to target. Unit-less values are returned as-is.
func (l Length) To(target Unit) float64 {
	from, ok := perInch[l.Unit]
	if !ok {
		return l.Value
	}
	to, ok := perInch[target]
	if !ok {
		return l.Value
	}
	if from == to {
		return l.Value
	}
	return l.Value / from * to
}

func (l Length) ToPX() float64 { return l.To(UnitPX) }

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a DSL length such as `12`, `0.5px`, `3mm` or `-4pt`.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度 %q 无法解析: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
