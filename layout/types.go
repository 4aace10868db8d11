package layout

import (
	"fmt"

	"github.com/ByLCY/ruler/ruler"
)

// 该文件定义构建结果与资源描述，供 CLI、渲染与调试 JSON 共用。

// Result 保存文件中声明的全部标尺与资源。
type Result struct {
	Name      string      `json:"name"`
	Version   string      `json:"version"`
	Rulers    []RulerSpec `json:"rulers"`
	Resources ResourceSet `json:"resources"`
}

// Ruler returns the ruler declared under name.
func (r *Result) Ruler(name string) (RulerSpec, bool) {
	for _, spec := range r.Rulers {
		if spec.Name == name {
			return spec, true
		}
	}
	return RulerSpec{}, false
}

// RulerSpec 描述一个标尺：初始配置加上按顺序应用的后续 frame。
type RulerSpec struct {
	Name    string        `json:"name"`
	Initial ruler.Options `json:"initial"`
	Frames  []Frame       `json:"frames,omitempty"`
}

// Frame is a later ChangeConfig call. Frames apply cumulatively.
type Frame struct {
	Name    string        `json:"name"`
	Options ruler.Options `json:"options"`
}

// ResourceSet 记录解析出的字体与颜色定义。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Colors map[string]Color         `json:"colors"`
}

// FontResource 描述字体资源，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name      string `json:"name"`
	Src       string `json:"src"`
	IsBuiltin bool   `json:"isBuiltin"`
}

// Color 保留作者写下的原始颜色值，Surface 直接使用该字符串。
type Color struct {
	Value string `json:"value"`
	R     uint8  `json:"r"`
	G     uint8  `json:"g"`
	B     uint8  `json:"b"`
	A     uint8  `json:"a"`
}

func (c Color) String() string {
	return fmt.Sprintf("%s(%d,%d,%d,%d)", c.Value, c.R, c.G, c.B, c.A)
}
