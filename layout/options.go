package layout

import "github.com/ByLCY/ruler/fonts"

// BuildOptions 配置构建阶段所需的依赖。
type BuildOptions struct {
	// Fonts 接收 resources 中声明的字体；为空时字体资源只做校验。
	Fonts *fonts.Library
}
