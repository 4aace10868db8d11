package ruler

// Surface 是标尺绘制所依赖的 2D 即时模式画布能力。
// 样式参数（颜色、字体）均为不透明字符串，由具体实现负责解释。
type Surface interface {
	// Resize 调整画布尺寸，调整后原有内容被清空。
	Resize(width, height int)
	ClearRect(x, y, w, h float64)

	SetFillStyle(style string)
	SetStrokeStyle(style string)
	SetLineWidth(w float64)
	SetFont(font string)

	FillRect(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Stroke 以当前描边样式一次性绘制路径上累积的所有线段。
	Stroke()

	// MeasureText 返回 text 在当前字体下的渲染宽度（像素）。
	MeasureText(text string) float64
	FillText(text string, x, y float64)
}
