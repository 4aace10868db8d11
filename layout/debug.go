package layout

import (
	"encoding/json"
	"math"
	"os"

	"github.com/ByLCY/ruler/ruler"
)

// RulerPreview 记录一个标尺在初始状态及每个 frame 之后的配置与刻度计划。
type RulerPreview struct {
	Name   string          `json:"name"`
	Frames []FrameSnapshot `json:"frames"`
}

// FrameSnapshot is the state after one configuration step. Frame is empty for
// the initial configuration.
type FrameSnapshot struct {
	Frame  string       `json:"frame"`
	Config ruler.Config `json:"config"`
	Layout ruler.Layout `json:"layout"`
	Error  string       `json:"error,omitempty"`
}

// Preview replays every ruler of res on a recording surface. measure may be
// nil, in which case labels are measured at a fixed advance per character.
func Preview(res *Result, measure ruler.MeasureFunc) []RulerPreview {
	if res == nil {
		return nil
	}
	out := make([]RulerPreview, 0, len(res.Rulers))
	for _, spec := range res.Rulers {
		rec := ruler.NewRecorder(measure)
		p := RulerPreview{Name: spec.Name}
		r, err := ruler.New(rec, spec.Initial)
		p.Frames = append(p.Frames, snapshot("", r, rec, err))
		for _, f := range spec.Frames {
			err := r.ChangeConfig(f.Options)
			p.Frames = append(p.Frames, snapshot(f.Name, r, rec, err))
		}
		out = append(out, p)
	}
	return out
}

func snapshot(frame string, r *ruler.Ruler, rec *ruler.Recorder, err error) FrameSnapshot {
	s := FrameSnapshot{Frame: frame, Config: r.Config()}
	if err != nil {
		s.Error = err.Error()
		return s
	}
	layout, err := ruler.Plan(s.Config, rec.MeasureText)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	if math.IsInf(layout.Interval, 0) || math.IsNaN(layout.Interval) {
		// JSON 无法表示非有限数
		layout.Interval = 0
	}
	s.Layout = layout
	return s
}

// WriteDebugJSON 将构建结果或预览输出为 JSON，便于调试或可视化。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
