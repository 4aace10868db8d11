package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Measurer measures text advance widths with x/image/font. Faces are cached
// per source and size. A Measurer is safe for concurrent use.
type Measurer struct {
	lib *Library

	mu     sync.Mutex
	parsed map[string]*opentype.Font
	faces  map[faceKey]font.Face
}

type faceKey struct {
	src  string
	size float64
}

// NewMeasurer creates a measurer resolving fonts through lib. A nil lib uses
// the builtin fonts only.
func NewMeasurer(lib *Library) *Measurer {
	if lib == nil {
		lib = NewLibrary("")
	}
	return &Measurer{
		lib:    lib,
		parsed: map[string]*opentype.Font{},
		faces:  map[faceKey]font.Face{},
	}
}

// Measure returns the width in pixels of text drawn with the CSS font spec.
// Fonts that fail to load are measured with the builtin regular face.
func (m *Measurer) Measure(spec, text string) float64 {
	face, err := m.Face(ParseFont(spec))
	if err != nil {
		face, err = m.Face(Default)
		if err != nil {
			return 0
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	adv := font.MeasureString(face, text)
	return float64(adv) / 64
}

// Face returns a cached face for f. Size is taken as pixels (72 dpi points).
func (m *Measurer) Face(f Font) (font.Face, error) {
	src, data, err := m.lib.Bytes(f)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := faceKey{src: src, size: f.Size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}
	otf, ok := m.parsed[src]
	if !ok {
		otf, err = opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
		}
		m.parsed[src] = otf
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建字体 %s 失败: %w", src, err)
	}
	m.faces[key] = face
	return face, nil
}
