// Package fonts resolves the CSS-style font strings used by rulers into font
// data, and measures text for surfaces that do not shape text themselves.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

const builtinPrefix = "builtin:"

// 内置字体，均来自 Go 字体家族。
var builtins = map[string][]byte{
	"go-regular":     goregular.TTF,
	"go-bold":        gobold.TTF,
	"go-italic":      goitalic.TTF,
	"go-bold-italic": gobolditalic.TTF,
	"go-mono":        gomono.TTF,
	"go-mono-bold":   gomonobold.TTF,
}

// Load 返回字体数据，src 可写为 "builtin:go-mono" 或字体文件路径。
func Load(src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("字体来源为空")
	}
	if name, ok := strings.CutPrefix(src, builtinPrefix); ok {
		data, ok := builtins[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置字体 %s", src)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

// Library maps font families to sources. Families that were never registered
// fall back to a builtin face chosen by generic family, weight and style.
// A Library is safe for concurrent use.
type Library struct {
	baseDir string

	mu      sync.Mutex
	sources map[string]string
	blobs   map[string][]byte
}

// NewLibrary creates a library resolving relative font paths against baseDir.
func NewLibrary(baseDir string) *Library {
	return &Library{
		baseDir: baseDir,
		sources: map[string]string{},
		blobs:   map[string][]byte{},
	}
}

// Register binds family (case-insensitive) to src.
func (l *Library) Register(family, src string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sources[strings.ToLower(family)] = src
}

// Source returns the font source used for f.
func (l *Library) Source(f Font) string {
	l.mu.Lock()
	src, ok := l.sources[strings.ToLower(f.Family)]
	l.mu.Unlock()
	if ok {
		return l.resolvePath(src)
	}
	return builtinPrefix + builtinFor(f)
}

// Bytes loads the font data for f, caching by source.
func (l *Library) Bytes(f Font) (string, []byte, error) {
	src := l.Source(f)
	l.mu.Lock()
	defer l.mu.Unlock()
	if data, ok := l.blobs[src]; ok {
		return src, data, nil
	}
	data, err := Load(src)
	if err != nil {
		return src, nil, err
	}
	l.blobs[src] = data
	return src, data, nil
}

func (l *Library) resolvePath(src string) string {
	if strings.HasPrefix(src, builtinPrefix) || l.baseDir == "" || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(l.baseDir, src)
}

func builtinFor(f Font) string {
	mono := false
	switch strings.ToLower(f.Family) {
	case "monospace", "mono", "ui-monospace", "go mono", "go-mono", "courier", "courier new":
		mono = true
	}
	switch {
	case mono && f.Bold:
		return "go-mono-bold"
	case mono:
		return "go-mono"
	case f.Bold && f.Italic:
		return "go-bold-italic"
	case f.Bold:
		return "go-bold"
	case f.Italic:
		return "go-italic"
	default:
		return "go-regular"
	}
}
