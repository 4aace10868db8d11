package binding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat 表示数据文件扩展名无法识别。
var ErrUnsupportedFormat = errors.New("binding: unsupported data format")

// LoadFile reads a JSON, YAML or TOML data file, chosen by extension.
func LoadFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	data, err := Decode(filepath.Ext(path), raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Decode parses raw as format ("json", "yaml", "yml" or "toml", with or
// without a leading dot). An empty document decodes to an empty map.
func Decode(format string, raw []byte) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	var err error
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		err = dec.Decode(&out)
	case "yaml", "yml":
		err = yaml.Unmarshal(raw, &out)
	case "toml":
		err = toml.Unmarshal(raw, &out)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("解析 %s 数据失败: %w", format, err)
	}
	return out, nil
}
