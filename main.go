package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ByLCY/ruler/binding"
	"github.com/ByLCY/ruler/dsl"
	"github.com/ByLCY/ruler/fonts"
	"github.com/ByLCY/ruler/layout"
	"github.com/ByLCY/ruler/renderer"
	canvasrenderer "github.com/ByLCY/ruler/renderer/canvas"
	rasterrenderer "github.com/ByLCY/ruler/renderer/raster"
	"github.com/ByLCY/ruler/ruler"
	"github.com/ByLCY/ruler/watch"
)

// options 汇总命令行参数。
type options struct {
	input    string
	outDir   string
	format   renderer.Format
	backend  string
	dataJSON string
	dataFile string
	debug    string
}

func main() {
	input := flag.String("in", "examples/editor.rulers", "DSL 文件路径")
	output := flag.String("out", "output", "输出目录")
	format := flag.String("format", "svg", "输出格式：pdf、svg 或 png")
	backend := flag.String("backend", "canvas", "渲染后端：canvas 或 raster（仅 png）")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	dataFile := flag.String("data-file", "", "绑定到 DSL 的数据文件（json/yaml/toml）")
	debug := flag.String("debug", "", "刻度计划调试 JSON 输出路径")
	watchFiles := flag.Bool("watch", false, "文件变化时重新生成")
	verbose := flag.Bool("v", false, "输出标尺调试日志")
	flag.Parse()

	if *verbose {
		ruler.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	f, err := renderer.ParseFormat(*format)
	if err != nil {
		log.Fatalf("参数错误: %v", err)
	}
	opts := options{
		input:    *input,
		outDir:   *output,
		format:   f,
		backend:  *backend,
		dataJSON: *dataJSON,
		dataFile: *dataFile,
		debug:    *debug,
	}

	written, err := run(opts)
	if err != nil {
		log.Fatalf("生成标尺失败: %v", err)
	}
	report(written)

	if !*watchFiles {
		return
	}
	if err := watchAndRun(opts); err != nil {
		log.Fatalf("监听失败: %v", err)
	}
}

func report(written []string) {
	for _, p := range written {
		fmt.Printf("已生成：%s\n", p)
	}
}

// watchAndRun 在输入文件变化时重新生成，直到收到中断信号。
func watchAndRun(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(opts.input, opts.dataFile); err != nil {
		return err
	}
	log.Printf("正在监听 %s，按 Ctrl+C 退出", opts.input)
	err = w.Run(ctx, func(string) error {
		written, err := run(opts)
		if err != nil {
			return err
		}
		report(written)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// run 串联解析、构建与渲染，返回写出的文件路径。
func run(opts options) ([]string, error) {
	data, err := loadData(opts.dataFile, opts.dataJSON)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}

	lib := fonts.NewLibrary(filepath.Dir(opts.input))
	result, err := layout.Build(doc, data, layout.BuildOptions{Fonts: lib})
	if err != nil {
		return nil, fmt.Errorf("构建标尺失败: %w", err)
	}

	if opts.debug != "" {
		if err := writeDebug(layout.Preview(result, fonts.NewMeasurer(lib).Measure), opts.debug); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}

	var written []string
	for _, spec := range result.Rulers {
		paths, err := renderRuler(spec, lib, opts)
		written = append(written, paths...)
		if err != nil {
			return written, fmt.Errorf("ruler %s: %w", spec.Name, err)
		}
	}
	return written, nil
}

// renderRuler 在新画布上创建标尺，依次输出初始状态与每个 frame。
func renderRuler(spec layout.RulerSpec, lib *fonts.Library, opts options) ([]string, error) {
	surface, closeSurface, err := newSurface(opts.backend, opts.format, lib)
	if err != nil {
		return nil, err
	}
	defer closeSurface()

	r, err := ruler.New(surface, spec.Initial)
	if err != nil {
		return nil, err
	}
	var written []string
	out := filepath.Join(opts.outDir, spec.Name+"."+string(opts.format))
	if err := writeSurface(surface, opts.format, out); err != nil {
		return written, err
	}
	written = append(written, out)

	for _, frame := range spec.Frames {
		if err := r.ChangeConfig(frame.Options); err != nil {
			return written, fmt.Errorf("frame %s: %w", frame.Name, err)
		}
		out := filepath.Join(opts.outDir, spec.Name+"-"+frame.Name+"."+string(opts.format))
		if err := writeSurface(surface, opts.format, out); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

func newSurface(backend string, format renderer.Format, lib *fonts.Library) (renderer.Renderer, func(), error) {
	switch backend {
	case "", "canvas":
		return canvasrenderer.NewSurface(canvasrenderer.Options{Fonts: lib}), func() {}, nil
	case "raster":
		if format != renderer.FormatPNG {
			return nil, nil, &renderer.UnsupportedFormatError{Backend: backend, Format: format}
		}
		s := rasterrenderer.NewSurface(lib)
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("未知的渲染后端 %q", backend)
	}
}

func writeSurface(r renderer.Renderer, format renderer.Format, path string) error {
	data, err := r.Render(format)
	if err != nil {
		return fmt.Errorf("渲染 %s 失败: %w", format, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	return nil
}

// loadData 先读取数据文件，再用 -data 的顶层键覆盖。
func loadData(path, inline string) (map[string]any, error) {
	data := map[string]any{}
	if path != "" {
		fromFile, err := binding.LoadFile(path)
		if err != nil {
			return nil, err
		}
		maps.Copy(data, fromFile)
	}
	if inline != "" {
		fromFlag, err := binding.Decode("json", []byte(inline))
		if err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
		maps.Copy(data, fromFlag)
	}
	return data, nil
}

func writeDebug(v any, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(v, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
