package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"

	"github.com/ByLCY/richlabel/config"
	"github.com/ByLCY/richlabel/dsl"
	"github.com/ByLCY/richlabel/layout"
	"github.com/ByLCY/richlabel/renderer"
	canvasrenderer "github.com/ByLCY/richlabel/renderer/canvas"
	"github.com/ByLCY/richlabel/renderer/raster"
)

func main() {
	input := flag.String("in", "examples/terms.label", "DSL 文件路径")
	labelName := flag.String("label", "", "要渲染的 label 名称，默认取第一个")
	configPath := flag.String("config", "", "YAML 或 TOML 配置文件")
	format := flag.String("format", "", "输出格式：pdf、svg 或 png")
	output := flag.String("out", "", "输出路径")
	width := flag.String("width", "", "盒子宽度，例如 80mm")
	height := flag.String("height", "", "盒子高度，留空表示按内容自适应")
	dpi := flag.String("dpi", "", "PNG 输出的 DPI")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	var taps tapList
	flag.Var(&taps, "tap", "模拟点击 x,y（可重复），单位与盒子一致，左下角为原点")
	watch := flag.Bool("watch", false, "监听 DSL 文件变化并重新生成")
	verbose := flag.Bool("v", false, "输出排版调试日志")
	flag.Parse()

	if *verbose {
		layout.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("%v", err)
		}
	}
	overrides := map[string]string{
		"width": *width, "height": *height, "format": *format,
		"dpi": *dpi, "out": *output, "debug": *debug,
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := cfg.Set(key, value); err != nil {
			log.Fatalf("参数 -%s: %v", key, err)
		}
	}
	if *output == "" {
		cfg.Output = strings.TrimSuffix(cfg.Output, filepath.Ext(cfg.Output)) + "." + cfg.Format
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	backend, err := newBackend(cfg, filepath.Dir(*input))
	if err != nil {
		log.Fatalf("%v", err)
	}
	a := &app{
		cfg:       cfg,
		input:     *input,
		labelName: *labelName,
		data:      inputData,
		taps:      taps,
		backend:   backend,
		pointer:   &scriptedPointer{},
	}
	if err := a.run(); err != nil {
		log.Fatalf("生成标签失败: %v", err)
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.watch(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

// newBackend 按输出格式选择度量与渲染后端。两者必须一致，排版结果才与输出吻合。
func newBackend(cfg config.Config, baseDir string) (renderer.Backend, error) {
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return nil, err
	}
	if cfg.Format == config.FormatPNG {
		return raster.New(raster.Options{
			BaseDir:    baseDir,
			DPI:        cfg.DPI,
			Background: bg,
			Fonts:      cfg.Fonts,
			Strict:     cfg.Strict,
		}), nil
	}
	resources := make(map[string]canvasrenderer.Resource, len(cfg.Fonts))
	for name, path := range cfg.Fonts {
		resources[name] = canvasrenderer.Resource{Path: path}
	}
	return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Format:  canvasrenderer.Format(cfg.Format),
		Fonts:   resources,
		Outline: cfg.Outline,
		Strict:  cfg.Strict,
		Meta: canvasrenderer.Meta{
			Title:    cfg.Meta.Title,
			Subject:  cfg.Meta.Subject,
			Keywords: cfg.Meta.Keywords,
			Author:   cfg.Meta.Author,
			Creator:  cfg.Meta.Creator,
		},
	}), nil
}

// app 串联解析、排版、点击回放与渲染，并在 -watch 时复用同一个 Label。
type app struct {
	cfg       config.Config
	input     string
	labelName string
	data      any
	taps      []layout.Point
	backend   renderer.Backend
	pointer   *scriptedPointer
	label     *layout.Label
}

func (a *app) run() error {
	l, err := a.load()
	if err != nil {
		return err
	}
	a.install(l)
	return a.render()
}

// reload 在样式未变时只替换短语并 Refresh，保留原 Label 的缓存与回调。
func (a *app) reload() error {
	fresh, err := a.load()
	if err != nil {
		return err
	}
	if a.label != nil && fresh.Style() == a.label.Style() {
		a.label.SetPhrases(fresh.Phrases())
		if err := a.label.Refresh(); err != nil {
			return fmt.Errorf("重新排版失败: %w", err)
		}
	} else {
		a.install(fresh)
	}
	return a.render()
}

func (a *app) load() (*layout.Label, error) {
	file, err := os.Open(a.input)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", a.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	node, err := doc.Find(a.labelName)
	if err != nil {
		return nil, err
	}
	space := a.backend.Space()
	defaults, err := a.cfg.Style(space)
	if err != nil {
		return nil, err
	}
	l, err := layout.Build(node, a.data, layout.BuildOptions{
		Metrics:  a.backend,
		Defaults: defaults,
		Space:    space,
		Resolve: func(name string) func() {
			return func() { fmt.Printf("触发动作：%s\n", name) }
		},
	})
	if err != nil {
		return nil, fmt.Errorf("构建标签失败: %w", err)
	}
	return l, nil
}

func (a *app) install(l *layout.Label) {
	l.OnLineCountChanged(func(n int) { fmt.Printf("行数：%d\n", n) })
	l.Attach(a.pointer)
	a.label = l
}

func (a *app) render() error {
	box, err := a.cfg.Box(a.backend.Space())
	if err != nil {
		return err
	}
	snap, err := a.label.Layout(box)
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	a.pointer.replay(a.taps)

	if a.cfg.Debug != "" {
		if err := writeDebug(snap, a.cfg.Debug); err != nil {
			return err
		}
	}
	out, err := a.backend.Render(snap)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(a.cfg.Output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(a.cfg.Output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	fmt.Printf("已生成：%s\n", a.cfg.Output)
	return nil
}

// watch 监听 DSL 所在目录：编辑器常以重命名方式保存，直接监听文件会丢失事件。
func (a *app) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(a.input)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("监听 %s 失败: %w", a.input, err)
	}
	fmt.Printf("正在监听 %s，按 Ctrl+C 退出\n", a.input)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(ev.Name)
			if name != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := a.reload(); err != nil {
				log.Printf("重新生成失败: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("文件监听出错: %v", err)
		}
	}
}

func writeDebug(snap *layout.Snapshot, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(snap, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// scriptedPointer 把命令行中的 -tap 坐标当作点击事件回放。
type scriptedPointer struct {
	handler func(layout.Point)
}

func (p *scriptedPointer) Enable(h func(layout.Point)) { p.handler = h }

func (p *scriptedPointer) Disable() { p.handler = nil }

func (p *scriptedPointer) replay(points []layout.Point) {
	if len(points) == 0 {
		return
	}
	if p.handler == nil {
		fmt.Println("标签没有可点击的短语，忽略 -tap")
		return
	}
	for _, pt := range points {
		p.handler(pt)
	}
}

// tapList 实现 flag.Value，收集重复的 -tap x,y。
type tapList []layout.Point

func (t *tapList) String() string {
	parts := make([]string, len(*t))
	for i, p := range *t {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func (t *tapList) Set(value string) error {
	xs, ys, ok := strings.Cut(value, ",")
	if !ok {
		return fmt.Errorf("点击坐标应为 x,y，得到 %q", value)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return fmt.Errorf("点击坐标 x: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return fmt.Errorf("点击坐标 y: %w", err)
	}
	*t = append(*t, layout.Point{X: x, Y: y})
	return nil
}
