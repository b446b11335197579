// Package raster 使用 golang.org/x/image 在位图上度量与绘制标签，输出 PNG。
// 坐标单位为像素，字号按 pt 解释并以 DPI 换算。
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/richlabel/fonts"
	"github.com/ByLCY/richlabel/layout"
	"github.com/ByLCY/richlabel/renderer"
)

// DefaultDPI 与 CSS 像素一致。
const DefaultDPI = 96

// Options configures the raster renderer.
type Options struct {
	BaseDir string
	DPI     float64
	// Background 为空时输出透明背景。
	Background *layout.Color
	// Fonts 注册额外字体：名字 → 文件路径，以 built-in:<名字> 引用。
	Fonts map[string]string
	// Strict 时字体加载失败直接返回错误，否则退回内置字体。
	Strict bool
}

// Renderer measures text with opentype faces and paints snapshots into an RGBA image.
type Renderer struct {
	baseDir    string
	dpi        float64
	background *layout.Color
	fonts      map[string]string
	strict     bool

	mu       sync.Mutex
	parsed   map[string]*opentype.Font
	fallback *opentype.Font
}

var (
	_ renderer.Backend    = (*Renderer)(nil)
	_ layout.RenderTarget = (*target)(nil)
)

// New creates a raster renderer.
func New(opts Options) *Renderer {
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{
		baseDir:    opts.BaseDir,
		dpi:        dpi,
		background: opts.Background,
		fonts:      opts.Fonts,
		strict:     opts.Strict,
		parsed:     map[string]*opentype.Font{},
	}
}

// Space 实现 renderer.Backend。
func (r *Renderer) Space() layout.Space { return layout.Pixels(r.dpi) }

// Measure 实现 layout.MetricsProvider，结果以像素为单位。
func (r *Renderer) Measure(text string, f layout.Font) (layout.Metrics, error) {
	face, err := r.face(f)
	if err != nil {
		return layout.Metrics{}, err
	}
	defer func() {
		_ = face.Close()
	}()

	m := face.Metrics()
	return layout.Metrics{
		Width:      fixedToFloat64(font.MeasureString(face, text)),
		LineHeight: fixedToFloat64(m.Height),
		Ascender:   fixedToFloat64(m.Ascent),
		Descender:  -fixedToFloat64(m.Descent),
		XHeight:    fixedToFloat64(m.XHeight),
	}, nil
}

// Render 把快照绘制为 PNG。画布尺寸向上取整到整像素。
func (r *Renderer) Render(snap *layout.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("布局快照为空")
	}
	width, height := snap.Size.Width, snap.Size.Height
	if height <= 0 {
		height = snap.Bounds.Height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g px", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(width)), int(math.Ceil(height))))
	if r.background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(*r.background)), image.Point{}, draw.Src)
	}
	t := &target{r: r, img: img, height: float64(img.Bounds().Dy())}
	if err := layout.Paint(snap, t); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// target 负责 y 轴翻转：布局以左下角为原点，图像以左上角为原点。
type target struct {
	r      *Renderer
	img    *image.RGBA
	height float64
}

func (t *target) DrawWord(w layout.Word, at layout.Point) error {
	if w.Text == "" {
		return nil
	}
	face, err := t.r.face(w.Font)
	if err != nil {
		return err
	}
	defer func() {
		_ = face.Close()
	}()

	d := &font.Drawer{
		Dst:  t.img,
		Src:  image.NewUniform(toRGBA(w.Color)),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(at.X), Y: floatToFixed(t.height - at.Y)},
	}
	d.DrawString(w.Text)
	return nil
}

func (t *target) StrokeDecoration(d layout.DecorationSpan) error {
	thickness := math.Max(1, math.Round(t.r.dpi/DefaultDPI))
	y := t.height - d.Y
	top := int(math.Round(y - thickness/2))
	rect := image.Rect(int(math.Round(d.X1)), top, int(math.Round(d.X2)), top+int(thickness))
	draw.Draw(t.img, rect, image.NewUniform(toRGBA(d.Color)), image.Point{}, draw.Over)
	return nil
}

// face 为一次度量或绘制创建字体面，调用方负责 Close。
func (r *Renderer) face(f layout.Font) (font.Face, error) {
	parsed, err := r.font(f)
	if err != nil {
		return nil, err
	}
	size := f.Size
	if size <= 0 {
		size = layout.DefaultFont.Size
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     r.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建字体面 %s 失败: %w", f, err)
	}
	return face, nil
}

func (r *Renderer) font(f layout.Font) (*opentype.Font, error) {
	src := f.Src
	if src == "" {
		src = f.Name
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if parsed, ok := r.parsed[src]; ok {
		return parsed, nil
	}
	parsed, err := r.load(src)
	if err != nil {
		if r.strict {
			return nil, err
		}
		if parsed, err = r.fallbackFont(); err != nil {
			return nil, err
		}
	}
	r.parsed[src] = parsed
	return parsed, nil
}

func (r *Renderer) load(src string) (*opentype.Font, error) {
	data, err := r.fontBytes(src)
	if err != nil {
		return nil, err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", src, err)
	}
	return parsed, nil
}

func (r *Renderer) fontBytes(src string) ([]byte, error) {
	for _, prefix := range []string{"built-in:", "builtin:"} {
		name, ok := strings.CutPrefix(src, prefix)
		if !ok {
			continue
		}
		if path, ok := r.fonts[name]; ok {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
			}
			return data, nil
		}
	}
	return fonts.Load(src, r.baseDir)
}

func (r *Renderer) fallbackFont() (*opentype.Font, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	parsed, err := r.load(fonts.Default)
	if err != nil {
		return nil, err
	}
	r.fallback = parsed
	return parsed, nil
}

func toRGBA(c layout.Color) color.RGBA {
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: 0xff}
}

func clamp(v int) uint8 {
	return uint8(min(max(v, 0), 255))
}

func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
