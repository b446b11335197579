package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/richlabel/fonts"
	"github.com/ByLCY/richlabel/layout"
	"github.com/ByLCY/richlabel/renderer"
)

// 装饰线与调试边框的描边宽度（mm）。
const strokeWidth = 0.2

// Format 是输出的矢量格式。
type Format string

const (
	FormatPDF Format = "pdf"
	FormatSVG Format = "svg"
)

// Renderer measures and draws label snapshots via github.com/tdewolff/canvas.
// 度量结果以 mm 为单位，字号按 pt 解释。
type Renderer struct {
	baseDir string
	format  Format
	meta    Meta
	outline bool
	strict  bool

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Backend    = (*Renderer)(nil)
	_ layout.RenderTarget = (*target)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Format  Format
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
	Meta    Meta
	// Outline 额外描出每个单词的矩形与内容边界。
	Outline bool
	// Strict 时字体加载失败直接返回错误，否则退回内置字体。
	Strict bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string
	Subject  string
	Keywords []string
	Author   string
	Creator  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	format := opts.Format
	if format == "" {
		format = FormatPDF
	}
	r := &Renderer{
		baseDir:      opts.BaseDir,
		format:       format,
		meta:         opts.Meta,
		outline:      opts.Outline,
		strict:       opts.Strict,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // 读取失败在真正使用时报告
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Space 实现 renderer.Backend：canvas 以 mm 为原生单位。
func (r *Renderer) Space() layout.Space { return layout.MM }

// Measure 实现 layout.MetricsProvider。
func (r *Renderer) Measure(text string, font layout.Font) (layout.Metrics, error) {
	face, err := r.fontFace(font, layout.Black)
	if err != nil {
		return layout.Metrics{}, err
	}
	m := face.Metrics()
	return layout.Metrics{
		Width:      face.TextWidth(text),
		LineHeight: m.LineHeight,
		Ascender:   m.Ascent,
		Descender:  -math.Abs(m.Descent),
		XHeight:    m.XHeight,
	}, nil
}

// Render renders the snapshot into a PDF (or SVG) byte slice.
func (r *Renderer) Render(snap *layout.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("布局快照为空")
	}
	width, height := snap.Size.Width, snap.Size.Height
	if height <= 0 {
		height = snap.Bounds.Height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g mm", width, height)
	}

	c := canvas.New(width, height)
	// 默认的 CartesianI 以左下角为原点、y 轴向上，与布局坐标一致。
	ctx := canvas.NewContext(c)
	if err := layout.Paint(snap, &target{r: r, ctx: ctx}); err != nil {
		return nil, err
	}
	if r.outline {
		drawOutline(ctx, snap)
	}

	var buf bytes.Buffer
	switch r.format {
	case FormatSVG:
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	case FormatPDF:
		writer := pdf.New(&buf, width, height, nil)
		r.applyMeta(writer)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF) {
	if writer == nil {
		return
	}
	keywords := strings.Join(r.meta.Keywords, ", ")
	writer.SetInfo(r.meta.Title, r.meta.Subject, keywords, r.meta.Author, r.meta.Creator)
}

// target 把单词与装饰线画到一个 canvas 上下文中。
type target struct {
	r   *Renderer
	ctx *canvas.Context
}

func (t *target) DrawWord(w layout.Word, at layout.Point) error {
	if w.Text == "" {
		return nil
	}
	face, err := t.r.fontFace(w.Font, w.Color)
	if err != nil {
		return err
	}
	t.ctx.DrawText(at.X, at.Y, canvas.NewTextLine(face, w.Text, canvas.Left))
	return nil
}

func (t *target) StrokeDecoration(d layout.DecorationSpan) error {
	if d.X2 <= d.X1 {
		return nil
	}
	t.ctx.SetStrokeColor(colorFromLayout(d.Color))
	t.ctx.SetStrokeWidth(strokeWidth)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(d.X2-d.X1, 0)
	t.ctx.DrawPath(d.X1, d.Y, p)
	return nil
}

// drawOutline 描出单词矩形（灰）与内容边界（红）。
func drawOutline(ctx *canvas.Context, snap *layout.Snapshot) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeWidth(strokeWidth / 2)
	ctx.SetStrokeColor(canvas.Hex("#c0c0c0"))
	for i, w := range snap.Words {
		rc := w.Rect(snap.Positions[i])
		ctx.DrawPath(rc.X, rc.Y+snap.ExtraHeight, canvas.Rectangle(rc.Width, rc.Height))
	}
	if b := snap.Bounds; !b.Empty() {
		ctx.SetStrokeColor(canvas.Hex("#e0301e"))
		ctx.DrawPath(b.X, b.Y+snap.ExtraHeight, canvas.Rectangle(b.Width, b.Height))
	}
}

func (r *Renderer) fontFace(font layout.Font, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := font.Size
	if size <= 0 {
		size = layout.DefaultFont.Size
	}
	return family.Face(size, colorFromLayout(col), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		if r.strict {
			return nil, canvas.FontRegular, err
		}
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.Font, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	if err := family.LoadFont(data, 0, style); err != nil {
		return fmt.Errorf("加载字体 %s 失败: %w", font, err)
	}
	return nil
}

func (r *Renderer) loadFontBytes(font layout.Font) ([]byte, error) {
	src := font.Src
	if src == "" {
		src = font.Name
	}
	if src == "" {
		return nil, fmt.Errorf("字体缺少 src")
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
	}
	return fonts.Load(src, r.baseDir)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Default, "")
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("richlabel-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%s|%s|%s", font.Name, font.Src, font.Style, font.Family)
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
