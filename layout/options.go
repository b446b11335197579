package layout

// MetricsProvider 测量文本在指定字体下的宽度、行高、上升部与下降部。
// 对同一 (text, font) 必须返回相同结果；测量失败视为配置错误。
type MetricsProvider interface {
	Measure(text string, font Font) (Metrics, error)
}

// FontResolver 生成同一字体族在新字号下的字体。
type FontResolver interface {
	DeriveFont(font Font, size float64) Font
}

// RenderTarget 接收排版结果并负责真正的绘制。
type RenderTarget interface {
	// DrawWord 在 at（基线左端，左下角为原点）处绘制单词。
	DrawWord(w Word, at Point) error
	StrokeDecoration(d DecorationSpan) error
}

// PointerSource 是宿主的点击事件来源。只有存在带动作的短语时才会被 Enable。
type PointerSource interface {
	Enable(handler func(Point))
	Disable()
}

// SizeResolver 是默认的 FontResolver：复制字体并替换字号。
type SizeResolver struct{}

func (SizeResolver) DeriveFont(font Font, size float64) Font {
	font.Size = size
	return font
}

// BuildOptions 配置从 DSL 构建标签所需的依赖。
type BuildOptions struct {
	Metrics MetricsProvider
	Fonts   FontResolver
	// Actions 按名字提供动作实现。
	Actions map[string]func()
	// Resolve 为 Actions 中没有的名字提供实现；两者都没有时得到 Do 为空的 Action。
	Resolve func(name string) func()
	// Defaults 是 DSL 未声明时使用的标签样式。
	Defaults Style
	// Space 是度量后端的坐标空间，用于换算带单位的间距；默认 MM。
	Space Space
}

// Style 汇总标签级可配置项。
type Style struct {
	Font             Font       `json:"font"`
	Color            Color      `json:"color"`
	Decoration       Decoration `json:"decoration"`
	Align            Alignment  `json:"align"`
	MaxLines         int        `json:"maxLines"`
	ExtraWordSpacing float64    `json:"extraWordSpacing"`
	ExtraLineSpacing float64    `json:"extraLineSpacing"`
}

// LabelOption 配置 NewLabel。
type LabelOption func(*Label)

// WithFontResolver 替换默认的 SizeResolver。
func WithFontResolver(r FontResolver) LabelOption {
	return func(l *Label) {
		if r != nil {
			l.resolver = r
		}
	}
}

// WithLabelStyle 一次性设置标签样式。
func WithLabelStyle(s Style) LabelOption {
	return func(l *Label) { l.style = s }
}
