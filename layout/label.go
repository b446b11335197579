package layout

import "fmt"

// DefaultFont 是标签未设置字体时使用的内置字体。
var DefaultFont = Font{Name: "go-regular", Src: "embed:go-regular", Size: 12}

// Label 是富文本标签的排版引擎：持有短语与样式，按盒子尺寸计算布局快照。
// Label 只应在单个 goroutine（通常是 UI 线程）中使用，内部不加锁。
type Label struct {
	phrases  []Phrase
	style    Style
	cache    *measureCache
	resolver FontResolver

	tokens      *Tokens
	snap        *Snapshot
	lastSize    Size
	frame       Size // 最近一次请求的盒子尺寸，Invalidate 不清除
	invalidated bool

	lastLineCount    int
	lineCountChanged func(int)

	pointer        PointerSource
	pointerEnabled bool
}

// NewLabel 创建标签。m 为文本度量提供者，不能为空。
func NewLabel(phrases []Phrase, m MetricsProvider, opts ...LabelOption) *Label {
	l := &Label{
		phrases:     phrases,
		style:       Style{Font: DefaultFont, Color: Black},
		cache:       newMeasureCache(m),
		resolver:    SizeResolver{},
		invalidated: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Label) Phrases() []Phrase { return l.phrases }

// SetPhrases 替换全部短语，下次布局时重新分词。
func (l *Label) SetPhrases(phrases []Phrase) {
	l.phrases = phrases
	l.tokens = nil
	l.Invalidate()
	l.syncPointer(hasActions(phrases))
}

func (l *Label) Style() Style { return l.style }

func (l *Label) Font() Font { return l.style.Font }

func (l *Label) SetFont(f Font) {
	l.style.Font = f
	l.tokens = nil
	l.Invalidate()
}

func (l *Label) FontSize() float64 { return l.style.Font.Size }

// SetFontSize 以当前字体派生指定字号的字体。
func (l *Label) SetFontSize(size float64) {
	l.SetFont(l.resolver.DeriveFont(l.style.Font, size))
}

func (l *Label) SetColor(c Color) {
	l.style.Color = c
	l.tokens = nil
	l.Invalidate()
}

func (l *Label) SetDecoration(d Decoration) {
	l.style.Decoration = d
	l.tokens = nil
	l.Invalidate()
}

func (l *Label) SetAlignment(a Alignment) {
	l.style.Align = a
	l.Invalidate()
}

// SetMaxLines 设置最大行数，0 表示不限制。
func (l *Label) SetMaxLines(n int) {
	l.style.MaxLines = n
	l.Invalidate()
}

func (l *Label) SetExtraWordSpacing(v float64) {
	l.style.ExtraWordSpacing = v
	l.Invalidate()
}

func (l *Label) SetExtraLineSpacing(v float64) {
	l.style.ExtraLineSpacing = v
	l.Invalidate()
}

// OnLineCountChanged 注册行数变化回调。只有行数与上一次布局不同时才会调用。
func (l *Label) OnLineCountChanged(fn func(lines int)) { l.lineCountChanged = fn }

// Invalidate 丢弃缓存的布局与度量结果，下次 Layout 时重新计算。
func (l *Label) Invalidate() {
	l.invalidated = true
	l.snap = nil
	l.lastSize = Size{}
	l.cache.reset()
}

// Refresh 在 Invalidate 的基础上立即重新分词，若已有盒子尺寸则重新布局。
func (l *Label) Refresh() error {
	l.tokens = nil
	l.Invalidate()
	if err := l.retokenize(); err != nil {
		return err
	}
	if l.frame == (Size{}) {
		return nil
	}
	_, err := l.Layout(l.frame)
	return err
}

// Layout 按盒子尺寸计算布局。尺寸未变且未失效时直接返回上次的快照。
func (l *Label) Layout(size Size) (*Snapshot, error) {
	if !l.invalidated && l.snap != nil && l.lastSize == size && size != (Size{}) {
		return l.snap, nil
	}
	if l.tokens == nil {
		if err := l.retokenize(); err != nil {
			return nil, err
		}
	}
	snap, err := l.compute(size)
	if err != nil {
		return nil, err
	}
	l.snap = snap
	l.lastSize = size
	l.frame = size
	l.invalidated = false

	if n := snap.LineCount(); n != l.lastLineCount {
		logger().Debug("layout: line count changed", "from", l.lastLineCount, "to", n)
		l.lastLineCount = n
		if l.lineCountChanged != nil {
			l.lineCountChanged(n)
		}
	}
	return snap, nil
}

// SizeThatFits 返回在给定盒子内排版后的最小内容尺寸。
func (l *Label) SizeThatFits(size Size) (Size, error) {
	snap, err := l.Layout(size)
	if err != nil {
		return Size{}, err
	}
	return snap.Bounds.Size(), nil
}

// Snapshot 返回最近一次布局结果，尚未布局时为 nil。
func (l *Label) Snapshot() *Snapshot { return l.snap }

// LineCount 返回最近一次布局的行数。
func (l *Label) LineCount() int { return l.snap.LineCount() }

// Line 返回第 i 行的文本。
func (l *Label) Line(i int) (string, error) {
	if l.snap == nil {
		return "", fmt.Errorf("%w: 尚未布局", ErrIndexOutOfRange)
	}
	return l.snap.LineText(i)
}

// HitTest 在布局坐标系（不含 ExtraHeight）中查找带动作的单词。
func (l *Label) HitTest(p Point) (Word, bool) {
	if l.snap == nil {
		return Word{}, false
	}
	return HitTest(p, l.snap.Words, l.snap.Positions)
}

// Tap 处理宿主传来的点击（y 轴向上，含垂直居中偏移），命中带动作的单词时执行动作。
func (l *Label) Tap(p Point) bool {
	if l.snap == nil {
		return false
	}
	p.Y -= l.snap.ExtraHeight
	word, ok := l.HitTest(p)
	if !ok {
		return false
	}
	logger().Debug("layout: tap", "word", word.Text, "action", word.Action.Name)
	return word.Action.Invoke()
}

// Attach 连接宿主的点击来源。只有存在带动作的短语时才启用点击分发。
func (l *Label) Attach(src PointerSource) {
	if l.pointer != nil && l.pointerEnabled {
		l.pointer.Disable()
	}
	l.pointer = src
	l.pointerEnabled = false
	l.syncPointer(hasActions(l.phrases))
}

func (l *Label) syncPointer(enable bool) {
	if l.pointer == nil || enable == l.pointerEnabled {
		return
	}
	if enable {
		l.pointer.Enable(func(p Point) { l.Tap(p) })
	} else {
		l.pointer.Disable()
	}
	l.pointerEnabled = enable
}

func (l *Label) defaults() Defaults {
	return Defaults{Font: l.style.Font, Color: l.style.Color, Decoration: l.style.Decoration}
}

func (l *Label) retokenize() error {
	tokens, err := Tokenize(l.phrases, l.defaults(), l.cache, l.resolver)
	if err != nil {
		logger().Warn("layout: tokenize failed", "err", err)
		return err
	}
	l.tokens = &tokens
	logger().Debug("layout: tokenized", "phrases", len(l.phrases), "words", len(tokens.Words))
	l.syncPointer(tokens.HasActions)
	return nil
}

func (l *Label) compute(size Size) (*Snapshot, error) {
	snap := &Snapshot{Size: size}
	if size.Width <= 0 {
		return snap, nil
	}

	opts := BreakOptions{
		Width:            size.Width,
		MaxLines:         l.style.MaxLines,
		SpaceWidth:       l.tokens.SpaceWidth,
		ExtraWordSpacing: l.style.ExtraWordSpacing,
	}
	var ellipsisErr error
	if opts.MaxLines > 0 {
		met, err := measure(l.cache, Ellipsis, l.style.Font)
		if err != nil {
			return nil, err
		}
		opts.EllipsisWidth = met.Width
		opts.Ellipsis = func(trigger Word) Word {
			met, err := measure(l.cache, Ellipsis, trigger.Font)
			if err != nil {
				ellipsisErr = err
			}
			return newWord(trigger.Index, Ellipsis, trigger.Font, trigger.Color, trigger.Decoration, StyleSuffix, nil, met)
		}
	}

	words, lines := BreakLines(l.tokens.Words, opts)
	if ellipsisErr != nil {
		return nil, ellipsisErr
	}
	positions, bounds := Position(words, lines, size, PositionOptions{
		Align:            l.style.Align,
		SpaceWidth:       l.tokens.SpaceWidth,
		ExtraWordSpacing: l.style.ExtraWordSpacing,
		ExtraLineSpacing: l.style.ExtraLineSpacing,
	})

	snap.Words = words
	snap.Lines = lines
	snap.Positions = positions
	snap.Bounds = bounds
	if extra := size.Height - bounds.Height; extra > 0 {
		snap.ExtraHeight = extra / 2
	}
	logger().Debug("layout: positioned", "width", size.Width, "height", size.Height, "lines", len(lines), "words", len(words))
	return snap, nil
}

func hasActions(phrases []Phrase) bool {
	for _, p := range phrases {
		if p.Action != nil {
			return true
		}
	}
	return false
}

type measureKey struct {
	text string
	font Font
}

// measureCache 记忆 (text, font) 的度量结果，Invalidate 时清空。
type measureCache struct {
	provider MetricsProvider
	entries  map[measureKey]Metrics
}

func newMeasureCache(m MetricsProvider) *measureCache {
	return &measureCache{provider: m, entries: map[measureKey]Metrics{}}
}

func (c *measureCache) Measure(text string, font Font) (Metrics, error) {
	if c.provider == nil {
		return Metrics{}, fmt.Errorf("缺少 MetricsProvider")
	}
	key := measureKey{text: text, font: font}
	if m, ok := c.entries[key]; ok {
		return m, nil
	}
	m, err := c.provider.Measure(text, font)
	if err != nil {
		return Metrics{}, err
	}
	c.entries[key] = m
	return m, nil
}

func (c *measureCache) reset() { clear(c.entries) }
