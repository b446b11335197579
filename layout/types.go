package layout

import (
	"fmt"
	"strings"
)

// 该文件定义排版引擎的输入（Phrase）、中间结果（Word/Line/WordPosition）与几何类型。

// WordStyle 决定单词与相邻单词之间是否插入空格。
type WordStyle int

const (
	// StyleWord 两侧都保留空格。
	StyleWord WordStyle = iota
	// StylePrefix 只在左侧保留空格，与下一个单词紧贴。
	StylePrefix
	// StyleSuffix 只在右侧保留空格，与上一个单词紧贴。
	StyleSuffix
)

func (s WordStyle) String() string {
	switch s {
	case StylePrefix:
		return "prefix"
	case StyleSuffix:
		return "suffix"
	default:
		return "word"
	}
}

// MarshalText 让调试 JSON 输出可读的名字。
func (s WordStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *WordStyle) UnmarshalText(text []byte) error {
	v, err := ParseWordStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseWordStyle 解析 word/prefix/suffix。
func ParseWordStyle(v string) (WordStyle, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "word":
		return StyleWord, nil
	case "prefix":
		return StylePrefix, nil
	case "suffix":
		return StyleSuffix, nil
	default:
		return StyleWord, fmt.Errorf("未知的单词样式 %q", v)
	}
}

// Alignment 是行内水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

func (a Alignment) String() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "left"
	}
}

func (a Alignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Alignment) UnmarshalText(text []byte) error {
	v, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAlignment 解析 left/right/center，同时接受 start/end/middle 别名。
func ParseAlignment(v string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "left", "start":
		return AlignLeft, nil
	case "right", "end":
		return AlignRight, nil
	case "center", "middle":
		return AlignCenter, nil
	default:
		return AlignLeft, fmt.Errorf("未知的对齐方式 %q", v)
	}
}

// Decoration 是单词的装饰线类型。
type Decoration int

const (
	DecorationNone Decoration = iota
	DecorationUnderline
	DecorationStrikethrough
)

func (d Decoration) String() string {
	switch d {
	case DecorationUnderline:
		return "underline"
	case DecorationStrikethrough:
		return "strikethrough"
	default:
		return "none"
	}
}

func (d Decoration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Decoration) UnmarshalText(text []byte) error {
	v, err := ParseDecoration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDecoration 解析 none/underline/strikethrough。
func ParseDecoration(v string) (Decoration, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "plain":
		return DecorationNone, nil
	case "underline":
		return DecorationUnderline, nil
	case "strikethrough", "line-through":
		return DecorationStrikethrough, nil
	default:
		return DecorationNone, fmt.Errorf("未知的装饰线 %q", v)
	}
}

// Font 描述字体资源，src 可以是文件路径、内置 embed:<name> 或 builtin:<name> 形式。
// Size 以 pt 为单位。Font 是可比较的值类型，可直接作为缓存键。
type Font struct {
	Name   string  `json:"name"`
	Src    string  `json:"src"`
	Style  string  `json:"style,omitempty"`
	Family string  `json:"family,omitempty"` // 渲染器使用的 Family 名称
	Size   float64 `json:"size"`
}

func (f Font) String() string {
	name := f.Name
	if name == "" {
		name = f.Src
	}
	return fmt.Sprintf("%s@%gpt", name, f.Size)
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Black 是标签的默认文字颜色。
var Black = Color{}

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（忽略 alpha）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var c Color
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return c, nil
}

// Metrics 是度量提供者对一段文本的测量结果。Descender 为负值（基线以下）。
type Metrics struct {
	Width      float64 `json:"width"`
	LineHeight float64 `json:"lineHeight"`
	Ascender   float64 `json:"ascender"`
	Descender  float64 `json:"descender"`
	XHeight    float64 `json:"xHeight"`
}

// Action 挂在短语上，点击该短语的任意单词时触发。
type Action struct {
	Name string `json:"name"`
	Do   func() `json:"-"`
}

// Invoke 执行动作；Do 为空时什么也不做。
func (a *Action) Invoke() bool {
	if a == nil || a.Do == nil {
		return false
	}
	a.Do()
	return true
}

// StyleOverride 保存短语级的可选覆盖项。
// 优先级：FontSize > Font > 标签默认值。
type StyleOverride struct {
	Font       *Font       `json:"font,omitempty"`
	FontSize   *float64    `json:"fontSize,omitempty"`
	Color      *Color      `json:"color,omitempty"`
	Decoration *Decoration `json:"decoration,omitempty"`
}

// Phrase 是调用方提供的一段文本，构造后不再修改。
type Phrase struct {
	Text     string        `json:"text"`
	Style    WordStyle     `json:"style"`
	Override StyleOverride `json:"override"`
	Action   *Action       `json:"action,omitempty"`
}

// PhraseOption 配置 NewPhrase。
type PhraseOption func(*Phrase)

func WithFont(f Font) PhraseOption { return func(p *Phrase) { p.Override.Font = &f } }

func WithFontSize(size float64) PhraseOption {
	return func(p *Phrase) { p.Override.FontSize = &size }
}

func WithColor(c Color) PhraseOption { return func(p *Phrase) { p.Override.Color = &c } }

func WithDecoration(d Decoration) PhraseOption {
	return func(p *Phrase) { p.Override.Decoration = &d }
}

func WithStyle(s WordStyle) PhraseOption { return func(p *Phrase) { p.Style = s } }

// WithAction 给短语绑定点击动作。
func WithAction(name string, do func()) PhraseOption {
	return func(p *Phrase) { p.Action = &Action{Name: name, Do: do} }
}

// NewPhrase 构造短语。空字符串是合法输入，会产生一个宽度为 0 的单词。
func NewPhrase(text string, opts ...PhraseOption) Phrase {
	p := Phrase{Text: text}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Word 是排版的最小单位，由 Tokenize 生成，之后只读。
type Word struct {
	Index      int        `json:"index"`
	Text       string     `json:"text"`
	Font       Font       `json:"font"`
	Color      Color      `json:"color"`
	Decoration Decoration `json:"decoration"`
	Style      WordStyle  `json:"style"`
	Action     *Action    `json:"action,omitempty"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Ascender   float64    `json:"ascender"`
	Descender  float64    `json:"descender"`
	XHeight    float64    `json:"xHeight"`
}

func (w Word) String() string { return w.Text }

// Rect 返回单词在给定位置上的矩形（左下角为原点）。
func (w Word) Rect(p WordPosition) Rect {
	return Rect{X: p.Left, Y: p.Bottom + w.Descender, Width: w.Width, Height: w.Height}
}

func newWord(index int, text string, font Font, color Color, deco Decoration, style WordStyle, action *Action, m Metrics) Word {
	return Word{
		Index:      index,
		Text:       text,
		Font:       font,
		Color:      color,
		Decoration: deco,
		Style:      style,
		Action:     action,
		Width:      m.Width,
		Height:     m.LineHeight,
		Ascender:   m.Ascender,
		Descender:  m.Descender,
		XHeight:    m.XHeight,
	}
}

// Line 引用快照中单词数组的连续区间 [Start, End)。
type Line struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Width float64 `json:"width"`
}

// Len 返回行内单词数。
func (l Line) Len() int { return l.End - l.Start }

// WordPosition 记录单词基线左端的位置：Bottom 自盒子底边向上累计，Left 为对齐后的横向偏移。
type WordPosition struct {
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Point 使用左下角为原点、y 轴向上的坐标系。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size 是布局盒子的尺寸。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect 以左下角 (X, Y) 与宽高描述矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty 报告矩形是否没有面积。
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Size 返回矩形的宽高。
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Contains 采用半开区间，相邻单词的公共边只属于右侧/上侧的单词。
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Union 返回同时包含 r 与 o 的最小矩形；空矩形不参与合并。
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return r.extend(o)
}

// extend 与 Union 相同，但退化矩形也参与合并。
func (r Rect) extend(o Rect) Rect {
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.Width, o.X+o.Width), max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
