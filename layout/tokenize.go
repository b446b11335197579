package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMetrics 包装度量提供者返回的错误，布局不会尝试回退字体。
var ErrMetrics = errors.New("layout: 文本度量失败")

// Ellipsis 是截断时追加的字面量。
const Ellipsis = "..."

// Defaults 是短语未覆盖时继承的标签样式。
type Defaults struct {
	Font       Font
	Color      Color
	Decoration Decoration
}

// Tokens 是 Tokenize 的输出。
type Tokens struct {
	Words      []Word
	SpaceWidth float64 // 默认字体下单个空格的宽度
	HasActions bool    // 是否有任何短语带动作，宿主据此决定是否接收点击
}

// Tokenize 按空格把短语拆成单词，并为每个单词解析样式、测量尺寸。
// 制表符视为不可断行的空格，只在按空格拆分之后才替换，因此永远不会成为断点。
func Tokenize(phrases []Phrase, defaults Defaults, m MetricsProvider, r FontResolver) (Tokens, error) {
	if m == nil {
		return Tokens{}, fmt.Errorf("%w: 缺少 MetricsProvider", ErrMetrics)
	}
	if r == nil {
		r = SizeResolver{}
	}

	space, err := measure(m, " ", defaults.Font)
	if err != nil {
		return Tokens{}, err
	}
	out := Tokens{SpaceWidth: space.Width}

	for _, p := range phrases {
		if p.Action != nil {
			out.HasActions = true
		}
		font, color, deco := resolveStyle(p, defaults, r)
		parts := strings.Split(p.Text, " ")
		for i, part := range parts {
			text := strings.ReplaceAll(part, "\t", " ")
			style := StyleWord
			switch {
			case i == 0 && p.Style == StylePrefix:
				style = StylePrefix
			case i == len(parts)-1 && p.Style == StyleSuffix:
				style = StyleSuffix
			}
			met, err := measure(m, text, font)
			if err != nil {
				return Tokens{}, err
			}
			out.Words = append(out.Words, newWord(len(out.Words), text, font, color, deco, style, p.Action, met))
		}
	}
	return out, nil
}

// resolveStyle 按 字号 > 显式字体 > 默认值 的顺序解析短语样式。
func resolveStyle(p Phrase, d Defaults, r FontResolver) (Font, Color, Decoration) {
	font := d.Font
	if p.Override.Font != nil {
		font = *p.Override.Font
	}
	if p.Override.FontSize != nil {
		font = r.DeriveFont(font, *p.Override.FontSize)
	}
	color := d.Color
	if p.Override.Color != nil {
		color = *p.Override.Color
	}
	deco := d.Decoration
	if p.Override.Decoration != nil {
		deco = *p.Override.Decoration
	}
	return font, color, deco
}

func measure(m MetricsProvider, text string, font Font) (Metrics, error) {
	met, err := m.Measure(text, font)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w: %q (%s): %w", ErrMetrics, text, font, err)
	}
	return met, nil
}

// IsAdjacent 报告 word 与 next 之间是否不留空隙。next 为 nil 表示行尾/序列末尾。
func IsAdjacent(word Word, next *Word) bool {
	return word.Style == StylePrefix || (next != nil && next.Style == StyleSuffix)
}
