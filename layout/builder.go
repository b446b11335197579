package layout

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/richlabel/binding"
	"github.com/ByLCY/richlabel/dsl"
)

// Build 根据 DSL 中的 label 段落生成配置好的 Label。
// 短语文本与动作名中的 ${...} 会用 data 插值。
func Build(label *dsl.Label, data any, opts BuildOptions) (*Label, error) {
	if label == nil {
		return nil, fmt.Errorf("label 为空")
	}
	if opts.Metrics == nil {
		return nil, fmt.Errorf("layout: 缺少度量后端 MetricsProvider")
	}
	resolver := opts.Fonts
	if resolver == nil {
		resolver = SizeResolver{}
	}
	space := opts.Space
	if space.Native == UnitNone {
		space = MM
	}

	style := opts.Defaults
	if style.Font == (Font{}) {
		style.Font = DefaultFont
	}
	if err := applySettings(label, &style, resolver, space); err != nil {
		return nil, err
	}

	phrases := make([]Phrase, 0, len(label.Statements))
	for _, p := range label.Phrases() {
		phrase, err := buildPhrase(p, style.Font, data, opts, space)
		if err != nil {
			return nil, err
		}
		phrases = append(phrases, phrase)
	}

	return NewLabel(phrases, opts.Metrics, WithFontResolver(resolver), WithLabelStyle(style)), nil
}

// applySettings 先收集全部设置：字号在字体之后生效，与书写顺序无关。
func applySettings(label *dsl.Label, style *Style, resolver FontResolver, space Space) error {
	if s, ok := label.Setting("font"); ok {
		style.Font = FontNamed(s.Value.Raw(), style.Font.Size)
	}
	for _, st := range label.Statements {
		s := st.Setting
		if s == nil {
			continue
		}
		raw := s.Value.Raw()
		var err error
		switch strings.ToLower(s.Key) {
		case "font":
		case "size", "font-size":
			var l Length
			if l, err = ParseLength(raw); err == nil {
				style.Font = resolver.DeriveFont(style.Font, l.Points(space.DPI))
			}
		case "color":
			style.Color, err = ParseColor(raw)
		case "decoration":
			style.Decoration, err = ParseDecoration(raw)
		case "align":
			style.Align, err = ParseAlignment(raw)
		case "max-lines":
			style.MaxLines, err = strconv.Atoi(raw)
		case "word-spacing":
			style.ExtraWordSpacing, err = parseSpacing(raw, space)
		case "line-spacing":
			style.ExtraLineSpacing, err = parseSpacing(raw, space)
		default:
			err = fmt.Errorf("未知的设置项")
		}
		if err != nil {
			return fmt.Errorf("%s: 设置 %s: %w", s.Pos, s.Key, err)
		}
	}
	return nil
}

func buildPhrase(p *dsl.Phrase, base Font, data any, bo BuildOptions, space Space) (Phrase, error) {
	var opts []PhraseOption
	for _, o := range p.Options {
		switch {
		case o.Size != nil:
			l, err := ParseLength(*o.Size)
			if err != nil {
				return Phrase{}, fmt.Errorf("%s: %w", p.Pos, err)
			}
			opts = append(opts, WithFontSize(l.Points(space.DPI)))
		case o.Color != nil:
			c, err := ParseColor(*o.Color)
			if err != nil {
				return Phrase{}, fmt.Errorf("%s: %w", p.Pos, err)
			}
			opts = append(opts, WithColor(c))
		case o.Font != nil:
			opts = append(opts, WithFont(FontNamed(string(*o.Font), base.Size)))
		case o.Action != nil:
			name := binding.Interpolate(string(*o.Action), data)
			opts = append(opts, WithAction(name, bo.action(name)))
		case o.Decoration != nil:
			d, err := ParseDecoration(*o.Decoration)
			if err != nil {
				return Phrase{}, fmt.Errorf("%s: %w", p.Pos, err)
			}
			opts = append(opts, WithDecoration(d))
		case o.Style != nil:
			s, err := ParseWordStyle(*o.Style)
			if err != nil {
				return Phrase{}, fmt.Errorf("%s: %w", p.Pos, err)
			}
			opts = append(opts, WithStyle(s))
		}
	}
	return NewPhrase(binding.Interpolate(string(p.Text), data), opts...), nil
}

func (o BuildOptions) action(name string) func() {
	if do, ok := o.Actions[name]; ok {
		return do
	}
	if o.Resolve != nil {
		return o.Resolve(name)
	}
	return nil
}

func parseSpacing(raw string, space Space) (float64, error) {
	l, err := ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.In(space), nil
}

// FontNamed 把 DSL 中的字体名转换为 Font：带扩展名或路径分隔符的视为文件，其余视为内置字体。
func FontNamed(name string, size float64) Font {
	if strings.ContainsAny(name, `/\`) || filepath.Ext(name) != "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		return Font{Name: base, Src: name, Size: size}
	}
	name = strings.TrimPrefix(strings.TrimPrefix(name, "embed:"), "builtin:")
	return Font{Name: name, Src: "embed:" + name, Size: size}
}
