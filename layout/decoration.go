package layout

// 装饰线相对基线的偏移。
const underlineOffset = -2.5

// DecorationSpan 是一段需要描边的装饰线，坐标已包含 ExtraHeight。
type DecorationSpan struct {
	Kind  Decoration `json:"kind"`
	Color Color      `json:"color"`
	X1    float64    `json:"x1"`
	X2    float64    `json:"x2"`
	Y     float64    `json:"y"`
}

// Decorations 为带下划线或删除线的单词生成线段。
// 同一行内紧随其后的单词装饰与颜色都相同时，线段延伸到下一个单词的左端，使连续的装饰连成一条。
func Decorations(s *Snapshot) []DecorationSpan {
	if s == nil {
		return nil
	}
	var spans []DecorationSpan
	for _, line := range s.Lines {
		for i := line.Start; i < line.End; i++ {
			word := s.Words[i]
			if word.Decoration == DecorationNone {
				continue
			}
			pos := s.Positions[i]
			right := pos.Left + word.Width
			if i+1 < line.End {
				next := s.Words[i+1]
				if next.Decoration == word.Decoration && next.Color == word.Color {
					right = s.Positions[i+1].Left
				}
			}
			offset := underlineOffset
			if word.Decoration == DecorationStrikethrough {
				offset = word.XHeight / 2
			}
			spans = append(spans, DecorationSpan{
				Kind:  word.Decoration,
				Color: word.Color,
				X1:    pos.Left,
				X2:    right,
				Y:     pos.Bottom + s.ExtraHeight + offset,
			})
		}
	}
	return spans
}

// Paint 把快照交给渲染目标：先逐个绘制单词，再描边装饰线。
func Paint(s *Snapshot, t RenderTarget) error {
	if s == nil {
		return nil
	}
	for _, line := range s.Lines {
		for i := line.Start; i < line.End; i++ {
			if err := t.DrawWord(s.Words[i], s.Origin(i)); err != nil {
				return err
			}
		}
	}
	for _, span := range Decorations(s) {
		if err := t.StrokeDecoration(span); err != nil {
			return err
		}
	}
	return nil
}
