package layout

// PositionOptions 控制行内定位。
type PositionOptions struct {
	Align            Alignment
	SpaceWidth       float64
	ExtraWordSpacing float64
	ExtraLineSpacing float64
}

// Position 自下而上计算每个单词的基线位置，并返回所有单词矩形的并集（零宽单词同样计入）。
// 最后一行先放置：y 先上移该行最大下降部，之后每行再上移上一行的最大行高加行距。
func Position(words []Word, lines []Line, box Size, opts PositionOptions) ([]WordPosition, Rect) {
	positions := make([]WordPosition, len(words))
	var bounds Rect
	placed := false
	y := 0.0
	var prev Line

	for n := len(lines) - 1; n >= 0; n-- {
		line := lines[n]
		if n == len(lines)-1 {
			y += -lowestDescender(words[line.Start:line.End])
		} else {
			y += maxHeight(words[prev.Start:prev.End]) + opts.ExtraLineSpacing
		}
		x := alignOffset(box.Width, line.Width, opts.Align)

		for i := line.Start; i < line.End; i++ {
			word := words[i]
			positions[word.Index] = WordPosition{Bottom: y, Left: x}
			if r := word.Rect(positions[word.Index]); placed {
				bounds = bounds.extend(r)
			} else {
				bounds, placed = r, true
			}

			x += word.Width
			var next *Word
			if i+1 < line.End {
				next = &words[i+1]
			}
			if !IsAdjacent(word, next) {
				x += opts.SpaceWidth + opts.ExtraWordSpacing
			}
		}
		prev = line
	}
	return positions, bounds
}

// alignOffset 返回行首横向偏移。行宽超过盒子时仍按公式计算，允许为负。
func alignOffset(container, width float64, align Alignment) float64 {
	switch align {
	case AlignRight:
		return container - width
	case AlignCenter:
		return (container - width) / 2
	default:
		return 0
	}
}

func lowestDescender(words []Word) float64 {
	d := 0.0
	for i, w := range words {
		if i == 0 || w.Descender < d {
			d = w.Descender
		}
	}
	return d
}

func maxHeight(words []Word) float64 {
	h := 0.0
	for _, w := range words {
		h = max(h, w.Height)
	}
	return h
}
