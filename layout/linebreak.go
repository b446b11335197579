package layout

// BreakOptions 控制贪心换行。
type BreakOptions struct {
	Width            float64
	MaxLines         int // <= 0 表示不限制行数
	SpaceWidth       float64
	ExtraWordSpacing float64
	// EllipsisWidth 是截断判断时预留的省略号宽度（标签默认字体）。
	// 行宽按实际生成的省略号单词宽度计算。
	EllipsisWidth float64
	// Ellipsis 构造替换触发单词的省略号单词；为空时按触发单词的样式以 EllipsisWidth 合成。
	Ellipsis func(trigger Word) Word
}

// gap 返回 word 之后应留的间距。
func (o BreakOptions) gap(word Word, next *Word) float64 {
	if IsAdjacent(word, next) {
		return 0
	}
	return o.SpaceWidth + o.ExtraWordSpacing
}

// BreakLines 以从左到右、不回溯的贪心策略把单词装入行。
// 返回的单词数组是实际参与布局的单词：触发截断后，触发单词由省略号取代，其后的单词全部丢弃。
// 行宽不包含行尾单词之后的间距。
func BreakLines(words []Word, opts BreakOptions) ([]Word, []Line) {
	if len(words) == 0 {
		return nil, nil
	}

	var lines []Line
	placed := words
	start := 0
	count := 0
	remaining := opts.Width
	trailing := 0.0

	closeLine := func(end int) {
		lines = append(lines, Line{Start: start, End: end, Width: opts.Width - remaining - trailing})
	}
	add := func(word Word, gap float64) {
		count++
		remaining -= word.Width + gap
		trailing = gap
	}

	for i, word := range words {
		var next *Word
		if i < len(words)-1 {
			next = &words[i+1]
		}
		gap := opts.gap(word, next)

		// 保留原有触发条件：当前行关闭后即达到 MaxLines 时就开始检查。
		if opts.MaxLines > 0 && count > 0 && len(lines)+1 >= opts.MaxLines &&
			remaining-(word.Width+opts.EllipsisWidth) < 0 {
			ellipsis := opts.ellipsis(word)
			// 省略号是 Suffix，与前一个单词之间没有间距。
			remaining += trailing
			remaining -= ellipsis.Width
			trailing = 0
			placed = make([]Word, i+1)
			copy(placed, words[:i])
			placed[i] = ellipsis
			closeLine(i + 1)
			logger().Debug("layout: truncated", "maxLines", opts.MaxLines, "dropped", len(words)-i)
			return placed, lines
		}

		if count > 0 && word.Width >= remaining {
			closeLine(i)
			start, count = i, 0
			remaining, trailing = opts.Width, 0
		}
		add(word, gap)
	}
	closeLine(len(words))
	return placed, lines
}

func (o BreakOptions) ellipsis(trigger Word) Word {
	if o.Ellipsis != nil {
		w := o.Ellipsis(trigger)
		w.Index = trigger.Index
		return w
	}
	w := trigger
	w.Text = Ellipsis
	w.Style = StyleSuffix
	w.Action = nil
	w.Width = o.EllipsisWidth
	return w
}
