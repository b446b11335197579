package layout

// WordAt 按 Word.Index 顺序线性扫描，返回第一个矩形包含 p 的单词。
// 同一布局中单词不会重叠，因此第一个命中即唯一命中。
func WordAt(p Point, words []Word, positions []WordPosition) (Word, bool) {
	for i, word := range words {
		if i >= len(positions) {
			break
		}
		if word.Rect(positions[i]).Contains(p) {
			return word, true
		}
	}
	return Word{}, false
}

// HitTest 与 WordAt 相同，但命中的单词没有动作时返回 false。
// 调用方在执行前仍需检查 Action.Do 是否为空。
func HitTest(p Point, words []Word, positions []WordPosition) (Word, bool) {
	word, ok := WordAt(p, words, positions)
	if !ok || word.Action == nil {
		return Word{}, false
	}
	return word, true
}
