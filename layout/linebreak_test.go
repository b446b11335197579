package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineTexts(ws []Word, lines []Line) [][]string {
	out := make([][]string, len(lines))
	for i, l := range lines {
		out[i] = texts(ws[l.Start:l.End])
	}
	return out
}

func TestBreakLinesGreedy(t *testing.T) {
	ws := words("aaaa", "bbbb", "cccc", "dddd")
	placed, lines := BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10})

	assert.Equal(t, [][]string{{"aaaa", "bbbb"}, {"cccc", "dddd"}}, lineTexts(placed, lines))
	assert.Equal(t, 90.0, lines[0].Width)
	assert.Equal(t, 90.0, lines[1].Width)
	assert.Len(t, placed, len(ws))
}

func TestBreakLinesEmpty(t *testing.T) {
	placed, lines := BreakLines(nil, BreakOptions{Width: 100, SpaceWidth: 10, MaxLines: 2})
	assert.Empty(t, placed)
	assert.Empty(t, lines)
}

func TestBreakLinesOverwideWordIsPlacedAlone(t *testing.T) {
	ws := words("a", "aaaaaaaaaaaa", "b")
	placed, lines := BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10})

	assert.Equal(t, [][]string{{"a"}, {"aaaaaaaaaaaa"}, {"b"}}, lineTexts(placed, lines))
	assert.Equal(t, 120.0, lines[1].Width)
}

func TestBreakLinesWidthConservation(t *testing.T) {
	ws := words("lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit", "sed", "do", "eiusmod", "tempor")
	for _, width := range []float64{60, 90, 120, 150, 200, 333} {
		placed, lines := BreakLines(ws, BreakOptions{Width: width, SpaceWidth: 10, ExtraWordSpacing: 2})
		for i, l := range lines {
			if l.Len() == 1 && placed[l.Start].Width > width {
				continue
			}
			assert.LessOrEqual(t, l.Width, width, "width=%g line=%d", width, i)
		}
		// 行按阅读顺序覆盖全部单词，区间首尾相接。
		next := 0
		for _, l := range lines {
			assert.Equal(t, next, l.Start)
			next = l.End
		}
		assert.Equal(t, len(ws), next)
	}
}

func TestBreakLinesAdjacencyRemovesGap(t *testing.T) {
	ws := words("(", "x", "y", ")")
	ws[0].Style = StylePrefix
	ws[3].Style = StyleSuffix
	_, lines := BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10})

	require.Len(t, lines, 1)
	// "(" 与 "x" 紧贴，"y" 与 ")" 紧贴，只有 x 与 y 之间有空格。
	assert.Equal(t, 50.0, lines[0].Width)
}

func TestBreakLinesExtraWordSpacing(t *testing.T) {
	ws := words("aa", "bb", "cc")
	_, lines := BreakLines(ws, BreakOptions{Width: 200, SpaceWidth: 10, ExtraWordSpacing: 5})
	require.Len(t, lines, 1)
	assert.Equal(t, 90.0, lines[0].Width)
}

func TestBreakLinesTruncatesWithEllipsis(t *testing.T) {
	ws := words("aaaa", "aaaa", "aaaa", "bbbb", "cccc", "dddd")
	placed, lines := BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10, MaxLines: 2, EllipsisWidth: 30})

	require.Len(t, lines, 2)
	assert.Equal(t, [][]string{{"aaaa", "aaaa"}, {"aaaa", Ellipsis}}, lineTexts(placed, lines))
	ellipsis := placed[len(placed)-1]
	assert.Equal(t, StyleSuffix, ellipsis.Style)
	assert.Equal(t, 3, ellipsis.Index)
	assert.Nil(t, ellipsis.Action)
	assert.Equal(t, 70.0, lines[1].Width)
	assert.Len(t, placed, 4)
}

func TestBreakLinesEllipsisInheritsTriggerStyle(t *testing.T) {
	ws := words("aaaa", "aaaa", "bbbb")
	ws[1].Color = Color{R: 200}
	ws[1].Decoration = DecorationUnderline
	ws[1].Action = &Action{Name: "x"}

	var trigger Word
	placed, lines := BreakLines(ws, BreakOptions{
		Width: 100, SpaceWidth: 10, MaxLines: 1, EllipsisWidth: 30,
		Ellipsis: func(w Word) Word {
			trigger = w
			return Word{Text: Ellipsis, Font: w.Font, Color: w.Color, Decoration: w.Decoration, Style: StyleSuffix, Width: 30}
		},
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "aaaa", trigger.Text)
	assert.Equal(t, 1, trigger.Index)
	ellipsis := placed[1]
	assert.Equal(t, Ellipsis, ellipsis.Text)
	assert.Equal(t, Color{R: 200}, ellipsis.Color)
	assert.Equal(t, DecorationUnderline, ellipsis.Decoration)
	assert.Nil(t, ellipsis.Action)
}

// 触发条件在当前行即将成为第 MaxLines 行时就检查剩余宽度，
// 因此即使下一个单词本身放得下，只要放不下“单词+省略号”也会截断。
func TestBreakLinesKeepsEarlyTruncationTrigger(t *testing.T) {
	ws := words("aaaa", "aaaa")
	placed, lines := BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10, MaxLines: 1, EllipsisWidth: 30})
	assert.Equal(t, [][]string{{"aaaa", Ellipsis}}, lineTexts(placed, lines))
}

func TestBreakLinesNoTruncationWhenContentFits(t *testing.T) {
	ws := words("aaaa", "aaaa", "aaaa")
	placed, lines := BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10, MaxLines: 2, EllipsisWidth: 30})
	assert.Equal(t, [][]string{{"aaaa", "aaaa"}, {"aaaa"}}, lineTexts(placed, lines))

	ws = words("aa", "bb")
	placed, lines = BreakLines(ws, BreakOptions{Width: 100, SpaceWidth: 10, MaxLines: 1, EllipsisWidth: 30})
	assert.Equal(t, [][]string{{"aa", "bb"}}, lineTexts(placed, lines))
}

func TestBreakLinesUnlimitedWhenMaxLinesNotPositive(t *testing.T) {
	ws := words("aaaa", "aaaa", "aaaa", "aaaa", "aaaa")
	for _, maxLines := range []int{0, -1} {
		placed, lines := BreakLines(ws, BreakOptions{Width: 50, SpaceWidth: 10, MaxLines: maxLines, EllipsisWidth: 30})
		assert.Len(t, lines, 5)
		assert.Len(t, placed, 5)
	}
}

func TestBreakLinesCountsActualEllipsisWidth(t *testing.T) {
	ws := words("aaaa", "bbbb", "cccc")
	placed, lines := BreakLines(ws, BreakOptions{
		Width: 100, SpaceWidth: 10, MaxLines: 1, EllipsisWidth: 30,
		Ellipsis: func(w Word) Word {
			return Word{Text: Ellipsis, Font: w.Font, Style: StyleSuffix, Width: 60}
		},
	})
	require.Len(t, lines, 1)
	assert.Equal(t, [][]string{{"aaaa", Ellipsis}}, lineTexts(placed, lines))
	// 行宽按省略号实际宽度 60 计算，而不是预留的 30。
	assert.Equal(t, 100.0, lines[0].Width)
}
