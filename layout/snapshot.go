package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange 表示查询的行号或单词序号超出当前布局。
var ErrIndexOutOfRange = errors.New("layout: 索引越界")

// Snapshot 是一次布局计算的完整结果。每次重新计算都整体替换，之后只读。
type Snapshot struct {
	Size        Size           `json:"size"`
	Words       []Word         `json:"words"`
	Lines       []Line         `json:"lines"`
	Positions   []WordPosition `json:"positions"`
	Bounds      Rect           `json:"bounds"`
	ExtraHeight float64        `json:"extraHeight"` // 盒子高于内容时用于垂直居中的偏移
}

// LineCount 返回行数；nil 快照视为 0 行。
func (s *Snapshot) LineCount() int {
	if s == nil {
		return 0
	}
	return len(s.Lines)
}

// LineWords 返回第 i 行的单词切片。
func (s *Snapshot) LineWords(i int) ([]Word, error) {
	if i < 0 || i >= s.LineCount() {
		return nil, fmt.Errorf("%w: 行 %d（共 %d 行）", ErrIndexOutOfRange, i, s.LineCount())
	}
	line := s.Lines[i]
	return s.Words[line.Start:line.End], nil
}

// LineText 以单个空格连接第 i 行的单词文本。
func (s *Snapshot) LineText(i int) (string, error) {
	words, err := s.LineWords(i)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(words))
	for j, w := range words {
		parts[j] = w.Text
	}
	return strings.Join(parts, " "), nil
}

// Word 返回序号为 i 的单词。
func (s *Snapshot) Word(i int) (Word, error) {
	if s == nil || i < 0 || i >= len(s.Words) {
		return Word{}, fmt.Errorf("%w: 单词 %d", ErrIndexOutOfRange, i)
	}
	return s.Words[i], nil
}

// Origin 返回渲染时单词 i 的基线左端，已加上 ExtraHeight。
func (s *Snapshot) Origin(i int) Point {
	p := s.Positions[i]
	return Point{X: p.Left, Y: p.Bottom + s.ExtraHeight}
}

// Text 逐行返回文本，便于调试与测试。
func (s *Snapshot) Text() []string {
	out := make([]string, 0, s.LineCount())
	for i := range s.LineCount() {
		text, _ := s.LineText(i)
		out = append(out, text)
	}
	return out
}
