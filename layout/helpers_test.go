package layout

import (
	"errors"
	"unicode/utf8"
)

// fixedMetrics 是测试用的度量后端：10pt 字号下每个字符宽 10，行高 20，下降部 -5。
type fixedMetrics struct {
	calls int
}

func (m *fixedMetrics) Measure(text string, f Font) (Metrics, error) {
	m.calls++
	if f.Name == "broken" {
		return Metrics{}, errors.New("no such font")
	}
	scale := f.Size / 10
	return Metrics{
		Width:      float64(utf8.RuneCountInString(text)) * 10 * scale,
		LineHeight: 20 * scale,
		Ascender:   15 * scale,
		Descender:  -5 * scale,
		XHeight:    8 * scale,
	}, nil
}

var testFont = Font{Name: "test", Src: "embed:test", Size: 10}

func testDefaults() Defaults { return Defaults{Font: testFont} }

// words 构造一组普通单词，宽度为字符数 * 10。
func words(texts ...string) []Word {
	out := make([]Word, len(texts))
	for i, t := range texts {
		out[i] = Word{
			Index:     i,
			Text:      t,
			Font:      testFont,
			Width:     float64(utf8.RuneCountInString(t)) * 10,
			Height:    20,
			Ascender:  15,
			Descender: -5,
			XHeight:   8,
		}
	}
	return out
}

func texts(ws []Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Text
	}
	return out
}

func newTestLabel(phrases ...Phrase) (*Label, *fixedMetrics) {
	m := &fixedMetrics{}
	l := NewLabel(phrases, m)
	l.SetFont(testFont)
	return l, m
}

// recordingPointer 记录启用状态，并允许测试模拟点击。
type recordingPointer struct {
	handler  func(Point)
	enables  int
	disables int
}

func (p *recordingPointer) Enable(h func(Point)) {
	p.handler = h
	p.enables++
}

func (p *recordingPointer) Disable() {
	p.handler = nil
	p.disables++
}

type drawnWord struct {
	text string
	at   Point
}

type recordingTarget struct {
	words []drawnWord
	spans []DecorationSpan
}

func (r *recordingTarget) DrawWord(w Word, at Point) error {
	r.words = append(r.words, drawnWord{text: w.Text, at: at})
	return nil
}

func (r *recordingTarget) StrokeDecoration(d DecorationSpan) error {
	r.spans = append(r.spans, d)
	return nil
}
