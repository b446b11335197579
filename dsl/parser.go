package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	labelLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|px)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
		{Name: "Symbol", Pattern: `[:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(labelLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
		participle.UseLookahead(2),
	)
)

// Document is the root AST node of a .label file: one or more label blocks.
type Document struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Labels []*Label       `parser:"Newline* ( @@ Newline* )+"`
}

// Label is a named block of settings and phrases.
type Label struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"'label' @Ident?"`
	Statements []*Statement   `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is either a phrase or a label-level setting.
type Statement struct {
	Phrase  *Phrase  `parser:"  @@"`
	Setting *Setting `parser:"| @@"`
}

// Setting uses colon syntax (key: value).
type Setting struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a setting value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Raw returns the value as written, with strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// Phrase is `phrase "text" [options...]`.
type Phrase struct {
	Pos     lexer.Position  `parser:"" json:"-"`
	Text    StringLiteral   `parser:"'phrase' @String"`
	Options []*PhraseOption `parser:"@@*"`
}

// PhraseOption is one styling option of a phrase.
type PhraseOption struct {
	Size       *string `parser:"  'size' @Number"`
	Color      *string `parser:"| 'color' @Color"`
	Font       *Name   `parser:"| 'font' @(Ident | String)"`
	Action     *Name   `parser:"| 'action' @(Ident | String)"`
	Decoration *string `parser:"| @('underline' | 'strikethrough' | 'line-through' | 'plain' | 'none')"`
	Style      *string `parser:"| @('prefix' | 'suffix' | 'word')"`
}

// Setting looks up the last setting with the given key.
func (l *Label) Setting(key string) (*Setting, bool) {
	var found *Setting
	for _, st := range l.Statements {
		if st.Setting != nil && strings.EqualFold(st.Setting.Key, key) {
			found = st.Setting
		}
	}
	return found, found != nil
}

// Phrases returns the phrase statements in order.
func (l *Label) Phrases() []*Phrase {
	var out []*Phrase
	for _, st := range l.Statements {
		if st.Phrase != nil {
			out = append(out, st.Phrase)
		}
	}
	return out
}

// Find returns the label with the given name, or the first label when name is empty.
func (d *Document) Find(name string) (*Label, error) {
	if d == nil || len(d.Labels) == 0 {
		return nil, fmt.Errorf("文档中缺少 label 段落")
	}
	if name == "" {
		return d.Labels[0], nil
	}
	for _, l := range d.Labels {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("找不到 label %s", name)
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Name accepts either a bare identifier or a quoted string.
type Name string

// Capture implements participle.Capture.
func (n *Name) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("name capture requires value")
	}
	v := values[0]
	if strings.HasPrefix(v, `"`) {
		unquoted, err := strconv.Unquote(v)
		if err != nil {
			return err
		}
		v = unquoted
	}
	*n = Name(v)
	return nil
}

// Parse parses label markup from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses label markup from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
