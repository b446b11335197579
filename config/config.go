// Package config 读取命令行工具的配置文件。YAML 与 TOML 按扩展名区分，
// 长度字段可带单位（pt、mm、cm、in、px），无单位时按渲染后端的原生单位解释。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/richlabel/layout"
)

// 输出格式。
const (
	FormatPDF = "pdf"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Config 汇总一次渲染所需的配置。命令行参数优先于配置文件。
type Config struct {
	Width      string  `yaml:"width" toml:"width"`
	Height     string  `yaml:"height" toml:"height"`
	Format     string  `yaml:"format" toml:"format"`
	DPI        float64 `yaml:"dpi" toml:"dpi"`
	Output     string  `yaml:"output" toml:"output"`
	Debug      string  `yaml:"debug" toml:"debug"`
	Outline    bool    `yaml:"outline" toml:"outline"`
	Background string  `yaml:"background" toml:"background"`
	Strict     bool    `yaml:"strict" toml:"strict"`

	Label Label             `yaml:"label" toml:"label"`
	// Fonts 注册额外字体：名字 → 文件路径，在 DSL 中以 built-in:<名字> 引用。
	Fonts map[string]string `yaml:"fonts" toml:"fonts"`
	Meta  Meta              `yaml:"meta" toml:"meta"`
}

// Label 是 DSL 未声明时使用的标签样式。
type Label struct {
	Font        string `yaml:"font" toml:"font"`
	Size        string `yaml:"size" toml:"size"`
	Color       string `yaml:"color" toml:"color"`
	Decoration  string `yaml:"decoration" toml:"decoration"`
	Align       string `yaml:"align" toml:"align"`
	MaxLines    int    `yaml:"max-lines" toml:"max-lines"`
	WordSpacing string `yaml:"word-spacing" toml:"word-spacing"`
	LineSpacing string `yaml:"line-spacing" toml:"line-spacing"`
}

// Meta 写入 PDF 文档信息。
type Meta struct {
	Title    string   `yaml:"title" toml:"title"`
	Subject  string   `yaml:"subject" toml:"subject"`
	Keywords []string `yaml:"keywords" toml:"keywords"`
	Author   string   `yaml:"author" toml:"author"`
	Creator  string   `yaml:"creator" toml:"creator"`
}

// Default 返回内置默认配置。
func Default() Config {
	return Config{
		Width:  "80mm",
		Format: FormatPDF,
		DPI:    96,
		Output: "output/label.pdf",
		Meta:   Meta{Creator: "richlabel"},
	}
}

// Load 在默认配置之上读取 path。字体路径按配置文件所在目录解析。
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	if err := Decode(&cfg, data, filepath.Ext(path)); err != nil {
		return cfg, fmt.Errorf("解析配置 %s 失败: %w", path, err)
	}
	dir := filepath.Dir(path)
	for name, p := range cfg.Fonts {
		if p != "" && !filepath.IsAbs(p) {
			cfg.Fonts[name] = filepath.Join(dir, p)
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("配置 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// Decode 按扩展名（.yaml/.yml/.toml）把 data 合并到 cfg。未知字段视为错误。
func Decode(cfg *Config, data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	default:
		return fmt.Errorf("不支持的配置格式 %q（可用 .yaml、.yml、.toml）", ext)
	}
}

// Validate 检查格式、DPI 与所有长度、颜色字段能否解析。
func (c Config) Validate() error {
	switch c.Format {
	case FormatPDF, FormatSVG, FormatPNG:
	default:
		return fmt.Errorf("format 只能是 pdf、svg 或 png，得到 %q", c.Format)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi 必须为正数，得到 %g", c.DPI)
	}
	if _, err := c.Box(layout.MM); err != nil {
		return err
	}
	if _, err := c.Style(layout.MM); err != nil {
		return err
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// Space 返回输出格式对应的坐标空间。
func (c Config) Space() layout.Space {
	if c.Format == FormatPNG {
		return layout.Pixels(c.DPI)
	}
	return layout.MM
}

// Box 把宽高换算到目标坐标空间。高度为空表示按内容自适应。
func (c Config) Box(space layout.Space) (layout.Size, error) {
	if space.DPI <= 0 {
		space.DPI = c.DPI
	}
	w, err := layout.ParseLength(c.Width)
	if err != nil {
		return layout.Size{}, fmt.Errorf("width: %w", err)
	}
	if w.Value <= 0 {
		return layout.Size{}, fmt.Errorf("width 必须为正数，得到 %s", w)
	}
	size := layout.Size{Width: w.In(space)}
	if strings.TrimSpace(c.Height) != "" {
		h, err := layout.ParseLength(c.Height)
		if err != nil {
			return layout.Size{}, fmt.Errorf("height: %w", err)
		}
		if h.Value < 0 {
			return layout.Size{}, fmt.Errorf("height 不能为负数，得到 %s", h)
		}
		size.Height = h.In(space)
	}
	return size, nil
}

// Style 把 label 段落转换为标签默认样式。
func (c Config) Style(space layout.Space) (layout.Style, error) {
	if space.DPI <= 0 {
		space.DPI = c.DPI
	}
	l := c.Label
	style := layout.Style{Font: layout.DefaultFont, Color: layout.Black, MaxLines: l.MaxLines}
	if l.Font != "" {
		style.Font = layout.FontNamed(l.Font, style.Font.Size)
	}
	if l.Size != "" {
		size, err := layout.ParseLength(l.Size)
		if err != nil {
			return style, fmt.Errorf("label.size: %w", err)
		}
		style.Font.Size = size.Points(space.DPI)
	}
	var err error
	if l.Color != "" {
		if style.Color, err = layout.ParseColor(l.Color); err != nil {
			return style, fmt.Errorf("label.color: %w", err)
		}
	}
	if l.Decoration != "" {
		if style.Decoration, err = layout.ParseDecoration(l.Decoration); err != nil {
			return style, fmt.Errorf("label.decoration: %w", err)
		}
	}
	if l.Align != "" {
		if style.Align, err = layout.ParseAlignment(l.Align); err != nil {
			return style, fmt.Errorf("label.align: %w", err)
		}
	}
	if style.ExtraWordSpacing, err = spacing(l.WordSpacing, space); err != nil {
		return style, fmt.Errorf("label.word-spacing: %w", err)
	}
	if style.ExtraLineSpacing, err = spacing(l.LineSpacing, space); err != nil {
		return style, fmt.Errorf("label.line-spacing: %w", err)
	}
	return style, nil
}

// BackgroundColor 解析背景色；未设置时返回 nil。
func (c Config) BackgroundColor() (*layout.Color, error) {
	if c.Background == "" {
		return nil, nil
	}
	col, err := layout.ParseColor(c.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	return &col, nil
}

// Set 以 key=value 的形式覆盖单个字段，供命令行参数使用。
func (c *Config) Set(key, value string) error {
	switch key {
	case "width":
		c.Width = value
	case "height":
		c.Height = value
	case "format":
		c.Format = strings.ToLower(value)
	case "dpi":
		dpi, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("dpi: %w", err)
		}
		c.DPI = dpi
	case "out", "output":
		c.Output = value
	case "debug":
		c.Debug = value
	default:
		return fmt.Errorf("未知的配置项 %s", key)
	}
	return nil
}

func spacing(raw string, space layout.Space) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.In(space), nil
}
