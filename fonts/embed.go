package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Default 是未指定字体时使用的内置字体名。
const Default = "go-regular"

var builtin = map[string][]byte{
	"go-regular":      goregular.TTF,
	"go-bold":         gobold.TTF,
	"go-italic":       goitalic.TTF,
	"go-bolditalic":   gobolditalic.TTF,
	"go-mono":         gomono.TTF,
	"lm-roman":        lmroman10regular.TTF,
	"lm-roman-bold":   lmroman10bold.TTF,
	"lm-roman-italic": lmroman10italic.TTF,
	"lm-sans":         lmsans10regular.TTF,
	"lm-mono":         lmmono10regular.TTF,
}

// Names 返回所有内置字体名（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsBuiltin 报告 src 是否指向内置字体。
func IsBuiltin(src string) bool {
	_, ok := builtin[trimScheme(src)]
	return ok
}

// Load 返回字体的字节数据。src 可写为 "embed:go-bold"、"builtin:go-bold"、"go-bold"
// 或字体文件路径；相对路径以 baseDir 为根解析。
func Load(src, baseDir string) ([]byte, error) {
	if src == "" {
		src = Default
	}
	name := trimScheme(src)
	if data, ok := builtin[name]; ok {
		return data, nil
	}
	if strings.HasPrefix(src, "embed:") || strings.HasPrefix(src, "builtin:") || strings.HasPrefix(src, "built-in:") {
		return nil, fmt.Errorf("找不到内置字体 %s（可用：%s）", name, strings.Join(Names(), ", "))
	}
	path := src
	if !filepath.IsAbs(path) {
		if baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 embed:）", src)
		}
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func trimScheme(src string) string {
	for _, prefix := range []string{"embed:", "builtin:", "built-in:"} {
		src = strings.TrimPrefix(src, prefix)
	}
	return src
}
