package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将短语文本或动作名中的 ${path.to.value} 替换为 data 中的值。
// data 为空或路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := Lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// step 是路径中的一段：对象键或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// Lookup 按 a.b[0].c 形式的路径在 JSON 解码后的数据中取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := parsePath(path)
	if !ok {
		return nil, false
	}
	current := data
	for _, s := range steps {
		switch c := current.(type) {
		case map[string]any:
			if s.isIdx {
				return nil, false
			}
			v, ok := c[s.key]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			if !s.isIdx || s.index < 0 || s.index >= len(c) {
				return nil, false
			}
			current = c[s.index]
		default:
			return nil, false
		}
	}
	return current, true
}

func parsePath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, bracket := strings.Cut(segment, "[")
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if !bracket {
			if name == "" {
				return nil, false
			}
			continue
		}
		for _, part := range strings.Split("["+rest, "[")[1:] {
			idx, err := strconv.Atoi(strings.TrimSuffix(part, "]"))
			if err != nil || !strings.HasSuffix(part, "]") {
				return nil, false
			}
			steps = append(steps, step{index: idx, isIdx: true})
		}
	}
	return steps, true
}
