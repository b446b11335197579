package layout

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler 丢弃所有日志，Enabled 返回 false 使调用方跳过格式化。
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(discardHandler{}))
}

// SetLogger 设置布局包使用的日志器，默认不输出任何内容。传入 nil 恢复静默。
//
// 使用的级别：
//   - slog.LevelDebug：重新分词、布局、截断与行数变化
//   - slog.LevelWarn：度量失败
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger { return loggerPtr.Load() }
