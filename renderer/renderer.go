package renderer

import "github.com/ByLCY/richlabel/layout"

// Renderer 将布局快照输出为最终文件，例如 PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(snap *layout.Snapshot) ([]byte, error)
}

// Backend 同时提供文本度量与渲染。同一个 Backend 的度量结果与绘制结果一致，
// 因此 Label 应使用与最终渲染相同的 Backend 进行排版。
type Backend interface {
	layout.MetricsProvider
	Renderer
	// Space 返回度量结果所在的坐标空间。
	Space() layout.Space
}
