package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局快照与装饰线输出为 JSON，便于调试或可视化。
func WriteDebugJSON(snap *Snapshot, path string) error {
	if snap == nil {
		return nil
	}
	data, err := json.MarshalIndent(struct {
		*Snapshot
		Text        []string         `json:"text"`
		Decorations []DecorationSpan `json:"decorations,omitempty"`
	}{snap, snap.Text(), Decorations(snap)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
