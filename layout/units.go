package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 长度单位：DSL 与配置文件中的尺寸可以带单位，度量后端各自使用 mm（canvas）或 px（raster）。

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // 无单位，按后端原生单位解释
	UnitMM
	UnitCM
	UnitIN
	UnitPT
	UnitPX
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

func (l Length) String() string { return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String() }

// Space 描述目标坐标空间：Native 是后端使用的单位，DPI 用于 px 与物理单位互换。
type Space struct {
	Native Unit
	DPI    float64
}

// MM 是 canvas 后端的坐标空间。
var MM = Space{Native: UnitMM, DPI: 96}

// Pixels 返回给定 DPI 下的像素坐标空间。
func Pixels(dpi float64) Space { return Space{Native: UnitPX, DPI: dpi} }

// In 把长度换算到目标坐标空间；无单位的值原样返回。
func (l Length) In(s Space) float64 {
	if l.Unit == UnitNone || l.Unit == s.Native {
		return l.Value
	}
	dpi := s.DPI
	if dpi <= 0 {
		dpi = 72
	}
	var mm float64
	switch l.Unit {
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * 25.4
	case UnitPT:
		mm = l.Value * PtToMm
	case UnitPX:
		mm = l.Value / dpi * 25.4
	}
	switch s.Native {
	case UnitPX:
		return mm / 25.4 * dpi
	case UnitPT:
		return mm * MmToPt
	case UnitCM:
		return mm / 10
	case UnitIN:
		return mm / 25.4
	default:
		return mm
	}
}

// Points 把长度换算为 pt（字号总是以 pt 表示）。
func (l Length) Points(dpi float64) float64 {
	if l.Unit == UnitNone {
		return l.Value
	}
	return l.In(Space{Native: UnitPT, DPI: dpi})
}

// ParseLength parses a length string such as "12pt", "3.5mm" or "10".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}
