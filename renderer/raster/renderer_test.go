package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/richlabel/layout"
)

var body = layout.Font{Name: "go-regular", Src: "embed:go-regular", Size: 12}

func TestMeasureInPixels(t *testing.T) {
	r := New(Options{DPI: 72})
	m, err := r.Measure("hello world", body)
	require.NoError(t, err)
	assert.Greater(t, m.Width, 0.0)
	assert.Greater(t, m.Ascender, 0.0)
	assert.Less(t, m.Descender, 0.0)
	assert.Greater(t, m.LineHeight, 0.0)
	assert.Greater(t, m.XHeight, 0.0)
	assert.Less(t, m.XHeight, m.Ascender)

	hi := New(Options{DPI: 144})
	m2, err := hi.Measure("hello world", body)
	require.NoError(t, err)
	assert.InEpsilon(t, 2*m.Width, m2.Width, 1e-2)

	assert.Equal(t, layout.Pixels(144), hi.Space())
	assert.Equal(t, layout.Pixels(DefaultDPI), New(Options{}).Space())
}

func TestMeasureIsStable(t *testing.T) {
	r := New(Options{})
	a, err := r.Measure("stable", body)
	require.NoError(t, err)
	b, err := r.Measure("stable", body)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	empty, err := r.Measure("", body)
	require.NoError(t, err)
	assert.Zero(t, empty.Width)
}

func TestMissingFont(t *testing.T) {
	missing := layout.Font{Name: "nope", Src: "nope.ttf", Size: 12}
	m, err := New(Options{}).Measure("x", missing)
	require.NoError(t, err)
	assert.Greater(t, m.Width, 0.0)

	_, err = New(Options{Strict: true}).Measure("x", missing)
	assert.Error(t, err)
}

func renderSample(t *testing.T, r *Renderer) image.Image {
	t.Helper()
	l := layout.NewLabel([]layout.Phrase{
		layout.NewPhrase("Hello"),
		layout.NewPhrase("world", layout.WithDecoration(layout.DecorationUnderline), layout.WithColor(layout.Color{R: 200})),
	}, r)
	snap, err := l.Layout(layout.Size{Width: 200, Height: 40})
	require.NoError(t, err)
	require.Equal(t, 1, snap.LineCount())

	out, err := r.Render(snap)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 40), img.Bounds())
	return img
}

func TestRenderPNG(t *testing.T) {
	img := renderSample(t, New(Options{}))

	painted := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				painted++
			}
		}
	}
	assert.Greater(t, painted, 0)
	// 透明背景：角落保持空白。
	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestRenderBackground(t *testing.T) {
	white := layout.Color{R: 255, G: 255, B: 255}
	img := renderSample(t, New(Options{Background: &white}))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBAModel.Convert(img.At(199, 0)))
}

func TestRenderRejectsInvalidInput(t *testing.T) {
	r := New(Options{})
	_, err := r.Render(nil)
	assert.Error(t, err)
	_, err = r.Render(&layout.Snapshot{})
	assert.Error(t, err)
}

func TestToRGBAClamps(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 12, A: 255}, toRGBA(layout.Color{R: 300, G: -4, B: 12}))
}
