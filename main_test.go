package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/richlabel/config"
	"github.com/ByLCY/richlabel/layout"
)

func TestTapListParses(t *testing.T) {
	var taps tapList
	require.NoError(t, taps.Set("1.5, 2"))
	require.NoError(t, taps.Set("3,4"))
	assert.Equal(t, tapList{{X: 1.5, Y: 2}, {X: 3, Y: 4}}, taps)
	assert.Equal(t, "1.5,2 3,4", taps.String())

	assert.Error(t, taps.Set("1"))
	assert.Error(t, taps.Set("a,2"))
	assert.Error(t, taps.Set("1,b"))
}

func newTestApp(t *testing.T, format, src string) *app {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "label.label")
	require.NoError(t, os.WriteFile(input, []byte(src), 0o644))

	cfg := config.Default()
	cfg.Format = format
	cfg.Width = "60mm"
	cfg.Height = "20mm"
	cfg.Output = filepath.Join(dir, "out", "label."+format)
	cfg.Debug = filepath.Join(dir, "out", "label.json")
	require.NoError(t, cfg.Validate())

	backend, err := newBackend(cfg, dir)
	require.NoError(t, err)
	return &app{
		cfg:     cfg,
		input:   input,
		data:    map[string]any{"who": "Ada"},
		backend: backend,
		pointer: &scriptedPointer{},
	}
}

func TestRunWritesOutputs(t *testing.T) {
	for _, format := range []string{config.FormatPDF, config.FormatSVG, config.FormatPNG} {
		t.Run(format, func(t *testing.T) {
			a := newTestApp(t, format, `label { phrase "Hello ${who}" underline }`)
			require.NoError(t, a.run())

			out, err := os.ReadFile(a.cfg.Output)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			_, err = os.Stat(a.cfg.Debug)
			assert.NoError(t, err)

			line, err := a.label.Line(0)
			require.NoError(t, err)
			assert.Equal(t, "Hello Ada", line)
		})
	}
}

func TestReloadKeepsLabelWhenStyleUnchanged(t *testing.T) {
	a := newTestApp(t, config.FormatPDF, "label {\n  size: 10pt\n  phrase \"one\"\n}")
	require.NoError(t, a.run())
	first := a.label

	require.NoError(t, os.WriteFile(a.input, []byte("label {\n  size: 10pt\n  phrase \"two words\"\n}"), 0o644))
	require.NoError(t, a.reload())
	assert.Same(t, first, a.label)
	line, err := a.label.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "two words", line)

	require.NoError(t, os.WriteFile(a.input, []byte("label {\n  size: 20pt\n  phrase \"two words\"\n}"), 0o644))
	require.NoError(t, a.reload())
	assert.NotSame(t, first, a.label)
}

func TestScriptedPointerReplaysTaps(t *testing.T) {
	a := newTestApp(t, config.FormatPDF, `label { phrase "tap" action go }`)
	require.NoError(t, a.run())
	require.NotNil(t, a.pointer.handler)

	var got []layout.Point
	a.pointer.handler = func(p layout.Point) { got = append(got, p) }
	a.pointer.replay([]layout.Point{{X: 1, Y: 2}})
	assert.Equal(t, []layout.Point{{X: 1, Y: 2}}, got)
}

func TestRunReportsMissingLabel(t *testing.T) {
	a := newTestApp(t, config.FormatPDF, `label Only { phrase "x" }`)
	a.labelName = "Other"
	assert.Error(t, a.run())
}
