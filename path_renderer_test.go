package painting

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drawRecorder keeps the draw calls and fails on anything else
type drawRecorder struct {
	Device
	calls []DrawCall
}

func (recorder *drawRecorder) Draw(call DrawCall) {
	recorder.calls = append(recorder.calls, call)
}

func (recorder *drawRecorder) quads() []Quad {
	var quads []Quad
	for _, call := range recorder.calls {
		quads = append(quads, call.Quads...)
	}
	return quads
}

func TestStampPathRendererSpacing(t *testing.T) {
	renderer := &StampPathRenderer{Brush: &Brush{Size: 10, Spacing: 0.5}}
	recorder := &drawRecorder{}
	var state RenderState

	bounds := renderer.RenderPath(recorder, DrawCall{}, NewPath(color.NRGBA{}, image.Pt(0, 0), image.Pt(100, 0)), &state)

	require.Len(t, recorder.calls, 1)
	quads := recorder.quads()
	assert.Len(t, quads, 21)
	assert.Equal(t, 21, state.Count())
	assert.Equal(t, image.Rect(-5, -5, 5, 5), quads[0].Rect)
	assert.Equal(t, image.Rect(95, -5, 105, 5), quads[20].Rect)
	assert.Equal(t, image.Rect(-5, -5, 105, 5), bounds)
}

func TestStampPathRendererContinuesAcrossCalls(t *testing.T) {
	renderer := &StampPathRenderer{Brush: &Brush{Size: 10, Spacing: 0.5}}
	recorder := &drawRecorder{}
	var state RenderState

	renderer.RenderPath(recorder, DrawCall{}, NewPath(color.NRGBA{}, image.Pt(0, 0), image.Pt(50, 0)), &state)
	assert.Equal(t, 11, state.Count())
	renderer.RenderPath(recorder, DrawCall{}, NewPath(color.NRGBA{}, image.Pt(100, 0)), &state)

	quads := recorder.quads()
	require.Len(t, quads, 21)
	for i, quad := range quads {
		assert.Equal(t, i*5-5, quad.Rect.Min.X, "stamp %d", i)
	}
}

func TestStampPathRendererSinglePoint(t *testing.T) {
	renderer := &StampPathRenderer{Brush: &Brush{Size: 20}}
	recorder := &drawRecorder{}
	var state RenderState

	point := &Path{Points: []Point{{X: 20, Y: 20, Alpha: 0.5}}}
	bounds := renderer.RenderPath(recorder, DrawCall{Program: nullProgram(ShaderBrush)}, point, &state)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, nullProgram(ShaderBrush), recorder.calls[0].Program)
	require.Len(t, recorder.calls[0].Quads, 1)
	assert.Equal(t, 0.5, recorder.calls[0].Quads[0].Alpha)
	assert.Equal(t, image.Rect(10, 10, 30, 30), bounds)
}

func TestStampPathRendererEmptyPath(t *testing.T) {
	renderer := &StampPathRenderer{}
	recorder := &drawRecorder{}
	var state RenderState

	assert.True(t, renderer.RenderPath(recorder, DrawCall{}, nil, &state).Empty())
	assert.True(t, renderer.RenderPath(recorder, DrawCall{}, &Path{}, &state).Empty())
	assert.Empty(t, recorder.calls)
}
