package painting

import (
	"image"
	"math"
)

// mosaicBlockSize is the tile side of the mosaic effect
const mosaicBlockSize = 8

type fragment struct {
	x, y  int
	u, v  int
	alpha float64
}

type drawState struct {
	call     DrawCall
	source   *softTexture
	mask     *softTexture
	target   *softTexture
	backdrop *softTexture
	blocks   map[image.Point]rgba
}

type kernel struct {
	shade         func(state *drawState, frag fragment) rgba
	needsBackdrop bool
}

var kernels = map[string]kernel{
	ShaderBrush:                  {shade: shadeBrush},
	ShaderBrushLight:             {shade: shadeBrushLight},
	ShaderMosaicBrush:            {shade: shadeBrush},
	ShaderCompositeWithMask:      {shade: shadeCompositeWithMask},
	ShaderCompositeWithMaskLight: {shade: shadeCompositeWithMaskLight},
	ShaderCompositeWithMosaic:    {shade: shadeCompositeWithMosaic, needsBackdrop: true},
	ShaderBlitWithMask:           {shade: shadeBlitWithMask},
	ShaderBlitWithMaskLight:      {shade: shadeBlitWithMaskLight},
	ShaderBlitWithMosaic:         {shade: shadeBlitWithMosaic},
	ShaderBlit:                   {shade: shadeBlit},
	ShaderNonPremultipliedBlit:   {shade: shadeBlit},
}

func scale(v int, by int) int {
	return (v*by + 127) / 255
}

// shadeBrush writes the stamp coverage as a premultiplied white mask
func shadeBrush(state *drawState, frag fragment) rgba {
	a := int(math.Round(float64(state.source.texel(frag.u, frag.v).a) * frag.alpha))
	return rgba{a, a, a, a}
}

// shadeBrushLight softens the stamp edge so the glow fades out
func shadeBrushLight(state *drawState, frag fragment) rgba {
	c := shadeBrush(state, frag)
	a := scale(c.a, c.a)
	return rgba{a, a, a, a}
}

func maskedColor(state *drawState, m int) rgba {
	c := state.call.Color
	return rgba{int(c.R), int(c.G), int(c.B), scale(int(c.A), m)}
}

func lightColor(state *drawState, m int) rgba {
	c := maskedColor(state, m)
	w := scale(m, m)
	c.r += scale(255-c.r, w)
	c.g += scale(255-c.g, w)
	c.b += scale(255-c.b, w)
	return c
}

func mosaicColor(state *drawState, from *softTexture, x int, y int, m int) rgba {
	c := maskedColor(state, m)
	avg := state.block(from, x, y)
	c.r, c.g, c.b = avg.r, avg.g, avg.b
	return c
}

func shadeCompositeWithMask(state *drawState, frag fragment) rgba {
	return maskedColor(state, state.source.texel(frag.u, frag.v).a)
}

func shadeCompositeWithMaskLight(state *drawState, frag fragment) rgba {
	return lightColor(state, state.source.texel(frag.u, frag.v).a)
}

func shadeCompositeWithMosaic(state *drawState, frag fragment) rgba {
	return mosaicColor(state, state.backdrop, frag.x, frag.y, state.source.texel(frag.u, frag.v).a)
}

func shadeBlit(state *drawState, frag fragment) rgba {
	return state.source.texel(frag.u, frag.v)
}

// blitWithMask variants show the canvas with the pending stroke on top
func shadeBlitWithMask(state *drawState, frag fragment) rgba {
	stroke := maskedColor(state, state.mask.texel(frag.u, frag.v).a)
	return blend(stroke, state.source.texel(frag.u, frag.v), BlendComposite)
}

func shadeBlitWithMaskLight(state *drawState, frag fragment) rgba {
	stroke := lightColor(state, state.mask.texel(frag.u, frag.v).a)
	return blend(stroke, state.source.texel(frag.u, frag.v), BlendComposite)
}

func shadeBlitWithMosaic(state *drawState, frag fragment) rgba {
	stroke := mosaicColor(state, state.source, frag.u, frag.v, state.mask.texel(frag.u, frag.v).a)
	return blend(stroke, state.source.texel(frag.u, frag.v), BlendComposite)
}

// block returns the average colour of the mosaic tile containing x, y
func (state *drawState) block(from *softTexture, x int, y int) rgba {
	if !from.live() {
		return rgba{}
	}
	key := image.Point{x / mosaicBlockSize, y / mosaicBlockSize}
	if avg, ok := state.blocks[key]; ok {
		return avg
	}

	tile := image.Rect(0, 0, mosaicBlockSize, mosaicBlockSize).
		Add(key.Mul(mosaicBlockSize)).
		Intersect(from.bounds())
	var sum rgba
	for ty := tile.Min.Y; ty < tile.Max.Y; ty++ {
		for tx := tile.Min.X; tx < tile.Max.X; tx++ {
			c := from.texel(tx, ty)
			sum.r += c.r
			sum.g += c.g
			sum.b += c.b
			sum.a += c.a
		}
	}
	n := tile.Dx() * tile.Dy()
	avg := rgba{}
	if n > 0 {
		avg = rgba{(sum.r + n/2) / n, (sum.g + n/2) / n, (sum.b + n/2) / n, (sum.a + n/2) / n}
	}

	if state.blocks == nil {
		state.blocks = make(map[image.Point]rgba)
	}
	state.blocks[key] = avg
	return avg
}
