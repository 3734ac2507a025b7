// Package render rasterizes a scene at any pixel size.
//
// The live canvas and the exporter share this renderer; the only difference
// between an on-screen pass and an export pass is the target pixel size.
// Rendering the same scene at the same size is pixel-deterministic.
package render

import (
	"image"
	"image/draw"
	"strings"

	"poster-maker/internal/fonts"
	"poster-maker/internal/scene"
	"poster-maker/pkg/geometry"

	"github.com/fogleman/gg"
)

// lineSpacing is the line height multiplier for multi-line text.
const lineSpacing = 1.2

// Renderer draws scenes using faces from a font registry.
type Renderer struct {
	fonts *fonts.Registry
}

// New creates a renderer.
func New(reg *fonts.Registry) *Renderer {
	return &Renderer{fonts: reg}
}

// RenderSurface renders the scene at its current live surface size.
func (r *Renderer) RenderSurface(s *scene.Scene) *image.RGBA {
	return r.Render(s, int(s.Surface))
}

// Render draws the full scene at the given square pixel size. The scale
// factor is derived from sizePx alone, so output pixels are independent of
// the live surface size.
func (r *Renderer) Render(s *scene.Scene, sizePx int) *image.RGBA {
	if sizePx < 1 {
		sizePx = 1
	}
	dc := gg.NewContext(sizePx, sizePx)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	factor := float64(sizePx) / s.Reference
	for _, l := range s.Layers {
		r.drawLayer(dc, l, factor, sizePx)
	}
	return toRGBA(dc.Image())
}

func (r *Renderer) drawLayer(dc *gg.Context, l *scene.Layer, factor float64, sizePx int) {
	switch l.Kind {
	case scene.KindBackground:
		r.drawBackground(dc, l, sizePx)
	case scene.KindIdentityContact:
		r.drawContact(dc, l, factor)
	case scene.KindIdentitySocialIcon, scene.KindUserImage:
		r.drawBitmap(dc, l.Bitmap, l.Bounds().Scale(factor), l.NaturalSize)
	case scene.KindIdentityMessage, scene.KindUserText:
		r.drawText(dc, l, factor)
	}
}

// drawBackground scales the template image to exactly fill the surface width.
// With no bitmap the canvas stays white, same as an absent template.
func (r *Renderer) drawBackground(dc *gg.Context, l *scene.Layer, sizePx int) {
	if l.Bitmap == nil || l.NaturalSize.Width <= 0 {
		return
	}
	k := float64(sizePx) / l.NaturalSize.Width
	dc.Push()
	dc.Scale(k, k)
	dc.DrawImage(l.Bitmap, 0, 0)
	dc.Pop()
}

// drawBitmap draws an image into the target pixel rect, or a placeholder
// region when the bitmap failed to decode.
func (r *Renderer) drawBitmap(dc *gg.Context, img image.Image, target geometry.Rect, natural geometry.Size) {
	if target.Width <= 0 || target.Height <= 0 {
		return
	}
	if img == nil || natural.Width <= 0 || natural.Height <= 0 {
		dc.SetHexColor("#dddddd")
		dc.DrawRectangle(target.X, target.Y, target.Width, target.Height)
		dc.Fill()
		dc.SetHexColor("#999999")
		dc.SetLineWidth(1)
		dc.DrawRectangle(target.X, target.Y, target.Width, target.Height)
		dc.Stroke()
		return
	}
	dc.Push()
	dc.Translate(target.X, target.Y)
	dc.Scale(target.Width/natural.Width, target.Height/natural.Height)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// drawContact draws the phone icon with the number alongside.
func (r *Renderer) drawContact(dc *gg.Context, l *scene.Layer, factor float64) {
	pos := l.Position.Scale(factor)
	iconW := scene.ContactIconWidth * factor
	iconH := iconW
	if l.NaturalSize.Width > 0 {
		iconH = iconW * l.NaturalSize.Height / l.NaturalSize.Width
	}
	r.drawBitmap(dc, l.Bitmap, geometry.NewRect(pos.X, pos.Y, iconW, iconH), l.NaturalSize)

	style := scene.DefaultTextStyle()
	if l.Style != nil {
		style = *l.Style
	}
	textW, textH := r.drawStyledText(dc, l.Text, style,
		geometry.NewPoint2D(pos.X+scene.ContactTextOffset*factor, pos.Y), factor)

	// Keep the hit-test cache current: icon plus text extent, in logical units.
	l.Size = geometry.NewSize(
		scene.ContactTextOffset+textW/factor,
		maxf(iconH, textH)/factor,
	)
}

// drawText draws a user text or message layer and refreshes its measured
// size cache.
func (r *Renderer) drawText(dc *gg.Context, l *scene.Layer, factor float64) {
	style := scene.DefaultTextStyle()
	if l.Style != nil {
		style = *l.Style
	}
	topLeft := l.Position.Scale(factor)
	if l.Kind == scene.KindIdentityMessage {
		// Bottom-right anchored; measure first to find the top-left corner.
		w, h := r.measureBlock(dc, l.Text, style, factor)
		topLeft.X -= w
		topLeft.Y -= h
	}
	w, h := r.drawStyledText(dc, l.Text, style, topLeft, factor)
	l.Size = geometry.NewSize(w/factor, h/factor)
}

// measureBlock returns the pixel size of a text block without drawing it.
func (r *Renderer) measureBlock(dc *gg.Context, text string, style scene.TextStyle, factor float64) (float64, float64) {
	sizePx := style.Size * factor
	dc.SetFontFace(r.fonts.Face(style.FontFamily, sizePx))
	lines := strings.Split(text, "\n")
	var blockW float64
	for _, line := range lines {
		w, _ := dc.MeasureString(line)
		if w > blockW {
			blockW = w
		}
	}
	return blockW, sizePx * lineSpacing * float64(len(lines))
}

// drawStyledText draws a text block with stroke-before-fill legibility
// outlining, synthetic bold/italic, underline, and per-line alignment.
// It returns the block's pixel size.
func (r *Renderer) drawStyledText(dc *gg.Context, text string, style scene.TextStyle, topLeft geometry.Point2D, factor float64) (float64, float64) {
	sizePx := style.Size * factor
	if sizePx <= 0 {
		return 0, 0
	}
	dc.SetFontFace(r.fonts.Face(style.FontFamily, sizePx))

	lines := strings.Split(text, "\n")
	lineH := sizePx * lineSpacing
	widths := make([]float64, len(lines))
	var blockW float64
	for i, line := range lines {
		widths[i], _ = dc.MeasureString(line)
		if widths[i] > blockW {
			blockW = widths[i]
		}
	}
	blockH := lineH * float64(len(lines))

	if style.Italic {
		dc.Push()
		dc.ShearAbout(-0.25, 0, topLeft.X+blockW/2, topLeft.Y+blockH/2)
		defer dc.Pop()
	}

	for i, line := range lines {
		x := topLeft.X
		switch style.Align {
		case scene.AlignCenter:
			x += (blockW - widths[i]) / 2
		case scene.AlignRight:
			x += blockW - widths[i]
		}
		top := topLeft.Y + float64(i)*lineH

		// Stroke painted beneath the fill keeps text legible over arbitrary
		// backgrounds.
		if style.StrokeWidth > 0 && style.StrokeColor != "" {
			dc.SetHexColor(style.StrokeColor)
			sw := style.StrokeWidth * factor
			for _, off := range strokeOffsets {
				dc.DrawStringAnchored(line, x+off.X*sw, top+off.Y*sw, 0, 1)
			}
		}

		dc.SetHexColor(style.Fill)
		dc.DrawStringAnchored(line, x, top, 0, 1)
		if style.Bold {
			// Synthetic bold: a second strike half a stem-width over.
			dc.DrawStringAnchored(line, x+sizePx/24, top, 0, 1)
		}
		if style.Underline {
			dc.SetLineWidth(maxf(1, sizePx/16))
			y := top + sizePx*1.08
			dc.DrawLine(x, y, x+widths[i], y)
			dc.Stroke()
		}
	}
	return blockW, blockH
}

// strokeOffsets are unit-circle offsets for the stroke pass.
var strokeOffsets = []geometry.Point2D{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 0.707, Y: 0.707}, {X: -0.707, Y: 0.707},
	{X: 0.707, Y: -0.707}, {X: -0.707, Y: -0.707},
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
