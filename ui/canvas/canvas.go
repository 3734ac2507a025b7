// Package canvas provides the interactive poster canvas widget.
package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"poster-maker/internal/editor"
	"poster-maker/internal/render"
	"poster-maker/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// backdrop fills the area around the square render surface.
var backdrop = color.RGBA{40, 40, 40, 255}

// selectionColor outlines the active layer.
var selectionColor = color.RGBA{59, 130, 246, 255}

// PosterCanvas displays the live render surface and translates taps and
// drags into editor operations.
type PosterCanvas struct {
	widget.BaseWidget

	editor   *editor.Editor
	renderer *render.Renderer

	raster  *fynecanvas.Raster
	content *interactiveContent

	// Mapping from widget coordinates to logical scene units, captured by the
	// last draw pass.
	offsetX, offsetY float64
	factor           float64

	dragging bool
	detached bool
}

// NewPosterCanvas creates the canvas for an editor session.
func NewPosterCanvas(ed *editor.Editor, renderer *render.Renderer) *PosterCanvas {
	pc := &PosterCanvas{
		editor:   ed,
		renderer: renderer,
		factor:   1,
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(fyne.NewSize(320, 320))
	pc.content = newInteractiveContent(pc, pc.raster)

	ed.On(editor.EventSceneChanged, func(interface{}) { pc.Refresh() })
	ed.On(editor.EventSelectionChanged, func(interface{}) { pc.Refresh() })

	pc.ExtendBaseWidget(pc)
	return pc
}

// Detach stops the canvas from feeding viewport sizes to the scaler and tears
// the editor down. Async work finishing later becomes a no-op.
func (pc *PosterCanvas) Detach() {
	pc.detached = true
	pc.editor.Dispose()
}

// Refresh redraws the render surface.
func (pc *PosterCanvas) Refresh() {
	pc.raster.Refresh()
	pc.BaseWidget.Refresh()
}

// CheckResize feeds the widget size to the responsive scaler. It runs on the
// UI thread from the renderer's Layout, never from inside a draw pass, so the
// scene is only ever mutated between paints.
func (pc *PosterCanvas) CheckResize(size fyne.Size) {
	if pc.detached {
		return
	}
	pc.editor.Resize(float64(size.Width))
}

// draw renders the scene centered on the widget area. It only reads the
// scene; size changes are applied by CheckResize before the paint.
func (pc *PosterCanvas) draw(w, h int) image.Image {
	if w < 1 || h < 1 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	sc := pc.editor.Scene()
	surface := pc.renderer.RenderSurface(sc)
	side := surface.Bounds().Dx()

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{backdrop}, image.Point{}, draw.Src)

	ox := (w - side) / 2
	oy := (h - side) / 2
	if ox < 0 {
		ox = 0
	}
	if oy < 0 {
		oy = 0
	}
	draw.Draw(out, image.Rect(ox, oy, ox+side, oy+side), surface, image.Point{}, draw.Src)

	pc.offsetX, pc.offsetY = float64(ox), float64(oy)
	pc.factor = sc.ScaleFactor()

	if sel := pc.editor.Selection(); sel != nil {
		bounds := sel.Bounds().Scale(pc.factor)
		drawOutline(out,
			int(bounds.X)+ox, int(bounds.Y)+oy,
			int(bounds.Width), int(bounds.Height))
	}
	return out
}

// toLogical converts a widget position to logical scene units.
func (pc *PosterCanvas) toLogical(pos fyne.Position) geometry.Point2D {
	if pc.factor == 0 {
		return geometry.Point2D{}
	}
	return geometry.NewPoint2D(
		(float64(pos.X)-pc.offsetX)/pc.factor,
		(float64(pos.Y)-pc.offsetY)/pc.factor,
	)
}

// drawOutline draws a 1px selection rectangle with small margin.
func drawOutline(img *image.RGBA, x, y, w, h int) {
	x, y, w, h = x-2, y-2, w+4, h+4
	for i := 0; i <= w; i++ {
		img.Set(x+i, y, selectionColor)
		img.Set(x+i, y+h, selectionColor)
	}
	for i := 0; i <= h; i++ {
		img.Set(x, y+i, selectionColor)
		img.Set(x+w, y+i, selectionColor)
	}
}

// CreateRenderer implements fyne.Widget.
func (pc *PosterCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &posterCanvasRenderer{canvas: pc}
}

type posterCanvasRenderer struct {
	canvas *PosterCanvas
}

func (r *posterCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.CheckResize(size)
	r.canvas.content.Resize(size)
}

func (r *posterCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *posterCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *posterCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.content}
}

func (r *posterCanvasRenderer) Destroy() {}

// interactiveContent wraps the raster to receive tap and drag events.
type interactiveContent struct {
	widget.BaseWidget
	canvas *PosterCanvas
	raster *fynecanvas.Raster
}

func newInteractiveContent(pc *PosterCanvas, raster *fynecanvas.Raster) *interactiveContent {
	ic := &interactiveContent{canvas: pc, raster: raster}
	ic.ExtendBaseWidget(ic)
	return ic
}

func (ic *interactiveContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.raster)
}

func (ic *interactiveContent) MinSize() fyne.Size {
	return ic.raster.MinSize()
}

// Tapped selects the topmost layer under the cursor, or clears the selection.
func (ic *interactiveContent) Tapped(ev *fyne.PointEvent) {
	size := ic.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	hit := ic.canvas.editor.Scene().HitTest(ic.canvas.toLogical(ev.Position))
	if hit == nil {
		ic.canvas.editor.SelectLayer("")
		return
	}
	ic.canvas.editor.SelectLayer(hit.ID)
}

// Dragged repositions the active layer. History is recorded once at drag
// start, so the whole drag undoes as one action.
func (ic *interactiveContent) Dragged(ev *fyne.DragEvent) {
	pc := ic.canvas
	if !pc.dragging {
		if !pc.editor.BeginMove() {
			return
		}
		pc.dragging = true
	}
	if pc.factor == 0 {
		return
	}
	pc.editor.MoveBy(
		float64(ev.Dragged.DX)/pc.factor,
		float64(ev.Dragged.DY)/pc.factor,
	)
}

func (ic *interactiveContent) DragEnd() {
	ic.canvas.dragging = false
}
