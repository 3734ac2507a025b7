package canvas

import (
	"testing"

	"poster-maker/internal/assets"
	"poster-maker/internal/editor"
	"poster-maker/internal/fonts"
	"poster-maker/internal/render"
	"poster-maker/internal/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func newTestCanvas(t *testing.T) (*PosterCanvas, *editor.Editor) {
	t.Helper()
	test.NewApp()
	reg, err := fonts.NewRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	store := assets.NewStore(t.TempDir())
	sc := scene.New(scene.NewBackgroundLayer("", nil), 800)
	ed := editor.New(sc, reg, store)
	return NewPosterCanvas(ed, render.New(reg)), ed
}

func TestDrawNeverMutatesScene(t *testing.T) {
	// The raster generator is a pure read of the scene; resizes happen only
	// through CheckResize on the UI lifecycle, between paints.
	pc, ed := newTestCanvas(t)
	ed.AddTextLayer("Sale 50% Off", scene.DefaultTextStyle())

	before, err := ed.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	// A widget far smaller than the current tier must not trigger a rescale
	// from inside the paint.
	pc.draw(400, 400)
	pc.draw(400, 400)
	after, err := ed.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("draw pass changed the scene")
	}
	if ed.Scene().Surface != 800 {
		t.Errorf("Surface = %v after draw, want untouched 800", ed.Scene().Surface)
	}
}

func TestCheckResizeAppliesTier(t *testing.T) {
	pc, ed := newTestCanvas(t)
	tests := []struct {
		width   float32
		surface float64
	}{
		{400, 300},
		{600, 500},
		{1024, 800},
	}
	for _, tt := range tests {
		pc.CheckResize(fyne.NewSize(tt.width, 700))
		// Synchronous: the new tier is in place before CheckResize returns.
		if ed.Scene().Surface != tt.surface {
			t.Errorf("width %v: Surface = %v, want %v", tt.width, ed.Scene().Surface, tt.surface)
		}
	}
}

func TestCheckResizeAfterDetach(t *testing.T) {
	pc, ed := newTestCanvas(t)
	pc.Detach()
	pc.CheckResize(fyne.NewSize(400, 400))
	if ed.Scene().Surface != 800 {
		t.Errorf("Surface = %v, want 800; detached canvas must not resize", ed.Scene().Surface)
	}
}

func TestToLogical(t *testing.T) {
	pc, _ := newTestCanvas(t)
	pc.offsetX, pc.offsetY = 100, 50
	pc.factor = 0.5

	p := pc.toLogical(fyne.NewPos(200, 150))
	if p.X != 200 || p.Y != 200 {
		t.Errorf("toLogical = %+v, want {200 200}", p)
	}

	pc.factor = 0
	if p := pc.toLogical(fyne.NewPos(10, 10)); p.X != 0 || p.Y != 0 {
		t.Errorf("zero factor must map to the origin, got %+v", p)
	}
}
