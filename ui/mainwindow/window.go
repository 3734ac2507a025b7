// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"poster-maker/internal/editor"
	"poster-maker/internal/export"
	"poster-maker/internal/render"
	"poster-maker/ui/canvas"
	"poster-maker/ui/panels"
	"poster-maker/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	log "github.com/sirupsen/logrus"
)

// Deps are the collaborators the window operates on.
type Deps struct {
	UserID   string
	Editor   *editor.Editor
	Exporter *export.Exporter
	Renderer *render.Renderer
	Store    StoreWriter
	Prefs    *prefs.Prefs
}

// StoreWriter is the slice of the asset store the Save action needs.
type StoreWriter interface {
	Put(name string, data []byte) (string, error)
}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app  fyne.App
	deps Deps

	canvas     *canvas.PosterCanvas
	stylePanel *panels.StylePanel
	layers     *panels.LayersPanel
	statusBar  *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, deps Deps) *MainWindow {
	win := fyneApp.NewWindow("Poster Maker")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		deps:   deps,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	win.Resize(fyne.NewSize(1100, 800))
	win.SetOnClosed(func() {
		mw.canvas.Detach()
		if err := deps.Prefs.Save(); err != nil {
			log.Warnf("save preferences: %v", err)
		}
	})

	return mw
}

// setupUI creates the main layout: side panels | toolbar + canvas.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPosterCanvas(mw.deps.Editor, mw.deps.Renderer)
	mw.stylePanel = panels.NewStylePanel(mw.deps.Editor)
	mw.layers = panels.NewLayersPanel(mw.deps.Editor)
	mw.statusBar = widget.NewLabel("Ready")

	canvasArea := container.NewBorder(
		mw.createToolbar(), // top
		nil, nil, nil,
		mw.canvas,
	)

	side := container.NewBorder(
		mw.stylePanel.Container(), // top
		nil, nil, nil,
		mw.layers.Container(),
	)

	split := container.NewHSplit(side, canvasArea)
	split.SetOffset(0.25)

	mw.SetContent(container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	))
}

// createToolbar creates the action toolbar.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Add Text", mw.onAddText),
		widget.NewButton("Edit Text", mw.onEditText),
		widget.NewButton("Upload Image", mw.onUpload),
		widget.NewButton("Delete", mw.onDelete),
		widget.NewButton("Undo", mw.onUndo),
		widget.NewButton("Save", mw.onSave),
		widget.NewButton("Download JPG", mw.onDownload),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Save Poster", mw.onSave),
		fyne.NewMenuItem("Download JPG...", mw.onDownload),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Delete Layer", mw.onDelete),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu))
}

// setupEventHandlers wires editor events to the status bar.
func (mw *MainWindow) setupEventHandlers() {
	mw.deps.Editor.On(editor.EventSelectionChanged, func(data interface{}) {
		if sel := mw.deps.Editor.Selection(); sel != nil {
			mw.statusBar.SetText(fmt.Sprintf("Selected %s layer", sel.Kind))
		} else {
			mw.statusBar.SetText("Ready")
		}
	})
}

func (mw *MainWindow) onAddText() {
	mw.deps.Editor.AddTextLayer("", mw.stylePanel.CurrentStyle())
}

func (mw *MainWindow) onEditText() {
	sel := mw.deps.Editor.Selection()
	if sel == nil || sel.Locked {
		return
	}
	entry := widget.NewEntry()
	entry.SetText(sel.Text)
	dialog.ShowForm("Edit Text", "Apply", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) {
			if ok {
				mw.deps.Editor.SetText(entry.Text)
			}
		},
		mw.Window)
}

func (mw *MainWindow) onUpload() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		mw.deps.Editor.AddImageLayer(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"}))
	fd.Show()
}

func (mw *MainWindow) onDelete() {
	mw.deps.Editor.DeleteSelected()
}

func (mw *MainWindow) onUndo() {
	mw.deps.Editor.Undo()
}

// onSave renders at the current surface size and stores the PNG in the asset
// store.
func (mw *MainWindow) onSave() {
	ref, err := mw.deps.Exporter.SavePNG(mw.deps.UserID, mw.deps.Editor.Scene(), mw.deps.Store)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText("Saved " + filepath.Base(ref))
	dialog.ShowInformation("Saved", "Post saved successfully.", mw.Window)
}

// onDownload exports the fixed-resolution JPEG, honoring the daily quota.
func (mw *MainWindow) onDownload() {
	data, name, err := mw.deps.Exporter.ExportRaster(mw.deps.UserID, mw.deps.Editor.Scene())
	if errors.Is(err, export.ErrQuotaExceeded) {
		dialog.ShowInformation("Daily limit reached",
			fmt.Sprintf("You have already downloaded %d posters today.\nPlease try again tomorrow.", export.DefaultDailyLimit),
			mw.Window)
		return
	}
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	dir := mw.deps.Prefs.String(prefs.KeyDownloadDir, defaultDownloadDir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.statusBar.SetText("Downloaded " + name)
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
