package panels

import (
	"poster-maker/internal/editor"
	"poster-maker/internal/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LayersPanel lists the scene's layers, topmost first, and keeps its
// selection in sync with the editor.
type LayersPanel struct {
	editor  *editor.Editor
	box     *fyne.Container
	list    *widget.List
	syncing bool
}

// NewLayersPanel creates the layers panel bound to an editor.
func NewLayersPanel(ed *editor.Editor) *LayersPanel {
	lp := &LayersPanel{editor: ed}

	lp.list = widget.NewList(
		func() int {
			return len(ed.Scene().Layers)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("layer")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if l := lp.layerAt(id); l != nil {
				obj.(*widget.Label).SetText(layerTitle(l))
			}
		},
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		if lp.syncing {
			return
		}
		if l := lp.layerAt(id); l != nil {
			ed.SelectLayer(l.ID)
		}
	}

	lp.box = container.NewBorder(
		widget.NewLabelWithStyle("Layers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		lp.list,
	)

	ed.On(editor.EventLayersChanged, func(interface{}) { lp.list.Refresh() })
	ed.On(editor.EventSelectionChanged, func(data interface{}) { lp.syncSelection() })

	return lp
}

// Container returns the panel widget for embedding.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.box
}

// layerAt maps a list row (topmost first) to its layer.
func (lp *LayersPanel) layerAt(row int) *scene.Layer {
	layers := lp.editor.Scene().Layers
	idx := len(layers) - 1 - row
	if idx < 0 || idx >= len(layers) {
		return nil
	}
	return layers[idx]
}

func (lp *LayersPanel) syncSelection() {
	lp.syncing = true
	defer func() { lp.syncing = false }()

	sel := lp.editor.Selection()
	if sel == nil {
		lp.list.UnselectAll()
		return
	}
	layers := lp.editor.Scene().Layers
	for i, l := range layers {
		if l.ID == sel.ID {
			lp.list.Select(len(layers) - 1 - i)
			return
		}
	}
}

// layerTitle builds a short human-readable row label.
func layerTitle(l *scene.Layer) string {
	switch l.Kind {
	case scene.KindBackground:
		return "Template background"
	case scene.KindIdentityContact:
		return "Contact: " + l.Text
	case scene.KindIdentitySocialIcon:
		return "Icon: " + l.Text
	case scene.KindIdentityMessage:
		return "Message"
	case scene.KindUserImage:
		return "Image"
	default:
		title := l.Text
		if runes := []rune(title); len(runes) > 24 {
			title = string(runes[:24]) + "…"
		}
		return "Text: " + title
	}
}
