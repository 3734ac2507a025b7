// Package panels provides the editor side panels.
package panels

import (
	"fmt"
	"strings"

	"poster-maker/internal/editor"
	"poster-maker/internal/fonts"
	"poster-maker/internal/scene"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StylePanel holds the text styling controls. Its current values double as
// the defaults for newly added text layers.
type StylePanel struct {
	editor *editor.Editor
	box    *fyne.Container

	fontSelect *widget.Select
	sizeSlider *widget.Slider
	sizeLabel  *widget.Label
	colorEntry *widget.Entry

	// updating suppresses control callbacks while the panel mirrors the
	// selection into its widgets.
	updating bool
}

// NewStylePanel creates the style panel bound to an editor.
func NewStylePanel(ed *editor.Editor) *StylePanel {
	sp := &StylePanel{editor: ed}
	sp.buildUI()

	ed.On(editor.EventSelectionChanged, func(interface{}) { sp.refresh() })

	return sp
}

// Container returns the panel widget for embedding.
func (sp *StylePanel) Container() fyne.CanvasObject {
	return sp.box
}

// CurrentStyle returns the style a new text layer should start with.
func (sp *StylePanel) CurrentStyle() scene.TextStyle {
	style := scene.DefaultTextStyle()
	if sp.fontSelect.Selected != "" {
		style.FontFamily = sp.fontSelect.Selected
	}
	style.Size = sp.sizeSlider.Value
	if c := normalizeColor(sp.colorEntry.Text); c != "" {
		style.Fill = c
	}
	return style
}

func (sp *StylePanel) buildUI() {
	sp.fontSelect = widget.NewSelect(fonts.Known(), func(name string) {
		if sp.updating {
			return
		}
		sp.editor.ApplyStyle(scene.StylePatch{FontFamily: &name})
	})
	sp.fontSelect.SetSelected("Arial")

	sp.sizeLabel = widget.NewLabel("32")
	sp.sizeSlider = widget.NewSlider(10, 150)
	sp.sizeSlider.SetValue(32)
	sp.sizeSlider.OnChanged = func(v float64) {
		sp.sizeLabel.SetText(fmt.Sprintf("%.0f", v))
		if sp.updating {
			return
		}
		sp.editor.ApplyStyle(scene.StylePatch{Size: &v})
	}

	sp.colorEntry = widget.NewEntry()
	sp.colorEntry.SetText("#000000")
	sp.colorEntry.OnSubmitted = func(s string) {
		if sp.updating {
			return
		}
		if c := normalizeColor(s); c != "" {
			sp.editor.ApplyStyle(scene.StylePatch{Fill: &c})
		}
	}

	boldBtn := widget.NewButton("B", func() { sp.toggle(func(s *scene.TextStyle) scene.StylePatch {
		v := !s.Bold
		return scene.StylePatch{Bold: &v}
	}) })
	italicBtn := widget.NewButton("I", func() { sp.toggle(func(s *scene.TextStyle) scene.StylePatch {
		v := !s.Italic
		return scene.StylePatch{Italic: &v}
	}) })
	underlineBtn := widget.NewButton("U", func() { sp.toggle(func(s *scene.TextStyle) scene.StylePatch {
		v := !s.Underline
		return scene.StylePatch{Underline: &v}
	}) })

	alignLeft := widget.NewButton("Left", func() { sp.editor.ApplyAlign(scene.AlignLeft) })
	alignCenter := widget.NewButton("Center", func() { sp.editor.ApplyAlign(scene.AlignCenter) })
	alignRight := widget.NewButton("Right", func() { sp.editor.ApplyAlign(scene.AlignRight) })

	sp.box = container.NewVBox(
		widget.NewLabelWithStyle("Text Style", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Font"),
		sp.fontSelect,
		container.NewBorder(nil, nil, widget.NewLabel("Size"), sp.sizeLabel, sp.sizeSlider),
		container.NewBorder(nil, nil, widget.NewLabel("Color"), nil, sp.colorEntry),
		container.NewHBox(boldBtn, italicBtn, underlineBtn),
		container.NewHBox(alignLeft, alignCenter, alignRight),
	)
}

// toggle applies a patch computed from the selection's current style.
func (sp *StylePanel) toggle(patch func(*scene.TextStyle) scene.StylePatch) {
	sel := sp.editor.Selection()
	if sel == nil || sel.Style == nil {
		return
	}
	sp.editor.ApplyStyle(patch(sel.Style))
}

// refresh mirrors the active layer's style into the controls.
func (sp *StylePanel) refresh() {
	sel := sp.editor.Selection()
	if sel == nil || sel.Style == nil {
		return
	}
	sp.updating = true
	sp.fontSelect.SetSelected(sel.Style.FontFamily)
	sp.sizeSlider.SetValue(sel.Style.Size)
	sp.colorEntry.SetText(sel.Style.Fill)
	sp.updating = false
}

// normalizeColor validates a #rgb/#rrggbb hex color, returning "" when the
// input is unusable.
func normalizeColor(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return ""
	}
	for _, r := range s[1:] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return ""
		}
	}
	return s
}
