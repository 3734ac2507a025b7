// Package editor provides the canvas controller: the sole owner of the scene,
// mediating every mutation and notifying render surfaces through events.
package editor

import (
	"sync"

	"poster-maker/internal/assets"
	"poster-maker/internal/fonts"
	"poster-maker/internal/history"
	"poster-maker/internal/identity"
	"poster-maker/internal/scale"
	"poster-maker/internal/scene"

	log "github.com/sirupsen/logrus"
)

// EventType identifies editor events.
type EventType int

const (
	// EventSceneChanged fires after any mutation that needs a redraw.
	EventSceneChanged EventType = iota
	// EventSelectionChanged fires when the active layer changes.
	EventSelectionChanged
	// EventLayersChanged fires when layers are added or removed.
	EventLayersChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Editor owns a Scene exclusively. All operations are atomic with respect to
// the render surface: listeners observe only fully-applied states.
type Editor struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener
	disposed  bool

	scene     *scene.Scene
	fonts     *fonts.Registry
	assets    *assets.Store
	history   history.Buffer
	selection string
}

// New creates an editor owning the given scene.
func New(sc *scene.Scene, reg *fonts.Registry, store *assets.Store) *Editor {
	return &Editor{
		listeners: make(map[EventType][]EventListener),
		scene:     sc,
		fonts:     reg,
		assets:    store,
	}
}

// Scene returns the owned scene. Callers must not mutate it directly; every
// mutation goes through an editor operation.
func (e *Editor) Scene() *scene.Scene {
	return e.scene
}

// On registers an event listener.
func (e *Editor) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

func (e *Editor) emit(event EventType, data interface{}) {
	e.mu.RLock()
	disposed := e.disposed
	listeners := e.listeners[event]
	e.mu.RUnlock()
	if disposed {
		return
	}
	for _, listener := range listeners {
		listener(data)
	}
}

// Dispose tears the editor down. Any async work resolving afterwards becomes
// a no-op instead of mutating a disposed scene.
func (e *Editor) Dispose() {
	e.mu.Lock()
	e.disposed = true
	e.listeners = make(map[EventType][]EventListener)
	e.mu.Unlock()
}

// Disposed reports whether Dispose has been called.
func (e *Editor) Disposed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.disposed
}

// snapshotBeforeMutation pushes the current state so the action about to run
// can be undone.
func (e *Editor) snapshotBeforeMutation() {
	snap, err := e.scene.Snapshot()
	if err != nil {
		log.Warnf("history snapshot failed: %v", err)
		return
	}
	e.history.Push(snap)
}

// HistoryLen returns the undo depth.
func (e *Editor) HistoryLen() int {
	return e.history.Len()
}

// AddTextLayer creates and selects a user text layer. The style's font is
// resolved (or conclusively failed onto the fallback face) before the layer
// becomes visible.
func (e *Editor) AddTextLayer(text string, style scene.TextStyle) *scene.Layer {
	if e.Disposed() {
		return nil
	}
	if style.FontFamily == "" {
		style = scene.DefaultTextStyle()
	}
	e.fonts.Ensure(style.FontFamily)
	e.snapshotBeforeMutation()

	l := scene.NewTextLayer(text, style)
	e.scene.Append(l)
	e.selection = l.ID
	e.emit(EventLayersChanged, l)
	e.emit(EventSelectionChanged, l)
	e.emit(EventSceneChanged, nil)
	return l
}

// AddImageLayer creates and selects a user image layer from an asset
// reference. An unreachable source still produces a layer; it renders as a
// placeholder region.
func (e *Editor) AddImageLayer(source string) *scene.Layer {
	if e.Disposed() {
		return nil
	}
	img, err := e.assets.LoadImage(source)
	if err != nil {
		log.WithField("source", source).Warnf("image unavailable: %v", err)
	}
	e.snapshotBeforeMutation()

	l := scene.NewImageLayer(source, img)
	e.scene.Append(l)
	e.selection = l.ID
	e.emit(EventLayersChanged, l)
	e.emit(EventSelectionChanged, l)
	e.emit(EventSceneChanged, nil)
	return l
}

// SelectLayer makes the layer with the given id active; an empty or unknown
// id clears the selection. At most one layer is active at a time.
func (e *Editor) SelectLayer(id string) {
	if id != "" && e.scene.Find(id) == nil {
		id = ""
	}
	if id == e.selection {
		return
	}
	e.selection = id
	e.emit(EventSelectionChanged, e.Selection())
	e.emit(EventSceneChanged, nil)
}

// Selection returns the active layer, or nil.
func (e *Editor) Selection() *scene.Layer {
	if e.selection == "" {
		return nil
	}
	return e.scene.Find(e.selection)
}

// DeleteSelected removes the active layer. Empty selections and locked layers
// are no-ops, and the background layer can never be removed.
func (e *Editor) DeleteSelected() {
	sel := e.Selection()
	if sel == nil || sel.Locked {
		return
	}
	e.snapshotBeforeMutation()
	if !e.scene.Remove(sel.ID) {
		return
	}
	e.selection = ""
	e.emit(EventLayersChanged, nil)
	e.emit(EventSelectionChanged, nil)
	e.emit(EventSceneChanged, nil)
}

// ApplyStyle merges a style patch into the active layer. It is a no-op unless
// the selection is an unlocked text layer. A patch naming a font resolves it
// first so the change never races the font load.
func (e *Editor) ApplyStyle(patch scene.StylePatch) {
	sel := e.Selection()
	if sel == nil || sel.Locked || sel.Kind != scene.KindUserText {
		return
	}
	if patch.FontFamily != nil {
		e.fonts.Ensure(*patch.FontFamily)
	}
	e.snapshotBeforeMutation()
	sel.ApplyStyle(patch)
	e.emit(EventSceneChanged, nil)
}

// ApplyAlign sets text alignment on the active layer if it carries text.
// Alignment alone is exempt from the lock rules.
func (e *Editor) ApplyAlign(align scene.Align) {
	sel := e.Selection()
	if sel == nil || !sel.Kind.Text() {
		return
	}
	e.snapshotBeforeMutation()
	if sel.Style == nil {
		s := scene.DefaultTextStyle()
		sel.Style = &s
	}
	sel.Style.Align = align
	e.emit(EventSceneChanged, nil)
}

// SetText replaces the active text layer's content.
func (e *Editor) SetText(text string) {
	sel := e.Selection()
	if sel == nil || sel.Locked || sel.Kind != scene.KindUserText {
		return
	}
	if text == "" {
		text = "New Text"
	}
	e.snapshotBeforeMutation()
	sel.Text = text
	e.emit(EventSceneChanged, nil)
}

// BeginMove records history once at the start of a drag. It reports whether
// the active layer can be moved at all.
func (e *Editor) BeginMove() bool {
	sel := e.Selection()
	if sel == nil || sel.Kind == scene.KindBackground {
		return false
	}
	e.snapshotBeforeMutation()
	return true
}

// MoveBy repositions the active layer by a logical-unit delta. Locked
// identity layers are repositionable; only the background is immovable.
func (e *Editor) MoveBy(dx, dy float64) {
	sel := e.Selection()
	if sel == nil || sel.Kind == scene.KindBackground {
		return
	}
	sel.Position.X += dx
	sel.Position.Y += dy
	e.emit(EventSceneChanged, nil)
}

// Resize feeds a new viewport width to the responsive scaler. Re-invoking
// with an unchanged tier is a no-op; the rescale pass itself is idempotent
// either way.
func (e *Editor) Resize(viewportWidth float64) {
	surface := scale.SurfaceFor(viewportWidth)
	if surface == e.scene.Surface {
		return
	}
	scale.Rescale(e.scene, surface)
	e.emit(EventSceneChanged, nil)
}

// Undo restores the most recent snapshot. Undoing past an empty stack is a
// no-op.
func (e *Editor) Undo() {
	snap, ok := e.history.Pop()
	if !ok {
		return
	}
	if err := e.scene.Load(snap); err != nil {
		log.Warnf("undo failed: %v", err)
		return
	}
	e.assets.ResolveScene(e.scene)
	if e.scene.Find(e.selection) == nil {
		e.selection = ""
		e.emit(EventSelectionChanged, nil)
	}
	e.emit(EventLayersChanged, nil)
	e.emit(EventSceneChanged, nil)
}

// Snapshot serializes the current scene.
func (e *Editor) Snapshot() ([]byte, error) {
	return e.scene.Snapshot()
}

// Restore fully replaces the scene from a snapshot and forces a re-render.
func (e *Editor) Restore(data []byte) error {
	if err := e.scene.Load(data); err != nil {
		return err
	}
	e.assets.ResolveScene(e.scene)
	e.selection = ""
	e.emit(EventLayersChanged, nil)
	e.emit(EventSelectionChanged, nil)
	e.emit(EventSceneChanged, nil)
	return nil
}

// SeedIdentity builds the locked identity layers from a profile snapshot.
// Missing icons degrade to placeholder regions; absent fields omit their
// layer entirely.
func (e *Editor) SeedIdentity(snap identity.Snapshot) {
	if e.Disposed() || snap.Empty() {
		return
	}
	if snap.PhoneNumber != "" {
		icon, err := e.assets.Icon("phone")
		if err != nil {
			log.Warnf("phone icon unavailable: %v", err)
		}
		l := scene.NewContactLayer(snap.PhoneNumber, icon)
		e.fonts.Ensure(l.Style.FontFamily)
		e.scene.Append(l)
	}
	for i, link := range snap.OrderedLinks() {
		icon, err := e.assets.Icon(link.Platform)
		if err != nil {
			log.WithField("platform", link.Platform).Warnf("social icon unavailable: %v", err)
		}
		e.scene.Append(scene.NewSocialIconLayer(link.Platform, icon, i))
	}
	if snap.MessageText != "" {
		l := scene.NewMessageLayer(snap.MessageText)
		e.fonts.Ensure(l.Style.FontFamily)
		e.scene.Append(l)
	}
	e.emit(EventLayersChanged, nil)
	e.emit(EventSceneChanged, nil)
}
