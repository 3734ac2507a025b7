// Package fonts resolves font names to usable faces, with silent fallback.
package fonts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// CustomFonts are the branded fonts shipped in the assets fonts directory.
var CustomFonts = []string{"ZINCOBC", "Rage", "MTCORSVA"}

// SystemFonts are the stock faces offered in the font picker. On systems
// without matching font files they resolve to the default face.
var SystemFonts = []string{
	"Arial",
	"Helvetica",
	"Times New Roman",
	"Courier New",
	"Verdana",
	"Roboto",
	"Poppins",
	"Montserrat",
}

// Known returns every selectable font name, system fonts first.
func Known() []string {
	names := make([]string, 0, len(SystemFonts)+len(CustomFonts))
	names = append(names, SystemFonts...)
	names = append(names, CustomFonts...)
	return names
}

// extensions tried when loading a font file, in preference order.
var extensions = []string{".ttf", ".otf"}

type faceKey struct {
	name string
	size float64
}

// Registry loads and caches fonts from a directory. A name that fails to load
// stays unresolved and every face request for it falls back to the embedded
// default face; text is never invisible and lookups never fail.
type Registry struct {
	mu       sync.RWMutex
	dir      string
	parsed   map[string]*opentype.Font
	failed   map[string]bool
	faces    map[faceKey]font.Face
	fallback *opentype.Font
}

// NewRegistry creates a registry loading fonts from dir. The embedded Go
// Regular face is the documented fallback for unresolved names.
func NewRegistry(dir string) (*Registry, error) {
	fallback, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded fallback font: %w", err)
	}
	return &Registry{
		dir:      dir,
		parsed:   make(map[string]*opentype.Font),
		failed:   make(map[string]bool),
		faces:    make(map[faceKey]font.Face),
		fallback: fallback,
	}, nil
}

// Preload kicks off background loading for the given names. The editor stays
// usable while fonts load; each name concludes (resolved or failed) before a
// style apply naming it takes effect, because ApplyStyle calls Ensure first.
func (r *Registry) Preload(names ...string) {
	for _, name := range names {
		go r.Ensure(name)
	}
}

// Ensure makes the named font usable if its file exists, trying each known
// extension in order. It is idempotent, safe from any goroutine, and never
// returns an error: failure just leaves the name on the fallback face.
func (r *Registry) Ensure(name string) {
	r.mu.RLock()
	_, ok := r.parsed[name]
	failed := r.failed[name]
	r.mu.RUnlock()
	if ok || failed {
		return
	}

	for _, ext := range extensions {
		path := filepath.Join(r.dir, name+ext)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			log.WithField("font", path).Warnf("unparsable font file: %v", err)
			continue
		}
		r.mu.Lock()
		r.parsed[name] = parsed
		r.mu.Unlock()
		return
	}

	r.mu.Lock()
	r.failed[name] = true
	r.mu.Unlock()
	log.WithField("font", name).Debug("font unavailable, using default face")
}

// Resolved reports whether the named font loaded successfully.
func (r *Registry) Resolved(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.parsed[name]
	return ok
}

// Face returns a face for the named font at the given pixel size, falling
// back to the default face for unresolved names. It never returns nil.
func (r *Registry) Face(name string, sizePx float64) font.Face {
	if sizePx <= 0 {
		sizePx = 12
	}
	// Quantize so the face cache stays bounded across fractional scale factors.
	sizePx = math.Round(sizePx*4) / 4

	r.mu.RLock()
	src := r.parsed[name]
	r.mu.RUnlock()

	key := faceKey{name: name, size: sizePx}
	if src == nil {
		// Unresolved names share one fallback entry per size. Caching under
		// the requested name would keep serving the fallback after a later
		// Ensure resolves the font.
		key = faceKey{size: sizePx}
		src = r.fallback
	}

	r.mu.RLock()
	face, ok := r.faces[key]
	r.mu.RUnlock()
	if ok {
		return face
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.WithField("font", name).Warnf("face creation failed: %v", err)
		face, _ = opentype.NewFace(r.fallback, &opentype.FaceOptions{
			Size: sizePx, DPI: 72, Hinting: font.HintingFull,
		})
	}

	r.mu.Lock()
	r.faces[key] = face
	r.mu.Unlock()
	return face
}
