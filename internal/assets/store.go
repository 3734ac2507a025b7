// Package assets resolves template, icon, and font references and stores
// saved posters.
package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"poster-maker/internal/scene"

	log "github.com/sirupsen/logrus"
)

// Store resolves asset references by convention under a base directory.
// Template and image references may also be http(s) URLs.
type Store struct {
	dir    string
	client *http.Client
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// FontsDir is where the font resolver looks for font files.
func (s *Store) FontsDir() string {
	return filepath.Join(s.dir, "fonts")
}

// IconPath resolves a social platform name to its icon asset by convention.
func (s *Store) IconPath(platform string) string {
	return filepath.Join(s.dir, "icons", platform+".png")
}

// Icon loads a platform icon. A missing icon is a recoverable failure; the
// caller omits or placeholders the layer.
func (s *Store) Icon(platform string) (image.Image, error) {
	return s.LoadImage(s.IconPath(platform))
}

// LoadImage decodes an image from a local path or an http(s) URL.
func (s *Store) LoadImage(ref string) (image.Image, error) {
	var r io.ReadCloser
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := s.client.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("fetch image %s: %w", ref, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch image %s: status %s", ref, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(s.localPath(ref))
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", ref, err)
	}
	return img, nil
}

// Put stores data under the given relative name (e.g. "posts/u1_17000.png")
// and returns the opaque stored reference.
func (s *Store) Put(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store asset %s: %w", name, err)
	}
	return path, nil
}

// ResolveScene reloads the bitmap for every layer that carries a source
// reference but no decoded image, e.g. after a snapshot restore. Decode
// failures are logged and leave the layer as a placeholder; the scene keeps
// working.
func (s *Store) ResolveScene(sc *scene.Scene) {
	for _, l := range sc.Layers {
		if l.Source == "" || l.Bitmap != nil {
			continue
		}
		img, err := s.LoadImage(l.Source)
		if err != nil {
			log.WithField("layer", string(l.Kind)).Warnf("asset unavailable: %v", err)
			continue
		}
		l.Bitmap = img
		b := img.Bounds()
		l.NaturalSize.Width = float64(b.Dx())
		l.NaturalSize.Height = float64(b.Dy())
	}
}

// localPath resolves a relative reference against the store directory; an
// absolute path is used as-is.
func (s *Store) localPath(ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(s.dir, filepath.FromSlash(ref))
}

// DecodeBytes decodes an in-memory image, e.g. an uploaded file.
func DecodeBytes(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return img, nil
}
