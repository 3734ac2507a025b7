// Package export produces durable output from a scene: quota-gated JPEG
// downloads at the fixed logical resolution, and PNG saves to the asset store.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"time"

	"poster-maker/internal/quota"
	"poster-maker/internal/render"
	"poster-maker/internal/scene"

	log "github.com/sirupsen/logrus"
)

// ErrQuotaExceeded is returned when the user has reached the daily download
// limit. No rendering happens and no event is recorded.
var ErrQuotaExceeded = errors.New("daily download limit reached")

// DefaultDailyLimit is the number of downloads allowed per UTC day.
const DefaultDailyLimit = 2

// Sink stores encoded output under a relative name, e.g. the asset store.
type Sink interface {
	Put(name string, data []byte) (string, error)
}

// Exporter renders scenes to downloadable rasters.
type Exporter struct {
	renderer *render.Renderer
	tracker  quota.Tracker
	limit    int
	now      func() time.Time
}

// New creates an exporter. A non-positive limit falls back to
// DefaultDailyLimit.
func New(renderer *render.Renderer, tracker quota.Tracker, limit int) *Exporter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Exporter{
		renderer: renderer,
		tracker:  tracker,
		limit:    limit,
		now:      time.Now,
	}
}

// ExportRaster renders the scene at the fixed logical export resolution,
// independent of the live surface size, and encodes it for download. The
// quota gate runs strictly first; the quota event is recorded only after a
// successful encode, so a failed render never consumes quota.
//
// It returns the JPEG bytes and the download file name.
func (ex *Exporter) ExportRaster(userID string, sc *scene.Scene) ([]byte, string, error) {
	now := ex.now()
	count, err := ex.tracker.CountEventsSince(userID, quota.StartOfDayUTC(now))
	if err != nil {
		return nil, "", fmt.Errorf("check download quota: %w", err)
	}
	if count >= ex.limit {
		return nil, "", ErrQuotaExceeded
	}

	img := ex.renderer.Render(sc, int(sc.Reference))

	// Lossless intermediate, then the quality-maximized download format.
	var lossless bytes.Buffer
	if err := png.Encode(&lossless, img); err != nil {
		return nil, "", fmt.Errorf("encode intermediate: %w", err)
	}
	decoded, err := png.Decode(&lossless)
	if err != nil {
		return nil, "", fmt.Errorf("decode intermediate: %w", err)
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, decoded, &jpeg.Options{Quality: 100}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}

	if err := ex.tracker.RecordEvent(userID, now); err != nil {
		// The user still gets their file; the missed record only under-counts.
		log.Warnf("record download event: %v", err)
	}

	name := fmt.Sprintf("poster_%d.jpg", now.Unix())
	return out.Bytes(), name, nil
}

// SavePNG renders the scene at its current surface size and stores it as a
// PNG in the sink, returning the opaque stored reference.
func (ex *Exporter) SavePNG(userID string, sc *scene.Scene, store Sink) (string, error) {
	img := ex.renderer.RenderSurface(sc)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode save: %w", err)
	}
	name := fmt.Sprintf("posts/%s_%d.png", userID, ex.now().UnixMilli())
	return store.Put(name, buf.Bytes())
}
