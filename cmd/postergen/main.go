// Command postergen renders a scene snapshot to a raster without a GUI.
// It shares the renderer with the editor, so output at a given size is
// identical to an in-editor export.
package main

import (
	"bytes"
	"flag"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"poster-maker/internal/assets"
	"poster-maker/internal/fonts"
	"poster-maker/internal/render"
	"poster-maker/internal/scene"

	log "github.com/sirupsen/logrus"
)

func main() {
	var (
		in        = flag.String("in", "", "scene snapshot JSON file")
		out       = flag.String("out", "poster.jpg", "output image (.jpg or .png)")
		size      = flag.Int("size", int(scene.ReferenceSize), "output size in pixels")
		assetsDir = flag.String("assets", "assets", "assets directory")
	)
	flag.Parse()

	if *in == "" {
		log.Fatal("missing -in snapshot file")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read snapshot: %v", err)
	}

	var sc scene.Scene
	if err := sc.Load(data); err != nil {
		log.Fatalf("parse snapshot: %v", err)
	}

	store := assets.NewStore(*assetsDir)
	store.ResolveScene(&sc)

	registry, err := fonts.NewRegistry(store.FontsDir())
	if err != nil {
		log.Fatalf("font registry: %v", err)
	}
	for _, l := range sc.Layers {
		if l.Style != nil {
			registry.Ensure(l.Style.FontFamily)
		}
	}

	img := render.New(registry).Render(&sc, *size)

	var buf bytes.Buffer
	if strings.HasSuffix(strings.ToLower(*out), ".png") {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100})
	}
	if err != nil {
		log.Fatalf("encode output: %v", err)
	}
	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Infof("wrote %s (%dx%d)", *out, *size, *size)
}
