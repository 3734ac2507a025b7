// Package main provides the entry point for the Poster Maker application.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"poster-maker/internal/assets"
	"poster-maker/internal/editor"
	"poster-maker/internal/export"
	"poster-maker/internal/fonts"
	"poster-maker/internal/identity"
	"poster-maker/internal/quota"
	"poster-maker/internal/render"
	"poster-maker/internal/scale"
	"poster-maker/internal/scene"
	"poster-maker/ui/mainwindow"
	"poster-maker/ui/prefs"

	"fyne.io/fyne/v2/app"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const (
	appTitle   = "Poster Maker"
	appVersion = "0.1.0"
)

func main() {
	log.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	var (
		userID      = flag.String("user", "demo", "user identifier")
		templateRef = flag.String("template", "", "template background image (path or URL)")
		assetsDir   = flag.String("assets", "assets", "assets directory (fonts/, icons/, posts/)")
		dataDir     = flag.String("data", defaultDataDir(), "data directory (profiles/, quota log)")
		verbose     = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	log.Infof("Starting %s v%s", appTitle, appVersion)

	appPrefs := prefs.Load()
	store := assets.NewStore(*assetsDir)

	registry, err := fonts.NewRegistry(store.FontsDir())
	if err != nil {
		log.Fatalf("font registry: %v", err)
	}
	// First-time usage of the branded fonts is much smoother when they are
	// already resolved; the editor stays usable while these load.
	registry.Preload(fonts.CustomFonts...)

	templateURL := *templateRef
	if templateURL == "" {
		templateURL = appPrefs.String(prefs.KeyLastTemplate, "")
	}
	var background *scene.Layer
	if templateURL != "" {
		img, err := store.LoadImage(templateURL)
		if err != nil {
			log.Warnf("template unavailable, starting with blank canvas: %v", err)
		}
		background = scene.NewBackgroundLayer(templateURL, img)
		appPrefs.SetString(prefs.KeyLastTemplate, templateURL)
	} else {
		background = scene.NewBackgroundLayer("", nil)
	}

	sc := scene.New(background, scale.SurfaceFor(800))
	ed := editor.New(sc, registry, store)

	provider := identity.NewFileProvider(filepath.Join(*dataDir, "profiles"))
	snap, err := provider.IdentitySnapshot(*userID)
	if err != nil {
		log.Warnf("identity unavailable, editor continues without identity layers: %v", err)
	}
	ed.SeedIdentity(snap)

	tracker := quota.NewFileTracker(filepath.Join(*dataDir, "downloads.json"))
	renderer := render.New(registry)
	exporter := export.New(renderer, tracker, export.DefaultDailyLimit)

	fyneApp := app.NewWithID("com.postermaker.editor")
	win := mainwindow.New(fyneApp, mainwindow.Deps{
		UserID:   *userID,
		Editor:   ed,
		Exporter: exporter,
		Renderer: renderer,
		Store:    store,
		Prefs:    appPrefs,
	})

	win.ShowAndRun()
}

func defaultDataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "poster-maker")
}
