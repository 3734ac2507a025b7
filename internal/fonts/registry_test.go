package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := NewRegistry(dir)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r, dir
}

func writeFont(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), gobold.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
}

func TestEnsureResolvesExistingFont(t *testing.T) {
	r, dir := newTestRegistry(t)
	writeFont(t, dir, "Rage.ttf")

	r.Ensure("Rage")
	if !r.Resolved("Rage") {
		t.Fatal("font with a matching .ttf file did not resolve")
	}
}

func TestEnsureTriesExtensionsInOrder(t *testing.T) {
	r, dir := newTestRegistry(t)
	writeFont(t, dir, "ZINCOBC.otf")

	r.Ensure("ZINCOBC")
	if !r.Resolved("ZINCOBC") {
		t.Fatal(".otf font file did not resolve")
	}
}

func TestEnsureMissingFontFailsSilently(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Ensure("NoSuchFont")
	if r.Resolved("NoSuchFont") {
		t.Error("missing font reported as resolved")
	}
	// Repeat to confirm the failure is cached, not re-attempted noisily.
	r.Ensure("NoSuchFont")
	if face := r.Face("NoSuchFont", 32); face == nil {
		t.Fatal("Face returned nil for an unresolved font")
	}
}

func TestEnsureSkipsCorruptFile(t *testing.T) {
	r, dir := newTestRegistry(t)
	if err := os.WriteFile(filepath.Join(dir, "Broken.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	r.Ensure("Broken")
	if r.Resolved("Broken") {
		t.Error("corrupt font file reported as resolved")
	}
	if face := r.Face("Broken", 24); face == nil {
		t.Fatal("Face returned nil after a corrupt load")
	}
}

func TestFaceNeverNil(t *testing.T) {
	r, dir := newTestRegistry(t)
	writeFont(t, dir, "Arial.ttf")
	r.Ensure("Arial")

	tests := []struct {
		name string
		font string
		size float64
	}{
		{"resolved font", "Arial", 32},
		{"unresolved font", "Helvetica", 32},
		{"zero size", "Arial", 0},
		{"negative size", "Arial", -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if face := r.Face(tt.font, tt.size); face == nil {
				t.Error("Face returned nil")
			}
		})
	}
}

func TestFaceCacheQuantization(t *testing.T) {
	r, dir := newTestRegistry(t)
	writeFont(t, dir, "Arial.ttf")
	r.Ensure("Arial")

	// Sizes within the same quarter-point bucket share one cached face.
	a := r.Face("Arial", 12.05)
	b := r.Face("Arial", 11.95)
	if a != b {
		t.Error("nearby sizes produced distinct faces")
	}
	c := r.Face("Arial", 12.5)
	if a == c {
		t.Error("distinct quantized sizes shared a face")
	}
}

func TestFaceRefreshesAfterLateResolve(t *testing.T) {
	// A face built while the font file is absent must not pin that (name,
	// size) to the fallback once the font resolves.
	r, dir := newTestRegistry(t)

	early := r.Face("Rage", 32)
	if early == nil {
		t.Fatal("Face returned nil before resolve")
	}

	writeFont(t, dir, "Rage.ttf")
	r.Ensure("Rage")
	if !r.Resolved("Rage") {
		t.Fatal("font did not resolve after the file appeared")
	}

	late := r.Face("Rage", 32)
	if late == early {
		t.Error("Face still serves the pre-resolve fallback face")
	}
}

func TestFallbackFacesSharedAcrossNames(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := r.Face("Helvetica", 24)
	b := r.Face("Verdana", 24)
	if a != b {
		t.Error("unresolved names at one size built distinct fallback faces")
	}
}

func TestKnownListsSystemFontsFirst(t *testing.T) {
	names := Known()
	if len(names) != len(SystemFonts)+len(CustomFonts) {
		t.Fatalf("Known() has %d entries", len(names))
	}
	if names[0] != SystemFonts[0] {
		t.Errorf("Known()[0] = %q, want %q", names[0], SystemFonts[0])
	}
	if names[len(names)-1] != CustomFonts[len(CustomFonts)-1] {
		t.Errorf("Known() tail = %q", names[len(names)-1])
	}
}
