package scale

import (
	"image"
	"testing"

	"poster-maker/internal/scene"
	"poster-maker/pkg/geometry"
)

func TestSurfaceFor(t *testing.T) {
	tests := []struct {
		viewport float64
		want     float64
	}{
		{0, 300},
		{320, 300},
		{449, 300},
		{450, 500},
		{600, 500},
		{767, 500},
		{768, 800},
		{1024, 800},
		{4000, 800},
	}
	for _, tt := range tests {
		if got := SurfaceFor(tt.viewport); got != tt.want {
			t.Errorf("SurfaceFor(%v) = %v, want %v", tt.viewport, got, tt.want)
		}
	}
}

func TestTiers(t *testing.T) {
	tiers := Tiers()
	want := []float64{300, 500, 800}
	if len(tiers) != len(want) {
		t.Fatalf("Tiers() = %v", tiers)
	}
	for i := range want {
		if tiers[i] != want[i] {
			t.Errorf("tier %d = %v, want %v", i, tiers[i], want[i])
		}
	}
}

func seededScene() *scene.Scene {
	bg := scene.NewBackgroundLayer("t.png", image.NewRGBA(image.Rect(0, 0, 1000, 1500)))
	s := scene.New(bg, 800)
	s.Append(scene.NewContactLayer("555-0100", image.NewRGBA(image.Rect(0, 0, 64, 64))))
	s.Append(scene.NewSocialIconLayer("instagram", image.NewRGBA(image.Rect(0, 0, 64, 64)), 0))
	s.Append(scene.NewSocialIconLayer("x", image.NewRGBA(image.Rect(0, 0, 64, 64)), 1))
	s.Append(scene.NewMessageLayer("visit us"))
	s.Append(scene.NewImageLayer("upload.png", image.NewRGBA(image.Rect(0, 0, 800, 400))))
	s.Append(scene.NewTextLayer("Sale 50% Off", scene.DefaultTextStyle()))
	return s
}

func snapshot(t *testing.T, s *scene.Scene) []byte {
	t.Helper()
	data, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return data
}

func TestRescaleIsIdempotent(t *testing.T) {
	s := seededScene()
	Rescale(s, 300)
	once := snapshot(t, s)
	Rescale(s, 300)
	twice := snapshot(t, s)
	if string(once) != string(twice) {
		t.Error("second rescale at the same surface changed the scene")
	}
}

func TestRescaleDoesNotDrift(t *testing.T) {
	s := seededScene()
	Rescale(s, 300)
	small := snapshot(t, s)

	// Bounce through every tier repeatedly and come back.
	for i := 0; i < 10; i++ {
		Rescale(s, 800)
		Rescale(s, 500)
		Rescale(s, 300)
	}
	if got := snapshot(t, s); string(got) != string(small) {
		t.Error("layer geometry drifted across repeated resizes")
	}
}

func TestRescaleRestoresIdentityAnchors(t *testing.T) {
	s := seededScene()
	for _, l := range s.Layers {
		if l.Kind.Identity() {
			l.Position = geometry.NewPoint2D(1, 1)
		}
	}
	Rescale(s, 500)

	for _, l := range s.Layers {
		switch l.Kind {
		case scene.KindIdentityContact:
			if l.Position.X != scene.ContactInsetX || l.Position.Y != scene.ReferenceSize-scene.ContactInsetY {
				t.Errorf("contact at %+v, want anchored", l.Position)
			}
		case scene.KindIdentitySocialIcon:
			if l.Position != scene.SocialIconAnchor(l.RowIndex) {
				t.Errorf("icon row %d at %+v, want anchored", l.RowIndex, l.Position)
			}
		case scene.KindIdentityMessage:
			if l.Position.X != scene.ReferenceSize-scene.MessageInsetX || l.Position.Y != scene.ReferenceSize-scene.MessageInsetY {
				t.Errorf("message at %+v, want anchored", l.Position)
			}
		}
	}
}

func TestRescaleUserLayersKeepLogicalPosition(t *testing.T) {
	s := seededScene()
	var text *scene.Layer
	for _, l := range s.Layers {
		if l.Kind == scene.KindUserText {
			text = l
		}
	}
	text.Position = geometry.NewPoint2D(123, 456)

	Rescale(s, 300)
	if text.Position.X != 123 || text.Position.Y != 456 {
		t.Errorf("text moved to %+v; logical position must survive resize", text.Position)
	}
	if s.ScaleFactor() != 0.3 {
		t.Errorf("ScaleFactor = %v, want 0.3", s.ScaleFactor())
	}
}

func TestRescaleImageUsesCreationRatio(t *testing.T) {
	s := seededScene()
	var img *scene.Layer
	for _, l := range s.Layers {
		if l.Kind == scene.KindUserImage {
			img = l
		}
	}
	// The 800x400 upload starts at half the reference width.
	if img.CreationRatio != 0.5 {
		t.Fatalf("CreationRatio = %v, want 0.5", img.CreationRatio)
	}

	Rescale(s, 300)
	if img.Size.Width != 500 || img.Size.Height != 250 {
		t.Errorf("image size = %+v, want logical {500 250}", img.Size)
	}
	Rescale(s, 800)
	if img.Size.Width != 500 || img.Size.Height != 250 {
		t.Errorf("image size after second resize = %+v, want logical {500 250}", img.Size)
	}
}

func TestRescaleBackgroundFillsWidth(t *testing.T) {
	s := seededScene()
	bg := s.Background()
	bg.Position = geometry.NewPoint2D(7, 7)

	Rescale(s, 500)
	if bg.Position.X != 0 || bg.Position.Y != 0 {
		t.Errorf("background at %+v, want origin", bg.Position)
	}
	if bg.Size.Width != scene.ReferenceSize {
		t.Errorf("background width = %v, want reference", bg.Size.Width)
	}
	// 1000x1500 template keeps its aspect ratio at reference width.
	if bg.Size.Height != 1500 {
		t.Errorf("background height = %v, want 1500", bg.Size.Height)
	}
}
