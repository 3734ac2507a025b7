package panels

import (
	"testing"
	"unicode/utf8"

	"poster-maker/internal/scene"
)

func TestLayerTitle(t *testing.T) {
	tests := []struct {
		name  string
		layer *scene.Layer
		want  string
	}{
		{"background", &scene.Layer{Kind: scene.KindBackground}, "Template background"},
		{"contact", &scene.Layer{Kind: scene.KindIdentityContact, Text: "555-0100"}, "Contact: 555-0100"},
		{"icon", &scene.Layer{Kind: scene.KindIdentitySocialIcon, Text: "instagram"}, "Icon: instagram"},
		{"message", &scene.Layer{Kind: scene.KindIdentityMessage, Text: "visit us"}, "Message"},
		{"image", &scene.Layer{Kind: scene.KindUserImage}, "Image"},
		{"short text", &scene.Layer{Kind: scene.KindUserText, Text: "Sale"}, "Text: Sale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layerTitle(tt.layer); got != tt.want {
				t.Errorf("layerTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayerTitleTruncatesOnRunes(t *testing.T) {
	// 30 multi-byte runes; a byte-based cut would split one mid-sequence.
	l := &scene.Layer{Kind: scene.KindUserText, Text: "éééééééééééééééééééééééééééééé"}
	got := layerTitle(l)
	if !utf8.ValidString(got) {
		t.Fatalf("title is not valid UTF-8: %q", got)
	}
	want := "Text: " + "éééééééééééééééééééééééé" + "…"
	if got != want {
		t.Errorf("title = %q, want %q", got, want)
	}
}
