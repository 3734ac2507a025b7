// Package scene provides the layer model and scene state for one editing session.
package scene

import (
	"image"

	"poster-maker/pkg/geometry"

	"github.com/google/uuid"
)

// ReferenceSize is the fixed logical template size. All stored geometry is
// expressed relative to this; on-screen pixels are derived by a uniform scale.
const ReferenceSize = 1000.0

// Logical anchor offsets for the identity layers. The responsive scaler
// re-derives identity positions from these on every resize so the layers
// return to the same corner no matter how many resizes happened.
const (
	ContactInsetX     = 20.0
	ContactInsetY     = 50.0
	ContactIconWidth  = 35.0
	ContactTextOffset = 40.0
	ContactTextSize   = 30.0

	SocialIconTop   = 20.0
	SocialIconInset = 20.0
	SocialIconSize  = 30.0
	SocialIconGap   = 10.0

	MessageInsetX   = 20.0
	MessageInsetY   = 25.0
	MessageTextSize = 25.0
)

// Kind identifies what a layer is. Every component checks a layer's Kind and
// Locked fields rather than ad hoc booleans.
type Kind string

const (
	KindBackground         Kind = "background"
	KindIdentityContact    Kind = "identityContact"
	KindIdentitySocialIcon Kind = "identitySocialIcon"
	KindIdentityMessage    Kind = "identityMessage"
	KindUserText           Kind = "userText"
	KindUserImage          Kind = "userImage"
)

// Identity reports whether the layer is a locked identity layer seeded from
// the user's profile.
func (k Kind) Identity() bool {
	return k == KindIdentityContact || k == KindIdentitySocialIcon || k == KindIdentityMessage
}

// Text reports whether the layer carries alignable text.
func (k Kind) Text() bool {
	return k == KindUserText || k == KindIdentityMessage
}

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// TextStyle holds the visual attributes of a text layer. Colors are hex
// strings so snapshots stay human-readable.
type TextStyle struct {
	FontFamily  string  `json:"fontFamily"`
	Size        float64 `json:"size"` // logical units
	Fill        string  `json:"fill"`
	Bold        bool    `json:"bold,omitempty"`
	Italic      bool    `json:"italic,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Align       Align   `json:"align,omitempty"`
	StrokeColor string  `json:"strokeColor,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

// StylePatch is a partial TextStyle; nil fields are left unchanged on merge.
type StylePatch struct {
	FontFamily  *string
	Size        *float64
	Fill        *string
	Bold        *bool
	Italic      *bool
	Underline   *bool
	StrokeColor *string
	StrokeWidth *float64
}

// Layer represents a single positioned, styled visual element on the canvas.
type Layer struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Locked bool   `json:"locked,omitempty"`

	// Position is the top-left corner in logical units. Size is the displayed
	// logical size; for text layers it is a measured cache, updated by the
	// renderer, and not authoritative.
	Position geometry.Point2D `json:"position"`
	Size     geometry.Size    `json:"size,omitempty"`

	// CreationRatio is the layer's width relative to ReferenceSize at the
	// moment it was created. The scaler sizes user images from this ratio
	// rather than from their prior on-screen size so repeated resizes cannot
	// accumulate rounding drift.
	CreationRatio float64 `json:"creationRatio,omitempty"`

	// RowIndex orders social icons in their top-right row.
	RowIndex int `json:"rowIndex,omitempty"`

	Text   string     `json:"text,omitempty"`
	Source string     `json:"source,omitempty"`
	Style  *TextStyle `json:"style,omitempty"`

	// NaturalSize is the decoded bitmap's pixel size; zero means the source
	// could not be decoded and the layer renders as a placeholder.
	NaturalSize geometry.Size `json:"naturalSize,omitempty"`

	// Bitmap is runtime-only; snapshots carry Source and the bitmap is
	// re-resolved on restore.
	Bitmap image.Image `json:"-"`
}

// DefaultTextStyle is the style a fresh user text layer starts with.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontFamily: "Arial",
		Size:       32,
		Fill:       "#000000",
		Align:      AlignLeft,
	}
}

// identityStroke is the white outline that keeps identity text legible over
// arbitrary template backgrounds.
func identityStroke(size float64, bold bool, align Align) *TextStyle {
	return &TextStyle{
		FontFamily:  "Arial",
		Size:        size,
		Fill:        "#000000",
		Bold:        bold,
		Align:       align,
		StrokeColor: "#ffffff",
		StrokeWidth: 2,
	}
}

// NewBackgroundLayer creates the template background layer. It always fills
// the surface width and sits beneath every other layer.
func NewBackgroundLayer(source string, img image.Image) *Layer {
	l := &Layer{
		ID:     uuid.NewString(),
		Kind:   KindBackground,
		Locked: true,
		Source: source,
		Bitmap: img,
		Size:   geometry.NewSize(ReferenceSize, ReferenceSize),
	}
	if img != nil {
		b := img.Bounds()
		l.NaturalSize = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
		if b.Dx() > 0 {
			l.Size.Height = ReferenceSize * float64(b.Dy()) / float64(b.Dx())
		}
	}
	return l
}

// NewTextLayer creates a user text layer. Empty content gets placeholder text
// so the layer is visible and selectable.
func NewTextLayer(text string, style TextStyle) *Layer {
	if text == "" {
		text = "New Text"
	}
	if style.FontFamily == "" {
		style = DefaultTextStyle()
	}
	s := style
	return &Layer{
		ID:       uuid.NewString(),
		Kind:     KindUserText,
		Position: geometry.NewPoint2D(50, 50),
		Style:    &s,
		Text:     text,
	}
}

// NewImageLayer creates a user image layer sized so its long edge is half the
// reference width, centered on the canvas. A nil bitmap is permitted; the
// layer then renders as a placeholder region.
func NewImageLayer(source string, img image.Image) *Layer {
	l := &Layer{
		ID:     uuid.NewString(),
		Kind:   KindUserImage,
		Source: source,
		Bitmap: img,
	}
	w, h := 1.0, 1.0
	if img != nil {
		b := img.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
		l.NaturalSize = geometry.NewSize(w, h)
	}
	long := w
	if h > long {
		long = h
	}
	scale := ReferenceSize / 2 / long
	l.Size = geometry.NewSize(w*scale, h*scale)
	l.CreationRatio = l.Size.Width / ReferenceSize
	l.Position = geometry.NewPoint2D(
		(ReferenceSize-l.Size.Width)/2,
		(ReferenceSize-l.Size.Height)/2,
	)
	return l
}

// NewContactLayer creates the locked phone-number layer anchored bottom-left:
// a phone icon with the number alongside.
func NewContactLayer(phoneNumber string, icon image.Image) *Layer {
	l := &Layer{
		ID:       uuid.NewString(),
		Kind:     KindIdentityContact,
		Locked:   true,
		Text:     phoneNumber,
		Source:   "icons/phone.png",
		Bitmap:   icon,
		Position: geometry.NewPoint2D(ContactInsetX, ReferenceSize-ContactInsetY),
		Style:    identityStroke(ContactTextSize, true, AlignLeft),
	}
	if icon != nil {
		b := icon.Bounds()
		l.NaturalSize = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	}
	return l
}

// NewSocialIconLayer creates one locked social icon for the top-right row.
// rowIndex 0 is the rightmost icon.
func NewSocialIconLayer(platform string, icon image.Image, rowIndex int) *Layer {
	l := &Layer{
		ID:       uuid.NewString(),
		Kind:     KindIdentitySocialIcon,
		Locked:   true,
		Text:     platform,
		Source:   "icons/" + platform + ".png",
		Bitmap:   icon,
		RowIndex: rowIndex,
		Size:     geometry.NewSize(SocialIconSize, SocialIconSize),
	}
	l.Position = SocialIconAnchor(rowIndex)
	if icon != nil {
		b := icon.Bounds()
		l.NaturalSize = geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
	}
	return l
}

// NewMessageLayer creates the locked free-text message layer anchored
// bottom-right.
func NewMessageLayer(text string) *Layer {
	return &Layer{
		ID:       uuid.NewString(),
		Kind:     KindIdentityMessage,
		Locked:   true,
		Text:     text,
		Position: geometry.NewPoint2D(ReferenceSize-MessageInsetX, ReferenceSize-MessageInsetY),
		Style:    identityStroke(MessageTextSize, true, AlignRight),
	}
}

// SocialIconAnchor returns the logical top-left anchor of the social icon at
// the given row index, counted from the right edge.
func SocialIconAnchor(rowIndex int) geometry.Point2D {
	x := ReferenceSize - SocialIconInset - SocialIconSize -
		float64(rowIndex)*(SocialIconSize+SocialIconGap)
	return geometry.NewPoint2D(x, SocialIconTop)
}

// Bounds returns the layer's logical bounding box. For text layers this uses
// the measured-size cache, which the renderer keeps current. The message
// layer anchors at its bottom-right corner; everything else at top-left.
func (l *Layer) Bounds() geometry.Rect {
	pos := l.Position
	if l.Kind == KindIdentityMessage {
		pos.X -= l.Size.Width
		pos.Y -= l.Size.Height
	}
	return geometry.NewRect(pos.X, pos.Y, l.Size.Width, l.Size.Height)
}

// ApplyStyle merges a patch into the layer's style. It is the caller's job to
// honor lock rules; this is pure data merging.
func (l *Layer) ApplyStyle(patch StylePatch) {
	if l.Style == nil {
		s := DefaultTextStyle()
		l.Style = &s
	}
	if patch.FontFamily != nil {
		l.Style.FontFamily = *patch.FontFamily
	}
	if patch.Size != nil {
		l.Style.Size = *patch.Size
	}
	if patch.Fill != nil {
		l.Style.Fill = *patch.Fill
	}
	if patch.Bold != nil {
		l.Style.Bold = *patch.Bold
	}
	if patch.Italic != nil {
		l.Style.Italic = *patch.Italic
	}
	if patch.Underline != nil {
		l.Style.Underline = *patch.Underline
	}
	if patch.StrokeColor != nil {
		l.Style.StrokeColor = *patch.StrokeColor
	}
	if patch.StrokeWidth != nil {
		l.Style.StrokeWidth = *patch.StrokeWidth
	}
}
