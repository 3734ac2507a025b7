// Package scale maps viewport sizes to render-surface tiers and applies the
// responsive rescale pass.
package scale

import "poster-maker/internal/scene"

// Breakpoint maps viewport widths below Viewport to a fixed square surface.
type Breakpoint struct {
	Viewport float64
	Surface  float64
}

// Breakpoints is the fixed tier table: small, medium, large. The last entry
// is the catch-all.
var Breakpoints = []Breakpoint{
	{Viewport: 450, Surface: 300},
	{Viewport: 768, Surface: 500},
	{Viewport: 0, Surface: 800},
}

// SurfaceFor returns the render-surface size for a viewport width.
func SurfaceFor(viewportWidth float64) float64 {
	for _, bp := range Breakpoints {
		if bp.Viewport > 0 && viewportWidth < bp.Viewport {
			return bp.Surface
		}
	}
	return Breakpoints[len(Breakpoints)-1].Surface
}

// Tiers returns every surface size in the table, ascending.
func Tiers() []float64 {
	tiers := make([]float64, len(Breakpoints))
	for i, bp := range Breakpoints {
		tiers[i] = bp.Surface
	}
	return tiers
}

// Rescale applies the responsive pass for a new surface size. All geometry is
// rewritten in logical units from fixed anchors or creation-time ratios, never
// from the immediately-prior values, so applying the pass twice with the same
// surface is a fixed point and repeated resizes cannot accumulate drift.
//
// Identity layers return to their anchored corners; user image layers take
// the width ratio they had at creation; the background fills the surface
// width. The caller re-renders once after the pass.
func Rescale(s *scene.Scene, surface float64) {
	s.Surface = surface

	for _, l := range s.Layers {
		switch l.Kind {
		case scene.KindBackground:
			l.Position.X, l.Position.Y = 0, 0
			l.Size.Width = s.Reference
			if l.NaturalSize.Width > 0 {
				l.Size.Height = s.Reference * l.NaturalSize.Height / l.NaturalSize.Width
			}
		case scene.KindIdentityContact:
			l.Position.X = scene.ContactInsetX
			l.Position.Y = s.Reference - scene.ContactInsetY
		case scene.KindIdentitySocialIcon:
			l.Position = scene.SocialIconAnchor(l.RowIndex)
			l.Size.Width = scene.SocialIconSize
			l.Size.Height = scene.SocialIconSize
		case scene.KindIdentityMessage:
			l.Position.X = s.Reference - scene.MessageInsetX
			l.Position.Y = s.Reference - scene.MessageInsetY
		case scene.KindUserImage:
			if l.CreationRatio <= 0 {
				continue
			}
			w := l.CreationRatio * s.Reference
			aspect := 1.0
			if l.NaturalSize.Width > 0 {
				aspect = l.NaturalSize.Height / l.NaturalSize.Width
			} else if l.Size.Width > 0 {
				aspect = l.Size.Height / l.Size.Width
			}
			l.Size.Width = w
			l.Size.Height = w * aspect
		}
	}
}
