// Package style holds the strip background styles. Each style knows how to
// paint the raster background for composition and what stylesheet fill
// approximates it for the on-screen preview.
package style

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"strings"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Context carries the per-composite inputs a style may paint with.
type Context struct {
	// CustomColor is the caller-supplied hex fill, for styles that take one.
	CustomColor string
	// Photos are the decoded snapshots, for content-aware styles.
	Photos []image.Image
	// Rand drives ornament jitter so seeded composites reproduce exactly.
	Rand *rand.Rand
}

// Style is implemented by each strip background.
type Style interface {
	// GetName returns the display name.
	GetName() string

	// GetKey returns the option and URL key.
	GetKey() string

	// NeedsColor reports whether the style expects a caller-supplied color.
	NeedsColor() bool

	// Paint fills the w by h canvas background.
	Paint(dc *gg.Context, w, h int, ctx *Context) error

	// PreviewFill returns the stylesheet background approximating the
	// painted result. Previews accept drift; the artifact is the truth.
	PreviewFill(ctx *Context) string
}

var styles = make(map[string]Style)
var order []string

// Register adds a style to the registry.
func Register(s Style) {
	if _, ok := styles[s.GetKey()]; !ok {
		order = append(order, s.GetKey())
	}
	styles[s.GetKey()] = s
}

// Get returns a style by key.
func Get(key string) (Style, error) {
	s, ok := styles[key]
	if !ok {
		return nil, fmt.Errorf("unsupported style: %s", key)
	}
	return s, nil
}

// List returns the registered styles in registration order.
func List() []Style {
	out := make([]Style, 0, len(order))
	for _, key := range order {
		out = append(out, styles[key])
	}
	return out
}

// GetSupportedStyles returns the registered style keys.
func GetSupportedStyles() []string {
	keys := make([]string, len(order))
	copy(keys, order)
	return keys
}

// NormalizeColor validates a hex fill and returns it in leading-# form.
func NormalizeColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", fmt.Errorf("color is required")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if _, err := colorful.Hex(s); err != nil {
		return "", fmt.Errorf("invalid color %q: %v", s, err)
	}
	return s, nil
}

func fill(dc *gg.Context, hex string) {
	dc.SetHexColor(hex)
	dc.Clear()
}

func randOf(ctx *Context) *rand.Rand {
	if ctx == nil {
		return nil
	}
	return ctx.Rand
}

func jitter(r *rand.Rand, amount float64) float64 {
	if r == nil {
		return 0
	}
	return (r.Float64()*2 - 1) * amount
}

// starPath traces a star polygon, alternating outer and inner radius.
func starPath(dc *gg.Context, cx, cy float64, points int, outer, inner, phase float64) {
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := phase + float64(i)*math.Pi/float64(points)
		if i == 0 {
			dc.MoveTo(cx+r*math.Cos(a), cy+r*math.Sin(a))
		} else {
			dc.LineTo(cx+r*math.Cos(a), cy+r*math.Sin(a))
		}
	}
	dc.ClosePath()
}
