// Package sticker holds the decorative sticker themes scattered over photo
// strips. Each theme lists image locators: builtin: locators render vector
// glyphs in memory, file: locators decode an image from disk.
package sticker

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Theme is a named set of sticker image locators. The "none" theme carries
// no images and disables sticker rendering entirely.
type Theme struct {
	Name   string
	Key    string
	Images []string
}

// Disabled reports whether the theme draws nothing.
func (t Theme) Disabled() bool {
	return len(t.Images) == 0
}

var builtins = []Theme{
	{Name: "None", Key: "none"},
	{Name: "Hearts", Key: "heart", Images: []string{"builtin:heart"}},
	{Name: "Stars", Key: "star", Images: []string{"builtin:star"}},
	{Name: "Sparkles", Key: "sparkle", Images: []string{"builtin:sparkle"}},
	{Name: "Blooms", Key: "bloom", Images: []string{"builtin:bloom"}},
}

// Catalog is the theme table, assembled once at startup and read-only
// afterwards.
type Catalog struct {
	themes []Theme
}

// NewCatalog returns the builtin themes plus any extras from the booth
// file. Extras may not shadow a builtin key or each other.
func NewCatalog(extra ...Theme) (*Catalog, error) {
	c := &Catalog{themes: make([]Theme, len(builtins), len(builtins)+len(extra))}
	copy(c.themes, builtins)

	for _, t := range extra {
		if t.Key == "" {
			return nil, fmt.Errorf("sticker theme %q has no key", t.Name)
		}
		if _, err := c.Get(t.Key); err == nil {
			return nil, fmt.Errorf("duplicate sticker theme key: %s", t.Key)
		}
		if t.Name == "" {
			t.Name = t.Key
		}
		c.themes = append(c.themes, t)
	}
	return c, nil
}

// List returns the themes in display order.
func (c *Catalog) List() []Theme {
	out := make([]Theme, len(c.themes))
	copy(out, c.themes)
	return out
}

// Get returns the theme with the given key.
func (c *Catalog) Get(key string) (Theme, error) {
	for _, t := range c.themes {
		if t.Key == key {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("unsupported sticker theme: %s", key)
}

// None returns the disabled theme.
func (c *Catalog) None() Theme {
	return c.themes[0]
}

// Load resolves one image locator. A failed load is the caller's cue to
// skip the sticker; decoration never fails a strip.
func Load(locator string) (image.Image, error) {
	switch {
	case strings.HasPrefix(locator, "builtin:"):
		return renderGlyph(strings.TrimPrefix(locator, "builtin:"))
	case strings.HasPrefix(locator, "file:"):
		return loadFile(strings.TrimPrefix(locator, "file:"))
	}
	return nil, fmt.Errorf("unsupported sticker locator: %s", locator)
}

func loadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sticker %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode sticker %s", path)
	}
	return img, nil
}
