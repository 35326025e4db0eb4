// Package filter holds the photobooth filter catalog and the color-matrix
// engine that renders each filter onto raster images.
//
// Every filter carries its transform in two interchangeable forms: the
// Transform string is handed to browsers as a live stylesheet filter, and
// Resolve turns the same string into a Matrix for offscreen compositing.
package filter

import (
	"fmt"
	"strings"
)

// Filter is one catalog entry. Key identifies it in options and URLs,
// Transform is the stylesheet filter chain it applies.
type Filter struct {
	Name      string
	Key       string
	Transform string
}

// StyleEnv maps stylesheet variable names to concrete filter chains.
// Transforms written as var() references resolve against it.
type StyleEnv map[string]string

// DefaultStyleEnv returns the variables the booth page defines.
func DefaultStyleEnv() StyleEnv {
	return StyleEnv{
		"--booth-vintage": "sepia(0.45) contrast(1.1) brightness(1.08) saturate(1.25)",
	}
}

var catalog = []Filter{
	{Name: "No Filter", Key: "none", Transform: "none"},
	{Name: "Grayscale", Key: "grayscale", Transform: "grayscale(1)"},
	{Name: "Sepia", Key: "sepia", Transform: "sepia(0.9)"},
	{Name: "Vintage", Key: "vintage", Transform: "var(--booth-vintage)"},
	{Name: "Soft", Key: "soft", Transform: "brightness(1.08) saturate(0.82) contrast(0.95)"},
	{Name: "Noir", Key: "noir", Transform: "grayscale(1) contrast(1.35) brightness(0.9)"},
	{Name: "Vivid", Key: "vivid", Transform: "saturate(1.55) contrast(1.12)"},
}

// List returns the catalog in display order.
func List() []Filter {
	out := make([]Filter, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the filter with the given key.
func Get(key string) (Filter, error) {
	for _, f := range catalog {
		if f.Key == key {
			return f, nil
		}
	}
	return Filter{}, fmt.Errorf("unsupported filter: %s", key)
}

// NoFilter returns the identity catalog entry.
func NoFilter() Filter {
	return catalog[0]
}

// Resolve turns the filter's transform into a raster matrix. Transforms
// written as a variable reference are looked up in env first; offscreen
// surfaces never see page-level variables, so composition must resolve
// them here. Anything unresolvable falls back to the identity matrix so a
// bad transform degrades to an unfiltered photo instead of failing the
// composite.
func (f Filter) Resolve(env StyleEnv) Matrix {
	t := strings.TrimSpace(f.Transform)
	if name, ok := varRef(t); ok {
		concrete, found := env[name]
		if !found {
			return Identity()
		}
		t = concrete
	}
	m, err := ParseTransform(t)
	if err != nil {
		return Identity()
	}
	return m
}

func varRef(s string) (string, bool) {
	if !strings.HasPrefix(s, "var(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return strings.TrimSpace(s[len("var(") : len(s)-1]), true
}
