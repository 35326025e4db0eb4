package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTransform parses a chain of stylesheet filter functions, such as
// "grayscale(1) contrast(1.35)", into a single matrix. Functions apply
// left to right. Amounts accept plain numbers or percentages; hue-rotate
// takes an angle in degrees.
func ParseTransform(s string) (Matrix, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return Identity(), nil
	}

	m := Identity()
	rest := s
	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			break
		}
		open := strings.IndexByte(rest, '(')
		end := strings.IndexByte(rest, ')')
		if open < 0 || end < open {
			return Matrix{}, fmt.Errorf("malformed filter function near %q", rest)
		}
		name := strings.TrimSpace(rest[:open])
		arg := strings.TrimSpace(rest[open+1 : end])
		rest = rest[end+1:]

		step, err := functionMatrix(name, arg)
		if err != nil {
			return Matrix{}, err
		}
		m = Compose(step, m)
	}
	return m, nil
}

func functionMatrix(name, arg string) (Matrix, error) {
	if name == "hue-rotate" {
		deg, err := parseAngle(arg)
		if err != nil {
			return Matrix{}, err
		}
		return HueRotate(deg), nil
	}

	amount, err := parseAmount(arg)
	if err != nil {
		return Matrix{}, err
	}
	switch name {
	case "grayscale":
		return Grayscale(amount), nil
	case "sepia":
		return Sepia(amount), nil
	case "saturate":
		return Saturate(amount), nil
	case "brightness":
		return Brightness(amount), nil
	case "contrast":
		return Contrast(amount), nil
	case "invert":
		return Invert(amount), nil
	case "opacity":
		return Opacity(amount), nil
	}
	return Matrix{}, fmt.Errorf("unsupported filter function: %s", name)
}

func parseAmount(s string) (float64, error) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid filter amount %q", s)
		}
		return v / 100, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid filter amount %q", s)
	}
	return v, nil
}

func parseAngle(s string) (float64, error) {
	deg := strings.TrimSuffix(s, "deg")
	v, err := strconv.ParseFloat(strings.TrimSpace(deg), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid filter angle %q", s)
	}
	return v, nil
}
