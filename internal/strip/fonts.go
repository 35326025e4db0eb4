package strip

import (
	"os"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/opentype"

	"github.com/CyberJohn04/myfotobooth/internal/config"
)

// faces holds the two text faces a strip draws with.
type faces struct {
	header font.Face
	label  font.Face
}

// loadFaces prepares the caption faces: the bundled Go fonts by default,
// or a caller-supplied TTF used for both sizes.
func loadFaces(fontPath string) (*faces, error) {
	if fontPath == "" {
		header, err := goFace(gobold.TTF, config.HeaderTextSize)
		if err != nil {
			return nil, err
		}
		label, err := goFace(goitalic.TTF, config.LabelTextSize)
		if err != nil {
			return nil, err
		}
		return &faces{header: header, label: label}, nil
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read font %s", fontPath)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse font %s", fontPath)
	}
	return &faces{
		header: truetype.NewFace(f, &truetype.Options{
			Size:    config.HeaderTextSize,
			DPI:     72,
			Hinting: font.HintingFull,
		}),
		label: truetype.NewFace(f, &truetype.Options{
			Size:    config.LabelTextSize,
			DPI:     72,
			Hinting: font.HintingFull,
		}),
	}, nil
}

func goFace(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return face, nil
}
