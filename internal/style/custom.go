package style

import (
	"fmt"

	"github.com/fogleman/gg"

	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

type Custom struct{}

func init() {
	Register(&Custom{})
}

func (s *Custom) GetName() string {
	return "Custom Color"
}

func (s *Custom) GetKey() string {
	return string(types.StripStyleCustom)
}

func (s *Custom) NeedsColor() bool {
	return true
}

// Paint fills the whole canvas with the caller's color and nothing else.
// The fill must match the requested value channel for channel.
func (s *Custom) Paint(dc *gg.Context, w, h int, ctx *Context) error {
	if ctx == nil || ctx.CustomColor == "" {
		return fmt.Errorf("custom style requires a color")
	}
	hex, err := NormalizeColor(ctx.CustomColor)
	if err != nil {
		return err
	}
	fill(dc, hex)
	return nil
}

func (s *Custom) PreviewFill(ctx *Context) string {
	if ctx == nil {
		return "#ffffff"
	}
	hex, err := NormalizeColor(ctx.CustomColor)
	if err != nil {
		return "#ffffff"
	}
	return hex
}
