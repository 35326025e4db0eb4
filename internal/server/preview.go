package server

import (
	"fmt"
	"html/template"
	"math/rand"
	"net/http"
	"time"

	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/style"
)

type previewSticker struct {
	Style template.CSS
}

type previewPhoto struct {
	Index    int
	Style    template.CSS
	Stickers []previewSticker
}

type previewData struct {
	Background template.CSS
	Caption    string
	Label      string
	StickerURL string
	Photos     []previewPhoto
}

// handlePreview renders a DOM approximation of the strip so the page can
// show the current look without composing a JPEG. Sticker placement is
// rolled fresh on every call; the composite rolls its own.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, code, err := s.buildRequest(r)
	if err != nil {
		jsonErr(w, err.Error(), code)
		return
	}

	data := previewData{
		Background: template.CSS("background:" + req.Style.PreviewFill(&style.Context{CustomColor: req.CustomColor})),
		Caption:    s.caption(),
		Label:      req.Label,
	}
	if data.Label == "" {
		data.Label = time.Now().Format(capture.LabelFormat)
	}

	stickers := !req.Theme.Disabled()
	if stickers {
		data.StickerURL = "/stickers/" + req.Theme.Key
	}

	css := "filter:none"
	if req.Filter.Transform != "" {
		css = "filter:" + req.Filter.Transform
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range req.Snapshots {
		p := previewPhoto{Index: i, Style: template.CSS(css)}
		if stickers {
			// Same density as the composite: seven or eight per photo.
			for j := 7 + rng.Intn(2); j > 0; j-- {
				p.Stickers = append(p.Stickers, previewSticker{Style: placement(rng)})
			}
		}
		data.Photos = append(data.Photos, p)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTmpl.Execute(w, data); err != nil {
		s.logger.Error("render preview", "err", err)
	}
}

// placement positions one sticker in percent space so the fragment scales
// with the page.
func placement(rng *rand.Rand) template.CSS {
	left := rng.Float64() * 100
	top := rng.Float64() * 100
	rot := (rng.Float64()*2 - 1) * 45
	return template.CSS(fmt.Sprintf("left:%.1f%%;top:%.1f%%;transform:translate(-50%%,-50%%) rotate(%.1fdeg)", left, top, rot))
}
