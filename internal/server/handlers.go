package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/filter"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
	"github.com/CyberJohn04/myfotobooth/internal/strip"
	"github.com/CyberJohn04/myfotobooth/internal/style"
)

//go:embed booth.js
var boothScript []byte

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.gate.Active() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginTmpl.Execute(w, loginData{Caption: s.caption()}); err != nil {
		s.logger.Error("render login", "err", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if err := s.store.Login(name); err != nil {
		jsonErr(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info("session started", "name", name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Logout(); err != nil {
			jsonErr(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Info("session ended")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(boothScript)
}

func (s *Server) handleBooth(w http.ResponseWriter, r *http.Request) {
	data := boothData{
		Caption:   s.caption(),
		User:      s.userName(),
		Countdown: s.opts.Countdown,
		Filters:   filter.List(),
		Themes:    s.themes.List(),
		Live:      s.feed.Live(),
		NoGate:    s.store == nil,
		CSS:       boothCSS(s.env),
	}
	for _, st := range style.List() {
		data.Styles = append(data.Styles, styleOption{
			Key:        st.GetKey(),
			Name:       st.GetName(),
			NeedsColor: st.NeedsColor(),
			Fill:       st.PreviewFill(&style.Context{}),
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := boothTmpl.Execute(w, data); err != nil {
		s.logger.Error("render booth", "err", err)
	}
}

// handleStream relays the camera feed as multipart MJPEG. The connection
// stays open until the client leaves or the feed dies.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonErr(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	frames, cancel := s.feed.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, open := <-frames:
			if !open {
				return
			}
			if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			if _, err := io.WriteString(w, "\r\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type statusPayload struct {
	Running   bool   `json:"running"`
	Shot      int    `json:"shot"`
	Remaining int    `json:"remaining"`
	Count     int    `json:"count"`
	Live      bool   `json:"live"`
	Label     string `json:"label,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := statusPayload{Shot: s.shot, Remaining: s.remain}
	if s.last != nil {
		st.Label = s.last.Label
	}
	s.mu.Unlock()
	st.Running = s.seq.Running()
	st.Count = len(s.seq.Snapshots())
	st.Live = s.feed.Live()
	writeJSON(w, st)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	f, err := filter.Get(r.FormValue("key"))
	if err != nil {
		jsonErr(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.active = f
	s.mu.Unlock()
	writeJSON(w, map[string]string{"key": f.Key, "transform": f.Transform})
}

// handleCapture runs the full countdown sequence and blocks until it
// finishes. The page polls /status for progress in the meantime.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	res, err := s.seq.Run(r.Context())
	switch {
	case errors.Is(err, capture.ErrBusy):
		jsonErr(w, "capture already running", http.StatusConflict)
		return
	case errors.Is(err, capture.ErrNoSource):
		jsonErr(w, "camera unavailable", http.StatusServiceUnavailable)
		return
	case err != nil:
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	s.logger.Info("sequence captured", "count", len(res.Snapshots), "label", res.Label)
	writeJSON(w, map[string]any{"count": len(res.Snapshots), "label": res.Label})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotParam(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(snap.Data)
}

func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotParam(w, r)
	if !ok {
		return
	}
	img, err := snap.Decode()
	if err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}
	thumb := resize.Thumbnail(180, 135, img, resize.Bilinear)
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	if err := writeJPEG(w, thumb, 75); err != nil {
		s.logger.Error("encode thumb", "err", err)
	}
}

func (s *Server) handleSticker(w http.ResponseWriter, r *http.Request) {
	theme, err := s.themes.Get(chi.URLParam(r, "key"))
	if err != nil || theme.Disabled() {
		jsonErr(w, "no such sticker theme", http.StatusNotFound)
		return
	}
	img, err := sticker.Load(theme.Images[0])
	if err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	if err := png.Encode(w, img); err != nil {
		s.logger.Error("encode sticker", "err", err)
	}
}

// handleCompose renders the strip from the last capture and the submitted
// look, saves a copy into the output directory, and sends it back as a
// download.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	req, code, err := s.buildRequest(r)
	if err != nil {
		jsonErr(w, err.Error(), code)
		return
	}
	art, err := strip.Compose(r.Context(), req)
	if err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if path, err := art.WriteFile(s.opts.OutputDir); err != nil {
		s.logger.Warn("could not save strip", "err", err)
	} else {
		s.logger.Info("strip saved", "path", path)
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
	w.Write(art.Data)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	req, code, err := s.buildRequest(r)
	if err != nil {
		jsonErr(w, err.Error(), code)
		return
	}
	art, err := strip.Compose(r.Context(), req)
	if err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}
	path, err := art.WriteFile(os.TempDir())
	if err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := strip.Print(r.Context(), path); err != nil {
		jsonErr(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.logger.Info("strip printed", "path", path)
	writeJSON(w, map[string]string{"status": "sent to printer", "file": art.Filename})
}

// buildRequest validates the submitted look against the catalogs and pairs
// it with the snapshots from the last run. The returned code only matters
// when err is non-nil.
func (s *Server) buildRequest(r *http.Request) (*strip.Request, int, error) {
	snaps := s.seq.Snapshots()
	if len(snaps) == 0 {
		return nil, http.StatusBadRequest, errors.New("nothing captured yet")
	}

	f, err := filter.Get(formValue(r, "filter", filter.NoFilter().Key))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	st, err := style.Get(formValue(r, "style", "classic"))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	color := r.FormValue("color")
	if st.NeedsColor() {
		color, err = style.NormalizeColor(color)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
	}
	theme, err := s.themes.Get(formValue(r, "theme", "none"))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	req := &strip.Request{
		Snapshots:   snaps,
		Style:       st,
		CustomColor: color,
		Filter:      f,
		StyleEnv:    s.env,
		Theme:       theme,
		Caption:     s.opts.Caption,
		FontPath:    s.opts.FontPath,
		Verbose:     s.opts.Verbose,
	}
	s.mu.Lock()
	if s.last != nil {
		req.Label = s.last.Label
		req.TakenAt = s.last.StartedAt
	}
	s.mu.Unlock()
	return req, 0, nil
}

func (s *Server) snapshotParam(w http.ResponseWriter, r *http.Request) (capture.Snapshot, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	snaps := s.seq.Snapshots()
	if err != nil || idx < 0 || idx >= len(snaps) {
		jsonErr(w, "no such snapshot", http.StatusNotFound)
		return capture.Snapshot{}, false
	}
	return snaps[idx], true
}

func (s *Server) caption() string {
	if s.opts.Caption != "" {
		return s.opts.Caption
	}
	return config.DefaultCaption
}

func (s *Server) userName() string {
	if s.store == nil {
		return ""
	}
	name, _ := s.store.Current()
	return name
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func writeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
