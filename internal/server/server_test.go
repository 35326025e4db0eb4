package server

import (
	"context"
	"encoding/json"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/CyberJohn04/myfotobooth/internal/camera"
	"github.com/CyberJohn04/myfotobooth/internal/capture"
	"github.com/CyberJohn04/myfotobooth/internal/config"
	"github.com/CyberJohn04/myfotobooth/internal/session"
	"github.com/CyberJohn04/myfotobooth/internal/sticker"
	"github.com/CyberJohn04/myfotobooth/internal/strip"
)

// newTestServer builds a booth on a synthetic feed with millisecond
// sequencer timings. When gated is true the session store starts logged
// out in a temp directory.
func newTestServer(t *testing.T, gated bool) *Server {
	return newTestServerTimings(t, gated, time.Millisecond, time.Millisecond)
}

func newTestServerTimings(t *testing.T, gated bool, tick, pause time.Duration) *Server {
	t.Helper()

	feed := camera.OpenSourceFeed(camera.NewSynthetic(64, 48), 60)
	if !feed.WaitLive(5 * time.Second) {
		feed.Close()
		t.Fatal("synthetic feed never went live")
	}

	var store *session.Store
	if gated {
		store = session.NewStoreAt(filepath.Join(t.TempDir(), "session.json"))
	}

	themes, err := sticker.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	opts := &config.ServeOptions{
		Addr:      "127.0.0.1:0",
		Device:    "none",
		OutputDir: t.TempDir(),
		Countdown: 3,
		Caption:   "Test Booth",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := newServer(opts, feed, store, themes, logger, tick, pause)
	t.Cleanup(func() { s.Close() })
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// runSequence drives one full capture through the HTTP surface.
func runSequence(t *testing.T, h http.Handler) {
	t.Helper()
	w := postForm(t, h, "/capture", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /capture status = %d, body %s", w.Code, w.Body.String())
	}
	var res struct {
		Count int    `json:"count"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("capture response: %v", err)
	}
	if res.Count != capture.DefaultShots {
		t.Fatalf("capture count = %d, want %d", res.Count, capture.DefaultShots)
	}
	if res.Label == "" {
		t.Fatal("capture label is empty")
	}
}

func TestGateRedirectsAnonymous(t *testing.T) {
	s := newTestServer(t, true)
	h := s.Router()

	w := get(t, h, "/")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("GET / status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}

	w = get(t, h, "/login")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /login status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `action="/login"`) {
		t.Error("login page is missing the sign-in form")
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	s := newTestServer(t, true)
	h := s.Router()

	w := postForm(t, h, "/login", url.Values{"name": {"Ada"}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST /login status = %d, body %s", w.Code, w.Body.String())
	}

	w = get(t, h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / after login status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Ada") {
		t.Error("booth page does not show the signed-in name")
	}

	w = postForm(t, h, "/logout", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST /logout status = %d", w.Code)
	}
	if w.Header().Get("Location") != "/login" {
		t.Errorf("logout redirect = %q, want /login", w.Header().Get("Location"))
	}

	if w = get(t, h, "/"); w.Code != http.StatusSeeOther {
		t.Errorf("GET / after logout status = %d, want redirect", w.Code)
	}
}

func TestLoginRejectsEmptyName(t *testing.T) {
	s := newTestServer(t, true)
	w := postForm(t, s.Router(), "/login", url.Values{"name": {"   "}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /login with blank name status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestBoothPageRendersCatalogs(t *testing.T) {
	s := newTestServer(t, false)
	w := get(t, s.Router(), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}
	body := w.Body.String()

	for _, want := range []string{
		`data-key="vintage"`,
		`data-transform="var(--booth-vintage)"`,
		`<option value="cosmic"`,
		`<option value="sparkle"`,
		`--booth-vintage:`,
		`src="/booth.js"`,
		"Test Booth",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("booth page is missing %q", want)
		}
	}
}

func TestScriptRoute(t *testing.T) {
	s := newTestServer(t, false)
	w := get(t, s.Router(), "/booth.js")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /booth.js status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("script content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "refreshPreview") {
		t.Error("script body looks truncated")
	}
}

func TestStatusWhileIdle(t *testing.T) {
	s := newTestServer(t, false)
	w := get(t, s.Router(), "/status")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /status status = %d", w.Code)
	}
	var st statusPayload
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("status payload: %v", err)
	}
	if st.Running {
		t.Error("idle booth reports running")
	}
	if st.Count != 0 {
		t.Errorf("idle count = %d, want 0", st.Count)
	}
	if !st.Live {
		t.Error("synthetic feed should report live")
	}
}

func TestCaptureStatusAndSnapshots(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()
	runSequence(t, h)

	w := get(t, h, "/status")
	var st statusPayload
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("status payload: %v", err)
	}
	if st.Count != capture.DefaultShots {
		t.Errorf("status count = %d, want %d", st.Count, capture.DefaultShots)
	}
	if st.Running {
		t.Error("status reports running after the sequence finished")
	}
	if st.Label == "" {
		t.Error("status label is empty after capture")
	}

	w = get(t, h, "/snapshots/0")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /snapshots/0 status = %d", w.Code)
	}
	img, err := jpeg.Decode(w.Body)
	if err != nil {
		t.Fatalf("snapshot did not decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("snapshot size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}

	w = get(t, h, "/thumbs/0")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /thumbs/0 status = %d", w.Code)
	}
	thumb, err := jpeg.Decode(w.Body)
	if err != nil {
		t.Fatalf("thumb did not decode: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() > 180 || b.Dy() > 135 {
		t.Errorf("thumb size = %dx%d, want at most 180x135", b.Dx(), b.Dy())
	}

	for _, path := range []string{"/snapshots/9", "/snapshots/-1", "/snapshots/abc"} {
		if w = get(t, h, path); w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
}

func TestCaptureBusy(t *testing.T) {
	s := newTestServerTimings(t, false, 30*time.Millisecond, 30*time.Millisecond)
	h := s.Router()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.seq.Run(context.Background())
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !s.seq.Running() {
		if time.Now().After(deadline) {
			t.Fatal("sequencer never started")
		}
		time.Sleep(100 * time.Microsecond)
	}

	w := postForm(t, h, "/capture", nil)
	<-done
	if w.Code != http.StatusConflict {
		t.Fatalf("concurrent POST /capture status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestFilterEndpoint(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	w := postForm(t, h, "/filter", url.Values{"key": {"noir"}})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /filter status = %d, body %s", w.Code, w.Body.String())
	}
	if got := s.currentFilter().Key; got != "noir" {
		t.Errorf("active filter = %q, want noir", got)
	}

	if w = postForm(t, h, "/filter", url.Values{"key": {"blur"}}); w.Code != http.StatusBadRequest {
		t.Errorf("POST /filter with unknown key status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := s.currentFilter().Key; got != "noir" {
		t.Errorf("rejected filter replaced the active one: %q", got)
	}
}

func TestComposeDownload(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()
	runSequence(t, h)

	w := postForm(t, h, "/compose", url.Values{
		"filter": {"grayscale"},
		"style":  {"custom"},
		"color":  {"#e0f7fa"},
		"theme":  {"heart"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /compose status = %d, body %s", w.Code, w.Body.String())
	}

	cd := w.Header().Get("Content-Disposition")
	if !regexp.MustCompile(`^attachment; filename="cosmic-photobooth-\d+\.jpg"$`).MatchString(cd) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	img, err := jpeg.Decode(w.Body)
	if err != nil {
		t.Fatalf("strip did not decode: %v", err)
	}
	wantW, wantH := strip.CanvasSize(capture.DefaultShots)
	if b := img.Bounds(); b.Dx() != wantW || b.Dy() != wantH {
		t.Errorf("strip size = %dx%d, want %dx%d", b.Dx(), b.Dy(), wantW, wantH)
	}

	saved, err := filepath.Glob(filepath.Join(s.opts.OutputDir, config.FilenamePrefix+"*.jpg"))
	if err != nil {
		t.Fatalf("glob output dir: %v", err)
	}
	if len(saved) != 1 {
		t.Errorf("saved strips = %d, want 1", len(saved))
	}
}

func TestComposeWithoutCapture(t *testing.T) {
	s := newTestServer(t, false)
	w := postForm(t, s.Router(), "/compose", url.Values{"style": {"classic"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /compose before capture status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestComposeRejectsBadLook(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()
	runSequence(t, h)

	cases := []struct {
		name string
		form url.Values
	}{
		{"unknown style", url.Values{"style": {"plaid"}}},
		{"unknown theme", url.Values{"theme": {"ghosts"}}},
		{"unknown filter", url.Values{"filter": {"blur"}}},
		{"custom without color", url.Values{"style": {"custom"}, "color": {"not-a-color"}}},
	}
	for _, tc := range cases {
		if w := postForm(t, h, "/compose", tc.form); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, http.StatusBadRequest)
		}
	}
}

func TestPreviewFragment(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()
	runSequence(t, h)

	w := get(t, h, "/preview?style=cosmic&theme=heart&filter=sepia")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /preview status = %d, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()

	for _, want := range []string{
		"pv-strip",
		`src="/snapshots/0"`,
		`src="/snapshots/2"`,
		"/stickers/heart",
		"filter:sepia(0.9)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("preview fragment is missing %q", want)
		}
	}

	stickers := strings.Count(body, "pv-sticker")
	if min, max := 3*7, 3*8; stickers < min || stickers > max {
		t.Errorf("preview stickers = %d, want between %d and %d", stickers, min, max)
	}
}

func TestPreviewWithoutStickers(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()
	runSequence(t, h)

	w := get(t, h, "/preview?style=classic&theme=none")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /preview status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "pv-sticker") {
		t.Error("theme none still placed stickers in the preview")
	}
}

func TestStickerRoute(t *testing.T) {
	s := newTestServer(t, false)
	h := s.Router()

	w := get(t, h, "/stickers/heart")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /stickers/heart status = %d", w.Code)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("sticker did not decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("sticker size = %dx%d, want 128x128", b.Dx(), b.Dy())
	}

	for _, path := range []string{"/stickers/none", "/stickers/ghosts"} {
		if w = get(t, h, path); w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want %d", path, w.Code, http.StatusNotFound)
		}
	}
}

func TestPrintWithoutCapture(t *testing.T) {
	s := newTestServer(t, false)
	w := postForm(t, s.Router(), "/print", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /print before capture status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
