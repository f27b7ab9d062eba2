package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chai2010/webp"

	"github.com/1broseidon/desktopmcp/internal/desktop"
	"github.com/1broseidon/desktopmcp/internal/platform/platformtest"
)

func newTestHandler(t *testing.T, b *platformtest.Backend, opts Options) http.Handler {
	t.Helper()
	opts.Backend = b
	opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	h, err := NewHandler(opts)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Detail
}

func TestNewHandler_RequiresBackend(t *testing.T) {
	if _, err := NewHandler(Options{}); err == nil {
		t.Fatal("expected error without backend")
	}
}

func TestScreens(t *testing.T) {
	h := newTestHandler(t, &platformtest.Backend{DisplayList: platformtest.ThreeHorizontal()}, Options{})

	rec := do(t, h, http.MethodGet, ScreensPath, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var screens []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &screens); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(screens) != 3 {
		t.Fatalf("len = %d, want 3", len(screens))
	}
	for _, key := range []string{"x", "y", "width", "height", "name", "is_primary", "width_mm", "height_mm"} {
		if _, ok := screens[0][key]; !ok {
			t.Fatalf("screen missing %q: %v", key, screens[0])
		}
	}
	if screens[1]["x"].(float64) != 1920 || screens[0]["is_primary"] != true {
		t.Fatalf("unexpected screens: %v", screens)
	}
}

func TestScreens_EnumerationFailure(t *testing.T) {
	h := newTestHandler(t, &platformtest.Backend{DisplaysErr: errors.New("randr missing")}, Options{})

	rec := do(t, h, http.MethodGet, ScreensPath, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Screen enumeration failed: randr missing" {
		t.Fatalf("detail = %q", got)
	}
}

func TestScreenshot_OK(t *testing.T) {
	tests := []struct {
		query      string
		defaultMod string
		wantW      int
		wantH      int
	}{
		{"", "", 600, 337},
		{"?context_mode=NORMAL", "", 800, 450},
		{"?context_mode=detailed", "", 1200, 675},
		{"", "normal", 800, 450},
	}
	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.defaultMod, func(t *testing.T) {
			b := &platformtest.Backend{}
			h := newTestHandler(t, b, Options{DefaultContextMode: tt.defaultMod})

			rec := do(t, h, http.MethodPost, ScreenshotPath+tt.query, `{"x":0,"y":0,"width":1920,"height":1080}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}

			var res desktop.ScreenshotResult
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(res.Context) != 1 {
				t.Fatalf("context len = %d", len(res.Context))
			}
			block := res.Context[0]
			if block.Type != "image" || block.Source.Type != "base64" || block.Source.MediaType != "image/webp" {
				t.Fatalf("unexpected block: %+v", block)
			}
			raw, err := base64.StdEncoding.DecodeString(block.Source.Data)
			if err != nil {
				t.Fatalf("base64: %v", err)
			}
			cfg, err := webp.DecodeConfig(bytes.NewReader(raw))
			if err != nil {
				t.Fatalf("webp: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Fatalf("decoded %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestScreenshot_ClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		wantDetail string
	}{
		{"bogus mode", ScreenshotPath + "?context_mode=bogus", `{"x":0,"y":0,"width":10,"height":10}`, "unknown context mode"},
		{"malformed body", ScreenshotPath, `{"x":0,`, "invalid request body"},
		{"wrong type", ScreenshotPath, `{"x":"left","y":0,"width":10,"height":10}`, "invalid request body"},
		{"missing field", ScreenshotPath, `{"x":0,"y":0,"width":10}`, "field required: height"},
		{"empty region", ScreenshotPath, `{"x":0,"y":0,"width":0,"height":10}`, "positive width and height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &platformtest.Backend{}
			h := newTestHandler(t, b, Options{})

			rec := do(t, h, http.MethodPost, tt.target, tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422 (body %s)", rec.Code, rec.Body.String())
			}
			if got := decodeDetail(t, rec); !strings.Contains(got, tt.wantDetail) {
				t.Fatalf("detail = %q, want it to contain %q", got, tt.wantDetail)
			}
			if n := len(b.Captures()); n != 0 {
				t.Fatalf("captures = %d, want 0", n)
			}
		})
	}
}

func TestScreenshot_CaptureFailure(t *testing.T) {
	h := newTestHandler(t, &platformtest.Backend{CaptureErr: errors.New("simulated driver error")}, Options{})

	rec := do(t, h, http.MethodPost, ScreenshotPath, `{"x":0,"y":0,"width":100,"height":100}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeDetail(t, rec); got != "Screenshot capture failed: simulated driver error" {
		t.Fatalf("detail = %q", got)
	}
}

func TestScreenshot_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &platformtest.Backend{}, Options{})

	rec := do(t, h, http.MethodGet, ScreenshotPath, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	h := newTestHandler(t, &platformtest.Backend{}, Options{})

	rec := do(t, h, http.MethodGet, OpenAPIPath, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var doc struct {
		OpenAPI string                               `json:"openapi"`
		Paths   map[string]map[string]map[string]any `json:"paths"`
		Comps   struct {
			Schemas map[string]map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.OpenAPI != "3.1.0" {
		t.Fatalf("openapi = %q", doc.OpenAPI)
	}
	if got := doc.Paths[ScreensPath]["get"]["operationId"]; got != "get_screen_info" {
		t.Fatalf("screens operationId = %v", got)
	}
	if got := doc.Paths[ScreenshotPath]["post"]["operationId"]; got != "desktop_take_screenshot" {
		t.Fatalf("screenshot operationId = %v", got)
	}
	for _, name := range []string{"ScreenInfo", "CaptureRegion", "ScreenshotResult", "ErrorResponse"} {
		if _, ok := doc.Comps.Schemas[name]; !ok {
			t.Fatalf("missing schema %s", name)
		}
	}
	props, _ := doc.Comps.Schemas["ScreenInfo"]["properties"].(map[string]any)
	if _, ok := props["is_primary"]; !ok {
		t.Fatalf("ScreenInfo schema missing is_primary: %v", doc.Comps.Schemas["ScreenInfo"])
	}
}

func TestDocsPage(t *testing.T) {
	h := newTestHandler(t, &platformtest.Backend{}, Options{})

	rec := do(t, h, http.MethodGet, DocsPath, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "swagger-ui") || !strings.Contains(body, "openapi.json") {
		t.Fatalf("docs page does not reference the OpenAPI document:\n%s", body)
	}
}

func TestMCPMount(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := newTestHandler(t, &platformtest.Backend{}, Options{MCP: mcpHandler})
	if rec := do(t, h, http.MethodPost, MCPPath, "{}"); rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want mounted handler", rec.Code)
	}

	h = newTestHandler(t, &platformtest.Backend{}, Options{})
	if rec := do(t, h, http.MethodPost, MCPPath, "{}"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 without MCP", rec.Code)
	}
}
