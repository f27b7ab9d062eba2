package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/1broseidon/desktopmcp/internal/actionlog"
	"github.com/1broseidon/desktopmcp/internal/desktop"
	"github.com/1broseidon/desktopmcp/internal/platform"
)

const (
	ScreensPath    = "/desktop/screens"
	ScreenshotPath = "/desktop/screenshot"
	OpenAPIPath    = "/openapi.json"
	DocsPath       = "/docs"
	MCPPath        = "/mcp"
)

// maxBodyBytes bounds the screenshot request body; a region is four integers.
const maxBodyBytes = 64 << 10

// Options configures the HTTP handler.
type Options struct {
	Backend platform.Backend
	// Logger records actions; nil disables action logging.
	Logger *actionlog.Logger
	// DefaultContextMode is used when a request omits context_mode.
	DefaultContextMode string
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
	// Log receives request failures. Defaults to slog.Default().
	Log *slog.Logger
}

type handler struct {
	backend     platform.Backend
	logger      *actionlog.Logger
	defaultMode string
	log         *slog.Logger
	openapi     []byte
	docs        []byte
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail" jsonschema:"Human readable failure description"`
}

// screenshotRequest mirrors desktop.CaptureRegion with pointer fields so a
// missing coordinate can be told apart from zero.
type screenshotRequest struct {
	X      *int `json:"x"`
	Y      *int `json:"y"`
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

func (r screenshotRequest) region() (desktop.CaptureRegion, error) {
	fields := []struct {
		name string
		val  *int
	}{
		{"x", r.X},
		{"y", r.Y},
		{"width", r.Width},
		{"height", r.Height},
	}
	for _, f := range fields {
		if f.val == nil {
			return desktop.CaptureRegion{}, fmt.Errorf("field required: %s", f.name)
		}
	}
	return desktop.CaptureRegion{X: *r.X, Y: *r.Y, Width: *r.Width, Height: *r.Height}, nil
}

// NewHandler returns the HTTP surface serving screen enumeration, region
// capture, the OpenAPI document and its docs page.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Backend == nil {
		return nil, errors.New("httpapi: backend is required")
	}

	doc, err := openAPIDocument()
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}
	docs, err := renderDocs(OpenAPIPath)
	if err != nil {
		return nil, fmt.Errorf("render docs page: %w", err)
	}

	h := &handler{
		backend:     opts.Backend,
		logger:      opts.Logger,
		defaultMode: opts.DefaultContextMode,
		log:         opts.Log,
		openapi:     doc,
		docs:        docs,
	}
	if h.defaultMode == "" {
		h.defaultMode = string(desktop.DefaultContextMode)
	}
	if h.log == nil {
		h.log = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+ScreensPath, h.handleScreens)
	mux.HandleFunc("POST "+ScreenshotPath, h.handleScreenshot)
	mux.HandleFunc("GET "+OpenAPIPath, h.handleOpenAPI)
	mux.HandleFunc("GET "+DocsPath, h.handleDocs)
	if opts.MCP != nil {
		mux.Handle(MCPPath, opts.MCP)
	}
	return mux, nil
}

func (h *handler) handleScreens(w http.ResponseWriter, r *http.Request) {
	screens, err := desktop.ListScreens(r.Context(), h.backend)
	if err != nil {
		h.logger.Log(actionlog.ActionScreens, "http", map[string]interface{}{
			"error": err.Error(),
		})
		h.writeError(w, r, err)
		return
	}

	h.logger.Log(actionlog.ActionScreens, "http", map[string]interface{}{
		"count": len(screens),
	})
	writeJSON(w, http.StatusOK, screens)
}

func (h *handler) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("context_mode")
	if mode == "" {
		mode = h.defaultMode
	}

	var req screenshotRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: fmt.Sprintf("invalid request body: %v", err)})
		return
	}
	region, err := req.region()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: err.Error()})
		return
	}

	details := map[string]interface{}{
		"x":            region.X,
		"y":            region.Y,
		"width":        region.Width,
		"height":       region.Height,
		"context_mode": mode,
	}

	res, err := desktop.Screenshot(r.Context(), h.backend, region, mode)
	if err != nil {
		details["error"] = err.Error()
		details["kind"] = desktop.KindOf(err).String()
		h.logger.Log(actionlog.ActionScreenshot, "http", details)
		h.writeError(w, r, err)
		return
	}

	details["out_width"] = res.Width
	details["out_height"] = res.Height
	details["bytes"] = len(res.Image)
	h.logger.Log(actionlog.ActionScreenshot, "http", details)
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openapi)
}

func (h *handler) handleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.docs)
}

// statusFor maps an error kind to its response class.
func statusFor(err error) int {
	if desktop.KindOf(err) == desktop.KindInvalidInput {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"kind", desktop.KindOf(err).String(),
			"err", err,
		)
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
