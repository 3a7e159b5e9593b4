// Package server exposes an HTTP server with a WebSocket endpoint that
// streams per-page progress events while a document is processed, plus a
// Prometheus metrics endpoint.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tsawler/layoutmd/internal/document"
)

// jobRequest is the single message a client sends right after the
// WebSocket handshake: the language to recognize and the already
// rasterized page images to process.
type jobRequest struct {
	Language string          `json:"language"`
	Pages    []requestedPage `json:"pages"`
}

type requestedPage struct {
	Number int    `json:"number"`
	Bytes  []byte `json:"bytes"` // base64-decoded automatically by encoding/json
}

// upgrader uses gorilla/websocket's defaults; origin checking is left
// permissive since this server is intended for local/trusted network use.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ProgressEvent is one message pushed to a connected client as processing
// advances.
type ProgressEvent struct {
	Type    string `json:"type"` // "page_done", "completed", "error"
	Page    int    `json:"page,omitempty"`
	Total   int    `json:"total,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server serves the progress-streaming WebSocket endpoint and a
// Prometheus metrics endpoint.
type Server struct {
	Driver *document.Driver
	Logger *slog.Logger
}

// New constructs a Server, falling back to the default logger if logger
// is nil.
func New(driver *document.Driver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Driver: driver, Logger: logger}
}

// Routes returns the server's HTTP mux: /ws for progress streaming and
// /metrics for Prometheus scraping.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleProgress)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// handleProgress upgrades to a WebSocket, reads one jobRequest describing
// the document to process, then streams a "page_done" ProgressEvent as
// each page finishes OCR recognition, followed by a final "completed"
// event carrying the rendered Markdown (or an "error" event on failure).
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	send := func(evt ProgressEvent) {
		data, err := json.Marshal(evt)
		if err != nil {
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.Logger.Error("websocket write failed", "error", err)
		}
	}

	var req jobRequest
	if err := conn.ReadJSON(&req); err != nil {
		send(ProgressEvent{Type: "error", Error: "invalid job request: " + err.Error()})
		return
	}

	pages := make([]document.PageImage, len(req.Pages))
	for i, p := range req.Pages {
		pages[i] = document.PageImage{Number: p.Number, Bytes: p.Bytes}
	}

	md, err := s.Driver.ProcessWithProgress(r.Context(), req.Language, pages, func(pageNumber, total int) {
		send(ProgressEvent{Type: "page_done", Page: pageNumber, Total: total})
	})
	if err != nil {
		send(ProgressEvent{Type: "error", Error: err.Error()})
		return
	}
	send(ProgressEvent{Type: "completed", Message: md})
}

// Serve runs the HTTP server on addr until ctx is canceled.
func Serve(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s.Routes()}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
