// Package api exposes the brain over HTTP: a chat endpoint, health and
// brain-info endpoints, and an SSE stream. Agents are built per request so
// concurrent clients never multiplex one brain's state.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cerebraai/cerebra/internal/llm"
	"github.com/cerebraai/cerebra/internal/logging"
)

// DefaultPort is used when no port is configured.
const DefaultPort = 17971

// Agent is the slice of the brain the API consumes.
type Agent interface {
	Name() string
	Reply(history []llm.Message) string
}

// Options configures the server. Build is called with the configured brain
// name for every chat request and stream connection.
type Options struct {
	Brain  string
	Port   int
	Build  func(name string) (Agent, error)
	Logger logging.Logger
}

// Server serves the integration API.
type Server struct {
	opts Options
}

func New(opts Options) (*Server, error) {
	if opts.Build == nil {
		return nil, errors.New("api: agent builder is required")
	}
	if opts.Port <= 0 {
		opts.Port = DefaultPort
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	return &Server{opts: opts}, nil
}

// Port returns the port the server binds.
func (s *Server) Port() int { return s.opts.Port }

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat", s.handleChat)
	mux.HandleFunc("POST /v1/messages", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleHealth)
	mux.HandleFunc("GET /v1/brain", s.handleBrainInfo)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run blocks serving requests until the context is canceled or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.opts.Logger.Info(ctx, "api listening", logging.Field("port", s.opts.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: serve: %w", err)
	}
	return nil
}

type chatRequest struct {
	Content   string `json:"content"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

func (r chatRequest) text() string {
	if c := strings.TrimSpace(r.Content); c != "" {
		return c
	}
	return strings.TrimSpace(r.Message)
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, chatResponse{Error: "invalid json"})
		return
	}
	content := req.text()
	if content == "" {
		writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Error: "empty content"})
		return
	}
	agent, err := s.opts.Build(s.opts.Brain)
	if err != nil {
		writeJSON(w, http.StatusOK, chatResponse{SessionID: req.SessionID, Error: err.Error()})
		return
	}
	reply := agent.Reply([]llm.Message{{Role: "user", Content: content}})
	s.opts.Logger.Debug(r.Context(), "chat served", logging.Field("chars", len(reply)))
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: req.SessionID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBrainInfo(w http.ResponseWriter, _ *http.Request) {
	name := s.opts.Brain
	if name == "" {
		name = "default"
	}
	writeJSON(w, http.StatusOK, map[string]string{"brain": name, "status": "ok"})
}

// handleStream answers one prompt over Server-Sent Events: a connected
// event, the assistant message, then an end marker. The agent lives for the
// connection only.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	// Disable proxy buffering (nginx, etc.)
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	agent, err := s.opts.Build(s.opts.Brain)
	if err != nil {
		_ = sseWrite(w, flusher, "error", jsonLine(chatResponse{Error: err.Error()}))
		return
	}
	_ = sseWrite(w, flusher, "connected", jsonLine(map[string]string{"brain": agent.Name()}))

	prompt := strings.TrimSpace(r.URL.Query().Get("q"))
	if prompt == "" {
		_ = sseWrite(w, flusher, "error", jsonLine(chatResponse{Error: "empty content"}))
		return
	}

	result := make(chan string, 1)
	go func() {
		result <- agent.Reply([]llm.Message{{Role: "user", Content: prompt}})
	}()
	select {
	case <-r.Context().Done():
		return
	case reply := <-result:
		_ = sseWrite(w, flusher, "assistant_message", jsonLine(chatResponse{Reply: reply}))
	}
	_ = sseWrite(w, flusher, "end", "stream closed")
}

// sseWrite sends a single SSE event with the given name and data, followed
// by a flush.
func sseWrite(w http.ResponseWriter, flusher http.Flusher, event string, data string) error {
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	// data lines must not contain raw newlines; split and prefix each line.
	for _, line := range strings.Split(data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func jsonLine(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
