// Package server exposes the bot's HTTP surface: liveness, the slash-command
// endpoint, the interactive-vote callback, and metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"menubot/internal/command"
	"menubot/internal/config"
	"menubot/internal/domain"
	"menubot/internal/feedback"
	"menubot/internal/metrics"
)

const livenessText = "점심/저녁 메뉴 알림 봇이 실행 중입니다."

// Server handles inbound HTTP requests. Each request is handled
// independently and synchronously; the only shared state is read-only
// configuration.
type Server struct {
	host       string
	port       int
	dispatcher *command.Dispatcher
	recorder   *feedback.Recorder
	logger     *slog.Logger
	server     *http.Server
}

func New(cfg config.ServerConfig, dispatcher *command.Dispatcher, recorder *feedback.Recorder, logger *slog.Logger) *Server {
	return &Server{
		host:       cfg.Host,
		port:       cfg.Port,
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/command", s.handleCommand)
	mux.HandleFunc("/vote", s.handleVote)
	mux.Handle("/metrics", metrics.Collector.Handler())
	return s.withAccessLog(mux)
}

// Start runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server starting", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, livenessText)
}

// handleCommand answers form-encoded slash commands with a visibility-tagged
// JSON reply. A bad token is rejected with 401 before any store access.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reply, err := s.dispatcher.Dispatch(r.Context(), r.FormValue("token"), r.FormValue("text"))
	if errors.Is(err, domain.ErrUnauthorized) {
		metrics.AuthFailures.Inc()
		s.logger.Warn("command token rejected", "user", r.FormValue("user_name"))
		writeJSON(w, http.StatusUnauthorized, domain.Ephemeral("인증에 실패했습니다."))
		return
	}

	metrics.CommandsTotal.Inc()
	writeJSON(w, http.StatusOK, reply)
}

// handleVote processes one interactive-callback invocation and returns the
// in-place update fragment (or an ephemeral notice).
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.VoteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	update, err := s.recorder.Record(r.Context(), req)
	if errors.Is(err, domain.ErrUnauthorized) {
		metrics.AuthFailures.Inc()
		s.logger.Warn("vote token rejected", "user", req.UserName)
		writeJSON(w, http.StatusUnauthorized, domain.VoteUpdate{EphemeralText: "인증에 실패했습니다."})
		return
	}

	metrics.VotesTotal.Inc()
	writeJSON(w, http.StatusOK, update)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
