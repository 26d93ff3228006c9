// Package server exposes the advice engine over HTTP for the browser
// frontend. All endpoints are JSON and the CORS policy is the permissive
// development setup the frontend expects.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jinxian630/Assigment-MiniProject/advisor"
	"github.com/jinxian630/Assigment-MiniProject/logger"
	"github.com/jinxian630/Assigment-MiniProject/vectorstore"
	"github.com/jinxian630/Assigment-MiniProject/websocket"
)

// Server owns the HTTP listener and the request handlers.
type Server struct {
	engine      *advisor.Engine
	store       *vectorstore.Store
	stream      *websocket.LogServer
	corsOrigins []string
	port        int
	httpServer  *http.Server
	log         *logger.Logger
}

// New creates a server. stream may be nil when the activity-log websocket
// is disabled; store may be nil, in which case /search_vectors reports the
// store as unavailable.
func New(engine *advisor.Engine, store *vectorstore.Store, stream *websocket.LogServer, corsOrigins []string, port int) *Server {
	log := logger.New()
	log.SetComponent("server")
	return &Server{
		engine:      engine,
		store:       store,
		stream:      stream,
		corsOrigins: corsOrigins,
		port:        port,
		log:         log,
	}
}

// Routes builds the request multiplexer wrapped with the CORS middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/chat_rag", s.handleChatRAG)
	mux.HandleFunc("/money_advice", s.handleMoneyAdvice)
	mux.HandleFunc("/search_vectors", s.handleSearchVectors)
	return s.corsMiddleware(mux)
}

// Start runs the listener until the context is cancelled, then drains
// in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf(":%d", s.port),
		Handler:        s.Routes(),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// corsMiddleware adds CORS headers to responses and answers preflights.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	allowAll := len(s.corsOrigins) == 0
	allowed := make(map[string]bool, len(s.corsOrigins))
	for _, o := range s.corsOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
