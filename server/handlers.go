package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jinxian630/Assigment-MiniProject/advisor"
	"github.com/jinxian630/Assigment-MiniProject/types"
	"github.com/jinxian630/Assigment-MiniProject/vectorstore"
)

const maxBodyBytes = 1 << 20 // 1 MB

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleChatRAG is the task-assistant endpoint. The body is parsed
// tolerantly: JSON first, otherwise the raw body becomes the question.
func (s *Server) handleChatRAG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := decodeChatRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := uuid.NewString()
	start := time.Now()

	answer, err := s.engine.Advise(r.Context(), req)
	if err != nil {
		s.handleEngineError(w, requestID, err)
		return
	}

	logType := "request"
	if !answer.Intent.Deterministic() {
		logType = "fallback"
	}
	s.broadcastActivity(logType, requestID, string(answer.Intent), req.Text, time.Since(start))

	s.writeJSON(w, http.StatusOK, types.ChatResponse{
		Intent:       string(answer.Intent),
		RulesResults: answer.RulesResults,
		TaskResults:  answer.TaskResults,
		ModelAnswer:  answer.ModelAnswer,
	})
}

// handleMoneyAdvice is the money-coach endpoint.
func (s *Server) handleMoneyAdvice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := decodeChatRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := uuid.NewString()
	start := time.Now()

	answer, err := s.engine.AdviseMoney(r.Context(), req)
	if err != nil {
		s.handleEngineError(w, requestID, err)
		return
	}

	s.broadcastActivity("request", requestID, "money_advice", req.Text, time.Since(start))

	s.writeJSON(w, http.StatusOK, types.MoneyAdviceResponse{
		Results:     answer.Results,
		ModelAnswer: answer.ModelAnswer,
		LLMError:    nil,
	})
}

// handleSearchVectors exposes the raw store query for debugging from the
// frontend dev tools.
func (s *Server) handleSearchVectors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "vector store is not configured")
		return
	}

	var req types.SearchVectorsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	n := req.NResults
	if n <= 0 {
		n = 4
	}

	results, err := s.store.Query(r.Context(), req.Text, n, vectorstore.Filter{
		Module: vectorstore.ModuleTaskManagement,
		UserID: req.UserID,
	})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("vector query failed: %v", err))
		return
	}

	resp := types.SearchVectorsResponse{
		IDs:       make([]string, 0, len(results)),
		Documents: make([]string, 0, len(results)),
		Distances: make([]float64, 0, len(results)),
	}
	for _, res := range results {
		resp.IDs = append(resp.IDs, res.Doc.ID)
		resp.Documents = append(resp.Documents, res.Doc.Content)
		resp.Distances = append(resp.Distances, res.Distance)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// decodeChatRequest reads the body once and parses it tolerantly. A body
// that is not valid JSON is accepted as a plain-text question.
func decodeChatRequest(r *http.Request) (types.ChatRequest, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	_ = r.Body.Close()
	if err != nil {
		return types.ChatRequest{}, fmt.Errorf("failed to read request body")
	}
	if len(raw) == 0 {
		return types.ChatRequest{}, fmt.Errorf("request body is empty")
	}

	var req types.ChatRequest
	if err := json.Unmarshal(raw, &req); err == nil {
		return req, nil
	}

	// Fallback: accept a plain text payload as the question.
	return types.ChatRequest{Text: strings.TrimSpace(string(raw))}, nil
}

// handleEngineError maps engine errors onto HTTP statuses.
func (s *Server) handleEngineError(w http.ResponseWriter, requestID string, err error) {
	var vErr *advisor.ValidationError
	var cErr *advisor.CollaboratorError

	switch {
	case errors.As(err, &vErr):
		s.writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &cErr):
		s.log.Errorf("request %s: collaborator failure: %v", requestID, err)
		if s.stream != nil {
			s.stream.BroadcastError(err.Error())
		}
		s.writeError(w, http.StatusBadGateway, cErr.Error())
	default:
		s.log.Errorf("request %s: %v", requestID, err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// broadcastActivity pushes one activity entry to the websocket stream.
func (s *Server) broadcastActivity(logType, requestID, intent, text string, latency time.Duration) {
	if s.stream == nil {
		return
	}
	entry := types.NewActivityLog(logType, text)
	entry.RequestID = requestID
	entry.Intent = intent
	entry.LatencyMs = latency.Milliseconds()
	s.stream.BroadcastActivity(entry)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Errorf("failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, types.ErrorResponse{Detail: detail})
}
