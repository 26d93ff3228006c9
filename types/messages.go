package types

import (
	"encoding/json"
	"time"
)

// ChatMessage is one prior conversation turn forwarded to the LLM fallback.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant" or "system"
	Content string `json:"content"`
}

// ChatRequest is the payload accepted by POST /chat_rag and POST /money_advice.
// Field names mirror what the mobile frontend already sends.
type ChatRequest struct {
	Model        string        `json:"model,omitempty"`
	Text         string        `json:"text"`
	UserID       string        `json:"userId"`
	History      []ChatMessage `json:"history,omitempty"`
	NResults     int           `json:"n_results,omitempty"`
	Temperature  float64       `json:"temperature,omitempty"`
	NumCtx       int           `json:"num_ctx,omitempty"`
	NumPredict   int           `json:"num_predict,omitempty"`
	TasksContext string        `json:"tasksContext,omitempty"`
}

// RetrievedDoc is one retrieval-debug entry returned alongside an answer.
// Distance is a pointer so "no distance reported" stays distinguishable from 0.
type RetrievedDoc struct {
	SourceRow   *int     `json:"source_row"`
	Type        string   `json:"type,omitempty"`
	Module      string   `json:"module,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Distance    *float64 `json:"distance"`
	TextPreview string   `json:"text_preview"`
}

// ChatResponse is the response body for POST /chat_rag.
type ChatResponse struct {
	Intent       string         `json:"intent"`
	RulesResults []RetrievedDoc `json:"rules_results"`
	TaskResults  []RetrievedDoc `json:"task_results"`
	ModelAnswer  string         `json:"model_answer"`
}

// MoneyAdviceResponse is the response body for POST /money_advice.
type MoneyAdviceResponse struct {
	Results     []RetrievedDoc `json:"results"`
	ModelAnswer string         `json:"model_answer"`
	LLMError    *string        `json:"ollama_error"`
}

// SearchVectorsRequest is the payload for POST /search_vectors.
type SearchVectorsRequest struct {
	Text     string `json:"text"`
	UserID   string `json:"userId,omitempty"`
	NResults int    `json:"n_results,omitempty"`
}

// SearchVectorsResponse mirrors the raw store query output.
type SearchVectorsResponse struct {
	IDs       []string  `json:"ids"`
	Documents []string  `json:"documents"`
	Distances []float64 `json:"distances"`
}

// ErrorResponse is the body of any non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ActivityLog is one request-level event broadcast over the websocket stream.
type ActivityLog struct {
	Type      string `json:"type"` // "request", "fallback", "error"
	RequestID string `json:"requestId,omitempty"`
	Intent    string `json:"intent,omitempty"`
	Content   string `json:"content"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
	Timestamp string `json:"timestamp"`
	Level     string `json:"level,omitempty"` // "info", "warning", "error"
}

// NewActivityLog creates an ActivityLog stamped with the current time.
func NewActivityLog(logType, content string) *ActivityLog {
	return &ActivityLog{
		Type:      logType,
		Content:   content,
		Level:     "info",
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// WebSocketMessage is the envelope for every frame pushed to stream clients.
type WebSocketMessage struct {
	Type      string      `json:"type"` // "log", "status", "heartbeat", "connection"
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	MessageID string      `json:"messageId,omitempty"`
}

// NewWebSocketMessage wraps a payload in a timestamped envelope.
func NewWebSocketMessage(msgType string, payload interface{}) *WebSocketMessage {
	return &WebSocketMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// ToJSON serializes the message for the wire.
func (m *WebSocketMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
