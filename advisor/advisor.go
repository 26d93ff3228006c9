package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinxian630/Assigment-MiniProject/logger"
	"github.com/jinxian630/Assigment-MiniProject/types"
)

// Retriever is the vector-store collaborator. The fallback path uses the
// scoped queries; the money path uses the unscoped debug search.
type Retriever interface {
	QueryRules(ctx context.Context, n int) ([]types.RetrievedDoc, error)
	QueryTasks(ctx context.Context, userID, text string, n int) ([]types.RetrievedDoc, error)
	Search(ctx context.Context, text string, n int) ([]types.RetrievedDoc, error)
}

// ChatClient is the LLM collaborator. One attempt per request from the
// engine's point of view; retries, if any, live inside the implementation.
type ChatClient interface {
	Chat(ctx context.Context, system string, history []types.ChatMessage, user string) (string, error)
}

const (
	defaultNResults = 4

	// the most recent turns forwarded to the LLM fallback
	historyCap = 8

	// answers shorter than this are treated as empty and replaced
	minAnswerLen = 10

	apologyAnswer = "I couldn’t generate a reply. Try again with a more specific question."

	fallbackSystemPrompt = "You are the in-app AI assistant for a task management module.\n" +
		"Be concise and actionable.\n" +
		"Use TASKS_CONTEXT for exact task titles/dates.\n" +
		"If you cannot answer, ask ONE short follow-up question.\n" +
		"Return plain text.\n"
)

// Answer is the orchestrator's result for the task-assistant path.
type Answer struct {
	Intent       Intent
	RulesResults []types.RetrievedDoc
	TaskResults  []types.RetrievedDoc
	ModelAnswer  string
}

// MoneyAnswer is the orchestrator's result for the money-coach path.
type MoneyAnswer struct {
	Results     []types.RetrievedDoc
	ModelAnswer string
}

// Engine wires the pure components together and owns the decision of
// answering locally versus delegating to the collaborators. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	store Retriever
	llm   ChatClient
	log   *logger.Logger
}

// NewEngine creates an advice engine. store and llm may be nil, in which
// case every non-deterministic question resolves to the apology answer.
func NewEngine(store Retriever, llm ChatClient, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.New()
	}
	return &Engine{store: store, llm: llm, log: log}
}

// Advise processes one task-assistant request: extract records, classify
// the question, then either answer deterministically or delegate to the
// retrieval + LLM collaborators.
func (e *Engine) Advise(ctx context.Context, req types.ChatRequest) (*Answer, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, &ValidationError{Field: "userId"}
	}
	question := strings.TrimSpace(req.Text)
	if question == "" {
		return nil, &ValidationError{Field: "text"}
	}

	tasks := ExtractTasks(req.TasksContext)
	intent := ClassifyIntent(question)

	if intent.Deterministic() {
		e.log.WithFields(map[string]interface{}{"intent": string(intent), "tasks": len(tasks)}).
			Debug("answering locally")
		return &Answer{
			Intent:       intent,
			RulesResults: []types.RetrievedDoc{},
			TaskResults:  []types.RetrievedDoc{},
			ModelAnswer:  ComposeTaskAnswer(intent, tasks),
		}, nil
	}

	return e.adviseWithFallback(ctx, intent, userID, question, req)
}

// adviseWithFallback handles everything the rule table did not claim:
// retrieve context from the vector store, then ask the LLM.
func (e *Engine) adviseWithFallback(ctx context.Context, intent Intent, userID, question string, req types.ChatRequest) (*Answer, error) {
	n := req.NResults
	if n <= 0 {
		n = defaultNResults
	}

	rules := []types.RetrievedDoc{}
	if e.store != nil {
		// a missing rule set degrades to generic advice, it is not a failure
		if r, err := e.store.QueryRules(ctx, n); err == nil {
			rules = r
		} else {
			e.log.Warnf("rules retrieval degraded: %v", err)
		}
	}

	taskDocs := []types.RetrievedDoc{}
	if e.store != nil {
		r, err := e.store.QueryTasks(ctx, userID, question, n)
		if err != nil {
			return nil, &CollaboratorError{Op: "task retrieval", Err: err}
		}
		taskDocs = r
	}

	answer := apologyAnswer
	if e.llm != nil {
		out, err := e.llm.Chat(ctx, fallbackSystemPrompt, trimHistory(req.History), buildFallbackPrompt(question, req.TasksContext, rules, taskDocs))
		if err != nil {
			return nil, &CollaboratorError{Op: "llm chat", Err: err}
		}
		if out = strings.TrimSpace(out); len([]rune(out)) >= minAnswerLen {
			answer = out
		}
	}

	return &Answer{
		Intent:       intent,
		RulesResults: rules,
		TaskResults:  taskDocs,
		ModelAnswer:  answer,
	}, nil
}

// AdviseMoney processes one money-coach request. The report itself is fully
// deterministic; retrieval runs only to populate the debug payload and any
// retrieval failure degrades to an empty payload.
func (e *Engine) AdviseMoney(ctx context.Context, req types.ChatRequest) (*MoneyAnswer, error) {
	question := strings.TrimSpace(req.Text)
	if question == "" {
		return nil, &ValidationError{Field: "text"}
	}

	summary := ExtractMoneySummary(req.Text)
	answer := ComposeMoneyAdvice(summary)

	results := []types.RetrievedDoc{}
	if e.store != nil {
		n := req.NResults
		if n <= 0 {
			n = defaultNResults
		}
		if r, err := e.store.Search(ctx, req.Text, n); err == nil {
			results = r
		} else {
			e.log.Warnf("money retrieval degraded: %v", err)
		}
	}

	return &MoneyAnswer{Results: results, ModelAnswer: strings.TrimSpace(answer)}, nil
}

// trimHistory keeps the raw most recent turns, then drops entries with
// unusable roles or empty content. The cap applies before filtering, so an
// unusable entry inside the window never pulls an older turn back in.
func trimHistory(history []types.ChatMessage) []types.ChatMessage {
	if len(history) > historyCap {
		history = history[len(history)-historyCap:]
	}
	var out []types.ChatMessage
	for _, m := range history {
		switch m.Role {
		case "user", "assistant", "system":
			if m.Content != "" {
				out = append(out, m)
			}
		}
	}
	return out
}

// buildFallbackPrompt assembles the user payload handed to the LLM:
// retrieved rules, the raw tasks context, retrieved task snippets and the
// question itself.
func buildFallbackPrompt(question, tasksContext string, rules, taskDocs []types.RetrievedDoc) string {
	var ruleLines []string
	for _, r := range rules {
		if r.TextPreview != "" {
			ruleLines = append(ruleLines, "- "+r.TextPreview)
		}
	}
	rulesText := strings.Join(ruleLines, "\n")
	if rulesText == "" {
		rulesText = "No rules found."
	}

	var taskLines []string
	for _, t := range taskDocs {
		if t.TextPreview != "" {
			taskLines = append(taskLines, "- "+t.TextPreview)
		}
	}
	tasksText := strings.Join(taskLines, "\n\n")
	if tasksText == "" {
		tasksText = "No tasks found."
	}

	contextBlock := strings.TrimSpace(tasksContext)
	if contextBlock == "" {
		contextBlock = "No TASKS_CONTEXT provided."
	}

	return fmt.Sprintf(
		"RULES:\n%s\n\nTASKS_CONTEXT:\n%s\n\nTASKS (retrieved):\n%s\n\nUSER QUESTION:\n%s\n",
		rulesText, contextBlock, tasksText, question)
}
