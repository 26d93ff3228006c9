package vectorstore

import (
	"context"
	"math"

	"github.com/jinxian630/Assigment-MiniProject/types"
)

// Scoping constants shared with the seeder.
const (
	// ModuleTaskManagement scopes documents belonging to the task module.
	ModuleTaskManagement = "task-management"

	// TypeRule and TypeTask are the two stored document kinds.
	TypeRule = "rule"
	TypeTask = "task"

	// RuleUserID owns the shared coaching rules.
	RuleUserID = "__global__"
)

// rulesQueryText is the fixed probe used to pull the coaching rule set.
const rulesQueryText = "task assistant rules / prioritization / scheduling / safety"

const (
	maxRuleResults   = 5
	rulePreviewLen   = 900
	taskPreviewLen   = 1200
	searchPreviewLen = 400
)

// TaskRetriever adapts the store to the advice engine's Retriever
// interface, applying the module scoping and preview truncation the
// frontend expects.
type TaskRetriever struct {
	store *Store
}

// NewTaskRetriever wraps a store.
func NewTaskRetriever(store *Store) *TaskRetriever {
	return &TaskRetriever{store: store}
}

// QueryRules pulls up to n (capped) shared coaching rules.
func (r *TaskRetriever) QueryRules(ctx context.Context, n int) ([]types.RetrievedDoc, error) {
	if n > maxRuleResults {
		n = maxRuleResults
	}
	results, err := r.store.Query(ctx, rulesQueryText, n, Filter{
		Module: ModuleTaskManagement,
		Type:   TypeRule,
		UserID: RuleUserID,
	})
	if err != nil {
		return nil, err
	}
	return toRetrievedDocs(results, rulePreviewLen), nil
}

// QueryTasks pulls the n task snippets closest to the question, scoped to
// one user.
func (r *TaskRetriever) QueryTasks(ctx context.Context, userID, text string, n int) ([]types.RetrievedDoc, error) {
	results, err := r.store.Query(ctx, text, n, Filter{
		Module: ModuleTaskManagement,
		Type:   TypeTask,
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}
	return toRetrievedDocs(results, taskPreviewLen), nil
}

// Search runs the question against the whole collection with no scoping,
// returning short previews. It backs the inspection payloads rather than
// the advice path itself.
func (r *TaskRetriever) Search(ctx context.Context, text string, n int) ([]types.RetrievedDoc, error) {
	results, err := r.store.Query(ctx, text, n, Filter{})
	if err != nil {
		return nil, err
	}
	return toRetrievedDocs(results, searchPreviewLen), nil
}

func toRetrievedDocs(results []Result, previewLen int) []types.RetrievedDoc {
	docs := make([]types.RetrievedDoc, 0, len(results))
	for _, res := range results {
		dist := math.Round(res.Distance*10000) / 10000
		docs = append(docs, types.RetrievedDoc{
			SourceRow:   res.Doc.SourceRow,
			Type:        res.Doc.Type,
			Module:      res.Doc.Module,
			UserID:      res.Doc.UserID,
			Distance:    &dist,
			TextPreview: truncateRunes(res.Doc.Content, previewLen),
		})
	}
	return docs
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
