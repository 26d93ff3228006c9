package vectorstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps known texts to fixed vectors so distances are exact.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := f.vectors[t]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func newTestStore(t *testing.T, embedder Embedder) *Store {
	t.Helper()
	store, err := Open(":memory:", embedder)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAddAndCount(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	err := store.Add(ctx, []Document{
		{ID: "r1", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: "rule one"},
		{Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "task one"},
	})
	require.NoError(t, err)

	total, err := store.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	rules, err := store.Count(ctx, Filter{Type: TypeRule})
	require.NoError(t, err)
	assert.Equal(t, 1, rules)
}

func TestStoreAddUpsertsByID(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "r1", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: "old"},
	}))
	require.NoError(t, store.Add(ctx, []Document{
		{ID: "r1", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: "new"},
	}))

	count, err := store.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Query(ctx, "anything", 1, Filter{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Doc.Content)
}

func TestStoreQueryOrdersByDistance(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"close":    {1, 0, 0},
		"mid":      {1, 1, 0},
		"far":      {0, 1, 0},
		"question": {1, 0, 0},
	}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "far", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "far"},
		{ID: "close", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "close"},
		{ID: "mid", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "mid"},
	}))

	results, err := store.Query(ctx, "question", 2, Filter{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "close", results[0].Doc.ID)
	assert.Equal(t, "mid", results[1].Doc.ID)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
	assert.Less(t, results[0].Distance, results[1].Distance)
}

func TestStoreQueryFilterScoping(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "rule", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: "shared rule"},
		{ID: "mine", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "my task"},
		{ID: "theirs", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u2", Content: "someone else's task"},
	}))

	results, err := store.Query(ctx, "anything", 10, Filter{
		Module: ModuleTaskManagement,
		Type:   TypeTask,
		UserID: "u1",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mine", results[0].Doc.ID)
}

func TestStoreQueryZeroN(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	results, err := store.Query(context.Background(), "anything", 0, Filter{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0.5, -1.25, 3.0, 0}
	assert.Equal(t, v, decodeVector(encodeVector(v)))
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, cosineDistance([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 1.0, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 2.0, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	// degenerate inputs count as maximally distant
	assert.Equal(t, 1.0, cosineDistance([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, 1.0, cosineDistance([]float32{0, 0}, []float32{1, 0}))
	assert.Equal(t, 1.0, cosineDistance(nil, nil))
}

func TestTaskRetrieverPreviews(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	long := strings.Repeat("x", rulePreviewLen+100)
	require.NoError(t, store.Add(ctx, []Document{
		{ID: "r1", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: long},
	}))

	retriever := NewTaskRetriever(store)
	docs, err := retriever.QueryRules(ctx, 3)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.Len(t, docs[0].TextPreview, rulePreviewLen)
	assert.Equal(t, TypeRule, docs[0].Type)
	assert.Equal(t, RuleUserID, docs[0].UserID)
	require.NotNil(t, docs[0].Distance)
}

func TestTaskRetrieverScopesToUser(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{
		{ID: "t1", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "essay due friday"},
		{ID: "t2", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u2", Content: "lab report"},
		{ID: "r1", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: "a rule"},
	}))

	retriever := NewTaskRetriever(store)
	docs, err := retriever.QueryTasks(ctx, "u1", "what is due?", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "essay due friday", docs[0].TextPreview)
}

func TestTaskRetrieverSearchSpansAllScopes(t *testing.T) {
	store := newTestStore(t, &fakeEmbedder{})
	ctx := context.Background()

	long := strings.Repeat("y", searchPreviewLen+50)
	require.NoError(t, store.Add(ctx, []Document{
		{ID: "r1", Module: ModuleTaskManagement, Type: TypeRule, UserID: RuleUserID, Content: long},
		{ID: "t1", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u1", Content: "my task"},
		{ID: "t2", Module: ModuleTaskManagement, Type: TypeTask, UserID: "u2", Content: "their task"},
	}))

	retriever := NewTaskRetriever(store)
	docs, err := retriever.Search(ctx, "spending this month", 10)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	for _, doc := range docs {
		assert.LessOrEqual(t, len([]rune(doc.TextPreview)), searchPreviewLen)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Equal(t, "hé", truncateRunes("héllo", 2))
	assert.Equal(t, "", truncateRunes("", 5))
}
