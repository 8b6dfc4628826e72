package categorizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"notealog/pkg/cache"
	"notealog/pkg/domain"
	"notealog/pkg/embedding/embeddingtest"
	"notealog/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	folders []domain.Folder
	notes   []domain.Note
}

func (c *fakeCatalog) Folders(ctx context.Context) ([]domain.Folder, error) {
	return c.folders, nil
}

func (c *fakeCatalog) HasCategorizedNotes(ctx context.Context) (bool, error) {
	for _, n := range c.notes {
		if !n.IsUnassigned() {
			return true, nil
		}
	}
	return false, nil
}

// NotesByEmbeddingIDs returns matches in storage order, not request order.
func (c *fakeCatalog) NotesByEmbeddingIDs(ctx context.Context, ids []string) ([]domain.Note, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Note
	for _, n := range c.notes {
		if want[n.EmbeddingsId] {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	options []llm.Options
	respond func(prompt string) (string, error)
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	o := llm.Apply(llm.Options{}, opts...)
	prompt := history[len(history)-1].Content

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.options = append(f.options, o)
	f.mu.Unlock()

	return f.respond(prompt)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// deterministic answers like a model at temperature 0: same prompt, same answer.
func deterministic(prompt string) (string, error) {
	if strings.Contains(prompt, "meeting") {
		return "  Work\n", nil
	}
	return "Home", nil
}

func workHomeCatalog() *fakeCatalog {
	return &fakeCatalog{
		folders: []domain.Folder{
			{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName},
			{Id: "f1", Name: "Work"},
			{Id: "f2", Name: "Home"},
		},
		notes: []domain.Note{
			{Id: "a", Title: "Standup", Content: strings.Repeat("x", 80), FolderId: "f1", EmbeddingsId: "ea"},
			{Id: "b", Title: "Groceries", Content: "milk", FolderId: "f2", EmbeddingsId: "eb"},
			{Id: "c", Title: "Loose", Content: "stray", FolderId: domain.UnassignedFolderID, EmbeddingsId: "ec"},
			{Id: "n", Title: "Plan meeting", Content: "agenda", FolderId: domain.UnassignedFolderID, EmbeddingsId: "en"},
		},
	}
}

func TestSuggest_BuildsContextInRetrievalOrder(t *testing.T) {
	catalog := workHomeCatalog()
	retriever := embeddingtest.NewMemory()
	retriever.Similar["en"] = []domain.SimilarityMatch{
		{Id: "eb", Score: 0.5},
		{Id: "ec", Score: 0.456},
		{Id: "ea", Score: 0.912},
		{Id: "gone", Score: 0.3},
	}
	model := &fakeLLM{respond: deterministic}

	category, err := NewEngine(catalog, retriever, model).Suggest(context.Background(), catalog.notes[3])
	require.NoError(t, err)
	assert.Equal(t, "Work", category)

	require.Equal(t, 1, model.calls())
	p := model.prompts[0]
	assert.Contains(t, p, "Title: Plan meeting\nContent: agenda\n")
	assert.Contains(t, p, "Existing Categories: [Work, Home]")
	assert.NotContains(t, p, "Unassigned")

	home := strings.Index(p, "Folder: Home,")
	none := strings.Index(p, "Folder: none,")
	work := strings.Index(p, "Folder: Work,")
	require.True(t, home >= 0 && none >= 0 && work >= 0)
	assert.Less(t, home, none)
	assert.Less(t, none, work)

	assert.Contains(t, p, "Content: "+strings.Repeat("x", 70)+"...,")
	assert.Contains(t, p, "Score: 0.91")
	assert.Contains(t, p, "Score: 0.46")
	assert.Equal(t, 3, strings.Count(p, "Most similar existing content:"))

	require.NotNil(t, model.options[0].Temperature)
	assert.Equal(t, 0.0, *model.options[0].Temperature)
}

func TestSuggest_ColdStartSkipsRetrieval(t *testing.T) {
	catalog := &fakeCatalog{
		folders: []domain.Folder{{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}},
		notes:   []domain.Note{{Id: "n", Title: "Buy milk", EmbeddingsId: "en"}},
	}
	retriever := embeddingtest.NewMemory()
	model := &fakeLLM{respond: deterministic}

	category, err := NewEngine(catalog, retriever, model).Suggest(context.Background(), catalog.notes[0])
	require.NoError(t, err)
	assert.Equal(t, "Home", category)
	assert.Equal(t, 0, retriever.CallCount("RetrieveSimilar"))
	assert.NotContains(t, model.prompts[0], "Most similar existing content")
	assert.NotContains(t, model.prompts[0], "Existing Categories")
}

func TestSuggest_NoEmbeddingSkipsRetrieval(t *testing.T) {
	catalog := workHomeCatalog()
	retriever := embeddingtest.NewMemory()
	model := &fakeLLM{respond: deterministic}

	_, err := NewEngine(catalog, retriever, model).Suggest(context.Background(), domain.Note{Id: "x", Title: "draft"})
	require.NoError(t, err)
	assert.Equal(t, 0, retriever.CallCount("RetrieveSimilar"))
}

func TestSuggest_Deterministic(t *testing.T) {
	catalog := workHomeCatalog()
	retriever := embeddingtest.NewMemory()
	retriever.Similar["en"] = []domain.SimilarityMatch{{Id: "ea", Score: 0.8}}
	model := &fakeLLM{respond: deterministic}
	engine := NewEngine(catalog, retriever, model)

	first, err := engine.Suggest(context.Background(), catalog.notes[3])
	require.NoError(t, err)
	second, err := engine.Suggest(context.Background(), catalog.notes[3])
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, model.prompts, 2)
	assert.Equal(t, model.prompts[0], model.prompts[1])
}

func TestSuggest_MemoSkipsSecondCall(t *testing.T) {
	catalog := workHomeCatalog()
	model := &fakeLLM{respond: deterministic}
	engine := NewEngine(catalog, embeddingtest.NewMemory(), model,
		WithMemo(cache.NewMemoryMemo(time.Minute)), WithModel("llama3"))

	for i := 0; i < 3; i++ {
		category, err := engine.Suggest(context.Background(), catalog.notes[3])
		require.NoError(t, err)
		assert.Equal(t, "Work", category)
	}
	assert.Equal(t, 1, model.calls())
	assert.Equal(t, "llama3", model.options[0].Model)
	assert.Zero(t, model.options[0].MaxTokens)
}

func TestSuggest_MaxTokens(t *testing.T) {
	catalog := workHomeCatalog()
	model := &fakeLLM{respond: deterministic}

	_, err := NewEngine(catalog, embeddingtest.NewMemory(), model, WithMaxTokens(32)).
		Suggest(context.Background(), catalog.notes[3])
	require.NoError(t, err)
	assert.Equal(t, 32, model.options[0].MaxTokens)
}

func TestSuggest_Failures(t *testing.T) {
	tests := []struct {
		name          string
		respond       func(string) (string, error)
		retrieverDown bool
		wantErr       error
	}{
		{
			name:    "model unavailable",
			respond: func(string) (string, error) { return "", domain.Wrap(domain.ErrRemoteUnavailable, "chat", nil) },
			wantErr: domain.ErrRemoteUnavailable,
		},
		{
			name:    "blank answer",
			respond: func(string) (string, error) { return " \n ", nil },
			wantErr: domain.ErrMalformedResponse,
		},
		{
			name:          "retriever unavailable",
			respond:       deterministic,
			retrieverDown: true,
			wantErr:       domain.ErrRemoteUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := workHomeCatalog()
			retriever := embeddingtest.NewMemory()
			retriever.FailOn["RetrieveSimilar"] = tt.retrieverDown

			_, err := NewEngine(catalog, retriever, &fakeLLM{respond: tt.respond}).Suggest(context.Background(), catalog.notes[3])
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSuggestAll_IsolatesFailures(t *testing.T) {
	catalog := workHomeCatalog()
	model := &fakeLLM{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Title: broken") {
			return "", errors.New("model crashed")
		}
		return deterministic(prompt)
	}}
	engine := NewEngine(catalog, embeddingtest.NewMemory(), model)

	notes := []domain.Note{
		{Id: "n1", Title: "Plan meeting"},
		{Id: "n2", Title: "broken"},
		{Id: "n3", Title: "Laundry"},
	}
	res := engine.SuggestAll(context.Background(), notes, 2)

	assert.Equal(t, []domain.SuggestedMove{
		{NoteId: "n1", SuggestedFolderName: "Work"},
		{NoteId: "n3", SuggestedFolderName: "Home"},
	}, res.Suggestions)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "n2", res.Failures[0].Key)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"short", "short"},
		{strings.Repeat("a", 70), strings.Repeat("a", 70)},
		{strings.Repeat("a", 71), strings.Repeat("a", 70) + "..."},
		{strings.Repeat("é", 75), strings.Repeat("é", 70) + "..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, maxContextContent))
	}
}
