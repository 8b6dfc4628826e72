package categorizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"notealog/internal/pkg/logger"
	"notealog/pkg/cache"
	"notealog/pkg/domain"
	"notealog/pkg/llm"
)

const moduleName = "CATEGORIZER"

// Catalog is the read side the engine needs from storage.
type Catalog interface {
	Folders(ctx context.Context) ([]domain.Folder, error)
	// HasCategorizedNotes reports whether any note lives outside the
	// reserved folder.
	HasCategorizedNotes(ctx context.Context) (bool, error)
	NotesByEmbeddingIDs(ctx context.Context, ids []string) ([]domain.Note, error)
}

type SimilarityRetriever interface {
	RetrieveSimilar(ctx context.Context, embeddingsID string) ([]domain.SimilarityMatch, error)
}

// Engine suggests a folder name for one note.
type Engine struct {
	catalog   Catalog
	retriever SimilarityRetriever
	provider  llm.LLMProvider
	memo      cache.Memo
	model     string
	maxTokens int
	log       logger.ILogger
}

type Option func(*Engine)

func WithMemo(m cache.Memo) Option {
	return func(e *Engine) {
		e.memo = m
	}
}

func WithLogger(l logger.ILogger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithModel pins the model name used for every call and for memo keys.
func WithModel(model string) Option {
	return func(e *Engine) {
		e.model = model
	}
}

// WithMaxTokens caps each answer. Category names are short, so a small cap
// stops a chatty model early.
func WithMaxTokens(n int) Option {
	return func(e *Engine) {
		e.maxTokens = n
	}
}

func NewEngine(catalog Catalog, retriever SimilarityRetriever, provider llm.LLMProvider, opts ...Option) *Engine {
	e := &Engine{
		catalog:   catalog,
		retriever: retriever,
		provider:  provider,
		memo:      cache.NopMemo{},
		log:       logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Suggest returns the trimmed category name the model picked for note. The
// name is not checked against existing folders.
func (e *Engine) Suggest(ctx context.Context, note domain.Note) (string, error) {
	folders, err := e.catalog.Folders(ctx)
	if err != nil {
		return "", err
	}

	entries, err := e.buildContext(ctx, note, folders)
	if err != nil {
		return "", err
	}

	rendered, err := RenderPrompt(note.Title, note.Content, entries, domain.CategoryNames(folders))
	if err != nil {
		return "", err
	}

	key := e.memoKey(rendered)
	if category, ok := e.memo.Get(ctx, key); ok {
		e.log.Debug(moduleName, "memo hit", map[string]interface{}{"note_id": note.Id})
		return category, nil
	}

	opts := []llm.Option{llm.WithTemperature(0)}
	if e.model != "" {
		opts = append(opts, llm.WithModel(e.model))
	}
	if e.maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(e.maxTokens))
	}
	response, err := e.provider.Generate(ctx, rendered, opts...)
	if err != nil {
		e.log.Warn(moduleName, "language model call failed", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
		return "", err
	}

	category := strings.TrimSpace(response)
	if category == "" {
		return "", domain.Wrap(domain.ErrMalformedResponse, "categorize", errors.New("empty category"))
	}

	e.memo.Set(ctx, key, category)
	e.log.Info(moduleName, "category suggested", map[string]interface{}{
		"note_id":  note.Id,
		"category": category,
		"context":  len(entries),
	})
	return category, nil
}

// buildContext lists similar categorized notes in the order the embedding
// service ranked them. It is empty when nothing is categorized yet or the
// note was never embedded.
func (e *Engine) buildContext(ctx context.Context, note domain.Note, folders []domain.Folder) ([]domain.ContextEntry, error) {
	categorized, err := e.catalog.HasCategorizedNotes(ctx)
	if err != nil {
		return nil, err
	}
	if !categorized {
		e.log.Debug(moduleName, "cold start, skipping similarity search", map[string]interface{}{"note_id": note.Id})
		return nil, nil
	}
	if !note.HasEmbedding() {
		return nil, nil
	}

	matches, err := e.retriever.RetrieveSimilar(ctx, note.EmbeddingsId)
	if err != nil {
		e.log.Warn(moduleName, "similarity search failed", map[string]interface{}{
			"note_id": note.Id,
			"error":   err.Error(),
		})
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.Id
	}
	notes, err := e.catalog.NotesByEmbeddingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byEmbedding := make(map[string]domain.Note, len(notes))
	for _, n := range notes {
		byEmbedding[n.EmbeddingsId] = n
	}

	entries := make([]domain.ContextEntry, 0, len(matches))
	for _, m := range matches {
		n, ok := byEmbedding[m.Id]
		if !ok {
			continue
		}
		entries = append(entries, domain.ContextEntry{
			Folder:  folderName(folders, n.FolderId),
			Title:   n.Title,
			Content: truncate(n.Content, maxContextContent),
			Score:   formatScore(m.Score),
		})
	}
	return entries, nil
}

func folderName(folders []domain.Folder, id string) *string {
	id = domain.NormalizeFolderID(id)
	if id == domain.UnassignedFolderID {
		return nil
	}
	f, ok := domain.FindFolderByID(folders, id)
	if !ok {
		return nil
	}
	name := f.Name
	return &name
}

func (e *Engine) memoKey(rendered string) string {
	sum := sha256.Sum256([]byte(e.model + "\x00" + rendered))
	return hex.EncodeToString(sum[:])
}
