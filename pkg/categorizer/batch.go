package categorizer

import (
	"context"
	"sync"

	"notealog/pkg/domain"
	"notealog/pkg/taskgroup"
)

// BatchResult holds one suggestion per note that succeeded, in input order,
// and the per-note failures.
type BatchResult struct {
	Suggestions []domain.SuggestedMove
	Failures    []taskgroup.Outcome
}

// SuggestAll runs Suggest for every note independently. A failing note never
// stops the others.
func (e *Engine) SuggestAll(ctx context.Context, notes []domain.Note, limit int) BatchResult {
	ids := make([]string, len(notes))
	byID := make(map[string]domain.Note, len(notes))
	for i, n := range notes {
		ids[i] = n.Id
		byID[n.Id] = n
	}

	var mu sync.Mutex
	names := make(map[string]string, len(notes))

	res := taskgroup.Run(ctx, ids, limit, func(ctx context.Context, id string) error {
		name, err := e.Suggest(ctx, byID[id])
		if err != nil {
			return err
		}
		mu.Lock()
		names[id] = name
		mu.Unlock()
		return nil
	})

	out := BatchResult{Failures: res.Failed}
	for _, id := range res.Succeeded {
		out.Suggestions = append(out.Suggestions, domain.SuggestedMove{
			NoteId:              id,
			SuggestedFolderName: names[id],
		})
	}
	return out
}
