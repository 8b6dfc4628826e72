package taskgroup

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Outcome is what happened to one item of a batch.
type Outcome struct {
	Key string
	Err error
}

// Result reports every item of a batch. A batch never fails as a whole.
type Result struct {
	Succeeded []string
	Failed    []Outcome
}

func (r Result) OK() bool {
	return len(r.Failed) == 0
}

// Err summarizes the failed items, or returns nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	parts := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Key, f.Err))
	}
	return fmt.Errorf("%d of %d failed: %s", len(r.Failed), len(r.Failed)+len(r.Succeeded), strings.Join(parts, "; "))
}

// FailedKeys returns the keys of the failed items.
func (r Result) FailedKeys() []string {
	keys := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		keys[i] = f.Key
	}
	return keys
}

// Run calls fn for every key concurrently, with at most limit in flight
// (limit <= 0 means unbounded). A failing item never cancels the others.
// Succeeded and Failed keep the order of keys.
func Run(ctx context.Context, keys []string, limit int, fn func(ctx context.Context, key string) error) Result {
	errs := make([]error, len(keys))

	// errgroup.Group without WithContext so that one failure does not
	// cancel the siblings.
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	var mu sync.Mutex
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			err := safeCall(ctx, key, fn)
			mu.Lock()
			errs[i] = err
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i, key := range keys {
		if errs[i] != nil {
			res.Failed = append(res.Failed, Outcome{Key: key, Err: errs[i]})
			continue
		}
		res.Succeeded = append(res.Succeeded, key)
	}
	return res
}

func safeCall(ctx context.Context, key string, fn func(ctx context.Context, key string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, key)
}
