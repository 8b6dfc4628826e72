package reconcile

import (
	"context"
	"errors"
	"strconv"

	"notealog/internal/pkg/logger"
	"notealog/pkg/domain"
	"notealog/pkg/taskgroup"

	"golang.org/x/sync/singleflight"
)

const moduleName = "RECONCILE"

// FolderStore is the part of the local store reconciliation drives.
type FolderStore interface {
	FolderByName(name string) (domain.Folder, bool)
	CreateFolder(ctx context.Context, name string) (domain.Folder, error)
	EnsureFolder(ctx context.Context, name string) (domain.Folder, error)
	MoveNote(ctx context.Context, noteID, folderID string) error
}

// Reconciler turns suggested category names into note moves, creating
// folders that do not exist yet. Creation is single-flight per name, so a
// batch proposing the same new name twice creates one folder.
type Reconciler struct {
	store FolderStore
	log   logger.ILogger
	limit int
	// serverEnsure resolves missing names with the server's get-or-create
	// instead of a plain create.
	serverEnsure bool

	creating singleflight.Group
}

type Option func(*Reconciler)

func WithLogger(l logger.ILogger) Option {
	return func(r *Reconciler) {
		r.log = l
	}
}

func WithLimit(n int) Option {
	return func(r *Reconciler) {
		r.limit = n
	}
}

func WithServerEnsure() Option {
	return func(r *Reconciler) {
		r.serverEnsure = true
	}
}

func New(store FolderStore, opts ...Option) *Reconciler {
	r := &Reconciler{
		store: store,
		log:   logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report pairs the moves, with ResolvedFolderId filled where a folder was
// found or created, and the per-note outcome.
type Report struct {
	Moves  []domain.SuggestedMove
	Result taskgroup.Result
}

// Apply processes every move concurrently. A failed move leaves its note
// where it was and does not undo the others. Moves are tracked by position,
// so a note listed twice gets both entries resolved.
func (r *Reconciler) Apply(ctx context.Context, moves []domain.SuggestedMove) Report {
	positions := make([]string, len(moves))
	for i := range moves {
		positions[i] = strconv.Itoa(i)
	}

	resolved := make([]*string, len(moves))
	byPosition := taskgroup.Run(ctx, positions, r.limit, func(ctx context.Context, key string) error {
		i, _ := strconv.Atoi(key)
		folder, err := r.resolve(ctx, moves[i].SuggestedFolderName)
		if err != nil {
			return err
		}
		id := folder.Id
		resolved[i] = &id
		return r.store.MoveNote(ctx, moves[i].NoteId, folder.Id)
	})

	out := make([]domain.SuggestedMove, len(moves))
	for i, m := range moves {
		m.ResolvedFolderId = resolved[i]
		out[i] = m
	}
	res := byNoteID(byPosition, moves)

	fields := map[string]interface{}{
		"moved":  len(res.Succeeded),
		"failed": len(res.Failed),
	}
	if res.OK() {
		r.log.Info(moduleName, "suggestions applied", fields)
	} else {
		fields["failed_notes"] = res.FailedKeys()
		r.log.Warn(moduleName, "suggestions partially applied", fields)
	}
	return Report{Moves: out, Result: res}
}

// byNoteID rewrites a position-keyed result in terms of note ids.
func byNoteID(res taskgroup.Result, moves []domain.SuggestedMove) taskgroup.Result {
	var out taskgroup.Result
	for _, key := range res.Succeeded {
		i, _ := strconv.Atoi(key)
		out.Succeeded = append(out.Succeeded, moves[i].NoteId)
	}
	for _, f := range res.Failed {
		i, _ := strconv.Atoi(f.Key)
		out.Failed = append(out.Failed, taskgroup.Outcome{Key: moves[i].NoteId, Err: f.Err})
	}
	return out
}

// resolve finds the folder named name or creates it.
func (r *Reconciler) resolve(ctx context.Context, name string) (domain.Folder, error) {
	if f, ok := r.store.FolderByName(name); ok {
		return f, nil
	}

	v, err, shared := r.creating.Do(name, func() (interface{}, error) {
		if f, ok := r.store.FolderByName(name); ok {
			return f, nil
		}
		if r.serverEnsure {
			return r.store.EnsureFolder(ctx, name)
		}

		f, err := r.store.CreateFolder(ctx, name)
		if errors.Is(err, domain.ErrDuplicateName) {
			// Someone else created it; the cache or the server knows it now.
			if existing, ok := r.store.FolderByName(name); ok {
				return existing, nil
			}
			return r.store.EnsureFolder(ctx, name)
		}
		if err == nil {
			r.log.Info(moduleName, "folder created for suggestion", map[string]interface{}{
				"folder_id": f.Id,
				"name":      name,
			})
		}
		return f, err
	})
	if err != nil {
		return domain.Folder{}, err
	}
	if shared {
		r.log.Debug(moduleName, "folder creation shared", map[string]interface{}{"name": name})
	}
	return v.(domain.Folder), nil
}
