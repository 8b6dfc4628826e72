package notestore

import (
	"context"
	"slices"
	"sync"

	"notealog/internal/pkg/logger"
	"notealog/pkg/domain"
	"notealog/pkg/embedding"
	"notealog/pkg/persistence"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const moduleName = "NOTESTORE"

// Store is the in-memory mirror of the persistence service. Every mutation
// is optimistic: the local state changes first and is reverted if the remote
// call fails.
type Store struct {
	remote     persistence.Service
	embeddings embedding.Service
	log        logger.ILogger
	newID      func() string
	// batchLimit caps concurrent remote calls of batch operations.
	batchLimit int

	mu    sync.RWMutex
	state state
}

type Option func(*Store)

func WithLogger(l logger.ILogger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithIDGenerator replaces uuid generation, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

func WithBatchLimit(n int) Option {
	return func(s *Store) {
		s.batchLimit = n
	}
}

func New(remote persistence.Service, embeddings embedding.Service, opts ...Option) *Store {
	s := &Store{
		remote:     remote,
		embeddings: embeddings,
		log:        logger.NewNopLogger(),
		newID:      func() string { return uuid.NewString() },
		batchLimit: 8,
		state: state{
			folders: []domain.Folder{{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) snapshot() state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Refresh replaces both collections with the remote copy. It is the explicit
// invalidation hook for anything that learns a background job changed data.
func (s *Store) Refresh(ctx context.Context) error {
	var folders []domain.Folder
	var notes []domain.Note

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		folders, err = s.remote.ListFolders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = s.remote.ListNotes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error(moduleName, "refresh failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	if _, ok := domain.FindFolderByID(folders, domain.UnassignedFolderID); !ok {
		folders = append([]domain.Folder{{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}}, folders...)
	}
	for i := range notes {
		notes[i].FolderId = domain.NormalizeFolderID(notes[i].FolderId)
	}

	s.mu.Lock()
	next := state{notes: notes, folders: folders, selected: s.state.selected}
	if next.noteIndex(next.selected) < 0 {
		next.selected = ""
	}
	s.state = next
	s.mu.Unlock()

	s.log.Info(moduleName, "store refreshed", map[string]interface{}{
		"folders": len(folders),
		"notes":   len(notes),
	})
	return nil
}

// Notes returns a copy of the cached notes.
func (s *Store) Notes() []domain.Note {
	return slices.Clone(s.snapshot().notes)
}

// Folders returns a copy of the cached folders, reserved folder included.
func (s *Store) Folders() []domain.Folder {
	return slices.Clone(s.snapshot().folders)
}

func (s *Store) Note(id string) (domain.Note, bool) {
	return s.snapshot().note(id)
}

func (s *Store) FolderByName(name string) (domain.Folder, bool) {
	return domain.FindFolderByName(s.snapshot().folders, name)
}

func (s *Store) NotesInFolder(folderID string) []domain.Note {
	folderID = domain.NormalizeFolderID(folderID)
	var out []domain.Note
	for _, n := range s.snapshot().notes {
		if n.FolderId == folderID {
			out = append(out, n)
		}
	}
	return out
}

// Select marks a cached note as the current one. An empty id clears it.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.state.noteIndex(id) < 0 {
		return domain.Wrap(domain.ErrNotFound, "select note", nil)
	}
	s.state.selected = id
	return nil
}

func (s *Store) Selected() (domain.Note, bool) {
	st := s.snapshot()
	if st.selected == "" {
		return domain.Note{}, false
	}
	return st.note(st.selected)
}
