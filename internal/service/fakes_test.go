package service

import (
	"context"
	"sync"

	"notealog/internal/entity"
	"notealog/internal/repository/contract"
	"notealog/internal/repository/specification"
	"notealog/internal/repository/unitofwork"
	"notealog/pkg/domain"
	"notealog/pkg/events"
)

// fakeDB understands the specifications the services use and ignores
// ordering.
type fakeDB struct {
	mu      sync.Mutex
	folders []entity.Folder
	notes   []entity.Note
}

func newFakeDB() *fakeDB {
	return &fakeDB{folders: []entity.Folder{{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}}}
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUoW{db: db}
}

func (db *fakeDB) folder(id string) *entity.Folder {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, f := range db.folders {
		if f.Id == id {
			return &f
		}
	}
	return nil
}

func (db *fakeDB) note(id string) *entity.Note {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, n := range db.notes {
		if n.Id == id {
			return &n
		}
	}
	return nil
}

type fakeUoW struct {
	db *fakeDB
}

// Transactions are not isolated; the services only rely on commit order.
func (u *fakeUoW) Begin(ctx context.Context) error { return nil }
func (u *fakeUoW) Commit() error                   { return nil }
func (u *fakeUoW) Rollback() error                 { return nil }

func (u *fakeUoW) FolderRepository() contract.FolderRepository { return &fakeFolderRepo{db: u.db} }
func (u *fakeUoW) NoteRepository() contract.NoteRepository     { return &fakeNoteRepo{db: u.db} }

func matchFolder(f entity.Folder, specs []specification.Specification) bool {
	for _, s := range specs {
		switch s := s.(type) {
		case specification.ByID:
			if f.Id != s.ID {
				return false
			}
		case specification.ByName:
			if f.Name != s.Name {
				return false
			}
		}
	}
	return true
}

func matchNote(n entity.Note, specs []specification.Specification) bool {
	for _, s := range specs {
		switch s := s.(type) {
		case specification.ByID:
			if n.Id != s.ID {
				return false
			}
		case specification.ByFolderID:
			if n.FolderId != s.FolderID {
				return false
			}
		case specification.NotInFolder:
			if n.FolderId == s.FolderID {
				return false
			}
		case specification.ByEmbeddingIDs:
			found := false
			for _, id := range s.IDs {
				if n.EmbeddingsId != nil && *n.EmbeddingsId == id {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type fakeFolderRepo struct{ db *fakeDB }

func (r *fakeFolderRepo) Create(ctx context.Context, folder *entity.Folder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range r.db.folders {
		if f.Name == folder.Name {
			return domain.Wrap(domain.ErrDuplicateName, "create folder", nil)
		}
	}
	r.db.folders = append(r.db.folders, *folder)
	return nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *entity.Folder) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, f := range r.db.folders {
		if f.Id == folder.Id {
			r.db.folders[i] = *folder
		}
	}
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.folders[:0:0]
	for _, f := range r.db.folders {
		if f.Id != id {
			kept = append(kept, f)
		}
	}
	r.db.folders = kept
	return nil
}

func (r *fakeFolderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeFolderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Folder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Folder
	for _, f := range r.db.folders {
		if matchFolder(f, specs) {
			f := f
			out = append(out, &f)
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeNoteRepo struct{ db *fakeDB }

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.notes = append(r.db.notes, *note)
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, n := range r.db.notes {
		if n.Id == note.Id {
			r.db.notes[i] = *note
		}
	}
	return nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	kept := r.db.notes[:0:0]
	for _, n := range r.db.notes {
		if n.Id != id {
			kept = append(kept, n)
		}
	}
	r.db.notes = kept
	return nil
}

func (r *fakeNoteRepo) ReassignFolder(ctx context.Context, from, to string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var moved int64
	for i, n := range r.db.notes {
		if n.FolderId == from {
			r.db.notes[i].FolderId = to
			moved++
		}
	}
	return moved, nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Note
	for _, n := range r.db.notes {
		if matchNote(n, specs) {
			n := n
			out = append(out, &n)
		}
	}
	for _, s := range specs {
		if page, ok := s.(specification.Pagination); ok {
			out = paginate(out, page)
		}
	}
	return out, nil
}

func paginate[T any](items []T, page specification.Pagination) []T {
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func strPtr(s string) *string { return &s }
