// Package persistencetest provides an in-memory persistence service for tests.
package persistencetest

import (
	"context"
	"errors"
	"sync"

	"notealog/pkg/domain"
	"notealog/pkg/persistence"

	"github.com/google/uuid"
)

// Memory behaves like the REST service: unique folder names, cascading
// folder deletion to the reserved folder, 404 on unknown ids.
type Memory struct {
	mu      sync.Mutex
	folders []domain.Folder
	notes   map[string]domain.Note
	order   []string

	// Fail, when set, is consulted before every call; a non-nil result is
	// returned as the call's error.
	Fail func(op string) error
	// DisableUniqueNames lets CreateFolder store duplicate names, like a
	// server without the unique index.
	DisableUniqueNames bool

	Calls map[string]int
}

var _ persistence.Service = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		folders: []domain.Folder{{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}},
		notes:   map[string]domain.Note{},
		Calls:   map[string]int{},
	}
}

// Unavailable is a ready-made failure for Fail.
func Unavailable(ops ...string) func(string) error {
	return func(op string) error {
		for _, o := range ops {
			if o == op {
				return domain.Wrap(domain.ErrRemoteUnavailable, op, errors.New("connection refused"))
			}
		}
		return nil
	}
}

func (m *Memory) enter(op string) error {
	m.Calls[op]++
	if m.Fail != nil {
		return m.Fail(op)
	}
	return nil
}

func (m *Memory) SeedFolder(f domain.Folder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders = append(m.folders, f)
}

func (m *Memory) SeedNote(n domain.Note) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.FolderId = domain.NormalizeFolderID(n.FolderId)
	if _, ok := m.notes[n.Id]; !ok {
		m.order = append(m.order, n.Id)
	}
	m.notes[n.Id] = n
}

func (m *Memory) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[op]
}

func (m *Memory) StoredNote(id string) (domain.Note, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	return n, ok
}

func (m *Memory) StoredFolders() []domain.Folder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Folder(nil), m.folders...)
}

func (m *Memory) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListFolders"); err != nil {
		return nil, err
	}
	return append([]domain.Folder(nil), m.folders...), nil
}

func (m *Memory) CreateFolder(ctx context.Context, folder domain.Folder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateFolder"); err != nil {
		return err
	}
	if _, ok := domain.FindFolderByName(m.folders, folder.Name); ok && !m.DisableUniqueNames {
		return domain.Wrap(domain.ErrDuplicateName, "create folder", nil)
	}
	m.folders = append(m.folders, folder)
	return nil
}

func (m *Memory) RenameFolder(ctx context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("RenameFolder"); err != nil {
		return err
	}
	for i := range m.folders {
		if m.folders[i].Id == id {
			m.folders[i].Name = name
			return nil
		}
	}
	return domain.Wrap(domain.ErrNotFound, "rename folder", nil)
}

func (m *Memory) DeleteFolder(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteFolder"); err != nil {
		return err
	}
	for i, f := range m.folders {
		if f.Id != id {
			continue
		}
		m.folders = append(m.folders[:i:i], m.folders[i+1:]...)
		for nid, n := range m.notes {
			if n.FolderId == id {
				n.FolderId = domain.UnassignedFolderID
				m.notes[nid] = n
			}
		}
		return nil
	}
	return domain.Wrap(domain.ErrNotFound, "delete folder", nil)
}

func (m *Memory) EnsureFolder(ctx context.Context, name string) (domain.Folder, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("EnsureFolder"); err != nil {
		return domain.Folder{}, false, err
	}
	if f, ok := domain.FindFolderByName(m.folders, name); ok {
		return f, false, nil
	}
	f := domain.Folder{Id: uuid.NewString(), Name: name}
	m.folders = append(m.folders, f)
	return f, true, nil
}

func (m *Memory) ListNotes(ctx context.Context) ([]domain.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListNotes"); err != nil {
		return nil, err
	}
	out := make([]domain.Note, 0, len(m.order))
	for _, id := range m.order {
		if n, ok := m.notes[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Memory) CreateNote(ctx context.Context, note domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateNote"); err != nil {
		return err
	}
	note.FolderId = domain.NormalizeFolderID(note.FolderId)
	m.notes[note.Id] = note
	m.order = append(m.order, note.Id)
	return nil
}

func (m *Memory) UpdateNote(ctx context.Context, note domain.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateNote"); err != nil {
		return err
	}
	if _, ok := m.notes[note.Id]; !ok {
		return domain.Wrap(domain.ErrNotFound, "update note", nil)
	}
	note.FolderId = domain.NormalizeFolderID(note.FolderId)
	m.notes[note.Id] = note
	return nil
}

func (m *Memory) DeleteNote(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteNote:" + id); err != nil {
		return err
	}
	if err := m.enter("DeleteNote"); err != nil {
		return err
	}
	if _, ok := m.notes[id]; !ok {
		return domain.Wrap(domain.ErrNotFound, "delete note", nil)
	}
	delete(m.notes, id)
	return nil
}
