package notestore

import (
	"context"
	"errors"
	"strings"

	"notealog/pkg/domain"
)

// CreateFolder adds a folder locally and persists it. A name already present
// in the cache fails with ErrDuplicateName before anything is sent; the check
// and the append happen under one lock.
func (s *Store) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	const op = "create folder"

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, domain.Wrap(domain.ErrInvalidName, op, nil)
	}
	folder := domain.Folder{Id: s.newID(), Name: name}

	err := s.run(ctx, &mutation{
		name: op,
		apply: func(st state) (state, error) {
			if _, exists := domain.FindFolderByName(st.folders, name); exists {
				return st, domain.Wrap(domain.ErrDuplicateName, op, errors.New(name))
			}
			return st.withFolder(folder), nil
		},
		commit: func(ctx context.Context) error {
			return s.remote.CreateFolder(ctx, folder)
		},
		compensate: func(st state) state {
			return st.withoutFolder(folder.Id)
		},
	})
	if err != nil {
		return domain.Folder{}, err
	}
	return folder, nil
}

// EnsureFolder returns the folder named name, creating it through the
// server's get-or-create call when the cache does not know it. Concurrent
// callers converge on one folder even across processes.
func (s *Store) EnsureFolder(ctx context.Context, name string) (domain.Folder, error) {
	const op = "ensure folder"

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, domain.Wrap(domain.ErrInvalidName, op, nil)
	}
	if f, ok := s.FolderByName(name); ok {
		return f, nil
	}

	var resolved domain.Folder
	err := s.run(ctx, &mutation{
		name: op,
		commit: func(ctx context.Context) error {
			f, created, err := s.remote.EnsureFolder(ctx, name)
			if err != nil {
				return err
			}
			resolved = f
			s.log.Debug(moduleName, "folder resolved by server", map[string]interface{}{
				"folder_id": f.Id,
				"name":      f.Name,
				"created":   created,
			})
			return nil
		},
		confirm: func(st state) state {
			if _, ok := domain.FindFolderByID(st.folders, resolved.Id); ok {
				return st
			}
			return st.withFolder(resolved)
		},
	})
	if err != nil {
		return domain.Folder{}, err
	}
	return resolved, nil
}

// RenameFolder commits first and only then updates the cache.
func (s *Store) RenameFolder(ctx context.Context, id, newName string) error {
	const op = "rename folder"

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.Wrap(domain.ErrInvalidName, op, nil)
	}
	if id == domain.UnassignedFolderID {
		return domain.Wrap(domain.ErrReservedFolder, op, nil)
	}

	st := s.snapshot()
	if _, ok := domain.FindFolderByID(st.folders, id); !ok {
		return domain.Wrap(domain.ErrNotFound, op, errors.New(id))
	}
	if other, ok := domain.FindFolderByName(st.folders, newName); ok && other.Id != id {
		return domain.Wrap(domain.ErrDuplicateName, op, errors.New(newName))
	}

	return s.run(ctx, &mutation{
		name: op,
		commit: func(ctx context.Context) error {
			return s.remote.RenameFolder(ctx, id, newName)
		},
		confirm: func(st state) state {
			return st.updateFolder(id, func(f domain.Folder) domain.Folder {
				f.Name = newName
				return f
			})
		},
	})
}

// DeleteFolder deletes the folder's notes one by one, then the folder. The
// first failing note stops the operation and the folder stays.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	const op = "delete folder"

	if id == domain.UnassignedFolderID {
		return domain.Wrap(domain.ErrReservedFolder, op, nil)
	}
	if _, ok := domain.FindFolderByID(s.snapshot().folders, id); !ok {
		return domain.Wrap(domain.ErrNotFound, op, errors.New(id))
	}

	for _, n := range s.NotesInFolder(id) {
		if err := s.DeleteNote(ctx, n.Id); err != nil {
			s.log.Warn(moduleName, "folder deletion stopped", map[string]interface{}{
				"folder_id": id,
				"note_id":   n.Id,
				"error":     err.Error(),
			})
			return err
		}
	}

	return s.run(ctx, &mutation{
		name: op,
		commit: func(ctx context.Context) error {
			return s.remote.DeleteFolder(ctx, id)
		},
		confirm: func(st state) state {
			return st.withoutFolder(id)
		},
	})
}
