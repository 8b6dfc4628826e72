package notestore

import (
	"context"
	"errors"

	"notealog/pkg/domain"
	"notealog/pkg/taskgroup"
)

// CreateNote adds an empty note to folderID, selects it, and persists it. The
// note is visible before the server acknowledges it and removed again if the
// server refuses.
func (s *Store) CreateNote(ctx context.Context, folderID string) (domain.Note, error) {
	const op = "create note"

	folderID = domain.NormalizeFolderID(folderID)
	note := domain.Note{Id: s.newID(), FolderId: folderID}

	err := s.run(ctx, &mutation{
		name: op,
		apply: func(st state) (state, error) {
			if _, ok := domain.FindFolderByID(st.folders, folderID); !ok {
				return st, domain.Wrap(domain.ErrNotFound, op, errors.New(folderID))
			}
			st = st.withNote(note)
			st.selected = note.Id
			return st, nil
		},
		commit: func(ctx context.Context) error {
			return s.remote.CreateNote(ctx, note)
		},
		compensate: func(st state) state {
			return st.withoutNotes(note.Id)
		},
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// SaveNote takes only title and content from note. Folder and embedding id
// always come from the cached copy. The embedding is created on first save
// and updated afterwards.
func (s *Store) SaveNote(ctx context.Context, note domain.Note) (domain.Note, error) {
	const op = "save note"

	var before, merged domain.Note
	createdEmbedding := ""

	err := s.run(ctx, &mutation{
		name: op,
		apply: func(st state) (state, error) {
			cur, ok := st.note(note.Id)
			if !ok {
				return st, domain.Wrap(domain.ErrNotFound, op, errors.New(note.Id))
			}
			before = cur
			merged = cur
			merged.Title = note.Title
			merged.Content = note.Content
			return st.updateNote(note.Id, func(n domain.Note) domain.Note {
				n.Title = merged.Title
				n.Content = merged.Content
				return n
			}), nil
		},
		commit: func(ctx context.Context) error {
			if merged.HasEmbedding() {
				if err := s.embeddings.Update(ctx, merged.EmbeddingsId, merged.Content); err != nil {
					return err
				}
			} else {
				id, err := s.embeddings.CreateInitial(ctx, merged.Content)
				if err != nil {
					return err
				}
				merged.EmbeddingsId = id
				createdEmbedding = id
			}

			if err := s.remote.UpdateNote(ctx, merged); err != nil {
				if createdEmbedding != "" {
					s.dropEmbedding(context.WithoutCancel(ctx), merged.Id, createdEmbedding)
				}
				return err
			}
			return nil
		},
		confirm: func(st state) state {
			return st.updateNote(merged.Id, func(n domain.Note) domain.Note {
				n.EmbeddingsId = merged.EmbeddingsId
				return n
			})
		},
		compensate: func(st state) state {
			return st.updateNote(before.Id, func(n domain.Note) domain.Note {
				n.Title = before.Title
				n.Content = before.Content
				n.EmbeddingsId = before.EmbeddingsId
				return n
			})
		},
	})
	if err != nil {
		return domain.Note{}, err
	}
	return merged, nil
}

// DeleteNote deletes the note remotely, then its embedding, then drops it
// from the cache. A failed embedding cleanup is logged and does not undo the
// note deletion.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	const op = "delete note"

	note, ok := s.Note(id)
	if !ok {
		return domain.Wrap(domain.ErrNotFound, op, errors.New(id))
	}

	return s.run(ctx, &mutation{
		name: op,
		commit: func(ctx context.Context) error {
			return s.deleteRemote(ctx, note)
		},
		confirm: func(st state) state {
			return st.withoutNotes(id)
		},
	})
}

// DeleteNotes deletes ids concurrently and removes the successful ones from
// the cache in one pass. Notes whose deletion failed stay cached.
func (s *Store) DeleteNotes(ctx context.Context, ids []string) taskgroup.Result {
	st := s.snapshot()

	res := taskgroup.Run(ctx, ids, s.batchLimit, func(ctx context.Context, id string) error {
		note, ok := st.note(id)
		if !ok {
			return domain.Wrap(domain.ErrNotFound, "delete note", errors.New(id))
		}
		return s.deleteRemote(ctx, note)
	})

	if len(res.Succeeded) > 0 {
		s.mu.Lock()
		s.state = s.state.withoutNotes(res.Succeeded...)
		s.mu.Unlock()
	}

	if !res.OK() {
		s.log.Warn(moduleName, "batch delete partially failed", map[string]interface{}{
			"deleted": len(res.Succeeded),
			"failed":  res.FailedKeys(),
		})
	}
	return res
}

func (s *Store) DeleteAll(ctx context.Context) taskgroup.Result {
	notes := s.snapshot().notes
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.Id
	}
	return s.DeleteNotes(ctx, ids)
}

// MoveNote reassigns the note optimistically and reverts on failure. Moving a
// note into the folder it already lives in still commits and changes nothing.
func (s *Store) MoveNote(ctx context.Context, noteID, targetFolderID string) error {
	const op = "move note"

	targetFolderID = domain.NormalizeFolderID(targetFolderID)
	var before, moved domain.Note

	return s.run(ctx, &mutation{
		name: op,
		apply: func(st state) (state, error) {
			cur, ok := st.note(noteID)
			if !ok {
				return st, domain.Wrap(domain.ErrNotFound, op, errors.New(noteID))
			}
			if _, ok := domain.FindFolderByID(st.folders, targetFolderID); !ok {
				return st, domain.Wrap(domain.ErrNotFound, op, errors.New(targetFolderID))
			}
			before = cur
			moved = cur
			moved.FolderId = targetFolderID
			return st.updateNote(noteID, func(n domain.Note) domain.Note {
				n.FolderId = targetFolderID
				return n
			}), nil
		},
		commit: func(ctx context.Context) error {
			return s.remote.UpdateNote(ctx, moved)
		},
		compensate: func(st state) state {
			return st.updateNote(noteID, func(n domain.Note) domain.Note {
				if n.FolderId == targetFolderID {
					n.FolderId = before.FolderId
				}
				return n
			})
		},
	})
}

func (s *Store) deleteRemote(ctx context.Context, note domain.Note) error {
	if err := s.remote.DeleteNote(ctx, note.Id); err != nil {
		return err
	}
	if note.HasEmbedding() {
		s.dropEmbedding(ctx, note.Id, note.EmbeddingsId)
	}
	return nil
}

func (s *Store) dropEmbedding(ctx context.Context, noteID, embeddingsID string) {
	if err := s.embeddings.Delete(ctx, embeddingsID); err != nil {
		s.log.Warn(moduleName, "embedding cleanup failed", map[string]interface{}{
			"note_id":       noteID,
			"embeddings_id": embeddingsID,
			"error":         err.Error(),
		})
	}
}
