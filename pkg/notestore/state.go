package notestore

import (
	"notealog/pkg/domain"
)

// state is immutable once published: every change derives new slices from
// the old ones, so a reader holding a state never sees it change.
type state struct {
	notes    []domain.Note
	folders  []domain.Folder
	selected string
}

func (st state) noteIndex(id string) int {
	for i, n := range st.notes {
		if n.Id == id {
			return i
		}
	}
	return -1
}

func (st state) note(id string) (domain.Note, bool) {
	if i := st.noteIndex(id); i >= 0 {
		return st.notes[i], true
	}
	return domain.Note{}, false
}

func (st state) withNote(n domain.Note) state {
	notes := make([]domain.Note, len(st.notes), len(st.notes)+1)
	copy(notes, st.notes)
	st.notes = append(notes, n)
	return st
}

// updateNote replaces the note with id by fn(note). Missing ids are a no-op.
func (st state) updateNote(id string, fn func(domain.Note) domain.Note) state {
	i := st.noteIndex(id)
	if i < 0 {
		return st
	}
	notes := make([]domain.Note, len(st.notes))
	copy(notes, st.notes)
	notes[i] = fn(notes[i])
	st.notes = notes
	return st
}

func (st state) withoutNotes(ids ...string) state {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	notes := make([]domain.Note, 0, len(st.notes))
	for _, n := range st.notes {
		if _, ok := drop[n.Id]; ok {
			continue
		}
		notes = append(notes, n)
	}
	st.notes = notes
	if _, ok := drop[st.selected]; ok {
		st.selected = ""
	}
	return st
}

func (st state) withFolder(f domain.Folder) state {
	folders := make([]domain.Folder, len(st.folders), len(st.folders)+1)
	copy(folders, st.folders)
	st.folders = append(folders, f)
	return st
}

func (st state) updateFolder(id string, fn func(domain.Folder) domain.Folder) state {
	folders := make([]domain.Folder, len(st.folders))
	copy(folders, st.folders)
	for i := range folders {
		if folders[i].Id == id {
			folders[i] = fn(folders[i])
		}
	}
	st.folders = folders
	return st
}

func (st state) withoutFolder(id string) state {
	folders := make([]domain.Folder, 0, len(st.folders))
	for _, f := range st.folders {
		if f.Id != id {
			folders = append(folders, f)
		}
	}
	st.folders = folders
	return st
}
