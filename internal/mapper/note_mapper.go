package mapper

import (
	"time"

	"notealog/internal/entity"
	"notealog/internal/model"
	"notealog/pkg/domain"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:           n.Id,
		Title:        n.Title,
		Content:      n.Content,
		FolderId:     domain.NormalizeFolderID(n.FolderId),
		EmbeddingsId: n.EmbeddingsId,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	// Empty embedding ids are stored as NULL.
	var embeddingsId *string
	if n.EmbeddingsId != nil && *n.EmbeddingsId != "" {
		embeddingsId = n.EmbeddingsId
	}

	return &model.Note{
		Id:           n.Id,
		Title:        n.Title,
		Content:      n.Content,
		FolderId:     domain.NormalizeFolderID(n.FolderId),
		EmbeddingsId: embeddingsId,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

// ToDomain converts to the wire type shared with clients.
func (m *NoteMapper) ToDomain(n *entity.Note) domain.Note {
	note := domain.Note{
		Id:       n.Id,
		Title:    n.Title,
		Content:  n.Content,
		FolderId: domain.NormalizeFolderID(n.FolderId),
	}
	if n.EmbeddingsId != nil {
		note.EmbeddingsId = *n.EmbeddingsId
	}
	return note
}
