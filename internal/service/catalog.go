package service

import (
	"context"

	"notealog/internal/mapper"
	"notealog/internal/repository/specification"
	"notealog/internal/repository/unitofwork"
	"notealog/pkg/domain"
)

// Catalog serves the categorization engine straight from the database.
type Catalog struct {
	uowFactory unitofwork.RepositoryFactory
	noteMapper *mapper.NoteMapper
}

func NewCatalog(uowFactory unitofwork.RepositoryFactory) *Catalog {
	return &Catalog{
		uowFactory: uowFactory,
		noteMapper: mapper.NewNoteMapper(),
	}
}

func (c *Catalog) Folders(ctx context.Context) ([]domain.Folder, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	folders, err := uow.FolderRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Folder, 0, len(folders))
	for _, f := range folders {
		out = append(out, domain.Folder{Id: f.Id, Name: f.Name})
	}
	return out, nil
}

func (c *Catalog) HasCategorizedNotes(ctx context.Context) (bool, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	n, err := uow.NoteRepository().Count(ctx, specification.NotInFolder{FolderID: domain.UnassignedFolderID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Catalog) NotesByEmbeddingIDs(ctx context.Context, ids []string) ([]domain.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specification.ByEmbeddingIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, c.noteMapper.ToDomain(n))
	}
	return out, nil
}

// UnassignedNotes lists the notes still waiting for a folder.
func (c *Catalog) UnassignedNotes(ctx context.Context) ([]domain.Note, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByFolderID{FolderID: domain.UnassignedFolderID},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, c.noteMapper.ToDomain(n))
	}
	return out, nil
}
