package unitofwork

import (
	"context"

	"notealog/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FolderRepository() contract.FolderRepository
	NoteRepository() contract.NoteRepository
}
