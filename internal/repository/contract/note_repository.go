package contract

import (
	"context"

	"notealog/internal/entity"
	"notealog/internal/repository/specification"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id string) error
	// ReassignFolder moves every note of one folder to another and returns
	// how many notes moved.
	ReassignFolder(ctx context.Context, fromFolderId, toFolderId string) (int64, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
