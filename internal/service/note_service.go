package service

import (
	"context"
	"errors"

	"notealog/internal/dto"
	"notealog/internal/entity"
	"notealog/internal/pkg/logger"
	"notealog/internal/repository/specification"
	"notealog/internal/repository/unitofwork"
	"notealog/pkg/domain"

	"github.com/google/uuid"
)

type INoteService interface {
	GetAll(ctx context.Context, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error)
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id string) error
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) INoteService {
	return &noteService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	res := &dto.NoteResponse{
		Id:       n.Id,
		Title:    n.Title,
		Content:  n.Content,
		FolderId: domain.NormalizeFolderID(n.FolderId),
	}
	if n.EmbeddingsId != nil {
		res.EmbeddingsId = *n.EmbeddingsId
	}
	return res
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *noteService) GetAll(ctx context.Context, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error) {
	specs := []specification.Specification{specification.OrderBy{Field: "created_at"}}
	if req != nil {
		specs = append(specs, specification.Pagination{Limit: req.Limit, Offset: req.Offset})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, n := range notes {
		res = append(res, toNoteResponse(n))
	}
	return res, nil
}

// requireFolder fails with ErrNotFound unless folderId names an existing
// folder. The reserved folder always exists.
func requireFolder(ctx context.Context, uow unitofwork.UnitOfWork, op, folderId string) error {
	if folderId == domain.UnassignedFolderID {
		return nil
	}
	folder, err := uow.FolderRepository().FindOne(ctx, specification.ByID{ID: folderId})
	if err != nil {
		return err
	}
	if folder == nil {
		return domain.Wrap(domain.ErrNotFound, op, errors.New("folder "+folderId))
	}
	return nil
}

func (s *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folderId := domain.NormalizeFolderID(req.FolderId)
	if err := requireFolder(ctx, uow, "create note", folderId); err != nil {
		return nil, err
	}

	id := req.Id
	if id == "" {
		id = uuid.NewString()
	}
	note := entity.Note{
		Id:           id,
		Title:        req.Title,
		Content:      req.Content,
		FolderId:     folderId,
		EmbeddingsId: optionalString(req.EmbeddingsId),
	}
	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	s.log.Info("NOTE", "note created", map[string]interface{}{"note_id": note.Id, "folder_id": folderId})
	return toNoteResponse(&note), nil
}

// Update replaces the stored note with the full payload.
func (s *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	const op = "update note"

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, domain.Wrap(domain.ErrNotFound, op, errors.New(req.Id))
	}

	folderId := domain.NormalizeFolderID(req.FolderId)
	if folderId != note.FolderId {
		if err := requireFolder(ctx, uow, op, folderId); err != nil {
			return nil, err
		}
	}

	note.Title = req.Title
	note.Content = req.Content
	note.FolderId = folderId
	note.EmbeddingsId = optionalString(req.EmbeddingsId)
	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	return toNoteResponse(note), nil
}

func (s *noteService) Delete(ctx context.Context, id string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if note == nil {
		return domain.Wrap(domain.ErrNotFound, "delete note", errors.New(id))
	}
	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("NOTE", "note deleted", map[string]interface{}{"note_id": id})
	return nil
}
