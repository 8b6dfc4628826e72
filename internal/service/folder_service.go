package service

import (
	"context"
	"errors"
	"strings"

	"notealog/internal/dto"
	"notealog/internal/entity"
	"notealog/internal/pkg/logger"
	"notealog/internal/repository/specification"
	"notealog/internal/repository/unitofwork"
	"notealog/pkg/domain"
	"notealog/pkg/events"

	"github.com/google/uuid"
)

type IFolderService interface {
	GetAll(ctx context.Context) ([]*dto.FolderResponse, error)
	Create(ctx context.Context, req *dto.CreateFolderRequest) (*dto.FolderResponse, error)
	Rename(ctx context.Context, req *dto.RenameFolderRequest) (*dto.FolderResponse, error)
	Delete(ctx context.Context, id string) error
	// Ensure returns the folder with exactly this name, creating it if
	// needed. Concurrent callers converge on one folder.
	Ensure(ctx context.Context, req *dto.EnsureFolderRequest) (*dto.EnsureFolderResponse, error)
}

type folderService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher IEventPublisher
	log            logger.ILogger
}

func NewFolderService(
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher IEventPublisher,
	log logger.ILogger,
) IFolderService {
	return &folderService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func toFolderResponse(f *entity.Folder) *dto.FolderResponse {
	return &dto.FolderResponse{Id: f.Id, Name: f.Name}
}

func (s *folderService) GetAll(ctx context.Context) ([]*dto.FolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	folders, err := uow.FolderRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FolderResponse, 0, len(folders))
	for _, f := range folders {
		res = append(res, toFolderResponse(f))
	}
	return res, nil
}

func (s *folderService) Create(ctx context.Context, req *dto.CreateFolderRequest) (*dto.FolderResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.Wrap(domain.ErrInvalidName, "create folder", nil)
	}
	id := req.Id
	if id == "" {
		id = uuid.NewString()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.FolderRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Wrap(domain.ErrDuplicateName, "create folder", errors.New(name))
	}

	folder := entity.Folder{Id: id, Name: name}
	// The unique index still catches a racing insert.
	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}

	s.log.Info("FOLDER", "folder created", map[string]interface{}{"folder_id": folder.Id, "name": name})
	return toFolderResponse(&folder), nil
}

func (s *folderService) Rename(ctx context.Context, req *dto.RenameFolderRequest) (*dto.FolderResponse, error) {
	const op = "rename folder"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.Wrap(domain.ErrInvalidName, op, nil)
	}
	if req.Id == domain.UnassignedFolderID {
		return nil, domain.Wrap(domain.ErrReservedFolder, op, nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, domain.Wrap(domain.ErrNotFound, op, errors.New(req.Id))
	}

	folder.Name = name
	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}
	return toFolderResponse(folder), nil
}

// Delete removes the folder and moves its notes to the reserved folder in
// one transaction.
func (s *folderService) Delete(ctx context.Context, id string) error {
	const op = "delete folder"

	if id == domain.UnassignedFolderID {
		return domain.Wrap(domain.ErrReservedFolder, op, nil)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	folder, err := uow.FolderRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if folder == nil {
		return domain.Wrap(domain.ErrNotFound, op, errors.New(id))
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	reassigned, err := uow.NoteRepository().ReassignFolder(ctx, id, domain.UnassignedFolderID)
	if err != nil {
		return err
	}
	if err := uow.FolderRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info("FOLDER", "folder deleted", map[string]interface{}{"folder_id": id, "reassigned_notes": reassigned})
	if err := s.eventPublisher.Publish(ctx, events.NewFolderDeleted(id, reassigned)); err != nil {
		s.log.Warn("FOLDER", "failed to publish folder deletion", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *folderService) Ensure(ctx context.Context, req *dto.EnsureFolderRequest) (*dto.EnsureFolderResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.Wrap(domain.ErrInvalidName, "ensure folder", nil)
	}

	res, err := s.getOrCreate(ctx, name)
	if errors.Is(err, domain.ErrDuplicateName) {
		// Lost the race to a concurrent insert: the folder exists now.
		res, err = s.getOrCreate(ctx, name)
	}
	return res, err
}

func (s *folderService) getOrCreate(ctx context.Context, name string) (*dto.EnsureFolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.FolderRepository().FindOne(ctx, specification.ByName{Name: name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &dto.EnsureFolderResponse{Folder: *toFolderResponse(existing)}, nil
	}

	folder := entity.Folder{Id: uuid.NewString(), Name: name}
	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("FOLDER", "folder ensured", map[string]interface{}{"folder_id": folder.Id, "name": name})
	return &dto.EnsureFolderResponse{Folder: *toFolderResponse(&folder), Created: true}, nil
}
