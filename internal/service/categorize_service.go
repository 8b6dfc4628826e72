package service

import (
	"context"
	"errors"
	"sync"

	"notealog/internal/dto"
	"notealog/internal/pkg/logger"
	"notealog/internal/repository/specification"
	"notealog/internal/repository/unitofwork"
	"notealog/pkg/categorizer"
	"notealog/pkg/domain"
	"notealog/pkg/events"
	"notealog/pkg/taskgroup"

	"github.com/google/uuid"
)

// Suggester is implemented by *categorizer.Engine.
type Suggester interface {
	Suggest(ctx context.Context, note domain.Note) (string, error)
	SuggestAll(ctx context.Context, notes []domain.Note, limit int) categorizer.BatchResult
}

type ICategorizeService interface {
	// Categorize suggests a folder name for a note that may not be saved.
	Categorize(ctx context.Context, req *dto.CategorizeNoteRequest) (*dto.CategorizeNoteResponse, error)
	// SuggestAll suggests a folder for every unassigned note without moving
	// anything.
	SuggestAll(ctx context.Context) (*dto.SuggestionsResponse, error)
	// StartAutoCategorize queues a job that suggests and applies folders.
	StartAutoCategorize(ctx context.Context, trigger string) (*dto.AutoCategorizeResponse, error)
	RunAutoCategorize(ctx context.Context, msg dto.AutoCategorizeMessage) (*dto.AutoCategorizeResult, error)
}

type categorizeService struct {
	uowFactory       unitofwork.RepositoryFactory
	catalog          *Catalog
	suggester        Suggester
	folderService    IFolderService
	publisherService IPublisherService
	eventPublisher   IEventPublisher
	limit            int
	log              logger.ILogger
}

func NewCategorizeService(
	uowFactory unitofwork.RepositoryFactory,
	suggester Suggester,
	folderService IFolderService,
	publisherService IPublisherService,
	eventPublisher IEventPublisher,
	limit int,
	log logger.ILogger,
) ICategorizeService {
	return &categorizeService{
		uowFactory:       uowFactory,
		catalog:          NewCatalog(uowFactory),
		suggester:        suggester,
		folderService:    folderService,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		limit:            limit,
		log:              log,
	}
}

func (s *categorizeService) Categorize(ctx context.Context, req *dto.CategorizeNoteRequest) (*dto.CategorizeNoteResponse, error) {
	if req.IsEmpty() {
		return nil, domain.Wrap(domain.ErrInvalidName, "categorize", errors.New("note has no title, content or embedding"))
	}

	category, err := s.suggester.Suggest(ctx, domain.Note{
		Title:        req.NoteTitle,
		Content:      req.NoteContent,
		EmbeddingsId: req.NoteEmbeddingID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CategorizeNoteResponse{Category: category}, nil
}

func (s *categorizeService) SuggestAll(ctx context.Context) (*dto.SuggestionsResponse, error) {
	notes, err := s.catalog.UnassignedNotes(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := s.catalog.Folders(ctx)
	if err != nil {
		return nil, err
	}

	batch := s.suggester.SuggestAll(ctx, notes, s.limit)

	res := &dto.SuggestionsResponse{
		Suggestions: make([]dto.SuggestionItem, 0, len(batch.Suggestions)),
		Failures:    make([]dto.SuggestionFailure, 0, len(batch.Failures)),
	}
	for _, m := range batch.Suggestions {
		item := dto.SuggestionItem{
			NoteId:          m.NoteId,
			SuggestedFolder: dto.SuggestedFolder{Name: m.SuggestedFolderName},
		}
		if f, ok := domain.FindFolderByName(folders, m.SuggestedFolderName); ok {
			id := f.Id
			item.SuggestedFolder.Id = &id
		}
		res.Suggestions = append(res.Suggestions, item)
	}
	for _, f := range batch.Failures {
		res.Failures = append(res.Failures, dto.SuggestionFailure{NoteId: f.Key, Error: f.Err.Error()})
	}

	s.log.Info("CATEGORIZE", "suggestions computed", map[string]interface{}{
		"notes":     len(notes),
		"suggested": len(res.Suggestions),
		"failed":    len(res.Failures),
	})
	return res, nil
}

func (s *categorizeService) StartAutoCategorize(ctx context.Context, trigger string) (*dto.AutoCategorizeResponse, error) {
	msg := dto.AutoCategorizeMessage{JobId: uuid.NewString(), Trigger: trigger}
	if err := s.publisherService.PublishAutoCategorize(ctx, msg); err != nil {
		return nil, err
	}
	return &dto.AutoCategorizeResponse{JobId: msg.JobId}, nil
}

// RunAutoCategorize suggests a folder for every unassigned note, creates
// missing folders and moves the notes. Notes are independent: one failure
// leaves that note unassigned and the rest proceed.
func (s *categorizeService) RunAutoCategorize(ctx context.Context, msg dto.AutoCategorizeMessage) (*dto.AutoCategorizeResult, error) {
	notes, err := s.catalog.UnassignedNotes(ctx)
	if err != nil {
		return nil, err
	}
	batch := s.suggester.SuggestAll(ctx, notes, s.limit)

	names := make(map[string]string, len(batch.Suggestions))
	ids := make([]string, 0, len(batch.Suggestions))
	for _, m := range batch.Suggestions {
		names[m.NoteId] = m.SuggestedFolderName
		ids = append(ids, m.NoteId)
	}

	// Ensure is get-or-create per name; the mutex keeps one insert per
	// name inside this job and the unique index covers the rest.
	var ensureMu sync.Mutex
	moved := taskgroup.Run(ctx, ids, s.limit, func(ctx context.Context, noteId string) error {
		ensureMu.Lock()
		folder, err := s.folderService.Ensure(ctx, &dto.EnsureFolderRequest{Name: names[noteId]})
		ensureMu.Unlock()
		if err != nil {
			return err
		}
		return s.moveNote(ctx, noteId, folder.Folder.Id)
	})

	result := &dto.AutoCategorizeResult{
		JobId:  msg.JobId,
		Moved:  len(moved.Succeeded),
		Failed: len(batch.Failures) + len(moved.Failed),
	}

	fields := map[string]interface{}{
		"job_id":  msg.JobId,
		"trigger": msg.Trigger,
		"moved":   result.Moved,
		"failed":  result.Failed,
	}
	if result.Failed > 0 {
		fields["failed_notes"] = append(taskgroup.Result{Failed: batch.Failures}.FailedKeys(), moved.FailedKeys()...)
		s.log.Warn("CATEGORIZE", "auto categorize finished with failures", fields)
	} else {
		s.log.Info("CATEGORIZE", "auto categorize finished", fields)
	}

	if err := s.eventPublisher.Publish(ctx, events.NewCategorizationCompleted(msg.JobId, result.Moved, result.Failed)); err != nil {
		s.log.Warn("CATEGORIZE", "failed to publish completion", map[string]interface{}{"error": err.Error()})
	}
	return result, nil
}

func (s *categorizeService) moveNote(ctx context.Context, noteId, folderId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: noteId})
	if err != nil {
		return err
	}
	if note == nil {
		return domain.Wrap(domain.ErrNotFound, "move note", errors.New(noteId))
	}
	note.FolderId = folderId
	return uow.NoteRepository().Update(ctx, note)
}
