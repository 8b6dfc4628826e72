package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"notealog/internal/dto"
	"notealog/internal/pkg/logger"
	"notealog/internal/pkg/serverutils"
	"notealog/pkg/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFolderService struct {
	existing map[string]string
	deleted  []string
}

func (f *fakeFolderService) GetAll(ctx context.Context) ([]*dto.FolderResponse, error) {
	return []*dto.FolderResponse{{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}}, nil
}

func (f *fakeFolderService) Create(ctx context.Context, req *dto.CreateFolderRequest) (*dto.FolderResponse, error) {
	if _, ok := f.existing[req.Name]; ok {
		return nil, domain.Wrap(domain.ErrDuplicateName, "create folder", nil)
	}
	return &dto.FolderResponse{Id: "new", Name: req.Name}, nil
}

func (f *fakeFolderService) Rename(ctx context.Context, req *dto.RenameFolderRequest) (*dto.FolderResponse, error) {
	if req.Id == domain.UnassignedFolderID {
		return nil, domain.Wrap(domain.ErrReservedFolder, "rename folder", nil)
	}
	return &dto.FolderResponse{Id: req.Id, Name: req.Name}, nil
}

func (f *fakeFolderService) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeFolderService) Ensure(ctx context.Context, req *dto.EnsureFolderRequest) (*dto.EnsureFolderResponse, error) {
	if id, ok := f.existing[req.Name]; ok {
		return &dto.EnsureFolderResponse{Folder: dto.FolderResponse{Id: id, Name: req.Name}}, nil
	}
	return &dto.EnsureFolderResponse{Folder: dto.FolderResponse{Id: "new", Name: req.Name}, Created: true}, nil
}

type fakeCategorizeService struct {
	suggestAllCalls int
	categorized     []dto.CategorizeNoteRequest
}

func (f *fakeCategorizeService) Categorize(ctx context.Context, req *dto.CategorizeNoteRequest) (*dto.CategorizeNoteResponse, error) {
	f.categorized = append(f.categorized, *req)
	return &dto.CategorizeNoteResponse{Category: "Work"}, nil
}

func (f *fakeCategorizeService) SuggestAll(ctx context.Context) (*dto.SuggestionsResponse, error) {
	f.suggestAllCalls++
	return &dto.SuggestionsResponse{
		Suggestions: []dto.SuggestionItem{{NoteId: "n1", SuggestedFolder: dto.SuggestedFolder{Name: "Travel"}}},
		Failures:    []dto.SuggestionFailure{},
	}, nil
}

func (f *fakeCategorizeService) StartAutoCategorize(ctx context.Context, trigger string) (*dto.AutoCategorizeResponse, error) {
	return &dto.AutoCategorizeResponse{JobId: "job-1"}, nil
}

func (f *fakeCategorizeService) RunAutoCategorize(ctx context.Context, msg dto.AutoCategorizeMessage) (*dto.AutoCategorizeResult, error) {
	return &dto.AutoCategorizeResult{JobId: msg.JobId}, nil
}

func newApp(register ...func(fiber.Router)) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandlerMiddleware(logger.NewNopLogger())})
	api := app.Group("/api")
	for _, r := range register {
		r(api)
	}
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, serverutils.BaseResponse[json.RawMessage]) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env serverutils.BaseResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestFolderController(t *testing.T) {
	folders := &fakeFolderService{existing: map[string]string{"Work": "f1"}}
	app := newApp(NewFolderController(folders).RegisterRoutes)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"list", "GET", "/api/folders", "", fiber.StatusOK},
		{"create", "POST", "/api/folders", `{"name":"Home"}`, fiber.StatusCreated},
		{"create duplicate", "POST", "/api/folders", `{"name":"Work"}`, fiber.StatusConflict},
		{"create without name", "POST", "/api/folders", `{}`, fiber.StatusBadRequest},
		{"ensure new", "POST", "/api/folders/ensure", `{"name":"Travel"}`, fiber.StatusCreated},
		{"ensure existing", "POST", "/api/folders/ensure", `{"name":"Work"}`, fiber.StatusOK},
		{"rename reserved", "PUT", "/api/folders/unassigned", `{"name":"Inbox"}`, fiber.StatusBadRequest},
		{"rename", "PUT", "/api/folders/f1", `{"name":"Office"}`, fiber.StatusOK},
		{"delete", "DELETE", "/api/folders/f1", "", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := send(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, env.Code)
			assert.Equal(t, status < 300, env.Success)
		})
	}
	assert.Equal(t, []string{"f1"}, folders.deleted)
}

func TestFolderController_EnsureReturnsFolder(t *testing.T) {
	app := newApp(NewFolderController(&fakeFolderService{existing: map[string]string{"Work": "f1"}}).RegisterRoutes)

	_, env := send(t, app, "POST", "/api/folders/ensure", `{"name":"Work"}`)

	var folder dto.FolderResponse
	require.NoError(t, json.Unmarshal(env.Data, &folder))
	assert.Equal(t, dto.FolderResponse{Id: "f1", Name: "Work"}, folder)
}

func TestCategorizeController(t *testing.T) {
	svc := &fakeCategorizeService{}
	app := newApp(NewCategorizeController(svc).RegisterRoutes)

	status, env := send(t, app, "POST", "/api/categorize-note", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, svc.suggestAllCalls)
	var suggestions dto.SuggestionsResponse
	require.NoError(t, json.Unmarshal(env.Data, &suggestions))
	assert.Equal(t, "Travel", suggestions.Suggestions[0].SuggestedFolder.Name)

	status, env = send(t, app, "POST", "/api/categorize-note", `{"noteTitle":"standup","noteContent":"agenda","noteEmbeddingID":"e1"}`)
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, svc.categorized, 1)
	assert.Equal(t, "e1", svc.categorized[0].NoteEmbeddingID)
	assert.JSONEq(t, `{"category":"Work"}`, string(env.Data))

	status, env = send(t, app, "POST", "/api/categorize-note/auto", "")
	assert.Equal(t, fiber.StatusAccepted, status)
	assert.JSONEq(t, `{"jobId":"job-1"}`, string(env.Data))
}

type fakeNoteService struct {
	listed []dto.ListNotesRequest
}

func (f *fakeNoteService) GetAll(ctx context.Context, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error) {
	f.listed = append(f.listed, *req)
	return []*dto.NoteResponse{}, nil
}

func (f *fakeNoteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	return &dto.NoteResponse{Id: req.Id, FolderId: domain.UnassignedFolderID}, nil
}

func (f *fakeNoteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	return &dto.NoteResponse{Id: req.Id, FolderId: req.FolderId}, nil
}

func (f *fakeNoteService) Delete(ctx context.Context, id string) error {
	return nil
}

func TestNoteController_ListWindow(t *testing.T) {
	svc := &fakeNoteService{}
	app := newApp(NewNoteController(svc).RegisterRoutes)

	status, _ := send(t, app, "GET", "/api/notes", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, "GET", "/api/notes?limit=20&offset=40", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = send(t, app, "GET", "/api/notes?limit=-1", "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	assert.Equal(t, []dto.ListNotesRequest{{}, {Limit: 20, Offset: 40}}, svc.listed)
}
