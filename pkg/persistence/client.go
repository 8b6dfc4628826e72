package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notealog/pkg/domain"
)

// Service is the remote side of the local store: durable folders and notes.
type Service interface {
	ListFolders(ctx context.Context) ([]domain.Folder, error)
	CreateFolder(ctx context.Context, folder domain.Folder) error
	RenameFolder(ctx context.Context, id, name string) error
	DeleteFolder(ctx context.Context, id string) error
	// EnsureFolder returns the folder named name, creating it when absent.
	// created is false when another caller got there first.
	EnsureFolder(ctx context.Context, name string) (folder domain.Folder, created bool, err error)

	ListNotes(ctx context.Context) ([]domain.Note, error)
	CreateNote(ctx context.Context, note domain.Note) error
	UpdateNote(ctx context.Context, note domain.Note) error
	DeleteNote(ctx context.Context, id string) error
}

// SuggestedFolder is the server's answer for one note: the category name and
// the id of the existing folder with exactly that name, if any.
type SuggestedFolder struct {
	Name string  `json:"name"`
	Id   *string `json:"id"`
}

type BatchSuggestion struct {
	NoteId          string          `json:"noteId"`
	SuggestedFolder SuggestedFolder `json:"suggestedFolder"`
}

type BatchFailure struct {
	NoteId string `json:"noteId"`
	Error  string `json:"error"`
}

type BatchSuggestions struct {
	Suggestions []BatchSuggestion `json:"suggestions"`
	Failures    []BatchFailure    `json:"failures"`
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client implements Service against the REST API served by cmd/rest.
type Client struct {
	BaseURL string
	Client  *http.Client
}

var _ Service = &Client{}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	var folders []domain.Folder
	_, err := c.call(ctx, "list folders", http.MethodGet, "/folders", nil, &folders)
	return folders, err
}

func (c *Client) CreateFolder(ctx context.Context, folder domain.Folder) error {
	_, err := c.call(ctx, "create folder", http.MethodPost, "/folders", folder, nil)
	return err
}

func (c *Client) RenameFolder(ctx context.Context, id, name string) error {
	body := map[string]string{"name": name}
	_, err := c.call(ctx, "rename folder", http.MethodPut, "/folders/"+url.PathEscape(id), body, nil)
	return err
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete folder", http.MethodDelete, "/folders/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) EnsureFolder(ctx context.Context, name string) (domain.Folder, bool, error) {
	var folder domain.Folder
	status, err := c.call(ctx, "ensure folder", http.MethodPost, "/folders/ensure", map[string]string{"name": name}, &folder)
	if err != nil {
		return domain.Folder{}, false, err
	}
	return folder, status == http.StatusCreated, nil
}

func (c *Client) ListNotes(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	if _, err := c.call(ctx, "list notes", http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].FolderId = domain.NormalizeFolderID(notes[i].FolderId)
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, note domain.Note) error {
	_, err := c.call(ctx, "create note", http.MethodPost, "/notes", note, nil)
	return err
}

func (c *Client) UpdateNote(ctx context.Context, note domain.Note) error {
	_, err := c.call(ctx, "update note", http.MethodPut, "/notes/"+url.PathEscape(note.Id), note, nil)
	return err
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	_, err := c.call(ctx, "delete note", http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
	return err
}

// SuggestAll asks the server for a suggestion for every unassigned note.
func (c *Client) SuggestAll(ctx context.Context) (BatchSuggestions, error) {
	var res BatchSuggestions
	_, err := c.call(ctx, "suggest categories", http.MethodPost, "/categorize-note", nil, &res)
	return res, err
}

// Categorize asks for a category for a single, possibly unsaved, note.
func (c *Client) Categorize(ctx context.Context, title, content, embeddingsID string) (string, error) {
	req := map[string]string{
		"noteTitle":       title,
		"noteContent":     content,
		"noteEmbeddingID": embeddingsID,
	}
	var res struct {
		Category string `json:"category"`
	}
	_, err := c.call(ctx, "categorize note", http.MethodPost, "/categorize-note", req, &res)
	return res.Category, err
}

// StartAutoCategorize queues a server-side categorization job.
func (c *Client) StartAutoCategorize(ctx context.Context) (string, error) {
	var res struct {
		JobId string `json:"jobId"`
	}
	_, err := c.call(ctx, "auto categorize", http.MethodPost, "/categorize-note/auto", nil, &res)
	return res.JobId, err
}

func (c *Client) call(ctx context.Context, op, method, path string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, domain.Wrap(domain.ErrRemoteUnavailable, op, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, domain.Wrap(domain.ErrRemoteUnavailable, op, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(bodyBytes, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := string(bodyBytes)
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return resp.StatusCode, domain.Wrap(kindForStatus(resp.StatusCode), op, fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}

	if decodeErr != nil {
		return resp.StatusCode, domain.Wrap(domain.ErrMalformedResponse, op, decodeErr)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp.StatusCode, domain.Wrap(domain.ErrMalformedResponse, op, err)
		}
	}
	return resp.StatusCode, nil
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrDuplicateName
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidName
	default:
		return domain.ErrRemoteUnavailable
	}
}
