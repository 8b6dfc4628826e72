package embedding

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

// Service is the contract of the external embedding service.
type Service interface {
	CreateInitial(ctx context.Context, contents string) (string, error)
	Update(ctx context.Context, embeddingsID, contents string) error
	Delete(ctx context.Context, embeddingsID string) error
	RetrieveSimilar(ctx context.Context, embeddingsID string) ([]domain.SimilarityMatch, error)
}

// Client implements Service over the embedding service's HTTP API.
type Client struct {
	BaseURL string
	Client  *http.Client
}

var _ Service = &Client{}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type createRequest struct {
	NoteContents string `json:"note_contents"`
}

type updateRequest struct {
	EmbeddingsID string `json:"embeddings_ID"`
	NoteContents string `json:"note_contents"`
}

type deleteRequest struct {
	EmbeddingsID string `json:"embeddings_ID"`
}

type createResponse struct {
	Message string `json:"message"`
}

type similarResponse struct {
	Message []domain.SimilarityMatch `json:"message"`
}

func (c *Client) CreateInitial(ctx context.Context, contents string) (string, error) {
	const op = "embedding create"

	body, err := c.post(ctx, op, "/create_initial_note_embeddings", createRequest{NoteContents: contents})
	if err != nil {
		return "", err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", domain.Wrap(domain.ErrMalformedResponse, op, err)
	}
	if resp.Message == "" {
		return "", domain.Wrap(domain.ErrMalformedResponse, op, fmt.Errorf("empty embeddings id"))
	}
	return resp.Message, nil
}

func (c *Client) Update(ctx context.Context, embeddingsID, contents string) error {
	_, err := c.post(ctx, "embedding update", "/update_note_embeddings", updateRequest{
		EmbeddingsID: embeddingsID,
		NoteContents: contents,
	})
	return err
}

func (c *Client) Delete(ctx context.Context, embeddingsID string) error {
	_, err := c.post(ctx, "embedding delete", "/delete_note_embeddings", deleteRequest{EmbeddingsID: embeddingsID})
	return err
}

// RetrieveSimilar returns matches in the order the service ranked them.
func (c *Client) RetrieveSimilar(ctx context.Context, embeddingsID string) ([]domain.SimilarityMatch, error) {
	const op = "embedding retrieve similar"

	endpoint := fmt.Sprintf("%s/retrieve_similar_to_document?embeddings_ID=%s", c.BaseURL, url.QueryEscape(embeddingsID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	body, err := c.do(req, op)
	if err != nil {
		return nil, err
	}

	var resp similarResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.Wrap(domain.ErrMalformedResponse, op, err)
	}
	return resp.Message, nil
}

func (c *Client) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, op)
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, domain.Wrap(domain.ErrRemoteUnavailable, op, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Wrap(domain.ErrRemoteUnavailable, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.Wrap(domain.ErrRemoteUnavailable, op,
			fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}
	return bodyBytes, nil
}
