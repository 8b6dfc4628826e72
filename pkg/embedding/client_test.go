package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"notealog/pkg/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateInitial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/create_initial_note_embeddings", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Buy milk", req["note_contents"])
		_, _ = w.Write([]byte(`{"message":"emb-1"}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL).CreateInitial(context.Background(), "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, "emb-1", id)
}

func TestClient_UpdateAndDeleteSendEmbeddingsID(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "emb-1", req["embeddings_ID"])
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.Update(context.Background(), "emb-1", "new text"))
	require.NoError(t, c.Delete(context.Background(), "emb-1"))
	assert.Equal(t, []string{"/update_note_embeddings", "/delete_note_embeddings"}, paths)
}

func TestClient_RetrieveSimilarKeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/retrieve_similar_to_document", r.URL.Path)
		assert.Equal(t, "emb-1", r.URL.Query().Get("embeddings_ID"))
		_, _ = w.Write([]byte(`{"message":[{"id":"b","score":0.5},{"id":"a","score":0.91}]}`))
	}))
	defer srv.Close()

	matches, err := NewClient(srv.URL).RetrieveSimilar(context.Background(), "emb-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SimilarityMatch{{Id: "b", Score: 0.5}, {Id: "a", Score: 0.91}}, matches)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", wantErr: domain.ErrRemoteUnavailable},
		{name: "wrong shape", status: http.StatusOK, body: `{"message":42}`, wantErr: domain.ErrMalformedResponse},
		{name: "empty id", status: http.StatusOK, body: `{}`, wantErr: domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).CreateInitial(context.Background(), "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).RetrieveSimilar(context.Background(), "emb-1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}
