package dto

// ListNotesRequest is read from the query string of GET /notes.
type ListNotesRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=1000"`
	Offset int `query:"offset" validate:"min=0"`
}

type CreateNoteRequest struct {
	Id           string `json:"id" validate:"omitempty,max=64"`
	Title        string `json:"title" validate:"max=255"`
	Content      string `json:"content"`
	FolderId     string `json:"folderId" validate:"max=64"`
	EmbeddingsId string `json:"embeddingsId" validate:"max=255"`
}

type UpdateNoteRequest struct {
	Id           string
	Title        string `json:"title" validate:"max=255"`
	Content      string `json:"content"`
	FolderId     string `json:"folderId" validate:"max=64"`
	EmbeddingsId string `json:"embeddingsId" validate:"max=255"`
}

type NoteResponse struct {
	Id           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	FolderId     string `json:"folderId"`
	EmbeddingsId string `json:"embeddingsId,omitempty"`
}
