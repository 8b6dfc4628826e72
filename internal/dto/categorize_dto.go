package dto

// CategorizeNoteRequest categorizes one note that may not be saved yet.
type CategorizeNoteRequest struct {
	NoteTitle       string `json:"noteTitle"`
	NoteContent     string `json:"noteContent"`
	NoteEmbeddingID string `json:"noteEmbeddingID"`
}

func (r CategorizeNoteRequest) IsEmpty() bool {
	return r.NoteTitle == "" && r.NoteContent == "" && r.NoteEmbeddingID == ""
}

type CategorizeNoteResponse struct {
	Category string `json:"category"`
}

type SuggestedFolder struct {
	Name string  `json:"name"`
	Id   *string `json:"id"`
}

type SuggestionItem struct {
	NoteId          string          `json:"noteId"`
	SuggestedFolder SuggestedFolder `json:"suggestedFolder"`
}

type SuggestionFailure struct {
	NoteId string `json:"noteId"`
	Error  string `json:"error"`
}

type SuggestionsResponse struct {
	Suggestions []SuggestionItem    `json:"suggestions"`
	Failures    []SuggestionFailure `json:"failures"`
}

type AutoCategorizeResponse struct {
	JobId string `json:"jobId"`
}

// AutoCategorizeMessage is the queue payload of a server-side job.
type AutoCategorizeMessage struct {
	JobId string `json:"job_id"`
	// Trigger is "api" or "cron".
	Trigger string `json:"trigger"`
}

// AutoCategorizeResult summarizes a finished job.
type AutoCategorizeResult struct {
	JobId  string
	Moved  int
	Failed int
}
