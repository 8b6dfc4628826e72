package domain

// SimilarityMatch is one entry of the ranked list returned by the embedding
// service: another note's embedding id and its closeness score.
type SimilarityMatch struct {
	Id    string  `json:"id"`
	Score float64 `json:"score"`
}

// ContextEntry is a similar, already categorized note rendered into the
// categorization prompt. Folder is nil when the note has no folder.
type ContextEntry struct {
	Folder  *string
	Title   string
	Content string
	Score   string
}

// SuggestedMove is an ephemeral recommendation to move a note into a folder
// named SuggestedFolderName. ResolvedFolderId is set once the name is matched
// to (or created as) an existing folder.
type SuggestedMove struct {
	NoteId              string  `json:"noteId"`
	SuggestedFolderName string  `json:"suggestedFolderName"`
	ResolvedFolderId    *string `json:"resolvedFolderId,omitempty"`
}
