package domain

// UnassignedFolderID is the id of the reserved folder that holds every note
// without an explicit folder. It is the only representation of "no folder":
// an empty folder id is normalized to it at every boundary.
const UnassignedFolderID = "unassigned"

// UnassignedFolderName is the display name of the reserved folder.
const UnassignedFolderName = "Unassigned"

type Note struct {
	Id           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	FolderId     string `json:"folderId"`
	EmbeddingsId string `json:"embeddingsId,omitempty"`
}

// NormalizeFolderID maps the empty id onto the reserved folder.
func NormalizeFolderID(id string) string {
	if id == "" {
		return UnassignedFolderID
	}
	return id
}

// IsUnassigned reports whether the note lives in the reserved folder.
func (n Note) IsUnassigned() bool {
	return NormalizeFolderID(n.FolderId) == UnassignedFolderID
}

// HasEmbedding reports whether the note content was embedded at least once.
func (n Note) HasEmbedding() bool {
	return n.EmbeddingsId != ""
}
