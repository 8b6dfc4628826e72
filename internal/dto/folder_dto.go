package dto

type CreateFolderRequest struct {
	Id   string `json:"id" validate:"omitempty,max=64"`
	Name string `json:"name" validate:"required,max=255"`
}

type RenameFolderRequest struct {
	Id   string
	Name string `json:"name" validate:"required,max=255"`
}

type EnsureFolderRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type FolderResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// EnsureFolderResponse reports whether the folder had to be created.
type EnsureFolderResponse struct {
	Folder  FolderResponse
	Created bool
}
