package specification

import (
	"gorm.io/gorm"
)

type ByFolderID struct {
	FolderID string
}

func (s ByFolderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id = ?", s.FolderID)
}

// NotInFolder excludes notes of one folder, typically the reserved one.
type NotInFolder struct {
	FolderID string
}

func (s NotInFolder) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id <> ?", s.FolderID)
}

type ByEmbeddingIDs struct {
	IDs []string
}

func (s ByEmbeddingIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("embeddings_id IN ?", s.IDs)
}
