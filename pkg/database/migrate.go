package database

import (
	"notealog/internal/model"
	"notealog/pkg/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates or updates the folders and notes tables and makes sure
// the reserved folder exists. It is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Folder{}, &model.Note{}); err != nil {
		return err
	}
	return SeedReservedFolder(db)
}

func SeedReservedFolder(db *gorm.DB) error {
	reserved := model.Folder{Id: domain.UnassignedFolderID, Name: domain.UnassignedFolderName}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reserved).Error
}
