package model

import (
	"time"
)

type Folder struct {
	Id        string    `gorm:"type:varchar(64);primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_folders_name"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Folder) TableName() string {
	return "folders"
}
