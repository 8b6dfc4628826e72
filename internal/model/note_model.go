package model

import (
	"time"
)

type Note struct {
	Id           string    `gorm:"type:varchar(64);primaryKey"`
	Title        string    `gorm:"type:varchar(255);not null;default:''"`
	Content      string    `gorm:"type:text"`
	FolderId     string    `gorm:"type:varchar(64);not null;default:'unassigned';index"`
	EmbeddingsId *string   `gorm:"type:varchar(255);index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
