package entity

import (
	"time"
)

type Folder struct {
	Id        string
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
