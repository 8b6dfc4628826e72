package specification

import (
	"gorm.io/gorm"
)

// ByName matches a folder name exactly (case-sensitive).
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
