package docstore

import (
	"time"

	"gorm.io/gorm"
)

// Document est la ligne stockée pour chaque enregistrement
type Document struct {
	Collection string `gorm:"primaryKey;size:512"`
	ID         string `gorm:"primaryKey;size:255"`
	Data       string `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}

// Migrate crée la table des documents si besoin
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Document{})
}
