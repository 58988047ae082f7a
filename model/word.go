package model

import (
	"time"

	"gorm.io/gorm"
)

// Word is a vocabulary entry owned by one user.
type Word struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"index;not null"`
	CategoryID  uint   `gorm:"index;not null"`
	Term        string `gorm:"size:128;not null"`
	Translation string `gorm:"size:128;not null"`
	Language    string `gorm:"size:8;not null"`
	Learned     bool   `gorm:"default:false;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (w *Word) BeforeCreate(tx *gorm.DB) error {
	if w.ID == 0 {
		w.ID = GenerateID()
	}
	return nil
}
