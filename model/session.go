package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is a successful-login artifact. Token holds a one-way hash of the
// client secret; the raw secret only ever lives in the session cookie.
type Session struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"size:128;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	IP        string    `gorm:"size:45;not null"`
	UserAgent string    `gorm:"size:512;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == 0 {
		s.ID = GenerateID()
	}
	return nil
}

func (s *Session) IsExpired() bool {
	return s.ExpiresAt.Before(time.Now())
}
