package model

import (
	"time"

	"gorm.io/gorm"
)

// User stores account information. OneTimePassword and OTPExpiration hold the
// pending login challenge; both are set or both are nil.
type User struct {
	ID              uint       `gorm:"primarykey"`
	Email           string     `gorm:"uniqueIndex;size:256;not null"`
	Password        string     `gorm:"size:64;not null"`
	FirstName       string     `gorm:"size:64;not null"`
	LastName        string     `gorm:"size:64;not null"`
	IsVerified      bool       `gorm:"default:false;not null"`
	IsAdmin         bool       `gorm:"default:false;not null"`
	OneTimePassword *string    `gorm:"size:64"`
	OTPExpiration   *time.Time `gorm:"column:otp_expiration"`
	Sessions        []Session  `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == 0 {
		u.ID = GenerateID()
	}
	return nil
}
