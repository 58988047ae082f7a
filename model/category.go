package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;size:64;not null"`
	Words     []Word `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == 0 {
		c.ID = GenerateID()
	}
	return nil
}
