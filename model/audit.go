package model

import "time"

// AuditLog is an immutable record of one security-relevant action. The
// application only ever inserts rows; no update or delete path exists.
type AuditLog struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement"`
	UserID       *uint          `gorm:"index"`            // subject may be unknown (failed login with unregistered email)
	Email        string         `gorm:"size:256;index"`   // snapshot of subject email at event time
	Action       string         `gorm:"size:64;not null;index"`
	ResourceType string         `gorm:"size:32;index"`
	ResourceID   string         `gorm:"size:64"`
	IP           string         `gorm:"size:45;not null"`
	UserAgent    string         `gorm:"size:512;not null"`
	Success      bool           `gorm:"not null;index"`
	ErrorMessage string         `gorm:"size:512"`
	Metadata     map[string]any `gorm:"serializer:json"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
