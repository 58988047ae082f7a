package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/lexikon-app/lexikon/model"
	"gorm.io/gorm"
)

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Filter narrows the audit log read side. Nil pointer fields are not applied.
type Filter struct {
	UserID  *uint
	Action  string
	Success *bool
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

type Repository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	Find(ctx context.Context, filter Filter) ([]*model.AuditLog, int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	CountByAction(ctx context.Context, from, to *time.Time, limit int) ([]ActionCount, error)
}

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func applyFilter(db *gorm.DB, filter Filter) *gorm.DB {
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.Success != nil {
		db = db.Where("success = ?", *filter.Success)
	}
	if filter.From != nil {
		db = db.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("created_at <= ?", *filter.To)
	}
	return db
}

func (r *auditRepository) Find(ctx context.Context, filter Filter) ([]*model.AuditLog, int64, error) {
	query := applyFilter(r.db.WithContext(ctx).Model(&model.AuditLog{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*model.AuditLog
	err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error
	return logs, total, err
}

func (r *auditRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	var count int64
	err := applyFilter(r.db.WithContext(ctx).Model(&model.AuditLog{}), filter).Count(&count).Error
	return count, err
}

func (r *auditRepository) CountByAction(ctx context.Context, from, to *time.Time, limit int) ([]ActionCount, error) {
	db := applyFilter(r.db.WithContext(ctx).Model(&model.AuditLog{}), Filter{From: from, To: to})

	var rows []ActionCount
	err := db.
		Select("action, COUNT(*) AS count").
		Group("action").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func NewRepository(db *gorm.DB) Repository {
	return &auditRepository{db: db}
}
