package auth

import (
	"context"

	"github.com/lexikon-app/lexikon/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, sessionID uint) (*model.Session, error)
	// ListByUser returns the user's sessions, newest first.
	ListByUser(ctx context.Context, userID uint) ([]*model.Session, error)
	// Delete reports whether a row was actually removed.
	Delete(ctx context.Context, sessionID uint) (bool, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID uint) ([]*model.Session, error) {
	var sessions []*model.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID uint) (bool, error) {
	ret := r.db.WithContext(ctx).Delete(&model.Session{}, "id = ?", sessionID)
	return ret.RowsAffected > 0, ret.Error
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}
