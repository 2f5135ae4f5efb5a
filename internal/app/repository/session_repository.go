package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/beautycart-backend/internal/app/model"
	"github.com/ikkim/beautycart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// SessionRepository stores cart sessions. Implementations return
// ErrSessionNotFound for unknown ids and ErrSessionExists when Create hits a
// taken id.
type SessionRepository interface {
	Create(ctx context.Context, session *model.CartSession) error
	FindByID(ctx context.Context, id string) (*model.CartSession, error)
	Save(ctx context.Context, session *model.CartSession) error
	Delete(ctx context.Context, id string) error
	// DeleteIdleBefore removes up to limit sessions inactive since cutoff.
	DeleteIdleBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.CartSession) error {
	logger.Debug("Creating cart session in database", map[string]interface{}{
		"session_id": session.ID,
	})

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(session)
	if result.Error != nil {
		logger.Error("Failed to create cart session in database", result.Error, map[string]interface{}{
			"session_id": session.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionExists
	}
	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*model.CartSession, error) {
	var session model.CartSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		logger.Error("Failed to find cart session in database", err, map[string]interface{}{
			"session_id": id,
		})
		return nil, err
	}
	return &session, nil
}

// Save upserts the session row.
func (r *sessionRepository) Save(ctx context.Context, session *model.CartSession) error {
	logger.Debug("Saving cart session in database", map[string]interface{}{
		"session_id": session.ID,
	})

	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		logger.Error("Failed to save cart session in database", err, map[string]interface{}{
			"session_id": session.ID,
		})
		return err
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	logger.Debug("Deleting cart session from database", map[string]interface{}{
		"session_id": id,
	})

	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CartSession{}).Error; err != nil {
		logger.Error("Failed to delete cart session from database", err, map[string]interface{}{
			"session_id": id,
		})
		return err
	}
	return nil
}

func (r *sessionRepository) DeleteIdleBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.CartSession{}).
		Where("last_active_at < ?", cutoff).
		Order("last_active_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to find idle cart sessions", err, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.CartSession{})
	if result.Error != nil {
		logger.Error("Failed to delete idle cart sessions", result.Error, map[string]interface{}{
			"count": len(ids),
		})
		return 0, result.Error
	}

	logger.Debug("Idle cart sessions deleted from database", map[string]interface{}{
		"deleted": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
