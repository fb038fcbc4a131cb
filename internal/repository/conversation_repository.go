package repository

import (
	"narada_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	DB *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

func (r *ConversationRepository) Create(conv *model.Conversation) error {
	return r.DB.Create(conv).Error
}

func (r *ConversationRepository) FindRecent(userID string, limit int) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&convs).Error
	return convs, err
}

func (r *ConversationRepository) Count(userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Conversation{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *ConversationRepository) CountSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Conversation{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *ConversationRepository) DeleteOwned(userID, id string) (bool, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Conversation{})
	return res.RowsAffected > 0, res.Error
}
