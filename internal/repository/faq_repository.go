package repository

import (
	"narada_backend/internal/model"

	"gorm.io/gorm"
)

type FAQRepository struct {
	DB *gorm.DB
}

func NewFAQRepository(db *gorm.DB) *FAQRepository {
	return &FAQRepository{DB: db}
}

func (r *FAQRepository) Create(faq *model.FAQ) error {
	return r.DB.Create(faq).Error
}

// FindByUserID returns all of a user's FAQs, newest first.
func (r *FAQRepository) FindByUserID(userID string) ([]model.FAQ, error) {
	var faqs []model.FAQ
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&faqs).Error
	return faqs, err
}

// FindActiveByUserID returns the FAQs that are sent to the model, oldest first
// so the numbering in the prompt stays stable as new FAQs are added.
func (r *FAQRepository) FindActiveByUserID(userID string) ([]model.FAQ, error) {
	var faqs []model.FAQ
	err := r.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&faqs).Error
	return faqs, err
}

func (r *FAQRepository) CountActive(userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.FAQ{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

// FindOwned scopes the lookup to the owner so other users' ids look missing.
func (r *FAQRepository) FindOwned(userID, id string) (*model.FAQ, error) {
	var faq model.FAQ
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&faq).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *FAQRepository) Save(faq *model.FAQ) error {
	return r.DB.Save(faq).Error
}

func (r *FAQRepository) DeleteOwned(userID, id string) (bool, error) {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.FAQ{})
	return res.RowsAffected > 0, res.Error
}
