package repository

import (
	"narada_backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

func (r *SettingsRepository) WithTx(tx *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: tx}
}

func (r *SettingsRepository) FindByUserID(userID string) (*model.Settings, error) {
	var settings model.Settings
	err := r.DB.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save inserts the row when it has no ID yet, otherwise updates every column.
func (r *SettingsRepository) Save(settings *model.Settings) error {
	if settings.ID == "" {
		return r.DB.Create(settings).Error
	}
	return r.DB.Save(settings).Error
}
