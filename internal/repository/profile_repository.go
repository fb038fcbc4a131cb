package repository

import (
	"narada_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: tx}
}

func (r *ProfileRepository) Create(profile *model.Profile) error {
	return r.DB.Create(profile).Error
}

func (r *ProfileRepository) FindByID(id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.First(&profile, "id = ?", id).Error
	return &profile, err
}

func (r *ProfileRepository) UpdateShopName(id, shopName string) error {
	return r.DB.Model(&model.Profile{}).
		Where("id = ?", id).
		Update("shop_name", shopName).
		Error
}
