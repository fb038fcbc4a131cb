package service

import (
	"errors"
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserService serves the merchant's own profile.
type UserService struct {
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.ProfileRepository

	now func() time.Time
}

func NewUserService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		now:         time.Now,
	}
}

type ProfileView struct {
	ID                 string         `json:"id"`
	Email              string         `json:"email"`
	ShopName           string         `json:"shop_name"`
	PlanType           model.PlanType `json:"plan_type"`
	TrialEndsAt        *time.Time     `json:"trial_ends_at"`
	TrialDaysLeft      int            `json:"trial_days_left"`
	SubscriptionEndsAt *time.Time     `json:"subscription_ends_at"`
	CreatedAt          time.Time      `json:"created_at"`
}

func (s *UserService) GetProfile(userID string) (*ProfileView, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	profile, err := s.ProfileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	return &ProfileView{
		ID:                 user.ID,
		Email:              user.Email,
		ShopName:           profile.ShopName,
		PlanType:           profile.PlanType,
		TrialEndsAt:        profile.TrialEndsAt,
		TrialDaysLeft:      profile.TrialDaysLeft(s.now()),
		SubscriptionEndsAt: profile.SubscriptionEndsAt,
		CreatedAt:          profile.CreatedAt,
	}, nil
}

func (s *UserService) UpdateShopName(userID, shopName string) (*ProfileView, error) {
	if _, err := s.ProfileRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if err := s.ProfileRepo.UpdateShopName(userID, strings.TrimSpace(shopName)); err != nil {
		return nil, err
	}
	return s.GetProfile(userID)
}
