package service

import (
	"errors"
	"fmt"
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

type SettingsInput struct {
	Tone               string
	ShopName           string
	GreetingMessage    string
	CustomInstructions string
}

type SettingsView struct {
	Settings *model.Settings `json:"settings"`
	Tones    []TonePreset    `json:"tones"`
}

func (s *SettingsService) Get(userID string) (*SettingsView, error) {
	settings, err := s.repo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSettingsNotFound
		}
		return nil, err
	}
	return &SettingsView{Settings: settings, Tones: TonePresets()}, nil
}

// Update writes the settings, creating the row for accounts that lost it.
func (s *SettingsService) Update(userID string, in SettingsInput) (*model.Settings, error) {
	tone, ok := ParseTone(in.Tone)
	if !ok {
		return nil, fmt.Errorf("unknown tone %q", in.Tone)
	}

	settings, err := s.repo.FindByUserID(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		settings = &model.Settings{UserID: userID}
	}

	settings.Tone = string(tone)
	settings.ShopName = strings.TrimSpace(in.ShopName)
	settings.GreetingMessage = strings.TrimSpace(in.GreetingMessage)
	settings.CustomInstructions = strings.TrimSpace(in.CustomInstructions)

	if err := s.repo.Save(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
