package service

import (
	"errors"
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type DashboardService struct {
	faqRepo          *repository.FAQRepository
	settingsRepo     *repository.SettingsRepository
	conversationRepo *repository.ConversationRepository
	profileRepo      *repository.ProfileRepository

	now func() time.Time
}

func NewDashboardService(
	faqRepo *repository.FAQRepository,
	settingsRepo *repository.SettingsRepository,
	conversationRepo *repository.ConversationRepository,
	profileRepo *repository.ProfileRepository,
) *DashboardService {
	return &DashboardService{
		faqRepo:          faqRepo,
		settingsRepo:     settingsRepo,
		conversationRepo: conversationRepo,
		profileRepo:      profileRepo,
		now:              time.Now,
	}
}

type Dashboard struct {
	ShopName           string         `json:"shop_name"`
	Tone               Tone           `json:"tone"`
	ToneName           string         `json:"tone_name"`
	ActiveFAQs         int64          `json:"active_faqs"`
	TotalConversations int64          `json:"total_conversations"`
	ConversationsToday int64          `json:"conversations_today"`
	PlanType           model.PlanType `json:"plan_type"`
	TrialDaysLeft      int            `json:"trial_days_left"`
}

func (s *DashboardService) GetUserDashboard(userID string) (*Dashboard, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	d := &Dashboard{
		ShopName:      profile.ShopName,
		Tone:          ToneFriendly,
		PlanType:      profile.PlanType,
		TrialDaysLeft: profile.TrialDaysLeft(now),
	}

	settings, err := s.settingsRepo.FindByUserID(userID)
	switch {
	case err == nil:
		if t, ok := ParseTone(settings.Tone); ok {
			d.Tone = t
		}
		if settings.ShopName != "" {
			d.ShopName = settings.ShopName
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	d.ToneName = PresetFor(d.Tone).Name

	if d.ActiveFAQs, err = s.faqRepo.CountActive(userID); err != nil {
		return nil, err
	}
	if d.TotalConversations, err = s.conversationRepo.Count(userID); err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.ConversationsToday, err = s.conversationRepo.CountSince(userID, startOfDay); err != nil {
		return nil, err
	}

	return d, nil
}
