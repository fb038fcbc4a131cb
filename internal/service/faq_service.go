package service

import (
	"errors"
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/internal/util"
	"strings"

	"gorm.io/gorm"
)

type FAQService struct {
	repo *repository.FAQRepository
}

func NewFAQService(repo *repository.FAQRepository) *FAQService {
	return &FAQService{repo: repo}
}

type FAQInput struct {
	Category string
	Question string
	Answer   string
	IsActive *bool
}

type FAQList struct {
	List   []model.FAQ `json:"list"`
	Total  int         `json:"total"`
	Active int         `json:"active"`
}

func (s *FAQService) List(userID string) (*FAQList, error) {
	faqs, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, f := range faqs {
		if f.IsActive {
			active++
		}
	}
	return &FAQList{List: faqs, Total: len(faqs), Active: active}, nil
}

// Create stores a new FAQ. FAQs are active unless the input says otherwise.
func (s *FAQService) Create(userID string, in FAQInput) (*model.FAQ, error) {
	faq := &model.FAQ{
		UserID:   userID,
		Category: strings.TrimSpace(in.Category),
		Question: strings.TrimSpace(in.Question),
		Answer:   strings.TrimSpace(in.Answer),
		IsActive: true,
	}
	if in.IsActive != nil {
		faq.IsActive = *in.IsActive
	}

	if err := s.repo.Create(faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *FAQService) Update(userID, id string, in FAQInput) (*model.FAQ, error) {
	faq, err := s.findOwned(userID, id)
	if err != nil {
		return nil, err
	}

	faq.Category = strings.TrimSpace(in.Category)
	faq.Question = strings.TrimSpace(in.Question)
	faq.Answer = strings.TrimSpace(in.Answer)
	if in.IsActive != nil {
		faq.IsActive = *in.IsActive
	}

	if err := s.repo.Save(faq); err != nil {
		return nil, err
	}
	return faq, nil
}

// ToggleActive flips whether the FAQ is included in generated prompts.
func (s *FAQService) ToggleActive(userID, id string) (*model.FAQ, error) {
	faq, err := s.findOwned(userID, id)
	if err != nil {
		return nil, err
	}

	faq.IsActive = !faq.IsActive
	if err := s.repo.Save(faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *FAQService) Delete(userID, id string) error {
	deleted, err := s.repo.DeleteOwned(userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrFAQNotFound
	}
	return nil
}

func (s *FAQService) findOwned(userID, id string) (*model.FAQ, error) {
	faq, err := s.repo.FindOwned(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrFAQNotFound
		}
		return nil, err
	}
	return faq, nil
}
