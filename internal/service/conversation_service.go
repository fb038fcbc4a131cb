package service

import (
	"narada_backend/internal/model"
	"narada_backend/internal/repository"
	"narada_backend/internal/util"
	"strings"
)

// HistoryLimit caps how many conversations the history screen shows.
const HistoryLimit = 50

type ConversationService struct {
	repo *repository.ConversationRepository
}

func NewConversationService(repo *repository.ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

type ConversationInput struct {
	CustomerQuestion string
	AIAnswer         string
	WasCopied        bool
}

func (s *ConversationService) ListRecent(userID string) ([]model.Conversation, error) {
	return s.repo.FindRecent(userID, HistoryLimit)
}

func (s *ConversationService) Record(userID string, in ConversationInput) (*model.Conversation, error) {
	conv := &model.Conversation{
		UserID:           userID,
		CustomerQuestion: strings.TrimSpace(in.CustomerQuestion),
		AIAnswer:         in.AIAnswer,
		WasCopied:        in.WasCopied,
	}
	if err := s.repo.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) Delete(userID, id string) error {
	deleted, err := s.repo.DeleteOwned(userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrConversationGone
	}
	return nil
}
