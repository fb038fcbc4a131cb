package util

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailRegistered   = errors.New("email already registered")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrFAQNotFound       = errors.New("faq not found")
	ErrConversationGone  = errors.New("conversation not found")
	ErrSettingsNotFound  = errors.New("settings not found")
	ErrEmptyQuestion     = errors.New("question is empty")
	ErrCompletionFailed  = errors.New("failed to generate AI response")
)
