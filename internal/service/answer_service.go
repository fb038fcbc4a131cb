package service

import (
	"context"
	"errors"
	"narada_backend/internal/model"
	"narada_backend/internal/util"
	"narada_backend/pkg/logger"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	demoShopName     = "Demo Shop"
	demoInstructions = "คุณกำลังแสดงตัวอย่างการทำงานของระบบ Narada ให้กับผู้มาเยือนเว็บไซต์ กรุณาตอบอย่างเป็นมิตรและน่าสนใจ เพื่อแสดงความสามารถของระบบ"
)

// demoFAQs ground the public landing-page chat.
var demoFAQs = []model.FAQ{
	{Category: "สินค้า", Question: "สินค้ามีสต็อกไหม", Answer: "สินค้าทุกรายการมีสต็อกพร้อมส่งค่ะ สามารถสั่งซื้อได้เลยค่ะ", IsActive: true},
	{Category: "การจัดส่ง", Question: "จัดส่งใช้เวลากี่วัน", Answer: "จัดส่งภายใน 2-3 วันทำการค่ะ ในกรุงเทพและปริมณฑล 1-2 วันค่ะ", IsActive: true},
	{Category: "ราคา", Question: "ราคาสินค้า", Answer: "ราคาเริ่มต้น 299 บาทค่ะ สำหรับสมาชิกลด 10% ค่ะ", IsActive: true},
	{Category: "โปรโมชั่น", Question: "มีโปรโมชั่นอะไร", Answer: "ตอนนี้มีโปรโมชั่นซื้อ 2 แถม 1 และฟรีค่าจัดส่งเมื่อซื้อครบ 500 บาทค่ะ", IsActive: true},
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// SanitizeQuestion strips HTML tags and surrounding whitespace.
func SanitizeQuestion(q string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(q, ""))
}

type settingsLoader interface {
	FindByUserID(userID string) (*model.Settings, error)
}

type activeFAQLoader interface {
	FindActiveByUserID(userID string) ([]model.FAQ, error)
}

type AnswerService struct {
	settings  settingsLoader
	faqs      activeFAQLoader
	completer Completer
}

func NewAnswerService(settings settingsLoader, faqs activeFAQLoader, completer Completer) *AnswerService {
	return &AnswerService{
		settings:  settings,
		faqs:      faqs,
		completer: completer,
	}
}

type DemoAnswer struct {
	Answer string `json:"answer"`
	Tone   Tone   `json:"tone"`
}

// GenerateForUser answers a customer question with the merchant's tone and
// active FAQs.
func (s *AnswerService) GenerateForUser(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", util.ErrEmptyQuestion
	}

	settings, err := s.settings.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrSettingsNotFound
		}
		return "", err
	}

	faqs, err := s.faqs.FindActiveByUserID(userID)
	if err != nil {
		// Generation still works without grounding; the model is told there are no FAQs.
		logger.Log.Error("Error loading FAQs", zap.String("user_id", userID), zap.Error(err))
		faqs = nil
	}

	tone, _ := ParseTone(settings.Tone)
	prompt := BuildSystemPrompt(PromptInput{
		Tone:               tone,
		ShopName:           settings.ShopName,
		CustomInstructions: settings.CustomInstructions,
		FAQs:               faqs,
	})

	return s.completer.Complete(ctx, CompletionRequest{
		Source:       SourceMerchant,
		SystemPrompt: prompt,
		Question:     question,
	})
}

// GenerateDemo answers a landing-page visitor using the built-in demo shop.
func (s *AnswerService) GenerateDemo(ctx context.Context, question string) (*DemoAnswer, error) {
	question = SanitizeQuestion(question)
	if question == "" {
		return nil, util.ErrEmptyQuestion
	}

	prompt := BuildSystemPrompt(PromptInput{
		Tone:               ToneFriendly,
		ShopName:           demoShopName,
		CustomInstructions: demoInstructions,
		FAQs:               demoFAQs,
	})

	answer, err := s.completer.Complete(ctx, CompletionRequest{
		Source:       SourceDemo,
		SystemPrompt: prompt,
		Question:     question,
	})
	if err != nil {
		return nil, err
	}

	return &DemoAnswer{Answer: answer, Tone: ToneFriendly}, nil
}
