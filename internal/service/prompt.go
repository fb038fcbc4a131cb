package service

import (
	"fmt"
	"narada_backend/internal/model"
	"strings"
)

type Tone string

const (
	TonePolite       Tone = "polite"
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneVendor       Tone = "vendor"
)

// TonePreset is a named reply style with its fixed system-prompt template.
type TonePreset struct {
	Tone         Tone   `json:"tone"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	SystemPrompt string `json:"-"`
}

var tonePresets = map[Tone]TonePreset{
	TonePolite: {
		Tone:         TonePolite,
		Name:         "สุภาพ",
		Description:  "ใช้คำสุภาพ เป็นทางการ เหมาะกับธุรกิจระดับ premium",
		SystemPrompt: "คุณเป็นผู้ช่วยลูกค้าที่มีความสุภาพมาก ใช้ภาษาไทยที่สุภาพเป็นทางการ ใช้คำว่า 'คะ/ครับ' ทุกประโยค และเรียกลูกค้าว่า 'คุณลูกค้า'",
	},
	ToneFriendly: {
		Tone:         ToneFriendly,
		Name:         "เป็นกันเอง",
		Description:  "พูดจาเป็นกันเอง อบอุ่น ใกล้ชิด",
		SystemPrompt: "คุณเป็นผู้ช่วยลูกค้าที่เป็นกันเอง อบอุ่น พูดจาเหมือนเพื่อน แต่ยังคงความเป็นมืออาชีพ ใช้ภาษาไทยที่เข้าใจง่าย",
	},
	ToneProfessional: {
		Tone:         ToneProfessional,
		Name:         "มืออาชีพ",
		Description:  "กระชับ ตรงประเด็น มีประสิทธิภาพ",
		SystemPrompt: "คุณเป็นผู้ช่วยลูกค้าที่มืออาชีพ ตอบคำถามตรงประเด็น กระชับ ชัดเจน ไม่พูดเยิ่นเย้อ ใช้ภาษาไทยที่เป็นมาตรฐาน",
	},
	ToneVendor: {
		Tone:         ToneVendor,
		Name:         "แบบแม่ค้า",
		Description:  "สนิทสนม ดูแล เหมือนแม่ค้าตลาด",
		SystemPrompt: "คุณเป็นผู้ช่วยลูกค้าที่พูดจาเหมือนแม่ค้าที่น่ารัก สนิทสนม เป็นกันเองมาก ดูแลลูกค้าเหมือนญาติ อาจใช้คำว่า 'ค่ะ/ครับ' หรือ 'จ้า/จ๊ะ' ตามความเหมาะสม",
	},
}

// toneOrder fixes the catalogue order shown in the settings screen.
var toneOrder = []Tone{TonePolite, ToneFriendly, ToneProfessional, ToneVendor}

const (
	DefaultShopName   = "ร้านค้า"
	defaultCategory   = "ทั่วไป"
	emptyFAQContext   = "ไม่มี FAQ ในระบบ"
	fallbackAnswer    = "ขออภัย ไม่สามารถสร้างคำตอบได้ในขณะนี้"
	connectionProbe   = "สวัสดี"
	connectionMaxToks = 10
)

func ParseTone(s string) (Tone, bool) {
	t := Tone(strings.TrimSpace(s))
	_, ok := tonePresets[t]
	return t, ok
}

// PresetFor falls back to the friendly preset for unknown tones.
func PresetFor(t Tone) TonePreset {
	if p, ok := tonePresets[t]; ok {
		return p
	}
	return tonePresets[ToneFriendly]
}

func TonePresets() []TonePreset {
	out := make([]TonePreset, 0, len(toneOrder))
	for _, t := range toneOrder {
		out = append(out, tonePresets[t])
	}
	return out
}

// BuildFAQContext serializes the active FAQs, numbered in input order.
func BuildFAQContext(faqs []model.FAQ) string {
	var b strings.Builder
	n := 0
	for _, faq := range faqs {
		if !faq.IsActive {
			continue
		}
		category := strings.TrimSpace(faq.Category)
		if category == "" {
			category = defaultCategory
		}
		if n > 0 {
			b.WriteString("\n\n")
		}
		n++
		fmt.Fprintf(&b, "%d. คำถาม: %s\n   คำตอบ: %s\n   หมวดหมู่: %s", n, faq.Question, faq.Answer, category)
	}
	if n == 0 {
		return emptyFAQContext
	}
	return b.String()
}

type PromptInput struct {
	Tone               Tone
	ShopName           string
	CustomInstructions string
	FAQs               []model.FAQ
}

func BuildSystemPrompt(in PromptInput) string {
	preset := PresetFor(in.Tone)

	shopName := strings.TrimSpace(in.ShopName)
	if shopName == "" {
		shopName = DefaultShopName
	}

	extra := ""
	if ci := strings.TrimSpace(in.CustomInstructions); ci != "" {
		extra = fmt.Sprintf("คำแนะนำเพิ่มเติม: %s\n", ci)
	}

	return fmt.Sprintf(`%s

คุณทำงานให้กับ "%s" และมีหน้าที่ตอบคำถามลูกค้าโดยอิงจากฐานความรู้ FAQ ด้านล่าง

ฐานความรู้ FAQ:
%s

%s

หลักการตอบคำถาม:
1. อ้างอิงข้อมูลจาก FAQ เท่านั้น อย่าแต่งข้อมูลเอง
2. ถ้าไม่มีข้อมูลใน FAQ ให้บอกว่า "ขออภัยค่ะ/ครับ ยังไม่มีข้อมูลส่วนนี้ รบกวนสอบถามเพิ่มเติมได้ที่ [ช่องทางติดต่อ]"
3. ตอบเป็นภาษาไทยที่เข้าใจง่าย ไม่ยาวเกินไป
4. ใช้ tone ตามที่กำหนด: %s
5. ถ้าคำถามคล้ายกับหลาย FAQ ให้ตอบครอบคลุมทุกมุม`,
		preset.SystemPrompt,
		shopName,
		BuildFAQContext(in.FAQs),
		extra,
		preset.Name,
	)
}
