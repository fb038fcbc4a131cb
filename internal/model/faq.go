package model

// FAQ is a question/answer/category triple used as grounding context for
// generated replies. Only active FAQs are sent to the model.
// swagger:model FAQ
type FAQ struct {
	UUIDBase
	UserID   string `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Category string `gorm:"size:100;not null" json:"category"`
	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`
	IsActive bool   `gorm:"index;not null" json:"is_active"`
}

func (FAQ) TableName() string {
	return "faqs"
}
