package model

import (
	"time"

	"gorm.io/gorm"
)

// Conversation records a generated answer the merchant kept.
// swagger:model Conversation
type Conversation struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	CustomerQuestion string    `gorm:"type:text;not null" json:"customer_question"`
	AIAnswer         string    `gorm:"column:ai_answer;type:text;not null" json:"ai_answer"`
	WasCopied        bool      `gorm:"not null" json:"was_copied"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = GenerateUUID()
	}
	return nil
}
