package model

// swagger:model Settings
type Settings struct {
	UUIDBase
	UserID             string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Tone               string `gorm:"size:20;not null" json:"tone"`
	ShopName           string `gorm:"size:255" json:"shop_name"`
	GreetingMessage    string `gorm:"size:1000" json:"greeting_message"`
	CustomInstructions string `gorm:"type:text" json:"custom_instructions"`
}

func (Settings) TableName() string {
	return "settings"
}
