package model

import (
	"math"
	"time"
)

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanStarter PlanType = "starter"
	PlanPro     PlanType = "pro"
)

// TrialPeriod is granted to every new account.
const TrialPeriod = 7 * 24 * time.Hour

// Profile shares its primary key with the owning User.
// swagger:model Profile
type Profile struct {
	ID                 string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ShopName           string     `gorm:"size:255" json:"shop_name"`
	PlanType           PlanType   `gorm:"size:20;not null" json:"plan_type"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// TrialDaysLeft rounds partial days up and never goes below zero.
func (p *Profile) TrialDaysLeft(now time.Time) int {
	if p.TrialEndsAt == nil || !p.TrialEndsAt.After(now) {
		return 0
	}
	return int(math.Ceil(p.TrialEndsAt.Sub(now).Hours() / 24))
}
