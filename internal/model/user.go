package model

import "time"

// User is a campus account synced from the identity provider on login.
// UID is the provider's stable subject identifier.
type User struct {
	UID           string    `gorm:"primaryKey;size:128" json:"uid"`
	Email         string    `gorm:"size:254;not null;index" json:"email"`
	DisplayName   string    `gorm:"size:120" json:"displayName"`
	PhotoURL      *string   `gorm:"size:512" json:"photoURL"`
	CollegeDomain string    `gorm:"size:120;index" json:"collegeDomain"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
