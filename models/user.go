// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered CodeLearn account.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	FullName       string    `gorm:"size:255" json:"fullName"`
	PhoneNumber    string    `gorm:"size:50" json:"phoneNumber"`
	Profession     string    `gorm:"size:255" json:"profession"`
	ReferralSource string    `gorm:"size:255" json:"referralSource"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Projects []SavedProject `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Usage    []FeatureUsage `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PublicColumns lists every users column except the password hash.
var PublicColumns = []string{
	"id", "username", "email", "full_name", "phone_number",
	"profession", "referral_source", "created_at", "updated_at",
}
