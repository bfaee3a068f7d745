package models

import "time"

// UserFeedback is a message submitted through the feedback form.
type UserFeedback struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	User      *User     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:254;not null" json:"email"`
	Feedback  string    `gorm:"type:text;not null" json:"feedback"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserFeedback) TableName() string {
	return "user_feedback"
}

// EarlyAccessSignup is an email collected before an account exists.
type EarlyAccessSignup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
