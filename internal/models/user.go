package models

import "time"

// User is a registered account. Its ID is the Identity that messages are
// attributed to and that live connections are registered under.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"size:20;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the public view of a user returned by directory listings.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"online"`
}
