package models

import (
	"fmt"
	"time"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a Warbler account.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null;check:chk_users_username,username <> ''"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null;check:chk_users_email,email <> ''"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	ImageURL       string    `json:"image_url" gorm:"type:text"`
	HeaderImageURL string    `json:"header_image_url" gorm:"type:text"`
	Bio            string    `json:"bio" gorm:"type:text"`
	Location       string    `json:"location" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Loaded from the follows table on demand, never persisted through User.
	Following []User `json:"following,omitempty" gorm:"-"`
	Followers []User `json:"followers,omitempty" gorm:"-"`
}

// String mirrors the debug representation used in logs.
func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// IsFollowing reports whether other is in the loaded following set.
func (u *User) IsFollowing(other *User) bool {
	return containsUser(u.Following, other)
}

// IsFollowedBy reports whether other is in the loaded followers set.
func (u *User) IsFollowedBy(other *User) bool {
	return containsUser(u.Followers, other)
}

func containsUser(users []User, other *User) bool {
	if other == nil {
		return false
	}
	for _, candidate := range users {
		if candidate.ID == other.ID {
			return true
		}
	}
	return false
}
