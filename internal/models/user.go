package models

import "time"

// User is the account entity. The denormalized counters are kept in step
// with the follow/post tables inside the same transaction that changes
// them; the maintenance reconciler corrects any historical drift.
type User struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"size:30;uniqueIndex"`
	Email       string  `json:"email" gorm:"size:254;uniqueIndex"`
	Password    string  `json:"-"` // bcrypt hash, never serialized
	FirstName   string  `json:"first_name" gorm:"size:150"`
	LastName    string  `json:"last_name" gorm:"size:150"`
	Bio         string  `json:"bio" gorm:"size:500"`
	Location    string  `json:"location" gorm:"size:100"`
	Website     string  `json:"website"`
	IsVerified  bool    `json:"is_verified" gorm:"default:false"`
	IsStaff     bool    `json:"is_staff" gorm:"default:false"`
	FirebaseUID *string `json:"-" gorm:"uniqueIndex"`

	FollowersCount int `json:"followers_count" gorm:"default:0"`
	FollowingCount int `json:"following_count" gorm:"default:0"`
	PostsCount     int `json:"posts_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName is the name used in notification messages.
func (u *User) DisplayName() string {
	return u.Username
}
