package users

import (
	"time"

	"craftshare/internal/domain/media"
	"craftshare/internal/domain/policy"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID           uint    `gorm:"primaryKey"`
	Username     string  `gorm:"not null;uniqueIndex:idx_users_username"`
	Email        *string `gorm:"uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'user'"`

	// nil for Google accounts until the user fills it in
	BirthDate *time.Time `gorm:"type:date"`

	ImageID *string      `gorm:"type:uuid"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Viewer is the policy identity of a signed-in user.
func (u User) Viewer() policy.Viewer {
	return policy.Authenticated(u.ID, u.BirthDate)
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
