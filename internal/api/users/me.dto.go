package users

import "time"

type MeResponse struct {
	User   UserDTO   `json:"user"`
	Stats  StatsDTO  `json:"stats"`
	Access AccessDTO `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	Email        *string `json:"email"`
	Role         string  `json:"role"`
	AuthProvider string  `json:"auth_provider"`
	BirthDate    *string `json:"birth_date"`
	Image        *string `json:"image"`
}

/* ---------- PROFILE ---------- */

type ProfileDTO struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Image       *string   `json:"image"`
	Stats       *StatsDTO `json:"stats,omitempty"`
	IsFollowing *bool     `json:"is_following,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type StatsDTO struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Posts     int64 `json:"posts"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	// Mature viewers see posts with harmful content.
	Mature bool `json:"mature"`
	MinAge int  `json:"min_age"`
}
