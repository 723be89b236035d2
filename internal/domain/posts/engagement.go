package posts

import (
	"time"

	"craftshare/internal/domain/users"
)

type Like struct {
	ID        uint       `gorm:"primaryKey"`
	PostID    uint       `gorm:"not null;uniqueIndex:idx_likes_post_user,priority:1"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_likes_post_user,priority:2"`
	User      users.User `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

const MaxRatingScore = 5

type Rating struct {
	ID         uint       `gorm:"primaryKey"`
	PostID     uint       `gorm:"not null;uniqueIndex:idx_ratings_post_user,priority:1"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_ratings_post_user,priority:2"`
	User       users.User `gorm:"constraint:OnDelete:CASCADE"`
	SavesMoney int        `gorm:"not null;default:0"`
	SavesTime  int        `gorm:"not null;default:0"`
	IsUseful   int        `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const MaxCommentLength = 200

type Comment struct {
	ID        uint       `gorm:"primaryKey"`
	PostID    uint       `gorm:"not null;index"`
	UserID    uint       `gorm:"not null;index"`
	User      users.User `gorm:"constraint:OnDelete:CASCADE"`
	Text      string     `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time
}

// RatingSummary holds the averages of every rating on a post.
type RatingSummary struct {
	Count      int64   `json:"count"`
	SavesMoney float64 `json:"saves_money"`
	SavesTime  float64 `json:"saves_time"`
	IsUseful   float64 `json:"is_useful"`
}
