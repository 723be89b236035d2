package users

import "time"

type Follow struct {
	ID         uint `gorm:"primaryKey"`
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follows_pair,priority:1"`
	Follower   User `gorm:"constraint:OnDelete:CASCADE"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follows_pair,priority:2;index"`
	Followed   User `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
}
