package gormrepo

import (
	"context"

	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"gorm.io/gorm"
)

type FollowRepo struct {
	db *gorm.DB
}

func NewFollowRepo(db *gorm.DB) *FollowRepo { return &FollowRepo{db: db} }

var _ repository.FollowRepository = (*FollowRepo)(nil)

func (r *FollowRepo) Follow(ctx context.Context, followerID, followedID uint) error {
	already, err := r.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if already {
		return repository.ErrConflict
	}
	f := users.Follow{FollowerID: followerID, FollowedID: followedID}
	return translate(r.db.WithContext(ctx).Omit("Follower", "Followed").Create(&f).Error)
}

func (r *FollowRepo) Unfollow(ctx context.Context, followerID, followedID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&users.Follow{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&users.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID))
}

func (r *FollowRepo) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&users.Follow{}).Where("followed_id = ?", userID).Count(&n).Error
	return n, translate(err)
}

func (r *FollowRepo) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&users.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, translate(err)
}
