package gormrepo

import (
	"context"
	"errors"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"gorm.io/gorm"
)

type EngagementRepo struct {
	db *gorm.DB
}

func NewEngagementRepo(db *gorm.DB) *EngagementRepo { return &EngagementRepo{db: db} }

var _ repository.EngagementRepository = (*EngagementRepo)(nil)

func (r *EngagementRepo) AddLike(ctx context.Context, postID, userID uint) error {
	db := r.db.WithContext(ctx)
	liked, err := exists(db.Model(&posts.Like{}).Where("post_id = ? AND user_id = ?", postID, userID))
	if err != nil {
		return err
	}
	if liked {
		return repository.ErrConflict
	}
	return translate(db.Create(&posts.Like{PostID: postID, UserID: userID}).Error)
}

func (r *EngagementRepo) RemoveLike(ctx context.Context, postID, userID uint) error {
	res := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Delete(&posts.Like{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EngagementRepo) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&posts.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, translate(err)
}

func (r *EngagementRepo) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&posts.Like{}).Where("post_id = ? AND user_id = ?", postID, userID))
}

func (r *EngagementRepo) UpsertRating(ctx context.Context, in *posts.Rating) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing posts.Rating
		err := tx.Where("post_id = ? AND user_id = ?", in.PostID, in.UserID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Omit("User").Create(in).Error
		case err != nil:
			return err
		}
		in.ID = existing.ID
		in.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Select("SavesMoney", "SavesTime", "IsUseful").Updates(in).Error
	})
	return created, translate(err)
}

func (r *EngagementRepo) RatingSummary(ctx context.Context, postID uint) (posts.RatingSummary, error) {
	var s posts.RatingSummary
	err := r.db.WithContext(ctx).Model(&posts.Rating{}).
		Select("COUNT(*) AS count, COALESCE(AVG(saves_money), 0) AS saves_money, "+
			"COALESCE(AVG(saves_time), 0) AS saves_time, COALESCE(AVG(is_useful), 0) AS is_useful").
		Where("post_id = ?", postID).
		Scan(&s).Error
	return s, translate(err)
}

func (r *EngagementRepo) ListComments(ctx context.Context, postID uint) ([]posts.Comment, error) {
	var out []posts.Comment
	err := r.db.WithContext(ctx).Preload("User").Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").Find(&out).Error
	return out, translate(err)
}

func (r *EngagementRepo) AddComment(ctx context.Context, c *posts.Comment) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(c).Error)
}

func (r *EngagementRepo) GetComment(ctx context.Context, postID, commentID uint) (posts.Comment, error) {
	var c posts.Comment
	err := r.db.WithContext(ctx).Where("post_id = ? AND id = ?", postID, commentID).First(&c).Error
	return c, translate(err)
}

func (r *EngagementRepo) DeleteComment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&posts.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
