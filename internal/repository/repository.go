// Package repository declares the persistence ports used by the HTTP
// handlers. gormrepo implements them on PostgreSQL.
package repository

import (
	"context"
	"errors"

	"craftshare/internal/domain/media"
	"craftshare/internal/domain/posts"
	"craftshare/internal/domain/users"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *users.User) error
	GetByID(ctx context.Context, id uint) (users.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Save(ctx context.Context, u *users.User) error
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}

// PostFilter narrows a post listing. Every search term must match the title
// or the description.
type PostFilter struct {
	UserID      *uint
	SearchTerms []string
}

// PostRelations carries the child rows of a post. On update a nil field keeps
// the stored rows; on create it means none.
type PostRelations struct {
	Tools              *[]posts.Tool
	Materials          *[]posts.Material
	ToolCategories     *[]string
	MaterialCategories *[]string
}

type PostRepository interface {
	// List returns posts newest first with user, image and categories loaded.
	List(ctx context.Context, f PostFilter) ([]posts.Post, error)
	// Get loads a post with every association.
	Get(ctx context.Context, id uint) (posts.Post, error)
	Create(ctx context.Context, p *posts.Post, rel PostRelations) error
	Update(ctx context.Context, p *posts.Post, rel PostRelations) error
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type CategoryRepository interface {
	Catalog(ctx context.Context) (posts.CategoryCatalog, error)
	Add(ctx context.Context, kind posts.CategoryKind, name string) error
	Remove(ctx context.Context, kind posts.CategoryKind, name string) error
}

type EngagementRepository interface {
	AddLike(ctx context.Context, postID, userID uint) error
	RemoveLike(ctx context.Context, postID, userID uint) error
	LikeCount(ctx context.Context, postID uint) (int64, error)
	HasLiked(ctx context.Context, postID, userID uint) (bool, error)

	// UpsertRating creates or replaces the user's rating of a post.
	UpsertRating(ctx context.Context, r *posts.Rating) (created bool, err error)
	RatingSummary(ctx context.Context, postID uint) (posts.RatingSummary, error)

	ListComments(ctx context.Context, postID uint) ([]posts.Comment, error)
	AddComment(ctx context.Context, c *posts.Comment) error
	GetComment(ctx context.Context, postID, commentID uint) (posts.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
}

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type ImageRepository interface {
	Create(ctx context.Context, img *media.Image) error
	Delete(ctx context.Context, id string) error
}
