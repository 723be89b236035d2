package mocks

import (
	"context"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockEngagementRepository struct {
	mock.Mock
}

var _ repository.EngagementRepository = (*MockEngagementRepository)(nil)

func (m *MockEngagementRepository) AddLike(ctx context.Context, postID, userID uint) error {
	return m.Called(ctx, postID, userID).Error(0)
}

func (m *MockEngagementRepository) RemoveLike(ctx context.Context, postID, userID uint) error {
	return m.Called(ctx, postID, userID).Error(0)
}

func (m *MockEngagementRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEngagementRepository) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) UpsertRating(ctx context.Context, r *posts.Rating) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) RatingSummary(ctx context.Context, postID uint) (posts.RatingSummary, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(posts.RatingSummary), args.Error(1)
}

func (m *MockEngagementRepository) ListComments(ctx context.Context, postID uint) ([]posts.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]posts.Comment), args.Error(1)
}

func (m *MockEngagementRepository) AddComment(ctx context.Context, c *posts.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockEngagementRepository) GetComment(ctx context.Context, postID, commentID uint) (posts.Comment, error) {
	args := m.Called(ctx, postID, commentID)
	return args.Get(0).(posts.Comment), args.Error(1)
}

func (m *MockEngagementRepository) DeleteComment(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
