package mocks

import (
	"context"

	"craftshare/internal/domain/media"
	"craftshare/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockFollowRepository struct {
	mock.Mock
}

var _ repository.FollowRepository = (*MockFollowRepository)(nil)

func (m *MockFollowRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	return m.Called(ctx, followerID, followedID).Error(0)
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return m.Called(ctx, followerID, followedID).Error(0)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

var _ repository.ImageRepository = (*MockImageRepository)(nil)

func (m *MockImageRepository) Create(ctx context.Context, img *media.Image) error {
	return m.Called(ctx, img).Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
