package mocks

import (
	"context"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockPostRepository struct {
	mock.Mock
}

var _ repository.PostRepository = (*MockPostRepository)(nil)

func (m *MockPostRepository) List(ctx context.Context, f repository.PostFilter) ([]posts.Post, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]posts.Post), args.Error(1)
}

func (m *MockPostRepository) Get(ctx context.Context, id uint) (posts.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(posts.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, p *posts.Post, rel repository.PostRelations) error {
	args := m.Called(ctx, p, rel)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, p *posts.Post, rel repository.PostRelations) error {
	args := m.Called(ctx, p, rel)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCategoryRepository struct {
	mock.Mock
}

var _ repository.CategoryRepository = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) Catalog(ctx context.Context) (posts.CategoryCatalog, error) {
	args := m.Called(ctx)
	return args.Get(0).(posts.CategoryCatalog), args.Error(1)
}

func (m *MockCategoryRepository) Add(ctx context.Context, kind posts.CategoryKind, name string) error {
	args := m.Called(ctx, kind, name)
	return args.Error(0)
}

func (m *MockCategoryRepository) Remove(ctx context.Context, kind posts.CategoryKind, name string) error {
	args := m.Called(ctx, kind, name)
	return args.Error(0)
}
