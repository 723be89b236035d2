package mocks

import (
	"context"

	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, u *users.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (users.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(users.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (users.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(users.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (users.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(users.User), args.Error(1)
}

func (m *MockUserRepository) GetByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(users.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]users.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]users.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, u *users.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
