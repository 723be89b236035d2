package gormrepo

import (
	"context"

	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *users.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) first(ctx context.Context, query string, args ...any) (users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).Preload("Image").Where(query, args...).First(&u).Error
	return u, translate(err)
}

func (r *UserRepo) GetByID(ctx context.Context, id uint) (users.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	return r.first(ctx, "LOWER(username) = LOWER(?)", username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepo) GetByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	return r.first(ctx, "google_sub = ?", sub)
}

func (r *UserRepo) List(ctx context.Context) ([]users.User, error) {
	var out []users.User
	err := r.db.WithContext(ctx).Preload("Image").Order("username").Find(&out).Error
	return out, translate(err)
}

func (r *UserRepo) Save(ctx context.Context, u *users.User) error {
	return translate(r.db.WithContext(ctx).Omit("Image").Save(u).Error)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the user; posts, likes, ratings, comments and follows go
// with it through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&users.User{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
