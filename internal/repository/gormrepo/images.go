package gormrepo

import (
	"context"

	"craftshare/internal/domain/media"
	"craftshare/internal/repository"

	"gorm.io/gorm"
)

type ImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) *ImageRepo { return &ImageRepo{db: db} }

var _ repository.ImageRepository = (*ImageRepo)(nil)

func (r *ImageRepo) Create(ctx context.Context, img *media.Image) error {
	return translate(r.db.WithContext(ctx).Create(img).Error)
}

func (r *ImageRepo) Delete(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Where("id = ?", id).Delete(&media.Image{}).Error)
}
