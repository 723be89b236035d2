package gormrepo

import (
	"context"
	"strings"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Catalog(ctx context.Context) (posts.CategoryCatalog, error) {
	var c posts.CategoryCatalog
	db := r.db.WithContext(ctx)
	if err := db.Model(&posts.HarmfulToolCategory{}).Order("category").Pluck("category", &c.Tools).Error; err != nil {
		return posts.CategoryCatalog{}, translate(err)
	}
	if err := db.Model(&posts.HarmfulMaterialCategory{}).Order("category").Pluck("category", &c.Materials).Error; err != nil {
		return posts.CategoryCatalog{}, translate(err)
	}
	return c, nil
}

func categoryRow(kind posts.CategoryKind, name string) any {
	if kind == posts.KindMaterial {
		return &posts.HarmfulMaterialCategory{Category: name}
	}
	return &posts.HarmfulToolCategory{Category: name}
}

func (r *CategoryRepo) Add(ctx context.Context, kind posts.CategoryKind, name string) error {
	return translate(r.db.WithContext(ctx).Create(categoryRow(kind, strings.TrimSpace(name))).Error)
}

func (r *CategoryRepo) Remove(ctx context.Context, kind posts.CategoryKind, name string) error {
	res := r.db.WithContext(ctx).Where("category = ?", name).Delete(categoryRow(kind, ""))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SeedCategories inserts the default harmful categories that are missing.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range posts.DefaultToolCategories {
			c := posts.HarmfulToolCategory{Category: name}
			if err := tx.Where(c).FirstOrCreate(&c).Error; err != nil {
				return err
			}
		}
		for _, name := range posts.DefaultMaterialCategories {
			c := posts.HarmfulMaterialCategory{Category: name}
			if err := tx.Where(c).FirstOrCreate(&c).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
