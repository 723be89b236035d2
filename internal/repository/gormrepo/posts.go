package gormrepo

import (
	"context"
	"fmt"
	"strings"

	"craftshare/internal/domain/posts"
	"craftshare/internal/repository"

	"gorm.io/gorm"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

var _ repository.PostRepository = (*PostRepo)(nil)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern matches term literally anywhere in the column.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// listing preloads what a post card and the visibility check need.
func listing(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Image").
		Preload("HarmfulToolCategories").
		Preload("HarmfulMaterialCategories")
}

func (r *PostRepo) List(ctx context.Context, f repository.PostFilter) ([]posts.Post, error) {
	q := listing(r.db.WithContext(ctx)).Model(&posts.Post{})
	if f.UserID != nil {
		q = q.Where("posts.user_id = ?", *f.UserID)
	}
	for _, term := range f.SearchTerms {
		like := likePattern(term)
		q = q.Where(`(posts.title ILIKE ? ESCAPE '\' OR posts.description ILIKE ? ESCAPE '\')`, like, like)
	}
	var out []posts.Post
	if err := q.Order("posts.created_at DESC, posts.id DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *PostRepo) Get(ctx context.Context, id uint) (posts.Post, error) {
	var p posts.Post
	err := listing(r.db.WithContext(ctx)).
		Preload("Tools").
		Preload("Materials").
		First(&p, id).Error
	return p, translate(err)
}

func (r *PostRepo) Create(ctx context.Context, p *posts.Post, rel repository.PostRelations) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Image", "HarmfulToolCategories", "HarmfulMaterialCategories",
			"Tools", "Materials", "Likes", "Ratings", "Comments").Create(p).Error; err != nil {
			return translate(err)
		}
		if rel.Tools == nil {
			rel.Tools = &[]posts.Tool{}
		}
		if rel.Materials == nil {
			rel.Materials = &[]posts.Material{}
		}
		if rel.ToolCategories == nil {
			rel.ToolCategories = &[]string{}
		}
		if rel.MaterialCategories == nil {
			rel.MaterialCategories = &[]string{}
		}
		return replaceRelations(tx, p, rel)
	})
}

func (r *PostRepo) Update(ctx context.Context, p *posts.Post, rel repository.PostRelations) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(p).Select("Title", "Description", "Public", "HarmfulPost", "Instructions",
			"Tags", "DefaultImageIndex", "ImageID", "UpdatedAt").Updates(p).Error
		if err != nil {
			return translate(err)
		}
		return replaceRelations(tx, p, rel)
	})
}

// replaceRelations swaps the child rows named in rel, leaving nil fields alone.
func replaceRelations(tx *gorm.DB, p *posts.Post, rel repository.PostRelations) error {
	if rel.Tools != nil {
		if err := tx.Where("post_id = ?", p.ID).Delete(&posts.Tool{}).Error; err != nil {
			return err
		}
		tools := *rel.Tools
		for i := range tools {
			tools[i].ID = 0
			tools[i].PostID = p.ID
		}
		if len(tools) > 0 {
			if err := tx.Create(&tools).Error; err != nil {
				return err
			}
		}
		p.Tools = tools
	}
	if rel.Materials != nil {
		if err := tx.Where("post_id = ?", p.ID).Delete(&posts.Material{}).Error; err != nil {
			return err
		}
		materials := *rel.Materials
		for i := range materials {
			materials[i].ID = 0
			materials[i].PostID = p.ID
		}
		if len(materials) > 0 {
			if err := tx.Create(&materials).Error; err != nil {
				return err
			}
		}
		p.Materials = materials
	}
	if rel.ToolCategories != nil {
		var cats []posts.HarmfulToolCategory
		if err := findCategories(tx, *rel.ToolCategories, &cats); err != nil {
			return fmt.Errorf("tool categories: %w", err)
		}
		if err := tx.Model(p).Association("HarmfulToolCategories").Replace(cats); err != nil {
			return err
		}
		p.HarmfulToolCategories = cats
	}
	if rel.MaterialCategories != nil {
		var cats []posts.HarmfulMaterialCategory
		if err := findCategories(tx, *rel.MaterialCategories, &cats); err != nil {
			return fmt.Errorf("material categories: %w", err)
		}
		if err := tx.Model(p).Association("HarmfulMaterialCategories").Replace(cats); err != nil {
			return err
		}
		p.HarmfulMaterialCategories = cats
	}
	return nil
}

// findCategories loads the rows named in names into dest and fails with
// ErrNotFound when any name is unknown.
func findCategories[T posts.HarmfulToolCategory | posts.HarmfulMaterialCategory](tx *gorm.DB, names []string, dest *[]T) error {
	if len(names) == 0 {
		*dest = []T{}
		return nil
	}
	if err := tx.Where("category IN ?", names).Find(dest).Error; err != nil {
		return err
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	if len(*dest) != len(want) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Select("HarmfulToolCategories", "HarmfulMaterialCategories").
		Delete(&posts.Post{ID: id})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&posts.Post{}).Where("user_id = ?", userID).Count(&n).Error
	return n, translate(err)
}
