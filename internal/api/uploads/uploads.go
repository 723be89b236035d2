// Package uploads stores user images and renders their URLs.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/domain/media"
	"craftshare/internal/infra/storage"
	"craftshare/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrExtension = errors.New("unsupported image extension")
	ErrTooLarge  = errors.New("image too large")
)

type Images struct {
	store storage.Storage
	repo  repository.ImageRepository
	rules config.ContentRules
}

func New(store storage.Storage, repo repository.ImageRepository, rules config.ContentRules) *Images {
	return &Images{store: store, repo: repo, rules: rules}
}

// Validate checks the extension and size of an uploaded file.
func (i *Images) Validate(fh *multipart.FileHeader) error {
	if !media.HasValidExtension(fh.Filename, i.rules.ImageExtensions) {
		return fmt.Errorf("%w: allowed are %v", ErrExtension, i.rules.ImageExtensions)
	}
	if i.rules.MaxImageBytes > 0 && fh.Size > i.rules.MaxImageBytes {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, i.rules.MaxImageBytes)
	}
	return nil
}

// Save validates fh, writes it to storage under prefix and records it.
func (i *Images) Save(ctx context.Context, fh *multipart.FileHeader, prefix string) (*media.Image, error) {
	if err := i.Validate(fh); err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	key := storage.NewKey(prefix, media.Extension(fh.Filename))
	info, err := i.store.Put(ctx, key, f, storage.PutObjectOptions{Size: fh.Size, ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	img := &media.Image{
		ID:          uuid.NewString(),
		StorageKey:  key,
		ContentType: contentType,
		Size:        info.Size,
	}
	if err := i.repo.Create(ctx, img); err != nil {
		if derr := i.store.Delete(ctx, key); derr != nil {
			log.Warn("orphaned image object", "key", key, "err", derr)
		}
		return nil, fmt.Errorf("record image: %w", err)
	}
	return img, nil
}

// Remove deletes the stored object and its row. Failures are logged only.
func (i *Images) Remove(ctx context.Context, img *media.Image) {
	if img == nil {
		return
	}
	if err := i.store.Delete(ctx, img.StorageKey); err != nil {
		log.Warn("delete image object", "key", img.StorageKey, "err", err)
	}
	if err := i.repo.Delete(ctx, img.ID); err != nil {
		log.Warn("delete image row", "id", img.ID, "err", err)
	}
}

// URL returns a client URL for img, or nil when there is none.
func (i *Images) URL(ctx context.Context, img *media.Image) *string {
	if img == nil || img.StorageKey == "" {
		return nil
	}
	u, err := i.store.URL(ctx, img.StorageKey)
	if err != nil {
		log.Warn("image url", "key", img.StorageKey, "err", err)
		return nil
	}
	return &u
}
