package posts

import (
	"context"

	"craftshare/internal/domain/posts"
	"craftshare/internal/domain/users"
)

func (h *Handler) toAuthorDTO(ctx context.Context, u users.User) AuthorDTO {
	return AuthorDTO{ID: u.ID, Username: u.Username, Image: h.images.URL(ctx, u.Image)}
}

func toItemDTOs[T posts.Tool | posts.Material](items []T) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		switch v := any(it).(type) {
		case posts.Tool:
			out = append(out, ItemDTO{Quantity: v.Quantity, Name: v.Name, Description: v.Description})
		case posts.Material:
			out = append(out, ItemDTO{Quantity: v.Quantity, Name: v.Name, Description: v.Description})
		}
	}
	return out
}

func (h *Handler) toPostDTO(ctx context.Context, p posts.Post) PostDTO {
	return PostDTO{
		ID:                        p.ID,
		Title:                     p.Title,
		Description:               p.Description,
		Instructions:              p.Instructions,
		Public:                    p.Public,
		HarmfulPost:               p.HarmfulPost,
		Tags:                      p.Tags,
		DefaultImageIndex:         p.DefaultImageIndex,
		Image:                     h.images.URL(ctx, p.Image),
		HarmfulToolCategories:     p.ToolCategoryNames(),
		HarmfulMaterialCategories: p.MaterialCategoryNames(),
		Author:                    h.toAuthorDTO(ctx, p.User),
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}
}

func (h *Handler) toPostDTOs(ctx context.Context, list []posts.Post) []PostDTO {
	out := make([]PostDTO, 0, len(list))
	for _, p := range list {
		out = append(out, h.toPostDTO(ctx, p))
	}
	return out
}

func (h *Handler) toDetailDTO(ctx context.Context, p posts.Post) PostDTO {
	dto := h.toPostDTO(ctx, p)
	dto.Tools = toItemDTOs(p.Tools)
	dto.Materials = toItemDTOs(p.Materials)
	return dto
}

func (h *Handler) toCommentDTO(ctx context.Context, c posts.Comment) CommentDTO {
	return CommentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		Text:      c.Text,
		Author:    h.toAuthorDTO(ctx, c.User),
		CreatedAt: c.CreatedAt,
	}
}
