package posts

import (
	"time"

	"craftshare/internal/domain/posts"
)

type AuthorDTO struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

type ItemDTO struct {
	Quantity    string `json:"quantity"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type PostDTO struct {
	ID                        uint      `json:"id"`
	Title                     string    `json:"title"`
	Description               string    `json:"description"`
	Instructions              string    `json:"instructions"`
	Public                    bool      `json:"public"`
	HarmfulPost               bool      `json:"harmful_post"`
	Tags                      *string   `json:"tags"`
	DefaultImageIndex         int       `json:"default_image_index"`
	Image                     *string   `json:"image"`
	HarmfulToolCategories     []string  `json:"harmful_tool_categories"`
	HarmfulMaterialCategories []string  `json:"harmful_material_categories"`
	Author                    AuthorDTO `json:"author"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`

	// detail only
	Tools     []ItemDTO            `json:"tools,omitempty"`
	Materials []ItemDTO            `json:"materials,omitempty"`
	Likes     *int64               `json:"likes,omitempty"`
	Liked     *bool                `json:"liked,omitempty"`
	Ratings   *posts.RatingSummary `json:"ratings,omitempty"`
}

type RatingInput struct {
	SavesMoney *int `json:"saves_money"`
	SavesTime  *int `json:"saves_time"`
	IsUseful   *int `json:"is_useful"`
}

type CommentDTO struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"post_id"`
	Text      string    `json:"text"`
	Author    AuthorDTO `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentInput struct {
	Text string `json:"text"`
}
