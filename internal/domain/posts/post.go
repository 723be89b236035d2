package posts

import (
	"time"

	"craftshare/internal/domain/media"
	"craftshare/internal/domain/policy"
	"craftshare/internal/domain/users"
)

const (
	MinDefaultImageIndex = 0
	MaxDefaultImageIndex = 3
)

type Post struct {
	ID     uint       `gorm:"primaryKey"`
	UserID uint       `gorm:"not null;index"`
	User   users.User `gorm:"constraint:OnDelete:CASCADE"`

	Title        string  `gorm:"type:varchar(255);not null"`
	Description  string  `gorm:"type:text;not null"`
	Public       bool    `gorm:"not null;default:true"`
	HarmfulPost  bool    `gorm:"not null;default:false"`
	Instructions string  `gorm:"type:text;not null"`
	Tags         *string `gorm:"type:varchar(255)"`

	HarmfulToolCategories     []HarmfulToolCategory     `gorm:"many2many:post_harmful_tool_categories;constraint:OnDelete:CASCADE"`
	HarmfulMaterialCategories []HarmfulMaterialCategory `gorm:"many2many:post_harmful_material_categories;constraint:OnDelete:CASCADE"`

	Tools     []Tool     `gorm:"constraint:OnDelete:CASCADE"`
	Materials []Material `gorm:"constraint:OnDelete:CASCADE"`
	Likes     []Like     `gorm:"constraint:OnDelete:CASCADE"`
	Ratings   []Rating   `gorm:"constraint:OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"constraint:OnDelete:CASCADE"`

	// shown by the frontend when no image was uploaded
	DefaultImageIndex int `gorm:"not null;default:1;check:default_image_index BETWEEN 0 AND 3"`

	ImageID *string      `gorm:"type:uuid"`
	Image   *media.Image `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (p Post) ToolCategoryNames() []string {
	out := make([]string, 0, len(p.HarmfulToolCategories))
	for _, c := range p.HarmfulToolCategories {
		out = append(out, c.Category)
	}
	return out
}

func (p Post) MaterialCategoryNames() []string {
	out := make([]string, 0, len(p.HarmfulMaterialCategories))
	for _, c := range p.HarmfulMaterialCategories {
		out = append(out, c.Category)
	}
	return out
}

// Content projects the post onto the fields the visibility policy reads.
// Category associations must be preloaded.
func (p Post) Content() policy.ContentItem {
	return policy.ContentItem{
		HarmfulFlag:        p.HarmfulPost,
		ToolCategories:     p.ToolCategoryNames(),
		MaterialCategories: p.MaterialCategoryNames(),
	}
}

func (p Post) OwnedBy(userID uint) bool {
	return userID != 0 && p.UserID == userID
}

type Tool struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	PostID      uint   `gorm:"not null;index" json:"-"`
	Quantity    string `gorm:"type:varchar(50)" json:"quantity"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

type Material struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	PostID      uint   `gorm:"not null;index" json:"-"`
	Quantity    string `gorm:"type:varchar(50)" json:"quantity"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}
