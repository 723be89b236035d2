package posts

import (
	"errors"
	"fmt"
	"strings"

	"craftshare/internal/domain/policy"
)

// ItemInput is one tool or material line of a submitted post.
type ItemInput struct {
	Quantity    string `json:"quantity"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PostInput is a post payload as submitted by a client. Nil fields were not
// submitted; on update they keep the stored value.
type PostInput struct {
	Title             *string
	Description       *string
	Instructions      *string
	Public            *bool
	HarmfulPost       *bool
	Tags              *string
	DefaultImageIndex *int

	Tools              *[]ItemInput
	Materials          *[]ItemInput
	ToolCategories     *[]string
	MaterialCategories *[]string
}

var ErrInvalidInput = errors.New("invalid post input")

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) { fe[field] = append(fe[field], msg) }

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for f, msgs := range fe {
		parts = append(parts, f+": "+strings.Join(msgs, ", "))
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (fe FieldErrors) Unwrap() error { return ErrInvalidInput }

// Validate checks the payload. Creation requires the text fields.
func (in PostInput) Validate(creating bool) error {
	fe := FieldErrors{}
	required := map[string]*string{
		"title":        in.Title,
		"description":  in.Description,
		"instructions": in.Instructions,
	}
	for field, v := range required {
		if v == nil {
			if creating {
				fe.add(field, "This field is required.")
			}
			continue
		}
		if strings.TrimSpace(*v) == "" {
			fe.add(field, "This field may not be blank.")
		}
	}
	if in.Title != nil && len(*in.Title) > 255 {
		fe.add("title", "Ensure this field has no more than 255 characters.")
	}
	if in.Tags != nil && len(*in.Tags) > 255 {
		fe.add("tags", "Ensure this field has no more than 255 characters.")
	}
	if in.DefaultImageIndex != nil &&
		(*in.DefaultImageIndex < MinDefaultImageIndex || *in.DefaultImageIndex > MaxDefaultImageIndex) {
		fe.add("default_image_index", fmt.Sprintf("Ensure this value is between %d and %d.",
			MinDefaultImageIndex, MaxDefaultImageIndex))
	}
	checkItems := func(field string, items *[]ItemInput) {
		if items == nil {
			return
		}
		for _, it := range *items {
			if strings.TrimSpace(it.Name) == "" {
				fe.add(field, "Every entry needs a name.")
				return
			}
			if len(it.Quantity) > 50 || len(it.Name) > 255 || len(it.Description) > 255 {
				fe.add(field, "Entry is too long.")
				return
			}
		}
	}
	checkItems("tools", in.Tools)
	checkItems("materials", in.Materials)

	if len(fe) > 0 {
		return fe
	}
	return nil
}

func deref[T any](p *[]T) []T {
	if p == nil {
		return nil
	}
	return *p
}

// Content is the sensitivity of a new post built from this payload.
func (in PostInput) Content() policy.ContentItem {
	return policy.ContentItem{
		HarmfulFlag:        in.HarmfulPost != nil && *in.HarmfulPost,
		ToolCategories:     deref(in.ToolCategories),
		MaterialCategories: deref(in.MaterialCategories),
	}
}

// MergedContent is the sensitivity existing would have once this payload is
// applied to it.
func (in PostInput) MergedContent(existing Post) policy.ContentItem {
	item := existing.Content()
	if in.HarmfulPost != nil {
		item.HarmfulFlag = *in.HarmfulPost
	}
	if in.ToolCategories != nil {
		item.ToolCategories = *in.ToolCategories
	}
	if in.MaterialCategories != nil {
		item.MaterialCategories = *in.MaterialCategories
	}
	return item
}

// ApplyTo copies the submitted scalar fields onto p.
func (in PostInput) ApplyTo(p *Post) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Instructions != nil {
		p.Instructions = *in.Instructions
	}
	if in.Public != nil {
		p.Public = *in.Public
	}
	if in.HarmfulPost != nil {
		p.HarmfulPost = *in.HarmfulPost
	}
	if in.Tags != nil {
		tags := *in.Tags
		p.Tags = &tags
	}
	if in.DefaultImageIndex != nil {
		p.DefaultImageIndex = *in.DefaultImageIndex
	}
}

// NewPost builds an unsaved post owned by userID.
func (in PostInput) NewPost(userID uint) Post {
	p := Post{UserID: userID, Public: true, DefaultImageIndex: 1}
	in.ApplyTo(&p)
	return p
}

func ToTools(items []ItemInput) []Tool {
	out := make([]Tool, 0, len(items))
	for _, it := range items {
		out = append(out, Tool{Quantity: it.Quantity, Name: it.Name, Description: it.Description})
	}
	return out
}

func ToMaterials(items []ItemInput) []Material {
	out := make([]Material, 0, len(items))
	for _, it := range items {
		out = append(out, Material{Quantity: it.Quantity, Name: it.Name, Description: it.Description})
	}
	return out
}
