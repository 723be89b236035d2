package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/posts"

	"github.com/gin-gonic/gin"
)

const (
	ActionCreate = "create"
	ActionFilter = "filter"

	multipartMemory = 8 << 20
)

var errMalformed = errors.New("malformed request body")

// Filters is the body of a POST /posts request with action=filter.
type Filters struct {
	// UserID is a numeric id or a username.
	UserID      string
	SearchQuery []string
}

// submission is a parsed POST/PUT /posts body.
type submission struct {
	Action  string
	Filters Filters
	Input   posts.PostInput
	Image   *multipart.FileHeader
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexBool accepts true/false, "true"/"1" and 1/0.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = flexBool(t)
	case string:
		*f = flexBool(truthy(t))
	case float64:
		*f = flexBool(t == 1)
	case nil:
		*f = false
	default:
		return fmt.Errorf("invalid boolean %s", b)
	}
	return nil
}

// stringList accepts a JSON array or a stringified JSON array.
type stringList []string

func (l *stringList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := parseStringList([]string{s})
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type itemList []posts.ItemInput

func (l *itemList) UnmarshalJSON(b []byte) error {
	var arr []posts.ItemInput
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	items, err := parseItems(s)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

type jsonBody struct {
	Action  string `json:"action"`
	Filters *struct {
		UserID      *flexString `json:"user_id"`
		SearchQuery stringList  `json:"search_query"`
	} `json:"filters"`

	Title              *string     `json:"title"`
	Description        *string     `json:"description"`
	Instructions       *string     `json:"instructions"`
	Public             *flexBool   `json:"public"`
	HarmfulPost        *flexBool   `json:"harmful_post"`
	Tags               *string     `json:"tags"`
	DefaultImageIndex  *flexString `json:"default_image_index"`
	Tools              *itemList   `json:"tools"`
	Materials          *itemList   `json:"materials"`
	ToolCategories     *stringList `json:"harmful_tool_categories"`
	MaterialCategories *stringList `json:"harmful_material_categories"`
}

func truthy(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1"
}

// JSON bodies are sanitized by SanitizeAndCleanInputMiddleware; multipart
// values are sanitized here.

// dedupe drops blanks and repeated names, keeping the first occurrence.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// parseStringList reads repeated form values; a single value that looks like
// a JSON array is decoded instead.
func parseStringList(values []string) ([]string, error) {
	if len(values) == 1 {
		v := strings.TrimSpace(values[0])
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err != nil {
				return nil, err
			}
			return dedupe(arr), nil
		}
	}
	return dedupe(values), nil
}

func parseItems(raw string) ([]posts.ItemInput, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []posts.ItemInput{}, nil
	}
	var items []posts.ItemInput
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func sanitizeItems(items []posts.ItemInput) []posts.ItemInput {
	for i := range items {
		items[i].Quantity = strings.TrimSpace(middleware.Sanitize(items[i].Quantity))
		items[i].Name = strings.TrimSpace(middleware.Sanitize(items[i].Name))
		items[i].Description = strings.TrimSpace(middleware.Sanitize(items[i].Description))
	}
	return items
}

func parseIndex(raw string, fe posts.FieldErrors) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fe["default_image_index"] = append(fe["default_image_index"], "A valid integer is required.")
		return nil
	}
	return &n
}

// parseSubmission reads a post body from JSON or multipart form data. Field
// errors are returned as posts.FieldErrors.
func parseSubmission(c *gin.Context) (submission, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		return parseMultipart(c)
	}
	return parseJSON(c)
}

func parseJSON(c *gin.Context) (submission, error) {
	sub := submission{Action: ActionCreate}
	if c.Request.Body == nil {
		return sub, nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return sub, errMalformed
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return sub, nil
	}
	var body jsonBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return sub, fmt.Errorf("%w: %v", errMalformed, err)
	}

	if body.Action != "" {
		sub.Action = body.Action
	}
	if body.Filters != nil {
		if body.Filters.UserID != nil {
			sub.Filters.UserID = strings.TrimSpace(string(*body.Filters.UserID))
		}
		sub.Filters.SearchQuery = dedupe(body.Filters.SearchQuery)
	}

	fe := posts.FieldErrors{}
	in := &sub.Input
	in.Title = trimmed(body.Title)
	in.Description = trimmed(body.Description)
	in.Instructions = trimmed(body.Instructions)
	in.Tags = trimmed(body.Tags)
	if body.Public != nil {
		v := bool(*body.Public)
		in.Public = &v
	}
	if body.HarmfulPost != nil {
		v := bool(*body.HarmfulPost)
		in.HarmfulPost = &v
	}
	if body.DefaultImageIndex != nil {
		in.DefaultImageIndex = parseIndex(string(*body.DefaultImageIndex), fe)
	}
	if body.Tools != nil {
		items := []posts.ItemInput(*body.Tools)
		in.Tools = &items
	}
	if body.Materials != nil {
		items := []posts.ItemInput(*body.Materials)
		in.Materials = &items
	}
	if body.ToolCategories != nil {
		names := dedupe(*body.ToolCategories)
		in.ToolCategories = &names
	}
	if body.MaterialCategories != nil {
		names := dedupe(*body.MaterialCategories)
		in.MaterialCategories = &names
	}
	if len(fe) > 0 {
		return sub, fe
	}
	return sub, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func parseMultipart(c *gin.Context) (submission, error) {
	sub := submission{Action: ActionCreate}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return sub, fmt.Errorf("%w: %v", errMalformed, err)
	}
	form := c.Request.MultipartForm
	get := func(key string) (string, bool) {
		vs, ok := form.Value[key]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}
	text := func(key string) *string {
		v, ok := get(key)
		if !ok {
			return nil
		}
		v = strings.TrimSpace(middleware.Sanitize(v))
		return &v
	}

	if v, ok := get("action"); ok && v != "" {
		sub.Action = v
	}
	if v, ok := get("filters"); ok && strings.TrimSpace(v) != "" {
		var f struct {
			UserID      *flexString `json:"user_id"`
			SearchQuery stringList  `json:"search_query"`
		}
		if err := json.Unmarshal([]byte(v), &f); err != nil {
			return sub, fmt.Errorf("%w: filters: %v", errMalformed, err)
		}
		if f.UserID != nil {
			sub.Filters.UserID = strings.TrimSpace(string(*f.UserID))
		}
		sub.Filters.SearchQuery = dedupe(f.SearchQuery)
	}

	fe := posts.FieldErrors{}
	in := &sub.Input
	in.Title = text("title")
	in.Description = text("description")
	in.Instructions = text("instructions")
	in.Tags = text("tags")
	if v, ok := get("public"); ok {
		b := truthy(v)
		in.Public = &b
	}
	if v, ok := get("harmful_post"); ok {
		b := truthy(v)
		in.HarmfulPost = &b
	}
	if v, ok := get("default_image_index"); ok {
		in.DefaultImageIndex = parseIndex(v, fe)
	}
	for key, dst := range map[string]**[]posts.ItemInput{"tools": &in.Tools, "materials": &in.Materials} {
		v, ok := get(key)
		if !ok {
			continue
		}
		items, err := parseItems(v)
		if err != nil {
			fe[key] = append(fe[key], "Expected a JSON list of items.")
			continue
		}
		items = sanitizeItems(items)
		*dst = &items
	}
	for key, dst := range map[string]**[]string{
		"harmful_tool_categories":     &in.ToolCategories,
		"harmful_material_categories": &in.MaterialCategories,
	} {
		vs, ok := form.Value[key]
		if !ok {
			continue
		}
		names, err := parseStringList(vs)
		if err != nil {
			fe[key] = append(fe[key], "Expected a list of category names.")
			continue
		}
		for i := range names {
			names[i] = middleware.Sanitize(names[i])
		}
		*dst = &names
	}

	if files := form.File["image"]; len(files) > 0 {
		sub.Image = files[0]
	}
	if len(fe) > 0 {
		return sub, fe
	}
	return sub, nil
}

// formError answers a parse failure.
func formError(c *gin.Context, err error) {
	var fe posts.FieldErrors
	if errors.As(err, &fe) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Validation failed.", "details": fe})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed request body."})
}
