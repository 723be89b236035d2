package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "log/slog"

	"craftshare/config"
	"craftshare/internal/api/respond"
	"craftshare/internal/api/uploads"
	"craftshare/internal/app/http/middleware"
	"craftshare/internal/domain/policy"
	"craftshare/internal/domain/users"
	"craftshare/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const dateLayout = "2006-01-02"

type Handler struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	images *uploads.Images
	tokens *Tokens
	rules  config.ContentRules
	now    func() time.Time
}

func NewHandler(users repository.UserRepository, posts repository.PostRepository, images *uploads.Images, tokens *Tokens, rules config.ContentRules) *Handler {
	return &Handler{users: users, posts: posts, images: images, tokens: tokens, rules: rules, now: time.Now}
}

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

const weakPassword = "Password must be at least 8 characters long and contain both letters and numbers"

// ParseBirthDate parses YYYY-MM-DD and enforces the account rules: the date
// is not in the future and the user is at least AccountMinAge years old.
func ParseBirthDate(raw string, now time.Time, accountMinAge int) (time.Time, map[string][]string) {
	birth, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, map[string][]string{"birth_date": {"Date has wrong format. Use YYYY-MM-DD."}}
	}
	if birth.After(now) {
		return time.Time{}, map[string][]string{"birth_date": {"Birth date cannot be in the future."}}
	}
	if !policy.MeetsAccountMinimum(birth, now, accountMinAge) {
		return time.Time{}, map[string][]string{"birth_date": {
			fmt.Sprintf("You must be %d years or older to create an account.", accountMinAge),
		}}
	}
	return birth, nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// POST /signup (JSON or multipart with an optional image)
func (h *Handler) Signup(c *gin.Context) {
	var input struct {
		Username  string `json:"username" form:"username"`
		Password1 string `json:"password1" form:"password1"`
		Password2 string `json:"password2" form:"password2"`
		BirthDate string `json:"birth_date" form:"birth_date"`
	}
	if err := c.ShouldBind(&input); err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid signup data.", "", nil)
		return
	}
	input.Username = strings.TrimSpace(middleware.Sanitize(input.Username))

	details := map[string][]string{}
	if input.Username == "" {
		details["username"] = append(details["username"], "This field is required.")
	}
	if len(input.Username) > 150 {
		details["username"] = append(details["username"], "Ensure this field has no more than 150 characters.")
	}
	if input.Password1 == "" || input.Password2 == "" {
		details["password"] = append(details["password"], "Both password fields are required.")
	} else if input.Password1 != input.Password2 {
		details["password"] = append(details["password"], "Passwords do not match.")
	} else if !isPasswordStrong(input.Password1) {
		details["password"] = append(details["password"], weakPassword)
	}
	now := h.now()
	var birth time.Time
	if input.BirthDate == "" {
		details["birth_date"] = []string{"This field is required."}
	} else {
		var bdErr map[string][]string
		birth, bdErr = ParseBirthDate(input.BirthDate, now, h.rules.AccountMinAge)
		for k, v := range bdErr {
			details[k] = v
		}
	}
	if len(details) > 0 {
		respond.Error(c, http.StatusBadRequest, "Invalid signup data.", "", details)
		return
	}

	if _, err := h.users.GetByUsername(c.Request.Context(), input.Username); err == nil {
		respond.Error(c, http.StatusBadRequest, "Invalid signup data.", "",
			map[string][]string{"username": {"A user with that username already exists."}})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		respond.Internal(c, "signup lookup", err)
		return
	}

	hashed, err := hashPassword(input.Password1)
	if err != nil {
		respond.Internal(c, "hash password", err)
		return
	}

	user := users.User{
		Username:     input.Username,
		Password:     &hashed,
		AuthProvider: users.ProviderLocal,
		Role:         users.RoleUser,
		BirthDate:    &birth,
	}

	if fh, ferr := c.FormFile("image"); ferr == nil {
		img, err := h.images.Save(c.Request.Context(), fh, "profiles")
		if err != nil {
			imageError(c, err)
			return
		}
		user.ImageID = &img.ID
		user.Image = img
	}

	if err := h.users.Create(c.Request.Context(), &user); err != nil {
		h.images.Remove(c.Request.Context(), user.Image)
		respond.Repo(c, err, "", "A user with that username already exists.", "create user")
		return
	}

	pair, err := h.tokens.Issue(user)
	if err != nil {
		respond.Internal(c, "issue tokens", err)
		return
	}
	log.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account successfully registered.",
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

func imageError(c *gin.Context, err error) {
	if errors.Is(err, uploads.ErrExtension) || errors.Is(err, uploads.ErrTooLarge) {
		respond.Error(c, http.StatusBadRequest, "Invalid image.", "", map[string][]string{"image": {err.Error()}})
		return
	}
	respond.Internal(c, "save image", err)
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), strings.TrimSpace(input.Username))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			respond.Internal(c, "login lookup", err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This account uses Google sign-in"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	pair, err := h.tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// POST /token/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing refresh token"})
		return
	}
	id, err := h.tokens.RefreshUserID(body.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		respond.Internal(c, "refresh lookup", err)
		return
	}
	access, err := h.tokens.Access(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// POST /change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !isPasswordStrong(body.NewPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters with letters and numbers"})
		return
	}

	if user.Password == nil || *user.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "This account does not have a password. Sign in with Google or set a password first.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
		return
	}

	hashed, err := hashPassword(body.NewPassword)
	if err != nil {
		respond.Internal(c, "hash password", err)
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, hashed); err != nil {
		respond.Repo(c, err, "User not found", "", "update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// DELETE /delete-account
// Local accounts confirm with their password; Google accounts have none.
func (h *Handler) DeleteAccount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if user.Password != nil && *user.Password != "" {
		var body struct {
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&body)
		if body.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required to delete the account"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect password"})
			return
		}
	}

	ctx := c.Request.Context()
	// Posts cascade with the user row but their images do not.
	owned, err := h.posts.List(ctx, repository.PostFilter{UserID: &user.ID})
	if err != nil {
		respond.Internal(c, "list posts for account deletion", err)
		return
	}

	if err := h.users.Delete(ctx, user.ID); err != nil {
		respond.Repo(c, err, "User not found", "", "delete account")
		return
	}
	h.images.Remove(ctx, user.Image)
	for _, p := range owned {
		h.images.Remove(ctx, p.Image)
	}

	log.Info("account deleted", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully."})
}
