package policy

import "time"

// Rules holds the age thresholds the policy is evaluated against.
// It is passed by value so every Gate works on an immutable copy.
type Rules struct {
	AgeRestrictedContentAge int
	AccountMinAge           int
}

// DefaultRules returns the thresholds used when nothing is configured.
func DefaultRules() Rules {
	return Rules{
		AgeRestrictedContentAge: 16,
		AccountMinAge:           13,
	}
}

// Viewer is whoever issued the request: a guest or an authenticated user.
type Viewer struct {
	authenticated bool
	userID        uint
	birthDate     *time.Time
}

func Anonymous() Viewer {
	return Viewer{}
}

// Authenticated builds a viewer for a signed-in user. birthDate may be nil
// (accounts created through Google sign-in have none until the user sets it).
func Authenticated(userID uint, birthDate *time.Time) Viewer {
	return Viewer{authenticated: true, userID: userID, birthDate: birthDate}
}

func (v Viewer) IsAuthenticated() bool { return v.authenticated }

func (v Viewer) UserID() uint { return v.userID }

func (v Viewer) BirthDate() *time.Time { return v.birthDate }

// ContentItem is the part of a post the policy reads.
type ContentItem struct {
	HarmfulFlag        bool
	ToolCategories     []string
	MaterialCategories []string
}

// Item is anything that can be projected onto a ContentItem.
type Item interface {
	Content() ContentItem
}

func (c ContentItem) Content() ContentItem { return c }

func (c ContentItem) Restricted() bool {
	return IsRestricted(c.HarmfulFlag, c.ToolCategories, c.MaterialCategories)
}
