package policy

import "time"

// Gate evaluates the visibility and submission rules for a single point in
// time. Build one per request with NewGate; it holds no mutable state and is
// safe for concurrent use.
type Gate struct {
	rules Rules
	now   time.Time
}

func NewGate(rules Rules, now time.Time) Gate {
	return Gate{rules: rules, now: now}
}

func (g Gate) Rules() Rules { return g.rules }

// IsMature reports whether the viewer may see restricted content.
// Guests are never mature.
func (g Gate) IsMature(v Viewer) bool {
	if !v.authenticated {
		return false
	}
	return IsMature(v.birthDate, g.now, g.rules.AgeRestrictedContentAge)
}

// CanSubmit reports whether the viewer may create or update content with the
// proposed flags. Content that is not restricted can always be submitted.
func (g Gate) CanSubmit(v Viewer, proposed ContentItem) bool {
	if !proposed.Restricted() {
		return true
	}
	return g.IsMature(v)
}

// Deny builds the error returned for a denied request.
func (g Gate) Deny() error {
	return &AccessDeniedError{MinAge: g.rules.AgeRestrictedContentAge}
}
