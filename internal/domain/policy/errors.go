package policy

import (
	"errors"
	"fmt"
)

// ErrAccessDenied matches every *AccessDeniedError through errors.Is.
var ErrAccessDenied = errors.New("age restricted content")

// AccessDeniedError is returned when restricted content is requested by a
// viewer that is not mature. Its message is safe to show to users.
type AccessDeniedError struct {
	MinAge int
}

func (e *AccessDeniedError) Error() string {
	return AccessDeniedMessage(e.MinAge)
}

func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// AccessDeniedMessage is the user-facing text for a denied request.
func AccessDeniedMessage(minAge int) string {
	return fmt.Sprintf(
		"You must be older than %d years to create, edit, and view a post that is "+
			"considered to be inappropriate for children.", minAge)
}
