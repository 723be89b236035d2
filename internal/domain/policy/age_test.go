package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func TestAge(t *testing.T) {
	ref := date(2026, time.October, 19)

	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday today", date(2010, time.October, 19), 16},
		{"birthday tomorrow", date(2010, time.October, 20), 15},
		{"birthday yesterday", date(2010, time.October, 18), 16},
		{"later month", date(2010, time.December, 1), 15},
		{"earlier month", date(2010, time.January, 31), 16},
		{"born on reference date", ref, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, ref))
		})
	}
}

func TestIsMature_StrictBoundary(t *testing.T) {
	ref := date(2026, time.October, 19)
	for _, minAge := range []int{0, 13, 16, 18, 21} {
		exact := ref.AddDate(-minAge, 0, 0)
		assert.False(t, IsMature(&exact, ref, minAge), "exactly %d is not mature", minAge)

		older := ref.AddDate(-(minAge + 1), 0, 0)
		assert.True(t, IsMature(&older, ref, minAge), "%d+1 is mature", minAge)

		muchOlder := ref.AddDate(-(minAge + 30), -3, 0)
		assert.True(t, IsMature(&muchOlder, ref, minAge))
	}
}

func TestIsMature_DayBeforeBirthday(t *testing.T) {
	ref := date(2026, time.October, 19)
	// turns 17 tomorrow, so still 16
	assert.False(t, IsMature(ptr(date(2009, time.October, 20)), ref, 16))
	assert.True(t, IsMature(ptr(date(2009, time.October, 19)), ref, 16))
}

func TestIsMature_LeapDay(t *testing.T) {
	birth := date(2008, time.February, 29)
	assert.False(t, IsMature(&birth, date(2025, time.February, 28), 16))
	assert.True(t, IsMature(&birth, date(2025, time.March, 1), 16))
}

func TestIsMature_NilBirthDate(t *testing.T) {
	for _, minAge := range []int{0, 16, 99} {
		assert.False(t, IsMature(nil, date(2026, time.October, 19), minAge))
		assert.False(t, IsMature(nil, date(1970, time.January, 1), minAge))
	}
}

func TestMeetsAccountMinimum(t *testing.T) {
	ref := date(2026, time.October, 19)
	assert.True(t, MeetsAccountMinimum(ref.AddDate(-13, 0, 0), ref, 13))
	assert.False(t, MeetsAccountMinimum(ref.AddDate(-13, 0, 1), ref, 13))
	assert.True(t, MeetsAccountMinimum(ref.AddDate(-40, 0, 0), ref, 13))
}
