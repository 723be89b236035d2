package policy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = date(2026, time.October, 19)

func gate() Gate { return NewGate(DefaultRules(), today) }

func viewerAged(years int) Viewer {
	b := today.AddDate(-years, 0, 0)
	return Authenticated(1, &b)
}

type post struct {
	id   int
	item ContentItem
}

func (p post) Content() ContentItem { return p.item }

func TestGate_IsMature(t *testing.T) {
	g := gate()
	assert.False(t, g.IsMature(Anonymous()))
	assert.False(t, g.IsMature(Authenticated(7, nil)))
	assert.False(t, g.IsMature(viewerAged(16)))
	assert.True(t, g.IsMature(viewerAged(17)))
}

func TestVisibleOrDeny(t *testing.T) {
	g := gate()
	harmful := ContentItem{HarmfulFlag: true}
	safe := ContentItem{ToolCategories: []string{}, MaterialCategories: []string{}}

	t.Run("mature viewer sees restricted item", func(t *testing.T) {
		got, err := VisibleOrDeny(g, viewerAged(20), harmful)
		require.NoError(t, err)
		assert.Equal(t, harmful, got)
	})

	t.Run("threshold-aged viewer is denied restricted item", func(t *testing.T) {
		_, err := VisibleOrDeny(g, viewerAged(16), harmful)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAccessDenied))

		var denied *AccessDeniedError
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, 16, denied.MinAge)
		assert.Contains(t, err.Error(), "16 years")
	})

	t.Run("seventeen-year-old", func(t *testing.T) {
		_, err := VisibleOrDeny(g, viewerAged(17), harmful)
		assert.NoError(t, err)
	})

	t.Run("immature viewer sees safe item", func(t *testing.T) {
		got, err := VisibleOrDeny(g, viewerAged(10), safe)
		require.NoError(t, err)
		assert.Equal(t, safe, got)
	})

	t.Run("guest is denied tagged item", func(t *testing.T) {
		_, err := VisibleOrDeny(g, Anonymous(), post{id: 1, item: ContentItem{MaterialCategories: []string{"acid"}}})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing birth date is denied", func(t *testing.T) {
		_, err := VisibleOrDeny(g, Authenticated(3, nil), harmful)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestFilterVisible(t *testing.T) {
	g := gate()
	items := []post{
		{id: 1},
		{id: 2, item: ContentItem{ToolCategories: []string{"knife"}}},
		{id: 3},
		{id: 4, item: ContentItem{HarmfulFlag: true}},
		{id: 5, item: ContentItem{MaterialCategories: []string{"bleach"}}},
		{id: 6},
	}

	ids := func(ps []post) []int {
		out := make([]int, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.id)
		}
		return out
	}

	t.Run("guest gets the safe subsequence", func(t *testing.T) {
		got := FilterVisible(g, Anonymous(), items)
		assert.Equal(t, []int{1, 3, 6}, ids(got))
	})

	t.Run("guest with three items", func(t *testing.T) {
		got := FilterVisible(g, Anonymous(), items[:3])
		assert.Equal(t, []int{1, 3}, ids(got))
	})

	t.Run("mature viewer gets everything in order", func(t *testing.T) {
		got := FilterVisible(g, viewerAged(30), items)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(got))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, v := range []Viewer{Anonymous(), viewerAged(12), viewerAged(30), Authenticated(2, nil)} {
			once := FilterVisible(g, v, items)
			twice := FilterVisible(g, v, once)
			assert.Equal(t, ids(once), ids(twice))
		}
	})

	t.Run("immature result only holds unrestricted items", func(t *testing.T) {
		for _, p := range FilterVisible(g, viewerAged(15), items) {
			assert.False(t, p.Content().Restricted())
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterVisible(g, Anonymous(), []post{}))
	})
}

func TestCanSubmit(t *testing.T) {
	g := gate()
	harmful := ContentItem{HarmfulFlag: true}
	safe := ContentItem{}

	assert.True(t, g.CanSubmit(viewerAged(20), harmful))
	assert.False(t, g.CanSubmit(viewerAged(15), harmful))
	assert.False(t, g.CanSubmit(viewerAged(16), harmful))
	assert.False(t, g.CanSubmit(Anonymous(), ContentItem{ToolCategories: []string{"saw"}}))

	assert.True(t, g.CanSubmit(Authenticated(9, nil), safe))
	assert.True(t, g.CanSubmit(Anonymous(), safe))
	assert.True(t, g.CanSubmit(viewerAged(15), safe))
}

func TestGate_CustomRules(t *testing.T) {
	g := NewGate(Rules{AgeRestrictedContentAge: 18, AccountMinAge: 13}, today)
	assert.False(t, g.CanSubmit(viewerAged(18), ContentItem{HarmfulFlag: true}))
	assert.True(t, g.CanSubmit(viewerAged(19), ContentItem{HarmfulFlag: true}))
	assert.Contains(t, g.Deny().Error(), "18 years")
}
