package posts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCatalog_Unknown(t *testing.T) {
	c := CategoryCatalog{Tools: []string{"knife", "saw"}, Materials: []string{"acid"}}

	assert.Empty(t, c.Unknown(KindTool, []string{"knife", "saw"}))
	assert.Equal(t, []string{"hammer"}, c.Unknown(KindTool, []string{"knife", "hammer"}))
	assert.Equal(t, []string{"knife"}, c.Unknown(KindMaterial, []string{"acid", "knife"}))
	assert.Empty(t, c.Unknown(KindMaterial, nil))
}

func TestParseCategoryKind(t *testing.T) {
	k, err := ParseCategoryKind("tool")
	require.NoError(t, err)
	assert.Equal(t, KindTool, k)

	_, err = ParseCategoryKind("weapon")
	assert.Error(t, err)
}
