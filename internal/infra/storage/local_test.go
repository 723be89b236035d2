package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutURLDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	st, err := NewLocal(root, "/media")
	require.NoError(t, err)

	info, err := st.Put(ctx, "posts/a.png", strings.NewReader("pixels"), PutObjectOptions{Size: 6, ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), info.Size)
	assert.Equal(t, "image/png", info.ContentType)

	b, err := os.ReadFile(filepath.Join(root, "posts", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(b))

	u, err := st.URL(ctx, "posts/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/media/posts/a.png", u)

	require.NoError(t, st.Delete(ctx, "posts/a.png"))
	_, err = os.Stat(filepath.Join(root, "posts", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, st.Delete(ctx, "posts/a.png"))
}

func TestLocal_RejectsTraversal(t *testing.T) {
	st, err := NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)

	_, err = st.Put(context.Background(), "../escape.png", strings.NewReader("x"), PutObjectOptions{})
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = st.URL(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestNewKey(t *testing.T) {
	k := NewKey("profiles", "webp")
	assert.True(t, strings.HasPrefix(k, "profiles/"))
	assert.True(t, strings.HasSuffix(k, ".webp"))
	assert.NotEqual(t, k, NewKey("profiles", "webp"))
}
