package uploads

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"craftshare/config"
	"craftshare/internal/domain/media"
	"craftshare/internal/infra/storage"
	smocks "craftshare/internal/infra/storage/mocks"
	rmocks "craftshare/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var rules = config.ContentRules{ImageExtensions: []string{"jpg", "png"}, MaxImageBytes: 1024}

// fileHeader builds a real multipart header the way net/http parses it.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestValidate(t *testing.T) {
	i := New(nil, nil, rules)
	assert.NoError(t, i.Validate(fileHeader(t, "a.PNG", []byte("x"))))
	assert.ErrorIs(t, i.Validate(fileHeader(t, "a.gif", []byte("x"))), ErrExtension)
	assert.ErrorIs(t, i.Validate(fileHeader(t, "noext", []byte("x"))), ErrExtension)
	assert.ErrorIs(t, i.Validate(fileHeader(t, "big.jpg", make([]byte, 2048))), ErrTooLarge)
}

func TestSave(t *testing.T) {
	store := new(smocks.MockStorage)
	repo := new(rmocks.MockImageRepository)
	store.On("Put", mock.Anything, mock.MatchedBy(func(k string) bool { return len(k) > len("posts/") }), mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Size: 3}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*media.Image")).Return(nil)

	img, err := New(store, repo, rules).Save(context.Background(), fileHeader(t, "photo.jpg", []byte("abc")), "posts")
	require.NoError(t, err)
	assert.Equal(t, int64(3), img.Size)
	assert.NotEmpty(t, img.ID)
	assert.Contains(t, img.StorageKey, ".jpg")
	store.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSave_RollsBackObjectOnDBError(t *testing.T) {
	store := new(smocks.MockStorage)
	repo := new(rmocks.MockImageRepository)
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{Size: 3}, nil)
	store.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := New(store, repo, rules).Save(context.Background(), fileHeader(t, "photo.jpg", []byte("abc")), "posts")
	assert.Error(t, err)
	store.AssertExpectations(t)
}

func TestURL(t *testing.T) {
	store := new(smocks.MockStorage)
	store.On("URL", mock.Anything, "posts/a.png").Return("/media/posts/a.png", nil)
	i := New(store, nil, rules)

	assert.Nil(t, i.URL(context.Background(), nil))
	u := i.URL(context.Background(), &media.Image{StorageKey: "posts/a.png"})
	require.NotNil(t, u)
	assert.Equal(t, "/media/posts/a.png", *u)
}
