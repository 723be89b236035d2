package posts

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"craftshare/internal/domain/posts"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartContext(t *testing.T, fields map[string][]string, file string) *gin.Context {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if file != "" {
		fw, err := mw.CreateFormFile("image", file)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("img"))
	}
	require.NoError(t, mw.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/posts", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c
}

func jsonContext(body string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestParseMultipart(t *testing.T) {
	c := multipartContext(t, map[string][]string{
		"title":                       {"<b>Lamp</b>"},
		"description":                 {"desk lamp"},
		"instructions":                {"wire it"},
		"harmful_post":                {"TRUE"},
		"default_image_index":         {"2"},
		"tools":                       {`[{"quantity":"1","name":"soldering iron"}]`},
		"materials":                   {`[]`},
		"harmful_tool_categories":     {`["soldering iron","soldering iron"]`},
		"harmful_material_categories": {"solvent", "lye", "solvent"},
	}, "lamp.png")

	sub, err := parseSubmission(c)
	require.NoError(t, err)

	in := sub.Input
	assert.Equal(t, ActionCreate, sub.Action)
	assert.Equal(t, "Lamp", *in.Title)
	assert.True(t, *in.HarmfulPost)
	assert.Equal(t, 2, *in.DefaultImageIndex)
	require.NotNil(t, in.Tools)
	assert.Equal(t, "soldering iron", (*in.Tools)[0].Name)
	require.NotNil(t, in.Materials)
	assert.Empty(t, *in.Materials)
	assert.Equal(t, []string{"soldering iron"}, *in.ToolCategories)
	assert.Equal(t, []string{"solvent", "lye"}, *in.MaterialCategories)
	require.NotNil(t, sub.Image)
	assert.Equal(t, "lamp.png", sub.Image.Filename)
	assert.True(t, in.Content().Restricted())
}

func TestParseMultipart_FieldErrors(t *testing.T) {
	c := multipartContext(t, map[string][]string{
		"tools":               {"not json"},
		"default_image_index": {"two"},
	}, "")

	_, err := parseSubmission(c)

	var fe posts.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "tools")
	assert.Contains(t, fe, "default_image_index")
}

func TestParseMultipart_Filter(t *testing.T) {
	c := multipartContext(t, map[string][]string{
		"action":  {"filter"},
		"filters": {`{"user_id":"maker","search_query":["oak"]}`},
	}, "")

	sub, err := parseSubmission(c)
	require.NoError(t, err)
	assert.Equal(t, ActionFilter, sub.Action)
	assert.Equal(t, Filters{UserID: "maker", SearchQuery: []string{"oak"}}, sub.Filters)
}

func TestParseJSON(t *testing.T) {
	t.Run("stringified lists", func(t *testing.T) {
		c := jsonContext(`{
			"title": " Shelf ",
			"harmful_post": 0,
			"default_image_index": "3",
			"tools": "[{\"name\":\"saw\"}]",
			"harmful_tool_categories": "[\"saw\"]"
		}`)

		sub, err := parseSubmission(c)
		require.NoError(t, err)
		assert.Equal(t, "Shelf", *sub.Input.Title)
		assert.False(t, *sub.Input.HarmfulPost)
		assert.Equal(t, 3, *sub.Input.DefaultImageIndex)
		assert.Equal(t, "saw", (*sub.Input.Tools)[0].Name)
		assert.Equal(t, []string{"saw"}, *sub.Input.ToolCategories)
		assert.Nil(t, sub.Input.MaterialCategories)
	})

	t.Run("empty body", func(t *testing.T) {
		sub, err := parseSubmission(jsonContext(""))
		require.NoError(t, err)
		assert.Equal(t, ActionCreate, sub.Action)
		assert.Nil(t, sub.Input.Title)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseSubmission(jsonContext("{"))
		assert.ErrorIs(t, err, errMalformed)
	})
}

func TestParseStringList(t *testing.T) {
	got, err := parseStringList([]string{" knife ", "", "saw", "knife"})
	require.NoError(t, err)
	assert.Equal(t, []string{"knife", "saw"}, got)

	_, err = parseStringList([]string{"[broken"})
	assert.Error(t, err)
}
