package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

func TestListArticles(t *testing.T) {
	articles := &MockBlogStore{}
	articles.On("ListArticles", true).Return([]model.BlogArticle{
		{ID: "a-1", Slug: "hello", Title: "Hello", Content: "# Hello", Published: true},
	}, nil)

	req := httptest.NewRequest("GET", "/api/blog", nil)
	w := httptest.NewRecorder()
	handleListArticles(articles, true)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "# Hello")
	var got []ArticleSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Slug)
}

func TestGetArticle(t *testing.T) {
	articles := &MockBlogStore{}
	articles.On("GetArticleBySlug", "rotating-keys").Return(&model.BlogArticle{
		ID:        "a-1",
		Slug:      "rotating-keys",
		Title:     "Rotating keys",
		Content:   "## Why rotate\n\nOften.",
		Published: true,
	}, nil)
	articles.On("GetArticleBySlug", "draft").Return(&model.BlogArticle{ID: "a-2", Slug: "draft"}, nil)
	articles.On("GetArticleBySlug", "missing").Return(nil, store.ErrArticleNotFound)

	handler := handleGetArticle(articles)

	req := withMuxVars(httptest.NewRequest("GET", "/api/blog/rotating-keys", nil), map[string]string{"slug": "rotating-keys"})
	w := httptest.NewRecorder()
	handler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got ArticleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.HTML, `<h2 id="why-rotate">Why rotate</h2>`)
	require.Len(t, got.Headings, 1)
	assert.Equal(t, 2, got.Headings[0].Level)

	for _, slug := range []string{"draft", "missing"} {
		req := withMuxVars(httptest.NewRequest("GET", "/api/blog/"+slug, nil), map[string]string{"slug": slug})
		w := httptest.NewRecorder()
		handler(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, slug)
	}
}

func TestSaveArticle(t *testing.T) {
	t.Run("creates with a slug from the title", func(t *testing.T) {
		articles := &MockBlogStore{}
		articles.On("GetArticleBySlug", "secrets-in-ci").Return(nil, store.ErrArticleNotFound)
		articles.On("SaveArticle", mock.MatchedBy(func(a *model.BlogArticle) bool {
			return a.Slug == "secrets-in-ci" && a.AuthorID == "admin-1" && a.Excerpt != ""
		})).Return(nil)

		req := requestWithIdentity("POST", "/api/admin/blog", `{"title":"Secrets in CI","content":"Keep them out of logs."}`, "admin-1")
		w := httptest.NewRecorder()
		handleSaveArticle(articles)(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		articles.AssertExpectations(t)
	})

	t.Run("slug taken by another article", func(t *testing.T) {
		articles := &MockBlogStore{}
		articles.On("GetArticleBySlug", "hello").Return(&model.BlogArticle{ID: "a-1", Slug: "hello"}, nil)

		req := requestWithIdentity("POST", "/api/admin/blog", `{"title":"Hello","content":"x"}`, "admin-1")
		w := httptest.NewRecorder()
		handleSaveArticle(articles)(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		articles.AssertNotCalled(t, "SaveArticle", mock.Anything)
	})

	t.Run("updates the same article", func(t *testing.T) {
		articles := &MockBlogStore{}
		articles.On("GetArticleBySlug", "hello").Return(&model.BlogArticle{ID: "a-1", Slug: "hello"}, nil)
		articles.On("SaveArticle", mock.Anything).Return(nil)

		req := requestWithIdentity("POST", "/api/admin/blog", `{"id":"a-1","title":"Hello","content":"x","published":true}`, "admin-1")
		w := httptest.NewRecorder()
		handleSaveArticle(articles)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("title required", func(t *testing.T) {
		req := requestWithIdentity("POST", "/api/admin/blog", `{"content":"x"}`, "admin-1")
		w := httptest.NewRecorder()
		handleSaveArticle(&MockBlogStore{})(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteArticle(t *testing.T) {
	articles := &MockBlogStore{}
	articles.On("DeleteArticle", "a-1").Return(nil)
	articles.On("DeleteArticle", "a-9").Return(store.ErrArticleNotFound)

	req := withMuxVars(requestWithIdentity("DELETE", "/api/admin/blog/a-1", "", "admin-1"), map[string]string{"id": "a-1"})
	w := httptest.NewRecorder()
	handleDeleteArticle(articles)(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = withMuxVars(requestWithIdentity("DELETE", "/api/admin/blog/a-9", "", "admin-1"), map[string]string{"id": "a-9"})
	w = httptest.NewRecorder()
	handleDeleteArticle(articles)(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
