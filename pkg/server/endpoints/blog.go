package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/envault/envault/pkg/blog"
	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server"
	"github.com/envault/envault/pkg/server/store"
)

// ArticleSummary is an article without its body, for listings
type ArticleSummary struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ArticleResponse is a published article rendered to HTML
type ArticleResponse struct {
	ArticleSummary
	HTML     string         `json:"html"`
	Headings []blog.Heading `json:"headings"`
}

type saveArticleRequest struct {
	ID        string `json:"id"`
	Slug      string `json:"slug" validate:"max=200"`
	Title     string `json:"title" validate:"required,max=200"`
	Excerpt   string `json:"excerpt" validate:"max=1000"`
	Content   string `json:"content" validate:"required"`
	Published bool   `json:"published"`
}

// RegisterBlogEndpoints registers the public blog and its admin routes
func RegisterBlogEndpoints(s *server.Server) {
	articles := s.BlogStore

	s.Router.HandleFunc("/api/blog", handleListArticles(articles, true)).Methods("GET")
	s.Router.HandleFunc("/api/blog/{slug}", handleGetArticle(articles)).Methods("GET")

	admin := s.Admin()
	admin.HandleFunc("/blog", handleListArticles(articles, false)).Methods("GET")
	admin.HandleFunc("/blog", handleSaveArticle(articles)).Methods("POST")
	admin.HandleFunc("/blog/{id}", handleDeleteArticle(articles)).Methods("DELETE")
}

func summarize(a model.BlogArticle) ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
	}
}

func handleListArticles(articles store.BlogStore, publishedOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := articles.ListArticles(publishedOnly)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		response := make([]ArticleSummary, 0, len(list))
		for _, a := range list {
			response = append(response, summarize(a))
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleGetArticle(articles store.BlogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		article, err := articles.GetArticleBySlug(mux.Vars(r)["slug"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if !article.Published {
			respondWithStoreError(w, store.ErrArticleNotFound)
			return
		}

		html, err := blog.Render(article.Content)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		headings := blog.Headings(article.Content)
		if headings == nil {
			headings = []blog.Heading{}
		}
		respondWithJSON(w, http.StatusOK, ArticleResponse{
			ArticleSummary: summarize(*article),
			HTML:           html,
			Headings:       headings,
		})
	}
}

func handleSaveArticle(articles store.BlogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveArticleRequest
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		article := &model.BlogArticle{
			ID:        req.ID,
			Slug:      req.Slug,
			Title:     req.Title,
			Excerpt:   req.Excerpt,
			Content:   req.Content,
			AuthorID:  currentUser(r).UserID,
			Published: req.Published,
		}
		blog.Prepare(article)
		if article.Slug == "" {
			respondWithError(w, http.StatusBadRequest, "title must contain letters or digits")
			return
		}

		existing, err := articles.GetArticleBySlug(article.Slug)
		switch {
		case err == nil && existing.ID != article.ID:
			respondWithError(w, http.StatusConflict, "slug already in use")
			return
		case err == nil:
			article.CreatedAt = existing.CreatedAt
			article.PublishedAt = existing.PublishedAt
		case !errors.Is(err, store.ErrArticleNotFound):
			respondWithStoreError(w, err)
			return
		}

		code := http.StatusOK
		if article.ID == "" {
			code = http.StatusCreated
		}
		if err := articles.SaveArticle(article); err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, code, article)
	}
}

func handleDeleteArticle(articles store.BlogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := articles.DeleteArticle(mux.Vars(r)["id"]); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
