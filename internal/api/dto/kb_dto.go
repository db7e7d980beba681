package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ArticleRequest payload for create/update.
type ArticleRequest struct {
	Title  string               `json:"title"`
	Body   string               `json:"body"`
	Tags   []string             `json:"tags"`
	Status domain.ArticleStatus `json:"status"`
}

// ArticleResponse serializes an article.
type ArticleResponse struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	Tags      []string             `json:"tags"`
	Status    domain.ArticleStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ArticleFromDomain maps an article to its response form.
func ArticleFromDomain(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Tags:      a.Tags,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
