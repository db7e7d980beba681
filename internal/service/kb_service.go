package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// KBService manages knowledge-base articles.
type KBService struct {
	articles repository.ArticleRepository
}

// NewKBService constructs the service.
func NewKBService(articles repository.ArticleRepository) *KBService {
	return &KBService{articles: articles}
}

// ArticleInput describes create/update payloads.
type ArticleInput struct {
	Title  string
	Body   string
	Tags   []string
	Status domain.ArticleStatus
}

// Create stores a new article.
func (s *KBService) Create(ctx context.Context, input ArticleInput) (*domain.Article, error) {
	status := input.Status
	if status == "" {
		status = domain.ArticleStatusDraft
	}
	article := &domain.Article{
		Title:  strings.TrimSpace(input.Title),
		Body:   input.Body,
		Tags:   input.Tags,
		Status: status,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Update replaces an article's content.
func (s *KBService) Update(ctx context.Context, id string, input ArticleInput) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("article", nil)
		}
		return nil, err
	}
	article.Title = strings.TrimSpace(input.Title)
	article.Body = input.Body
	article.Tags = input.Tags
	if input.Status != "" {
		article.Status = input.Status
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article.
func (s *KBService) Delete(ctx context.Context, id string) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("article", nil)
		}
		return err
	}
	return nil
}

// GetPublished returns a published article; drafts are invisible to
// readers, they exist only for editors.
func (s *KBService) GetPublished(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("article", nil)
		}
		return nil, err
	}
	if article.Status != domain.ArticleStatusPublished {
		return nil, errorutil.NewNotFound("article", nil)
	}
	return article, nil
}

// Search returns published articles matching the query, or the most recent
// published articles when the query is empty.
func (s *KBService) Search(ctx context.Context, query string, limit int) ([]domain.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.articles.ListPublished(ctx, limit)
	}
	return s.articles.Search(ctx, query, limit)
}
