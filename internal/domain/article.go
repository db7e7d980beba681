package domain

import "time"

// ArticleStatus controls knowledge-base visibility.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Article is a knowledge-base document surfaced as a citation candidate.
type Article struct {
	ID        string
	Title     string
	Body      string
	Tags      []string
	Status    ArticleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
