package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestKBCreateDefaultsToDraft(t *testing.T) {
	svc := NewKBService(&memArticleRepo{})

	article, err := svc.Create(context.Background(), ArticleInput{Title: "  How refunds work ", Body: "b"})
	require.NoError(t, err)
	assert.NotEmpty(t, article.ID)
	assert.Equal(t, "How refunds work", article.Title)
	assert.Equal(t, domain.ArticleStatusDraft, article.Status)
}

func TestKBUpdateMissingArticle(t *testing.T) {
	svc := NewKBService(&memArticleRepo{})
	_, err := svc.Update(context.Background(), "ghost", ArticleInput{Title: "x"})
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestKBGetPublishedHidesDrafts(t *testing.T) {
	repo := &memArticleRepo{}
	svc := NewKBService(repo)

	draft, err := svc.Create(context.Background(), ArticleInput{Title: "Draft doc", Body: "b"})
	require.NoError(t, err)

	_, err = svc.GetPublished(context.Background(), draft.ID)
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)

	published, err := svc.Update(context.Background(), draft.ID, ArticleInput{
		Title: "Draft doc", Body: "b", Status: domain.ArticleStatusPublished,
	})
	require.NoError(t, err)

	got, err := svc.GetPublished(context.Background(), published.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleStatusPublished, got.Status)
}

func TestKBSearchEmptyQueryListsPublished(t *testing.T) {
	repo := &memArticleRepo{}
	svc := NewKBService(repo)
	for _, title := range []string{"A", "B"} {
		_, err := svc.Create(context.Background(), ArticleInput{Title: title, Body: "b", Status: domain.ArticleStatusPublished})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), ArticleInput{Title: "hidden", Body: "b"})
	require.NoError(t, err)

	got, err := svc.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestKBDeleteMissing(t *testing.T) {
	svc := NewKBService(&memArticleRepo{})
	err := svc.Delete(context.Background(), "ghost")
	var domainErr *errorutil.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
