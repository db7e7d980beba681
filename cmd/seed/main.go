// Command seed populates a development database with demo accounts and
// published knowledge-base articles so the triage pipeline has something to
// cite.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	users := repository.NewUserRepository(pg.PoolHandle())
	articles := repository.NewArticleRepository(pg.PoolHandle())

	seedUsers := []struct {
		name  string
		email string
		role  domain.UserRole
	}{
		{"Admin", "admin@example.com", domain.RoleAdmin},
		{"Agent Smith", "agent@example.com", domain.RoleAgent},
		{"Demo User", "user@example.com", domain.RoleUser},
	}
	for _, su := range seedUsers {
		if _, err := users.GetByEmail(ctx, su.email); err == nil {
			continue
		}
		hash, err := auth.HashPassword("password123", cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("hash password", zap.Error(err))
		}
		user := &domain.User{Name: su.name, Email: su.email, PasswordHash: hash, Role: su.role}
		if err := users.Create(ctx, user); err != nil {
			logger.Fatal("seed user", zap.Error(err), zap.String("email", su.email))
		}
		logger.Info("seeded user", zap.String("email", su.email), zap.String("role", string(su.role)))
	}

	seedArticles := []domain.Article{
		{
			Title:  "How refunds work",
			Body:   "Refunds are processed within 5 business days of approval. Double charges are reversed automatically once flagged.",
			Tags:   []string{"billing", "refund"},
			Status: domain.ArticleStatusPublished,
		},
		{
			Title:  "Troubleshooting application errors",
			Body:   "Collect the error message and a timestamp. Most 500 responses resolve after clearing the session and retrying.",
			Tags:   []string{"tech"},
			Status: domain.ArticleStatusPublished,
		},
		{
			Title:  "Tracking your shipment",
			Body:   "Every shipment gets a tracking number within 24 hours of dispatch. Courier updates can lag by a few hours.",
			Tags:   []string{"shipping"},
			Status: domain.ArticleStatusPublished,
		},
	}
	for i := range seedArticles {
		if err := articles.Create(ctx, &seedArticles[i]); err != nil {
			logger.Fatal("seed article", zap.Error(err), zap.String("title", seedArticles[i].Title))
		}
		logger.Info("seeded article", zap.String("title", seedArticles[i].Title))
	}
}
