package service

import (
	"context"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// Cache is an interface that abstracts cache operations
// This allows for easier testing and mocking
type Cache interface {
	SetSuggestions(ctx context.Context, key string, suggestions []models.Suggestion) error
	GetSuggestions(ctx context.Context, key string) ([]models.Suggestion, error)
	InvalidateSuggestions(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
