package repository

import (
	"context"
	"lunarwatch"

	"github.com/jmoiron/sqlx"
)

type Journal interface {
	EnsureSchema(ctx context.Context) error
	InsertCall(ctx context.Context, c *lunarwatch.UpstreamCall) (int64, error)
}

type Repository struct {
	Journal
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Journal: NewPostgres(db),
	}
}

// NewDiscardRepository is used when no database is configured.
func NewDiscardRepository() *Repository {
	return &Repository{
		Journal: discard{},
	}
}

type discard struct{}

func (discard) EnsureSchema(context.Context) error { return nil }

func (discard) InsertCall(context.Context, *lunarwatch.UpstreamCall) (int64, error) {
	return 0, nil
}
