package service

import (
	"context"
	"errors"
	"lunarwatch/pkg/metrics"
	"lunarwatch/pkg/nasa"
	"lunarwatch/pkg/repository"
)

// ErrMissingAPIKey means the gateway was started without a NASA key.
var ErrMissingAPIKey = errors.New("nasa api key is not configured")

// Gateway methods return the upstream body untouched.
type Gateway interface {
	Apod(ctx context.Context, date string) ([]byte, error)
	RoverPhotos(ctx context.Context, rover, sol, camera string) ([]byte, error)
	AsteroidFeed(ctx context.Context, start, end string) ([]byte, error)
	AsteroidLookup(ctx context.Context, id string) ([]byte, error)
	AsteroidBrowse(ctx context.Context, page, size string) ([]byte, error)
	// Close flushes pending journal rows.
	Close()
}

type Service struct {
	Gateway
}

func NewService(client *nasa.Client, repos *repository.Repository, m *metrics.Metrics) *Service {
	return &Service{
		Gateway: NewNasaService(client, repos.Journal, m),
	}
}
