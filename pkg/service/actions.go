package service

import (
	"context"
	"errors"
	"fmt"
	"lunarwatch"
	"lunarwatch/pkg/consts"
	"lunarwatch/pkg/metrics"
	"lunarwatch/pkg/nasa"
	"lunarwatch/pkg/repository"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	journalTimeout = 2 * time.Second
	journalQueue   = 256
)

type Upstream interface {
	HasKey() bool
	Get(ctx context.Context, path string, params map[string]string) (*nasa.Response, error)
}

// NasaService proxies to NASA. Journal rows go through a bounded queue
// drained by one worker; a row that does not fit is dropped.
type NasaService struct {
	client  Upstream
	journal repository.Journal
	metrics *metrics.Metrics
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	calls  chan *lunarwatch.UpstreamCall
	done   chan struct{}
}

func NewNasaService(client Upstream, journal repository.Journal, m *metrics.Metrics) *NasaService {
	return newNasaService(client, journal, m, journalQueue)
}

func newNasaService(client Upstream, journal repository.Journal, m *metrics.Metrics, queue int) *NasaService {
	s := &NasaService{
		client:  client,
		journal: journal,
		metrics: m,
		now:     time.Now,
		calls:   make(chan *lunarwatch.UpstreamCall, queue),
		done:    make(chan struct{}),
	}

	go s.drain()

	return s
}

// Close stops taking journal rows and waits for the queued ones to be written.
func (s *NasaService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.calls)
	}
	s.mu.Unlock()

	<-s.done
}

func (s *NasaService) drain() {
	defer close(s.done)

	for call := range s.calls {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		if _, err := s.journal.InsertCall(ctx, call); err != nil {
			logrus.WithField("route", call.Route).Errorf("failed to journal upstream call: %q", err)
		}
		cancel()
	}
}

func (s *NasaService) Apod(ctx context.Context, date string) ([]byte, error) {
	return s.fetch(ctx, consts.RouteApod, nasa.PathApod, map[string]string{
		consts.ParamDate: date,
	})
}

func (s *NasaService) RoverPhotos(ctx context.Context, rover, sol, camera string) ([]byte, error) {
	return s.fetch(ctx, consts.RouteRover, fmt.Sprintf(nasa.PathRoverPhotos, url.PathEscape(rover)), map[string]string{
		consts.ParamSol:    sol,
		consts.ParamCamera: camera,
	})
}

func (s *NasaService) AsteroidFeed(ctx context.Context, start, end string) ([]byte, error) {
	return s.fetch(ctx, consts.RouteFeed, nasa.PathFeed, map[string]string{
		consts.ParamStartDate: start,
		consts.ParamEndDate:   end,
	})
}

func (s *NasaService) AsteroidLookup(ctx context.Context, id string) ([]byte, error) {
	return s.fetch(ctx, consts.RouteLookup, fmt.Sprintf(nasa.PathLookup, url.PathEscape(id)), nil)
}

func (s *NasaService) AsteroidBrowse(ctx context.Context, page, size string) ([]byte, error) {
	return s.fetch(ctx, consts.RouteBrowse, nasa.PathBrowse, map[string]string{
		consts.ParamPage: page,
		consts.ParamSize: size,
	})
}

// fetch makes the one upstream call of a request and records it
func (s *NasaService) fetch(ctx context.Context, route, path string, params map[string]string) ([]byte, error) {

	if !s.client.HasKey() {
		return nil, ErrMissingAPIKey
	}

	start := s.now()
	resp, err := s.client.Get(ctx, path, params)
	elapsed := s.now().Sub(start)

	if s.metrics != nil {
		s.metrics.Observe(route, outcome(err), elapsed)
	}
	s.record(route, resp, err, start, elapsed)

	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

func (s *NasaService) record(route string, resp *nasa.Response, err error, at time.Time, elapsed time.Duration) {

	call := &lunarwatch.UpstreamCall{
		Route:      route,
		DurationMs: elapsed.Milliseconds(),
		Failed:     err != nil,
		CalledAt:   at.UTC(),
	}
	if resp != nil {
		call.UpstreamPath = resp.Path
		call.Status = resp.StatusCode
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.calls <- call:
	default:
		if s.metrics != nil {
			s.metrics.JournalDropped.Inc()
		}
		logrus.WithField("route", route).Warn("journal queue full, upstream call not journaled")
	}
}

func outcome(err error) string {
	var ue *nasa.UpstreamError

	switch {
	case err == nil:
		return metrics.OutcomeOK
	case nasa.IsNotFound(err):
		return metrics.OutcomeNotFound
	case errors.As(err, &ue):
		return metrics.OutcomeUpstreamError
	case errors.Is(err, nasa.ErrMalformedBody):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeTransportError
	}
}
