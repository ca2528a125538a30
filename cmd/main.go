package main

import (
	"context"
	"errors"
	"log"
	"lunarwatch/pkg/config"
	"lunarwatch/pkg/consts"
	"lunarwatch/pkg/handler"
	"lunarwatch/pkg/metrics"
	"lunarwatch/pkg/nasa"
	repo "lunarwatch/pkg/repository"
	srvc "lunarwatch/pkg/service"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %s", err.Error())
	}

	logrus.SetLevel(cfg.LogLevel)

	if cfg.NasaKey == "" {
		logrus.Warnf("%s is not set, proxied routes will answer with a config error", consts.NasaKey)
	}

	repos, db := openJournal(cfg)

	m := metrics.New()
	client := nasa.NewClient(cfg.BaseURL, cfg.NasaKey, cfg.Timeout)
	services := srvc.NewService(client, repos, m)
	handlers := handler.NewHandler(services, m, cfg.CorsOrigins)

	srv := new(server)
	if err := srv.Listen(cfg.Port, cfg.Timeout); err != nil {
		logrus.Fatalf("failed to start server: %s", err.Error())
	}

	logrus.Infof("lunarwatch listening on port %s", cfg.Port)

	go func() {
		if err := srv.Serve(handlers.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("lunarwatch shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}

	services.Close()

	if db != nil {
		if err := db.Close(); err != nil {
			logrus.Errorf("error occured on db connection close: %s", err.Error())
		}
	}
}

// openJournal connects the call journal. The gateway keeps serving without
// it when the database is unreachable.
func openJournal(cfg *config.Config) (*repo.Repository, *sqlx.DB) {

	if !cfg.JournalEnabled() {
		return repo.NewDiscardRepository(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repo.NewPostgresDB(ctx, cfg.DB)
	if err != nil {
		logrus.Errorf("failed to initialize journal db, journal disabled: %s", err.Error())
		return repo.NewDiscardRepository(), nil
	}

	repos := repo.NewRepository(db)
	if err := repos.EnsureSchema(ctx); err != nil {
		logrus.Errorf("failed to prepare journal table, journal disabled: %s", err.Error())
		db.Close()
		return repo.NewDiscardRepository(), nil
	}

	logrus.Infof("upstream call journal enabled on %s:%s", cfg.DB.Host, cfg.DB.Port)
	return repos, db
}

type server struct {
	httpSrv  *http.Server
	listener net.Listener
}

// Listen binds the port so a bind failure surfaces before serving starts.
func (s *server) Listen(port string, upstreamTimeout time.Duration) error {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}

	s.listener = ln
	s.httpSrv = &http.Server{
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      upstreamTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}

	return nil
}

func (s *server) Serve(h http.Handler) error {
	s.httpSrv.Handler = h
	return s.httpSrv.Serve(s.listener)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
