package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/catalog"
	"github.com/tbourn/go-stylist-backend/internal/config"
	"github.com/tbourn/go-stylist-backend/internal/grooming"
	httpapi "github.com/tbourn/go-stylist-backend/internal/http"
	"github.com/tbourn/go-stylist-backend/internal/imagegen"
	"github.com/tbourn/go-stylist-backend/internal/llm"
	"github.com/tbourn/go-stylist-backend/internal/observability"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/style"
	"github.com/tbourn/go-stylist-backend/internal/sysutil"
)

const (
	shutdownGrace = 20 * time.Second
	purgeEvery    = 10 * time.Minute
)

// serve runs the API until ctx is cancelled or the listener fails, then
// drains in-flight requests and flushes traces.
func serve(ctx context.Context, cfg config.Config) error {
	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, sysutil.Version())
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath, repo.Options{Trace: cfg.OTEL.Enabled})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	completer, err := llm.New(ctx, cfg.Completion)
	if err != nil {
		return fmt.Errorf("completion client: %w", err)
	}

	var styles catalog.Searcher
	if cat, err := catalog.Load(cfg.StylesPath); err != nil {
		log.Warn().Err(err).Str("path", cfg.StylesPath).Msg("style catalog not loaded, /styles will be empty")
	} else {
		styles = cat
		log.Info().Int("styles", len(cat.All())).Msg("style catalog loaded")
	}

	vocab := style.Default()
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Backends{
		DB:         db,
		Styles:     styles,
		Completer:  completer,
		Images:     imagegen.New(cfg.Image, vocab.GenericPrompt()),
		Vocabulary: vocab,
		Grooming:   grooming.Default(),
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("provider", cfg.Completion.Provider).
			Str("api_key", llm.RedactKey(cfg.Completion.APIKey)).
			Str("base_path", cfg.APIBasePath).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		purgeLoop(gctx, db, purgeEvery)
		return nil
	})
	return g.Wait()
}

// purgeLoop deletes expired idempotency records every interval until ctx
// is done.
func purgeLoop(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("idempotency records purged")
			}
		}
	}
}
