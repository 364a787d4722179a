// Package httpapi wires the Gin transport to the stylist services: the
// middleware chain, the service graph and the route table.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/catalog"
	"github.com/tbourn/go-stylist-backend/internal/config"
	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/grooming"
	"github.com/tbourn/go-stylist-backend/internal/http/handlers"
	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
	"github.com/tbourn/go-stylist-backend/internal/llm"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/services"
	"github.com/tbourn/go-stylist-backend/internal/style"
)

const maxBodyBytes = 1 << 20

// chatRepoShim adapts the repo free functions to services.ChatRepo.
type chatRepoShim struct{}

func (chatRepoShim) CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, title)
}

func (chatRepoShim) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (chatRepoShim) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (chatRepoShim) CountChats(ctx context.Context, db *gorm.DB, userID string, archived bool) (int64, error) {
	return repo.CountChats(ctx, db, userID, archived)
}

func (chatRepoShim) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, archived bool, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, archived, offset, limit)
}

func (chatRepoShim) SetChatArchived(ctx context.Context, db *gorm.DB, id, userID string, archived bool, at time.Time) error {
	return repo.SetChatArchived(ctx, db, id, userID, archived, at)
}

func (chatRepoShim) DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteChat(ctx, db, id, userID)
}

// Backends are the already-built dependencies of the API. Styles, Completer
// and Images may be nil: the catalog then looks empty, and turns fail with
// a configuration error or skip imagery. A nil Grooming table means the
// embedded one.
type Backends struct {
	DB         *gorm.DB
	Styles     catalog.Searcher
	Completer  llm.Completer
	Images     services.ImageGenerator
	Vocabulary *style.Vocabulary
	Grooming   *grooming.Table
}

// CORS headers the web client sends, plus the service's own.
var corsAllowHeaders = []string{
	"Authorization", "X-Client-Info", "Apikey", "Content-Type", "Origin", "Accept",
	middleware.HeaderUserID, middleware.HeaderIdempotencyKey, middleware.HeaderRequestID,
}

// RegisterRoutes installs the middleware chain and every route on r.
//
// Order:
//  1. OpenTelemetry
//  2. RequestID, Identity
//  3. Logger with redaction
//  4. Recovery (after the logger so panics carry the request logger)
//  5. CORS, security headers (ahead of every middleware that can reject)
//  6. Body limit, gzip
//  7. Metrics
//  8. Idempotency (ahead of the limiter so replays bypass it)
//  9. Rate limiter
func RegisterRoutes(r *gin.Engine, b Backends, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID(), middleware.Identity())
	r.Use(middleware.Logger(middleware.RedactOptions{}))
	r.Use(middleware.Recovery())
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Idempotency(middleware.IdempotencyOptions{MaxLen: 200}, replayLookup(b.DB)))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())


	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Deps{
		Chats:          services.NewChatService(b.DB, chatRepoShim{}),
		Messages:       newMessageService(b, cfg),
		Profiles:       &services.ProfileService{DB: b.DB},
		Feedback:       &services.FeedbackService{DB: b.DB},
		Grooming:       &services.GroomingService{DB: b.DB, Table: b.Grooming},
		Styles:         b.Styles,
		DB:             b.DB,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Stylist turn, web client envelope
		api.OPTIONS("/fashion-ai-chat", preflightOK)
		api.POST("/fashion-ai-chat", h.FashionChat)

		// Chats
		api.POST("/chats", h.CreateChat)
		api.GET("/chats", h.ListChats)
		api.PUT("/chats/:id/title", h.UpdateChatTitle)
		api.POST("/chats/:id/archive", h.ArchiveChat)
		api.POST("/chats/:id/restore", h.RestoreChat)
		api.DELETE("/chats/:id", h.DeleteChat)

		// Messages
		api.GET("/chats/:id/messages", h.ListMessages)
		api.POST("/chats/:id/messages", h.PostMessage)

		// Profile
		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.PutProfile)

		// Feedback
		api.POST("/messages/:id/feedback", h.LeaveFeedback)

		// Style catalog
		api.GET("/styles", h.ListStyles)
		api.GET("/styles/:slug", h.GetStyle)

		// Grooming advisor
		api.GET("/grooming", h.GetGrooming)
	}
}

func newMessageService(b Backends, cfg config.Config) *services.MessageService {
	return &services.MessageService{
		DB:              b.DB,
		Completer:       b.Completer,
		Images:          b.Images,
		Vocabulary:      b.Vocabulary,
		APIKey:          cfg.Completion.APIKey,
		Temperature:     cfg.Completion.Temperature,
		MaxTokens:       cfg.Completion.MaxTokens,
		MaxMessageRunes: cfg.Stylist.MaxMessageRunes,
		HistoryLimit:    cfg.Stylist.HistoryLimit,
		TitleLocale:     language.English,
		TitleMaxLen:     60,
	}
}

// replayLookup reports a hit only for an unexpired stored turn. Store
// errors count as a miss; the handler then runs the turn normally.
func replayLookup(db *gorm.DB) middleware.ReplayLookup {
	if db == nil {
		return nil
	}
	return func(ctx context.Context, userID, chatID, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, db, userID, chatID, key, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, repo.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

// corsMiddleware allows every origin when none are configured. Otherwise
// only listed origins are echoed back.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     corsAllowHeaders,
		ExposeHeaders:    []string{middleware.HeaderRequestID, "ETag", "Idempotency-Replayed", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// gin-contrib/cors ignores requests without Origin.
		star := func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		}
		return []gin.HandlerFunc{star, cors.New(base)}
	}

	base.AllowOrigins = origins
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	echo := func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	}
	return []gin.HandlerFunc{echo, cors.New(base)}
}

// preflightOK answers OPTIONS without an Origin header; real preflights are
// handled by the CORS middleware before this runs.
func preflightOK(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// limitBody caps request bodies at maxBytes. Reads past the cap fail.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
