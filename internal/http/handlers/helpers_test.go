package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-stylist-backend/internal/catalog"
	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
	"github.com/tbourn/go-stylist-backend/internal/llm"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/services"
)

func init() { gin.SetMode(gin.TestMode) }

const testKey = "gsk_0123456789abcdefghij"

const testStyles = `# Styles

## Smart Casual

Relaxed tailoring for offices without a dress code.

- Unstructured blazer
- Chinos

Outfit: navy blazer, white oxford shirt, stone chinos, brown loafers

## Techwear

Technical fabrics and utility cuts for the city.

- Waterproof shell
- Cargo pants
`

// ---------- DB + repo shim ----------

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// chatRepo implements services.ChatRepo with the repo package, like the router does.
type chatRepo struct{}

func (chatRepo) CreateChat(ctx context.Context, db *gorm.DB, userID, title string) (*domain.Chat, error) {
	return repo.CreateChat(ctx, db, userID, title)
}

func (chatRepo) GetChat(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Chat, error) {
	return repo.GetChat(ctx, db, id, userID)
}

func (chatRepo) UpdateChatTitle(ctx context.Context, db *gorm.DB, id, userID, title string) error {
	return repo.UpdateChatTitle(ctx, db, id, userID, title)
}

func (chatRepo) CountChats(ctx context.Context, db *gorm.DB, userID string, archived bool) (int64, error) {
	return repo.CountChats(ctx, db, userID, archived)
}

func (chatRepo) ListChatsPage(ctx context.Context, db *gorm.DB, userID string, archived bool, offset, limit int) ([]domain.Chat, error) {
	return repo.ListChatsPage(ctx, db, userID, archived, offset, limit)
}

func (chatRepo) SetChatArchived(ctx context.Context, db *gorm.DB, id, userID string, archived bool, at time.Time) error {
	return repo.SetChatArchived(ctx, db, id, userID, archived, at)
}

func (chatRepo) DeleteChat(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteChat(ctx, db, id, userID)
}

// ---------- stubs ----------

// countingCompleter returns reply (or err) and counts calls.
type countingCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (c *countingCompleter) Complete(context.Context, llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.reply, c.err
}

func (c *countingCompleter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// stubTurns is a MessageService driven by a func.
type stubTurns struct {
	reply func(services.TurnRequest) (*services.TurnResult, error)
	got   []services.TurnRequest
}

func (s *stubTurns) Reply(_ context.Context, req services.TurnRequest) (*services.TurnResult, error) {
	s.got = append(s.got, req)
	return s.reply(req)
}

func (s *stubTurns) ListPage(context.Context, string, string, int, int) ([]domain.Message, int64, error) {
	return nil, 0, nil
}

// ---------- fixture ----------

type fixture struct {
	db        *gorm.DB
	completer *countingCompleter
	styles    *catalog.Catalog
	h         *Handlers
	r         *gin.Engine
}

// newFixture wires real services over an in-memory database. The completer
// always answers with reply.
func newFixture(t *testing.T, reply string) *fixture {
	t.Helper()
	db := newDB(t)
	cat, err := catalog.Parse(strings.NewReader(testStyles))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	comp := &countingCompleter{reply: reply}

	h := New(Deps{
		Chats: services.NewChatService(db, chatRepo{}),
		Messages: &services.MessageService{
			DB:              db,
			Completer:       comp,
			APIKey:          testKey,
			Temperature:     0.7,
			MaxTokens:       1000,
			MaxMessageRunes: 1000,
			HistoryLimit:    10,
		},
		Profiles: &services.ProfileService{DB: db},
		Feedback: &services.FeedbackService{DB: db},
		Grooming: &services.GroomingService{DB: db},
		Styles:   cat,
		DB:       db,
	})
	return &fixture{db: db, completer: comp, styles: cat, h: h, r: newRouter(h, db)}
}

// newRouter mounts every route behind the middleware the handlers rely on.
func newRouter(h *Handlers, db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Identity())

	var lookup middleware.ReplayLookup
	if db != nil {
		lookup = func(ctx context.Context, userID, chatID, key string, now time.Time) (bool, error) {
			_, err := repo.GetIdempotency(ctx, db, userID, chatID, key, now)
			if err != nil {
				return false, nil
			}
			return true, nil
		}
	}
	r.Use(middleware.Idempotency(middleware.IdempotencyOptions{}, lookup))

	r.POST("/fashion-ai-chat", h.FashionChat)
	r.POST("/chats", h.CreateChat)
	r.GET("/chats", h.ListChats)
	r.PUT("/chats/:id/title", h.UpdateChatTitle)
	r.POST("/chats/:id/archive", h.ArchiveChat)
	r.POST("/chats/:id/restore", h.RestoreChat)
	r.DELETE("/chats/:id", h.DeleteChat)
	r.POST("/chats/:id/messages", h.PostMessage)
	r.GET("/chats/:id/messages", h.ListMessages)
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile", h.PutProfile)
	r.POST("/messages/:id/feedback", h.LeaveFeedback)
	r.GET("/styles", h.ListStyles)
	r.GET("/styles/:slug", h.GetStyle)
	r.GET("/grooming", h.GetGrooming)
	return r
}

// ---------- request helpers ----------

func send(r http.Handler, method, path, user string, body any, hdr ...string) *httptest.ResponseRecorder {
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d; want %d; body=%s", w.Code, want, w.Body.String())
	}
}

func createChat(t *testing.T, f *fixture, user, title string) domain.Chat {
	t.Helper()
	w := send(f.r, http.MethodPost, "/chats", user, CreateChatRequest{Title: title})
	mustStatus(t, w, http.StatusCreated)
	return decode[domain.Chat](t, w)
}
