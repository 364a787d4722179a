// Package services – MessageService
//
// This file implements MessageService, which owns chat turns and message
// history. Reply runs one stylist turn as a strictly sequential chain:
//
//	validate → credentials → chat lookup → store user message → profile →
//	recent history → system prompt → completion → [outfit image] →
//	[virtual try-on] → resolve image → store assistant message → return
//
// Failures before the completion returns are hard errors (see errors.go).
// Image and try-on failures only change the appended note. A failed
// assistant insert is logged and reported through TurnResult.Persisted.
//
// The chain is detached from the caller's cancellation: once started, a
// client disconnect does not abort it. Only the image probe has a timeout.
//
// Optional enhancement: the first turn of a chat that still carries the
// default title renames it after the user's message.
package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-stylist-backend/internal/domain"
	"github.com/tbourn/go-stylist-backend/internal/imagegen"
	"github.com/tbourn/go-stylist-backend/internal/llm"
	"github.com/tbourn/go-stylist-backend/internal/observability"
	"github.com/tbourn/go-stylist-backend/internal/repo"
	"github.com/tbourn/go-stylist-backend/internal/style"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Image kinds, as reported in metrics.
const (
	kindOutfit = "outfit"
	kindTryOn  = "try-on"
)

// ImageGenerator renders outfit and try-on pictures. A returned error means
// the attempt could not be made at all; a Result without URL means it was
// made and produced nothing usable.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (imagegen.Result, error)
	TryOn(ctx context.Context, prompt string) (imagegen.Result, error)
}

// TurnRequest is one inbound chat message.
type TurnRequest struct {
	// UserID, when set, must own the chat. The public chat endpoint leaves it
	// empty and addresses the chat by id alone.
	UserID string
	ChatID string

	Message  string
	ImageURL string // picture supplied by the caller, passed through

	GenerateImage bool

	VirtualTryOn   bool
	UserPhotoURL   string
	OutfitPhotoURL string
}

// TurnResult is what a completed turn produced.
type TurnResult struct {
	ChatID      string
	UserMessage *domain.Message
	// Assistant is the stored reply, or an unsaved copy when Persisted is false.
	Assistant *domain.Message
	Reply     string

	// ImageURL is the generated outfit image, else the caller's image.
	ImageURL *string
	TryOnURL *string

	// Image and TryOn are nil when not requested.
	Image *imagegen.Result
	TryOn *imagegen.Result

	Persisted bool
}

// MessageService coordinates message persistence and the stylist turn.
type MessageService struct {
	DB         *gorm.DB
	Completer  llm.Completer
	Images     ImageGenerator
	Vocabulary *style.Vocabulary

	// APIKey is re-checked before every turn.
	APIKey      string
	Temperature float64
	MaxTokens   int

	MaxMessageRunes int
	HistoryLimit    int

	// Title generation config
	TitleLocale language.Tag
	TitleMaxLen int

	Now func() time.Time
}

// Reply runs one chat turn. See the file comment for the order of steps.
func (s *MessageService) Reply(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	ctx = context.WithoutCancel(ctx)

	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Reply",
		trace.WithAttributes(
			attribute.String("chat.id", req.ChatID),
			attribute.String("user.id", req.UserID),
			attribute.Bool("turn.generate_image", req.GenerateImage),
			attribute.Bool("turn.virtual_try_on", req.VirtualTryOn),
		),
	)
	defer span.End()

	lg := loggerFrom(ctx).With().Str("chat_id", req.ChatID).Logger()

	res, outcome, err := s.reply(ctx, &lg, req)
	observability.ObserveTurn(outcome)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	span.SetAttributes(attribute.Bool("turn.persisted", res.Persisted))
	return res, nil
}

func (s *MessageService) reply(ctx context.Context, lg *zerolog.Logger, req TurnRequest) (*TurnResult, string, error) {
	// 1) Validate input.
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, observability.OutcomeInvalid, ErrEmptyPrompt
	}
	if s.MaxMessageRunes > 0 && utf8.RuneCountInString(msg) > s.MaxMessageRunes {
		msg = string([]rune(msg)[:s.MaxMessageRunes])
	}
	chatID := strings.TrimSpace(req.ChatID)
	if chatID == "" || uuid.Validate(chatID) != nil {
		return nil, observability.OutcomeInvalid, ErrInvalidChatID
	}

	// 2) Credentials.
	if err := llm.ValidateKey(s.APIKey); err != nil || s.Completer == nil {
		lg.Error().Str("api_key", llm.RedactKey(s.APIKey)).Msg("completion credential missing or invalid")
		return nil, observability.OutcomeMisconfigured, ErrMisconfigured
	}

	// 3) Chat lookup.
	chat, err := s.lookupChat(ctx, req.UserID, chatID)
	if err != nil {
		if isNotFound(err) {
			return nil, observability.OutcomeNotFound, ErrChatNotFound
		}
		return nil, observability.OutcomeInternal, fmt.Errorf("load chat: %w", err)
	}

	// 4) Store the user's message. Nothing external has been called yet.
	userMsg, err := repo.CreateMessage(ctx, s.DB, chatID, domain.RoleUser, msg, nil)
	if err != nil {
		lg.Error().Err(err).Msg("user message insert failed")
		return nil, observability.OutcomePersistFailed, fmt.Errorf("%w: %v", ErrPersistUserMessage, err)
	}

	// 5) Profile, best effort.
	profile, err := repo.GetProfile(ctx, s.DB, chat.UserID)
	if err != nil {
		if !isNotFound(err) {
			lg.Warn().Err(err).Msg("profile lookup failed, continuing without it")
		}
		profile = nil
	}

	// 6) Recent history, oldest first, ending with this message.
	history, err := s.history(ctx, chatID, userMsg)
	if err != nil {
		lg.Warn().Err(err).Msg("history lookup failed, continuing with the new message only")
		history = []llm.Message{{Role: llm.RoleUser, Content: userMsg.Content}}
	}

	// 7) + 8) Prompt and completion.
	draft, err := s.complete(ctx, style.SystemPrompt(profile), history)
	if err != nil {
		lg.Error().Err(err).Msg("completion failed")
		return nil, observability.OutcomeUpstreamFailed, fmt.Errorf("%w: %v", ErrCompletionUnavailable, err)
	}

	out := &TurnResult{ChatID: chatID, UserMessage: userMsg}

	// 9) Outfit image, best effort.
	var generated string
	if req.GenerateImage && s.Images != nil {
		r, note := s.outfitImage(ctx, lg, draft)
		draft += note
		out.Image = &r
		generated = r.URL
	}

	// 10) Virtual try-on, best effort. Only with both photos present.
	var tryOn string
	if req.VirtualTryOn && req.UserPhotoURL != "" && req.OutfitPhotoURL != "" && s.Images != nil {
		r, note := s.tryOnImage(ctx, lg, draft)
		draft += note
		out.TryOn = &r
		tryOn = r.URL
	}

	// 11) Resolve the stored image: try-on, else generated, else caller's.
	stored := firstNonEmpty(tryOn, generated, req.ImageURL)
	out.Reply = draft
	out.ImageURL = strPtr(firstNonEmpty(generated, req.ImageURL))
	out.TryOnURL = strPtr(tryOn)

	// 12) Store the reply and bump the chat.
	asst, err := s.persistReply(ctx, chat, msg, draft, strPtr(stored))
	if err != nil {
		lg.Error().Err(err).Msg("assistant message insert failed, returning reply unsaved")
		out.Assistant = &domain.Message{
			ChatID:    chatID,
			Role:      domain.RoleAssistant,
			Content:   draft,
			ImageURL:  strPtr(stored),
			CreatedAt: s.now(),
		}
		return out, observability.OutcomeNotPersisted, nil
	}
	out.Assistant = asst
	out.Persisted = true
	return out, observability.OutcomeOK, nil
}

func (s *MessageService) lookupChat(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	if userID != "" {
		return repo.GetChat(ctx, s.DB, chatID, userID)
	}
	return repo.FindChat(ctx, s.DB, chatID)
}

// history returns up to HistoryLimit prior messages plus the new one.
func (s *MessageService) history(ctx context.Context, chatID string, current *domain.Message) ([]llm.Message, error) {
	limit := s.HistoryLimit
	var prior []domain.Message
	if limit > 0 {
		recent, err := repo.RecentMessages(ctx, s.DB, chatID, limit+1)
		if err != nil {
			return nil, err
		}
		for _, m := range recent {
			if m.ID != current.ID {
				prior = append(prior, m)
			}
		}
		if len(prior) > limit {
			prior = prior[len(prior)-limit:]
		}
	}

	out := make([]llm.Message, 0, len(prior)+1)
	for _, m := range prior {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return append(out, llm.Message{Role: llm.RoleUser, Content: current.Content}), nil
}

func (s *MessageService) complete(ctx context.Context, system string, history []llm.Message) (string, error) {
	ctx, span := otel.Tracer("services/MessageService").Start(ctx, "complete",
		trace.WithAttributes(attribute.Int("history.len", len(history))))
	defer span.End()

	start := time.Now()
	text, err := s.Completer.Complete(ctx, llm.Request{
		System:      system,
		History:     history,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
	observability.ObserveCompletion(time.Since(start))
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return style.EmptyReply, nil
	}
	return text, nil
}

// outfitImage renders the primary outfit of draft and picks the note that
// goes with the outcome.
func (s *MessageService) outfitImage(ctx context.Context, lg *zerolog.Logger, draft string) (imagegen.Result, string) {
	ctx, span := otel.Tracer("services/MessageService").Start(ctx, "outfitImage")
	defer span.End()

	r, err := s.Images.Generate(ctx, s.vocabulary().ImagePrompt(draft))
	if err != nil {
		lg.Warn().Err(err).Msg("outfit image failed")
		r = imagegen.Result{Status: imagegen.StatusDegraded, Reason: err.Error()}
		observability.ObserveImage(kindOutfit, string(r.Status))
		span.SetAttributes(attribute.String("image.status", string(r.Status)))
		return r, style.NoteImageFailed
	}
	observability.ObserveImage(kindOutfit, string(r.Status))
	span.SetAttributes(attribute.String("image.status", string(r.Status)))
	if !r.OK() {
		return r, style.NoteImageMissing
	}
	return r, style.NoteImageReady
}

// tryOnImage renders the virtual try-on from the keywords of draft.
func (s *MessageService) tryOnImage(ctx context.Context, lg *zerolog.Logger, draft string) (imagegen.Result, string) {
	ctx, span := otel.Tracer("services/MessageService").Start(ctx, "tryOnImage")
	defer span.End()

	r, err := s.Images.TryOn(ctx, s.vocabulary().TryOnPrompt(draft))
	if err != nil {
		lg.Warn().Err(err).Msg("virtual try-on failed")
		r = imagegen.Result{Status: imagegen.StatusDegraded, Reason: err.Error()}
	}
	observability.ObserveImage(kindTryOn, string(r.Status))
	span.SetAttributes(attribute.String("image.status", string(r.Status)))
	if !r.OK() {
		return r, style.NoteTryOnFailed
	}
	return r, style.NoteTryOnReady
}

// persistReply stores the assistant message, bumps the chat and, on the
// first turn of a default-titled chat, renames it. One transaction.
func (s *MessageService) persistReply(ctx context.Context, chat *domain.Chat, prompt, reply string, imageURL *string) (*domain.Message, error) {
	var asst *domain.Message
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateMessage(ctx, tx, chat.ID, domain.RoleAssistant, reply, imageURL)
		if err != nil {
			return err
		}
		asst = m

		if err := repo.TouchChat(ctx, tx, chat.ID, s.now()); err != nil {
			return err
		}

		if s.shouldAutoTitle(chat.Title) {
			if gen := s.clipTitle(s.generateTitleFromPrompt(prompt)); gen != "" {
				if uerr := tx.Model(&domain.Chat{}).Where("id = ?", chat.ID).UpdateColumn("title", gen).Error; uerr == nil {
					chat.Title = gen
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return asst, nil
}

// ListPage returns paginated messages for a chat owned by userID, oldest
// first.
func (s *MessageService) ListPage(ctx context.Context, userID, chatID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("chat.id", chatID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetChat(ctx, s.DB, chatID, userID); err != nil {
		if isNotFound(err) {
			return nil, 0, ErrChatNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountMessages(ctx, s.DB, chatID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(ctx, s.DB, chatID, offset, pageSize)
	return items, total, err
}

func (s *MessageService) vocabulary() *style.Vocabulary {
	if s.Vocabulary != nil {
		return s.Vocabulary
	}
	return style.Default()
}

func (s *MessageService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// shouldAutoTitle reports whether the current title is a placeholder.
func (s *MessageService) shouldAutoTitle(current string) bool {
	t := strings.TrimSpace(current)
	return t == "" || strings.EqualFold(t, domain.DefaultChatTitle)
}

// generateTitleFromPrompt derives a concise title from the prompt.
func (s *MessageService) generateTitleFromPrompt(prompt string) string {
	toks := titleWordRE.FindAllString(strings.ToLower(strings.TrimSpace(prompt)), -1)
	if len(toks) == 0 {
		return ""
	}

	titleCaser := cases.Title(s.TitleLocaleOrDefault())
	out := make([]string, 0, 6)
	for _, w := range toks {
		if _, skip := titleStopWords[w]; skip {
			continue
		}
		out = append(out, titleCaser.String(w))
		if len(out) >= 6 {
			break
		}
	}
	return strings.Join(out, " ")
}

// clipTitle truncates a generated title to the configured maximum rune length.
func (s *MessageService) clipTitle(title string) string {
	max := s.TitleMaxLen
	if max <= 0 {
		max = 60
	}
	if utf8.RuneCountInString(title) > max {
		return strings.TrimSpace(string([]rune(title)[:max]))
	}
	return title
}

// TitleLocaleOrDefault returns the configured locale for casing or English if unset.
func (s *MessageService) TitleLocaleOrDefault() language.Tag {
	if s.TitleLocale == language.Und {
		return language.English
	}
	return s.TitleLocale
}

// Letters with optional trailing digits, e.g. "90s".
var titleWordRE = regexp.MustCompile(`[\p{L}]+[\p{N}]*|[\p{N}]+[\p{L}]*`)

// Stop-words dropped from generated titles.
var titleStopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {}, "in": {},
	"is": {}, "are": {}, "for": {}, "on": {}, "with": {}, "by": {}, "from": {},
	"at": {}, "as": {}, "that": {}, "this": {}, "it": {}, "be": {}, "i": {}, "me": {},
	"my": {}, "should": {}, "what": {}, "how": {}, "can": {}, "do": {}, "you": {},
}

// loggerFrom returns the request-scoped logger, or the global one.
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
