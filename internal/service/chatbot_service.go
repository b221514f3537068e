package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/models"
	appErrors "github.com/noah-isme/college-adp-api/pkg/errors"
)

const (
	faqEntriesCacheKey     = "chatbot:faq:entries"
	faqEntriesCachePattern = "chatbot:faq:*"
)

type faqRepository interface {
	List(ctx context.Context) ([]models.FAQEntry, error)
	FindByID(ctx context.Context, id string) (*models.FAQEntry, error)
	Create(ctx context.Context, entry *models.FAQEntry) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, entries []models.FAQEntry) error
}

// CreateFAQEntryRequest is the payload for adding one chatbot entry.
type CreateFAQEntryRequest struct {
	Question string             `json:"question" validate:"required,max=1000"`
	Answer   string             `json:"answer" validate:"required"`
	Category models.FAQCategory `json:"category" validate:"required"`
}

// ChatbotService answers questions from the stored FAQ bank.
type ChatbotService struct {
	repo      faqRepository
	tx        txProvider
	matcher   *Matcher
	cache     *CacheService
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatbotService constructs the chatbot service. cache may be nil.
func NewChatbotService(
	repo faqRepository,
	tx txProvider,
	matcher *Matcher,
	cache *CacheService,
	cacheTTL time.Duration,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ChatbotService {
	if matcher == nil {
		matcher = NewMatcher(DefaultMatcherConfig())
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatbotService{
		repo:      repo,
		tx:        tx,
		matcher:   matcher,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Ask runs the matcher for a free-text question.
func (s *ChatbotService) Ask(ctx context.Context, req models.ChatbotQuery) (*models.ChatbotReply, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "message is required")
	}
	if reply, ok := s.matcher.Greet(req.Message); ok {
		s.metrics.RecordChatbotReply(string(reply.Status), string(reply.Category))
		return &reply, false, nil
	}

	entries, cacheHit, err := s.entries(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chatbot entries")
	}

	reply := s.matcher.Match(req.Message, entries)
	s.metrics.RecordChatbotReply(string(reply.Status), string(reply.Category))
	s.logger.Debug("chatbot reply",
		zap.String("status", string(reply.Status)),
		zap.String("entry_id", reply.EntryID),
		zap.Float64("score", reply.Score),
	)
	return &reply, cacheHit, nil
}

// ListEntries returns stored entries, optionally restricted to one category.
func (s *ChatbotService) ListEntries(ctx context.Context, category string) ([]models.FAQEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list chatbot entries")
	}
	if category == "" {
		return entries, nil
	}
	filtered := make([]models.FAQEntry, 0, len(entries))
	for _, e := range entries {
		if string(e.Category) == category {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// CreateEntry appends an entry to the bank.
func (s *ChatbotService) CreateEntry(ctx context.Context, req CreateFAQEntryRequest) (*models.FAQEntry, error) {
	if err := s.validateEntry(req); err != nil {
		return nil, err
	}
	entry := &models.FAQEntry{
		Question: strings.TrimSpace(req.Question),
		Answer:   strings.TrimSpace(req.Answer),
		Category: req.Category,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create chatbot entry")
	}
	s.invalidate(ctx)
	return entry, nil
}

// DeleteEntry removes an entry from the bank.
func (s *ChatbotService) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "chatbot entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chatbot entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete chatbot entry")
	}
	s.invalidate(ctx)
	return nil
}

// Seed replaces the whole bank with entries in one transaction.
func (s *ChatbotService) Seed(ctx context.Context, entries []models.FAQEntry) (count int, err error) {
	for i := range entries {
		e := &entries[i]
		if err := s.validateEntry(CreateFAQEntryRequest{Question: e.Question, Answer: e.Answer, Category: e.Category}); err != nil {
			return 0, err
		}
		e.Position = i + 1
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.repo.ReplaceAll(ctx, tx, entries); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace chatbot entries")
	}
	if err = tx.Commit(); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit chatbot entries")
	}

	s.invalidate(ctx)
	s.logger.Info("chatbot entries seeded", zap.Int("count", len(entries)))
	return len(entries), nil
}

func (s *ChatbotService) entries(ctx context.Context) ([]models.FAQEntry, bool, error) {
	var cached []models.FAQEntry
	if hit, err := s.cache.Get(ctx, faqEntriesCacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, err
	}
	_ = s.cache.Set(ctx, faqEntriesCacheKey, entries, s.cacheTTL)
	return entries, false, nil
}

func (s *ChatbotService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, faqEntriesCachePattern)
}

func (s *ChatbotService) validateEntry(req CreateFAQEntryRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chatbot entry")
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Answer) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "question and answer are required")
	}
	if !req.Category.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown chatbot category")
	}
	return nil
}
