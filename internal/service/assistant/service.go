package assistant

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"sivi/internal/storage"
)

var (
	// ErrInvalidInput marks a request rejected before any logic runs.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoPrompts is returned when the prompt set is empty.
	ErrNoPrompts = errors.New("no media prompts available")
)

// PromptCache stores snapshots of the prompt set. *redis.Client satisfies it.
type PromptCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Service handles users, conversation records and media prompts.
type Service struct {
	db       *storage.DB
	cache    PromptCache
	cacheTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
	pick     func(n int) int
}

type Option func(*Service)

// WithPromptCache serves RandomPrompt from cache snapshots that live for ttl.
func WithPromptCache(cache PromptCache, ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			ttl = time.Minute
		}
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPicker overrides the uniform index source used by RandomPrompt.
// pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

// NewService builds a new assistant service.
func NewService(db *storage.DB, opts ...Option) *Service {
	s := &Service{
		db:   db,
		log:  zerolog.Nop(),
		now:  func() time.Time { return time.Now().UTC() },
		pick: rand.Intn,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping verifies the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
