package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sivi/internal/models"
	"sivi/internal/redis"
)

const promptCacheKey = "media:prompts"

// RandomPrompt picks one stored prompt uniformly at random.
// An empty prompt set yields ErrNoPrompts.
func (s *Service) RandomPrompt(ctx context.Context) (*models.MediaPrompt, error) {
	prompts, err := s.prompts(ctx)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, ErrNoPrompts
	}
	p := prompts[s.pick(len(prompts))]
	return &p, nil
}

// ImportPrompts validates and stores prompts in a single transaction.
func (s *Service) ImportPrompts(ctx context.Context, prompts []models.MediaPrompt) (int, error) {
	if len(prompts) == 0 {
		return 0, fmt.Errorf("%w: no prompts to import", ErrInvalidInput)
	}
	for i := range prompts {
		p := &prompts[i]
		p.Kind = models.PromptKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
		p.URL = strings.TrimSpace(p.URL)
		p.Prompt = strings.TrimSpace(p.Prompt)
		if !p.Kind.Valid() {
			return 0, fmt.Errorf("%w: prompt %d: kind must be image or video", ErrInvalidInput, i)
		}
		if p.URL == "" || p.Prompt == "" {
			return 0, fmt.Errorf("%w: prompt %d: url and prompt are required", ErrInvalidInput, i)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range prompts {
		p := &prompts[i]
		p.ID, err = s.db.InsertID(ctx, tx,
			`INSERT INTO media_prompts (kind, url, prompt) VALUES (?, ?, ?)`,
			string(p.Kind), p.URL, p.Prompt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert prompt %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prompts: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, promptCacheKey); err != nil {
			s.log.Warn().Err(err).Msg("invalidate prompt cache")
		}
	}
	return len(prompts), nil
}

func (s *Service) prompts(ctx context.Context) ([]models.MediaPrompt, error) {
	if s.cache != nil {
		if prompts, ok := s.cachedPrompts(ctx); ok {
			return prompts, nil
		}
	}
	prompts, err := s.listPrompts(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && len(prompts) > 0 {
		payload, err := json.Marshal(prompts)
		if err == nil {
			err = s.cache.Set(ctx, promptCacheKey, payload, s.cacheTTL)
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("store prompt cache")
		}
	}
	return prompts, nil
}

func (s *Service) cachedPrompts(ctx context.Context) ([]models.MediaPrompt, bool) {
	raw, err := s.cache.Get(ctx, promptCacheKey)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.log.Warn().Err(err).Msg("read prompt cache")
		}
		return nil, false
	}
	var prompts []models.MediaPrompt
	if err := json.Unmarshal(raw, &prompts); err != nil {
		s.log.Warn().Err(err).Msg("decode prompt cache")
		return nil, false
	}
	return prompts, len(prompts) > 0
}

func (s *Service) listPrompts(ctx context.Context) ([]models.MediaPrompt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, kind, url, prompt FROM media_prompts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []models.MediaPrompt
	for rows.Next() {
		var p models.MediaPrompt
		if err := rows.Scan(&p.ID, &p.Kind, &p.URL, &p.Prompt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}
