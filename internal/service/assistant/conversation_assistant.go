package assistant

import (
	"context"
	"fmt"
	"strings"

	"sivi/internal/models"
	"sivi/internal/service/language"
)

// AddConversation corrects and scores text, then stores it for the user.
// The user must exist; nothing is written otherwise.
func (s *Service) AddConversation(ctx context.Context, userID int64, text string) (*models.Conversation, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: userText is required", ErrInvalidInput)
	}
	user, err := s.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	conv := models.Conversation{
		UserID:        user.ID,
		UserText:      text,
		CorrectedText: language.Correct(text),
		FluencyScore:  language.Score(text),
		CreatedAt:     s.now(),
		User:          user,
	}
	conv.ID, err = s.db.InsertID(ctx, s.db,
		`INSERT INTO conversations (user_id, user_text, corrected_text, fluency_score, created_at) VALUES (?, ?, ?, ?, ?)`,
		conv.UserID, conv.UserText, conv.CorrectedText, conv.FluencyScore, conv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	s.log.Debug().
		Int64("user_id", conv.UserID).
		Int64("conversation_id", conv.ID).
		Int("fluency_score", conv.FluencyScore).
		Msg("conversation stored")
	return &conv, nil
}

// History returns the user's conversations, most recent first.
// Unknown users simply have no history.
func (s *Service) History(ctx context.Context, userID int64) ([]*models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		s.db.Rebind(`SELECT id, user_id, user_text, corrected_text, fluency_score, created_at
		 FROM conversations WHERE user_id = ? ORDER BY created_at DESC, id DESC`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*models.Conversation, 0)
	for rows.Next() {
		c := new(models.Conversation)
		if err := rows.Scan(&c.ID, &c.UserID, &c.UserText, &c.CorrectedText, &c.FluencyScore, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}
