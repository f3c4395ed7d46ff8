package models

import "time"

// User is a learner who owns conversation records.
type User struct {
	ID            int64           `json:"id"`
	Username      string          `json:"username"`
	CreatedAt     time.Time       `json:"createdAt"`
	Conversations []*Conversation `json:"conversations,omitempty"`
}
