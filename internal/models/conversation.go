package models

import "time"

// Conversation pairs a user's submission with its corrected form and fluency score.
type Conversation struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	UserText      string    `json:"userText"`
	CorrectedText string    `json:"correctedText"`
	FluencyScore  int       `json:"fluencyScore"`
	CreatedAt     time.Time `json:"createdAt"`
	User          *User     `json:"user,omitempty"`
}
