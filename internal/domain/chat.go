package domain

import "time"

// ChatMessage is immutable once created; content is trimmed and
// length-bounded before construction.
type ChatMessage struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
