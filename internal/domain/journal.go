package domain

import "time"

type JournalEntry struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionID"`
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	Succeeded bool      `json:"succeeded"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
