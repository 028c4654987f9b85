package model

import "time"

// TranscriptEntry is one resolved chat exchange kept for audit. Fallback marks
// exchanges answered by the canned apology instead of the collaborator.
type TranscriptEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SessionID  string    `gorm:"size:64;not null;index" json:"session_id"`
	DocumentID string    `gorm:"size:64;not null;index" json:"document_id"`
	Role       string    `gorm:"size:16;not null" json:"role"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	Fallback   bool      `gorm:"not null" json:"fallback"`
	CreatedAt  time.Time `json:"created_at"`
}
