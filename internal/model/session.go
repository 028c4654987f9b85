package model

import "fmt"

// Role controls how the collaborator phrases explanations and chat answers.
type Role string

const (
	RolePatient   Role = "patient"
	RoleClinician Role = "clinician"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RolePatient, RoleClinician:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// ViewMode is the two-state view machine: browsing the report list, or
// looking at one report in detail.
type ViewMode string

const (
	ViewList   ViewMode = "list"
	ViewDetail ViewMode = "detail"
)

// Session is the full coordinator state as the presentation layer reads it.
// Invariants: Explanation and ChatThread are empty whenever ActiveDocument is
// nil, and ActiveDocument always references a document present in the store.
type Session struct {
	Role           Role          `json:"role"`
	ViewMode       ViewMode      `json:"view_mode"`
	ActiveDocument *Document     `json:"active_document,omitempty"`
	Explanation    *Explanation  `json:"explanation,omitempty"`
	ChatThread     []ChatMessage `json:"chat_thread"`
	ChatPending    bool          `json:"chat_pending"`
}

func (s Session) ActiveDocumentID() string {
	if s.ActiveDocument == nil {
		return ""
	}
	return s.ActiveDocument.ID
}

func NewSession() Session {
	return Session{
		Role:       RolePatient,
		ViewMode:   ViewList,
		ChatThread: []ChatMessage{},
	}
}
