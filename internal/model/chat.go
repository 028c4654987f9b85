package model

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one entry of the per-document conversation. Time is already
// display-formatted; callers never need the raw timestamp back.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
	Time string `json:"time"`
}
