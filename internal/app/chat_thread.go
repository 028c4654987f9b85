package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

// FallbackReply is appended as the assistant turn when the collaborator
// cannot answer. Chat failures degrade the conversation, they never error.
const FallbackReply = "Sorry, I could not process your question. Please try again."

// ChatThreadManager owns the conversation for the active document. One
// request may be in flight at a time so the user/assistant ordering is never
// interleaved; the whole thread is discarded on document switch or logout.
// The thread is bound to a single document id and Submit refuses any other
// id, so a submission racing a document switch cannot append into the new
// document's thread.
type ChatThreadManager struct {
	api   Collaborator
	clock func() time.Time

	mu       sync.Mutex
	messages []model.ChatMessage
	inFlight bool
	epoch    uint64
	boundID  string
}

func NewChatThreadManager(api Collaborator) *ChatThreadManager {
	return &ChatThreadManager{api: api, clock: time.Now, messages: []model.ChatMessage{}}
}

// Messages returns a copy of the thread in order.
func (m *ChatThreadManager) Messages() []model.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Pending reports whether a request is outstanding for the current thread.
func (m *ChatThreadManager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// Bind discards the thread wholesale, starts a new epoch and scopes the
// fresh thread to documentID (empty means no document, rejecting all
// submissions). A reply still in flight for the old epoch is dropped at
// resolution time, even when the same document is selected again before it
// arrives.
func (m *ChatThreadManager) Bind(documentID string) {
	m.mu.Lock()
	m.epoch++
	m.messages = []model.ChatMessage{}
	m.inFlight = false
	m.boundID = documentID
	m.mu.Unlock()
}

// Submit appends the user message synchronously so it is visible at once,
// then resolves the answer in the background. stillActive is consulted when
// the response arrives: a reply whose document is no longer the active one is
// dropped, not appended. onResolved, if set, observes the finished exchange.
func (m *ChatThreadManager) Submit(ctx context.Context, documentID, question string, role model.Role, stillActive func(documentID string) bool, onResolved func(question, answer string, fallback bool)) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return ErrQuestionEmpty
	}

	m.mu.Lock()
	if documentID == "" || documentID != m.boundID {
		// The active document changed between the caller capturing its id
		// and this submission; appending here would leak the message into
		// another document's thread.
		m.mu.Unlock()
		return ErrNoActiveDocument
	}
	if m.inFlight {
		m.mu.Unlock()
		return ErrChatBusy
	}
	m.inFlight = true
	epoch := m.epoch
	m.messages = append(m.messages, model.ChatMessage{
		Role: model.ChatRoleUser,
		Text: question,
		Time: m.clock().Format("15:04"),
	})
	m.mu.Unlock()

	go func() {
		answer, err := m.api.Chat(ctx, documentID, question, role)
		fallback := false
		if err != nil {
			log.Printf("chat request for %s failed: %v", documentID, err)
			answer = FallbackReply
			fallback = true
		}

		// Checked before taking the thread lock: stillActive reaches back
		// into the session. Any deactivation after this point also resets
		// the thread, so the epoch check below still catches it.
		active := stillActive(documentID)

		m.mu.Lock()
		if epoch != m.epoch {
			// Thread was discarded while we waited; the reply belongs to a
			// conversation that no longer exists.
			m.mu.Unlock()
			return
		}
		m.inFlight = false
		if !active {
			m.mu.Unlock()
			return
		}
		m.messages = append(m.messages, model.ChatMessage{
			Role: model.ChatRoleAssistant,
			Text: answer,
			Time: m.clock().Format("15:04"),
		})
		m.mu.Unlock()

		if onResolved != nil {
			onResolved(question, answer, fallback)
		}
	}()
	return nil
}
