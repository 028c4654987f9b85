package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

// Flag keys kept in the external key-value store. Nothing in the coordinator
// depends on their persistence beyond surviving a gateway restart.
const (
	FlagLoggedIn = "isLoggedIn"
	FlagEmail    = "userEmail"
	FlagRole     = "userRole"
)

// FlagStore is the external key-value store for session flags.
type FlagStore interface {
	Set(ctx context.Context, sessionID, key, value string) error
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Clear(ctx context.Context, sessionID string) error
}

// SessionController owns the session state for one logged-in gateway session
// and sequences the document store, explanation fetcher and chat thread in
// response to user intents. All state transitions happen under one mutex,
// standing in for the single-threaded event loop of a browser client;
// collaborator calls that the original suspends on run either inline
// (refresh, delete, upload) or on goroutines guarded by the generation and
// epoch checks (explanation, chat).
type SessionController struct {
	id          string
	api         Collaborator
	store       *DocumentStore
	fetcher     *ExplanationFetcher
	chat        *ChatThreadManager
	flags       FlagStore
	transcripts TranscriptPublisher

	mu      sync.Mutex
	session model.Session
}

func NewSessionController(id string, api Collaborator, flags FlagStore, transcripts TranscriptPublisher) *SessionController {
	return &SessionController{
		id:          id,
		api:         api,
		store:       NewDocumentStore(api),
		fetcher:     NewExplanationFetcher(api),
		chat:        NewChatThreadManager(api),
		flags:       flags,
		transcripts: transcripts,
		session:     model.NewSession(),
	}
}

func (c *SessionController) ID() string { return c.id }

// Watcher returns the reconciliation hook for this session.
func (c *SessionController) Watcher() *ReconciliationWatcher {
	return &ReconciliationWatcher{controller: c}
}

// Login records the logged-in flags and returns the effective email.
// Credentials are not verified here; the login flow only marks the session as
// established.
func (c *SessionController) Login(ctx context.Context, email string) (string, error) {
	if email == "" {
		email = "demo@carebridge.ai"
	}
	if err := c.flags.Set(ctx, c.id, FlagLoggedIn, "true"); err != nil {
		return "", fmt.Errorf("record login flag: %w", err)
	}
	if err := c.flags.Set(ctx, c.id, FlagEmail, email); err != nil {
		return "", fmt.Errorf("record email flag: %w", err)
	}
	return email, nil
}

// RestoreFlags reapplies the persisted role after a controller is rebuilt
// from the flag store. Document and chat state is not persisted; the session
// restarts at the list view the way a freshly loaded client does.
func (c *SessionController) RestoreFlags(ctx context.Context) {
	raw, ok, err := c.flags.Get(ctx, c.id, FlagRole)
	if err != nil || !ok {
		return
	}
	role, err := model.ParseRole(raw)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.session.Role = role
	c.mu.Unlock()
}

// SetRole switches the viewing role. An active document keeps its selection
// and chat thread but has its explanation re-fetched for the new role;
// explanations are never reused across roles.
func (c *SessionController) SetRole(ctx context.Context, raw string) error {
	role, err := model.ParseRole(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRole, err)
	}

	c.mu.Lock()
	c.session.Role = role
	if c.session.ActiveDocument != nil {
		c.session.Explanation = nil
		c.fetchExplanationLocked(c.session.ActiveDocument.ID)
	}
	c.mu.Unlock()

	if err := c.flags.Set(ctx, c.id, FlagRole, string(role)); err != nil {
		return fmt.Errorf("record role flag: %w", err)
	}
	return nil
}

// Snapshot returns a copy of the session for the presentation layer.
func (c *SessionController) Snapshot() model.Session {
	c.mu.Lock()
	snap := c.session
	if c.session.ActiveDocument != nil {
		doc := *c.session.ActiveDocument
		snap.ActiveDocument = &doc
	}
	if c.session.Explanation != nil {
		expl := *c.session.Explanation
		snap.Explanation = &expl
	}
	c.mu.Unlock()

	snap.ChatThread = c.chat.Messages()
	snap.ChatPending = c.chat.Pending()
	return snap
}

// Documents returns the cached document list without forcing a refresh.
func (c *SessionController) Documents() []model.Document {
	return c.store.Documents()
}

// RefreshDocuments pulls the authoritative list and reconciles the active
// selection against it. On refresh failure the stale cache is kept and the
// selection stands.
func (c *SessionController) RefreshDocuments(ctx context.Context) ([]model.Document, error) {
	docs, err := c.store.Refresh(ctx)
	if err != nil {
		return c.store.Documents(), err
	}
	c.reconcileActive()
	return docs, nil
}

// SelectDocument makes the document the active one: detail view, fresh chat
// thread, explanation fetch for the current role.
func (c *SessionController) SelectDocument(documentID string) error {
	doc, ok := c.store.Find(documentID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
	}

	c.mu.Lock()
	c.selectLocked(doc)
	c.mu.Unlock()
	return nil
}

// StartUpload hands the file to the collaborator and, on success, selects a
// provisional document synthesized from the receipt before the authoritative
// list has caught up. The follow-up refresh replaces or confirms it.
func (c *SessionController) StartUpload(ctx context.Context, filename string, file io.Reader) (model.Document, error) {
	c.mu.Lock()
	role := c.session.Role
	c.mu.Unlock()

	receipt, err := c.api.UploadReport(ctx, role, filename, file)
	if err != nil {
		return model.Document{}, fmt.Errorf("upload report: %w", err)
	}

	provisional := model.Document{
		ID:          receipt.ReportID,
		Filename:    filename,
		UploadDate:  time.Now(),
		ParsedData:  receipt.ParsedData,
		Provisional: true,
	}
	c.store.Upsert(provisional)

	c.mu.Lock()
	c.selectLocked(provisional)
	c.mu.Unlock()

	go func() {
		if _, err := c.RefreshDocuments(context.Background()); err != nil {
			// Provisional copy stays usable until a later refresh succeeds.
			log.Printf("post-upload refresh failed: %v", err)
		}
	}()
	return provisional, nil
}

// ClearSelection returns to the list view and drops the derived state.
func (c *SessionController) ClearSelection() {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()
}

// Logout tears the session down and clears the external flag store.
func (c *SessionController) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.session = model.NewSession()
	c.fetcher.Invalidate()
	c.chat.Bind("")
	c.mu.Unlock()

	if err := c.flags.Clear(ctx, c.id); err != nil {
		return fmt.Errorf("clear session flags: %w", err)
	}
	return nil
}

// OnExternalChange reacts to a possible out-of-band mutation (a deletion on
// the management surface, typically) by re-deriving state from a fresh list.
func (c *SessionController) OnExternalChange(ctx context.Context) {
	if _, err := c.RefreshDocuments(ctx); err != nil {
		log.Printf("external-change refresh failed, keeping stale list: %v", err)
	}
}

// RemoveDocument deletes via the collaborator. The cache only changes on
// success; deleting the active document atomically clears the selection.
func (c *SessionController) RemoveDocument(ctx context.Context, documentID string) error {
	if err := c.store.Remove(ctx, documentID); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session.ActiveDocumentID() == documentID {
		c.clearLocked()
	}
	c.mu.Unlock()
	return nil
}

// SubmitChat asks a question about the active document. The user message is
// appended before this returns; the assistant reply (or canned fallback)
// lands asynchronously and is surfaced via Snapshot.
func (c *SessionController) SubmitChat(question string) error {
	c.mu.Lock()
	if c.session.ActiveDocument == nil {
		c.mu.Unlock()
		return ErrNoActiveDocument
	}
	documentID := c.session.ActiveDocument.ID
	role := c.session.Role
	c.mu.Unlock()

	return c.chat.Submit(context.Background(), documentID, question, role, c.isActive, func(q, answer string, fallback bool) {
		c.publishTranscript(documentID, role, q, answer, fallback)
	})
}

func (c *SessionController) isActive(documentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ActiveDocumentID() == documentID
}

func (c *SessionController) publishTranscript(documentID string, role model.Role, question, answer string, fallback bool) {
	if c.transcripts == nil {
		return
	}
	entry := model.TranscriptEntry{
		SessionID:  c.id,
		DocumentID: documentID,
		Role:       string(role),
		Question:   question,
		Answer:     answer,
		Fallback:   fallback,
	}
	if err := c.transcripts.Publish(context.Background(), entry); err != nil {
		log.Printf("publish chat transcript failed: %v", err)
	}
}

// selectLocked runs the select transition. Callers hold c.mu.
func (c *SessionController) selectLocked(doc model.Document) {
	c.session.ActiveDocument = &doc
	c.session.ViewMode = model.ViewDetail
	c.session.Explanation = nil
	c.chat.Bind(doc.ID)
	c.fetchExplanationLocked(doc.ID)
}

// clearLocked drops the selection and everything derived from it. Callers
// hold c.mu.
func (c *SessionController) clearLocked() {
	c.session.ActiveDocument = nil
	c.session.ViewMode = model.ViewList
	c.session.Explanation = nil
	c.fetcher.Invalidate()
	c.chat.Bind("")
}

// fetchExplanationLocked issues the asynchronous explanation fetch. The
// result is folded in only if its generation is still current and the
// document is still the active one. Callers hold c.mu.
func (c *SessionController) fetchExplanationLocked(documentID string) {
	role := c.session.Role
	c.fetcher.Fetch(context.Background(), documentID, role, func(gen uint64, explanation *model.Explanation) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen != c.fetcher.Current() {
			return
		}
		if c.session.ActiveDocumentID() != documentID {
			return
		}
		c.session.Explanation = explanation
	})
}

// reconcileActive re-binds the active document to its authoritative copy, or
// prunes the selection when the document is gone from the fresh list.
func (c *SessionController) reconcileActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.ActiveDocument == nil {
		return
	}
	doc, ok := c.store.Find(c.session.ActiveDocument.ID)
	if !ok {
		c.clearLocked()
		return
	}
	c.session.ActiveDocument = &doc
}
