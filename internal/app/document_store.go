package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

// DocumentStore caches the collaborator's document list in server order.
// A failed refresh keeps the previous cache intact: stale but available.
type DocumentStore struct {
	api Collaborator

	mu   sync.Mutex
	docs []model.Document
}

func NewDocumentStore(api Collaborator) *DocumentStore {
	return &DocumentStore{api: api, docs: []model.Document{}}
}

// Refresh replaces the cache with the authoritative list. On error the cache
// is left untouched and the error is returned so the caller can decide
// whether to reconcile the active selection.
func (s *DocumentStore) Refresh(ctx context.Context) ([]model.Document, error) {
	docs, err := s.api.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh documents: %w", err)
	}

	s.mu.Lock()
	s.docs = docs
	s.mu.Unlock()
	return s.Documents(), nil
}

// Documents returns a copy of the cached list.
func (s *DocumentStore) Documents() []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Find looks a document up by id in the cache.
func (s *DocumentStore) Find(documentID string) (model.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.ID == documentID {
			return doc, true
		}
	}
	return model.Document{}, false
}

// Upsert inserts or replaces a single entry. Used for the provisional
// document synthesized from an upload receipt, which the next successful
// Refresh supersedes with the server copy.
func (s *DocumentStore) Upsert(doc model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.docs {
		if s.docs[i].ID == doc.ID {
			s.docs[i] = doc
			return
		}
	}
	s.docs = append(s.docs, doc)
}

// Remove asks the collaborator to delete the document and drops it from the
// cache only after the collaborator confirms. The caller is responsible for
// noticing when the removed id was the active one.
func (s *DocumentStore) Remove(ctx context.Context, documentID string) error {
	if err := s.api.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.docs[:0]
	for _, doc := range s.docs {
		if doc.ID != documentID {
			kept = append(kept, doc)
		}
	}
	s.docs = kept
	return nil
}
