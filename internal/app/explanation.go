package app

import (
	"context"
	"log"
	"sync"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

// ExplanationFetcher resolves explanations asynchronously while guaranteeing
// that a response belonging to a superseded request never lands. Every Fetch
// (and every Invalidate) advances a generation counter; the caller compares
// the generation handed to apply against Current before folding the result
// into session state, so a response whose generation is behind is dropped.
type ExplanationFetcher struct {
	api Collaborator

	mu  sync.Mutex
	gen uint64
}

func NewExplanationFetcher(api Collaborator) *ExplanationFetcher {
	return &ExplanationFetcher{api: api}
}

// Fetch starts an asynchronous request for (documentID, role). On success
// apply runs on the fetch goroutine with the generation this request was
// issued under. Failures leave the explanation unset and are logged, never
// surfaced.
func (f *ExplanationFetcher) Fetch(ctx context.Context, documentID string, role model.Role, apply func(gen uint64, explanation *model.Explanation)) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.mu.Unlock()

	go func() {
		explanation, err := f.api.GetExplanation(ctx, documentID, role)
		if err != nil {
			log.Printf("fetch explanation for %s failed: %v", documentID, err)
			return
		}
		apply(gen, explanation)
	}()
}

// Current returns the newest issued generation.
func (f *ExplanationFetcher) Current() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// Invalidate discards any in-flight fetch without starting a new one. Called
// when the selection is cleared so a late response cannot resurrect state.
func (f *ExplanationFetcher) Invalidate() {
	f.mu.Lock()
	f.gen++
	f.mu.Unlock()
}
