package app

import (
	"context"
	"io"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

// Collaborator is the report backend as the coordinator sees it. The concrete
// implementation lives in internal/reportapi; tests substitute fakes.
type Collaborator interface {
	UploadReport(ctx context.Context, role model.Role, filename string, file io.Reader) (*model.UploadReceipt, error)
	ListDocuments(ctx context.Context) ([]model.Document, error)
	DeleteDocument(ctx context.Context, documentID string) error
	GetExplanation(ctx context.Context, documentID string, role model.Role) (*model.Explanation, error)
	Chat(ctx context.Context, documentID, question string, role model.Role) (string, error)
}

// TranscriptPublisher hands resolved chat exchanges to the audit pipeline.
// Publishing is best-effort and never influences session state.
type TranscriptPublisher interface {
	Publish(ctx context.Context, entry model.TranscriptEntry) error
}
