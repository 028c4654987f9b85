package app

import "errors"

var (
	ErrInvalidRole      = errors.New("role must be patient or clinician")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNoActiveDocument = errors.New("no active document selected")
	ErrQuestionEmpty    = errors.New("question is empty")
	ErrChatBusy         = errors.New("a chat request is already in flight")
)
