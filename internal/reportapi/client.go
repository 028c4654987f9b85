// Package reportapi is the HTTP client for the report-processing backend.
// Parsing, explanation generation and chat answers all happen on that side;
// this client only moves requests and payloads.
package reportapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

// ErrUnavailable covers both transport failures and non-success statuses.
// Callers branch on it with errors.Is and treat everything behind it as
// "collaborator unreachable".
var ErrUnavailable = errors.New("report service unavailable")

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *Client {
	return &Client{
		// No local timeout enforcement beyond a generous transport cap;
		// the collaborator owns its own deadlines.
		httpClient: &http.Client{Timeout: 90 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type uploadResponse struct {
	ReportID string              `json:"report_id"`
	Data     *model.ParsedReport `json:"data"`
}

// UploadReport sends the raw file plus the viewing role as multipart form
// data and returns the collaborator's immediate receipt.
func (c *Client) UploadReport(ctx context.Context, role model.Role, filename string, file io.Reader) (*model.UploadReceipt, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy upload payload: %w", err)
	}
	if err := writer.WriteField("role", string(role)); err != nil {
		return nil, fmt.Errorf("write role field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-report", strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var parsed uploadResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}
	if parsed.ReportID == "" {
		return nil, fmt.Errorf("%w: upload response missing report_id", ErrUnavailable)
	}
	return &model.UploadReceipt{ReportID: parsed.ReportID, ParsedData: parsed.Data}, nil
}

type documentRecord struct {
	ID         string              `json:"id"`
	Filename   string              `json:"filename"`
	UploadDate string              `json:"upload_date"`
	Type       string              `json:"type,omitempty"`
	ParsedData *model.ParsedReport `json:"parsed_data,omitempty"`
}

// ListDocuments returns the authoritative document list in server order.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents", nil)
	if err != nil {
		return nil, fmt.Errorf("build documents request: %w", err)
	}

	var records []documentRecord
	if err := c.do(req, &records); err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, model.Document{
			ID:         rec.ID,
			Filename:   rec.Filename,
			UploadDate: parseUploadDate(rec.UploadDate),
			Type:       rec.Type,
			ParsedData: rec.ParsedData,
		})
	}
	return docs, nil
}

func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/document/"+url.PathEscape(documentID), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}
	return c.do(req, nil)
}

type explanationResponse struct {
	Explanation       string   `json:"explanation"`
	SafetyWarnings    []string `json:"safety_warnings"`
	ContextualMessage string   `json:"contextual_message"`
	Disclaimer        string   `json:"disclaimer"`
	Citations         []string `json:"citations"`
}

// GetExplanation resolves the explanation payload for one (document, role)
// pair. A missing disclaimer is filled with the client-side default.
func (c *Client) GetExplanation(ctx context.Context, documentID string, role model.Role) (*model.Explanation, error) {
	endpoint := fmt.Sprintf("%s/explain/%s?role=%s", c.baseURL, url.PathEscape(documentID), url.QueryEscape(string(role)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build explain request: %w", err)
	}

	var parsed explanationResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}

	disclaimer := parsed.Disclaimer
	if strings.TrimSpace(disclaimer) == "" {
		disclaimer = model.DefaultDisclaimer
	}
	return &model.Explanation{
		Text:              parsed.Explanation,
		SafetyWarnings:    parsed.SafetyWarnings,
		ContextualMessage: parsed.ContextualMessage,
		Disclaimer:        disclaimer,
		Citations:         parsed.Citations,
	}, nil
}

// Chat asks one question about one document and returns the answer text.
func (c *Client) Chat(ctx context.Context, documentID, question string, role model.Role) (string, error) {
	params := url.Values{}
	params.Set("question", question)
	params.Set("role", string(role))
	endpoint := fmt.Sprintf("%s/chat/%s?%s", c.baseURL, url.PathEscape(documentID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}

	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	return parsed.Answer, nil
}

// FeedKnowledge pushes a text snippet into the collaborator's knowledge base.
// Reserved capability: no session flow calls this, only the management API.
func (c *Client) FeedKnowledge(ctx context.Context, text, source string) error {
	params := url.Values{}
	params.Set("text", text)
	params.Set("source", source)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rag/feed?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build feed request: %w", err)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// parseUploadDate tolerates the collaborator's timezone-less isoformat
// timestamps alongside RFC 3339. Anything else is left as the zero time,
// which the display layer renders as "date unknown" rather than a bogus year.
func parseUploadDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	log.Printf("unparseable upload_date %q, leaving it unset", raw)
	return time.Time{}
}
