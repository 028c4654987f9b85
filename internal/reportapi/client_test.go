package reportapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kirthidass/Care-Bridge/internal/model"
)

func TestUploadReportSendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload-report", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "patient", r.FormValue("role"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cbc.pdf", header.Filename)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"report_id": "rep-42",
			"data": map[string]interface{}{
				"report_date": "2026-08-12",
				"tests": []map[string]string{
					{"name": "Hemoglobin", "value": "13.5", "unit": "g/dL", "range": "12-16", "status": "normal"},
				},
			},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	receipt, err := client.UploadReport(context.Background(), model.RolePatient, "cbc.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "rep-42", receipt.ReportID)
	require.NotNil(t, receipt.ParsedData)
	assert.Equal(t, "2026-08-12", receipt.ParsedData.ReportDate)
	require.Len(t, receipt.ParsedData.Tests, 1)
	assert.Equal(t, model.TestStatusNormal, receipt.ParsedData.Tests[0].Status)
}

func TestUploadReportRejectsMissingReportID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.UploadReport(context.Background(), model.RolePatient, "cbc.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListDocumentsParsesTimezonelessDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/documents", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": "1", "filename": "cbc.pdf", "upload_date": "2026-08-11T09:30:00.123456", "type": "blood_test"},
			{"id": "2", "filename": "lipids.pdf", "upload_date": "2026-08-12T10:00:00Z"}
		]`))
	}))
	defer server.Close()

	client := New(server.URL)
	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "blood_test", docs[0].Type)
	assert.Equal(t, 2026, docs[0].UploadDate.Year())
	assert.Equal(t, time.August, docs[0].UploadDate.Month())

	assert.Equal(t, "2", docs[1].ID)
	assert.False(t, docs[1].UploadDate.IsZero())
}

func TestListDocumentsToleratesUnparseableDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": "1", "filename": "cbc.pdf", "upload_date": "yesterday-ish"}]`))
	}))
	defer server.Close()

	client := New(server.URL)
	docs, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].UploadDate.IsZero())
	assert.Equal(t, "", docs[0].DisplayDate(), "unknown dates render blank, not the zero time")
}

func TestDeleteDocumentEscapesID(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.EscapedPath()
	}))
	defer server.Close()

	client := New(server.URL)
	require.NoError(t, client.DeleteDocument(context.Background(), "rep/42"))
	assert.Equal(t, "/document/rep%2F42", gotPath)
}

func TestGetExplanationFillsDefaultDisclaimer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/explain/rep-1", r.URL.Path)
		require.Equal(t, "clinician", r.URL.Query().Get("role"))
		_, _ = w.Write([]byte(`{
			"explanation": "Values within reference intervals.",
			"safety_warnings": ["Consult before changing medication."],
			"contextual_message": "Routine panel.",
			"citations": ["WHO 2024"]
		}`))
	}))
	defer server.Close()

	client := New(server.URL)
	explanation, err := client.GetExplanation(context.Background(), "rep-1", model.RoleClinician)
	require.NoError(t, err)
	assert.Equal(t, "Values within reference intervals.", explanation.Text)
	assert.Equal(t, []string{"Consult before changing medication."}, explanation.SafetyWarnings)
	assert.Equal(t, model.DefaultDisclaimer, explanation.Disclaimer, "blank disclaimer falls back to the default")
}

func TestGetExplanationKeepsServerDisclaimer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"explanation": "ok", "disclaimer": "Custom wording."}`))
	}))
	defer server.Close()

	client := New(server.URL)
	explanation, err := client.GetExplanation(context.Background(), "rep-1", model.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, "Custom wording.", explanation.Disclaimer)
}

func TestChatSendsQueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/rep-1", r.URL.Path)
		require.Equal(t, "what is LDL?", r.URL.Query().Get("question"))
		require.Equal(t, "patient", r.URL.Query().Get("role"))
		_, _ = w.Write([]byte(`{"answer": "LDL is a cholesterol fraction."}`))
	}))
	defer server.Close()

	client := New(server.URL)
	answer, err := client.Chat(context.Background(), "rep-1", "what is LDL?", model.RolePatient)
	require.NoError(t, err)
	assert.Equal(t, "LDL is a cholesterol fraction.", answer)
}

func TestErrorStatusWrapsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL)

	_, err := client.ListDocuments(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = client.Chat(context.Background(), "rep-1", "hello?", model.RolePatient)
	assert.ErrorIs(t, err, ErrUnavailable)

	err = client.DeleteDocument(context.Background(), "rep-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestConnectionFailureWrapsUnavailable(t *testing.T) {
	// Server closed before the call: a pure transport failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL)
	_, err := client.ListDocuments(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}
