package model

import "time"

// Test status values reported by the collaborator's parser.
const (
	TestStatusNormal  = "normal"
	TestStatusWarning = "warning"
)

type Test struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Unit   string `json:"unit"`
	Range  string `json:"range"`
	Status string `json:"status"`
}

type ParsedReport struct {
	ReportDate string `json:"report_date,omitempty"`
	Tests      []Test `json:"tests,omitempty"`
}

// Document is one uploaded report as known to the collaborator. A document
// synthesized client-side from an upload response (not yet confirmed by a full
// list refresh) carries Provisional=true until reconciled.
type Document struct {
	ID          string        `json:"id"`
	Filename    string        `json:"filename"`
	UploadDate  time.Time     `json:"upload_date"`
	Type        string        `json:"type,omitempty"`
	ParsedData  *ParsedReport `json:"parsed_data,omitempty"`
	Provisional bool          `json:"provisional,omitempty"`
}

// DisplayDate prefers the date parsed out of the report body over the upload
// timestamp, matching what the report list shows. An unknown upload timestamp
// yields an empty string, never the formatted zero time.
func (d Document) DisplayDate() string {
	if d.ParsedData != nil && d.ParsedData.ReportDate != "" {
		return d.ParsedData.ReportDate
	}
	if d.UploadDate.IsZero() {
		return ""
	}
	return d.UploadDate.Format("Jan 2, 2006")
}

// UploadReceipt is the collaborator's immediate answer to an upload, before
// the document shows up in the authoritative list.
type UploadReceipt struct {
	ReportID   string        `json:"report_id"`
	ParsedData *ParsedReport `json:"data"`
}
