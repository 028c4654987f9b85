package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayDate(t *testing.T) {
	uploaded := time.Date(2026, time.August, 12, 9, 30, 0, 0, time.UTC)

	withReportDate := Document{
		UploadDate: uploaded,
		ParsedData: &ParsedReport{ReportDate: "2026-08-01"},
	}
	assert.Equal(t, "2026-08-01", withReportDate.DisplayDate())

	uploadOnly := Document{UploadDate: uploaded}
	assert.Equal(t, "Aug 12, 2026", uploadOnly.DisplayDate())

	unknown := Document{}
	assert.Equal(t, "", unknown.DisplayDate())
}
