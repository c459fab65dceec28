package store

import "github.com/metadatax/mediainfobot/pkg/contract"

// Report is one published media analysis.
type Report struct {
	ID           int64
	FileUniqueID string
	FileName     string
	FileSize     int64
	MimeType     string
	MediaType    string
	ChatID       int64
	MessageID    int64
	TelegraphURL string
	// Created is a unix timestamp in milliseconds.
	Created    int64
	Properties []Property
}

// Property is one parsed mediainfo value attached to a report.
type Property struct {
	Section string
	Key     string
	Value   string
}

type ReportStore interface {
	// SaveReport persists the report and its properties, replacing a
	// previous report for the same file.
	SaveReport(report *Report) *contract.Error

	GetReport(id int64) (*Report, *contract.Error)

	// LatestReportForFile returns the newest report for the Telegram
	// file_unique_id, or nil when the file was never analyzed.
	LatestReportForFile(fileUniqueID string) (*Report, *contract.Error)

	SearchReports(filter string, maxResults int, pageToken string) (*PagedList[*Report], *contract.Error)
}

type PagedList[T any] struct {
	Items         []T
	NextPageToken *string
}
