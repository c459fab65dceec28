package server

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/metadatax/mediainfobot/pkg/contract"
	"github.com/metadatax/mediainfobot/pkg/store"
)

const defaultMaxResults = 25

// ReportService answers the read-only report API backed by the store.
type ReportService struct {
	store store.ReportStore
}

type SearchReportsQuery struct {
	Filter     string `query:"filter"      validate:"omitempty,filter"`
	MaxResults int    `query:"max_results" validate:"omitempty,gt=0,lte=100"`
	PageToken  string `query:"page_token"`
}

type Report struct {
	ID           int64      `json:"id"`
	FileUniqueID string     `json:"file_unique_id"`
	FileName     string     `json:"file_name,omitempty"`
	FileSize     int64      `json:"file_size"`
	MimeType     string     `json:"mime_type,omitempty"`
	MediaType    string     `json:"media_type"`
	ChatID       int64      `json:"chat_id"`
	MessageID    int64      `json:"message_id"`
	TelegraphURL string     `json:"telegraph_url"`
	Created      int64      `json:"created"`
	Properties   []Property `json:"properties,omitempty"`
}

type Property struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

type SearchReportsResponse struct {
	Reports       []Report `json:"reports"`
	NextPageToken *string  `json:"next_page_token,omitempty"`
}

func registerReportRoutes(app *fiber.App, parser *HTTPRequestParser, service *ReportService) {
	app.Get("/reports", func(c *fiber.Ctx) error {
		var query SearchReportsQuery
		if err := parser.ParseQuery(c, &query); err != nil {
			return err
		}

		response, err := service.SearchReports(&query)
		if err != nil {
			return err
		}

		return c.JSON(response)
	})

	app.Get("/reports/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return contract.NewError(
				contract.ErrorCodeInvalidParameterValue,
				fmt.Sprintf("Invalid value %q for parameter 'id'", c.Params("id")),
			)
		}

		report, cErr := service.GetReport(id)
		if cErr != nil {
			return cErr
		}

		return c.JSON(report)
	})
}

func (s *ReportService) SearchReports(query *SearchReportsQuery) (*SearchReportsResponse, *contract.Error) {
	maxResults := query.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}

	page, err := s.store.SearchReports(query.Filter, maxResults, query.PageToken)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(page.Items))
	for _, item := range page.Items {
		reports = append(reports, newReport(item))
	}

	return &SearchReportsResponse{
		Reports:       reports,
		NextPageToken: page.NextPageToken,
	}, nil
}

func (s *ReportService) GetReport(id int64) (*Report, *contract.Error) {
	entity, err := s.store.GetReport(id)
	if err != nil {
		return nil, err
	}

	report := newReport(entity)

	return &report, nil
}

func newReport(entity *store.Report) Report {
	properties := make([]Property, 0, len(entity.Properties))
	for _, property := range entity.Properties {
		properties = append(properties, Property{
			Section: property.Section,
			Key:     property.Key,
			Value:   property.Value,
		})
	}

	return Report{
		ID:           entity.ID,
		FileUniqueID: entity.FileUniqueID,
		FileName:     entity.FileName,
		FileSize:     entity.FileSize,
		MimeType:     entity.MimeType,
		MediaType:    entity.MediaType,
		ChatID:       entity.ChatID,
		MessageID:    entity.MessageID,
		TelegraphURL: entity.TelegraphURL,
		Created:      entity.Created,
		Properties:   properties,
	}
}
