package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/metadatax/mediainfobot/pkg/config"
	"github.com/metadatax/mediainfobot/pkg/contract"
	"github.com/metadatax/mediainfobot/pkg/store"
	"github.com/metadatax/mediainfobot/pkg/utils"
)

type fakeStore struct {
	reports map[int64]*store.Report

	searchFilter     string
	searchMaxResults int
	searchPageToken  string
	searchResult     *store.PagedList[*store.Report]
}

func (f *fakeStore) SaveReport(_ *store.Report) *contract.Error {
	return nil
}

func (f *fakeStore) GetReport(id int64) (*store.Report, *contract.Error) {
	report, ok := f.reports[id]
	if !ok {
		return nil, contract.NewError(
			contract.ErrorCodeResourceDoesNotExist,
			"No report found",
		)
	}

	return report, nil
}

func (f *fakeStore) LatestReportForFile(_ string) (*store.Report, *contract.Error) {
	return nil, nil
}

func (f *fakeStore) SearchReports(
	filter string, maxResults int, pageToken string,
) (*store.PagedList[*store.Report], *contract.Error) {
	f.searchFilter = filter
	f.searchMaxResults = maxResults
	f.searchPageToken = pageToken

	if f.searchResult != nil {
		return f.searchResult, nil
	}

	return &store.PagedList[*store.Report]{Items: make([]*store.Report, 0)}, nil
}

func sampleReport() *store.Report {
	return &store.Report{
		ID:           5,
		FileUniqueID: "unique-id",
		FileName:     "sample.mkv",
		FileSize:     2048,
		MimeType:     "video/x-matroska",
		MediaType:    "video",
		ChatID:       -100,
		MessageID:    7,
		TelegraphURL: "https://graph.org/Media-Info-01-01",
		Created:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		Properties: []store.Property{
			{Section: "General", Key: "format", Value: "Matroska"},
		},
	}
}

func apiRequest(t *testing.T, reportStore store.ReportStore, target string) (*http.Response, string) {
	t.Helper()

	app, err := newAPIApp(reportStore)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

func TestGetReport(t *testing.T) {
	reportStore := &fakeStore{reports: map[int64]*store.Report{5: sampleReport()}}

	resp, body := apiRequest(t, reportStore, "/reports/5")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, int64(5), gjson.Get(body, "id").Int())
	require.Equal(t, "sample.mkv", gjson.Get(body, "file_name").String())
	require.Equal(t, "https://graph.org/Media-Info-01-01", gjson.Get(body, "telegraph_url").String())
	require.Equal(t, "Matroska", gjson.Get(body, "properties.0.value").String())
}

func TestGetReportNotFound(t *testing.T) {
	reportStore := &fakeStore{reports: map[int64]*store.Report{}}

	resp, body := apiRequest(t, reportStore, "/reports/99")

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "RESOURCE_DOES_NOT_EXIST", gjson.Get(body, "error_code").String())
}

func TestGetReportInvalidID(t *testing.T) {
	reportStore := &fakeStore{}

	resp, body := apiRequest(t, reportStore, "/reports/not-a-number")

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "INVALID_PARAMETER_VALUE", gjson.Get(body, "error_code").String())
}

func TestSearchReports(t *testing.T) {
	reportStore := &fakeStore{
		searchResult: &store.PagedList[*store.Report]{
			Items:         []*store.Report{sampleReport()},
			NextPageToken: utils.PtrTo("next-token"),
		},
	}

	resp, body := apiRequest(
		t,
		reportStore,
		"/reports?filter=file_size+%3E+1024&max_results=10&page_token=abc",
	)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "file_size > 1024", reportStore.searchFilter)
	require.Equal(t, 10, reportStore.searchMaxResults)
	require.Equal(t, "abc", reportStore.searchPageToken)
	require.Equal(t, int64(1), gjson.Get(body, "reports.#").Int())
	require.Equal(t, "unique-id", gjson.Get(body, "reports.0.file_unique_id").String())
	require.Equal(t, "next-token", gjson.Get(body, "next_page_token").String())
}

func TestSearchReportsDefaults(t *testing.T) {
	reportStore := &fakeStore{}

	resp, body := apiRequest(t, reportStore, "/reports")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, defaultMaxResults, reportStore.searchMaxResults)
	require.True(t, gjson.Get(body, "reports").IsArray())
}

func TestSearchReportsBadQuery(t *testing.T) {
	scenarios := []struct {
		name   string
		target string
	}{
		{
			name:   "malformed filter",
			target: "/reports?filter=status+%3D",
		},
		{
			name:   "unknown filter attribute",
			target: "/reports?filter=color+%3D+%22red%22",
		},
		{
			name:   "max results above limit",
			target: "/reports?max_results=500",
		},
		{
			name:   "negative max results",
			target: "/reports?max_results=-1",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			resp, body := apiRequest(t, &fakeStore{}, scenario.target)

			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "INVALID_PARAMETER_VALUE", gjson.Get(body, "error_code").String())
		})
	}
}

func TestRootEndpoints(t *testing.T) {
	cfg := &config.Config{Version: "1.2.3", ShutdownTimeout: time.Second}

	app, err := newApp(cfg, &fakeStore{})
	require.NoError(t, err)

	scenarios := []struct {
		target   string
		expected string
	}{
		{target: "/", expected: "Bot is running!"},
		{target: "/health", expected: "OK"},
		{target: "/version", expected: "1.2.3"},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, scenario.target, nil))
			require.NoError(t, err)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.NoError(t, resp.Body.Close())

			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			require.Equal(t, scenario.expected, string(body))
		})
	}
}
