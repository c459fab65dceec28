package parser_test

import (
	"testing"

	"github.com/metadatax/mediainfobot/pkg/query"
)

func TestValidQueries(t *testing.T) {
	t.Parallel()

	samples := []string{
		`file_name = "sample.mkv"`,
		`file_name LIKE "%.mkv" AND file_size > 1000000`,
		`attribute.media_type = "video"`,
		`property.format = "Matroska"`,
		`props."writing application" ILIKE "%handbrake%"`,
		"property.`bit rate` = \"320 kb/s\"",
		`media_type IN ('audio', 'video')`,
		`file_unique_id NOT IN ('AgADxG')`,
		`chat_id = 123456`,
		`created >= 1700000000000`,
	}

	for _, sample := range samples {
		currentSample := sample
		t.Run(currentSample, func(t *testing.T) {
			t.Parallel()

			_, err := query.ParseFilter(currentSample)
			if err != nil {
				t.Errorf("unexpected parse error: %v", err)
			}
		})
	}
}

func TestInvalidQueries(t *testing.T) {
	t.Parallel()

	samples := []string{
		`run.status = "FINISHED"`,
		`nonsense_column = "x"`,
		`file_size = "big"`,
		`file_name = 42`,
		`property.format = 99`,
		`file_size LIKE "10%"`,
		`file_name =`,
		`file_name`,
		`AND file_name = "x"`,
		`file_name = "a" OR file_name = "b"`,
	}

	for _, sample := range samples {
		currentSample := sample
		t.Run(currentSample, func(t *testing.T) {
			t.Parallel()

			_, err := query.ParseFilter(currentSample)
			if err == nil {
				t.Errorf("expected a parse error for %q", currentSample)
			}
		})
	}
}
