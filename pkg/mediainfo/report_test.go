package mediainfo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metadatax/mediainfobot/pkg/telegraph"
)

func TestFormatSize(t *testing.T) {
	scenarios := []struct {
		size     int64
		expected string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1073741824, "1.00 GB"},
		{1099511627776, "1.00 TB"},
		{1125899906842624, "1.00 PB"},
	}

	for _, scenario := range scenarios {
		require.Equal(t, scenario.expected, FormatSize(scenario.size), "size %d", scenario.size)
	}
}

func TestTelegraphContent(t *testing.T) {
	report := Report{
		FileName: "sample.mkv",
		FileSize: 2048,
		Sections: Parse(sampleOutput),
	}

	nodes := report.TelegraphContent()

	// Header, separator, heading+pre+br per section, closing note.
	require.Len(t, nodes, 4+3*len(report.Sections)+1)

	header, ok := nodes[0].(telegraph.Element)
	require.True(t, ok)
	require.Equal(t, "h3", header.Tag)
	require.Equal(t, "📁 File Information", header.Children[0])

	firstHeading, ok := nodes[4].(telegraph.Element)
	require.True(t, ok)
	require.Equal(t, "h4", firstHeading.Tag)
	require.Equal(t, "🗒 General", firstHeading.Children[0])

	pre, ok := nodes[5].(telegraph.Element)
	require.True(t, ok)
	require.Equal(t, "pre", pre.Tag)
	require.Contains(t, pre.Children[0], "Format")
	require.Contains(t, pre.Children[0], "Matroska")

	note, ok := nodes[len(nodes)-1].(telegraph.Element)
	require.True(t, ok)
	require.Equal(t, "p", note.Tag)
}

func TestTelegraphContentUnknownName(t *testing.T) {
	report := Report{FileSize: 0}
	nodes := report.TelegraphContent()

	name := nodes[1].(telegraph.Element)
	require.Equal(t, "Unknown", name.Children[1].(telegraph.Element).Children[0])

	size := nodes[2].(telegraph.Element)
	require.Equal(t, "0.00 B", size.Children[1].(telegraph.Element).Children[0])
}
