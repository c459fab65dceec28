package mediainfo

import (
	"fmt"
	"strings"

	"github.com/metadatax/mediainfobot/pkg/telegraph"
)

// Report is the analysis result for one media file.
type Report struct {
	FileName string
	FileSize int64
	Sections []Section
}

// FormatSize renders a byte count the way the bot shows it to users.
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}

	return fmt.Sprintf("%.2f PB", value)
}

// DisplayName returns the file name or the placeholder for media sent
// without one (e.g. videos recorded in the client).
func (r Report) DisplayName() string {
	if r.FileName == "" {
		return "Unknown"
	}

	return r.FileName
}

// TelegraphContent renders the report as the Telegraph page body:
// a file header, one heading + preformatted block per section and a
// closing note about the sampled analysis.
func (r Report) TelegraphContent() []telegraph.Node {
	nodes := []telegraph.Node{
		telegraph.Element{Tag: "h3", Children: []telegraph.Node{"📁 File Information"}},
		telegraph.Element{Tag: "p", Children: []telegraph.Node{
			telegraph.Element{Tag: "strong", Children: []telegraph.Node{"File Name: "}},
			telegraph.Element{Tag: "em", Children: []telegraph.Node{r.DisplayName()}},
		}},
		telegraph.Element{Tag: "p", Children: []telegraph.Node{
			telegraph.Element{Tag: "strong", Children: []telegraph.Node{"File Size: "}},
			telegraph.Element{Tag: "em", Children: []telegraph.Node{FormatSize(r.FileSize)}},
		}},
		telegraph.Element{Tag: "hr"},
	}

	for _, section := range r.Sections {
		lines := make([]string, 0, len(section.Properties))
		for _, property := range section.Properties {
			lines = append(lines, fmt.Sprintf("%-28s: %s", property.Name, property.Value))
		}

		nodes = append(nodes,
			telegraph.Element{Tag: "h4", Children: []telegraph.Node{
				section.Icon() + " " + section.Heading,
			}},
			telegraph.Element{Tag: "pre", Children: []telegraph.Node{
				strings.Join(lines, "\n"),
			}},
			telegraph.Element{Tag: "br"},
		)
	}

	nodes = append(nodes, telegraph.Element{Tag: "p", Children: []telegraph.Node{
		telegraph.Element{Tag: "em", Children: []telegraph.Node{
			"Note: Analysis is based on initial portions of the file.",
		}},
	}})

	return nodes
}
