package mediainfo

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Property is one "Name : Value" line of mediainfo output. Key is the
// snake_case form of Name used on the JSON API and in search filters.
type Property struct {
	Name  string
	Key   string
	Value string
}

// Section is one block of mediainfo output (General, Video, Audio, ...).
type Section struct {
	Heading    string
	Properties []Property
}

var sectionIcons = map[string]string{
	"General":  "🗒",
	"Video":    "🎞",
	"Audio":    "🔊",
	"Subtitle": "🔠",
	"Menu":     "🗃",
}

const defaultIcon = "📄"

// Icon returns the emoji shown before the section heading.
func (s Section) Icon() string {
	for name, icon := range sectionIcons {
		if strings.HasPrefix(s.Heading, name) {
			return icon
		}
	}

	return defaultIcon
}

// Lookup returns the value of the property with the given snake_case
// key, or "".
func (s Section) Lookup(key string) string {
	for _, property := range s.Properties {
		if property.Key == key {
			return property.Value
		}
	}

	return ""
}

// Parse splits raw mediainfo text output into sections. A line without
// the " : " separator starts a new section; mediainfo calls subtitle
// streams "Text", which is renamed for display.
func Parse(output string) []Section {
	sections := make([]Section, 0)

	appendTo := func(section *Section, line string) {
		name, value, found := strings.Cut(line, " : ")
		if !found {
			return
		}

		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return
		}

		section.Properties = append(section.Properties, Property{
			Name:  name,
			Key:   strcase.ToSnake(name),
			Value: value,
		})
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !strings.Contains(line, " : ") {
			heading := line
			if strings.HasPrefix(heading, "Text") {
				heading = strings.Replace(heading, "Text", "Subtitle", 1)
			}

			sections = append(sections, Section{Heading: heading})

			continue
		}

		if len(sections) == 0 {
			// Property lines before any heading are dropped.
			continue
		}

		appendTo(&sections[len(sections)-1], line)
	}

	// A heading with no properties carries no information.
	filtered := sections[:0]
	for _, section := range sections {
		if len(section.Properties) > 0 {
			filtered = append(filtered, section)
		}
	}

	return filtered
}
