package detector

import (
	"regexp"

	"github.com/ccollicutt/logsift/pkg/config"
)

// levelMessageSuffix follows the timestamp in every suggested message
// pattern: an optional bracketed level token, an optional colon, then the
// rest of the line.
const levelMessageSuffix = `\s+[\[(<]?(?P<loglevel>[A-Za-z]+)[\])>]?:?\s*(?P<message>.*)$`

// TimestampFormat is a known leading timestamp shape.
type TimestampFormat struct {
	Name string

	// Prefix matches the start of a line and captures the timestamp in the
	// named group "timestamp".
	Prefix string

	// Layout is the timestamp_format value that reads the captured text.
	// Empty means integer epoch seconds.
	Layout string

	Examples  []string
	Ambiguous bool // True if format has date ordering ambiguity (MM/DD vs DD/MM)

	pattern *regexp.Regexp
	reader  *config.TimestampReader
}

// MessagePattern returns the full message_pattern suggested for lines that
// start with this format.
func (f *TimestampFormat) MessagePattern() string {
	return "^" + f.Prefix + levelMessageSuffix
}

// DefaultFormats returns the built-in timestamp formats to detect.
// Formats are ordered roughly by specificity (more specific patterns first).
func DefaultFormats() []*TimestampFormat {
	formats := []*TimestampFormat{
		{
			Name:     "RFC 3339",
			Prefix:   `(?P<timestamp>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:Z|[+-]\d{2}:\d{2}))`,
			Layout:   "2006-01-02T15:04:05Z07:00",
			Examples: []string{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00-05:00"},
		},
		{
			Name:     "RFC 3339 with fractional seconds",
			Prefix:   `(?P<timestamp>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d+(?:Z|[+-]\d{2}:\d{2}))`,
			Layout:   "2006-01-02T15:04:05.999999999Z07:00",
			Examples: []string{"2024-01-15T10:30:00.123Z", "2024-01-15T10:30:00.123456+01:00"},
		},
		{
			Name:     "ISO 8601 local time",
			Prefix:   `(?P<timestamp>\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})`,
			Layout:   "2006-01-02T15:04:05",
			Examples: []string{"2024-01-15T10:30:00"},
		},
		{
			Name:     "Bracketed datetime",
			Prefix:   `\[(?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})\]`,
			Layout:   "2006-01-02 15:04:05",
			Examples: []string{"[2024-01-15 10:30:00]"},
		},
		{
			Name:     "Python logging",
			Prefix:   `(?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3})`,
			Layout:   "2006-01-02 15:04:05,000",
			Examples: []string{"2024-01-15 10:30:00,123"},
		},
		{
			Name:     "Log4j/Java logging",
			Prefix:   `(?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})`,
			Layout:   "2006-01-02 15:04:05.000",
			Examples: []string{"2024-01-15 10:30:00.123"},
		},
		{
			Name:     "Datetime (space-separated)",
			Prefix:   `(?P<timestamp>\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`,
			Layout:   "2006-01-02 15:04:05",
			Examples: []string{"2024-01-15 10:30:00"},
		},
		{
			Name:     "Syslog with year",
			Prefix:   `(?P<timestamp>[A-Z][a-z]{2} [ \d]\d \d{4} \d{2}:\d{2}:\d{2})`,
			Layout:   "Jan _2 2006 15:04:05",
			Examples: []string{"Jun 14 2024 15:16:01"},
		},
		{
			Name:     "Apache error log",
			Prefix:   `\[(?P<timestamp>[A-Z][a-z]{2} [A-Z][a-z]{2} \d{2} \d{2}:\d{2}:\d{2} \d{4})\]`,
			Layout:   "Mon Jan 02 15:04:05 2006",
			Examples: []string{"[Sun Dec 04 04:47:44 2005]"},
		},
		{
			Name:     "Spark/Hadoop short date",
			Prefix:   `(?P<timestamp>\d{2}/\d{2}/\d{2} \d{2}:\d{2}:\d{2})`,
			Layout:   "06/01/02 15:04:05",
			Examples: []string{"17/06/09 20:10:40"},
		},
		{
			Name:     "Unix timestamp (seconds)",
			Prefix:   `(?P<timestamp>\d{10})`,
			Layout:   "",
			Examples: []string{"1705315800"},
		},
		{
			Name:      "US date format (MM/DD/YYYY)",
			Prefix:    `(?P<timestamp>\d{2}/\d{2}/\d{4} \d{2}:\d{2}:\d{2})`,
			Layout:    "01/02/2006 15:04:05",
			Examples:  []string{"01/15/2024 10:30:00"},
			Ambiguous: true,
		},
	}

	for _, f := range formats {
		f.pattern = regexp.MustCompile(f.MessagePattern())
		reader, err := config.NewTimestampReader(f.Layout)
		if err != nil {
			panic("detector: bad layout for " + f.Name + ": " + err.Error())
		}
		f.reader = reader
	}

	return formats
}
