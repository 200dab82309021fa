package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// TimestampReader converts captured timestamp text to epoch seconds.
type TimestampReader struct {
	format string
	layout string
}

// NewTimestampReader resolves a timestamp_format value. An empty format reads
// base-10 epoch seconds; a format containing '%' is converted from strftime
// to a Go layout; anything else is used as a Go layout directly.
func NewTimestampReader(format string) (*TimestampReader, error) {
	r := &TimestampReader{format: format, layout: format}

	if strings.Contains(format, "%") {
		layout, err := strftime.Layout(format)
		if err != nil {
			return nil, fmt.Errorf("converting strftime format %q: %w", format, err)
		}
		r.layout = layout
	}

	return r, nil
}

// Read parses raw into epoch seconds.
func (r *TimestampReader) Read(raw string) (int64, error) {
	if r.layout == "" {
		sec, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing epoch seconds %q: %w", raw, err)
		}
		return sec, nil
	}

	ts, err := time.Parse(r.layout, raw)
	if err != nil {
		return 0, fmt.Errorf("parsing timestamp %q with format %q: %w", raw, r.format, err)
	}
	return ts.Unix(), nil
}

// Layout returns the Go layout in use, or "" for epoch seconds.
func (r *TimestampReader) Layout() string {
	return r.layout
}

// TimestampReader returns a reader for c.TimestampFormat.
func (c Config) TimestampReader() (*TimestampReader, error) {
	return NewTimestampReader(c.TimestampFormat)
}

// ReadTimestamp parses a single captured timestamp. Callers reading many
// timestamps should build a TimestampReader once instead.
func (c Config) ReadTimestamp(raw string) (int64, error) {
	r, err := c.TimestampReader()
	if err != nil {
		return 0, err
	}
	return r.Read(raw)
}
