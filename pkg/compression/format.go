// Package compression decodes log file contents according to their declared
// compression format.
//
// Only gzip, zlib and zip are real codecs. LZ4 and tar pass bytes through
// unchanged, as does none; callers must not assume extraction for those.
package compression

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the declared encoding of an input file.
type Format string

const (
	FormatGzip Format = "gzip"
	FormatTar  Format = "tar"
	FormatZip  Format = "zip"
	FormatLZ4  Format = "lz4"
	FormatZlib Format = "zlib"
	FormatNone Format = "none"
)

// Formats lists every supported format in declaration order.
func Formats() []Format {
	return []Format{FormatGzip, FormatTar, FormatZip, FormatLZ4, FormatZlib, FormatNone}
}

// ParseFormat maps text to a Format case-insensitively.
// Unrecognized text, including the empty string, maps to FormatNone.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatGzip, FormatTar, FormatZip, FormatLZ4, FormatZlib, FormatNone:
		return f
	default:
		return FormatNone
	}
}

// String returns the lowercase format name.
func (f Format) String() string {
	return string(f)
}

// UnmarshalYAML decodes a scalar through ParseFormat, so unknown values
// in a config document never fail to load.
func (f *Format) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*f = ParseFormat(s)
	return nil
}
