package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a parse failure.
type Kind int

const (
	// KindIO is a file or root that could not be read.
	KindIO Kind = iota + 1
	// KindConfig is an invalid regex, missing named groups or a bad glob.
	KindConfig
	// KindDecode is a corrupt compressed stream or invalid UTF-8.
	KindDecode
	// KindData is a captured value that could not be interpreted.
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindConfig:
		return "config"
	case KindDecode:
		return "decode"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// ErrInvalidUTF8 is wrapped by decode errors for files that are not UTF-8
// after decompression.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// Error describes a failed step of a parse run.
type Error struct {
	Kind Kind
	// Op is the step that failed, e.g. "read file".
	Op string
	// Path is the file being processed, or the root for discovery errors.
	Path string
	// Line is the 1-based line number, when known.
	Line int
	// Value is the offending raw value (pattern, captured text).
	Value string
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Path != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&sb, ":%d", e.Line)
		}
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == kind
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}
