package parser

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ccollicutt/logsift/pkg/compression"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/metrics"
)

// State is the lifecycle position of a Parser.
type State int

const (
	StateUninitialized State = iota
	StateValidated
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateValidated:
		return "validated"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Parser discovers the files under a root, extracts events from them and
// holds the events in discovery, line and match order.
// Files are processed one at a time; a Parser is not safe for concurrent use.
type Parser struct {
	root     string
	cfg      config.Config
	logger   *slog.Logger
	recorder *metrics.Recorder

	state  State
	events []Event
	files  []string
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger for warnings and progress records.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder records run statistics to r.
func WithRecorder(r *metrics.Recorder) Option {
	return func(p *Parser) {
		p.recorder = r
	}
}

// New creates a Parser for the files under root. cfg is copied; later
// changes to the caller's value do not affect the parser.
func New(root string, cfg config.Config, opts ...Option) *Parser {
	p := &Parser{
		root:   root,
		cfg:    cfg,
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse validates the message pattern, then reads every discovered file and
// accumulates its events. Each call starts from an empty event sequence.
//
// An invalid pattern fails with a KindConfig error before any file is
// discovered or opened. A missing root yields no events and no error.
func (p *Parser) Parse(ctx context.Context) error {
	start := time.Now()
	p.events = nil
	p.files = nil
	p.state = StateUninitialized

	extractor, err := NewEventExtractor(p.cfg)
	if err != nil {
		p.logger.Warn("invalid message pattern", "pattern", p.cfg.MessagePattern, "error", err)
		return p.fail(err)
	}
	p.state = StateValidated

	files, err := Discover(p.logger, p.root, p.cfg.LogfilePattern)
	if err != nil {
		return p.fail(err)
	}

	p.state = StateRunning
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return p.fail(err)
		}
		if err := p.parseFile(extractor, path); err != nil {
			return p.fail(err)
		}
		p.files = append(p.files, path)
	}

	p.state = StateCompleted
	p.recorder.RunCompleted(time.Since(start))
	p.logger.Info("parsed logfiles successfully", "files", len(p.files), "events", len(p.events))

	return nil
}

func (p *Parser) parseFile(extractor *EventExtractor, path string) error {
	raw, err := os.ReadFile(path) // #nosec G304 -- discovered paths are expected
	if err != nil {
		return &Error{Kind: KindIO, Op: "read file", Path: path, Err: err}
	}

	p.logger.Debug("decompressing file", "path", path, "compression", p.cfg.Compression)

	decoded, err := compression.Decode(p.cfg.Compression, raw)
	if err != nil {
		return &Error{Kind: KindDecode, Op: "decompress file", Path: path, Value: p.cfg.Compression.String(), Err: err}
	}
	if !utf8.Valid(decoded) {
		return &Error{Kind: KindDecode, Op: "decode text", Path: path, Err: ErrInvalidUTF8}
	}

	p.recorder.FileParsed(p.cfg.Compression.String(), len(raw), len(decoded))

	// Only '\n' terminates a line; a trailing terminator yields a final empty line.
	for i, line := range strings.Split(string(decoded), "\n") {
		events, filtered, err := extractor.Extract(line)
		p.recorder.EventFiltered(filtered)
		if err != nil {
			var perr *Error
			if errors.As(err, &perr) {
				perr.Path = path
				perr.Line = i + 1
			}
			return err
		}
		for _, e := range events {
			p.recorder.EventExtracted(string(e.Level))
		}
		p.events = append(p.events, events...)
	}

	return nil
}

func (p *Parser) fail(err error) error {
	p.state = StateFailed
	kind := KindOf(err).String()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = "canceled"
	}
	p.recorder.ParseFailed(kind)
	return err
}

// State returns the parser's lifecycle state.
func (p *Parser) State() State {
	return p.state
}

// EventCount returns the number of accumulated events.
func (p *Parser) EventCount() int {
	return len(p.events)
}

// Events returns an iterator over the accumulated events. Iterating does not
// consume or modify them and may be repeated.
func (p *Parser) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range p.events {
			if !yield(e) {
				return
			}
		}
	}
}

// Files returns the files processed by the last run, in processing order.
func (p *Parser) Files() []string {
	return append([]string(nil), p.files...)
}

// Root returns the root path the parser discovers files under.
func (p *Parser) Root() string {
	return p.root
}

// Config returns a copy of the parser's configuration.
func (p *Parser) Config() config.Config {
	return p.cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
