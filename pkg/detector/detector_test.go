package detector

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ccollicutt/logsift/pkg/compression"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/parser"
)

func TestDetector_DetectFromLines_Formats(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		wantFormat string
		wantTS     int64
		wantLevel  parser.LogLevel
		wantMsg    string
	}{
		{
			name: "rfc3339",
			lines: []string{
				"2024-01-15T10:30:00Z INFO Application started",
				"2024-01-15T10:30:05Z DEBUG Processing request",
			},
			wantFormat: "RFC 3339",
			wantTS:     1705314600,
			wantLevel:  parser.LevelInfo,
			wantMsg:    "Application started",
		},
		{
			name: "rfc3339 fractional",
			lines: []string{
				"2024-01-15T10:30:00.123+00:00 WARN slow",
			},
			wantFormat: "RFC 3339 with fractional seconds",
			wantTS:     1705314600,
			wantLevel:  parser.LevelWarn,
			wantMsg:    "slow",
		},
		{
			name: "iso local",
			lines: []string{
				"2024-01-15T10:30:00 error: disk full",
			},
			wantFormat: "ISO 8601 local time",
			wantTS:     1705314600,
			wantLevel:  parser.LevelError,
			wantMsg:    "disk full",
		},
		{
			name: "bracketed",
			lines: []string{
				"[2024-01-15 10:30:00] [info] Application started",
				"[2024-01-15 10:30:05] [debug] Processing request",
			},
			wantFormat: "Bracketed datetime",
			wantTS:     1705314600,
			wantLevel:  parser.LevelInfo,
			wantMsg:    "Application started",
		},
		{
			name: "python logging",
			lines: []string{
				"2024-01-15 10:30:00,123 CRITICAL out of memory",
			},
			wantFormat: "Python logging",
			wantTS:     1705314600,
			wantLevel:  parser.LevelCritical,
			wantMsg:    "out of memory",
		},
		{
			name: "log4j",
			lines: []string{
				"2024-01-15 10:30:00.123 INFO  [main] Started",
			},
			wantFormat: "Log4j/Java logging",
			wantTS:     1705314600,
			wantLevel:  parser.LevelInfo,
			wantMsg:    "[main] Started",
		},
		{
			name: "space separated",
			lines: []string{
				"2024-01-15 10:30:00 WARNING low disk",
			},
			wantFormat: "Datetime (space-separated)",
			wantTS:     1705314600,
			wantLevel:  parser.LevelWarning,
			wantMsg:    "low disk",
		},
		{
			name: "apache error log",
			lines: []string{
				"[Sun Dec 04 04:47:44 2005] [error] mod_jk child workerEnv in error state 6",
			},
			wantFormat: "Apache error log",
			wantTS:     1133671664,
			wantLevel:  parser.LevelError,
			wantMsg:    "mod_jk child workerEnv in error state 6",
		},
		{
			name: "spark",
			lines: []string{
				"17/06/09 20:10:40 INFO executor.CoarseGrainedExecutorBackend: Registered signal handlers",
			},
			wantFormat: "Spark/Hadoop short date",
			wantTS:     1497039040,
			wantLevel:  parser.LevelInfo,
			wantMsg:    "executor.CoarseGrainedExecutorBackend: Registered signal handlers",
		},
		{
			name: "epoch seconds",
			lines: []string{
				"1705315800 INFO heartbeat",
				"1705315860 INFO heartbeat",
			},
			wantFormat: "Unix timestamp (seconds)",
			wantTS:     1705315800,
			wantLevel:  parser.LevelInfo,
			wantMsg:    "heartbeat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().DetectFromLines(tt.lines)

			if !result.HasMatch() {
				t.Fatal("Expected to detect a format")
			}

			best := result.BestMatch()
			if best.Format.Name != tt.wantFormat {
				t.Errorf("Expected %s, got %s", tt.wantFormat, best.Format.Name)
			}
			if best.Confidence != 1.0 {
				t.Errorf("Expected 100%% confidence, got %.1f%%", best.Confidence*100)
			}

			want := parser.Event{Timestamp: tt.wantTS, Level: tt.wantLevel, Message: tt.wantMsg}
			if best.Sample != want {
				t.Errorf("Sample = %+v, want %+v", best.Sample, want)
			}
		})
	}
}

func TestDetector_DetectFromLines_NoMatch(t *testing.T) {
	lines := []string{
		"This line has no timestamp",
		"Neither does this one",
	}

	result := New().DetectFromLines(lines)

	if result.HasMatch() {
		t.Errorf("Expected no match, got %s", result.BestMatch().Format.Name)
	}
	if result.BestMatch() != nil {
		t.Error("BestMatch() should be nil")
	}
	if result.SampledLines != 2 || result.ParsedLines != 0 {
		t.Errorf("SampledLines = %d, ParsedLines = %d", result.SampledLines, result.ParsedLines)
	}
}

func TestDetector_DetectFromLines_EmptyInput(t *testing.T) {
	result := New().DetectFromLines(nil)

	if result.HasMatch() {
		t.Error("Expected no match for empty input")
	}
	if result.SampledLines != 0 {
		t.Errorf("SampledLines = %d, want 0", result.SampledLines)
	}
}

func TestDetector_DetectFromLines_MixedFormats(t *testing.T) {
	lines := []string{
		"2024-01-15T10:30:00Z INFO one",
		"2024-01-15T10:30:01Z INFO two",
		"2024-01-15T10:30:02Z INFO three",
		"[2024-01-15 10:30:03] INFO four",
	}

	result := New().DetectFromLines(lines)

	if len(result.Matches) != 2 {
		t.Fatalf("Expected 2 matching formats, got %d", len(result.Matches))
	}
	if result.Matches[0].Format.Name != "RFC 3339" {
		t.Errorf("best = %s, want RFC 3339", result.Matches[0].Format.Name)
	}
	if result.Matches[0].Confidence != 0.75 {
		t.Errorf("Confidence = %v, want 0.75", result.Matches[0].Confidence)
	}
	if result.ParsedLines != 3 {
		t.Errorf("ParsedLines = %d, want 3", result.ParsedLines)
	}
}

func TestDetector_DetectFromLines_InvalidTimestampNotCounted(t *testing.T) {
	lines := []string{
		"2024-13-45T99:99:99Z INFO bad date",
		"2024-01-15T10:30:00Z INFO good date",
	}

	best := New().DetectFromLines(lines).BestMatch()
	if best == nil {
		t.Fatal("Expected a match")
	}
	if best.MatchCount != 1 {
		t.Errorf("MatchCount = %d, want 1", best.MatchCount)
	}
	if best.SampleLine != lines[1] {
		t.Errorf("SampleLine = %q", best.SampleLine)
	}
}

func TestDetector_DetectFromLines_UnknownLevels(t *testing.T) {
	lines := []string{
		"1705315800 NOTICE something",
		"1705315801 INFO other",
	}

	best := New().DetectFromLines(lines).BestMatch()
	if best == nil {
		t.Fatal("Expected a match")
	}
	if best.MatchCount != 2 || best.LevelCount != 1 {
		t.Errorf("MatchCount = %d, LevelCount = %d, want 2, 1", best.MatchCount, best.LevelCount)
	}
	if best.Sample.Level != parser.LevelUnknown {
		t.Errorf("Sample.Level = %s, want Unknown", best.Sample.Level)
	}
}

func TestDetector_DetectFromLines_AmbiguousFormat(t *testing.T) {
	lines := []string{
		"01/15/2024 10:30:00 INFO Application started",
	}

	result := New().DetectFromLines(lines)

	best := result.BestMatch()
	if best == nil || !best.Format.Ambiguous {
		t.Fatalf("Expected ambiguous format, got %+v", best)
	}
	if result.AmbiguityNote == "" {
		t.Error("Expected ambiguity note")
	}
}

func TestDetector_WithSampleSize(t *testing.T) {
	d := New(WithSampleSize(2))
	lines := d.sample("# header\n\n1 a\r\n2 b\n3 c\n")

	want := []string{"1 a", "2 b"}
	if len(lines) != len(want) {
		t.Fatalf("sample() = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if New(WithSampleSize(0)).sampleSize != DefaultSampleSize {
		t.Error("non-positive sample size should keep the default")
	}
}

func TestDetector_DetectFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	content := "# comment\n2024-01-15T10:30:00Z INFO started\n2024-01-15T10:30:05Z ERROR failed\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New().DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}
	if result.SampledLines != 2 {
		t.Errorf("SampledLines = %d, want 2 (comment skipped)", result.SampledLines)
	}
	if best := result.BestMatch(); best == nil || best.Format.Name != "RFC 3339" {
		t.Errorf("BestMatch() = %+v", best)
	}
}

func TestDetector_DetectFromFile_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("1705315800 INFO up\n"))
	_ = zw.Close()

	path := filepath.Join(t.TempDir(), "app.log.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New(WithCompression(compression.FormatGzip)).DetectFromFile(context.Background(), path)
	if err != nil {
		t.Fatalf("DetectFromFile() error = %v", err)
	}
	if best := result.BestMatch(); best == nil || best.Format.Layout != "" {
		t.Errorf("BestMatch() = %+v, want epoch seconds", best)
	}

	// Undecoded gzip bytes don't decode as zlib.
	if _, err := New(WithCompression(compression.FormatZlib)).DetectFromFile(context.Background(), path); err == nil {
		t.Error("Expected decode error")
	}
}

func TestDetector_DetectFromFile_NotFound(t *testing.T) {
	_, err := New().DetectFromFile(context.Background(), "/nonexistent/file.log")
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFormatMatch_ConfigParses(t *testing.T) {
	dir := t.TempDir()
	lines := "[2024-01-15 10:30:00] [info] started\n[2024-01-15 10:30:05] [error] failed\n"
	if err := os.WriteFile(filepath.Join(dir, "app.log"), []byte(lines), 0644); err != nil {
		t.Fatal(err)
	}

	best := New().DetectFromLines([]string{"[2024-01-15 10:30:00] [info] started"}).BestMatch()
	if best == nil {
		t.Fatal("Expected a match")
	}

	cfg := best.Config("*.log", compression.FormatNone)
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("suggested config invalid: %v", err)
	}

	p := parser.New(dir, *cfg)
	if err := p.Parse(context.Background()); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var got []parser.Event
	for e := range p.Events() {
		got = append(got, e)
	}
	want := []parser.Event{
		{Timestamp: 1705314600, Message: "started", Level: parser.LevelInfo},
		{Timestamp: 1705314605, Message: "failed", Level: parser.LevelError},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDefaultFormats(t *testing.T) {
	for _, f := range DefaultFormats() {
		t.Run(f.Name, func(t *testing.T) {
			re := regexp.MustCompile(f.MessagePattern())
			for _, group := range config.RequiredGroups {
				if re.SubexpIndex(group) < 0 {
					t.Errorf("pattern missing group %q", group)
				}
			}
			for _, ex := range f.Examples {
				line := ex + " INFO example"
				if !re.MatchString(line) {
					t.Errorf("pattern does not match %q", line)
				}
			}
		})
	}
}

func TestLogfilePatternFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/var/log/app.log", "*.log"},
		{"/var/log/app.log.gz", "*.gz"},
		{"/var/log/messages", "messages"},
		{"/home/u/.history", ".history"},
	}

	for _, tt := range tests {
		if got := LogfilePatternFor(tt.path); got != tt.want {
			t.Errorf("LogfilePatternFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
