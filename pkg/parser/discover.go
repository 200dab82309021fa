package parser

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands pattern under root into the list of regular files to
// parse. The glob is root + "/" + pattern, with at most one trailing
// separator removed from root. Supports *, ?, [...], {a,b} and **.
//
// A missing root is not an error: Discover logs a warning and returns no
// files. Directories and other non-regular matches are skipped with a
// warning. Results are sorted for deterministic ordering.
func Discover(logger *slog.Logger, root, pattern string) ([]string, error) {
	if logger == nil {
		logger = discardLogger()
	}

	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("root path does not exist", "path", root)
			return nil, nil
		}
		return nil, &Error{Kind: KindIO, Op: "stat root", Path: root, Err: err}
	}

	glob := strings.TrimSuffix(root, "/") + "/" + pattern
	matches, err := doublestar.FilepathGlob(glob)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Op: "expand glob", Path: root, Value: glob, Err: err}
	}

	sort.Strings(matches)

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			logger.Warn("cannot stat file, ignoring", "path", match, "error", err)
			continue
		}
		if info.IsDir() {
			logger.Warn("file is a directory, ignoring", "path", match)
			continue
		}
		if !info.Mode().IsRegular() {
			logger.Warn("file is not a regular file, ignoring", "path", match, "mode", info.Mode().String())
			continue
		}
		files = append(files, match)
	}

	logger.Debug("discovered log files", "glob", glob, "matches", len(matches), "files", len(files))

	return files, nil
}
