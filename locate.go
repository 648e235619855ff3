package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"imgconv/logger"
)

// Arguments of this shape are taken as literal filenames; anything else is a
// pattern to expand against the filesystem.
var literalFileName = regexp.MustCompile(`^[A-Za-z0-9]+\.[A-Za-z0-9]+$`)

// Locate walks baseDir recursively and returns, in traversal order, the paths
// of regular files whose bare name fully matches pattern. Returned paths keep
// their directory component relative to baseDir so matches in subdirectories
// stay openable.
func Locate(pattern, baseDir string, console *logger.Console) ([]string, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	var matches []string

	walkErr := filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == baseDir {
				// Unreadable walk root: nothing useful can come of this search.
				return err
			}
			console.Warn("Skipping %s: %v", path, err)
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		if re.MatchString(info.Name()) {
			matches = append(matches, path)
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("error while exploring %s: %w", baseDir, walkErr)
	}

	return matches, nil
}

// ResolveArgs flattens a mix of literal filenames and filename patterns into
// one ordered file list. Literals are appended verbatim without touching the
// filesystem; whether they exist is discovered at conversion time. Duplicates
// from overlapping arguments are preserved.
func ResolveArgs(args []string, baseDir string, console *logger.Console) ([]string, error) {
	var files []string

	for _, arg := range args {
		if literalFileName.MatchString(arg) {
			files = append(files, arg)
			continue
		}

		matches, err := Locate(arg, baseDir, console)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}

	return files, nil
}
