package workspace

import (
	"os"
	"path/filepath"
	"regexp"
)

// DefaultProjectMarker is the file that marks a chart root.
const DefaultProjectMarker = "Chart.yaml"

// FindProjectRoot returns the nearest directory at or above path that
// contains marker. path may name a file or a directory.
func FindProjectRoot(path, marker string) (string, bool) {
	if marker == "" {
		marker = DefaultProjectMarker
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && !info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var (
	globalKeyRe   = regexp.MustCompile(`(?m)^global:`)
	includesKeyRe = regexp.MustCompile(`(?m)^\s*_includes:`)
	releasesKeyRe = regexp.MustCompile(`(?m)^\s*releases:`)
	appsGroupRe   = regexp.MustCompile(`(?m)^apps-[a-z0-9-]+:`)
	groupVarsRe   = regexp.MustCompile(`(?m)^\s*__GroupVars__:`)
)

// LooksLikeValues reports whether text has the signature of a values
// document of the dialect: global with _includes or releases, a top-level
// apps-* group, or a __GroupVars__ key.
func LooksLikeValues(text string) bool {
	if globalKeyRe.MatchString(text) && (includesKeyRe.MatchString(text) || releasesKeyRe.MatchString(text)) {
		return true
	}
	return appsGroupRe.MatchString(text) || groupVarsRe.MatchString(text)
}
