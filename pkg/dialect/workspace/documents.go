package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DocumentOptions controls which files under a project root are candidate
// values documents.
type DocumentOptions struct {
	// Extensions lists the accepted file extensions, lower case with dot.
	Extensions []string
	// SkipDirs lists directory names that are never entered.
	SkipDirs []string
	// UseGitignore applies the root .gitignore when present.
	UseGitignore bool
}

// DefaultDocumentOptions returns the options used by rename and refs.
func DefaultDocumentOptions() DocumentOptions {
	return DocumentOptions{
		Extensions:   []string{".yaml", ".yml"},
		SkipDirs:     []string{".git", "node_modules", "vendor", "tmp", ".werf"},
		UseGitignore: true,
	}
}

// Documents returns the absolute paths of every candidate document under
// root, sorted. Unreadable directories are skipped.
func Documents(ctx context.Context, root string, opts DocumentOptions) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var gi *ignore.GitIgnore
	if opts.UseGitignore {
		gi = loadGitignore(root)
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if slices.Contains(opts.SkipDirs, d.Name()) {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 || !hasExtension(d.Name(), opts.Extensions) {
			return nil
		}
		if gi != nil && gi.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}

		out = append(out, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(out)
	return out, nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
