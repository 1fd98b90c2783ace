package include

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/parser"
)

// SourceKind tells where an include profile was defined.
type SourceKind string

const (
	SourceLocal SourceKind = "local" // global._includes in the document
	SourceFile  SourceKind = "file"  // loaded from an external file
)

// Definition records where an include profile comes from.
type Definition struct {
	Name   string
	Source SourceKind
	File   string // absolute path for file-sourced profiles
}

// MissingFile is an include file that does not exist. It is data, not an
// error: resolution continues without the fragment.
type MissingFile struct {
	RawPath   string   // path as written in the document
	Tried     []string // absolute paths that were attempted
	Directive string   // _include_from_file or _include_files
}

// Expansion is the result of the file pre-pass.
type Expansion struct {
	// Tree is the document with every file directive applied and removed,
	// and file-sourced profiles added to global._includes.
	Tree ast.Value
	// FileProfiles holds the profiles registered by _include_files.
	FileProfiles *ast.Mapping
	// Definitions lists file-sourced profile definitions in load order.
	Definitions []Definition
	// MissingFiles lists include files that were not found.
	MissingFiles []MissingFile
	// LoadedFiles lists every file read, as absolute paths.
	LoadedFiles []string

	localNames map[string]bool
}

// Expander runs the file pre-pass.
type Expander struct {
	reader FileReader
	parser *parser.Parser
	logger *slog.Logger
}

// Option configures an Expander or a Resolver.
type Option func(*options)

type options struct {
	parser *parser.Parser
	logger *slog.Logger
}

// WithParser sets the parser used for loaded files.
func WithParser(p *parser.Parser) Option {
	return func(o *options) { o.parser = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{parser: parser.NewParser(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// NewExpander creates a pre-pass expander reading files through reader.
func NewExpander(reader FileReader, opts ...Option) *Expander {
	o := buildOptions(opts)
	return &Expander{reader: reader, parser: o.parser, logger: o.logger}
}

// ExpandFileIncludes runs the file pre-pass with default options.
func ExpandFileIncludes(ctx context.Context, tree ast.Value, sourcePath string, reader FileReader) (*Expansion, error) {
	return NewExpander(reader).Expand(ctx, tree, sourcePath)
}

// Expand applies _include_from_file and _include_files throughout tree.
// Relative paths resolve against the directory of the file holding the
// directive, starting with sourcePath. The input tree is not modified.
func (e *Expander) Expand(ctx context.Context, tree ast.Value, sourcePath string) (*Expansion, error) {
	st := &expansionState{
		ctx: ctx,
		e:   e,
		out: &Expansion{FileProfiles: ast.NewMapping(), localNames: make(map[string]bool)},
	}
	for _, name := range NewRegistry(tree).Names() {
		st.out.localNames[name] = true
	}

	baseDir := "."
	if sourcePath != "" {
		abs, err := filepath.Abs(sourcePath)
		if err == nil {
			sourcePath = abs
		}
		baseDir = filepath.Dir(sourcePath)
		st.stack = append(st.stack, sourcePath)
	}

	expanded, err := st.expand(tree, baseDir, nil)
	if err != nil {
		return nil, err
	}

	st.out.Tree = injectFileProfiles(expanded, st.out.FileProfiles)

	e.logger.Debug("file includes expanded",
		"source", sourcePath,
		"loaded_files", len(st.out.LoadedFiles),
		"file_profiles", st.out.FileProfiles.Len(),
		"missing_files", len(st.out.MissingFiles),
	)

	return st.out, nil
}

type expansionState struct {
	ctx   context.Context
	e     *Expander
	stack []string // absolute paths of files being expanded
	out   *Expansion
}

func (s *expansionState) expand(v ast.Value, dir string, path []string) (ast.Value, error) {
	if err := s.ctx.Err(); err != nil {
		return ast.Value{}, err
	}

	switch v.Kind {
	case ast.KindSequence:
		items := make([]ast.Value, len(v.Items))
		for i, item := range v.Items {
			expanded, err := s.expand(item, dir, path)
			if err != nil {
				return ast.Value{}, err
			}
			items[i] = expanded
		}
		return ast.Sequence(items...), nil

	case ast.KindMapping:
		return s.expandMapping(v, dir, path)

	default:
		return v, nil
	}
}

func (s *expansionState) expandMapping(v ast.Value, dir string, path []string) (ast.Value, error) {
	out := ast.NewMapping()

	var base ast.Value
	hasBase := false
	hasFilesDirective := false
	var fileNames []string

	for _, key := range v.Map.Keys() {
		child, _ := v.Map.Get(key)

		switch key {
		case IncludeFromFileKey:
			if child.Kind != ast.KindString || strings.TrimSpace(child.Text) == "" {
				out.Set(key, child.Clone())
				continue
			}
			raw := strings.TrimSpace(child.Text)
			loaded, abs, found, err := s.load(raw, dir, IncludeFromFileKey)
			if err != nil {
				return ast.Value{}, err
			}
			if !found {
				continue
			}
			base, hasBase = loaded, true
			if isIncludesPath(path) {
				for _, name := range loaded.Map.Keys() {
					s.out.Definitions = append(s.out.Definitions, Definition{Name: name, Source: SourceFile, File: abs})
				}
			}

		case IncludeFilesKey:
			if child.Kind != ast.KindSequence {
				out.Set(key, child.Clone())
				continue
			}
			hasFilesDirective = true
			for _, raw := range child.Strings() {
				loaded, abs, found, err := s.load(raw, dir, IncludeFilesKey)
				if err != nil {
					return ast.Value{}, err
				}
				if !found {
					continue
				}
				name := ProfileNameFromPath(raw)
				s.out.FileProfiles.Set(name, loaded)
				s.out.Definitions = append(s.out.Definitions, Definition{Name: name, Source: SourceFile, File: abs})
				fileNames = append(fileNames, name)
			}

		default:
			expanded, err := s.expand(child, dir, append(path[:len(path):len(path)], key))
			if err != nil {
				return ast.Value{}, err
			}
			out.Set(key, expanded)
		}
	}

	if hasFilesDirective {
		existing, _ := out.Get(IncludeKey)
		out.Set(IncludeKey, namesValue(append(fileNames, Names(existing)...)))
	}

	result := ast.MappingValue(out)
	if hasBase {
		result = Merge(base, result)
	}
	return result, nil
}

// load reads, parses and expands one include file. found is false for a
// templated path and for a missing file; missing files are recorded.
func (s *expansionState) load(raw, dir, directive string) (ast.Value, string, bool, error) {
	if IsTemplatedPath(raw) {
		return ast.Value{}, "", false, nil
	}

	abs := raw
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(dir, raw)
	}
	abs = filepath.Clean(abs)

	if slices.Contains(s.stack, abs) {
		chain := append(slices.Clone(s.stack), abs)
		return ast.Value{}, "", false, dialectErrors.NewCycle("File include cycle detected", chain)
	}

	data, err := s.e.reader.ReadFile(abs)
	if err != nil {
		if isNotFound(err) {
			s.out.MissingFiles = append(s.out.MissingFiles, MissingFile{
				RawPath:   raw,
				Tried:     []string{abs},
				Directive: directive,
			})
			s.e.logger.Warn("include file not found", "path", raw, "tried", abs)
			return ast.Value{}, "", false, nil
		}
		return ast.Value{}, "", false, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeIO,
			Message:  "include file error: " + raw,
			Location: ast.Location{File: abs},
			Cause:    err,
		}
	}

	tree, err := s.e.parser.ParseBytes(data, abs)
	if err != nil {
		return ast.Value{}, "", false, err
	}
	switch tree.Kind {
	case ast.KindMapping:
	case ast.KindNull:
		tree = ast.EmptyMapping()
	default:
		return ast.Value{}, "", false, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeStructural,
			Message:  "included file must contain a YAML map: " + raw,
			Location: ast.Location{File: abs, Line: 1, Column: 1},
		}
	}

	s.out.LoadedFiles = append(s.out.LoadedFiles, abs)
	s.stack = append(s.stack, abs)
	expanded, err := s.expand(tree, filepath.Dir(abs), nil)
	s.stack = s.stack[:len(s.stack)-1]
	if err != nil {
		return ast.Value{}, "", false, err
	}

	return expanded, abs, true, nil
}

// injectFileProfiles adds file-sourced profiles to global._includes.
// Profiles already defined locally win.
func injectFileProfiles(tree ast.Value, profiles *ast.Mapping) ast.Value {
	if profiles.Len() == 0 || !tree.IsMapping() {
		return tree
	}

	root := tree.Map.Clone()
	global, ok := root.Get(GlobalKey)
	if !ok || !global.IsMapping() {
		global = ast.EmptyMapping()
	}
	includes, ok := global.Map.Get(IncludesKey)
	if !ok || !includes.IsMapping() {
		includes = ast.EmptyMapping()
	}

	profiles.Each(func(name string, body ast.Value) {
		if !includes.Map.Has(name) {
			includes.Map.Set(name, body.Clone())
		}
	})

	global.Map.Set(IncludesKey, includes)
	root.Set(GlobalKey, global)
	return ast.MappingValue(root)
}

func isIncludesPath(path []string) bool {
	return len(path) == 2 && path[0] == GlobalKey && path[1] == IncludesKey
}

// IsTemplatedPath reports whether a path contains template delimiters and
// must not be resolved.
func IsTemplatedPath(p string) bool {
	return strings.Contains(p, "{{") || strings.Contains(p, "}}")
}

// ProfileNameFromPath derives a profile name from an include file path:
// the base name without a .yaml or .yml extension.
func ProfileNameFromPath(p string) string {
	p = strings.TrimSpace(p)
	name := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		name = p[i+1:]
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".yaml" || ext == ".yml" {
		return name[:len(name)-len(ext)]
	}
	return name
}
