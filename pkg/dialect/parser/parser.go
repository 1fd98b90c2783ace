package parser

import (
	"fmt"
	"os"

	"helm-apps/dialect/pkg/dialect/ast"
	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
)

// Parser parses values documents into ast trees for read-only resolution.
// Edit operations never go through the parser; they work on raw lines.
type Parser struct {
	maxFileSize int64 // Maximum file size in bytes (default: 10MB)
}

// NewParser creates a new parser with default configuration.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024, // 10MB
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	if size > 0 {
		p.maxFileSize = size
	}
	return p
}

// MaxFileSize returns the configured size limit.
func (p *Parser) MaxFileSize() int64 {
	return p.maxFileSize
}

// ParseFile reads and parses the document at path.
func (p *Parser) ParseFile(path string) (ast.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ast.Value{}, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeIO,
			Message:  "failed to access file",
			Location: ast.Location{File: path},
			Cause:    err,
		}
	}

	if info.Size() > p.maxFileSize {
		return ast.Value{}, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ast.Value{}, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeIO,
			Message:  "failed to read file",
			Location: ast.Location{File: path},
			Cause:    err,
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses a document held in memory. sourcePath is used for
// error locations only. An empty document yields an empty mapping.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (ast.Value, error) {
	if int64(len(data)) > p.maxFileSize {
		return ast.Value{}, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	v, err := decodeYAML(data)
	if err != nil {
		return ast.Value{}, &dialectErrors.Error{
			Type:       dialectErrors.ErrorTypeSyntax,
			Message:    "YAML parsing failed",
			Location:   ast.Location{File: sourcePath, Line: syntaxErrorLine(err), Column: 1},
			Suggestion: "Check YAML syntax (indentation, colons, quotes)",
			Cause:      err,
		}
	}

	return v, nil
}

// ParseDocument parses data and requires a mapping root, the shape every
// values document has. A null document becomes an empty mapping.
func (p *Parser) ParseDocument(data []byte, sourcePath string) (ast.Value, error) {
	v, err := p.ParseBytes(data, sourcePath)
	if err != nil {
		return ast.Value{}, err
	}
	switch v.Kind {
	case ast.KindMapping:
		return v, nil
	case ast.KindNull:
		return ast.EmptyMapping(), nil
	default:
		return ast.Value{}, &dialectErrors.Error{
			Type:     dialectErrors.ErrorTypeStructural,
			Message:  fmt.Sprintf("values document must be a YAML map, got %s", v.Kind),
			Location: ast.Location{File: sourcePath, Line: 1, Column: 1},
		}
	}
}

// Parse parses data with a default parser.
func Parse(data []byte, sourcePath string) (ast.Value, error) {
	return NewParser().ParseDocument(data, sourcePath)
}
