package index

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/extract"
)

// TreeSitterSymbolParser adapts the core extraction pipeline
// (cst.Manager + extract.Registry, internal/model's Symbol/Relationship)
// to the SymbolParser interface this package's Builder expects.
type TreeSitterSymbolParser struct {
	manager  *cst.Manager
	registry *extract.Registry
}

// NewTreeSitterSymbolParser creates a new TreeSitterSymbolParser.
func NewTreeSitterSymbolParser() (*TreeSitterSymbolParser, error) {
	manager := cst.NewManager(nil)
	registry := extract.NewRegistry()

	return &TreeSitterSymbolParser{
		manager:  manager,
		registry: registry,
	}, nil
}

// ParseFile extracts symbols from a source file using tree-sitter.
func (p *TreeSitterSymbolParser) ParseFile(ctx context.Context, filePath string) ([]SymbolInfo, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	language := cst.DetectLanguage(filePath, content)
	tree, err := p.manager.ParseFile(filePath, content, language)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	defer tree.Close()

	result := extract.Run(ctx, p.registry, tree, filePath, nil, 5*time.Second)

	symbols := make([]SymbolInfo, 0, len(result.Symbols))
	for _, sym := range result.Symbols {
		symbols = append(symbols, SymbolInfo{
			ID:          sym.ID,
			Name:        sym.Name,
			Type:        string(sym.Kind),
			Kind:        string(sym.Kind),
			FilePath:    sym.FilePath,
			StartLine:   sym.StartLine,
			EndLine:     sym.EndLine,
			StartCol:    sym.StartCol,
			EndCol:      sym.EndCol,
			Signature:   sym.Signature,
			DocString:   sym.DocComment,
			Properties:  stringifyMetadata(sym.Metadata),
			LastUpdated: time.Now(),
		})
	}

	return symbols, nil
}

// stringifyMetadata flattens a Symbol's typed metadata map into the
// string-valued Properties map the storage layer persists.
func stringifyMetadata(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}

// SupportedLanguages returns the list of supported programming languages.
func (p *TreeSitterSymbolParser) SupportedLanguages() []string {
	return p.manager.SupportedLanguages()
}

// IsSupported checks if the parser supports the given file.
func (p *TreeSitterSymbolParser) IsSupported(filePath string) bool {
	return cst.DetectLanguage(filePath, nil) != ""
}

// ParseReferences extracts references to known symbols from a source
// file by scanning its text for occurrences of each symbol's name. The
// core's own Relationship edges (Calls/Uses/References) are a more
// precise source for same-file references; this method additionally
// covers cross-file textual occurrences the per-file Relationship list
// cannot see.
func (p *TreeSitterSymbolParser) ParseReferences(ctx context.Context, filePath string, symbolIndex SymbolIndex) ([]Reference, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	var references []Reference
	for _, symbol := range symbolIndex {
		locations := findTextReferences(symbol.Name, content)
		for _, loc := range locations {
			references = append(references, Reference{
				SymbolID: symbol.ID,
				FilePath: filePath,
				Line:     loc.line,
				Column:   loc.column,
				Kind:     "reference",
			})
		}
	}

	return references, nil
}

type textLocation struct {
	line   int
	column int
}

func findTextReferences(name string, content []byte) []textLocation {
	if name == "" {
		return nil
	}
	var out []textLocation
	lines := strings.Split(string(content), "\n")

	for lineNum, line := range lines {
		col := strings.Index(line, name)
		for col >= 0 {
			if isValidReference(line, col, name) {
				out = append(out, textLocation{line: lineNum + 1, column: col + 1})
			}
			remaining := line[col+len(name):]
			nextCol := strings.Index(remaining, name)
			if nextCol < 0 {
				break
			}
			col = col + len(name) + nextCol
		}
	}
	return out
}

// isValidReference performs basic validation to reduce false positives.
func isValidReference(line string, col int, symbolName string) bool {
	if col > 0 {
		prevChar := line[col-1]
		if isIdentifierChar(prevChar) {
			return false
		}
	}

	endCol := col + len(symbolName)
	if endCol < len(line) {
		nextChar := line[endCol]
		if isIdentifierChar(nextChar) {
			return false
		}
	}

	return true
}

// isIdentifierChar checks if a character can be part of an identifier.
func isIdentifierChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '$'
}

// SupportsReferences indicates if this parser can extract references.
func (p *TreeSitterSymbolParser) SupportsReferences() bool {
	return true
}

// Close releases resources used by the parser. The new pipeline owns no
// closable resources beyond the per-call Tree, which callers close
// themselves.
func (p *TreeSitterSymbolParser) Close() error {
	return nil
}
