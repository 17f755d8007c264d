// Package cst implements the Parser Manager: it loads a grammar per
// language and produces parse trees for (path, source) pairs shared
// read-only across concurrent extractors.
package cst

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ParseFatalError is raised when a tree cannot be built at all. It is
// the only error that escapes the Parser Manager.
type ParseFatalError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *ParseFatalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse fatal: %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("parse fatal: %s: %s", e.Path, e.Reason)
}

func (e *ParseFatalError) Unwrap() error { return e.Cause }

// Tree pairs a tree-sitter parse tree with the source bytes it was built
// from and the language tag used to parse it. Trees are immutable once
// returned and safe to share read-only with concurrent extractors.
type Tree struct {
	Root     *sitter.Node
	Source   []byte
	Language string
	raw      *sitter.Tree
}

// Close releases the underlying tree-sitter tree. Extractors that only
// read Root/Source do not need to call this; the Manager's caller owns
// the lifetime.
func (t *Tree) Close() {
	if t.raw != nil {
		t.raw.Close()
	}
}

// Text returns the byte-exact slice source[node.StartByte():node.EndByte()].
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(t.Source)) {
		end = uint(len(t.Source))
	}
	if start > end {
		return ""
	}
	return string(t.Source[start:end])
}

// Manager loads one tree-sitter grammar per language tag and parses
// source into Trees. It is safe for concurrent use: grammar lookups are
// memoized behind a mutex, and *sitter.Language values are themselves
// read-only once constructed.
type Manager struct {
	mu        sync.Mutex
	languages map[string]*sitter.Language
	log       *slog.Logger
}

// NewManager returns a Manager with the built-in grammar set registered
// (see languages.go for the concrete per-language registrations).
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		languages: make(map[string]*sitter.Language),
		log:       log,
	}
	registerBuiltinLanguages(m)
	return m
}

// Register installs a grammar under the given language tag. Later calls
// for the same tag overwrite the previous grammar.
func (m *Manager) Register(language string, lang *sitter.Language) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.languages[language] = lang
}

// Supports reports whether a grammar is registered for language.
func (m *Manager) Supports(language string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.languages[language]
	return ok
}

// SupportedLanguages returns the registered language tags.
func (m *Manager) SupportedLanguages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.languages))
	for lang := range m.languages {
		out = append(out, lang)
	}
	return out
}

func (m *Manager) language(language string) *sitter.Language {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.languages[language]
}

// ParseFile parses (path, source) and returns a Tree. Language is
// detected from the path unless overridden by DetectLanguage's own
// heuristics having already been applied by the caller. A grammar tree
// is built even over malformed input: per-node malformation surfaces as
// error nodes within the tree (node.HasError()), never as an error
// return. Only a grammar that cannot be loaded, or a parser that returns
// a nil tree outright, produces ParseFatalError.
func (m *Manager) ParseFile(path string, source []byte, language string) (*Tree, error) {
	if language == "" {
		language = DetectLanguage(path, source)
	}
	if language == "" {
		return nil, &ParseFatalError{Path: path, Reason: "no grammar for file"}
	}

	sitterLang := m.language(language)
	if sitterLang == nil {
		return nil, &ParseFatalError{Path: path, Reason: fmt.Sprintf("unregistered language %q", language)}
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(sitterLang); err != nil {
		return nil, &ParseFatalError{Path: path, Reason: "set language", Cause: err}
	}

	raw := parser.Parse(source, nil)
	if raw == nil {
		return nil, &ParseFatalError{Path: path, Reason: "parser returned no tree"}
	}

	root := raw.RootNode()
	if root == nil {
		raw.Close()
		return nil, &ParseFatalError{Path: path, Reason: "empty root node"}
	}

	if root.HasError() {
		m.log.Warn("parse tree contains error nodes", "path", path, "language", language)
	}

	return &Tree{Root: root, Source: source, Language: language, raw: raw}, nil
}

// DetectLanguage determines the language for a file using, in order: file
// extension, known filename, shebang line (requires content).
func DetectLanguage(filePath string, content []byte) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if lang, ok := langExtensions[ext]; ok {
		return lang
	}

	base := filepath.Base(filePath)
	if lang, ok := langFilenames[base]; ok {
		return lang
	}

	if len(content) > 0 {
		return detectShebang(content)
	}
	return ""
}

func detectShebang(content []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	if !scanner.Scan() {
		return ""
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return ""
	}

	shebang := strings.TrimSpace(strings.TrimPrefix(line, "#!"))
	parts := strings.Fields(shebang)
	if len(parts) == 0 {
		return ""
	}

	interpreter := filepath.Base(parts[0])
	if interpreter == "env" && len(parts) > 1 {
		interpreter = filepath.Base(parts[1])
	}

	if lang, ok := shebangLangs[interpreter]; ok {
		return lang
	}
	stripped := strings.TrimRight(interpreter, "0123456789.")
	if lang, ok := shebangLangs[stripped]; ok {
		return lang
	}
	return ""
}
