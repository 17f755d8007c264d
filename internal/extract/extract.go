// Package extract implements the Base Extractor and the
// per-language extractors that turn a cst.Tree into the uniform
// Symbol/Relationship/TypeInfo model (internal/model).
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// Extractor is the contract every per-language realization satisfies:
// a small interface plus a tagged variant (Registry) selecting the
// concrete extractor by language tag, in place of a class hierarchy.
type Extractor interface {
	// Language returns the language tag this extractor handles.
	Language() string

	// ExtractSymbols walks the tree and appends Symbols to ctx.Result.
	ExtractSymbols(ctx *Context)

	// ExtractRelationships runs after ExtractSymbols has populated the
	// file's full symbol table and appends Relationships to ctx.Result.
	ExtractRelationships(ctx *Context)
}

// Registry maps language tags to their Extractor.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns a Registry with every extractor in this package
// registered.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[string]Extractor)}
	for _, e := range []Extractor{
		newGoExtractor(),
		newPythonExtractor(),
		newJavaScriptExtractor(cst.LangJavaScript),
		newJavaScriptExtractor(cst.LangTypeScript),
		newJavaExtractor(),
		newKotlinExtractor(),
		newRustExtractor(),
		newRubyExtractor(),
		newBashExtractor(),
		newCExtractor(),
		newCppExtractor(),
		newCSharpExtractor(),
		newPHPExtractor(),
		newSwiftExtractor(),
		newScalaExtractor(),
	} {
		r.extractors[e.Language()] = e
	}
	return r
}

// Lookup returns the Extractor for a language tag, or nil if unsupported.
func (r *Registry) Lookup(language string) Extractor {
	return r.extractors[language]
}

// Context carries everything a per-language Extractor needs for one file
// run: the parse tree, the accumulators it appends to, the id allocator,
// the logger, and cooperative cancellation/deadline state.
type Context struct {
	Tree     *cst.Tree
	FilePath string
	Language string
	Result   *model.FileResult
	Log      *slog.Logger

	ids      *model.IDAllocator
	deadline time.Time
	ctx      context.Context
}

func newContext(tree *cst.Tree, filePath string, log *slog.Logger, deadline time.Time, parent context.Context) *Context {
	if log == nil {
		log = slog.Default()
	}
	if parent == nil {
		parent = context.Background()
	}
	return &Context{
		Tree:     tree,
		FilePath: filePath,
		Language: tree.Language,
		Result:   model.NewFileResult(filePath, tree.Language),
		Log:      log,
		ids:      model.NewIDAllocator(),
		deadline: deadline,
		ctx:      parent,
	}
}

// deadlineExceeded reports whether the per-file soft deadline has passed
// or, when a deadline is set, whether the parent context is done.
// The walker checks this cooperatively between nodes; it does not
// preempt mid-node.
func (c *Context) deadlineExceeded() bool {
	if c.deadline.IsZero() {
		return false
	}
	if time.Now().After(c.deadline) {
		return true
	}
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Run extracts one file's Symbols, Relationships, and Types. It never
// returns an error from the extraction itself: everything below the
// per-file boundary is caught and logged, and the extractor always
// returns a (possibly empty) result. ParseFatal is produced earlier, by
// the Parser Manager, before Run is ever called.
func Run(ctx context.Context, reg *Registry, tree *cst.Tree, filePath string, log *slog.Logger, softDeadline time.Duration) *model.FileResult {
	ex := reg.Lookup(tree.Language)
	if ex == nil {
		return model.NewFileResult(filePath, tree.Language)
	}

	var deadline time.Time
	if softDeadline > 0 {
		deadline = time.Now().Add(softDeadline)
	}

	ec := newContext(tree, filePath, log, deadline, ctx)

	runGuarded(ec, "ExtractSymbols", ex.ExtractSymbols)
	if ec.deadlineExceeded() {
		ec.Result.Truncated = true
		ec.Log.Warn("extraction truncated by deadline before relationships", "file", filePath)
		return ec.Result
	}

	runGuarded(ec, "ExtractRelationships", ex.ExtractRelationships)
	if ec.deadlineExceeded() {
		ec.Result.Truncated = true
		ec.Log.Warn("extraction truncated by deadline during relationships", "file", filePath)
	}

	return ec.Result
}

// runGuarded calls fn and converts any panic into a WARN log: a crash in
// one extractor phase never aborts a sibling file's extraction.
func runGuarded(ec *Context, phase string, fn func(*Context)) {
	defer func() {
		if r := recover(); r != nil {
			ec.Log.Warn("extractor phase panicked, returning partial results", "file", ec.FilePath, "phase", phase, "recover", r)
		}
	}()
	fn(ec)
}
