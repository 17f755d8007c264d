package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/model"
)

// cLikeComments covers the "comment" node kind shared by the C-family
// (Java, Kotlin, JavaScript/TypeScript, Rust, Scala, C, C++, C#) grammars,
// with its doc-comment markers.
var cLikeComments = CommentSet{
	Kinds:       map[string]bool{"comment": true},
	DocPrefixes: []string{"///", "/**"},
}

// hashComments covers the "#"-comment grammars (Python, Ruby, Bash, PHP).
var hashComments = CommentSet{
	Kinds:       map[string]bool{"comment": true},
	DocPrefixes: nil, // no universal doc marker; any preceding comment counts
}

// signatureUpToBody reconstructs a canonical signature by taking the
// node's own text up to (but excluding) the first present body-like
// field: keyword, modifiers in source order, generics, parameter list,
// return/throws clauses, all without re-deriving each piece by hand,
// since everything preceding the body is exactly that material in
// source order. The Ruby and Rust extractors use the same slice-to-the-
// body's-start-byte technique.
func signatureUpToBody(ctx *Context, node *sitter.Node, bodyFields ...string) string {
	text := ctx.Text(node)
	for _, field := range bodyFields {
		if body := node.ChildByFieldName(field); body != nil {
			rel := body.StartByte() - node.StartByte()
			if int(rel) <= len(text) {
				text = text[:rel]
			}
			break
		}
	}
	return strings.TrimRight(strings.TrimSpace(text), "{ \t\n\r")
}

// hasModifierWord reports whether node's "modifiers"-shaped child (or
// node itself) contains word as a direct child's text.
func hasModifierWord(ctx *Context, node *sitter.Node, word string) bool {
	if node == nil {
		return false
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if ctx.Text(child) == word {
			return true
		}
		if strings.Contains(child.Kind(), "modifier") && hasModifierWord(ctx, child, word) {
			return true
		}
	}
	return false
}

// classifyVisibility applies visibility heuristic: explicit
// modifier child first, then substring probe, then the supplied default
// for when the language leaves the modifier implicit (invariant 6).
func classifyVisibility(ctx *Context, node *sitter.Node, fallback model.Visibility) model.Visibility {
	if v, ok := VisibilityFromModifiers(ctx, node); ok {
		return v
	}
	if v, ok := VisibilityFromText(ctx.Text(node)); ok {
		return v
	}
	return fallback
}

// lastPathSegment returns the last '.'- or '::'-delimited segment of a
// dotted/scoped path, used for import/use symbol naming across several
// languages (wildcard imports, `use` paths).
func lastPathSegment(path string) string {
	path = strings.TrimSuffix(strings.TrimSpace(path), ";")
	path = strings.TrimSuffix(path, ".*")
	path = strings.TrimSuffix(path, "::*")
	sep := "."
	if strings.Contains(path, "::") {
		sep = "::"
	}
	parts := strings.Split(path, sep)
	return strings.TrimSpace(parts[len(parts)-1])
}
