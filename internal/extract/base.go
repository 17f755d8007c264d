package extract

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/model"
)

// Walk performs a depth-first pre-order traversal, calling visit(node,
// depth) for every node starting at root. This is the "plain" walk
// flavor; it does not thread a parentId. Per-node panics are caught and
// logged so one malformed subtree never aborts the walk of its
// siblings.
func Walk(ctx *Context, root *sitter.Node, visit func(node *sitter.Node, depth int)) {
	var walk func(node *sitter.Node, depth int)
	walk = func(node *sitter.Node, depth int) {
		if node == nil || ctx.deadlineExceeded() {
			return
		}
		func() {
			defer recoverNode(ctx, node, "Walk")
			visit(node, depth)
		}()
		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(node.Child(i), depth+1)
		}
	}
	walk(root, 0)
}

// WalkScoped performs a depth-first pre-order traversal threading an
// optional parentId: visit returns the parentId that should be used for
// node's children (typically parentId unchanged, or a newly emitted
// Symbol's id when node itself became a container). This is the
// "parentId-threading" walk flavor used for symbol emission so parent
// linkage follows the nearest enclosing emitted Symbol automatically.
func WalkScoped(ctx *Context, root *sitter.Node, parentID string, visit func(node *sitter.Node, parentID string) string) {
	var walk func(node *sitter.Node, parentID string)
	walk = func(node *sitter.Node, parentID string) {
		if node == nil || ctx.deadlineExceeded() {
			return
		}
		next := parentID
		func() {
			defer recoverNode(ctx, node, "WalkScoped")
			next = visit(node, parentID)
		}()
		count := node.ChildCount()
		for i := uint(0); i < count; i++ {
			walk(node.Child(i), next)
		}
	}
	walk(root, parentID)
}

func recoverNode(ctx *Context, node *sitter.Node, phase string) {
	if r := recover(); r != nil {
		nodeType := ""
		if node != nil {
			nodeType = node.Kind()
		}
		ctx.Log.Warn("node extraction failed, continuing with siblings",
			"file", ctx.FilePath, "phase", phase, "nodeType", nodeType, "recover", r)
	}
}

// Text returns the byte-exact slice of source text for node.
func (c *Context) Text(node *sitter.Node) string {
	return c.Tree.Text(node)
}

// CommentSet names the node kinds a language's grammar uses for
// comments, and the doc-marker prefixes (e.g. "///", "/**") that make a
// comment a doc comment.
type CommentSet struct {
	Kinds       map[string]bool
	DocPrefixes []string
}

func isComment(node *sitter.Node, cs CommentSet) bool {
	if node == nil {
		return false
	}
	return cs.Kinds[node.Kind()]
}

func looksLikeDoc(text string, cs CommentSet) bool {
	trimmed := strings.TrimSpace(text)
	if len(cs.DocPrefixes) == 0 {
		return true
	}
	for _, p := range cs.DocPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// DocComment implements doc-comment discovery: look at node's
// immediate previous named sibling; if it is a comment, return its text.
// Otherwise scan preceding siblings of node.Parent() for the last
// comment whose row < node's start row and whose text looks like a doc
// comment. Returns "" if none found.
func DocComment(ctx *Context, node *sitter.Node, cs CommentSet) string {
	if node == nil {
		return ""
	}

	if prev := node.PrevNamedSibling(); prev != nil && isComment(prev, cs) {
		return strings.TrimSpace(ctx.Text(prev))
	}

	parent := node.Parent()
	if parent == nil {
		return ""
	}

	startRow := node.StartPosition().Row
	var best *sitter.Node
	count := parent.ChildCount()
	for i := uint(0); i < count; i++ {
		child := parent.Child(i)
		if child == nil || child.StartPosition().Row >= startRow {
			continue
		}
		if !isComment(child, cs) {
			continue
		}
		text := ctx.Text(child)
		if !looksLikeDoc(text, cs) {
			continue
		}
		best = child
	}
	if best == nil {
		return ""
	}
	return strings.TrimSpace(ctx.Text(best))
}

// SymbolOption mutates a Symbol at emission time.
type SymbolOption func(*model.Symbol)

// WithSignature sets the canonical signature text.
func WithSignature(sig string) SymbolOption {
	return func(s *model.Symbol) { s.Signature = sig }
}

// WithDocComment overrides doc-comment discovery with an explicit value.
func WithDocComment(doc string) SymbolOption {
	return func(s *model.Symbol) { s.DocComment = doc }
}

// WithVisibility sets the symbol's visibility.
func WithVisibility(v model.Visibility) SymbolOption {
	return func(s *model.Symbol) { s.Visibility = v }
}

// WithParent sets an explicit parent id, overriding the walk-threaded
// parent. Used by post-processing passes (Rust impl blocks, Ruby
// parallel assignment) that link parents after the fact.
func WithParent(id string) SymbolOption {
	return func(s *model.Symbol) { s.ParentID = id }
}

// WithMeta sets a single metadata key.
func WithMeta(key string, value any) SymbolOption {
	return func(s *model.Symbol) { s.SetMeta(key, value) }
}

// EmitSymbol is the shared Symbol-creation helper ("Symbol
// creation"): it assigns an id by hashing (filePath, name, startRow,
// startCol), perturbing deterministically on collision, runs doc-comment
// discovery unless WithDocComment was supplied, appends the Symbol to
// ctx.Result, and returns it.
func EmitSymbol(ctx *Context, node *sitter.Node, name string, kind model.Kind, parentID string, cs CommentSet, opts ...SymbolOption) *model.Symbol {
	if name == "" {
		name = "Anonymous"
	}

	start := node.StartPosition()
	end := node.EndPosition()

	id := ctx.ids.Allocate(ctx.FilePath, name, int(start.Row), int(start.Column), node.StartByte(), func(prevID string) {
		ctx.Log.Warn("symbol id collision, perturbing", "file", ctx.FilePath, "name", name, "id", prevID)
	})

	sym := &model.Symbol{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Language:  ctx.Language,
		FilePath:  ctx.FilePath,
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		ParentID:  parentID,
	}

	hasDoc := false
	scratch := &model.Symbol{}
	for _, o := range opts {
		before := scratch.DocComment
		o(scratch)
		if scratch.DocComment != before {
			hasDoc = true
		}
	}

	for _, o := range opts {
		o(sym)
	}

	if !hasDoc {
		sym.DocComment = DocComment(ctx, node, cs)
	}

	ctx.Result.Symbols = append(ctx.Result.Symbols, sym)
	return sym
}

// containmentPriority orders container kinds from innermost-preferred to
// outermost for FindContainingSymbol's tiering.
var containmentPriority = []model.Kind{
	model.KindConstructor, model.KindMethod, model.KindFunction,
	model.KindClass, model.KindInterface, model.KindEnum, model.KindNamespace, model.KindModule,
	model.KindStruct, model.KindTrait, model.KindUnion,
}

func tierOf(k model.Kind) int {
	for i, candidate := range containmentPriority {
		if candidate == k {
			return i
		}
	}
	return len(containmentPriority)
}

// FindContainingSymbol returns the innermost Symbol whose span encloses
// byteOffset, applying the priority order functions/methods/constructors
// first, then classes/interfaces/namespaces, then data holders, and
// breaking ties by smaller span.
func FindContainingSymbol(symbols []*model.Symbol, byteOffset uint) *model.Symbol {
	var best *model.Symbol
	bestTier := len(containmentPriority) + 1
	var bestSpan uint

	for _, s := range symbols {
		if !s.EnclosesPoint(byteOffset) {
			continue
		}
		tier := tierOf(s.Kind)
		span := s.Span()
		if best == nil || tier < bestTier || (tier == bestTier && span < bestSpan) {
			best = s
			bestTier = tier
			bestSpan = span
		}
	}
	return best
}

// explicitVisibilityWords are the modifier words a grammar may use to
// spell out an access modifier directly (as opposed to leaving it implicit).
var explicitVisibilityWords = map[string]model.Visibility{
	"public":    model.VisibilityPublic,
	"private":   model.VisibilityPrivate,
	"protected": model.VisibilityProtected,
}

// VisibilityFromModifiers implements the first half of visibility
// heuristic: it scans node's children for a child whose own text is
// exactly "public", "private", or "protected" (true for the common
// "modifiers" containers in Java/Kotlin/C#/PHP grammars where the
// modifier is itself a leaf token), returning (visibility, true) on a
// match.
func VisibilityFromModifiers(ctx *Context, node *sitter.Node) (model.Visibility, bool) {
	if node == nil {
		return "", false
	}
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if v, ok := explicitVisibilityWords[ctx.Text(child)]; ok {
			return v, true
		}
		// One level of nesting covers "modifiers" wrapper nodes.
		if strings.Contains(child.Kind(), "modifier") {
			if v, ok := VisibilityFromModifiers(ctx, child); ok {
				return v, ok
			}
		}
	}
	return "", false
}

// VisibilityFromText implements the substring-probe fallback half of
// visibility heuristic, used when no explicit modifier child node
// is present.
func VisibilityFromText(text string) (model.Visibility, bool) {
	for _, word := range []string{"public", "private", "protected"} {
		if strings.Contains(text, word) {
			return explicitVisibilityWords[word], true
		}
	}
	return "", false
}

var identifierToken = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// identifierLikeKinds are the node kinds treated as identifier-shaped for the
// "first child" fallback in IdentifierName.
var identifierLikeKinds = map[string]bool{
	"identifier":         true,
	"type_identifier":    true,
	"field_identifier":   true,
	"property_identifier": true,
	"simple_identifier":  true,
	"constant":           true,
	"word":               true,
	"name":               true,
}

// IdentifierName implements identifier extraction: prefers the
// "name" named field, then the first identifier-shaped child, then a
// regex token scan over the node's own text, finally "Anonymous".
func IdentifierName(ctx *Context, node *sitter.Node) string {
	if node == nil {
		return "Anonymous"
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		if text := strings.TrimSpace(ctx.Text(nameNode)); text != "" {
			return text
		}
	}

	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil && identifierLikeKinds[child.Kind()] {
			if text := strings.TrimSpace(ctx.Text(child)); text != "" {
				return text
			}
		}
	}

	if match := identifierToken.FindString(ctx.Text(node)); match != "" {
		return match
	}
	return "Anonymous"
}

// ResolveLocalSymbol returns the first Symbol named name in the file's
// symbol table so far, or nil. Relationship resolution
// looks up target ids by name within the file's symbol table this way.
func ResolveLocalSymbol(ctx *Context, name string) *model.Symbol {
	for _, s := range ctx.Result.Symbols {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// EmitRelationship resolves toName against the file's local symbol
// table; if no local Symbol matches, it falls back to externalToken
// (typically model.ExternalToken(lang, name) or model.ModuleToken(path))
// per External token rule. Confidence defaults are the caller's
// responsibility; this never raises RelationshipUnresolved because
// the external-token fallback always produces a valid edge.
func EmitRelationship(ctx *Context, from *model.Symbol, toName string, kind model.RelationshipKind, line int, confidence float64, externalToken string, opts ...func(*model.Relationship)) *model.Relationship {
	if from == nil {
		return nil
	}
	toID := externalToken
	if target := ResolveLocalSymbol(ctx, toName); target != nil {
		toID = target.ID
	}
	rel := &model.Relationship{
		FromSymbolID: from.ID,
		ToSymbolID:   toID,
		Kind:         kind,
		FilePath:     ctx.FilePath,
		Line:         line,
		Confidence:   confidence,
	}
	for _, o := range opts {
		o(rel)
	}
	ctx.Result.Relationships = append(ctx.Result.Relationships, rel)
	return rel
}
