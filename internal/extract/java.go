package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// javaExtractor is the C-family extractor for Java.
type javaExtractor struct{}

func newJavaExtractor() Extractor { return &javaExtractor{} }

func (e *javaExtractor) Language() string { return cst.LangJava }

func (e *javaExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "package_declaration":
			name := IdentifierName(ctx, node)
			EmitSymbol(ctx, node, name, model.KindNamespace, parentID, cLikeComments,
				WithSignature(strings.TrimRight(ctx.Text(node), ";")),
				WithVisibility(model.VisibilityPublic))
			return parentID

		case "import_declaration":
			e.emitImport(ctx, node, parentID)
			return parentID

		case "class_declaration", "record_declaration", "enum_declaration", "annotation_type_declaration", "interface_declaration":
			sym := e.emitType(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "method_declaration":
			e.emitMethod(ctx, node, parentID, model.KindMethod)
			return parentID

		case "constructor_declaration":
			e.emitMethod(ctx, node, parentID, model.KindConstructor)
			return parentID

		case "field_declaration":
			e.emitField(ctx, node, parentID)
			return parentID

		case "enum_constant":
			e.emitEnumConstant(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func (e *javaExtractor) emitImport(ctx *Context, node *sitter.Node, parentID string) {
	text := ctx.Text(node)
	isWildcard := strings.HasSuffix(strings.TrimRight(text, "; \t\n"), "*")
	name := lastPathSegment(text)
	if name == "" {
		name = "Anonymous"
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(strings.TrimRight(strings.TrimSpace(text), ";")),
		WithVisibility(model.VisibilityPublic),
		WithMeta("wildcard", isWildcard))
}

// emitType handles class/record/enum/interface/@interface declarations,
// including records, sealed/non-sealed hierarchies, and annotation types.
func (e *javaExtractor) emitType(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	kind := model.KindClass
	refinement := ""

	switch node.Kind() {
	case "interface_declaration":
		kind = model.KindInterface
	case "annotation_type_declaration":
		kind = model.KindInterface
		refinement = "annotation"
	case "record_declaration":
		refinement = "record"
	case "enum_declaration":
		kind = model.KindEnum
	}

	if hasModifierWord(ctx, node, "sealed") {
		refinement = "sealed"
	} else if hasModifierWord(ctx, node, "non-sealed") {
		refinement = "non-sealed"
	}

	sig := signatureUpToBody(ctx, node, "body")
	vis := classifyVisibility(ctx, node, model.VisibilityPackage)

	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
	if refinement != "" {
		sym.SetMeta("type", refinement)
	}

	if kind == model.KindEnum {
		return sym
	}

	// record components are Properties parented to the record.
	if node.Kind() == "record_declaration" {
		if params := node.ChildByFieldName("parameters"); params != nil {
			count := params.NamedChildCount()
			for i := uint(0); i < count; i++ {
				comp := params.NamedChild(i)
				if comp == nil {
					continue
				}
				compName := IdentifierName(ctx, comp)
				EmitSymbol(ctx, comp, compName, model.KindProperty, sym.ID, cLikeComments,
					WithSignature(ctx.Text(comp)), WithVisibility(model.VisibilityPublic))
			}
		}
	}

	return sym
}

func (e *javaExtractor) emitMethod(ctx *Context, node *sitter.Node, parentID string, kind model.Kind) {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	vis := classifyVisibility(ctx, node, model.VisibilityPackage)
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))

	if hasModifierWord(ctx, node, "@Override") {
		sym.SetMeta("override", true)
	}
}

// emitField handles a Java field declaration that may carry multiple
// declarators (`int a, b;`); only the first is emitted as a Symbol.
func (e *javaExtractor) emitField(ctx *Context, node *sitter.Node, parentID string) {
	declarator := node.ChildByFieldName("declarator")
	name := "Anonymous"
	if declarator != nil {
		name = IdentifierName(ctx, declarator)
	} else {
		name = IdentifierName(ctx, node)
	}

	kind := model.KindProperty
	if hasModifierWord(ctx, node, "static") && hasModifierWord(ctx, node, "final") {
		kind = model.KindConstant
	}

	vis := classifyVisibility(ctx, node, model.VisibilityPackage)
	sig := strings.TrimRight(strings.TrimSpace(ctx.Text(node)), ";")
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
}

func (e *javaExtractor) emitEnumConstant(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	EmitSymbol(ctx, node, name, model.KindEnumMember, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))),
		WithVisibility(model.VisibilityPublic))
}

// ExtractRelationships resolves Extends/Implements edges: once all
// file-level symbols exist, the inheritance and implementation clauses
// embedded in each type's signature are resolved to Relationship edges.
func (e *javaExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		switch node.Kind() {
		case "class_declaration", "interface_declaration":
			from := symbolForNode(ctx, node)
			if from == nil {
				return
			}
			if super := node.ChildByFieldName("superclass"); super != nil {
				name := lastTypeIdentifier(ctx, super)
				emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
			}
			if ifaces := node.ChildByFieldName("interfaces"); ifaces != nil {
				for _, name := range allTypeIdentifiers(ctx, ifaces) {
					kind := model.RelImplements
					if node.Kind() == "interface_declaration" {
						kind = model.RelExtends
					}
					emitJavaRel(ctx, from, name, kind, int(node.StartPosition().Row)+1)
				}
			}
		}
	})
}

func emitJavaRel(ctx *Context, from *model.Symbol, name string, kind model.RelationshipKind, line int) {
	if name == "" {
		return
	}
	EmitRelationship(ctx, from, name, kind, line, 0.9, model.ExternalToken(cst.LangJava, name))
}

// symbolForNode finds the Symbol previously emitted for exactly this
// node's span (by identity of position), used when a post-processing
// pass needs to look its own emitted Symbol back up.
func symbolForNode(ctx *Context, node *sitter.Node) *model.Symbol {
	start := node.StartByte()
	end := node.EndByte()
	for _, s := range ctx.Result.Symbols {
		if s.StartByte == start && s.EndByte == end {
			return s
		}
	}
	return nil
}

func lastTypeIdentifier(ctx *Context, node *sitter.Node) string {
	ids := allTypeIdentifiers(ctx, node)
	if len(ids) == 0 {
		return ""
	}
	return ids[len(ids)-1]
}

// typeIdentifierKinds covers the node kinds different grammars use for a
// bare type reference in an extends/implements clause (Java/Kotlin use
// "type_identifier"; JavaScript's class heritage uses plain
// "identifier").
var typeIdentifierKinds = map[string]bool{
	"type_identifier": true,
	"identifier":      true,
}

func allTypeIdentifiers(ctx *Context, node *sitter.Node) []string {
	var out []string
	Walk(ctx, node, func(n *sitter.Node, depth int) {
		if typeIdentifierKinds[n.Kind()] {
			out = append(out, ctx.Text(n))
		}
	})
	return out
}
