package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// kotlinExtractor handles Kotlin's data/sealed classes, companion
// objects, and `const val` constants.
type kotlinExtractor struct{}

func newKotlinExtractor() Extractor { return &kotlinExtractor{} }

func (e *kotlinExtractor) Language() string { return cst.LangKotlin }

func (e *kotlinExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "package_header":
			name := strings.TrimSpace(strings.TrimPrefix(ctx.Text(node), "package"))
			EmitSymbol(ctx, node, name, model.KindNamespace, parentID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(node))),
				WithVisibility(model.VisibilityPublic))
			return parentID

		case "import_header":
			text := strings.TrimSpace(ctx.Text(node))
			name := lastPathSegment(strings.TrimPrefix(text, "import"))
			wildcard := strings.HasSuffix(text, ".*")
			EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
				WithSignature(text), WithVisibility(model.VisibilityPublic),
				WithMeta("wildcard", wildcard))
			return parentID

		case "class_declaration":
			sym := e.emitClass(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "object_declaration", "companion_object":
			sym := e.emitObject(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "function_declaration":
			e.emitFunction(ctx, node, parentID)
			return parentID

		case "property_declaration":
			e.emitProperty(ctx, node, parentID)
			return parentID

		case "enum_entry":
			name := IdentifierName(ctx, node)
			EmitSymbol(ctx, node, name, model.KindEnumMember, parentID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(node))),
				WithVisibility(model.VisibilityPublic))
			return parentID
		}
		return parentID
	})
}

func (e *kotlinExtractor) emitClass(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	kind := model.KindClass
	refinement := ""

	text := ctx.Text(node)
	if hasModifierWord(ctx, node, "interface") || strings.Contains(text, "interface ") {
		kind = model.KindInterface
		if hasModifierWord(ctx, node, "fun") {
			refinement = "fun-interface"
		}
	}
	if hasModifierWord(ctx, node, "enum") {
		kind = model.KindEnum
	}
	if hasModifierWord(ctx, node, "data") {
		refinement = "data"
	}
	if hasModifierWord(ctx, node, "sealed") {
		refinement = "sealed"
	}

	sig := signatureUpToBody(ctx, node, "body", "class_body")
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)

	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
	if refinement != "" {
		sym.SetMeta("type", refinement)
	}
	return sym
}

// emitObject handles both top-level `object Foo` and `companion object`
// declarations inside a class body; Kotlin's `const val` is only legal
// inside one of these, or at file scope (Kotlin note).
func (e *kotlinExtractor) emitObject(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	isCompanion := node.Kind() == "companion_object" || hasModifierWord(ctx, node, "companion")
	if isCompanion {
		named := false
		for i := uint(0); i < node.ChildCount(); i++ {
			if c := node.Child(i); c != nil && identifierLikeKinds[c.Kind()] {
				named = true
			}
		}
		if !named {
			name = "Companion"
		}
	}

	sig := signatureUpToBody(ctx, node, "body", "class_body")
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	sym := EmitSymbol(ctx, node, name, model.KindClass, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
	if isCompanion {
		sym.SetMeta("type", "companion")
	}
	return sym
}

func (e *kotlinExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	sym := EmitSymbol(ctx, node, name, model.KindFunction, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))

	if hasModifierWord(ctx, node, "override") {
		sym.SetMeta("override", true)
	}
}

// emitProperty handles `val`/`var` property declarations, treating
// `const val` as Constant and everything else as Property.
func (e *kotlinExtractor) emitProperty(ctx *Context, node *sitter.Node, parentID string) {
	var name string
	if decl := node.ChildByFieldName("variable"); decl != nil {
		name = IdentifierName(ctx, decl)
	} else {
		name = IdentifierName(ctx, node)
	}

	kind := model.KindProperty
	if hasModifierWord(ctx, node, "const") {
		kind = model.KindConstant
	}

	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	sig := strings.TrimSpace(ctx.Text(node))
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
}

// ExtractRelationships resolves Kotlin's `:` supertype/interface
// delegation list the same way Java resolves extends/implements.
func (e *kotlinExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "class_declaration" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		delegations := node.ChildByFieldName("delegation_specifiers")
		if delegations == nil {
			return
		}
		for _, name := range allTypeIdentifiers(ctx, delegations) {
			kind := model.RelImplements
			if hasModifierWord(ctx, node, "interface") {
				kind = model.RelExtends
			}
			emitJavaRel(ctx, from, name, kind, int(node.StartPosition().Row)+1)
		}
	})
}
