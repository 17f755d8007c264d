package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// swiftExtractor is a sibling-language extractor: Swift classes,
// structs, and enums share one grammar shape (class_declaration with a
// kind child), so a single dispatcher distinguishes them by the keyword
// token, same technique as Kotlin's class_declaration modifier probing.
// Protocols (its interface analogue) have their own protocol_declaration
// node and are handled separately.
type swiftExtractor struct{}

func newSwiftExtractor() Extractor { return &swiftExtractor{} }

func (e *swiftExtractor) Language() string { return cst.LangSwift }

func (e *swiftExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "import_declaration":
			text := strings.TrimSpace(ctx.Text(node))
			name := lastPathSegment(strings.TrimPrefix(text, "import"))
			EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
				WithSignature(text), WithVisibility(model.VisibilityPublic))
			return parentID

		case "class_declaration":
			sym := e.emitType(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "protocol_declaration":
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, model.KindInterface, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			return sym.ID

		case "function_declaration":
			e.emitFunction(ctx, node, parentID)
			return parentID

		case "property_declaration":
			e.emitProperty(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func (e *swiftExtractor) emitType(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	text := ctx.Text(node)
	kind := model.KindClass
	switch {
	case strings.HasPrefix(strings.TrimSpace(text), "struct"):
		kind = model.KindStruct
	case strings.HasPrefix(strings.TrimSpace(text), "enum"):
		kind = model.KindEnum
	case strings.Contains(text, "actor "):
		kind = model.KindClass
	}
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
	return sym
}

func (e *swiftExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	kind := model.KindFunction
	if parentID != "" {
		kind = model.KindMethod
	}
	if name == "init" {
		kind = model.KindConstructor
	}
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
}

func (e *swiftExtractor) emitProperty(ctx *Context, node *sitter.Node, parentID string) {
	kind := model.KindProperty
	if hasModifierWord(ctx, node, "let") {
		kind = model.KindConstant
	}
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	name := IdentifierName(ctx, node)
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))), WithVisibility(vis))
}

func (e *swiftExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "class_declaration" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		if inherits := node.ChildByFieldName("inheritance"); inherits != nil {
			for _, name := range allTypeIdentifiers(ctx, inherits) {
				emitJavaRel(ctx, from, name, model.RelImplements, int(node.StartPosition().Row)+1)
			}
		}
	})
}
