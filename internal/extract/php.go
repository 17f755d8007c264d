package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// phpExtractor is a sibling-language extractor reusing the
// hash-comment-family doc discovery and the modifiers-list visibility
// pattern shared with Java/C#/Kotlin.
type phpExtractor struct{}

func newPHPExtractor() Extractor { return &phpExtractor{} }

func (e *phpExtractor) Language() string { return cst.LangPHP }

func (e *phpExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "namespace_use_declaration":
			e.emitUse(ctx, node, parentID)
			return parentID

		case "class_declaration", "trait_declaration":
			kind := model.KindClass
			if node.Kind() == "trait_declaration" {
				kind = model.KindTrait
			}
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, kind, parentID, hashComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			return sym.ID

		case "interface_declaration":
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, model.KindInterface, parentID, hashComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			return sym.ID

		case "method_declaration", "function_definition":
			kind := model.KindFunction
			if node.Kind() == "method_declaration" {
				kind = model.KindMethod
			}
			name := IdentifierName(ctx, node)
			if name == "__construct" {
				kind = model.KindConstructor
			}
			vis := classifyVisibility(ctx, node, model.VisibilityPublic)
			EmitSymbol(ctx, node, name, kind, parentID, hashComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
			return parentID

		case "property_declaration":
			e.emitProperty(ctx, node, parentID)
			return parentID

		case "const_declaration":
			e.emitConst(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func (e *phpExtractor) emitUse(ctx *Context, node *sitter.Node, parentID string) {
	text := strings.TrimSpace(ctx.Text(node))
	name := lastPathSegment(strings.TrimPrefix(text, "use"))
	if name == "" {
		name = "Anonymous"
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, hashComments,
		WithSignature(text), WithVisibility(model.VisibilityPublic))
}

func (e *phpExtractor) emitProperty(ctx *Context, node *sitter.Node, parentID string) {
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "property_element" {
			continue
		}
		name := strings.TrimPrefix(IdentifierName(ctx, child), "$")
		EmitSymbol(ctx, child, name, model.KindProperty, parentID, hashComments,
			WithSignature(strings.TrimSpace(ctx.Text(child))), WithVisibility(vis))
	}
}

func (e *phpExtractor) emitConst(ctx *Context, node *sitter.Node, parentID string) {
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "const_element" {
			continue
		}
		EmitSymbol(ctx, child, IdentifierName(ctx, child), model.KindConstant, parentID, hashComments,
			WithSignature(strings.TrimSpace(ctx.Text(child))), WithVisibility(vis))
	}
}

func (e *phpExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "class_declaration" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		if base := node.ChildByFieldName("base_clause"); base != nil {
			for _, name := range allTypeIdentifiers(ctx, base) {
				emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
			}
		}
		if iface := node.ChildByFieldName("interfaces"); iface != nil {
			for _, name := range allTypeIdentifiers(ctx, iface) {
				emitJavaRel(ctx, from, name, model.RelImplements, int(node.StartPosition().Row)+1)
			}
		}
	})
}
