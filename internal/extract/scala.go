package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// scalaExtractor is a sibling-language extractor: Scala's
// `object` declarations are emitted as Class with an "object" metadata
// refinement, the same refinement technique Kotlin's companion objects
// use.
type scalaExtractor struct{}

func newScalaExtractor() Extractor { return &scalaExtractor{} }

func (e *scalaExtractor) Language() string { return cst.LangScala }

func (e *scalaExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "import_declaration":
			text := strings.TrimSpace(ctx.Text(node))
			name := lastPathSegment(strings.TrimPrefix(text, "import"))
			wildcard := strings.HasSuffix(strings.TrimSpace(text), "_") || strings.HasSuffix(strings.TrimSpace(text), "*")
			EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
				WithSignature(text), WithVisibility(model.VisibilityPublic), WithMeta("wildcard", wildcard))
			return parentID

		case "class_definition", "trait_definition":
			kind := model.KindClass
			if node.Kind() == "trait_definition" {
				kind = model.KindTrait
			}
			name := IdentifierName(ctx, node)
			vis := classifyVisibility(ctx, node, model.VisibilityPublic)
			sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
			if hasModifierWord(ctx, node, "case") {
				sym.SetMeta("type", "case-class")
			}
			return sym.ID

		case "object_definition":
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, model.KindClass, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			sym.SetMeta("type", "object")
			return sym.ID

		case "function_definition":
			e.emitFunction(ctx, node, parentID)
			return parentID

		case "val_definition", "var_definition":
			e.emitVal(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func (e *scalaExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	kind := model.KindFunction
	if parentID != "" {
		kind = model.KindMethod
	}
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
}

func (e *scalaExtractor) emitVal(ctx *Context, node *sitter.Node, parentID string) {
	kind := model.KindProperty
	if node.Kind() == "val_definition" {
		kind = model.KindConstant
	}
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	name := IdentifierName(ctx, node)
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))), WithVisibility(vis))
}

func (e *scalaExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "class_definition" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		if ext := node.ChildByFieldName("extends"); ext != nil {
			for _, name := range allTypeIdentifiers(ctx, ext) {
				emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
			}
		}
	})
}
