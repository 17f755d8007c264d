package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// csharpExtractor reuses the Java-shaped "modifiers list precedes
// declaration" convention (note: C# and Java share the explicit
// modifier-child visibility pattern), defaulting to internal-as-package
// when no modifier is present (fields default to private).
type csharpExtractor struct{}

func newCSharpExtractor() Extractor { return &csharpExtractor{} }

func (e *csharpExtractor) Language() string { return cst.LangCSharp }

func (e *csharpExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "using_directive":
			e.emitUsing(ctx, node, parentID)
			return parentID

		case "namespace_declaration", "file_scoped_namespace_declaration":
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, model.KindNamespace, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			return sym.ID

		case "class_declaration", "record_declaration", "struct_declaration":
			sym := e.emitType(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "interface_declaration":
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, model.KindInterface, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")),
				WithVisibility(classifyVisibility(ctx, node, model.VisibilityPackage)))
			return sym.ID

		case "enum_declaration":
			e.emitEnum(ctx, node, parentID)
			return parentID

		case "method_declaration", "constructor_declaration":
			kind := model.KindMethod
			if node.Kind() == "constructor_declaration" {
				kind = model.KindConstructor
			}
			e.emitMethod(ctx, node, parentID, kind)
			return parentID

		case "property_declaration", "field_declaration":
			e.emitField(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func (e *csharpExtractor) emitUsing(ctx *Context, node *sitter.Node, parentID string) {
	text := strings.TrimSpace(ctx.Text(node))
	name := lastPathSegment(strings.TrimPrefix(text, "using"))
	if name == "" {
		name = "Anonymous"
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(text), WithVisibility(model.VisibilityPublic))
}

func (e *csharpExtractor) emitType(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	kind := model.KindClass
	refinement := ""
	switch node.Kind() {
	case "struct_declaration":
		kind = model.KindStruct
	case "record_declaration":
		refinement = "record"
	}
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPackage)
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
	if refinement != "" {
		sym.SetMeta("type", refinement)
	}
	return sym
}

func (e *csharpExtractor) emitEnum(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPackage)
	sym := EmitSymbol(ctx, node, name, model.KindEnum, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			member := body.NamedChild(i)
			if member == nil {
				continue
			}
			EmitSymbol(ctx, member, IdentifierName(ctx, member), model.KindEnumMember, sym.ID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(member))), WithVisibility(model.VisibilityPublic))
		}
	}
}

func (e *csharpExtractor) emitMethod(ctx *Context, node *sitter.Node, parentID string, kind model.Kind) {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPackage)
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
	if hasModifierWord(ctx, node, "override") {
		sym.SetMeta("override", true)
	}
}

func (e *csharpExtractor) emitField(ctx *Context, node *sitter.Node, parentID string) {
	declarator := node.ChildByFieldName("declarator")
	name := "Anonymous"
	if declarator != nil {
		name = IdentifierName(ctx, declarator)
	} else {
		name = IdentifierName(ctx, node)
	}
	kind := model.KindProperty
	if node.Kind() == "field_declaration" {
		kind = model.KindField
	}
	if hasModifierWord(ctx, node, "const") {
		kind = model.KindConstant
	}
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(strings.TrimRight(strings.TrimSpace(ctx.Text(node)), ";")), WithVisibility(vis))
}

func (e *csharpExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		switch node.Kind() {
		case "class_declaration", "struct_declaration", "interface_declaration":
			from := symbolForNode(ctx, node)
			if from == nil {
				return
			}
			if bases := node.ChildByFieldName("bases"); bases != nil {
				for _, name := range allTypeIdentifiers(ctx, bases) {
					emitJavaRel(ctx, from, name, model.RelImplements, int(node.StartPosition().Row)+1)
				}
			}
		}
	})
}
