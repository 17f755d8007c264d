package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// cExtractor is a sibling-language extractor: C has no
// visibility modifiers at all; `static` at file scope is the closest
// analogue to private, everything else defaults to public.
type cExtractor struct{}

func newCExtractor() Extractor { return &cExtractor{} }

func (e *cExtractor) Language() string { return cst.LangC }

func (e *cExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "preproc_include":
			e.emitInclude(ctx, node, parentID)
			return parentID

		case "function_definition":
			e.emitFunction(ctx, node, parentID)
			return parentID

		case "struct_specifier", "union_specifier":
			sym := e.emitStruct(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "enum_specifier":
			sym := e.emitEnum(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "type_definition":
			e.emitTypedef(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func cVisibility(ctx *Context, node *sitter.Node) model.Visibility {
	if hasModifierWord(ctx, node, "static") {
		return model.VisibilityPrivate
	}
	return model.VisibilityPublic
}

func (e *cExtractor) emitInclude(ctx *Context, node *sitter.Node, parentID string) {
	path := node.ChildByFieldName("path")
	text := strings.TrimSpace(ctx.Text(node))
	name := "Anonymous"
	if path != nil {
		name = lastPathSegment(strings.Trim(ctx.Text(path), "\"<>"))
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(text), WithVisibility(model.VisibilityPublic))
}

func (e *cExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string) {
	declarator := node.ChildByFieldName("declarator")
	name := IdentifierName(ctx, node)
	if declarator != nil {
		name = IdentifierName(ctx, declarator)
	}
	sig := signatureUpToBody(ctx, node, "body")
	EmitSymbol(ctx, node, name, model.KindFunction, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(cVisibility(ctx, node)))
}

func (e *cExtractor) emitStruct(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	kind := model.KindStruct
	if node.Kind() == "union_specifier" {
		kind = model.KindUnion
	}
	name := IdentifierName(ctx, node)
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			field := body.NamedChild(i)
			if field == nil || field.Kind() != "field_declaration" {
				continue
			}
			declarator := field.ChildByFieldName("declarator")
			fieldName := IdentifierName(ctx, field)
			if declarator != nil {
				fieldName = IdentifierName(ctx, declarator)
			}
			EmitSymbol(ctx, field, fieldName, model.KindField, sym.ID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(field))), WithVisibility(model.VisibilityPublic))
		}
	}
	return sym
}

func (e *cExtractor) emitEnum(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	sym := EmitSymbol(ctx, node, name, model.KindEnum, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			member := body.NamedChild(i)
			if member == nil || member.Kind() != "enumerator" {
				continue
			}
			EmitSymbol(ctx, member, IdentifierName(ctx, member), model.KindEnumMember, sym.ID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(member))), WithVisibility(model.VisibilityPublic))
		}
	}
	return sym
}

func (e *cExtractor) emitTypedef(ctx *Context, node *sitter.Node, parentID string) {
	declarator := node.ChildByFieldName("declarator")
	name := IdentifierName(ctx, node)
	if declarator != nil {
		name = IdentifierName(ctx, declarator)
	}
	EmitSymbol(ctx, node, name, model.KindType, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(strings.TrimRight(ctx.Text(node), ";"))),
		WithVisibility(model.VisibilityPublic))
}

func (e *cExtractor) ExtractRelationships(ctx *Context) {}
