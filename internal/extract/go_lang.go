package extract

import (
	"strings"
	"unicode"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// goExtractor is a sibling-language extractor: Go's visibility
// is lexical (exported iff the identifier's first rune is upper-case),
// so it needs no modifier/text heuristic at all.
type goExtractor struct{}

func newGoExtractor() Extractor { return &goExtractor{} }

func (e *goExtractor) Language() string { return cst.LangGo }

func (e *goExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "package_clause":
			name := strings.TrimSpace(strings.TrimPrefix(ctx.Text(node), "package"))
			EmitSymbol(ctx, node, name, model.KindNamespace, parentID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(node))), WithVisibility(model.VisibilityPublic))
			return parentID

		case "import_spec":
			e.emitImport(ctx, node, parentID)
			return parentID

		case "function_declaration":
			e.emitFunc(ctx, node, parentID, model.KindFunction)
			return parentID

		case "method_declaration":
			e.emitFunc(ctx, node, parentID, model.KindMethod)
			return parentID

		case "type_spec":
			sym := e.emitType(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "const_spec":
			e.emitSpecNames(ctx, node, parentID, model.KindConstant)
			return parentID

		case "var_spec":
			e.emitSpecNames(ctx, node, parentID, model.KindVariable)
			return parentID
		}
		return parentID
	})
}

func goVisibility(name string) model.Visibility {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return model.VisibilityPublic
		}
		break
	}
	return model.VisibilityPrivate
}

func (e *goExtractor) emitImport(ctx *Context, node *sitter.Node, parentID string) {
	path := node.ChildByFieldName("path")
	text := ""
	if path != nil {
		text = strings.Trim(ctx.Text(path), "\"")
	}
	name := lastPathSegment(text)
	if alias := node.ChildByFieldName("name"); alias != nil {
		name = ctx.Text(alias)
	}
	if name == "" {
		name = "Anonymous"
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))),
		WithVisibility(model.VisibilityPublic), WithMeta("path", text))
}

func (e *goExtractor) emitFunc(ctx *Context, node *sitter.Node, parentID string, kind model.Kind) {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(goVisibility(name)))

	if recv := node.ChildByFieldName("receiver"); recv != nil {
		sym.SetMeta("receiver", strings.TrimSpace(ctx.Text(recv)))
	}
}

func (e *goExtractor) emitType(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	kind := model.KindType
	typeNode := node.ChildByFieldName("type")
	if typeNode != nil {
		switch typeNode.Kind() {
		case "struct_type":
			kind = model.KindStruct
		case "interface_type":
			kind = model.KindInterface
		}
	}
	sig := strings.TrimSpace(ctx.Text(node))
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(goVisibility(name)))

	if kind == model.KindStruct && typeNode != nil {
		if fields := typeNode.ChildByFieldName("body"); fields != nil {
			count := fields.NamedChildCount()
			for i := uint(0); i < count; i++ {
				field := fields.NamedChild(i)
				if field == nil || field.Kind() != "field_declaration" {
					continue
				}
				fieldName := IdentifierName(ctx, field)
				EmitSymbol(ctx, field, fieldName, model.KindField, sym.ID, cLikeComments,
					WithSignature(strings.TrimSpace(ctx.Text(field))),
					WithVisibility(goVisibility(fieldName)))
			}
		}
	}
	return sym
}

func (e *goExtractor) emitSpecNames(ctx *Context, node *sitter.Node, parentID string, kind model.Kind) {
	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() != "identifier" {
			continue
		}
		name := ctx.Text(child)
		EmitSymbol(ctx, child, name, kind, parentID, cLikeComments,
			WithSignature(strings.TrimSpace(ctx.Text(node))),
			WithVisibility(goVisibility(name)))
	}
}

// ExtractRelationships resolves struct embedding (anonymous fields) as
// Extends edges. Interface method-set satisfaction is not resolved;
// structural interfaces aren't declared with an explicit edge in Go
// source.
func (e *goExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "field_declaration" {
			return
		}
		if node.ChildByFieldName("name") != nil {
			return
		}
		typeNode := node.ChildByFieldName("type")
		if typeNode == nil {
			return
		}
		enclosing := FindContainingSymbol(ctx.Result.Symbols, node.StartByte())
		if enclosing == nil {
			return
		}
		name := lastTypeIdentifier(ctx, typeNode)
		if name == "" {
			name = strings.TrimSpace(ctx.Text(typeNode))
		}
		emitJavaRel(ctx, enclosing, name, model.RelExtends, int(node.StartPosition().Row)+1)
	})
}
