package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/model"
)

// javascriptExtractor covers the shared ECMAScript grammar surface used
// by both JavaScript and TypeScript grammars; lang distinguishes which
// language tag it was registered under (sibling languages note).
type javascriptExtractor struct {
	lang string
}

func newJavaScriptExtractor(lang string) Extractor { return &javascriptExtractor{lang: lang} }

func (e *javascriptExtractor) Language() string { return e.lang }

func (e *javascriptExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "import_statement":
			e.emitImport(ctx, node, parentID)
			return parentID

		case "export_statement":
			e.emitExport(ctx, node, parentID)
			return parentID

		case "class_declaration", "abstract_class_declaration":
			sym := e.emitClass(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "interface_declaration":
			sym := e.emitInterface(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "function_declaration", "generator_function_declaration":
			e.emitFunction(ctx, node, parentID, "name")
			return parentID

		case "method_definition":
			e.emitMethod(ctx, node, parentID)
			return parentID

		case "lexical_declaration", "variable_declaration":
			e.emitVariables(ctx, node, parentID)
			return parentID

		case "enum_declaration":
			sym := e.emitClass(ctx, node, parentID)
			if sym != nil {
				sym.Kind = model.KindEnum
				return sym.ID
			}
			return parentID
		}
		return parentID
	})
}

func (e *javascriptExtractor) emitImport(ctx *Context, node *sitter.Node, parentID string) {
	source := node.ChildByFieldName("source")
	path := ""
	if source != nil {
		path = strings.Trim(ctx.Text(source), "\"'`")
	}
	name := lastPathSegment(path)
	if name == "" {
		name = "Anonymous"
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))),
		WithVisibility(model.VisibilityPublic),
		WithMeta("from", path))
}

func (e *javascriptExtractor) emitExport(ctx *Context, node *sitter.Node, parentID string) {
	decl := node.ChildByFieldName("declaration")
	if decl != nil {
		switch decl.Kind() {
		case "class_declaration", "abstract_class_declaration":
			if sym := e.emitClass(ctx, decl, parentID); sym != nil {
				sym.Visibility = model.VisibilityPublic
			}
		case "function_declaration", "generator_function_declaration":
			e.emitFunction(ctx, decl, parentID, "name")
		case "interface_declaration":
			e.emitInterface(ctx, decl, parentID)
		case "lexical_declaration", "variable_declaration":
			e.emitVariables(ctx, decl, parentID)
		}
		return
	}
	text := strings.TrimSpace(ctx.Text(node))
	name := "default"
	if strings.Contains(text, "export default") {
		name = "default"
	}
	EmitSymbol(ctx, node, name, model.KindExport, parentID, cLikeComments,
		WithSignature(text), WithVisibility(model.VisibilityPublic))
}

func (e *javascriptExtractor) emitClass(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	return EmitSymbol(ctx, node, name, model.KindClass, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
}

func (e *javascriptExtractor) emitInterface(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	return EmitSymbol(ctx, node, name, model.KindInterface, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(model.VisibilityPublic))
}

func (e *javascriptExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string, nameField string) *model.Symbol {
	name := "Anonymous"
	if n := node.ChildByFieldName(nameField); n != nil {
		name = strings.TrimSpace(ctx.Text(n))
	}
	if name == "" || name == "Anonymous" {
		name = IdentifierName(ctx, node)
	}
	sig := signatureUpToBody(ctx, node, "body")
	return EmitSymbol(ctx, node, name, model.KindFunction, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(model.VisibilityPublic))
}

func (e *javascriptExtractor) emitMethod(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	kind := model.KindMethod
	if name == "constructor" {
		kind = model.KindConstructor
	}
	sig := signatureUpToBody(ctx, node, "body")
	vis := classifyVisibility(ctx, node, model.VisibilityPublic)
	if strings.HasPrefix(name, "#") {
		vis = model.VisibilityPrivate
	}
	sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))

	text := ctx.Text(node)
	if strings.Contains(text, "get "+name) {
		sym.SetMeta("accessor", "get")
	} else if strings.Contains(text, "set "+name) {
		sym.SetMeta("accessor", "set")
	}
}

// emitVariables handles top-level `const`/`let`/`var` declarations,
// including arrow-function and function-expression initializers, which
// the grammar represents as declarator.value rather than a named
// function node (sibling note: JS assigns function kind by value
// shape, not by declaration keyword).
func (e *javascriptExtractor) emitVariables(ctx *Context, node *sitter.Node, parentID string) {
	isConst := strings.HasPrefix(strings.TrimSpace(ctx.Text(node)), "const")

	count := node.NamedChildCount()
	for i := uint(0); i < count; i++ {
		decl := node.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := strings.TrimSpace(ctx.Text(nameNode))

		kind := model.KindVariable
		if isConst {
			kind = model.KindConstant
		}

		value := decl.ChildByFieldName("value")
		if value != nil && (value.Kind() == "arrow_function" || value.Kind() == "function_expression" || value.Kind() == "function") {
			kind = model.KindFunction
		}

		EmitSymbol(ctx, decl, name, kind, parentID, cLikeComments,
			WithSignature(strings.TrimSpace(ctx.Text(decl))),
			WithVisibility(model.VisibilityPublic))
	}
}

// ExtractRelationships resolves `extends`/`implements` clauses for
// classes and interfaces.
func (e *javascriptExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		switch node.Kind() {
		case "class_declaration", "abstract_class_declaration":
			from := symbolForNode(ctx, node)
			if from == nil {
				return
			}
			if heritage := node.ChildByFieldName("heritage"); heritage != nil {
				text := ctx.Text(heritage)
				if strings.Contains(text, "extends") {
					for _, name := range allTypeIdentifiers(ctx, heritage) {
						emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
					}
				}
				if strings.Contains(text, "implements") {
					for _, name := range allTypeIdentifiers(ctx, heritage) {
						emitJavaRel(ctx, from, name, model.RelImplements, int(node.StartPosition().Row)+1)
					}
				}
			}
		case "interface_declaration":
			from := symbolForNode(ctx, node)
			if from == nil {
				return
			}
			if heritage := node.ChildByFieldName("extends_type_clause"); heritage != nil {
				for _, name := range allTypeIdentifiers(ctx, heritage) {
					emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
				}
			}
		}
	})
}
