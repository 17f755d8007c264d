package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// pythonExtractor is a sibling-language extractor: visibility is
// purely a naming convention (a double leading underscore without a
// trailing double underscore is name-mangled/private, any other leading
// underscore, dunder names included, is protected, no underscore is
// public) rather than a grammar-level modifier.
type pythonExtractor struct{}

func newPythonExtractor() Extractor { return &pythonExtractor{} }

func (e *pythonExtractor) Language() string { return cst.LangPython }

func (e *pythonExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "import_statement", "import_from_statement":
			e.emitImport(ctx, node, parentID)
			return parentID

		case "class_definition":
			sym := e.emitClass(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "function_definition":
			e.emitFunction(ctx, node, parentID)
			return parentID

		case "assignment":
			e.emitAssignment(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func pythonVisibility(name string) model.Visibility {
	if strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__") {
		return model.VisibilityPrivate
	}
	if strings.HasPrefix(name, "_") {
		return model.VisibilityProtected
	}
	return model.VisibilityPublic
}

func (e *pythonExtractor) emitImport(ctx *Context, node *sitter.Node, parentID string) {
	text := strings.TrimSpace(ctx.Text(node))
	var name string
	if module := node.ChildByFieldName("module_name"); module != nil {
		name = lastPathSegment(ctx.Text(module))
	} else {
		name = lastPathSegment(strings.TrimPrefix(text, "import"))
	}
	if name == "" {
		name = "Anonymous"
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, hashComments,
		WithSignature(text), WithVisibility(model.VisibilityPublic))
}

func (e *pythonExtractor) emitClass(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	return EmitSymbol(ctx, node, name, model.KindClass, parentID, hashComments,
		WithSignature(sig), WithVisibility(pythonVisibility(name)))
}

func (e *pythonExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	kind := model.KindFunction
	if name == "__init__" {
		kind = model.KindConstructor
	}
	sig := signatureUpToBody(ctx, node, "body")

	decoratorText := ""
	if parent := node.Parent(); parent != nil && parent.Kind() == "decorated_definition" {
		decoratorText = ctx.Text(parent)
	}
	if parentID != "" {
		kind = kindForMethod(kind)
	}

	sym := EmitSymbol(ctx, node, name, kind, parentID, hashComments,
		WithSignature(sig), WithVisibility(pythonVisibility(name)))

	if strings.Contains(decoratorText, "@staticmethod") {
		sym.SetMeta("static", true)
	}
	if strings.Contains(decoratorText, "@property") {
		sym.SetMeta("accessor", "get")
	}
}

// kindForMethod distinguishes Method from Function once a parent is
// known; Python's grammar gives both the same node kind
// (function_definition), so the distinction is purely structural.
func kindForMethod(kind model.Kind) model.Kind {
	if kind == model.KindConstructor {
		return kind
	}
	return model.KindMethod
}

func (e *pythonExtractor) emitAssignment(ctx *Context, node *sitter.Node, parentID string) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return
	}
	name := ctx.Text(left)
	if name != strings.ToUpper(name) {
		return
	}
	EmitSymbol(ctx, node, name, model.KindConstant, parentID, hashComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))),
		WithVisibility(pythonVisibility(name)))
}

// ExtractRelationships resolves class base-list entries as Extends edges.
func (e *pythonExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "class_definition" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		superclasses := node.ChildByFieldName("superclasses")
		if superclasses == nil {
			return
		}
		for _, name := range allTypeIdentifiers(ctx, superclasses) {
			if name == "object" {
				continue
			}
			emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
		}
	})
}
