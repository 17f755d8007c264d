package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// cppExtractor extends the C grammar with namespaces, classes, and
// access-specifier labels that switch the visibility of every member
// after them within a class body — the same cursor pattern as Ruby's
// visibility bareword calls, applied here to `public:`/
// `private:`/`protected:` labels instead of method calls.
type cppExtractor struct{}

func newCppExtractor() Extractor { return &cppExtractor{} }

func (e *cppExtractor) Language() string { return cst.LangCPP }

func (e *cppExtractor) ExtractSymbols(ctx *Context) {
	cursor := &visibilityCursor{}
	cursor.push()
	var frameEnds []uint

	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		// Close the frames of class/struct bodies that end before node.
		for len(frameEnds) > 0 && node.StartByte() >= frameEnds[len(frameEnds)-1] {
			frameEnds = frameEnds[:len(frameEnds)-1]
			cursor.pop()
		}
		switch node.Kind() {
		case "preproc_include":
			e.emitInclude(ctx, node, parentID)
			return parentID

		case "namespace_definition":
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, model.KindNamespace, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			return sym.ID

		case "class_specifier", "struct_specifier":
			kind := model.KindClass
			defaultVis := model.VisibilityPrivate
			if node.Kind() == "struct_specifier" {
				kind = model.KindStruct
				defaultVis = model.VisibilityPublic
			}
			name := IdentifierName(ctx, node)
			sym := EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
				WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
			cursor.push()
			cursor.set(defaultVis)
			frameEnds = append(frameEnds, node.EndByte())
			return sym.ID

		case "access_specifier":
			word := strings.TrimSuffix(strings.TrimSpace(ctx.Text(node)), ":")
			if vis, ok := explicitVisibilityWords[word]; ok {
				cursor.set(vis)
			}
			return parentID

		case "function_definition", "field_declaration":
			e.emitMember(ctx, node, parentID, cursor.current())
			return parentID

		case "enum_specifier":
			e.emitEnum(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

func (e *cppExtractor) emitInclude(ctx *Context, node *sitter.Node, parentID string) {
	path := node.ChildByFieldName("path")
	name := "Anonymous"
	if path != nil {
		name = lastPathSegment(strings.Trim(ctx.Text(path), "\"<>"))
	}
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))), WithVisibility(model.VisibilityPublic))
}

func (e *cppExtractor) emitMember(ctx *Context, node *sitter.Node, parentID string, vis model.Visibility) {
	declarator := node.ChildByFieldName("declarator")
	if declarator == nil {
		return
	}
	name := IdentifierName(ctx, declarator)
	kind := model.KindField
	if node.Kind() == "function_definition" {
		kind = model.KindMethod
		if name == lastTypeIdentifier(ctx, declarator) {
			kind = model.KindConstructor
		}
	}
	sig := signatureUpToBody(ctx, node, "body")
	EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
}

func (e *cppExtractor) emitEnum(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	sym := EmitSymbol(ctx, node, name, model.KindEnum, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(model.VisibilityPublic))
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

// ExtractRelationships resolves `class Derived : public Base` base lists
// as Extends edges.
func (e *cppExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "class_specifier" && node.Kind() != "struct_specifier" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		baseList := node.ChildByFieldName("base_class_clause")
		if baseList == nil {
			return
		}
		for _, name := range allTypeIdentifiers(ctx, baseList) {
			emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
		}
	})
}
