package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// rustExtractor handles `impl` blocks: they attach their methods to
// the type they implement, which in the grammar is a sibling field of
// the impl node rather than an ancestor, so method emission happens in
// two phases: record the impl block's body span and target type while
// walking, then resolve the target type to a Symbol once the whole file's
// symbol table is known, reparenting each recorded method.
type rustExtractor struct{}

func newRustExtractor() Extractor { return &rustExtractor{} }

func (e *rustExtractor) Language() string { return cst.LangRust }

type pendingImpl struct {
	node       *sitter.Node
	targetType string
	traitName  string
}

func (e *rustExtractor) ExtractSymbols(ctx *Context) {
	var pending []pendingImpl

	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		// Functions and constants directly inside impl bodies are emitted by
		// phase two, and functions inside trait bodies by emitTrait.
		if p := node.Parent(); p != nil && p.Kind() == "declaration_list" && p.Parent() != nil {
			owner := p.Parent().Kind()
			if (node.Kind() == "function_item" && (owner == "impl_item" || owner == "trait_item")) ||
				(node.Kind() == "const_item" && owner == "impl_item") {
				return parentID
			}
		}
		switch node.Kind() {
		case "mod_item":
			sym := e.emitMod(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "use_declaration":
			e.emitUse(ctx, node, parentID)
			return parentID

		case "struct_item":
			sym := e.emitStruct(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "enum_item":
			sym := e.emitEnum(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "trait_item":
			sym := e.emitTrait(ctx, node, parentID)
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "function_item":
			e.emitFunction(ctx, node, parentID, model.KindFunction)
			return parentID

		case "const_item", "static_item":
			e.emitConst(ctx, node, parentID)
			return parentID

		case "impl_item":
			// Defer: record now, emit methods once phase two resolves
			// the target type below. Still returns parentID so any
			// items textually nested via macros keep a sane parent.
			target := ""
			if t := node.ChildByFieldName("type"); t != nil {
				target = lastTypeIdentifier(ctx, t)
				if target == "" {
					target = strings.TrimSpace(ctx.Text(t))
				}
			}
			trait := ""
			if tr := node.ChildByFieldName("trait"); tr != nil {
				trait = lastTypeIdentifier(ctx, tr)
			}
			pending = append(pending, pendingImpl{node: node, targetType: target, traitName: trait})
			return parentID
		}
		return parentID
	})

	// Phase two: resolve each impl block's target type and emit its
	// methods/constants parented to that Symbol, falling back to the
	// file root if the type isn't locally defined (e.g. a foreign type).
	for _, p := range pending {
		parentID := ""
		if target := ResolveLocalSymbol(ctx, p.targetType); target != nil {
			parentID = target.ID
			if p.traitName != "" {
				target.SetMeta("implements_"+p.traitName, true)
			}
		}
		body := p.node.ChildByFieldName("body")
		if body == nil {
			continue
		}
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			item := body.NamedChild(i)
			if item == nil {
				continue
			}
			switch item.Kind() {
			case "function_item":
				kind := model.KindMethod
				if IdentifierName(ctx, item) == "new" {
					kind = model.KindConstructor
				}
				e.emitFunction(ctx, item, parentID, kind)
			case "const_item":
				e.emitConst(ctx, item, parentID)
			}
		}
		if p.traitName != "" && parentID != "" {
			from := ResolveLocalSymbol(ctx, p.targetType)
			emitJavaRel(ctx, from, p.traitName, model.RelImplements, int(p.node.StartPosition().Row)+1)
		}
	}
}

func (e *rustExtractor) emitMod(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	return EmitSymbol(ctx, node, name, model.KindModule, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
}

func (e *rustExtractor) emitUse(ctx *Context, node *sitter.Node, parentID string) {
	text := strings.TrimSpace(ctx.Text(node))
	wildcard := strings.Contains(text, "::*")
	path := strings.TrimSuffix(strings.TrimSuffix(text, ";"), "")
	name := lastPathSegment(path)
	if name == "" || name == "*" {
		name = "Anonymous"
	}
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	EmitSymbol(ctx, node, name, model.KindImport, parentID, cLikeComments,
		WithSignature(text), WithVisibility(vis), WithMeta("wildcard", wildcard))
}

func (e *rustExtractor) emitStruct(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	sym := EmitSymbol(ctx, node, name, model.KindStruct, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))

	if body := node.ChildByFieldName("body"); body != nil && body.Kind() == "field_declaration_list" {
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			field := body.NamedChild(i)
			if field == nil || field.Kind() != "field_declaration" {
				continue
			}
			fieldName := IdentifierName(ctx, field)
			fieldVis := classifyVisibility(ctx, field, model.VisibilityPrivate)
			EmitSymbol(ctx, field, fieldName, model.KindField, sym.ID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(field))), WithVisibility(fieldVis))
		}
	}
	return sym
}

func (e *rustExtractor) emitEnum(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	sym := EmitSymbol(ctx, node, name, model.KindEnum, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			variant := body.NamedChild(i)
			if variant == nil || variant.Kind() != "enum_variant" {
				continue
			}
			EmitSymbol(ctx, variant, IdentifierName(ctx, variant), model.KindEnumMember, sym.ID, cLikeComments,
				WithSignature(strings.TrimSpace(ctx.Text(variant))), WithVisibility(model.VisibilityPublic))
		}
	}
	return sym
}

func (e *rustExtractor) emitTrait(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	sym := EmitSymbol(ctx, node, name, model.KindTrait, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))

	if body := node.ChildByFieldName("body"); body != nil {
		count := body.NamedChildCount()
		for i := uint(0); i < count; i++ {
			item := body.NamedChild(i)
			if item == nil || item.Kind() != "function_signature_item" && item.Kind() != "function_item" {
				continue
			}
			e.emitFunction(ctx, item, sym.ID, model.KindMethod)
		}
	}
	return sym
}

func (e *rustExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string, kind model.Kind) *model.Symbol {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	return EmitSymbol(ctx, node, name, kind, parentID, cLikeComments,
		WithSignature(signatureUpToBody(ctx, node, "body")), WithVisibility(vis))
}

func (e *rustExtractor) emitConst(ctx *Context, node *sitter.Node, parentID string) {
	name := IdentifierName(ctx, node)
	vis := classifyVisibility(ctx, node, model.VisibilityPrivate)
	sig := strings.TrimRight(strings.TrimSpace(ctx.Text(node)), ";")
	EmitSymbol(ctx, node, name, model.KindConstant, parentID, cLikeComments,
		WithSignature(sig), WithVisibility(vis))
}

// ExtractRelationships resolves trait bounds declared via `trait Foo:
// Bar` (supertrait) as an Extends edge; the impl/trait Implements edge
// is already emitted during the deferred phase two of ExtractSymbols.
func (e *rustExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "trait_item" {
			return
		}
		from := symbolForNode(ctx, node)
		if from == nil {
			return
		}
		if bounds := node.ChildByFieldName("bounds"); bounds != nil {
			for _, name := range allTypeIdentifiers(ctx, bounds) {
				emitJavaRel(ctx, from, name, model.RelExtends, int(node.StartPosition().Row)+1)
			}
		}
	})
}
