package extract

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// bashExtractor handles shell functions, exported/readonly variables,
// positional parameters, control-flow traceability Symbols, and
// cross-language command invocations. It also supplies the Bash side of
// the cross-language binding detector's invoker set.
type bashExtractor struct{}

func newBashExtractor() Extractor { return &bashExtractor{} }

func (e *bashExtractor) Language() string { return cst.LangBash }

// crossLanguageInvokers is the fixed set of command names treated as
// invocations of another language's runtime.
var crossLanguageInvokers = map[string]bool{
	"python": true, "python3": true, "node": true, "npm": true, "bun": true,
	"go": true, "cargo": true, "java": true, "docker": true, "kubectl": true,
	"terraform": true, "git": true, "curl": true,
}

var bashConstantNames = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

var controlFlowKinds = map[string]string{
	"if_statement":    "if",
	"while_statement":  "while",
	"for_statement":    "for",
	"c_style_for_statement": "for",
}

func (e *bashExtractor) ExtractSymbols(ctx *Context) {
	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		switch node.Kind() {
		case "function_definition":
			sym := e.emitFunction(ctx, node, parentID)
			if sym != nil {
				e.emitPositionalParams(ctx, node, sym.ID)
				return sym.ID
			}
			return parentID

		case "variable_assignment", "declaration_command":
			e.emitVariable(ctx, node, parentID)
			return parentID

		case "command":
			e.emitCommandIfCrossLanguage(ctx, node, parentID)
			return parentID

		default:
			if label, ok := controlFlowKinds[node.Kind()]; ok {
				e.emitControlBlock(ctx, node, parentID, label)
				return parentID
			}
		}
		return parentID
	})
}

func (e *bashExtractor) emitFunction(ctx *Context, node *sitter.Node, parentID string) *model.Symbol {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	return EmitSymbol(ctx, node, name, model.KindFunction, parentID, hashComments,
		WithSignature(sig), WithVisibility(model.VisibilityPublic))
}

// emitPositionalParams scans a function's body text for `$1`..`$9`
// references and emits one Variable Symbol per distinct index found,
// parented to the function.
var positionalParamRe = regexp.MustCompile(`\$([1-9])\b`)

func (e *bashExtractor) emitPositionalParams(ctx *Context, node *sitter.Node, functionID string) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	text := ctx.Text(body)
	seen := map[string]bool{}
	for _, m := range positionalParamRe.FindAllStringSubmatch(text, -1) {
		idx := m[1]
		name := "$" + idx
		if seen[name] {
			continue
		}
		seen[name] = true
		EmitSymbol(ctx, body, name, model.KindVariable, functionID, hashComments,
			WithSignature(name), WithVisibility(model.VisibilityPrivate))
	}
}

func (e *bashExtractor) emitVariable(ctx *Context, node *sitter.Node, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := ctx.Text(nameNode)
	text := strings.TrimSpace(ctx.Text(node))

	readonly := strings.HasPrefix(text, "readonly") || strings.Contains(text, "readonly ")
	exported := strings.HasPrefix(text, "export") || strings.Contains(text, "export ")
	declared := strings.HasPrefix(text, "declare")

	kind := model.KindVariable
	if readonly || bashConstantNames.MatchString(name) {
		kind = model.KindConstant
	}

	vis := model.VisibilityPrivate
	if exported || declared {
		vis = model.VisibilityPublic
	}

	EmitSymbol(ctx, node, name, kind, parentID, hashComments,
		WithSignature(text), WithVisibility(vis))
}

// emitCommandIfCrossLanguage emits a cross-language command Symbol: a
// command whose name is in the fixed invoker set, or which contains
// '/', becomes a Function Symbol named after the command, independent
// of the enclosing function's scope (parented to the file root).
func (e *bashExtractor) emitCommandIfCrossLanguage(ctx *Context, node *sitter.Node, parentID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	cmd := ctx.Text(nameNode)
	if !crossLanguageInvokers[cmd] && !strings.Contains(cmd, "/") {
		return
	}
	if ResolveLocalSymbol(ctx, cmd) != nil {
		return
	}
	text := strings.TrimSpace(ctx.Text(node))
	if len(text) > 100 {
		text = text[:100]
	}
	EmitSymbol(ctx, node, cmd, model.KindFunction, "", hashComments,
		WithSignature(text), WithVisibility(model.VisibilityPublic))
}

// emitControlBlock emits an auxiliary "<kind> block" Method Symbol so
// conditionals and loops are traceable as call-graph nodes.
func (e *bashExtractor) emitControlBlock(ctx *Context, node *sitter.Node, parentID string, label string) {
	cond := node.ChildByFieldName("condition")
	condText := ""
	if cond != nil {
		condText = strings.TrimSpace(ctx.Text(cond))
	}
	name := fmt.Sprintf("%s block", label)
	EmitSymbol(ctx, node, name, model.KindMethod, parentID, hashComments,
		WithSignature(condText), WithVisibility(model.VisibilityPrivate))
}

// ExtractRelationships emits, for each cross-language command Symbol
// found inside a function's body, a Calls edge from the enclosing
// function.
func (e *bashExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "command" {
			return
		}
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		cmd := ctx.Text(nameNode)
		if !crossLanguageInvokers[cmd] && !strings.Contains(cmd, "/") {
			return
		}
		enclosing := e.enclosingFunction(ctx, node.StartByte())
		if enclosing == nil {
			return
		}
		EmitRelationship(ctx, enclosing, cmd, model.RelCalls, int(node.StartPosition().Row)+1, 0.9,
			model.ExternalToken(cst.LangBash, cmd))
	})
}

func (e *bashExtractor) enclosingFunction(ctx *Context, byteOffset uint) *model.Symbol {
	var best *model.Symbol
	var bestSpan uint
	for _, s := range ctx.Result.Symbols {
		if s.Kind != model.KindFunction || s.StartByte == byteOffset || !s.EnclosesPoint(byteOffset) {
			continue
		}
		span := s.Span()
		if best == nil || span < bestSpan {
			best = s
			bestSpan = span
		}
	}
	return best
}
