package extract

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// rubyExtractor handles Ruby's `public`/`private`/`protected`
// bareword calls, which change the visibility of every method defined after
// them for the remainder of the enclosing class/module body, rather than
// modifying the method node itself. A visibilityCursor stack, one frame
// per open class/module, tracks the current default.
type rubyExtractor struct{}

func newRubyExtractor() Extractor { return &rubyExtractor{} }

func (e *rubyExtractor) Language() string { return cst.LangRuby }

// visibilityCursor is stack-allocated per call to ExtractSymbols (never
// global), one frame per nested class/module body.
type visibilityCursor struct {
	frames []model.Visibility
}

func (v *visibilityCursor) push() { v.frames = append(v.frames, model.VisibilityPublic) }
func (v *visibilityCursor) pop() {
	if len(v.frames) > 0 {
		v.frames = v.frames[:len(v.frames)-1]
	}
}
func (v *visibilityCursor) current() model.Visibility {
	if len(v.frames) == 0 {
		return model.VisibilityPublic
	}
	return v.frames[len(v.frames)-1]
}
func (v *visibilityCursor) set(vis model.Visibility) {
	if len(v.frames) > 0 {
		v.frames[len(v.frames)-1] = vis
	}
}

var rubyVisibilityWords = map[string]model.Visibility{
	"public":    model.VisibilityPublic,
	"private":   model.VisibilityPrivate,
	"protected": model.VisibilityProtected,
}

func (e *rubyExtractor) ExtractSymbols(ctx *Context) {
	if ctx.Tree.Root.HasError() {
		e.lineScanFallback(ctx)
		return
	}

	cursor := &visibilityCursor{}
	cursor.push()
	var frameEnds []uint

	WalkScoped(ctx, ctx.Tree.Root, "", func(node *sitter.Node, parentID string) string {
		// Close the frames of class/module bodies that end before node.
		for len(frameEnds) > 0 && node.StartByte() >= frameEnds[len(frameEnds)-1] {
			frameEnds = frameEnds[:len(frameEnds)-1]
			cursor.pop()
		}
		switch node.Kind() {
		case "class":
			sym := e.emitClassOrModule(ctx, node, parentID, model.KindClass)
			cursor.push()
			frameEnds = append(frameEnds, node.EndByte())
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "module":
			sym := e.emitClassOrModule(ctx, node, parentID, model.KindModule)
			cursor.push()
			frameEnds = append(frameEnds, node.EndByte())
			if sym != nil {
				return sym.ID
			}
			return parentID

		case "call":
			e.handleBarewordCall(ctx, node, parentID, cursor)
			return parentID

		case "identifier":
			// A bare `private` with no arguments parses as an identifier
			// statement, not a call.
			if vis, ok := rubyVisibilityWords[ctx.Text(node)]; ok && node.Parent() != nil {
				switch node.Parent().Kind() {
				case "body_statement", "class", "module":
					cursor.set(vis)
				}
			}
			return parentID

		case "method":
			vis := cursor.current()
			// `private def foo; end`: the method is the argument of a
			// visibility call and takes that call's visibility.
			if args := node.Parent(); args != nil && args.Kind() == "argument_list" {
				if call := args.Parent(); call != nil && call.Kind() == "call" {
					if m := call.ChildByFieldName("method"); m != nil {
						if v, ok := rubyVisibilityWords[ctx.Text(m)]; ok {
							vis = v
						}
					}
				}
			}
			e.emitMethod(ctx, node, parentID, vis)
			return parentID

		case "singleton_method":
			e.emitMethod(ctx, node, parentID, model.VisibilityPublic)
			return parentID

		case "assignment":
			e.emitConstantAssignment(ctx, node, parentID)
			return parentID
		}
		return parentID
	})
}

// handleBarewordCall detects `private`/`public`/`protected` calls. With
// no arguments it updates the cursor. The `private :method_name` form
// leaves the cursor untouched and instead only flips the named,
// already-emitted sibling Method (rare shape; best-effort). The
// `private def foo; end` form is resolved where the method node itself
// is visited.
func (e *rubyExtractor) handleBarewordCall(ctx *Context, node *sitter.Node, parentID string, cursor *visibilityCursor) {
	method := node.ChildByFieldName("method")
	if method == nil {
		return
	}
	word := ctx.Text(method)
	vis, ok := rubyVisibilityWords[word]
	if !ok {
		return
	}
	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		cursor.set(vis)
		return
	}
	// private :name, :other — targets specific already-emitted symbols.
	count := args.NamedChildCount()
	for i := uint(0); i < count; i++ {
		arg := args.NamedChild(i)
		if arg == nil || arg.Kind() != "simple_symbol" {
			continue
		}
		name := strings.TrimPrefix(ctx.Text(arg), ":")
		if sym := e.findSiblingMethod(ctx, parentID, name); sym != nil {
			sym.Visibility = vis
		}
	}
}

func (e *rubyExtractor) findSiblingMethod(ctx *Context, parentID, name string) *model.Symbol {
	for _, s := range ctx.Result.Symbols {
		if s.ParentID == parentID && s.Name == name && (s.Kind == model.KindMethod) {
			return s
		}
	}
	return nil
}

func (e *rubyExtractor) emitClassOrModule(ctx *Context, node *sitter.Node, parentID string, kind model.Kind) *model.Symbol {
	name := IdentifierName(ctx, node)
	sig := signatureUpToBody(ctx, node, "body")
	sym := EmitSymbol(ctx, node, name, kind, parentID, hashComments,
		WithSignature(sig), WithVisibility(model.VisibilityPublic))

	if kind == model.KindClass {
		if super := node.ChildByFieldName("superclass"); super != nil {
			sym.SetMeta("superclass", strings.TrimSpace(strings.TrimPrefix(ctx.Text(super), "<")))
		}
	}
	return sym
}

func (e *rubyExtractor) emitMethod(ctx *Context, node *sitter.Node, parentID string, vis model.Visibility) {
	name := IdentifierName(ctx, node)
	kind := model.KindMethod
	if name == "initialize" {
		kind = model.KindConstructor
	}
	sig := signatureUpToBody(ctx, node, "body")
	EmitSymbol(ctx, node, name, kind, parentID, hashComments,
		WithSignature(sig), WithVisibility(vis))
}

// emitConstantAssignment treats `NAME = value` at class/module scope as
// a Constant symbol per Ruby's convention that all-caps identifiers are
// constants.
func (e *rubyExtractor) emitConstantAssignment(ctx *Context, node *sitter.Node, parentID string) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Kind() != "constant" {
		return
	}
	name := ctx.Text(left)
	EmitSymbol(ctx, node, name, model.KindConstant, parentID, hashComments,
		WithSignature(strings.TrimSpace(ctx.Text(node))),
		WithVisibility(model.VisibilityPublic))
}

// ExtractRelationships resolves `include`/`extend`/`prepend` module
// mixins. Ruby's `prepend` maps to RelIncludes: it has no dedicated kind
// in the closed set and behaves as a mixin at the model's granularity.
func (e *rubyExtractor) ExtractRelationships(ctx *Context) {
	Walk(ctx, ctx.Tree.Root, func(node *sitter.Node, depth int) {
		if node.Kind() != "call" {
			return
		}
		method := node.ChildByFieldName("method")
		if method == nil {
			return
		}
		word := ctx.Text(method)
		if word != "include" && word != "extend" && word != "prepend" {
			return
		}
		enclosing := FindContainingSymbol(ctx.Result.Symbols, node.StartByte())
		if enclosing == nil {
			return
		}
		args := node.ChildByFieldName("arguments")
		if args == nil {
			return
		}
		count := args.NamedChildCount()
		for i := uint(0); i < count; i++ {
			arg := args.NamedChild(i)
			if arg == nil || arg.Kind() != "constant" {
				continue
			}
			emitJavaRel(ctx, enclosing, ctx.Text(arg), model.RelIncludes, int(node.StartPosition().Row)+1)
		}
	})
}

// lineScanFallback is a parallel, non-walker implementation used when
// the tree contains an ERROR node ("line-scanner fallback"):
// it regex-scans for `class`/`module`/`def` lines instead of walking the
// malformed tree, trading precision for resilience.
var (
	rubyClassLine  = regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_:]*)`)
	rubyModuleLine = regexp.MustCompile(`^\s*module\s+([A-Za-z_][A-Za-z0-9_:]*)`)
	rubyDefLine    = regexp.MustCompile(`^\s*def\s+(self\.)?([A-Za-z_][A-Za-z0-9_!?=]*)`)
)

func (e *rubyExtractor) lineScanFallback(ctx *Context) {
	ctx.Log.Warn("ruby tree has parse errors, using line-scanner fallback", "file", ctx.FilePath)
	lines := strings.Split(string(ctx.Tree.Source), "\n")
	var stack []string

	for i, line := range lines {
		row := i + 1
		switch {
		case rubyClassLine.MatchString(line):
			m := rubyClassLine.FindStringSubmatch(line)
			parent := topOf(stack)
			sym := e.emitFallbackSymbol(ctx, m[1], model.KindClass, parent, row, line)
			stack = append(stack, sym.ID)
		case rubyModuleLine.MatchString(line):
			m := rubyModuleLine.FindStringSubmatch(line)
			parent := topOf(stack)
			sym := e.emitFallbackSymbol(ctx, m[1], model.KindModule, parent, row, line)
			stack = append(stack, sym.ID)
		case rubyDefLine.MatchString(line):
			m := rubyDefLine.FindStringSubmatch(line)
			parent := topOf(stack)
			kind := model.KindMethod
			if m[2] == "initialize" {
				kind = model.KindConstructor
			}
			e.emitFallbackSymbol(ctx, m[2], kind, parent, row, line)
		case strings.TrimSpace(line) == "end" && len(stack) > 0:
			stack = stack[:len(stack)-1]
		}
	}
	ctx.Result.Truncated = true
}

func topOf(stack []string) string {
	if len(stack) == 0 {
		return ""
	}
	return stack[len(stack)-1]
}

func (e *rubyExtractor) emitFallbackSymbol(ctx *Context, name string, kind model.Kind, parentID string, row int, line string) *model.Symbol {
	id := ctx.ids.Allocate(ctx.FilePath, name, row-1, 0, 0, func(prevID string) {
		ctx.Log.Warn("symbol id collision, perturbing", "file", ctx.FilePath, "name", name, "id", prevID)
	})
	sym := &model.Symbol{
		ID: id, Name: name, Kind: kind, Language: ctx.Language, FilePath: ctx.FilePath,
		StartLine: row, EndLine: row, ParentID: parentID,
		Signature:  strings.TrimSpace(line),
		Visibility: model.VisibilityPublic,
	}
	ctx.Result.Symbols = append(ctx.Result.Symbols, sym)
	return sym
}
