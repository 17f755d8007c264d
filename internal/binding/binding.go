// Package binding implements the Cross-Language Binding Detector:
// given a file's extracted Symbols and its language, it identifies edges
// that leave the language entirely (process invocations, module
// requires, and an extensible table of other per-language patterns).
package binding

import (
	"regexp"
	"strings"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

// Binding mirrors the Relationship schema with kind = "binding", plus
// the source/target language pair.
type Binding struct {
	Kind           string         `json:"kind"`
	SourceSymbolID string         `json:"sourceSymbolId"`
	Target         string         `json:"target"`
	SourceLanguage string         `json:"sourceLanguage"`
	TargetLanguage string         `json:"targetLanguage"`
	FilePath       string         `json:"filePath"`
	Line           int            `json:"line"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// Pattern is one entry of the extensible (language, node-pattern,
// targetLanguage) table named in "Other languages: extensible".
// Match receives the symbol's signature text and reports the target
// artifact name if the pattern fires.
type Pattern struct {
	Language       string
	TargetLanguage string
	Match          func(signature string) (target string, ok bool)
}

// shellInvokers is the same fixed cross-language invoker set the Bash
// extractor uses to emit command Symbols, reused here so the
// binding detector and the extractor never drift apart.
var shellInvokers = map[string]string{
	"python": cst.LangPython, "python3": cst.LangPython,
	"node": cst.LangJavaScript, "npm": cst.LangJavaScript, "bun": cst.LangJavaScript,
	"go": cst.LangGo, "cargo": cst.LangRust, "java": cst.LangJava,
	"docker": "docker", "kubectl": "kubernetes", "terraform": "terraform",
	"git": "git", "curl": "http",
}

var requireCall = regexp.MustCompile(`require\(\s*["']([^"']+)["']\s*\)`)
var importFrom = regexp.MustCompile(`from\s+["']([^"']+)["']`)
var processBuilder = regexp.MustCompile(`\bProcessBuilder\s*\(|\bRuntime\.getRuntime\(\)\.exec\(`)
var rubyBacktick = regexp.MustCompile("`[^`\\n]+`|%x\\{[^}]*\\}")

// registry holds the built-in patterns plus any registered via Register.
var registry []Pattern

// Register installs an additional detection pattern ("extensible"
// table). Intended for callers outside this package that know about a
// language-specific binding shape this package doesn't cover natively.
func Register(p Pattern) {
	registry = append(registry, p)
}

// Detect runs every applicable rule over result's Symbols and returns
// the bindings found. source is the file's raw text, needed by rules
// that look inside a method/function body rather than its signature;
// it may be nil for languages whose rules don't need it. Detect never
// mutates result.
func Detect(result *model.FileResult, language string, source []byte) []*Binding {
	var out []*Binding

	switch language {
	case cst.LangBash:
		out = append(out, detectShell(result)...)
	case cst.LangJavaScript, cst.LangTypeScript:
		out = append(out, detectECMAScript(result)...)
	case cst.LangJava, cst.LangKotlin:
		out = append(out, detectJVMProcessInvocation(result, source)...)
	case cst.LangRuby:
		out = append(out, detectRubyBacktick(result, source)...)
	}

	for _, p := range registry {
		if p.Language != "" && p.Language != language {
			continue
		}
		for _, s := range result.Symbols {
			target, ok := p.Match(s.Signature)
			if !ok {
				continue
			}
			out = append(out, &Binding{
				Kind: "binding", SourceSymbolID: s.ID, Target: target,
				SourceLanguage: language, TargetLanguage: p.TargetLanguage,
				FilePath: result.FilePath, Line: s.StartLine,
			})
		}
	}
	return out
}

// detectShell implements shell rule: any Function Symbol whose
// name is in the invoker set, or whose name contains '/', yields a
// process-invocation binding.
func detectShell(result *model.FileResult) []*Binding {
	var out []*Binding
	for _, s := range result.Symbols {
		if s.Kind != model.KindFunction {
			continue
		}
		target, ok := shellInvokers[s.Name]
		if !ok && strings.Contains(s.Name, "/") {
			target = "unknown"
			ok = true
		}
		if !ok {
			continue
		}
		out = append(out, &Binding{
			Kind: "binding", SourceSymbolID: s.ID, Target: s.Name,
			SourceLanguage: cst.LangBash, TargetLanguage: target,
			FilePath: result.FilePath, Line: s.StartLine,
			Metadata: map[string]any{"mechanism": "process-invocation"},
		})
	}
	return out
}

// detectJVMProcessInvocation scans each Method/Function/Constructor
// Symbol's body text for a `new ProcessBuilder(...)` or
// `Runtime.getRuntime().exec(...)` call and, if found, yields a
// process-invocation binding to an unknown target process.
func detectJVMProcessInvocation(result *model.FileResult, source []byte) []*Binding {
	if len(source) == 0 {
		return nil
	}
	var out []*Binding
	for _, s := range result.Symbols {
		if s.Kind != model.KindMethod && s.Kind != model.KindFunction && s.Kind != model.KindConstructor {
			continue
		}
		if int(s.EndByte) > len(source) || s.StartByte > s.EndByte {
			continue
		}
		body := source[s.StartByte:s.EndByte]
		if !processBuilder.Match(body) {
			continue
		}
		out = append(out, &Binding{
			Kind: "binding", SourceSymbolID: s.ID, Target: "unknown",
			SourceLanguage: s.Language, TargetLanguage: "unknown",
			FilePath: result.FilePath, Line: s.StartLine,
			Metadata: map[string]any{"mechanism": "process-invocation"},
		})
	}
	return out
}

// detectRubyBacktick scans each Method Symbol's body text for backtick
// or %x{} shell execution and yields a process-invocation binding.
func detectRubyBacktick(result *model.FileResult, source []byte) []*Binding {
	if len(source) == 0 {
		return nil
	}
	var out []*Binding
	for _, s := range result.Symbols {
		if s.Kind != model.KindMethod && s.Kind != model.KindFunction && s.Kind != model.KindConstructor {
			continue
		}
		if int(s.EndByte) > len(source) || s.StartByte > s.EndByte {
			continue
		}
		body := source[s.StartByte:s.EndByte]
		if !rubyBacktick.Match(body) {
			continue
		}
		out = append(out, &Binding{
			Kind: "binding", SourceSymbolID: s.ID, Target: "unknown",
			SourceLanguage: cst.LangRuby, TargetLanguage: "unknown",
			FilePath: result.FilePath, Line: s.StartLine,
			Metadata: map[string]any{"mechanism": "process-invocation"},
		})
	}
	return out
}

// detectECMAScript implements ECMAScript rule:
// require("x")/import from "x" bind to module:x.
func detectECMAScript(result *model.FileResult) []*Binding {
	var out []*Binding
	for _, s := range result.Symbols {
		if s.Kind != model.KindImport {
			continue
		}
		path := ""
		if m := requireCall.FindStringSubmatch(s.Signature); m != nil {
			path = m[1]
		} else if m := importFrom.FindStringSubmatch(s.Signature); m != nil {
			path = m[1]
		}
		if path == "" {
			continue
		}
		out = append(out, &Binding{
			Kind: "binding", SourceSymbolID: s.ID, Target: model.ModuleToken(path),
			SourceLanguage: s.Language, TargetLanguage: "module",
			FilePath: result.FilePath, Line: s.StartLine,
		})
	}
	return out
}
