// Package typeinfer implements the Type Inference post-pass: it
// reads already-extracted Symbol signatures and metadata, never
// re-parsing, and produces TypeInfo records.
package typeinfer

import (
	"regexp"
	"strings"

	"github.com/73ai/codegrep/internal/model"
)

// returnTypePrefix matches the C-family shape: a type token immediately
// preceding the method name and parameter list, e.g. "boolean isAdult(".
var returnTypePrefix = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_<>\[\],. ]*?)\s+[A-Za-z_][A-Za-z0-9_]*\s*\(`)

// arrowReturnType matches Rust/Swift/Python-style `-> Type`.
var arrowReturnType = regexp.MustCompile(`->\s*([A-Za-z_][A-Za-z0-9_<>\[\],.:? ]*)`)

// trailingColonType matches a Kotlin property/return shape where the
// type follows the first ':' after the parameter list closes.
var trailingColonType = regexp.MustCompile(`\)\s*:\s*([A-Za-z_][A-Za-z0-9_<>\[\],.? ]*)`)

// declarationTypeColon matches "<keyword> name: Type = value" and
// declarationTypePrefix matches "Type name = value"
// field/property/constant shapes.
var declarationTypeColon = regexp.MustCompile(`:\s*([A-Za-z_][A-Za-z0-9_<>\[\],.? ]*?)\s*=`)
var declarationTypePrefix = regexp.MustCompile(`^\s*(?:public|private|protected|static|final|const|val|var|readonly)?\s*([A-Za-z_][A-Za-z0-9_<>\[\],. ]*?)\s+[A-Za-z_][A-Za-z0-9_]*\s*=`)

var modifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "static": true,
	"final": true, "abstract": true, "override": true, "const": true,
	"val": true, "var": true, "readonly": true, "export": true, "async": true,
}

var literalNumeric = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
var literalPath = regexp.MustCompile(`^[./][^\s]*$`)

// Infer runs the post-pass over every Symbol in result and returns the
// TypeInfo records keyed by Symbol id, matching the map shape exposed to
// the index.
func Infer(result *model.FileResult) map[string]*model.TypeInfo {
	out := make(map[string]*model.TypeInfo)
	for _, s := range result.Symbols {
		info := inferSymbol(s)
		if info != nil {
			out[s.ID] = info
		}
	}
	return out
}

func inferSymbol(s *model.Symbol) *model.TypeInfo {
	switch s.Kind {
	case model.KindMethod, model.KindFunction, model.KindConstructor:
		return inferCallable(s)
	case model.KindProperty, model.KindField, model.KindConstant, model.KindVariable:
		return inferDeclaration(s)
	}
	return nil
}

func inferCallable(s *model.Symbol) *model.TypeInfo {
	sig := s.Signature
	if sig == "" {
		return nil
	}

	if m := arrowReturnType.FindStringSubmatch(sig); m != nil {
		return &model.TypeInfo{
			SymbolID: s.ID, ResolvedType: strings.TrimSpace(m[1]),
			IsInferred: true, Language: s.Language,
		}
	}

	if m := trailingColonType.FindStringSubmatch(sig); m != nil {
		return &model.TypeInfo{
			SymbolID: s.ID, ResolvedType: strings.TrimSpace(m[1]),
			IsInferred: true, Language: s.Language,
		}
	}

	if m := returnTypePrefix.FindStringSubmatch(sig); m != nil {
		candidate := stripModifiers(m[1])
		if candidate != "" && candidate != s.Name {
			return &model.TypeInfo{
				SymbolID: s.ID, ResolvedType: candidate,
				IsInferred: true, Language: s.Language,
			}
		}
	}

	return nil
}

func inferDeclaration(s *model.Symbol) *model.TypeInfo {
	sig := s.Signature
	if sig == "" {
		return dynamicLiteralHeuristic(s, "")
	}

	if m := declarationTypeColon.FindStringSubmatch(sig); m != nil {
		return &model.TypeInfo{
			SymbolID: s.ID, ResolvedType: strings.TrimSpace(m[1]),
			IsInferred: true, Language: s.Language,
		}
	}

	if m := declarationTypePrefix.FindStringSubmatch(sig); m != nil {
		candidate := stripModifiers(m[1])
		if candidate != "" && candidate != s.Name {
			return &model.TypeInfo{
				SymbolID: s.ID, ResolvedType: candidate,
				IsInferred: true, Language: s.Language,
			}
		}
	}

	// Dynamic languages have no declared type to read off the signature;
	// fall back to a literal-value heuristic over the text following '='.
	if idx := strings.Index(sig, "="); idx >= 0 {
		return dynamicLiteralHeuristic(s, strings.TrimSpace(sig[idx+1:]))
	}
	return nil
}

func dynamicLiteralHeuristic(s *model.Symbol, value string) *model.TypeInfo {
	value = strings.Trim(value, "; \t")
	if value == "" {
		return nil
	}
	var resolved string
	switch {
	case literalNumeric.MatchString(value):
		resolved = "number"
	case value == "true" || value == "false":
		resolved = "boolean"
	case strings.HasPrefix(value, "\"") || strings.HasPrefix(value, "'") || strings.HasPrefix(value, "`"):
		resolved = "string"
	case literalPath.MatchString(value):
		resolved = "path"
	default:
		return nil
	}
	return &model.TypeInfo{
		SymbolID: s.ID, ResolvedType: resolved, IsInferred: true, Language: s.Language,
	}
}

func stripModifiers(candidate string) string {
	fields := strings.Fields(candidate)
	var kept []string
	for _, f := range fields {
		if modifierWords[f] {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
