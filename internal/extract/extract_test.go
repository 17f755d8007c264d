package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

func runOne(t *testing.T, language, source string) *model.FileResult {
	t.Helper()
	m := cst.NewManager(nil)
	tree, err := m.ParseFile("test-input", []byte(source), language)
	require.NoError(t, err)
	defer tree.Close()

	reg := NewRegistry()
	return Run(t.Context(), reg, tree, "test-input", nil, 0)
}

func TestRun_EveryLanguageProducesSymbols(t *testing.T) {
	tests := []struct {
		name     string
		language string
		source   string
		wantName string
		wantKind model.Kind
	}{
		{"go", cst.LangGo, "package main\n\nfunc Hello() string { return \"hi\" }\n", "Hello", model.KindFunction},
		{"python", cst.LangPython, "class Greeter:\n    def hello(self):\n        return 'hi'\n", "Greeter", model.KindClass},
		{"javascript", cst.LangJavaScript, "function hello() { return 'hi'; }\n", "hello", model.KindFunction},
		{"typescript", cst.LangTypeScript, "interface Greeter { hello(): string; }\n", "Greeter", model.KindInterface},
		{"java", cst.LangJava, "public class Greeter { void hello() {} }\n", "Greeter", model.KindClass},
		{"kotlin", cst.LangKotlin, "class Greeter { companion object { const val MAX = 1 } }\n", "Greeter", model.KindClass},
		{"rust", cst.LangRust, "struct Greeter;\nimpl Greeter { pub fn new() -> Self { Greeter } }\n", "Greeter", model.KindStruct},
		{"ruby", cst.LangRuby, "class Greeter\n  def hello\n  end\nend\n", "Greeter", model.KindClass},
		{"bash", cst.LangBash, "deploy(){ docker build .; }\n", "deploy", model.KindFunction},
		{"c", cst.LangC, "struct point { int x; int y; };\n", "point", model.KindStruct},
		{"cpp", cst.LangCPP, "class Greeter { public: void hello(); };\n", "Greeter", model.KindClass},
		{"csharp", cst.LangCSharp, "class Greeter { void Hello() {} }\n", "Greeter", model.KindClass},
		{"php", cst.LangPHP, "<?php\nclass Greeter { function hello() {} }\n", "Greeter", model.KindClass},
		{"swift", cst.LangSwift, "class Greeter { func hello() {} }\n", "Greeter", model.KindClass},
		{"scala", cst.LangScala, "trait Greeter { def hello(): String }\n", "Greeter", model.KindTrait},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runOne(t, tt.language, tt.source)
			require.NotEmpty(t, result.Symbols, "expected at least one symbol")
			assert.False(t, result.Truncated)

			matches := result.SymbolByName(tt.wantName)
			require.NotEmpty(t, matches, "expected a symbol named %q", tt.wantName)
			assert.Equal(t, tt.wantKind, matches[0].Kind)
		})
	}
}

func TestRun_UnsupportedLanguageReturnsEmptyResult(t *testing.T) {
	m := cst.NewManager(nil)
	tree, err := m.ParseFile("test.go", []byte("package main\n"), cst.LangGo)
	require.NoError(t, err)
	defer tree.Close()

	reg := &Registry{extractors: map[string]Extractor{}}
	result := Run(t.Context(), reg, tree, "test.go", nil, 0)
	assert.Empty(t, result.Symbols)
	assert.Equal(t, cst.LangGo, result.Language)
}

func TestRun_SymbolIDsAreDeterministicAcrossRuns(t *testing.T) {
	source := "package main\n\nfunc Hello() string { return \"hi\" }\n\nfunc World() string { return \"earth\" }\n"
	first := runOne(t, cst.LangGo, source)
	second := runOne(t, cst.LangGo, source)

	require.Len(t, first.Symbols, len(second.Symbols))
	for i := range first.Symbols {
		assert.Equal(t, first.Symbols[i].ID, second.Symbols[i].ID)
	}
}

func TestRun_ContainmentInvariant(t *testing.T) {
	source := "package main\n\ntype Greeter struct{}\n\nfunc (g Greeter) Hello() string { return \"hi\" }\n"
	result := runOne(t, cst.LangGo, source)

	var parent, child *model.Symbol
	for _, s := range result.Symbols {
		if s.Name == "Hello" {
			child = s
		}
	}
	require.NotNil(t, child)
	for _, s := range result.Symbols {
		if s.ID == child.ParentID {
			parent = s
		}
	}
	if parent != nil {
		assert.True(t, parent.Encloses(child), "parent span must enclose child span")
	}
}

func TestRun_VisibilityIsAlwaysFromTheClosedSet(t *testing.T) {
	result := runOne(t, cst.LangGo, "package main\n\nfunc Exported() {}\nfunc unexported() {}\n")
	allowed := map[model.Visibility]bool{
		model.VisibilityPublic:    true,
		model.VisibilityPrivate:   true,
		model.VisibilityProtected: true,
		model.VisibilityPackage:   true,
		"":                        true,
	}
	for _, s := range result.Symbols {
		assert.True(t, allowed[s.Visibility], "unexpected visibility %q on %s", s.Visibility, s.Name)
	}
}
