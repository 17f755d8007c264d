package typeinfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/73ai/codegrep/internal/model"
)

func newSymbol(kind model.Kind, name, signature string) *model.Symbol {
	return &model.Symbol{
		ID: "sym:" + name, Name: name, Kind: kind, Language: "go",
		Signature: signature,
	}
}

func TestInfer_ArrowReturnType(t *testing.T) {
	result := model.NewFileResult("f.rs", "rust")
	result.Symbols = append(result.Symbols, newSymbol(model.KindFunction, "new", "fn new() -> Self"))

	types := Infer(result)
	info := types["sym:new"]
	require.NotNil(t, info)
	assert.Equal(t, "Self", info.ResolvedType)
	assert.True(t, info.IsInferred)
}

func TestInfer_TrailingColonType(t *testing.T) {
	result := model.NewFileResult("f.kt", "kotlin")
	result.Symbols = append(result.Symbols, newSymbol(model.KindMethod, "count", "fun count(): Int"))

	types := Infer(result)
	info := types["sym:count"]
	require.NotNil(t, info)
	assert.Equal(t, "Int", info.ResolvedType)
}

func TestInfer_CFamilyReturnTypePrefix(t *testing.T) {
	result := model.NewFileResult("f.java", "java")
	result.Symbols = append(result.Symbols, newSymbol(model.KindMethod, "isAdult", "public boolean isAdult()"))

	types := Infer(result)
	info := types["sym:isAdult"]
	require.NotNil(t, info)
	assert.Equal(t, "boolean", info.ResolvedType)
}

func TestInfer_DeclarationWithColonType(t *testing.T) {
	result := model.NewFileResult("f.ts", "typescript")
	result.Symbols = append(result.Symbols, newSymbol(model.KindField, "name", "name: string = \"x\""))

	types := Infer(result)
	info := types["sym:name"]
	require.NotNil(t, info)
	assert.Equal(t, "string", info.ResolvedType)
}

func TestInfer_DeclarationWithTypePrefix(t *testing.T) {
	result := model.NewFileResult("f.java", "java")
	result.Symbols = append(result.Symbols, newSymbol(model.KindField, "count", "private int count = 0"))

	types := Infer(result)
	info := types["sym:count"]
	require.NotNil(t, info)
	assert.Equal(t, "int", info.ResolvedType)
}

func TestInfer_DynamicLiteralHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		sig      string
		wantType string
	}{
		{"number", "COUNT = 42", "number"},
		{"boolean", "enabled = true", "boolean"},
		{"string", "NAME = \"hi\"", "string"},
		{"path", "ROOT = /usr/local", "path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := model.NewFileResult("f.rb", "ruby")
			result.Symbols = append(result.Symbols, newSymbol(model.KindConstant, "X", tt.sig))
			types := Infer(result)
			info := types["sym:X"]
			require.NotNil(t, info)
			assert.Equal(t, tt.wantType, info.ResolvedType)
		})
	}
}

func TestInfer_UnrecognizedShapeProducesNoTypeInfo(t *testing.T) {
	result := model.NewFileResult("f.rb", "ruby")
	result.Symbols = append(result.Symbols, newSymbol(model.KindConstant, "X", "X = some_call()"))

	types := Infer(result)
	assert.Nil(t, types["sym:X"])
}

func TestInfer_IgnoresNonInferableKinds(t *testing.T) {
	result := model.NewFileResult("f.go", "go")
	result.Symbols = append(result.Symbols, newSymbol(model.KindClass, "Greeter", "type Greeter struct{}"))

	types := Infer(result)
	assert.Empty(t, types)
}
