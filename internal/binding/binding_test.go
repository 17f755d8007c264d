package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/73ai/codegrep/internal/cst"
	"github.com/73ai/codegrep/internal/model"
)

func TestDetect_ShellCrossLanguageInvocation(t *testing.T) {
	result := model.NewFileResult("deploy.sh", cst.LangBash)
	result.Symbols = append(result.Symbols, &model.Symbol{
		ID: "sym:python3", Name: "python3", Kind: model.KindFunction, StartLine: 3,
	})

	bindings := Detect(result, cst.LangBash, nil)
	require.Len(t, bindings, 1)
	assert.Equal(t, cst.LangPython, bindings[0].TargetLanguage)
	assert.Equal(t, "process-invocation", bindings[0].Metadata["mechanism"])
}

func TestDetect_ShellPathLikeCommand(t *testing.T) {
	result := model.NewFileResult("deploy.sh", cst.LangBash)
	result.Symbols = append(result.Symbols, &model.Symbol{
		ID: "sym:script", Name: "./scripts/run.sh", Kind: model.KindFunction, StartLine: 1,
	})

	bindings := Detect(result, cst.LangBash, nil)
	require.Len(t, bindings, 1)
	assert.Equal(t, "unknown", bindings[0].TargetLanguage)
}

func TestDetect_ECMAScriptRequire(t *testing.T) {
	result := model.NewFileResult("index.js", cst.LangJavaScript)
	result.Symbols = append(result.Symbols, &model.Symbol{
		ID: "sym:imp", Name: "lodash", Kind: model.KindImport, Language: cst.LangJavaScript,
		Signature: `const _ = require("lodash")`, StartLine: 1,
	})

	bindings := Detect(result, cst.LangJavaScript, nil)
	require.Len(t, bindings, 1)
	assert.Equal(t, "module:lodash", bindings[0].Target)
	assert.Equal(t, "module", bindings[0].TargetLanguage)
}

func TestDetect_ECMAScriptImportFrom(t *testing.T) {
	result := model.NewFileResult("index.ts", cst.LangTypeScript)
	result.Symbols = append(result.Symbols, &model.Symbol{
		ID: "sym:imp", Name: "react", Kind: model.KindImport, Language: cst.LangTypeScript,
		Signature: `import React from "react"`, StartLine: 1,
	})

	bindings := Detect(result, cst.LangTypeScript, nil)
	require.Len(t, bindings, 1)
	assert.Equal(t, "module:react", bindings[0].Target)
}

func TestDetect_JVMProcessBuilder(t *testing.T) {
	source := []byte(`class Runner { void run() { new ProcessBuilder("ls").start(); } }`)
	method := &model.Symbol{
		ID: "sym:run", Name: "run", Kind: model.KindMethod, Language: cst.LangJava,
		StartByte: 0, EndByte: uint(len(source)), StartLine: 1,
	}
	result := model.NewFileResult("Runner.java", cst.LangJava)
	result.Symbols = append(result.Symbols, method)

	bindings := Detect(result, cst.LangJava, source)
	require.Len(t, bindings, 1)
	assert.Equal(t, "unknown", bindings[0].TargetLanguage)
	assert.Equal(t, "process-invocation", bindings[0].Metadata["mechanism"])
}

func TestDetect_JVMRuntimeExec(t *testing.T) {
	source := []byte(`fun run() { Runtime.getRuntime().exec("ls") }`)
	method := &model.Symbol{
		ID: "sym:run", Name: "run", Kind: model.KindFunction, Language: cst.LangKotlin,
		StartByte: 0, EndByte: uint(len(source)), StartLine: 1,
	}
	result := model.NewFileResult("run.kt", cst.LangKotlin)
	result.Symbols = append(result.Symbols, method)

	bindings := Detect(result, cst.LangKotlin, source)
	require.Len(t, bindings, 1)
}

func TestDetect_JVMNoMatchWithoutProcessInvocation(t *testing.T) {
	source := []byte(`class Runner { void run() { System.out.println("hi"); } }`)
	method := &model.Symbol{
		ID: "sym:run", Name: "run", Kind: model.KindMethod, Language: cst.LangJava,
		StartByte: 0, EndByte: uint(len(source)), StartLine: 1,
	}
	result := model.NewFileResult("Runner.java", cst.LangJava)
	result.Symbols = append(result.Symbols, method)

	bindings := Detect(result, cst.LangJava, source)
	assert.Empty(t, bindings)
}

func TestDetect_RubyBacktickExecution(t *testing.T) {
	source := []byte("def run\n  output = `ls -la`\nend\n")
	method := &model.Symbol{
		ID: "sym:run", Name: "run", Kind: model.KindMethod, Language: cst.LangRuby,
		StartByte: 0, EndByte: uint(len(source)), StartLine: 1,
	}
	result := model.NewFileResult("run.rb", cst.LangRuby)
	result.Symbols = append(result.Symbols, method)

	bindings := Detect(result, cst.LangRuby, source)
	require.Len(t, bindings, 1)
	assert.Equal(t, "process-invocation", bindings[0].Metadata["mechanism"])
}

func TestDetect_RubyPercentXExecution(t *testing.T) {
	source := []byte("def run\n  output = %x{ls -la}\nend\n")
	method := &model.Symbol{
		ID: "sym:run", Name: "run", Kind: model.KindMethod, Language: cst.LangRuby,
		StartByte: 0, EndByte: uint(len(source)), StartLine: 1,
	}
	result := model.NewFileResult("run.rb", cst.LangRuby)
	result.Symbols = append(result.Symbols, method)

	bindings := Detect(result, cst.LangRuby, source)
	require.Len(t, bindings, 1)
}

func TestDetect_NilSourceSkipsBodyScanningRules(t *testing.T) {
	method := &model.Symbol{
		ID: "sym:run", Name: "run", Kind: model.KindMethod, Language: cst.LangJava,
		StartByte: 0, EndByte: 10, StartLine: 1,
	}
	result := model.NewFileResult("Runner.java", cst.LangJava)
	result.Symbols = append(result.Symbols, method)

	bindings := Detect(result, cst.LangJava, nil)
	assert.Empty(t, bindings)
}

func TestRegister_CustomPatternIsApplied(t *testing.T) {
	Register(Pattern{
		Language:       "zig",
		TargetLanguage: "c",
		Match: func(signature string) (string, bool) {
			if signature == "extern fn libc_call()" {
				return "libc", true
			}
			return "", false
		},
	})

	result := model.NewFileResult("main.zig", "zig")
	result.Symbols = append(result.Symbols, &model.Symbol{
		ID: "sym:libc_call", Name: "libc_call", Kind: model.KindFunction,
		Signature: "extern fn libc_call()", StartLine: 1,
	})

	bindings := Detect(result, "zig", nil)
	require.Len(t, bindings, 1)
	assert.Equal(t, "libc", bindings[0].Target)
	assert.Equal(t, "c", bindings[0].TargetLanguage)
}
