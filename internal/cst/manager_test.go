package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ParseFile(t *testing.T) {
	m := NewManager(nil)

	tests := []struct {
		name     string
		language string
		source   string
	}{
		{"go", LangGo, "package main\n\nfunc Hello() string {\n\treturn \"hi\"\n}\n"},
		{"java", LangJava, "public class Foo { void bar() {} }"},
		{"rust", LangRust, "struct S; impl S { pub fn new() -> Self { S } }"},
		{"ruby", LangRuby, "class C\n  def a\n  end\nend\n"},
		{"kotlin", LangKotlin, "class K { companion object { const val MAX = 42 } }"},
		{"bash", LangBash, "deploy(){ docker build .; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := m.ParseFile("test."+tt.name, []byte(tt.source), tt.language)
			require.NoError(t, err)
			require.NotNil(t, tree)
			defer tree.Close()
			assert.Equal(t, tt.language, tree.Language)
			assert.False(t, tree.Root.HasError(), "unexpected parse errors for %s", tt.name)
		})
	}
}

func TestManager_ParseFile_UnknownLanguage(t *testing.T) {
	m := NewManager(nil)
	_, err := m.ParseFile("test.xyz", []byte("???"), "")
	require.Error(t, err)

	var fatal *ParseFatalError
	require.ErrorAs(t, err, &fatal)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangGo, DetectLanguage("main.go", nil))
	assert.Equal(t, LangRuby, DetectLanguage("Rakefile", nil))
	assert.Equal(t, LangPython, DetectLanguage("script", []byte("#!/usr/bin/env python3\n")))
	assert.Equal(t, LangBash, DetectLanguage("run", []byte("#!/bin/bash\necho hi\n")))
	assert.Equal(t, "", DetectLanguage("README.md", nil))
}

func TestManager_SupportsAndList(t *testing.T) {
	m := NewManager(nil)
	assert.True(t, m.Supports(LangJava))
	assert.True(t, m.Supports(LangKotlin))
	assert.False(t, m.Supports("cobol"))
	assert.NotEmpty(t, m.SupportedLanguages())
}
