package cst

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_scala "github.com/tree-sitter/tree-sitter-scala/bindings/go"
	tree_sitter_swift "github.com/alex-pinkus/tree-sitter-swift/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language tags. These double as the `language` attribute on every
// emitted Symbol and the key into the extractor registry.
const (
	LangGo         = "go"
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangRust       = "rust"
	LangJava       = "java"
	LangC          = "c"
	LangCPP        = "cpp"
	LangCSharp     = "csharp"
	LangRuby       = "ruby"
	LangPHP        = "php"
	LangSwift      = "swift"
	LangKotlin     = "kotlin"
	LangScala      = "scala"
	LangBash       = "bash"
)

// registerBuiltinLanguages wires every grammar this module ships with
// into the Manager: Go, Python, JavaScript, TypeScript, Rust, C, C++,
// Java, plus Ruby, Kotlin, Bash, C#, PHP, Scala, and Swift.
func registerBuiltinLanguages(m *Manager) {
	m.Register(LangGo, sitter.NewLanguage(tree_sitter_go.Language()))
	m.Register(LangPython, sitter.NewLanguage(tree_sitter_python.Language()))
	m.Register(LangJavaScript, sitter.NewLanguage(tree_sitter_javascript.Language()))
	m.Register(LangTypeScript, sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()))
	m.Register(LangRust, sitter.NewLanguage(tree_sitter_rust.Language()))
	m.Register(LangJava, sitter.NewLanguage(tree_sitter_java.Language()))
	m.Register(LangC, sitter.NewLanguage(tree_sitter_c.Language()))
	m.Register(LangCPP, sitter.NewLanguage(tree_sitter_cpp.Language()))
	m.Register(LangCSharp, sitter.NewLanguage(tree_sitter_csharp.Language()))
	m.Register(LangRuby, sitter.NewLanguage(tree_sitter_ruby.Language()))
	m.Register(LangPHP, sitter.NewLanguage(tree_sitter_php.LanguagePHP()))
	m.Register(LangSwift, sitter.NewLanguage(tree_sitter_swift.Language()))
	m.Register(LangKotlin, sitter.NewLanguage(tree_sitter_kotlin.Language()))
	m.Register(LangScala, sitter.NewLanguage(tree_sitter_scala.Language()))
	m.Register(LangBash, sitter.NewLanguage(tree_sitter_bash.Language()))
}

// langExtensions maps file extensions to language tags.
var langExtensions = map[string]string{
	".go":    LangGo,
	".py":    LangPython,
	".pyw":   LangPython,
	".pyi":   LangPython,
	".js":    LangJavaScript,
	".jsx":   LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".ts":    LangTypeScript,
	".tsx":   LangTypeScript,
	".rs":    LangRust,
	".java":  LangJava,
	".c":     LangC,
	".h":     LangC,
	".cpp":   LangCPP,
	".cc":    LangCPP,
	".cxx":   LangCPP,
	".hpp":   LangCPP,
	".hh":    LangCPP,
	".cs":    LangCSharp,
	".rb":    LangRuby,
	".rake":  LangRuby,
	".php":   LangPHP,
	".swift": LangSwift,
	".kt":    LangKotlin,
	".kts":   LangKotlin,
	".scala": LangScala,
	".sc":    LangScala,
	".sh":    LangBash,
	".bash":  LangBash,
	".zsh":   LangBash,
}

// langFilenames maps known filenames (without reliable extensions) to
// language tags.
var langFilenames = map[string]string{
	"Rakefile":    LangRuby,
	"Gemfile":     LangRuby,
	"Vagrantfile": LangRuby,
	"Makefile":    LangBash,
	"GNUmakefile": LangBash,
}

// shebangLangs maps shebang interpreter names to language tags.
var shebangLangs = map[string]string{
	"python":  LangPython,
	"python2": LangPython,
	"python3": LangPython,
	"ruby":    LangRuby,
	"bash":    LangBash,
	"sh":      LangBash,
	"zsh":     LangBash,
	"node":    LangJavaScript,
	"kotlin":  LangKotlin,
	"scala":   LangScala,
	"swift":   LangSwift,
	"php":     LangPHP,
}
