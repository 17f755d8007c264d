// Package model defines the uniform Symbol/Relationship/TypeInfo schema
// that every per-language extractor emits.
package model

// Kind is the closed set of symbol kinds every extractor may emit.
type Kind string

const (
	KindClass       Kind = "Class"
	KindInterface   Kind = "Interface"
	KindFunction    Kind = "Function"
	KindMethod      Kind = "Method"
	KindVariable    Kind = "Variable"
	KindConstant    Kind = "Constant"
	KindProperty    Kind = "Property"
	KindEnum        Kind = "Enum"
	KindEnumMember  Kind = "EnumMember"
	KindModule      Kind = "Module"
	KindNamespace   Kind = "Namespace"
	KindType        Kind = "Type"
	KindTrait       Kind = "Trait"
	KindStruct      Kind = "Struct"
	KindUnion       Kind = "Union"
	KindField       Kind = "Field"
	KindConstructor Kind = "Constructor"
	KindDestructor  Kind = "Destructor"
	KindOperator    Kind = "Operator"
	KindImport      Kind = "Import"
	KindExport      Kind = "Export"
	KindEvent       Kind = "Event"
	KindDelegate    Kind = "Delegate"
)

// containerKinds are the symbol kinds that may act as a parent during
// containment search and are the only kinds allowed as a ParentID target.
var containerKinds = map[Kind]bool{
	KindClass:     true,
	KindInterface: true,
	KindEnum:      true,
	KindNamespace: true,
	KindModule:    true,
	KindFunction:  true,
	KindMethod:    true,
}

// IsContainerKind reports whether k may legally be the kind of a parent
// Symbol.
func IsContainerKind(k Kind) bool {
	return containerKinds[k]
}

// RelationshipKind is the closed set of relationship kinds.
type RelationshipKind string

const (
	RelCalls        RelationshipKind = "Calls"
	RelExtends      RelationshipKind = "Extends"
	RelImplements   RelationshipKind = "Implements"
	RelUses         RelationshipKind = "Uses"
	RelReturns      RelationshipKind = "Returns"
	RelParameter    RelationshipKind = "Parameter"
	RelImports      RelationshipKind = "Imports"
	RelInstantiates RelationshipKind = "Instantiates"
	RelReferences   RelationshipKind = "References"
	RelDefines      RelationshipKind = "Defines"
	RelOverrides    RelationshipKind = "Overrides"
	RelContains     RelationshipKind = "Contains"
	RelJoins        RelationshipKind = "Joins"
	RelIncludes     RelationshipKind = "Includes"
)

// Visibility is the closed set of visibility values.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityPackage   Visibility = "package"
)

// Symbol is a named construct extracted from source.
type Symbol struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       Kind           `json:"kind"`
	Language   string         `json:"language"`
	FilePath   string         `json:"filePath"`
	StartLine  int            `json:"startLine"`
	StartCol   int            `json:"startCol"`
	EndLine    int            `json:"endLine"`
	EndCol     int            `json:"endCol"`
	StartByte  uint           `json:"startByte"`
	EndByte    uint           `json:"endByte"`
	Signature  string         `json:"signature,omitempty"`
	DocComment string         `json:"docComment,omitempty"`
	Visibility Visibility     `json:"visibility,omitempty"`
	ParentID   string         `json:"parentId,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SetMeta assigns a metadata key, allocating the map on first use.
func (s *Symbol) SetMeta(key string, value any) {
	if s.Metadata == nil {
		s.Metadata = make(map[string]any)
	}
	s.Metadata[key] = value
}

// Meta reads a metadata key, returning (nil, false) if unset.
func (s *Symbol) Meta(key string) (any, bool) {
	if s.Metadata == nil {
		return nil, false
	}
	v, ok := s.Metadata[key]
	return v, ok
}

// EnclosesPoint reports whether the symbol's [start,end) span strictly
// encloses the given byte offset. It is the authority the containment
// invariant and the base extractor's containment search rely on.
func (s *Symbol) EnclosesPoint(byteOffset uint) bool {
	return s.StartByte <= byteOffset && byteOffset < s.EndByte
}

// Encloses reports whether s's span encloses other's span: a parent's
// byte span encloses its child's.
func (s *Symbol) Encloses(other *Symbol) bool {
	return s.StartByte <= other.StartByte && other.EndByte <= s.EndByte
}

// Span returns end-start in bytes, used to break containment ties by
// smaller span when multiple symbols enclose the same point.
func (s *Symbol) Span() uint {
	if s.EndByte < s.StartByte {
		return 0
	}
	return s.EndByte - s.StartByte
}

// Relationship is a directed, typed edge between two symbols, or from a
// symbol to an external token.
type Relationship struct {
	ID           string           `json:"id,omitempty"`
	FromSymbolID string           `json:"fromSymbolId"`
	ToSymbolID   string           `json:"toSymbolId"`
	Kind         RelationshipKind `json:"kind"`
	FilePath     string           `json:"filePath"`
	Line         int              `json:"line"`
	Confidence   float64          `json:"confidence"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
}

// SetMeta assigns a metadata key, allocating the map on first use.
func (r *Relationship) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	r.Metadata[key] = value
}

// ExternalToken formats the {language-tag}:{name} external-token form
// used when a Relationship target is not a local Symbol.
func ExternalToken(language, name string) string {
	return language + ":" + name
}

// ModuleToken formats the module:{path} external-token form.
func ModuleToken(path string) string {
	return "module:" + path
}

// TypeInfo is a derived record produced by the type inference pass.
type TypeInfo struct {
	SymbolID      string         `json:"symbolId"`
	ResolvedType  string         `json:"resolvedType"`
	GenericParams []string       `json:"genericParams,omitempty"`
	Constraints   []string       `json:"constraints,omitempty"`
	IsInferred    bool           `json:"isInferred"`
	Language      string         `json:"language"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// FileResult is what the core hands to the external index for one file:
// its symbols, relationships, and inferred types.
type FileResult struct {
	FilePath      string               `json:"filePath"`
	Language      string               `json:"language"`
	Symbols       []*Symbol            `json:"symbols"`
	Relationships []*Relationship      `json:"relationships"`
	Types         map[string]*TypeInfo `json:"types"`
	Truncated     bool                 `json:"truncated,omitempty"`
}

// NewFileResult returns an empty, ready-to-populate FileResult.
func NewFileResult(filePath, language string) *FileResult {
	return &FileResult{
		FilePath: filePath,
		Language: language,
		Types:    make(map[string]*TypeInfo),
	}
}

// SymbolByName returns the file's symbols matching name, in the order
// they were emitted (tree-walk / pre-order). Multiple results occur for
// legal redeclarations (overloads).
func (f *FileResult) SymbolByName(name string) []*Symbol {
	var out []*Symbol
	for _, s := range f.Symbols {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
