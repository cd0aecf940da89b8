// Package model defines the data structures for smali gate patching.
package model

// Path represents a file system path.
type Path string

// PrimitiveType is the smali type descriptor of a field or return value.
// Only boolean and integer gates are ever rewritten.
type PrimitiveType string

const (
	// TypeBoolean is the smali descriptor for boolean (Z).
	TypeBoolean PrimitiveType = "Z"
	// TypeInteger is the smali descriptor for int (I).
	TypeInteger PrimitiveType = "I"
)

// ClassUnit is one disassembled class file. It is owned by the batch
// driver for the duration of a pass and written back only when changed.
type ClassUnit struct {
	Path Path
	Text string
}

// FieldDecl is a parsed .field declaration inside a ClassUnit.
// Recomputed per pass, never persisted.
type FieldDecl struct {
	Name      string
	Type      PrimitiveType
	Modifiers []string
	Line      int // zero-based line index of the declaration
}

// MethodSpan is the full text region of one method, from the .method
// marker to the matching .end method marker. The preamble must be
// re-emitted unchanged by any rewrite; only the region between the
// locals directive and the terminator may be replaced.
type MethodSpan struct {
	Name       string
	ReturnType PrimitiveType
	StartLine  int // zero-based index of the .method line
	EndLine    int // zero-based index of the .end method line
	Preamble   []string
	Locals     int
	Body       []string
}
