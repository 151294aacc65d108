package parser

import (
	"time"

	"trespass/hierarchy"
)

// File is the extraction result for one source file: the class shapes it
// declares and the member accesses it performs.
type File struct {
	Path     string
	Language string
	Classes  []ClassDecl
	Accesses []Access
	Bindings []Binding
	ParsedAt time.Time
}

// ClassDecl is a class as written in source. Parent is the name of the
// extended class, empty when the class extends nothing.
type ClassDecl struct {
	Name     string
	Parent   string
	Members  []MemberDecl
	Location Location
}

type MemberDecl struct {
	Name       string
	Kind       hierarchy.MemberKind
	Visibility hierarchy.Visibility
	Location   Location
}

// Access is one member-access site: Receiver.Member. Enclosing names the
// class whose body contains the access, empty for top-level code. The
// self-reference receivers ("this", "self") are kept verbatim; binding
// resolution maps them back to Enclosing.
type Access struct {
	Receiver  string
	Member    string
	Enclosing string
	Call      bool // true when the access is an invocation
	Location  Location
}

// Binding records "var = new Class(...)" style constructor assignments so
// receiver variables can be mapped to a runtime class. Resolution is
// file-scoped and name-based, which is all the short didactic snippets
// this tool targets ever need.
type Binding struct {
	Var      string
	Class    string
	Location Location
}

type Location struct {
	File   string
	Line   int
	Column int
}
