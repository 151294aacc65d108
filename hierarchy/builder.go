package hierarchy

import (
	coreerrors "trespass/internal/core/errors"
)

// ClassDecl is the declarative input to a Builder. Parent is the name of
// the superclass, empty for a root class.
type ClassDecl struct {
	Name    string
	Parent  string
	Members []MemberDecl
}

type MemberDecl struct {
	Name       string
	Kind       MemberKind
	Visibility Visibility
}

// Builder accumulates class declarations and turns them into an immutable
// Hierarchy. Declarations may arrive in any order; parent links are wired
// at Build time.
type Builder struct {
	decls []ClassDecl
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Declare adds a class declaration. Validation happens in Build.
func (b *Builder) Declare(decl ClassDecl) *Builder {
	b.decls = append(b.decls, decl)
	return b
}

func declError(code coreerrors.ErrorCode, msg, class string) error {
	de := &coreerrors.DomainError{Code: code, Message: msg}
	return de.WithContext(coreerrors.CtxClass, class)
}

// Build validates the accumulated declarations and produces the Hierarchy.
// It rejects duplicate class names, duplicate member names within one
// class, unknown parents and cyclic parent chains.
func (b *Builder) Build() (*Hierarchy, error) {
	h := &Hierarchy{classes: make(map[string]*Class, len(b.decls))}

	for _, decl := range b.decls {
		if decl.Name == "" {
			return nil, coreerrors.New(coreerrors.CodeValidationError, "class name must not be empty")
		}
		if _, exists := h.classes[decl.Name]; exists {
			return nil, declError(coreerrors.CodeConflict, "duplicate class name", decl.Name)
		}
		c := &Class{
			name:   decl.Name,
			byName: make(map[string]*Member, len(decl.Members)),
		}
		for _, md := range decl.Members {
			if md.Name == "" {
				return nil, declError(coreerrors.CodeValidationError, "member name must not be empty", decl.Name)
			}
			if _, dup := c.byName[md.Name]; dup {
				de := &coreerrors.DomainError{Code: coreerrors.CodeConflict, Message: "duplicate member in class"}
				de.WithContext(coreerrors.CtxClass, decl.Name)
				de.WithContext(coreerrors.CtxMember, md.Name)
				return nil, de
			}
			m := &Member{
				name:       md.Name,
				kind:       md.Kind,
				visibility: md.Visibility,
				declaring:  c,
			}
			c.members = append(c.members, m)
			c.byName[md.Name] = m
		}
		h.classes[decl.Name] = c
		h.ordered = append(h.ordered, c)
	}

	// Wire parents once every class object exists.
	for _, decl := range b.decls {
		if decl.Parent == "" {
			continue
		}
		child := h.classes[decl.Name]
		parent, ok := h.classes[decl.Parent]
		if !ok {
			de := &coreerrors.DomainError{Code: coreerrors.CodeNotFound, Message: "parent class not declared"}
			de.WithContext(coreerrors.CtxClass, decl.Name)
			de.WithContext("parent", decl.Parent)
			return nil, de
		}
		if parent == child {
			return nil, declError(coreerrors.CodeValidationError, "class cannot extend itself", decl.Name)
		}
		child.parent = parent
	}

	if err := detectCycle(h); err != nil {
		return nil, err
	}

	return h, nil
}

// detectCycle walks each parent chain; a chain longer than the class count
// can only mean a loop.
func detectCycle(h *Hierarchy) error {
	for _, c := range h.ordered {
		steps := 0
		for p := c.parent; p != nil; p = p.parent {
			steps++
			if steps > len(h.ordered) {
				return declError(coreerrors.CodeValidationError, "inheritance cycle detected", c.name)
			}
		}
	}
	return nil
}
