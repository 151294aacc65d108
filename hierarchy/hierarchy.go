package hierarchy

// Visibility is the declared accessibility tier of a member. It is fixed
// when the member is declared and never changes afterwards.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// MemberKind distinguishes fields from methods.
type MemberKind int

const (
	Field MemberKind = iota
	Method
)

func (k MemberKind) String() string {
	if k == Method {
		return "method"
	}
	return "field"
}

// Member is a single declared field or method. The declaring class is the
// class whose declaration introduced it, not any subclass that inherits it.
type Member struct {
	name       string
	kind       MemberKind
	visibility Visibility
	declaring  *Class
}

func (m *Member) Name() string           { return m.name }
func (m *Member) Kind() MemberKind       { return m.kind }
func (m *Member) Visibility() Visibility { return m.visibility }

// Declaring returns the class the member was declared in.
func (m *Member) Declaring() *Class { return m.declaring }

// Class is an immutable node in a single-inheritance hierarchy.
type Class struct {
	name    string
	parent  *Class
	members []*Member
	byName  map[string]*Member
}

func (c *Class) Name() string { return c.name }

// Parent returns the direct superclass, or nil for a root class.
func (c *Class) Parent() *Class { return c.parent }

// Members returns the class's own declared members in declaration order.
// Inherited members are not included.
func (c *Class) Members() []*Member {
	out := make([]*Member, len(c.members))
	copy(out, c.members)
	return out
}

// Declared returns the member declared directly on this class, if any.
func (c *Class) Declared(name string) (*Member, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// DescendsFrom reports whether c is a transitive subclass of ancestor.
// A class does not descend from itself.
func (c *Class) DescendsFrom(ancestor *Class) bool {
	if c == nil || ancestor == nil {
		return false
	}
	for p := c.parent; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// Hierarchy is a read-only set of classes produced by a Builder. It is safe
// for concurrent use: nothing in it mutates after Build.
type Hierarchy struct {
	classes map[string]*Class
	ordered []*Class
}

// Class looks a class up by name.
func (h *Hierarchy) Class(name string) (*Class, bool) {
	c, ok := h.classes[name]
	return c, ok
}

// Classes returns all classes in declaration order.
func (h *Hierarchy) Classes() []*Class {
	out := make([]*Class, len(h.ordered))
	copy(out, h.ordered)
	return out
}

// Resolve walks the parent chain starting at runtime and returns the
// most-derived declaration of name together with its declaring class.
// Shadowing therefore wins: a subclass declaration hides an ancestor's.
// Whether the resolved member may actually be accessed is the access
// package's concern, not resolution's.
func (h *Hierarchy) Resolve(runtime *Class, name string) (*Member, bool) {
	for c := runtime; c != nil; c = c.parent {
		if m, ok := c.byName[name]; ok {
			return m, true
		}
	}
	return nil, false
}
