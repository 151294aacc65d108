// Package access evaluates member-access attempts against the visibility
// rules of a class hierarchy. The decision is a pure function: the calling
// context is an explicit parameter, never inferred from the call stack, so
// the same Attempt against the same Hierarchy always yields the same
// Outcome.
package access

import (
	"trespass/hierarchy"
)

// Context identifies where an access attempt originates. A zero Context
// means "outside any related class". Callers inside a class pass that
// class; the checker derives declaring-class / subclass / outside itself.
type Context struct {
	Class *hierarchy.Class
}

// Outside is the context of code that belongs to no class at all.
var Outside = Context{}

// From returns the context of code inside the given class.
func From(c *hierarchy.Class) Context {
	return Context{Class: c}
}

// Attempt describes one member access: member Name looked up on an
// instance whose runtime class is Runtime, from the given Context. Runtime
// may be a subclass of the class that actually declares the member.
type Attempt struct {
	Member  string
	Runtime *hierarchy.Class
	Context Context
}

// Decision is the kind of Outcome.
type Decision int

const (
	Allowed Decision = iota
	Denied
	MemberNotFound
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	default:
		return "member not found"
	}
}

// Denial reasons. These are result values, not errors: a denial is the
// expected answer for an access the rules forbid.
const (
	ReasonProtected = "protected member inaccessible outside class or subclass hierarchy"
	ReasonPrivate   = "private member inaccessible outside declaring class"
)

// Outcome is the checker's verdict. Member and Declaring are populated for
// Allowed and Denied; Reason only for Denied.
type Outcome struct {
	Decision  Decision
	Reason    string
	Member    *hierarchy.Member
	Declaring *hierarchy.Class
}

// Check resolves the attempted member and applies the visibility policy.
//
// Resolution walks the runtime class's parent chain and picks the
// most-derived declaration, so subclass shadowing wins. The policy is then
// evaluated against the resolved member's declaring class:
//
//   - public:    allowed from anywhere
//   - protected: allowed from the declaring class or any transitive subclass
//   - private:   allowed from the declaring class only; a subclass does not
//     inherit access, not even a direct one
func Check(h *hierarchy.Hierarchy, a Attempt) Outcome {
	member, ok := h.Resolve(a.Runtime, a.Member)
	if !ok {
		return Outcome{Decision: MemberNotFound}
	}

	declaring := member.Declaring()

	switch member.Visibility() {
	case hierarchy.Public:
		return allowed(member, declaring)

	case hierarchy.Protected:
		if a.Context.Class == declaring || a.Context.Class.DescendsFrom(declaring) {
			return allowed(member, declaring)
		}
		return denied(ReasonProtected, member, declaring)

	case hierarchy.Private:
		if a.Context.Class == declaring {
			return allowed(member, declaring)
		}
		return denied(ReasonPrivate, member, declaring)
	}

	return denied("unknown visibility", member, declaring)
}

func allowed(m *hierarchy.Member, declaring *hierarchy.Class) Outcome {
	return Outcome{Decision: Allowed, Member: m, Declaring: declaring}
}

func denied(reason string, m *hierarchy.Member, declaring *hierarchy.Class) Outcome {
	return Outcome{Decision: Denied, Reason: reason, Member: m, Declaring: declaring}
}
