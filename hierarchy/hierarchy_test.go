package hierarchy

import (
	"testing"

	coreerrors "trespass/internal/core/errors"
)

func TestBuild_WiresParentChain(t *testing.T) {
	h, err := NewBuilder().
		Declare(ClassDecl{Name: "Person", Members: []MemberDecl{
			{Name: "name", Kind: Field, Visibility: Public},
			{Name: "getAge", Kind: Method, Visibility: Protected},
		}}).
		Declare(ClassDecl{Name: "Employee", Parent: "Person"}).
		Declare(ClassDecl{Name: "Manager", Parent: "Employee"}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	manager, ok := h.Class("Manager")
	if !ok {
		t.Fatal("Manager not found")
	}
	person, _ := h.Class("Person")
	employee, _ := h.Class("Employee")

	if manager.Parent() != employee {
		t.Errorf("Expected Manager parent Employee, got %v", manager.Parent())
	}
	if !manager.DescendsFrom(person) {
		t.Error("Manager should descend from Person transitively")
	}
	if person.DescendsFrom(manager) {
		t.Error("Person must not descend from its own subclass")
	}
	if person.DescendsFrom(person) {
		t.Error("A class does not descend from itself")
	}
}

func TestBuild_DeclarationOrderDoesNotMatter(t *testing.T) {
	h, err := NewBuilder().
		Declare(ClassDecl{Name: "SavingsAccount", Parent: "BankAccount"}).
		Declare(ClassDecl{Name: "BankAccount", Members: []MemberDecl{
			{Name: "getBalance", Kind: Method, Visibility: Private},
		}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	savings, _ := h.Class("SavingsAccount")
	bank, _ := h.Class("BankAccount")
	if savings.Parent() != bank {
		t.Error("Parent declared after child should still be wired")
	}
}

func TestBuild_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		decls []ClassDecl
		code  coreerrors.ErrorCode
	}{
		{
			name: "duplicate class",
			decls: []ClassDecl{
				{Name: "A"},
				{Name: "A"},
			},
			code: coreerrors.CodeConflict,
		},
		{
			name: "duplicate member within one class",
			decls: []ClassDecl{
				{Name: "A", Members: []MemberDecl{
					{Name: "m", Kind: Method, Visibility: Public},
					{Name: "m", Kind: Field, Visibility: Private},
				}},
			},
			code: coreerrors.CodeConflict,
		},
		{
			name: "unknown parent",
			decls: []ClassDecl{
				{Name: "B", Parent: "Nowhere"},
			},
			code: coreerrors.CodeNotFound,
		},
		{
			name: "self inheritance",
			decls: []ClassDecl{
				{Name: "A", Parent: "A"},
			},
			code: coreerrors.CodeValidationError,
		},
		{
			name: "two-class cycle",
			decls: []ClassDecl{
				{Name: "A", Parent: "B"},
				{Name: "B", Parent: "A"},
			},
			code: coreerrors.CodeValidationError,
		},
		{
			name: "three-class cycle",
			decls: []ClassDecl{
				{Name: "A", Parent: "C"},
				{Name: "B", Parent: "A"},
				{Name: "C", Parent: "B"},
			},
			code: coreerrors.CodeValidationError,
		},
		{
			name: "empty class name",
			decls: []ClassDecl{
				{Name: ""},
			},
			code: coreerrors.CodeValidationError,
		},
		{
			name: "empty member name",
			decls: []ClassDecl{
				{Name: "A", Members: []MemberDecl{{Name: ""}}},
			},
			code: coreerrors.CodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			for _, d := range tt.decls {
				b.Declare(d)
			}
			_, err := b.Build()
			if err == nil {
				t.Fatal("Expected Build to fail")
			}
			if !coreerrors.IsCode(err, tt.code) {
				t.Errorf("Expected code %s, got %v", tt.code, err)
			}
		})
	}
}

func TestBuild_AllowsShadowingAcrossClasses(t *testing.T) {
	// Same member name in parent and child is shadowing, not a conflict.
	h, err := NewBuilder().
		Declare(ClassDecl{Name: "Base", Members: []MemberDecl{
			{Name: "describe", Kind: Method, Visibility: Public},
		}}).
		Declare(ClassDecl{Name: "Derived", Parent: "Base", Members: []MemberDecl{
			{Name: "describe", Kind: Method, Visibility: Public},
		}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	derived, _ := h.Class("Derived")
	m, ok := h.Resolve(derived, "describe")
	if !ok {
		t.Fatal("describe should resolve")
	}
	if m.Declaring() != derived {
		t.Errorf("Shadowing should resolve to the most-derived declaration, got %s", m.Declaring().Name())
	}
}

func TestResolve(t *testing.T) {
	h, err := NewBuilder().
		Declare(ClassDecl{Name: "Person", Members: []MemberDecl{
			{Name: "getAge", Kind: Method, Visibility: Protected},
		}}).
		Declare(ClassDecl{Name: "Employee", Parent: "Person"}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	person, _ := h.Class("Person")
	employee, _ := h.Class("Employee")

	m, ok := h.Resolve(employee, "getAge")
	if !ok {
		t.Fatal("getAge should resolve through the parent chain")
	}
	if m.Declaring() != person {
		t.Errorf("Expected declaring class Person, got %s", m.Declaring().Name())
	}
	if m.Visibility() != Protected {
		t.Errorf("Expected protected, got %s", m.Visibility())
	}
	if m.Kind() != Method {
		t.Errorf("Expected method, got %s", m.Kind())
	}

	if _, ok := h.Resolve(employee, "getSalary"); ok {
		t.Error("Undeclared member should not resolve")
	}
	if _, ok := h.Resolve(nil, "getAge"); ok {
		t.Error("Nil runtime class should not resolve")
	}
}

func TestClassAccessorsCopyState(t *testing.T) {
	h, err := NewBuilder().
		Declare(ClassDecl{Name: "A", Members: []MemberDecl{
			{Name: "x", Kind: Field, Visibility: Private},
			{Name: "y", Kind: Field, Visibility: Public},
		}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	a, _ := h.Class("A")

	members := a.Members()
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	members[0] = nil
	if got := a.Members(); got[0] == nil {
		t.Error("Members must return a copy")
	}

	classes := h.Classes()
	classes[0] = nil
	if got := h.Classes(); got[0] == nil {
		t.Error("Classes must return a copy")
	}
}
