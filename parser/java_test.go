package parser

import (
	"testing"

	"trespass/hierarchy"
)

const javaSample = `
class Person {
    public String name;
    private int age;

    protected int getAge() {
        return this.age;
    }
}

class Employee extends Person {
    public void work() {
        this.getAge();
    }
}

class Main {
    public static void main(String[] args) {
        Employee emp = new Employee();
        emp.getAge();
        System.out.println(emp.name);
    }
}
`

func parseSample(t *testing.T, path, src string) *File {
	t.Helper()
	file, err := Default().ParseFile(path, []byte(src))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	return file
}

func findClass(t *testing.T, file *File, name string) ClassDecl {
	t.Helper()
	for _, c := range file.Classes {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %s not extracted (got %v)", name, file.Classes)
	return ClassDecl{}
}

func findMember(t *testing.T, c ClassDecl, name string) MemberDecl {
	t.Helper()
	for _, m := range c.Members {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("member %s not extracted from %s (got %v)", name, c.Name, c.Members)
	return MemberDecl{}
}

func hasAccess(file *File, receiver, member string) bool {
	for _, a := range file.Accesses {
		if a.Receiver == receiver && a.Member == member {
			return true
		}
	}
	return false
}

func TestJavaExtractor_Classes(t *testing.T) {
	file := parseSample(t, "Sample.java", javaSample)

	if len(file.Classes) != 3 {
		t.Fatalf("Expected 3 classes, got %d", len(file.Classes))
	}

	person := findClass(t, file, "Person")
	if person.Parent != "" {
		t.Errorf("Person should have no parent, got %q", person.Parent)
	}

	tests := []struct {
		member string
		kind   hierarchy.MemberKind
		vis    hierarchy.Visibility
	}{
		{"name", hierarchy.Field, hierarchy.Public},
		{"age", hierarchy.Field, hierarchy.Private},
		{"getAge", hierarchy.Method, hierarchy.Protected},
	}
	for _, tt := range tests {
		m := findMember(t, person, tt.member)
		if m.Kind != tt.kind {
			t.Errorf("%s: expected kind %s, got %s", tt.member, tt.kind, m.Kind)
		}
		if m.Visibility != tt.vis {
			t.Errorf("%s: expected %s, got %s", tt.member, tt.vis, m.Visibility)
		}
	}

	employee := findClass(t, file, "Employee")
	if employee.Parent != "Person" {
		t.Errorf("Expected Employee extends Person, got %q", employee.Parent)
	}
	work := findMember(t, employee, "work")
	if work.Visibility != hierarchy.Public {
		t.Errorf("work should be public, got %s", work.Visibility)
	}
}

func TestJavaExtractor_BindingsAndAccesses(t *testing.T) {
	file := parseSample(t, "Sample.java", javaSample)

	var bound bool
	for _, b := range file.Bindings {
		if b.Var == "emp" && b.Class == "Employee" {
			bound = true
		}
	}
	if !bound {
		t.Errorf("Expected binding emp -> Employee, got %v", file.Bindings)
	}

	if !hasAccess(file, "emp", "getAge") {
		t.Error("emp.getAge() access not extracted")
	}
	if !hasAccess(file, "emp", "name") {
		t.Error("emp.name access not extracted")
	}
	if !hasAccess(file, "this", "age") {
		t.Error("this.age access not extracted")
	}

	for _, a := range file.Accesses {
		if a.Receiver == "emp" && a.Enclosing != "Main" {
			t.Errorf("emp access should be enclosed by Main, got %q", a.Enclosing)
		}
		if a.Receiver == "this" && a.Member == "getAge" {
			if a.Enclosing != "Employee" {
				t.Errorf("this.getAge() should be enclosed by Employee, got %q", a.Enclosing)
			}
			if !a.Call {
				t.Error("this.getAge() should be marked as a call")
			}
		}
	}
}

func TestJavaExtractor_ImplicitThisCall(t *testing.T) {
	file := parseSample(t, "Greeter.java", `
class Greeter {
    private String render() {
        return "hi";
    }

    public void greet() {
        render();
    }
}
`)
	if !hasAccess(file, "this", "render") {
		t.Errorf("bare render() should be recorded as this.render, got %v", file.Accesses)
	}
	for _, a := range file.Accesses {
		if a.Member == "render" {
			if a.Enclosing != "Greeter" {
				t.Errorf("render() should be enclosed by Greeter, got %q", a.Enclosing)
			}
			if !a.Call {
				t.Error("render() should be marked as a call")
			}
		}
	}
}

func TestJavaExtractor_PackagePrivateMapsToPublic(t *testing.T) {
	file := parseSample(t, "P.java", `
class P {
    int count;
    void tick() {}
}
`)
	p := findClass(t, file, "P")
	if findMember(t, p, "count").Visibility != hierarchy.Public {
		t.Error("modifier-less field should map to public")
	}
	if findMember(t, p, "tick").Visibility != hierarchy.Public {
		t.Error("modifier-less method should map to public")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"A.java":     "java",
		"a/b/c.py":   "python",
		"mod.ts":     "typescript",
		"mod.js":     "javascript",
		"mod.mjs":    "javascript",
		"README.md":  "",
		"Main.class": "",
	}
	for path, want := range tests {
		if got := DetectLanguage(path); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseFile_UnsupportedLanguage(t *testing.T) {
	_, err := Default().ParseFile("notes.txt", []byte("hello"))
	if err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
}
