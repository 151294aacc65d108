package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"trespass/hierarchy"
)

// PythonExtractor maps naming conventions onto the three-tier model:
// __name (name-mangled, no trailing underscores) is private, _name is
// protected, everything else including dunders is public.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: "python",
		ParsedAt: time.Now(),
	}

	e.walk(root, source, file, "")

	return file, nil
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, file *File, enclosing string) {
	switch node.Kind() {
	case "class_definition":
		enclosing = e.extractClass(node, source, file)
	case "assignment":
		e.extractBinding(node, source, file)
	case "attribute":
		e.extractAccess(node, source, file, enclosing)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, file, enclosing)
	}
}

func (e *PythonExtractor) extractClass(node *sitter.Node, source []byte, file *File) string {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return ""
	}

	decl := ClassDecl{
		Name:     name,
		Location: nodeLocation(node, file.Path),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		if id := firstChildOfKind(supers, "identifier"); id != nil {
			decl.Parent = nodeText(id, source)
		}
	}

	seen := make(map[string]bool)
	if body := node.ChildByFieldName("body"); body != nil {
		e.collectMembers(body, source, file.Path, &decl, seen, false)
	}

	file.Classes = append(file.Classes, decl)
	return name
}

// collectMembers gathers methods from the class body, class attributes
// from body-level assignments, and instance attributes from self.x
// assignments inside method bodies. inMethod flags the latter walk.
func (e *PythonExtractor) collectMembers(node *sitter.Node, source []byte, path string, decl *ClassDecl, seen map[string]bool, inMethod bool) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_definition":
			name := nodeText(child.ChildByFieldName("name"), source)
			e.addMember(decl, seen, name, hierarchy.Method, nodeLocation(child, path))
			if body := child.ChildByFieldName("body"); body != nil {
				e.collectMembers(body, source, path, decl, seen, true)
			}
		case "class_definition":
			// Nested classes are their own declarations; walk handles them.
		case "assignment":
			left := child.ChildByFieldName("left")
			if left == nil {
				continue
			}
			if !inMethod && left.Kind() == "identifier" {
				e.addMember(decl, seen, nodeText(left, source), hierarchy.Field, nodeLocation(child, path))
			}
			if inMethod && left.Kind() == "attribute" {
				obj := left.ChildByFieldName("object")
				if obj != nil && obj.Kind() == "identifier" && nodeText(obj, source) == "self" {
					attr := nodeText(left.ChildByFieldName("attribute"), source)
					e.addMember(decl, seen, attr, hierarchy.Field, nodeLocation(left, path))
				}
			}
			e.collectMembers(child, source, path, decl, seen, inMethod)
		default:
			e.collectMembers(child, source, path, decl, seen, inMethod)
		}
	}
}

func (e *PythonExtractor) addMember(decl *ClassDecl, seen map[string]bool, name string, kind hierarchy.MemberKind, loc Location) {
	if name == "" || seen[name] {
		return
	}
	seen[name] = true
	decl.Members = append(decl.Members, MemberDecl{
		Name:       name,
		Kind:       kind,
		Visibility: pythonVisibility(name),
		Location:   loc,
	})
}

func pythonVisibility(name string) hierarchy.Visibility {
	switch {
	case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
		return hierarchy.Private
	case strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__"):
		return hierarchy.Protected
	default:
		return hierarchy.Public
	}
}

// extractBinding records "emp = Employee()". Whether the called name is
// actually a class is settled later against the assembled hierarchy.
func (e *PythonExtractor) extractBinding(node *sitter.Node, source []byte, file *File) {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil {
		return
	}
	if left.Kind() != "identifier" || right.Kind() != "call" {
		return
	}
	fn := right.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" {
		return
	}
	file.Bindings = append(file.Bindings, Binding{
		Var:      nodeText(left, source),
		Class:    nodeText(fn, source),
		Location: nodeLocation(node, file.Path),
	})
}

func (e *PythonExtractor) extractAccess(node *sitter.Node, source []byte, file *File, enclosing string) {
	object := node.ChildByFieldName("object")
	if object == nil || object.Kind() != "identifier" {
		return
	}

	call := false
	if parent := node.Parent(); parent != nil && parent.Kind() == "call" {
		if fn := parent.ChildByFieldName("function"); fn != nil &&
			fn.StartByte() == node.StartByte() && fn.EndByte() == node.EndByte() {
			call = true
		}
	}

	file.Accesses = append(file.Accesses, Access{
		Receiver:  nodeText(object, source),
		Member:    nodeText(node.ChildByFieldName("attribute"), source),
		Enclosing: enclosing,
		Call:      call,
		Location:  nodeLocation(node, file.Path),
	})
}
