package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"trespass/hierarchy"
)

// JavaExtractor reads class declarations, field/method visibility and
// member-access sites out of Java source. Package-private (no modifier)
// declarations are treated as public: the three-tier model has no fourth
// tier, and the teaching examples never rely on package visibility.
type JavaExtractor struct{}

func (e *JavaExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: "java",
		ParsedAt: time.Now(),
	}

	e.walk(root, source, file, "")

	return file, nil
}

func (e *JavaExtractor) walk(node *sitter.Node, source []byte, file *File, enclosing string) {
	switch node.Kind() {
	case "class_declaration":
		enclosing = e.extractClass(node, source, file)
	case "local_variable_declaration":
		e.extractBinding(node, source, file)
	case "method_invocation":
		e.extractInvocation(node, source, file, enclosing)
	case "field_access":
		e.extractFieldAccess(node, source, file, enclosing)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, file, enclosing)
	}
}

func (e *JavaExtractor) extractClass(node *sitter.Node, source []byte, file *File) string {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return ""
	}

	decl := ClassDecl{
		Name:     name,
		Location: nodeLocation(node, file.Path),
	}

	if super := firstChildOfKind(node, "superclass"); super != nil {
		if t := firstChildOfKind(super, "type_identifier"); t != nil {
			decl.Parent = nodeText(t, source)
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "field_declaration":
				e.extractField(child, source, file.Path, &decl)
			case "method_declaration", "constructor_declaration":
				e.extractMethod(child, source, file.Path, &decl)
			}
		}
	}

	file.Classes = append(file.Classes, decl)
	return name
}

func (e *JavaExtractor) extractField(node *sitter.Node, source []byte, path string, decl *ClassDecl) {
	vis := javaVisibility(node, source)
	// One declaration can introduce several fields: int a, b;
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		name := nodeText(child.ChildByFieldName("name"), source)
		if name == "" {
			continue
		}
		decl.Members = append(decl.Members, MemberDecl{
			Name:       name,
			Kind:       hierarchy.Field,
			Visibility: vis,
			Location:   nodeLocation(child, path),
		})
	}
}

func (e *JavaExtractor) extractMethod(node *sitter.Node, source []byte, path string, decl *ClassDecl) {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	decl.Members = append(decl.Members, MemberDecl{
		Name:       name,
		Kind:       hierarchy.Method,
		Visibility: javaVisibility(node, source),
		Location:   nodeLocation(node, path),
	})
}

// javaVisibility inspects the modifiers child; absence of an access
// modifier maps to public.
func javaVisibility(node *sitter.Node, source []byte) hierarchy.Visibility {
	mods := firstChildOfKind(node, "modifiers")
	if mods == nil {
		return hierarchy.Public
	}
	text := nodeText(mods, source)
	switch {
	case strings.Contains(text, "private"):
		return hierarchy.Private
	case strings.Contains(text, "protected"):
		return hierarchy.Protected
	default:
		return hierarchy.Public
	}
}

// extractBinding records "Employee emp = new Employee();".
func (e *JavaExtractor) extractBinding(node *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() != "variable_declarator" {
			continue
		}
		value := child.ChildByFieldName("value")
		if value == nil || value.Kind() != "object_creation_expression" {
			continue
		}
		class := nodeText(value.ChildByFieldName("type"), source)
		name := nodeText(child.ChildByFieldName("name"), source)
		if class == "" || name == "" {
			continue
		}
		file.Bindings = append(file.Bindings, Binding{
			Var:      name,
			Class:    class,
			Location: nodeLocation(child, file.Path),
		})
	}
}

func (e *JavaExtractor) extractInvocation(node *sitter.Node, source []byte, file *File, enclosing string) {
	var receiver string
	if object := node.ChildByFieldName("object"); object != nil {
		receiver = e.receiverName(object, source)
	} else if enclosing != "" {
		// Bare call inside a class body is an implicit this.
		receiver = "this"
	}
	if receiver == "" {
		return
	}
	file.Accesses = append(file.Accesses, Access{
		Receiver:  receiver,
		Member:    nodeText(node.ChildByFieldName("name"), source),
		Enclosing: enclosing,
		Call:      true,
		Location:  nodeLocation(node, file.Path),
	})
}

func (e *JavaExtractor) extractFieldAccess(node *sitter.Node, source []byte, file *File, enclosing string) {
	// Skip when this node is the object of an enclosing invocation
	// (a.b() visits field_access a.b as the invocation's object).
	if parent := node.Parent(); parent != nil && parent.Kind() == "method_invocation" {
		if obj := parent.ChildByFieldName("object"); obj != nil &&
			obj.StartByte() == node.StartByte() && obj.EndByte() == node.EndByte() {
			return
		}
	}
	receiver := e.receiverName(node.ChildByFieldName("object"), source)
	if receiver == "" {
		return
	}
	file.Accesses = append(file.Accesses, Access{
		Receiver:  receiver,
		Member:    nodeText(node.ChildByFieldName("field"), source),
		Enclosing: enclosing,
		Location:  nodeLocation(node, file.Path),
	})
}

func (e *JavaExtractor) receiverName(object *sitter.Node, source []byte) string {
	if object == nil {
		return ""
	}
	switch object.Kind() {
	case "identifier":
		return nodeText(object, source)
	case "this":
		return "this"
	default:
		return ""
	}
}
