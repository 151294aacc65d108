package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"trespass/hierarchy"
)

// TypeScriptExtractor maps explicit accessibility modifiers (private,
// protected, public — public being the default) and #-prefixed ECMAScript
// private members onto the three-tier model.
type TypeScriptExtractor struct{}

func (e *TypeScriptExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	return ecmaExtract(root, source, filePath, "typescript")
}

// ecmaExtract is shared between the TypeScript and JavaScript grammars;
// their class-body node kinds differ only in naming.
func ecmaExtract(root *sitter.Node, source []byte, filePath, language string) (*File, error) {
	file := &File{
		Path:     filePath,
		Language: language,
		ParsedAt: time.Now(),
	}
	ecmaWalk(root, source, file, "")
	return file, nil
}

func ecmaWalk(node *sitter.Node, source []byte, file *File, enclosing string) {
	switch node.Kind() {
	case "class_declaration", "class":
		enclosing = ecmaExtractClass(node, source, file)
	case "variable_declarator":
		ecmaExtractBinding(node, source, file)
	case "member_expression":
		ecmaExtractAccess(node, source, file, enclosing)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		ecmaWalk(node.Child(i), source, file, enclosing)
	}
}

func ecmaExtractClass(node *sitter.Node, source []byte, file *File) string {
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return ""
	}

	decl := ClassDecl{
		Name:     name,
		Location: nodeLocation(node, file.Path),
	}

	if heritage := firstChildOfKind(node, "class_heritage"); heritage != nil {
		decl.Parent = ecmaSuperclass(heritage, source)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.ChildCount(); i++ {
			child := body.Child(i)
			switch child.Kind() {
			case "method_definition":
				ecmaExtractMember(child, source, file.Path, &decl, hierarchy.Method)
			case "public_field_definition", "field_definition":
				ecmaExtractMember(child, source, file.Path, &decl, hierarchy.Field)
			}
		}
	}

	file.Classes = append(file.Classes, decl)
	return name
}

// ecmaSuperclass digs the extended class name out of the heritage clause.
// TypeScript wraps it in an extends_clause; JavaScript exposes the
// identifier directly after the extends keyword.
func ecmaSuperclass(heritage *sitter.Node, source []byte) string {
	if clause := firstChildOfKind(heritage, "extends_clause"); clause != nil {
		if id := clause.ChildByFieldName("value"); id != nil {
			return nodeText(id, source)
		}
		if id := firstChildOfKind(clause, "identifier"); id != nil {
			return nodeText(id, source)
		}
		return ""
	}
	if id := firstChildOfKind(heritage, "identifier"); id != nil {
		return nodeText(id, source)
	}
	return ""
}

func ecmaExtractMember(node *sitter.Node, source []byte, path string, decl *ClassDecl, kind hierarchy.MemberKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		// JavaScript field_definition nodes expose the member through the
		// property field instead.
		nameNode = node.ChildByFieldName("property")
	}
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, source)
	if name == "" {
		return
	}

	vis := hierarchy.Public
	if nameNode.Kind() == "private_property_identifier" {
		// #name members; the hash is syntax, not part of the member name.
		name = strings.TrimPrefix(name, "#")
		vis = hierarchy.Private
	} else if mod := firstChildOfKind(node, "accessibility_modifier"); mod != nil {
		switch strings.TrimSpace(nodeText(mod, source)) {
		case "private":
			vis = hierarchy.Private
		case "protected":
			vis = hierarchy.Protected
		}
	}

	decl.Members = append(decl.Members, MemberDecl{
		Name:       name,
		Kind:       kind,
		Visibility: vis,
		Location:   nodeLocation(node, path),
	})
}

// ecmaExtractBinding records "const emp = new Employee()".
func ecmaExtractBinding(node *sitter.Node, source []byte, file *File) {
	value := node.ChildByFieldName("value")
	if value == nil || value.Kind() != "new_expression" {
		return
	}
	ctor := value.ChildByFieldName("constructor")
	if ctor == nil || ctor.Kind() != "identifier" {
		return
	}
	name := nodeText(node.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	file.Bindings = append(file.Bindings, Binding{
		Var:      name,
		Class:    nodeText(ctor, source),
		Location: nodeLocation(node, file.Path),
	})
}

func ecmaExtractAccess(node *sitter.Node, source []byte, file *File, enclosing string) {
	object := node.ChildByFieldName("object")
	if object == nil {
		return
	}
	var receiver string
	switch object.Kind() {
	case "identifier":
		receiver = nodeText(object, source)
	case "this":
		receiver = "this"
	default:
		return
	}

	property := node.ChildByFieldName("property")
	if property == nil {
		return
	}
	member := strings.TrimPrefix(nodeText(property, source), "#")

	call := false
	if parent := node.Parent(); parent != nil && parent.Kind() == "call_expression" {
		if fn := parent.ChildByFieldName("function"); fn != nil &&
			fn.StartByte() == node.StartByte() && fn.EndByte() == node.EndByte() {
			call = true
		}
	}

	file.Accesses = append(file.Accesses, Access{
		Receiver:  receiver,
		Member:    member,
		Enclosing: enclosing,
		Call:      call,
		Location:  nodeLocation(node, file.Path),
	})
}
