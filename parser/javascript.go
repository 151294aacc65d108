package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaScriptExtractor handles plain ECMAScript classes: #name members are
// private, everything else is public. The grammar shares its shape with
// the TypeScript one, so the walking logic lives in typescript.go.
type JavaScriptExtractor struct{}

func (e *JavaScriptExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	return ecmaExtract(root, source, filePath, "javascript")
}
