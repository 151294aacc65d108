// Package parser turns source snippets into class-hierarchy declarations
// and member-access sites using tree-sitter grammars. One extractor per
// language knows how that language spells visibility.
package parser

import (
	"path/filepath"

	sitter "github.com/tree-sitter/go-tree-sitter"

	coreerrors "trespass/internal/core/errors"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
}

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*File, error)
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
}

// Default returns a parser with every bundled language registered.
func Default() *Parser {
	p := NewParser(NewGrammarLoader())
	p.RegisterExtractor("java", &JavaExtractor{})
	p.RegisterExtractor("typescript", &TypeScriptExtractor{})
	p.RegisterExtractor("javascript", &JavaScriptExtractor{})
	p.RegisterExtractor("python", &PythonExtractor{})
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeNotSupported, "unsupported language"),
			coreerrors.CtxPath, path)
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeNotSupported, "grammar not loaded"),
			coreerrors.CtxLanguage, lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "set language")
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeInternal, "parse failed"),
			coreerrors.CtxPath, path)
	}
	defer tree.Close()

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, coreerrors.AddContext(
			coreerrors.New(coreerrors.CodeNotSupported, "no extractor registered"),
			coreerrors.CtxLanguage, lang)
	}

	return extractor.Extract(tree.RootNode(), content, path)
}

// DetectLanguage maps a file extension to a language id, "" when unknown.
func DetectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".java":
		return "java"
	case ".ts":
		return "typescript"
	case ".js", ".mjs":
		return "javascript"
	case ".py":
		return "python"
	default:
		return ""
	}
}
