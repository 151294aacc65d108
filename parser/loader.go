package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// GrammarLoader owns the tree-sitter grammars for the languages whose
// member-visibility rules the checker understands.
type GrammarLoader struct {
	languages map[string]*sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		languages: map[string]*sitter.Language{
			"java":       sitter.NewLanguage(tree_sitter_java.Language()),
			"javascript": sitter.NewLanguage(tree_sitter_javascript.Language()),
			"python":     sitter.NewLanguage(tree_sitter_python.Language()),
			"typescript": sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		},
	}
}

// Language returns the grammar for a language id, or nil when unknown.
func (l *GrammarLoader) Language(lang string) *sitter.Language {
	return l.languages[lang]
}

// Supported lists the loaded language ids.
func (l *GrammarLoader) Supported() []string {
	out := make([]string, 0, len(l.languages))
	for lang := range l.languages {
		out = append(out, lang)
	}
	return out
}
