package parser

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// LanguageSpec describes which files a grammar is used for.
type LanguageSpec struct {
	Name             string
	Extensions       []string
	TestFileSuffixes []string
}

// JavaSpec is the only language the engine understands.
func JavaSpec() LanguageSpec {
	return LanguageSpec{
		Name:             "java",
		Extensions:       []string{".java"},
		TestFileSuffixes: []string{"Test.java", "Tests.java", "IT.java"},
	}
}

// GrammarLoader owns the loaded tree-sitter grammar and its file mapping.
type GrammarLoader struct {
	spec     LanguageSpec
	language *sitter.Language
}

func NewGrammarLoader() *GrammarLoader {
	return &GrammarLoader{
		spec:     JavaSpec(),
		language: sitter.NewLanguage(tree_sitter_java.Language()),
	}
}

func (gl *GrammarLoader) Language() *sitter.Language { return gl.language }

func (gl *GrammarLoader) Spec() LanguageSpec { return gl.spec }

func (gl *GrammarLoader) SupportedExtensions() []string {
	out := make([]string, 0, len(gl.spec.Extensions))
	for _, ext := range gl.spec.Extensions {
		out = append(out, strings.ToLower(ext))
	}
	sort.Strings(out)
	return out
}

func (gl *GrammarLoader) SupportedTestFileSuffixes() []string {
	out := make([]string, len(gl.spec.TestFileSuffixes))
	copy(out, gl.spec.TestFileSuffixes)
	sort.Strings(out)
	return out
}
