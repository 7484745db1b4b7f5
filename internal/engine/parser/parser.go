package parser

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codegrader/internal/core/errors"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/ast"
	"codegrader/internal/shared/observability"
)

// Parser turns Java source into analysis.CodeFile values.
// It is safe for concurrent use.
type Parser struct {
	loader *GrammarLoader
	pool   *ParserPool
	logger *slog.Logger

	extensions     map[string]bool
	testFileSuffix []string
}

func NewParser(loader *GrammarLoader, logger *slog.Logger) *Parser {
	if loader == nil {
		loader = NewGrammarLoader()
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		loader:         loader,
		pool:           NewParserPool(loader.Language()),
		logger:         logger,
		extensions:     make(map[string]bool),
		testFileSuffix: loader.SupportedTestFileSuffixes(),
	}
	for _, ext := range loader.SupportedExtensions() {
		p.extensions[ext] = true
	}
	return p
}

// ParseFile parses content. Syntax errors do not fail the call: the
// returned file carries a PARSE_ERROR in ParseErr and no syntax tree, and
// the engine skips it. Unsupported paths return NOT_SUPPORTED.
func (p *Parser) ParseFile(path string, content []byte) (*analysis.CodeFile, error) {
	if !p.IsSupportedPath(path) {
		err := errors.New(errors.CodeNotSupported, "unsupported file type")
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	start := time.Now()
	defer func() {
		observability.ParsingDuration.WithLabelValues(p.loader.Spec().Name).Observe(time.Since(start).Seconds())
	}()

	sp := p.pool.Get()
	defer p.pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		err := errors.New(errors.CodeInternal, "parse failed")
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	defer tree.Close()

	file := &analysis.CodeFile{Path: path, Source: content}
	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		err := errors.Newf(errors.CodeParseError, "syntax error near line %d", line)
		err = errors.AddContext(err, errors.CtxPath, path)
		file.ParseErr = errors.AddContext(err, errors.CtxLine, line)
		observability.ParseFailuresTotal.Inc()
		return file, nil
	}

	conv := newConverter(content)
	file.Unit = conv.compilationUnit(root)
	for kind, n := range conv.skipped {
		p.logger.Debug("skipped syntax nodes", "path", path, "kind", kind, "count", n)
	}
	return file, nil
}

// firstErrorLine returns the 1-based line of the first ERROR or MISSING node.
func firstErrorLine(n *sitter.Node) int {
	if n.IsError() || n.IsMissing() {
		return int(n.StartPosition().Row) + 1
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch != nil && ch.HasError() {
			return firstErrorLine(ch)
		}
	}
	return int(n.StartPosition().Row) + 1
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

func (p *Parser) IsTestFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range p.testFileSuffix {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

func (p *Parser) SupportedTestFileSuffixes() []string {
	return append([]string(nil), p.testFileSuffix...)
}

// CountNodes is the number of syntax nodes in file's tree.
func CountNodes(file *analysis.CodeFile) int {
	if file == nil || file.Unit == nil {
		return 0
	}
	n := 0
	ast.Inspect(file.Unit, func(ast.Node) bool {
		n++
		return true
	})
	return n
}
