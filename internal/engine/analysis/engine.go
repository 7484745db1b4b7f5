// Package analysis resolves scopes, declarations, usages and method-call
// targets over the Java syntax tree.
package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	coreerrors "codegrader/internal/core/errors"
	"codegrader/internal/engine/ast"
)

// Options tunes the engine. The zero value is usable.
type Options struct {
	// WarnUnresolvedReceivers emits a warning for `name.m()` calls whose
	// receiver resolves to nothing and is not a well-known type.
	WarnUnresolvedReceivers bool
	// WellKnownTypes extends the built-in list of library types.
	WellKnownTypes []string
	// TestAnnotations mark test methods; defaults to "Test".
	TestAnnotations []string
	Logger          *slog.Logger
}

// Engine owns the state of one analysis run: the type map, the declared
// type outlines and the diagnostics sink. Files must be passed to
// FindComponentsInFile one at a time; later files see the types of earlier
// ones, and every file sees the outlines registered by DeclareTypes.
type Engine struct {
	opts     Options
	types    *TypeMap
	outlines map[string]*typeOutline
	// selfOutlines covers walked types without a registered outline.
	selfOutlines map[*ast.TypeDecl]*typeOutline
	diags        *Diagnostics
	wellKnown    map[string]bool
}

func NewEngine(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.TestAnnotations) == 0 {
		opts.TestAnnotations = []string{"Test"}
	}
	return &Engine{
		opts:      opts,
		types:     NewTypeMap(),
		outlines:  make(map[string]*typeOutline),
		diags:     NewDiagnostics(opts.Logger),
		wellKnown: wellKnownSet(opts.WellKnownTypes),
	}
}

func (e *Engine) Types() *TypeMap { return e.types }

func (e *Engine) Diagnostics() *Diagnostics { return e.diags }

// FindComponentsInFile walks every top-level type of file, reconciles
// forward method references and registers the results in the type map.
// Files that failed to parse are skipped with a diagnostic. The returned
// error joins CONFLICT errors for types already registered by another file.
func (e *Engine) FindComponentsInFile(file *CodeFile) error {
	file.Types = make(map[string]*TypeInformation)
	file.TypeOrder = nil

	if file.ParseErr != nil || file.Unit == nil {
		msg := "file has no syntax tree"
		if file.ParseErr != nil {
			msg = file.ParseErr.Error()
		}
		e.diags.Add(Diagnostic{
			Code:     DiagParseFailure,
			Severity: SeverityWarning,
			File:     file.Path,
			Message:  "skipping file: " + msg,
		})
		return nil
	}

	var errs []error
	for _, decl := range file.Unit.Types {
		if decl == nil || decl.TypeName() == "" {
			continue
		}
		ti := e.analyzeType(file, decl)
		if _, seen := file.Types[ti.Name]; !seen {
			file.TypeOrder = append(file.TypeOrder, ti.Name)
		}
		file.Types[ti.Name] = ti

		if err := e.types.Insert(ti.Name, ti); err != nil {
			e.diags.Add(Diagnostic{
				Code:     DiagDuplicateType,
				Severity: SeverityError,
				File:     file.Path,
				Line:     decl.Start.Line,
				Message:  err.Error(),
			})
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) analyzeType(file *CodeFile, decl *ast.TypeDecl) *TypeInformation {
	ti := newTypeInformation(file.Path, decl)
	w := &walker{engine: e, file: file, info: ti}

	fileScope := NewScope(file.Unit, false)
	w.visit(decl, fileScope, nil)

	ti.Scopes = append([]*Scope{fileScope}, ti.Scopes...)
	for _, s := range ti.Scopes {
		ti.Declarations = append(ti.Declarations, s.Declarations()...)
	}
	w.reconcileForwardCalls()
	return ti
}

// reconcileForwardCalls resolves calls that precede the declaration of
// their target against the completed type scope.
func (w *walker) reconcileForwardCalls() {
	ti := w.info
	if ti.TypeScope == nil {
		return
	}
	matched := make(map[ast.Node]bool, len(ti.Usages))
	for _, u := range ti.Usages {
		if u.Declaration.Kind.IsCallable() {
			matched[u.Node] = true
		}
	}

	typeStack := []*Scope{ti.TypeScope}
	for _, call := range ti.MethodCalls {
		if matched[call.Node] {
			continue
		}
		d := w.findDeclaration(call.Node, typeStack)
		if d == nil || !d.Kind.IsCallable() {
			continue
		}
		ti.Usages = append(ti.Usages, &Usage{Node: call.Node, Declaration: d})
		matched[call.Node] = true

		if strings.HasPrefix(call.Name, "this.") {
			call.CalledType = ti.Name
			if d.IsStatic {
				call.Kind = CallStaticMethod
			}
		}
	}
}

// Summary is a one-line description of the type map, used in logs.
func (e *Engine) Summary() string {
	calls, usages := 0, 0
	for _, ti := range e.types.All() {
		calls += len(ti.MethodCalls)
		usages += len(ti.Usages)
	}
	return fmt.Sprintf("%d types, %d calls, %d usages", e.types.Len(), calls, usages)
}

// IsDuplicateType reports whether err came from a second declaration of an
// already registered type.
func IsDuplicateType(err error) bool {
	return coreerrors.IsCode(err, coreerrors.CodeConflict)
}
