package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codegrader/internal/engine/ast"
)

// converter maps the tree-sitter Java grammar onto the ast vocabulary.
// Unknown node kinds are dropped; the engine only sees what it can handle.
type converter struct {
	src     []byte
	skipped map[string]int
}

func newConverter(src []byte) *converter {
	return &converter{src: src, skipped: make(map[string]int)}
}

func (c *converter) loc(n *sitter.Node) ast.Location {
	start, end := n.StartPosition(), n.EndPosition()
	return ast.Location{
		Start: ast.Position{Offset: int(n.StartByte()), Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   ast.Position{Offset: int(n.EndByte()), Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}

func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(c.src)
}

func (c *converter) skip(n *sitter.Node) {
	c.skipped[n.Kind()]++
}

// named returns the named, non-comment children of n.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		ch := n.NamedChild(i)
		if ch == nil || ch.IsExtra() {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// fieldChildren returns every child of n stored under field.
func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.FieldNameForChild(uint32(i)) == field {
			if ch := n.Child(i); ch != nil {
				out = append(out, ch)
			}
		}
	}
	return out
}

func childOfKind(n *sitter.Node, kinds ...string) *sitter.Node {
	for _, ch := range named(n) {
		for _, k := range kinds {
			if ch.Kind() == k {
				return ch
			}
		}
	}
	return nil
}

// hasToken reports whether n has an anonymous child token tok.
func hasToken(n *sitter.Node, tok string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch != nil && !ch.IsNamed() && ch.Kind() == tok {
			return true
		}
	}
	return false
}

func appendNode(list []ast.Node, n ast.Node) []ast.Node {
	if ast.IsNil(n) {
		return list
	}
	return append(list, n)
}

func countDims(text string) int {
	return strings.Count(text, "[")
}

func (c *converter) name(n *sitter.Node) *ast.SimpleName {
	if n == nil {
		return nil
	}
	return &ast.SimpleName{Location: c.loc(n), Identifier: c.text(n)}
}

func (c *converter) compilationUnit(root *sitter.Node) *ast.CompilationUnit {
	cu := &ast.CompilationUnit{Location: c.loc(root)}
	for _, ch := range named(root) {
		switch ch.Kind() {
		case "package_declaration":
			if q := childOfKind(ch, "scoped_identifier", "identifier"); q != nil {
				cu.Package = c.text(q)
			}
		case "import_declaration":
			cu.Imports = append(cu.Imports, importPath(c.text(ch)))
		default:
			if t := c.typeDecl(ch); t != nil {
				cu.Types = append(cu.Types, t)
			} else {
				c.skip(ch)
			}
		}
	}
	return cu
}

func importPath(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "import")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	text = strings.TrimSpace(text)
	if rest, ok := strings.CutPrefix(text, "static"); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
		text = strings.TrimSpace(rest)
	}
	return strings.Join(strings.Fields(text), "")
}

var typeFlavors = map[string]ast.TypeFlavor{
	"class_declaration":           ast.FlavorClass,
	"interface_declaration":       ast.FlavorInterface,
	"enum_declaration":            ast.FlavorEnum,
	"record_declaration":          ast.FlavorRecord,
	"annotation_type_declaration": ast.FlavorAnnotation,
}

// typeDecl converts a class, interface, enum, record or annotation
// declaration. It returns nil for any other node.
func (c *converter) typeDecl(n *sitter.Node) *ast.TypeDecl {
	flavor, ok := typeFlavors[n.Kind()]
	if !ok {
		return nil
	}
	t := &ast.TypeDecl{
		Location:  c.loc(n),
		Flavor:    flavor,
		Modifiers: c.modifiers(childOfKind(n, "modifiers")),
		Name:      c.name(n.ChildByFieldName("name")),
	}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		for _, p := range named(tp) {
			if id := childOfKind(p, "type_identifier", "identifier"); id != nil {
				t.TypeParameters = append(t.TypeParameters, c.text(id))
			}
		}
	}
	if sup := n.ChildByFieldName("superclass"); sup != nil {
		if inner := named(sup); len(inner) > 0 {
			t.Superclass = c.typ(inner[len(inner)-1])
		}
	}
	if ifs := n.ChildByFieldName("interfaces"); ifs != nil {
		t.Interfaces = c.typeList(ifs)
	}
	if ext := childOfKind(n, "extends_interfaces"); ext != nil {
		t.Interfaces = append(t.Interfaces, c.typeList(ext)...)
	}

	if flavor == ast.FlavorRecord {
		t.Body = append(t.Body, c.recordComponents(n.ChildByFieldName("parameters"))...)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		t.Body = append(t.Body, c.members(body, t)...)
	}
	return t
}

func (c *converter) typeList(n *sitter.Node) []ast.Type {
	if list := childOfKind(n, "type_list"); list != nil {
		n = list
	}
	var out []ast.Type
	for _, ch := range named(n) {
		if t := c.typ(ch); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// recordComponents declares a private final field and an accessor per
// record component.
func (c *converter) recordComponents(params *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, p := range named(params) {
		if p.Kind() != "formal_parameter" {
			continue
		}
		typ := c.typ(p.ChildByFieldName("type"))
		name := c.name(p.ChildByFieldName("name"))
		if name == nil {
			continue
		}
		loc := c.loc(p)
		out = append(out,
			&ast.FieldDecl{
				Location:  loc,
				Modifiers: ast.Modifiers{{Location: loc, Keyword: "private"}, {Location: loc, Keyword: "final"}},
				Type:      typ,
				Fragments: []*ast.VariableDeclFragment{{Location: loc, Name: name}},
			},
			&ast.MethodDecl{
				Location:   loc,
				Modifiers:  ast.Modifiers{{Location: loc, Keyword: "public"}},
				ReturnType: typ,
				Name:       &ast.SimpleName{Location: name.Location, Identifier: name.Identifier},
			},
		)
	}
	return out
}

// members converts a class, interface, enum or annotation body.
func (c *converter) members(body *sitter.Node, owner *ast.TypeDecl) []ast.Node {
	var out []ast.Node
	for _, m := range named(body) {
		switch m.Kind() {
		case "enum_constant":
			out = appendNode(out, c.enumConstant(m, owner))
		case "enum_body_declarations":
			out = append(out, c.members(m, owner)...)
		case "field_declaration", "constant_declaration":
			out = appendNode(out, c.fieldDecl(m))
		case "method_declaration", "annotation_type_element_declaration":
			out = appendNode(out, c.methodDecl(m))
		case "constructor_declaration", "compact_constructor_declaration":
			out = appendNode(out, c.constructorDecl(m))
		case "block":
			out = appendNode(out, c.block(m))
		case "static_initializer":
			if b := childOfKind(m, "block"); b != nil {
				out = appendNode(out, c.block(b))
			}
		default:
			if t := c.typeDecl(m); t != nil {
				out = append(out, t)
			} else {
				c.skip(m)
			}
		}
	}
	return out
}

func (c *converter) enumConstant(n *sitter.Node, owner *ast.TypeDecl) ast.Node {
	name := c.name(n.ChildByFieldName("name"))
	if name == nil || owner == nil || owner.Name == nil {
		return nil
	}
	loc := c.loc(n)
	enumType := &ast.SimpleType{Location: owner.Name.Location, Name: owner.Name.Identifier}
	frag := &ast.VariableDeclFragment{Location: loc, Name: name}
	if args := n.ChildByFieldName("arguments"); args != nil {
		frag.Initializer = &ast.ClassInstanceCreation{
			Location:  loc,
			Type:      &ast.SimpleType{Location: owner.Name.Location, Name: owner.Name.Identifier},
			Arguments: c.arguments(args),
		}
	}
	return &ast.FieldDecl{
		Location: loc,
		Modifiers: ast.Modifiers{
			{Location: loc, Keyword: "public"},
			{Location: loc, Keyword: "static"},
			{Location: loc, Keyword: "final"},
		},
		Type:      enumType,
		Fragments: []*ast.VariableDeclFragment{frag},
	}
}

func (c *converter) fieldDecl(n *sitter.Node) ast.Node {
	return &ast.FieldDecl{
		Location:  c.loc(n),
		Modifiers: c.modifiers(childOfKind(n, "modifiers")),
		Type:      c.typ(n.ChildByFieldName("type")),
		Fragments: c.declarators(n),
	}
}

func (c *converter) declarators(n *sitter.Node) []*ast.VariableDeclFragment {
	var out []*ast.VariableDeclFragment
	for _, d := range fieldChildren(n, "declarator") {
		frag := &ast.VariableDeclFragment{
			Location: c.loc(d),
			Name:     c.name(d.ChildByFieldName("name")),
		}
		if dims := d.ChildByFieldName("dimensions"); dims != nil {
			frag.Dimensions = countDims(c.text(dims))
		}
		if v := d.ChildByFieldName("value"); v != nil {
			frag.Initializer = c.expr(v)
		}
		out = append(out, frag)
	}
	return out
}

func (c *converter) methodDecl(n *sitter.Node) ast.Node {
	m := &ast.MethodDecl{
		Location:   c.loc(n),
		Modifiers:  c.modifiers(childOfKind(n, "modifiers")),
		ReturnType: c.typ(n.ChildByFieldName("type")),
		Name:       c.name(n.ChildByFieldName("name")),
		Parameters: c.parameters(n.ChildByFieldName("parameters")),
	}
	if dims := n.ChildByFieldName("dimensions"); dims != nil && m.ReturnType != nil {
		m.ReturnType = &ast.ArrayType{Location: m.ReturnType.Loc(), Element: m.ReturnType, Dimensions: countDims(c.text(dims))}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		m.Body = c.block(body)
	}
	return m
}

func (c *converter) constructorDecl(n *sitter.Node) ast.Node {
	m := &ast.MethodDecl{
		Location:    c.loc(n),
		Modifiers:   c.modifiers(childOfKind(n, "modifiers")),
		Constructor: true,
		Name:        c.name(n.ChildByFieldName("name")),
		Parameters:  c.parameters(n.ChildByFieldName("parameters")),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		m.Body = c.block(body)
	} else {
		m.Body = &ast.Block{Location: m.Location}
	}
	return m
}

func (c *converter) parameters(n *sitter.Node) []*ast.SingleVariableDecl {
	var out []*ast.SingleVariableDecl
	for _, p := range named(n) {
		switch p.Kind() {
		case "formal_parameter":
			out = append(out, c.formalParameter(p))
		case "spread_parameter":
			out = append(out, c.spreadParameter(p))
		}
	}
	return out
}

func (c *converter) formalParameter(p *sitter.Node) *ast.SingleVariableDecl {
	d := &ast.SingleVariableDecl{
		Location:  c.loc(p),
		Modifiers: c.modifiers(childOfKind(p, "modifiers")),
		Type:      c.typ(p.ChildByFieldName("type")),
		Name:      c.name(p.ChildByFieldName("name")),
	}
	if dims := p.ChildByFieldName("dimensions"); dims != nil {
		d.Dimensions = countDims(c.text(dims))
	}
	return d
}

// spreadParameter converts `T... name`, whose children carry no field names.
func (c *converter) spreadParameter(p *sitter.Node) *ast.SingleVariableDecl {
	d := &ast.SingleVariableDecl{Location: c.loc(p), Varargs: true}
	for _, ch := range named(p) {
		switch ch.Kind() {
		case "modifiers":
			d.Modifiers = c.modifiers(ch)
		case "variable_declarator":
			d.Name = c.name(ch.ChildByFieldName("name"))
			if dims := ch.ChildByFieldName("dimensions"); dims != nil {
				d.Dimensions = countDims(c.text(dims))
			}
		default:
			if d.Type == nil {
				d.Type = c.typ(ch)
			}
		}
	}
	return d
}

// modifiers keeps keywords by their token text and annotations by name.
func (c *converter) modifiers(n *sitter.Node) ast.Modifiers {
	if n == nil {
		return nil
	}
	var out ast.Modifiers
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch == nil || ch.IsExtra() {
			continue
		}
		switch ch.Kind() {
		case "marker_annotation", "annotation":
			out = append(out, ast.Modifier{
				Location:   c.loc(ch),
				Annotation: strings.Join(strings.Fields(c.text(ch.ChildByFieldName("name"))), ""),
			})
		default:
			if !ch.IsNamed() {
				out = append(out, ast.Modifier{Location: c.loc(ch), Keyword: ch.Kind()})
			}
		}
	}
	return out
}
