package load

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/tools/go/packages"
)

// TagName is the struct tag key holding the column mapping of a field.
const TagName = "ddl"

// NormalizeNamespace validates a namespace and returns it in canonical form:
// an import path prefix without leading or trailing slashes and without a
// "/..." wildcard suffix.
func NormalizeNamespace(ns string) (string, error) {
	ns = strings.TrimSpace(ns)
	ns = strings.TrimSuffix(ns, "/...")
	ns = strings.Trim(ns, "/")
	if ns == "" {
		return "", fmt.Errorf("%w: empty namespace", ErrInvalidNamespace)
	}
	for _, seg := range strings.Split(ns, "/") {
		if seg == "" || seg == "." || strings.Contains(seg, "..") {
			return "", fmt.Errorf("%w: %q has an empty or relative segment", ErrInvalidNamespace, ns)
		}
	}
	if i := strings.IndexFunc(ns, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\\' || r == '*' || r == '"'
	}); i >= 0 {
		return "", fmt.Errorf("%w: %q contains %q", ErrInvalidNamespace, ns, ns[i])
	}
	return ns, nil
}

// InNamespace reports whether the import path is the namespace itself or one
// of its sub-packages. Matching is done on whole path segments, so "app/entity"
// does not contain "app/entityx".
func InNamespace(path, ns string) bool {
	return path == ns || strings.HasPrefix(path, ns+"/")
}

// Scan loads every package under the namespace from each classpath element
// and returns the marked struct types, deduplicated by fully-qualified name and
// sorted by it. Loading or type-checking errors in a package under the
// namespace are fatal. ErrNoEntities is returned if nothing was found.
func Scan(ctx context.Context, cp *Classpath, namespace string) ([]*Entity, error) {
	ns, err := NormalizeNamespace(namespace)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]*Entity)
	for _, el := range cp.Elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pkgs, err := packages.Load(cp.Config(ctx, el), ns+"/...")
		if err != nil {
			return nil, &PackageError{Element: el, Err: err}
		}
		for _, pkg := range pkgs {
			if !InNamespace(pkg.PkgPath, ns) {
				continue
			}
			if len(pkg.Errors) > 0 {
				return nil, &PackageError{Element: el, Package: pkg.PkgPath, Err: pkg.Errors[0]}
			}
			entities, err := scanPackage(pkg)
			if err != nil {
				return nil, err
			}
			for _, e := range entities {
				// A type seen through an earlier element wins; markers are merged
				// since test variants may expose the same declaration twice.
				if prev, ok := seen[e.Name]; ok {
					prev.Marker |= e.Marker
					continue
				}
				seen[e.Name] = e
			}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w under namespace %q", ErrNoEntities, ns)
	}
	entities := make([]*Entity, 0, len(seen))
	for _, e := range seen {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	return entities, nil
}

func scanPackage(pkg *packages.Package) ([]*Entity, error) {
	var entities []*Entity
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && !gd.Lparen.IsValid() {
					doc = gd.Doc
				}
				pos := pkg.Fset.Position(ts.Pos()).String()
				marker, args, err := parseDirectives(doc)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", pos, err)
				}
				if marker == 0 {
					continue
				}
				e, err := newEntity(pkg, ts, pos)
				if err != nil {
					return nil, err
				}
				e.Marker = marker
				e.Table = args["table"]
				entities = append(entities, e)
			}
		}
	}
	return entities, nil
}

func newEntity(pkg *packages.Package, ts *ast.TypeSpec, pos string) (*Entity, error) {
	name := pkg.PkgPath + "." + ts.Name.Name
	switch {
	case ts.Assign.IsValid():
		return nil, &MarkerError{Type: name, Pos: pos, Message: "type aliases cannot be mapped"}
	case ts.TypeParams != nil && ts.TypeParams.NumFields() > 0:
		return nil, &MarkerError{Type: name, Pos: pos, Message: "generic types cannot be mapped"}
	}
	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil, &MarkerError{Type: name, Pos: pos, Message: "missing type information"}
	}
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, &MarkerError{Type: name, Pos: pos, Message: fmt.Sprintf("expected struct type, got %s", obj.Type().Underlying())}
	}
	e := &Entity{
		Name:    name,
		Package: pkg.PkgPath,
		Type:    ts.Name.Name,
		Pos:     pos,
		Fields:  make([]*Field, 0, st.NumFields()),
	}
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		e.Fields = append(e.Fields, &Field{
			Name:     v.Name(),
			Type:     typeRef(v.Type()),
			Tag:      reflect.StructTag(st.Tag(i)).Get(TagName),
			Embedded: v.Embedded(),
			Exported: v.Exported(),
			Pos:      pkg.Fset.Position(v.Pos()).String(),
		})
	}
	return e, nil
}

// qualifier spells packages by their import path.
func qualifier(p *types.Package) string { return p.Path() }

func typeRef(t types.Type) *TypeRef {
	ref := &TypeRef{}
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		ref.Pointer = true
		t = types.Unalias(p.Elem())
	}
	switch u := t.(type) {
	case *types.Slice:
		if isByte(u.Elem()) {
			ref.Ident, ref.Basic = "[]byte", "[]byte"
			return ref
		}
		ref.Slice = true
		elem := types.Unalias(u.Elem())
		if p, ok := elem.(*types.Pointer); ok {
			ref.Pointer = true
			elem = types.Unalias(p.Elem())
		}
		ref.Ident = types.TypeString(elem, qualifier)
		_, ref.Struct = elem.Underlying().(*types.Struct)
		return ref
	case *types.Map:
		ref.Map = true
		ref.Ident = types.TypeString(t, qualifier)
		return ref
	}
	ref.Ident = types.TypeString(t, qualifier)
	switch u := t.Underlying().(type) {
	case *types.Basic:
		ref.Basic = u.Name()
	case *types.Struct:
		ref.Struct = true
	case *types.Slice:
		if isByte(u.Elem()) {
			ref.Basic = "[]byte"
		}
	case *types.Map:
		ref.Map = true
	}
	return ref
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Byte
}
