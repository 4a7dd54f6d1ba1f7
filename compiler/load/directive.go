package load

import (
	"fmt"
	"go/ast"
	"strings"
)

// Directive names recognized in type doc comments.
const (
	DirectiveEntity           = "ddl:entity"
	DirectiveMappedSuperclass = "ddl:mapped-superclass"
)

// directive arguments accepted per marker.
var directiveArgs = map[string]map[string]bool{
	DirectiveEntity:           {"table": true},
	DirectiveMappedSuperclass: {},
}

// parseDirectives reads the mapping markers from the raw comment list of a
// type declaration. CommentGroup.Text drops directive lines, so they are read
// from the list itself.
func parseDirectives(doc *ast.CommentGroup) (Marker, map[string]string, error) {
	if doc == nil {
		return 0, nil, nil
	}
	var (
		marker Marker
		args   map[string]string
	)
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, "//")
		if !ok || !strings.HasPrefix(text, "ddl:") {
			continue
		}
		words := strings.Fields(text)
		name := words[0]
		allowed, ok := directiveArgs[name]
		if !ok {
			return 0, nil, fmt.Errorf("%w: unknown directive %q", ErrInvalidMarker, "//"+name)
		}
		switch name {
		case DirectiveEntity:
			marker |= MarkerEntity
		case DirectiveMappedSuperclass:
			marker |= MarkerMappedSuperclass
		}
		for _, w := range words[1:] {
			k, v, ok := strings.Cut(w, "=")
			if !ok || v == "" {
				return 0, nil, fmt.Errorf("%w: argument %q of %q must be key=value", ErrInvalidMarker, w, "//"+name)
			}
			if !allowed[k] {
				return 0, nil, fmt.Errorf("%w: unknown argument %q of %q", ErrInvalidMarker, k, "//"+name)
			}
			if args == nil {
				args = make(map[string]string)
			}
			args[k] = v
		}
	}
	return marker, args, nil
}
