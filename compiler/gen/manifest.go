package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/dave/jennifer/jen"
)

// Manifest renders a Go file listing the mapped entities and their tables,
// a build-time registry of what the scripts were generated from.
func Manifest(g *Graph, pkg string) ([]byte, error) {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by ddlexport. DO NOT EDIT.")

	f.Comment("Dialect is the dialect the scripts were generated for.")
	f.Const().Id("Dialect").Op("=").Lit(g.Config.Dialect)

	f.Comment("Entities lists the mapped entities by fully-qualified type name.")
	f.Var().Id("Entities").Op("=").Index().String().ValuesFunc(func(vals *jen.Group) {
		for _, t := range g.Nodes {
			vals.Line().Lit(t.Name)
		}
		vals.Line()
	})

	f.Comment("Tables maps every mapped entity to its table name.")
	f.Var().Id("Tables").Op("=").Map(jen.String()).String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, t := range g.Nodes {
			d[jen.Lit(t.Name)] = jen.Lit(t.Table)
		}
	}))

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("manifest", "", "render manifest", err)
	}
	return buf.Bytes(), nil
}

// WriteManifest renders the manifest of the graph into the named file of the
// output directory.
func WriteManifest(g *Graph, w *Writer, name, pkg string) error {
	b, err := Manifest(g, pkg)
	if err != nil {
		return err
	}
	path := w.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(b))
	return nil
}
