package gen

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/syssam/ddlexport/dialect/sql/sqlfmt"
)

// Artifact is a script bound to its output file name.
type Artifact struct {
	Name   string
	Script *Script
}

// Writer writes scripts into an output directory, one statement per block.
type Writer struct {
	dir       string
	formatter sqlfmt.Formatter
	delimiter string
	metrics   WriterMetrics
}

// WriterMetrics tracks what a Writer produced.
type WriterMetrics struct {
	FilesWritten int
	Statements   int
	TotalBytes   int64
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithFormatter sets the statement formatter. Defaults to sqlfmt.DDL.
func WithFormatter(f sqlfmt.Formatter) WriterOption {
	return func(w *Writer) {
		if f != nil {
			w.formatter = f
		}
	}
}

// WithStatementDelimiter sets the terminator written after each statement. Defaults to ";".
func WithStatementDelimiter(d string) WriterOption {
	return func(w *Writer) {
		w.delimiter = d
	}
}

// NewWriter returns a Writer for the given output directory.
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{
		dir:       dir,
		formatter: sqlfmt.DDL,
		delimiter: DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the path of the named file inside the output directory.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Metrics returns the counters accumulated by the writer.
func (w *Writer) Metrics() WriterMetrics {
	return w.metrics
}

// Write creates or truncates the artifact file and writes every statement
// followed by the delimiter and a blank line. The file is closed on every
// path; a partially written file may remain on failure.
func (w *Writer) Write(a *Artifact) (err error) {
	path := w.Path(a.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()
	var (
		n  int64
		bw = bufio.NewWriter(f)
	)
	for _, stmt := range a.Script.Statements {
		for _, s := range []string{w.formatter.Format(stmt), w.delimiter, "\n\n"} {
			m, err := bw.WriteString(s)
			n += int64(m)
			if err != nil {
				return &IOError{Op: "write", Path: path, Err: err}
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return &IOError{Op: "flush", Path: path, Err: err}
	}
	w.metrics.FilesWritten++
	w.metrics.Statements += len(a.Script.Statements)
	w.metrics.TotalBytes += n
	return nil
}
