package compiler

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ddlexport/compiler/gen"
	"github.com/syssam/ddlexport/compiler/load"
	"github.com/syssam/ddlexport/dialect"
)

func config(t *testing.T, classpath string, opts ...gen.Option) (*gen.Config, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "sql")
	opts = append([]gen.Option{
		gen.WithClasspath(filepath.Join("load", "testdata", classpath)),
		gen.WithOutputDir(out),
		gen.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}, opts...)
	cfg, err := gen.NewConfig(opts...)
	require.NoError(t, err)
	return cfg, out
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestExport_Widget(t *testing.T) {
	cfg, out := config(t, "app", gen.WithNamespace("app/entity"), gen.WithDialect("GenericSqlDialect"))
	res, err := Export(context.Background(), cfg)
	require.NoError(t, err)

	create := filepath.Join(out, "create.sql")
	drop := filepath.Join(out, "drop.sql")
	assert.Equal(t, []string{create, drop}, res.Files)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, "app/entity.Widget", res.Entities[0].Name)

	assert.Contains(t, read(t, create), `CREATE TABLE "Widget" (`)
	assert.True(t, strings.HasSuffix(read(t, create), ";\n\n"))
	assert.Contains(t, read(t, drop), `DROP TABLE IF EXISTS "Widget";`)
	assert.Equal(t, 2, res.Metrics.FilesWritten)
}

func TestExport_Shop(t *testing.T) {
	cfg, out := config(t, "shop",
		gen.WithNamespace("example.com/shop/entity"),
		gen.WithDialect("postgres"),
		gen.WithNaming(gen.NamingSnake),
		gen.WithManifest("entities.go", ""),
	)
	res, err := Export(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)

	create := read(t, filepath.Join(out, "create.sql"))
	for _, table := range []string{"customer", "line_item", "orders", "event"} {
		assert.Contains(t, create, `CREATE TABLE "`+table+`"`)
	}
	assert.NotContains(t, create, `CREATE TABLE "base"`, "mapped superclasses have no table")
	assert.NotContains(t, create, "notes", "skipped fields have no column")
	assert.Contains(t, create, `"customer_id"`)
	assert.Contains(t, create, `"sku_code"`)
	assert.Equal(t, 2, strings.Count(create, `"created_at"`), "superclass fields appear in every subclass table")

	manifest := read(t, filepath.Join(out, "entities.go"))
	assert.Contains(t, manifest, "package schema")
	assert.Regexp(t, `"example.com/shop/entity.Order":\s+"orders"`, manifest)
}

func TestExport_SkipScripts(t *testing.T) {
	cfg, out := config(t, "app", gen.WithNamespace("app/entity"), gen.WithDialect("mysql"), gen.WithCreateFile(""))
	res, err := Export(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "drop.sql")}, res.Files)
	assert.NoFileExists(t, filepath.Join(out, "create.sql"))

	cfg, out = config(t, "app", gen.WithNamespace("app/entity"), gen.WithDialect("mysql"), gen.WithDropFile(""))
	res, err = Export(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(out, "create.sql")}, res.Files)
	assert.NoFileExists(t, filepath.Join(out, "drop.sql"))
}

func TestExport_Idempotent(t *testing.T) {
	cfg, out := config(t, "shop", gen.WithNamespace("example.com/shop/entity"), gen.WithDialect("postgres"))
	_, err := Export(context.Background(), cfg)
	require.NoError(t, err)
	first := read(t, filepath.Join(out, "create.sql"))

	_, err = Export(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first, read(t, filepath.Join(out, "create.sql")))
}

func TestExport_Dedupe(t *testing.T) {
	cfg, out := config(t, "shop",
		gen.WithNamespace("example.com/shop/entity/audit"),
		gen.WithDialect("postgres"),
		gen.WithClasspath(filepath.Join("load", "testdata", "shop")),
	)
	res, err := Export(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, 1, strings.Count(read(t, filepath.Join(out, "create.sql")), "CREATE TABLE"))
}

func TestExport_Verify(t *testing.T) {
	cfg, out := config(t, "shop",
		gen.WithNamespace("example.com/shop/entity"),
		gen.WithDialect("sqlite"),
		gen.WithVerify("file:export?mode=memory&_pragma=foreign_keys(1)"),
		gen.WithDropFile(""),
	)
	res, err := Export(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Verification)
	assert.Positive(t, res.Verification.Statements)
	assert.Zero(t, res.Verification.Errors)
	assert.Equal(t, []string{filepath.Join(out, "create.sql")}, res.Files, "the drop script is planned but not written")
}

func TestExport_VerifyGeneric(t *testing.T) {
	cfg, out := config(t, "app",
		gen.WithNamespace("app/entity"),
		gen.WithDialect("generic"),
		gen.WithVerify("file:generic?mode=memory"),
	)
	_, err := Export(context.Background(), cfg)
	assert.ErrorIs(t, err, gen.ErrMissingConfig)
	assert.ErrorContains(t, err, "no database driver")
	assert.NoDirExists(t, out)
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cp    string
		opts  []gen.Option
		check func(*testing.T, error)
	}{
		{
			name: "unknown dialect",
			cp:   "app",
			opts: []gen.Option{gen.WithNamespace("app/entity"), gen.WithDialect("Oracle12cDialect")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gen.ErrMissingConfig)
				assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
			},
		},
		{
			name: "no entities",
			cp:   "empty",
			opts: []gen.Option{gen.WithNamespace("example.com/empty"), gen.WithDialect("mysql")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gen.ErrMissingConfig)
				assert.ErrorIs(t, err, load.ErrNoEntities)
			},
		},
		{
			name: "missing namespace",
			cp:   "app",
			opts: []gen.Option{gen.WithDialect("mysql")},
			check: func(t *testing.T, err error) {
				assert.True(t, gen.IsConfigError(err))
			},
		},
		{
			name: "marker on non-struct",
			cp:   "invalid",
			opts: []gen.Option{gen.WithNamespace("example.com/invalid/bad"), gen.WithDialect("mysql")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, gen.ErrInvalidSchema)
				assert.ErrorIs(t, err, load.ErrInvalidMarker)
			},
		},
		{
			name: "package error",
			cp:   "invalid",
			opts: []gen.Option{gen.WithNamespace("example.com/invalid/broken"), gen.WithDialect("mysql")},
			check: func(t *testing.T, err error) {
				var perr *load.PackageError
				assert.ErrorAs(t, err, &perr)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, out := config(t, tt.cp, tt.opts...)
			_, err := Export(context.Background(), cfg)
			require.Error(t, err)
			tt.check(t, err)
			assert.NoDirExists(t, out, "nothing is written on failure")
		})
	}
}

func TestExport_OutputNotWritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg, _ := config(t, "app", gen.WithNamespace("app/entity"), gen.WithDialect("sqlite"), gen.WithOutputDir(file))

	_, err := Export(context.Background(), cfg)
	assert.ErrorIs(t, err, gen.ErrIO)
}
