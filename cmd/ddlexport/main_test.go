package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ddlexport/compiler/gen"
)

var fixtures = filepath.Join("..", "..", "compiler", "load", "testdata")

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	out := t.TempDir()
	stdout, stderr, err := execute(t,
		"-namespace", "app/entity",
		"-dialect", "org.hibernate.dialect.PostgreSQLDialect",
		"-classpath", filepath.Join(fixtures, "app"),
		"-out", out,
	)
	require.NoError(t, err)

	create, drop := filepath.Join(out, "create.sql"), filepath.Join(out, "drop.sql")
	assert.Equal(t, create+"\n"+drop+"\n", stdout)
	assert.Contains(t, stderr, "discovered type")
	assert.NotContains(t, stderr, "level=DEBUG")

	b, err := os.ReadFile(create)
	require.NoError(t, err)
	assert.Contains(t, string(b), `CREATE TABLE "Widget"`)
}

func TestRun_ConfigFile(t *testing.T) {
	out := t.TempDir()
	path := filepath.Join(t.TempDir(), "ddlexport.yaml")
	abs, err := filepath.Abs(filepath.Join(fixtures, "shop"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"namespace: example.com/shop/entity",
		"dialect: mysql",
		"output_directory: " + out,
		"classpath: [" + abs + "]",
		"naming: snake",
		"create_filename: schema.sql",
		"delimiter: ';'",
	}, "\n")), 0o644))

	stdout, _, err := execute(t, "-config", path, "-dialect", "sqlite", "-drop", "", "-v")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "schema.sql")+"\n", stdout)
	assert.NoFileExists(t, filepath.Join(out, "drop.sql"))

	b, err := os.ReadFile(filepath.Join(out, "schema.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "`line_item`", "sqlite quoting from the flag")
}

func TestConfig_FlagsOverride(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("namespace", "", "")
	fs.String("classpath", "", "")
	fs.String("tags", "", "")
	fs.Bool("format", true, "")
	fs.String("manifest", "", "")
	fs.String("out", gen.DefaultOutputDir, "")
	require.NoError(t, fs.Parse([]string{
		"-namespace", "example.com/x",
		"-classpath", strings.Join([]string{"a", "b"}, string(os.PathListSeparator)),
		"-tags", "integration",
		"-format=false",
		"-manifest", "entities.go",
	}))

	cfg, err := config(fs, "")
	require.NoError(t, err)
	assert.Equal(t, "example.com/x", cfg.Namespace)
	assert.Equal(t, []string{"a", "b"}, cfg.Classpath)
	assert.Equal(t, []string{"-tags=integration"}, cfg.BuildFlags)
	assert.False(t, cfg.Format)
	assert.Equal(t, "entities.go", cfg.ManifestFile)
	assert.Equal(t, gen.DefaultManifestPackage, cfg.ManifestPackage)
	assert.Equal(t, gen.DefaultOutputDir, cfg.OutputDir, "unset flags keep the default")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing namespace",
			args: []string{"-dialect", "mysql"},
			want: "namespace is required",
		},
		{
			name: "unknown dialect",
			args: []string{"-namespace", "app/entity", "-dialect", "Oracle10gDialect", "-classpath", filepath.Join(fixtures, "app")},
			want: "unknown dialect",
		},
		{
			name: "unexpected argument",
			args: []string{"-namespace", "app/entity", "extra"},
			want: "unexpected arguments: extra",
		},
		{
			name: "missing config file",
			args: []string{"-config", filepath.Join("testdata", "missing.yaml")},
			want: "read config file",
		},
		{
			name: "unknown flag",
			args: []string{"-bogus"},
			want: "flag provided but not defined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append(tt.args, "-out", t.TempDir())...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, stdout)
		})
	}
}

func TestRun_Help(t *testing.T) {
	_, stderr, err := execute(t, "-h")
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, stderr, "Usage: ddlexport")
}
