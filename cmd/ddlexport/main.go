// Command ddlexport writes the create and drop scripts of the entity types
// found in a namespace.
//
// Usage:
//
//	ddlexport -namespace example.com/shop/entity -dialect postgres [flags]
//	ddlexport -config ddlexport.yaml [flags]
//
// Flags given on the command line override the values of the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/syssam/ddlexport/compiler"
	"github.com/syssam/ddlexport/compiler/gen"
	"github.com/syssam/ddlexport/dialect"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		msg := err.Error()
		if !strings.HasPrefix(msg, "ddlexport: ") {
			msg = "ddlexport: " + msg
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ddlexport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to a YAML config file")
		verbose    = fs.Bool("v", false, "enable debug logging")
	)
	fs.String("namespace", "", "import path of the namespace to scan")
	fs.String("dialect", "", "SQL dialect ("+strings.Join(dialect.Names(), ", ")+")")
	fs.String("out", gen.DefaultOutputDir, "output directory")
	fs.String("create", gen.DefaultCreateFile, "create script file name, empty to skip")
	fs.String("drop", gen.DefaultDropFile, "drop script file name, empty to skip")
	fs.String("classpath", "", "directories to load packages from, separated by "+strconv.QuoteRune(os.PathListSeparator))
	fs.String("tags", "", "comma separated build tags")
	fs.String("naming", gen.NamingExact, "naming strategy (exact, snake, snake_plural)")
	fs.String("delimiter", gen.DefaultDelimiter, "statement delimiter")
	fs.Bool("format", true, "pretty print statements")
	fs.String("manifest", "", "file name of the generated Go entity manifest")
	fs.String("manifest-package", gen.DefaultManifestPackage, "package clause of the manifest")
	fs.String("verify", "", "data source name of a scratch database the scripts are verified on")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: ddlexport -namespace <import path> -dialect <dialect> [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config(fs, *configPath)
	if err != nil {
		return err
	}
	cfg.Logger = logger

	res, err := compiler.Export(ctx, cfg)
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		fmt.Fprintln(stdout, f)
	}
	return nil
}

// config loads the config file, if any, and applies the flags set on the
// command line on top of it.
func config(fs *flag.FlagSet, path string) (*gen.Config, error) {
	var (
		cfg *gen.Config
		err error
	)
	if path != "" {
		cfg, err = gen.LoadConfig(path)
	} else {
		cfg, err = gen.NewConfig()
	}
	if err != nil {
		return nil, err
	}
	var opts []gen.Option
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "namespace":
			opts = append(opts, gen.WithNamespace(v))
		case "dialect":
			opts = append(opts, gen.WithDialect(v))
		case "out":
			opts = append(opts, gen.WithOutputDir(v))
		case "create":
			opts = append(opts, gen.WithCreateFile(v))
		case "drop":
			opts = append(opts, gen.WithDropFile(v))
		case "classpath":
			cfg.Classpath = nil
			opts = append(opts, gen.WithClasspath(filepath.SplitList(v)...))
		case "tags":
			opts = append(opts, gen.WithBuildFlags("-tags="+v))
		case "naming":
			opts = append(opts, gen.WithNaming(v))
		case "delimiter":
			opts = append(opts, gen.WithDelimiter(v))
		case "format":
			opts = append(opts, gen.WithFormat(v == "true"))
		case "manifest":
			cfg.ManifestFile = v
		case "manifest-package":
			cfg.ManifestPackage = v
		case "verify":
			opts = append(opts, gen.WithVerify(v))
		}
	})
	if err := cfg.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
