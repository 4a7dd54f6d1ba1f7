// Package compiler runs an export: it loads the namespace packages from the
// classpath, maps the marked types and writes the create and drop scripts.
package compiler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/syssam/ddlexport/compiler/gen"
	"github.com/syssam/ddlexport/compiler/load"
	"github.com/syssam/ddlexport/dialect/sql"
	"github.com/syssam/ddlexport/dialect/sql/sqlfmt"
)

// Result describes a completed export.
type Result struct {
	// Entities are the discovered candidates, sorted by name.
	Entities []*load.Entity
	// Files are the paths written, in order.
	Files   []string
	Metrics gen.WriterMetrics
	// Verification holds the execution statistics of the verified scripts,
	// or nil if verification is disabled.
	Verification *sql.StatsSnapshot
}

// Export runs the pipeline for the given configuration. Stages run one after
// the other, and the first failure aborts the run. Scripts are planned before
// any file is written, so a configuration or generation error leaves the
// output directory untouched.
func Export(ctx context.Context, cfg *gen.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("exporting schema", "namespace", cfg.Namespace, "dialect", cfg.Dialect, "output", cfg.OutputDir)

	entities, err := Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	g, err := gen.NewGraph(cfg, entities...)
	if err != nil {
		return nil, err
	}
	artifacts := map[gen.ScriptKind]string{
		gen.CreateScript: cfg.CreateFile,
		gen.DropScript:   cfg.DropFile,
	}
	var kinds []gen.ScriptKind
	for _, kind := range []gen.ScriptKind{gen.CreateScript, gen.DropScript} {
		if artifacts[kind] == "" {
			logger.Info("skipping script", "kind", kind)
			continue
		}
		kinds = append(kinds, kind)
	}
	planned := kinds
	if cfg.VerifyDSN != "" {
		planned = []gen.ScriptKind{gen.CreateScript, gen.DropScript}
	}
	scripts, err := gen.Generate(ctx, g, planned...)
	if err != nil {
		return nil, err
	}
	res := &Result{Entities: entities}
	if cfg.VerifyDSN != "" {
		if res.Verification, err = verify(ctx, cfg, logger, scripts); err != nil {
			return nil, err
		}
	}

	formatter := sqlfmt.None
	if cfg.Format {
		formatter = sqlfmt.DDL
	}
	w := gen.NewWriter(cfg.OutputDir, gen.WithFormatter(formatter), gen.WithStatementDelimiter(cfg.Delimiter))
	for _, kind := range kinds {
		a := &gen.Artifact{Name: artifacts[kind], Script: scripts[kind]}
		if err := w.Write(a); err != nil {
			return nil, err
		}
		path := w.Path(a.Name)
		logger.Info("wrote script", "kind", kind, "path", path, "statements", len(a.Script.Statements))
		res.Files = append(res.Files, path)
	}
	if cfg.ManifestFile != "" {
		if err := gen.WriteManifest(g, w, cfg.ManifestFile, cfg.ManifestPackage); err != nil {
			return nil, err
		}
		path := w.Path(cfg.ManifestFile)
		logger.Info("wrote manifest", "path", path, "entities", len(g.Nodes))
		res.Files = append(res.Files, path)
	}
	res.Metrics = w.Metrics()
	return res, nil
}

// verify executes the create script and then the drop script on the
// configured database. The DSN is left out of errors since it may hold
// credentials.
func verify(ctx context.Context, cfg *gen.Config, logger *slog.Logger, scripts map[gen.ScriptKind]*gen.Script) (*sql.StatsSnapshot, error) {
	drv, err := sql.Open(ctx, cfg.Dialect, cfg.VerifyDSN)
	if err != nil {
		return nil, &gen.ConfigError{Option: "VerifyDSN", Message: "cannot verify scripts", Cause: err}
	}
	defer drv.Close()

	stats := sql.NewStatsDriver(drv, sql.WithLogger(logger))
	if err := sql.Verify(ctx, stats, scripts[gen.CreateScript].Statements, scripts[gen.DropScript].Statements); err != nil {
		return nil, gen.NewGenerationError("verify", "", "script failed on "+drv.Dialect(), err)
	}
	snap := stats.Stats().Snapshot()
	logger.Info("verified scripts", "dialect", drv.Dialect(), "stats", snap.String())
	return &snap, nil
}

// Load builds the classpath of the configuration and scans it for candidates.
// Loader errors are classified as configuration or schema errors; package
// loading failures are returned as *load.PackageError.
func Load(ctx context.Context, cfg *gen.Config) ([]*load.Entity, error) {
	opts := []load.ClasspathOption{load.WithBuildFlags(cfg.BuildFlags...)}
	if cfg.Logger != nil {
		opts = append(opts, load.WithLogger(cfg.Logger))
	}
	cp, err := load.NewClasspath(cfg.Classpath, opts...)
	if err != nil {
		return nil, &gen.ConfigError{Option: "Classpath", Value: cfg.Classpath, Cause: err}
	}
	entities, err := load.Scan(ctx, cp, cfg.Namespace)
	var merr *load.MarkerError
	switch {
	case err == nil:
		return entities, nil
	case errors.Is(err, load.ErrNoEntities), errors.Is(err, load.ErrInvalidNamespace):
		return nil, &gen.ConfigError{Option: "Namespace", Value: cfg.Namespace, Cause: err}
	case errors.As(err, &merr):
		return nil, gen.NewSchemaError(merr.Type, "", "", err)
	case errors.Is(err, load.ErrInvalidMarker):
		return nil, gen.NewSchemaError("", "", "", err)
	default:
		return nil, err
	}
}
