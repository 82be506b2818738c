package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/catalog"
	"github.com/jonathan/careerpilot/internal/config"
	"github.com/jonathan/careerpilot/internal/logger"
	"github.com/jonathan/careerpilot/internal/observability"
	"github.com/jonathan/careerpilot/internal/pipeline"
	"github.com/jonathan/careerpilot/internal/schemas"
	"github.com/jonathan/careerpilot/internal/skills"
	"github.com/jonathan/careerpilot/internal/types"
)

// app bundles what every subcommand needs after config is resolved.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	engine  *pipeline.Engine
	printer *observability.Printer
	stdout  io.Writer
}

// newApp resolves config from file, environment and flags, installs the synonym
// table and builds the engine.
func newApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return nil, err
	}

	flagCfg := config.Config{
		DatabaseURL: rootDatabaseURL,
		SQLitePath:  rootSQLitePath,
		CatalogDir:  rootCatalogDir,
		Concurrency: rootConcurrency,
		Verbose:     rootVerbose || fileCfg.Verbose,
		LogJSON:     rootLogJSON || fileCfg.LogJSON,
		Synonyms:    fileCfg.Synonyms,
	}
	defaults := *fileCfg
	// A catalog flag replaces whichever source the config file names.
	if rootDatabaseURL != "" || rootSQLitePath != "" || rootCatalogDir != "" {
		defaults.DatabaseURL, defaults.SQLitePath, defaults.CatalogDir = "", "", ""
	}
	cfg := flagCfg.MergeWithDefaults(defaults)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := skills.LoadSynonyms(cfg.SynonymTable()); err != nil {
		return nil, fmt.Errorf("failed to load synonyms: %w", err)
	}

	log, err := logger.New(cfg.LogJSON, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	engine := pipeline.New(pipeline.Options{
		Concurrency: cfg.Concurrency,
		OnProgress: func(event pipeline.ProgressEvent) {
			log.Debug(event.Message, zap.String("step", event.Step))
		},
	})

	return &app{
		cfg:     cfg,
		log:     log,
		engine:  engine,
		printer: observability.NewPrinter(cmd.ErrOrStderr()),
		stdout:  cmd.OutOrStdout(),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

// openCatalog opens the configured catalog store.
func (a *app) openCatalog(ctx context.Context) (catalog.Store, error) {
	store, err := catalog.Open(ctx, catalog.Options{
		DatabaseURL: a.cfg.DatabaseURL,
		SQLitePath:  a.cfg.SQLitePath,
		Dir:         a.cfg.CatalogDir,
	}, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}

// loadProfile validates a ResumeProfile file against its schema and decodes it.
// Profiles without a candidate id get a random one.
func loadProfile(path string) (*types.ResumeProfile, error) {
	if err := schemas.ValidateFile(schemas.ResumeProfile, path); err != nil {
		return nil, fmt.Errorf("invalid resume profile %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume profile file %s: %w", path, err)
	}

	var profile types.ResumeProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume profile JSON: %w", err)
	}
	if profile.CandidateID == "" {
		profile.CandidateID = uuid.NewString()
	}
	return &profile, nil
}

// loadList validates a JSON array file against the named schema and decodes it into out.
func loadList(name schemas.Name, path string, out any) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.ValidateList(name, content); err != nil {
		return fmt.Errorf("invalid %s file %s: %w", name, path, err)
	}
	if err := json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return nil
}

// writeOutput marshals v as indented JSON to path, or to stdout when path is empty.
func (a *app) writeOutput(path string, v any) error {
	jsonOutput, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output to JSON: %w", err)
	}

	if path == "" {
		_, err := fmt.Fprintln(a.stdout, string(jsonOutput))
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	a.log.Info("wrote output", zap.String("path", path))
	return nil
}

// resolveTarget looks up the job or role a gap analysis aims at.
func resolveTarget(ctx context.Context, store catalog.Store, jobID, role string) (pipeline.CourseTarget, error) {
	switch {
	case jobID != "" && role != "":
		return pipeline.CourseTarget{}, fmt.Errorf("--job-id and --role are mutually exclusive")
	case jobID != "":
		job, err := catalog.FindJob(ctx, store, jobID)
		if err != nil {
			return pipeline.CourseTarget{}, err
		}
		return pipeline.CourseTarget{Job: job}, nil
	case role != "":
		r, err := catalog.FindRole(ctx, store, role)
		if err != nil {
			return pipeline.CourseTarget{}, err
		}
		return pipeline.CourseTarget{Role: r}, nil
	default:
		return pipeline.CourseTarget{}, fmt.Errorf("one of --job-id or --role is required")
	}
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}
